package layout

import "time"

// HoverTracker decides tooltip visibility for node hover events. It is
// a three-state machine: Idle, Hovering(node), and PendingHide(node,
// deadline). Re-entering a node cancels any pending hide. The tracker
// is pure state plus an injected clock, so it tests without a renderer
// or real timers.
type HoverTracker struct {
	hideDelay time.Duration
	now       func() time.Time

	hovering bool
	nodeID   string
	deadline time.Time // zero while Hovering; set while PendingHide
}

// DefaultHideDelay is how long a tooltip lingers after the pointer
// leaves its node.
const DefaultHideDelay = 300 * time.Millisecond

// NewHoverTracker creates a tracker with the given hide delay. A nil
// clock uses time.Now.
func NewHoverTracker(hideDelay time.Duration, now func() time.Time) *HoverTracker {
	if hideDelay <= 0 {
		hideDelay = DefaultHideDelay
	}
	if now == nil {
		now = time.Now
	}
	return &HoverTracker{hideDelay: hideDelay, now: now}
}

// Enter records the pointer entering a node. Any pending hide is
// canceled, including when the pointer returns to the same node.
func (h *HoverTracker) Enter(nodeID string) {
	h.hovering = true
	h.nodeID = nodeID
	h.deadline = time.Time{}
}

// Leave records the pointer leaving the current node, starting the
// hide countdown. Leaving while Idle is a no-op.
func (h *HoverTracker) Leave() {
	if !h.hovering || !h.deadline.IsZero() {
		return
	}
	h.deadline = h.now().Add(h.hideDelay)
}

// Advance expires a pending hide whose deadline has passed. Call once
// per frame.
func (h *HoverTracker) Advance() {
	if h.hovering && !h.deadline.IsZero() && !h.now().Before(h.deadline) {
		h.hovering = false
		h.nodeID = ""
		h.deadline = time.Time{}
	}
}

// Visible returns the node whose tooltip should be shown, if any.
func (h *HoverTracker) Visible() (string, bool) {
	return h.nodeID, h.hovering
}

// PendingHide reports whether the tracker is counting down to hide.
func (h *HoverTracker) PendingHide() bool {
	return h.hovering && !h.deadline.IsZero()
}
