package layout

import (
	"testing"
	"time"
)

// fakeClock is a manually advanced clock for hover tests.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestHover_EnterShowsTooltip(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	h := NewHoverTracker(100*time.Millisecond, clock.now)

	if _, ok := h.Visible(); ok {
		t.Error("tooltip visible while idle")
	}

	h.Enter("n1")
	if id, ok := h.Visible(); !ok || id != "n1" {
		t.Errorf("Visible() = (%q, %v), want (n1, true)", id, ok)
	}
}

func TestHover_LeaveHidesAfterDeadline(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	h := NewHoverTracker(100*time.Millisecond, clock.now)

	h.Enter("n1")
	h.Leave()
	if !h.PendingHide() {
		t.Fatal("not pending hide after leave")
	}

	// Still visible before the deadline.
	clock.advance(50 * time.Millisecond)
	h.Advance()
	if _, ok := h.Visible(); !ok {
		t.Error("tooltip hidden before the deadline")
	}

	clock.advance(60 * time.Millisecond)
	h.Advance()
	if _, ok := h.Visible(); ok {
		t.Error("tooltip still visible after the deadline")
	}
}

func TestHover_ReentryCancelsPendingHide(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	h := NewHoverTracker(100*time.Millisecond, clock.now)

	h.Enter("n1")
	h.Leave()
	h.Enter("n1") // back onto the same node

	if h.PendingHide() {
		t.Error("pending hide survived re-entry")
	}

	// The old deadline must not fire.
	clock.advance(time.Second)
	h.Advance()
	if id, ok := h.Visible(); !ok || id != "n1" {
		t.Errorf("Visible() = (%q, %v) after canceled hide, want (n1, true)", id, ok)
	}
}

func TestHover_MovingToAnotherNode(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	h := NewHoverTracker(100*time.Millisecond, clock.now)

	h.Enter("n1")
	h.Leave()
	h.Enter("n2") // direct hop cancels n1's hide and switches targets

	clock.advance(time.Second)
	h.Advance()
	if id, ok := h.Visible(); !ok || id != "n2" {
		t.Errorf("Visible() = (%q, %v), want (n2, true)", id, ok)
	}
}

func TestHover_LeaveWhileIdleIsNoOp(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	h := NewHoverTracker(100*time.Millisecond, clock.now)

	h.Leave()
	h.Advance()
	if _, ok := h.Visible(); ok {
		t.Error("leave while idle produced a visible tooltip")
	}
}
