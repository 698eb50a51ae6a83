package layout

import "github.com/matsen/citemap/internal/citegraph"

// Drag interaction, modeled as a two-state machine: Idle and
// Dragging(node). Both layout modes share it; only the unpin policy on
// release differs.
type dragState struct {
	node *citegraph.Node // nil = Idle
}

// Dragging returns the ID of the node being dragged, if any.
func (e *Engine) Dragging() (string, bool) {
	if e.drag.node == nil {
		return "", false
	}
	return e.drag.node.ID, true
}

// DragStart begins dragging the named node at the pointer position.
// The simulation reheats so the rest of the layout stays responsive.
// Unknown IDs are ignored and the machine stays Idle.
func (e *Engine) DragStart(id string, x, y float64) bool {
	var target *citegraph.Node
	for _, n := range e.nodes {
		if n.ID == id {
			target = n
			break
		}
	}
	if target == nil {
		return false
	}

	e.drag.node = target
	e.alphaTarget = dragReheatTarget
	if e.alpha < dragReheatTarget {
		e.alpha = dragReheatTarget
	}
	target.Pin(e.clampPointerX(target, x), y)
	return true
}

// DragMove re-pins the dragged node at the pointer. In year mode the
// pointer x is clamped into the node's bucket before pinning. A move
// while Idle is a no-op.
func (e *Engine) DragMove(x, y float64) {
	n := e.drag.node
	if n == nil {
		return
	}
	n.Pin(e.clampPointerX(n, x), y)
}

// DragEnd cools the simulation back down and releases the node. In
// free mode the center node is the exception: it stays pinned wherever
// it was dropped.
func (e *Engine) DragEnd() {
	n := e.drag.node
	if n == nil {
		return
	}
	e.drag.node = nil
	e.alphaTarget = 0

	if e.mode == ModeFree && n.Type == citegraph.NodeCenter {
		return // remains pinned at the drop location
	}
	n.Unpin()
}

func (e *Engine) clampPointerX(n *citegraph.Node, x float64) float64 {
	if e.mode != ModeYear {
		return x
	}
	return e.buckets.Slot(e.slotOf[n.ID]).Clamp(x)
}
