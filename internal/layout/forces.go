package layout

import "math"

// applyLinkForce pulls each linked pair toward the target separation.
// The correction is split between the endpoints in proportion to their
// degrees, so well-connected nodes move less.
func (e *Engine) applyLinkForce() {
	for _, l := range e.links {
		s, t := l.source, l.target

		dx := t.X + t.VX - s.X - s.VX
		dy := t.Y + t.VY - s.Y - s.VY
		if dx == 0 {
			dx = e.jiggle()
		}
		if dy == 0 {
			dy = e.jiggle()
		}

		dist := math.Sqrt(dx*dx + dy*dy)
		ds, dt := e.degree[s.ID], e.degree[t.ID]
		strength := 1.0 / float64(min(ds, dt))
		f := (dist - e.cfg.LinkDistance) / dist * e.alpha * strength

		bias := float64(ds) / float64(ds+dt)
		t.VX -= dx * f * bias
		t.VY -= dy * f * bias
		s.VX += dx * f * (1 - bias)
		s.VY += dy * f * (1 - bias)
	}
}

// applyManyBody applies pairwise repulsion with inverse-square falloff.
// Graphs here are two-hop neighborhoods, small enough that the exact
// O(n^2) pass beats a Barnes-Hut approximation.
func (e *Engine) applyManyBody() {
	const distMin2 = 1.0

	for i := 0; i < len(e.nodes); i++ {
		a := e.nodes[i]
		for j := i + 1; j < len(e.nodes); j++ {
			b := e.nodes[j]

			dx := b.X - a.X
			dy := b.Y - a.Y
			if dx == 0 {
				dx = e.jiggle()
			}
			if dy == 0 {
				dy = e.jiggle()
			}

			d2 := dx*dx + dy*dy
			if d2 < distMin2 {
				d2 = distMin2
			}

			w := e.cfg.ChargeStrength * e.alpha / d2
			b.VX += dx * w
			b.VY += dy * w
			a.VX -= dx * w
			a.VY -= dy * w
		}
	}
}

// applyCenter translates the whole system so its mean position sits at
// the canvas center. Like d3's forceCenter this adjusts positions
// directly, not velocities.
func (e *Engine) applyCenter() {
	if len(e.nodes) == 0 {
		return
	}

	var sx, sy float64
	for _, n := range e.nodes {
		sx += n.X
		sy += n.Y
	}
	sx = sx/float64(len(e.nodes)) - e.cfg.Width/2
	sy = sy/float64(len(e.nodes)) - e.cfg.Height/2

	for _, n := range e.nodes {
		if n.Pinned() {
			continue
		}
		n.X -= sx
		n.Y -= sy
	}
}

// applyAxisSprings pulls each node toward its year bucket's center on
// x and weakly toward the vertical center on y.
func (e *Engine) applyAxisSprings() {
	cy := e.cfg.Height / 2
	for _, n := range e.nodes {
		b := e.buckets.Slot(e.slotOf[n.ID])
		n.VX += (b.Center() - n.X) * e.cfg.XStrength * e.alpha
		n.VY += (cy - n.Y) * e.cfg.YStrength * e.alpha
	}
}

// applyCollide pushes apart node pairs closer than the sum of their
// collision radii.
func (e *Engine) applyCollide() {
	r := e.cfg.CollideRadius
	minSep := 2 * r

	for i := 0; i < len(e.nodes); i++ {
		a := e.nodes[i]
		for j := i + 1; j < len(e.nodes); j++ {
			b := e.nodes[j]

			dx := b.X + b.VX - a.X - a.VX
			dy := b.Y + b.VY - a.Y - a.VY
			if dx == 0 {
				dx = e.jiggle()
			}
			if dy == 0 {
				dy = e.jiggle()
			}

			d2 := dx*dx + dy*dy
			if d2 >= minSep*minSep {
				continue
			}

			d := math.Sqrt(d2)
			push := (minSep - d) / d / 2
			dx *= push
			dy *= push
			b.VX += dx
			b.VY += dy
			a.VX -= dx
			a.VY -= dy
		}
	}
}
