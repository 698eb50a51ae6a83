// Package layout computes 2D positions for citation graphs with a
// force-directed simulation.
//
// The simulation follows d3-force semantics: a decaying alpha value
// scales every force, velocities decay each tick, and pinned nodes
// (fx/fy) override integration. It advances one discrete step per
// render frame and is single-threaded; a superseding graph build must
// discard the engine instance rather than signal it.
package layout

import (
	"math"
	"math/rand"

	"github.com/matsen/citemap/internal/citegraph"
)

// Mode selects the layout variant.
type Mode int

const (
	// ModeFree is the unconstrained relaxation with the center paper
	// pinned at the canvas center.
	ModeFree Mode = iota
	// ModeYear partitions the x-axis into per-year buckets with hard
	// positional bounds.
	ModeYear
)

// Simulation defaults.
const (
	DefaultWidth  = 960.0
	DefaultHeight = 600.0

	DefaultLinkDistance   = 100.0
	DefaultChargeStrength = -300.0
	DefaultCollideRadius  = 30.0
	DefaultXStrength      = 0.5
	DefaultYStrength      = 0.1

	alphaMin             = 0.001
	defaultAlphaDecay    = 0.0228 // 1 - alphaMin^(1/300)
	defaultVelocityDecay = 0.4
	dragReheatTarget     = 0.3
)

// Config holds the tunable simulation parameters. Zero values select
// the defaults above.
type Config struct {
	Width, Height  float64
	LinkDistance   float64
	ChargeStrength float64
	CollideRadius  float64
	XStrength      float64 // year mode: pull toward bucket center
	YStrength      float64 // year mode: pull toward vertical center
	Seed           int64
}

func (c Config) withDefaults() Config {
	if c.Width == 0 {
		c.Width = DefaultWidth
	}
	if c.Height == 0 {
		c.Height = DefaultHeight
	}
	if c.LinkDistance == 0 {
		c.LinkDistance = DefaultLinkDistance
	}
	if c.ChargeStrength == 0 {
		c.ChargeStrength = DefaultChargeStrength
	}
	if c.CollideRadius == 0 {
		c.CollideRadius = DefaultCollideRadius
	}
	if c.XStrength == 0 {
		c.XStrength = DefaultXStrength
	}
	if c.YStrength == 0 {
		c.YStrength = DefaultYStrength
	}
	return c
}

// link is an edge resolved to node pointers.
type link struct {
	source, target *citegraph.Node
}

// Position is one node's current coordinates.
type Position struct {
	ID   string  `json:"id"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Year int     `json:"year,omitempty"`
}

// Engine runs the simulation over one graph's nodes. It owns the nodes'
// position, velocity, and pin state for the duration of one run.
type Engine struct {
	mode  Mode
	cfg   Config
	nodes []*citegraph.Node
	links []link
	// degree counts feed the link force bias, as in d3.
	degree map[string]int

	buckets *Buckets // nil in free mode
	slotOf  map[string]int

	alpha         float64
	alphaTarget   float64
	alphaDecay    float64
	velocityDecay float64

	rng  *rand.Rand
	drag dragState
}

// New creates an engine for the graph in the given mode. Edges whose
// endpoints are missing from the node set are a configuration error
// and are dropped here rather than crashing the simulation.
func New(g *citegraph.Graph, mode Mode, cfg Config) *Engine {
	cfg = cfg.withDefaults()

	e := &Engine{
		mode:          mode,
		cfg:           cfg,
		nodes:         g.Nodes,
		degree:        make(map[string]int),
		alpha:         1,
		alphaDecay:    defaultAlphaDecay,
		velocityDecay: defaultVelocityDecay,
		rng:           rand.New(rand.NewSource(cfg.Seed)),
	}

	for _, edge := range g.Edges {
		src, okS := g.Lookup(edge.SourceID)
		dst, okT := g.Lookup(edge.TargetID)
		if !okS || !okT {
			continue
		}
		e.links = append(e.links, link{source: src, target: dst})
		e.degree[src.ID]++
		e.degree[dst.ID]++
	}

	if mode == ModeYear {
		e.buckets, e.slotOf = PartitionByYear(g.Nodes, cfg.Width)
	}
	e.initPositions(g.Center)

	return e
}

// initPositions seeds starting coordinates. Free mode uses the d3
// phyllotaxis spiral around the pinned center; year mode places each
// node uniformly at random inside its bucket's moveable range.
func (e *Engine) initPositions(center *citegraph.Node) {
	cx, cy := e.cfg.Width/2, e.cfg.Height/2

	switch e.mode {
	case ModeFree:
		const initialRadius = 10.0
		initialAngle := math.Pi * (3 - math.Sqrt(5))
		for i, n := range e.nodes {
			if n == center {
				n.Pin(cx, cy)
				continue
			}
			radius := initialRadius * math.Sqrt(0.5+float64(i))
			angle := float64(i) * initialAngle
			n.X = cx + radius*math.Cos(angle)
			n.Y = cy + radius*math.Sin(angle)
		}
	case ModeYear:
		for _, n := range e.nodes {
			b := e.buckets.Slot(e.slotOf[n.ID])
			n.X = b.Min + e.rng.Float64()*(b.Max-b.Min)
			n.Y = cy + (e.rng.Float64()-0.5)*e.cfg.Height/4
		}
	}
}

// Alpha returns the current simulation energy.
func (e *Engine) Alpha() float64 { return e.alpha }

// Active reports whether the simulation still has energy to spend.
func (e *Engine) Active() bool { return e.alpha >= alphaMin }

// Step advances the simulation one tick: decay alpha, apply forces,
// integrate velocities, and in year mode clamp every node back into
// its bucket.
func (e *Engine) Step() {
	e.alpha += (e.alphaTarget - e.alpha) * e.alphaDecay

	e.applyLinkForce()
	e.applyManyBody()
	switch e.mode {
	case ModeFree:
		e.applyCenter()
	case ModeYear:
		e.applyAxisSprings()
	}
	e.applyCollide()

	for _, n := range e.nodes {
		if n.Pinned() {
			n.X, n.Y = *n.FX, *n.FY
			n.VX, n.VY = 0, 0
			continue
		}
		n.VX *= 1 - e.velocityDecay
		n.VY *= 1 - e.velocityDecay
		n.X += n.VX
		n.Y += n.VY
	}

	if e.mode == ModeYear {
		e.clampToBuckets()
	}
}

// Run advances up to maxTicks steps, stopping early once the
// simulation cools below the minimum energy.
func (e *Engine) Run(maxTicks int) int {
	ticks := 0
	for ; ticks < maxTicks && e.Active(); ticks++ {
		e.Step()
	}
	return ticks
}

// clampToBuckets enforces the year-mode containment invariant. The
// x spring alone does not guarantee it.
func (e *Engine) clampToBuckets() {
	for _, n := range e.nodes {
		b := e.buckets.Slot(e.slotOf[n.ID])
		if n.X < b.Min {
			n.X = b.Min
			n.VX = 0
		} else if n.X > b.Max {
			n.X = b.Max
			n.VX = 0
		}
	}
}

// Positions returns a snapshot of every node's current coordinates.
func (e *Engine) Positions() []Position {
	out := make([]Position, 0, len(e.nodes))
	for _, n := range e.nodes {
		pos := Position{ID: n.ID, X: n.X, Y: n.Y}
		if n.Paper != nil {
			pos.Year = n.Paper.Year
		}
		out = append(out, pos)
	}
	return out
}

// jiggle breaks exact coincidence of two nodes so force directions are
// defined.
func (e *Engine) jiggle() float64 {
	return (e.rng.Float64() - 0.5) * 1e-6
}
