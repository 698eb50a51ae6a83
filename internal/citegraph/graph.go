// Package citegraph builds bounded citation neighborhoods around a center paper.
package citegraph

import "github.com/matsen/citemap/internal/paper"

// NodeType classifies a node's relation to the center paper.
type NodeType string

const (
	NodeCenter  NodeType = "center"
	NodeCites   NodeType = "cites"
	NodeCitedBy NodeType = "cited_by"
)

// EdgeType classifies a citation edge.
type EdgeType string

const (
	EdgeCites   EdgeType = "cites"
	EdgeCitedBy EdgeType = "cited_by"
)

// Node is one paper in a built graph. Position, pinned position, and
// velocity are mutated by the layout engine; everything else is fixed
// at build time. A node belongs to exactly one build and is never
// shared across builds.
type Node struct {
	ID    string
	Paper *paper.Paper
	Type  NodeType
	Level int // 0 = center, 1 = direct neighbor, 2 = neighbor's neighbor

	// Layout state
	X, Y   float64
	VX, VY float64
	FX, FY *float64 // Pinned position; nil = free
}

// Pin fixes the node at the given position.
func (n *Node) Pin(x, y float64) {
	n.X, n.Y = x, y
	n.FX, n.FY = &x, &y
}

// Unpin releases a pinned node.
func (n *Node) Unpin() {
	n.FX, n.FY = nil, nil
}

// Pinned reports whether the node's position is fixed.
func (n *Node) Pinned() bool {
	return n.FX != nil && n.FY != nil
}

// Edge is a directed citation edge between two nodes of the same build.
type Edge struct {
	SourceID string
	TargetID string
	Type     EdgeType
	Level    int
}

// Graph is one build's node and edge sets plus a handle to the center.
type Graph struct {
	Nodes  []*Node
	Edges  []Edge
	Center *Node

	// Generation identifies the build that produced this graph; newer
	// builds from the same Builder supersede older ones.
	Generation uint64

	byID map[string]*Node
}

func newGraph() *Graph {
	return &Graph{byID: make(map[string]*Node)}
}

// Assemble constructs a Graph directly from nodes and edges. Intended
// for tests and for consumers that deserialize a graph; Build is the
// normal constructor.
func Assemble(nodes []*Node, edges []Edge, center *Node) *Graph {
	g := newGraph()
	for _, n := range nodes {
		g.byID[n.ID] = n
	}
	g.Nodes = nodes
	g.Edges = edges
	g.Center = center
	return g
}

// Lookup returns the node with the given ID, if present.
func (g *Graph) Lookup(id string) (*Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// addNode inserts a node for p unless the ID is already present.
// The first insertion's type and level win; later sightings of the
// same paper only contribute edges.
func (g *Graph) addNode(p *paper.Paper, typ NodeType, level int) (*Node, bool) {
	if n, ok := g.byID[p.PaperID]; ok {
		return n, false
	}
	n := &Node{ID: p.PaperID, Paper: p, Type: typ, Level: level}
	g.byID[n.ID] = n
	g.Nodes = append(g.Nodes, n)
	return n, true
}

func (g *Graph) addEdge(sourceID, targetID string, typ EdgeType, level int) {
	g.Edges = append(g.Edges, Edge{SourceID: sourceID, TargetID: targetID, Type: typ, Level: level})
}

// PruneDanglingEdges drops edges whose endpoints are not in the node
// set and returns how many were removed. The builder never produces
// such edges; this guards downstream consumers against hand-assembled
// graphs.
func (g *Graph) PruneDanglingEdges() int {
	kept := g.Edges[:0]
	dropped := 0
	for _, e := range g.Edges {
		if _, ok := g.byID[e.SourceID]; !ok {
			dropped++
			continue
		}
		if _, ok := g.byID[e.TargetID]; !ok {
			dropped++
			continue
		}
		kept = append(kept, e)
	}
	g.Edges = kept
	return dropped
}
