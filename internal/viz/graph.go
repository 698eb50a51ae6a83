package viz

import (
	"github.com/matsen/citemap/internal/citegraph"
	"github.com/matsen/citemap/internal/layout"
)

// maxLabelLength bounds node labels so long titles don't dominate the canvas.
const maxLabelLength = 40

// FromCitationGraph converts a built citation graph plus the coordinates
// produced by a layout run into renderable GraphData. Nodes without a
// matching position keep zero coordinates.
func FromCitationGraph(g *citegraph.Graph, positions []layout.Position) *GraphData {
	posByID := make(map[string]layout.Position, len(positions))
	for _, p := range positions {
		posByID[p.ID] = p
	}

	data := &GraphData{
		Nodes: make([]Node, 0, len(g.Nodes)),
		Edges: make([]Edge, 0, len(g.Edges)),
	}

	for _, n := range g.Nodes {
		node := Node{
			ID:    n.ID,
			Type:  string(n.Type),
			Label: n.ID,
			Level: n.Level,
		}
		if n.Paper != nil {
			node.Label = truncateLabel(n.Paper.Title)
			node.Title = n.Paper.Title
			node.Authors = n.Paper.AuthorList()
			node.Venue = n.Paper.Venue
			node.Year = n.Paper.Year
			node.Citations = n.Paper.CitationCount
		}
		if p, ok := posByID[n.ID]; ok {
			node.X = p.X
			node.Y = p.Y
		}
		data.Nodes = append(data.Nodes, node)
	}

	for _, e := range g.Edges {
		data.Edges = append(data.Edges, Edge{
			Source:           e.SourceID,
			Target:           e.TargetID,
			RelationshipType: string(e.Type),
			Level:            e.Level,
		})
	}

	return data
}

// truncateLabel shortens a title for on-canvas display.
func truncateLabel(title string) string {
	runes := []rune(title)
	if len(runes) <= maxLabelLength {
		return title
	}
	return string(runes[:maxLabelLength-1]) + "…"
}
