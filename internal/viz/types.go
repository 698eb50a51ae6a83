// Package viz renders citation graphs as standalone HTML visualizations.
package viz

// GraphData contains all data needed to render the visualization.
type GraphData struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node represents one paper in the rendered graph.
type Node struct {
	ID   string `json:"id"`
	Type string `json:"type"` // "center", "cites", or "cited_by"

	// Display
	Label string `json:"label"`

	// Tooltip fields
	Title   string `json:"title,omitempty"`
	Authors string `json:"authors,omitempty"` // Formatted string "First Last, First Last"
	Venue   string `json:"venue,omitempty"`
	Year    int    `json:"year,omitempty"`

	Level     int `json:"level"`
	Citations int `json:"citations"`

	// Preset coordinates from the layout engine.
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Edge represents one citation link between two rendered papers.
type Edge struct {
	Source           string `json:"source"`
	Target           string `json:"target"`
	RelationshipType string `json:"relationshipType"` // "cites" or "cited_by"
	Level            int    `json:"level"`
}

// IsEmpty returns true if the graph has no nodes.
func (g *GraphData) IsEmpty() bool {
	return len(g.Nodes) == 0
}
