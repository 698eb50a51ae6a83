package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matsen/citemap/internal/citegraph"
	"github.com/matsen/citemap/internal/layout"
	"github.com/matsen/citemap/internal/match"
	"github.com/matsen/citemap/internal/viz"
	"github.com/spf13/cobra"
)

var (
	graphFanOut  int
	graphMode    string
	graphTicks   int
	graphHTML    string
	graphOffline bool
)

// defaultLayoutTicks is enough for the simulation to cool below its
// activity threshold from a full reheat.
const defaultLayoutTicks = 300

func init() {
	graphCmd.Flags().IntVar(&graphFanOut, "fanout", 0, "Neighbors expanded per hop (default from config, then 20)")
	graphCmd.Flags().StringVar(&graphMode, "mode", "free", "Layout mode: free or year")
	graphCmd.Flags().IntVar(&graphTicks, "ticks", defaultLayoutTicks, "Maximum simulation ticks")
	graphCmd.Flags().StringVar(&graphHTML, "html", "", "Write an HTML visualization to this file instead of JSON output")
	graphCmd.Flags().BoolVar(&graphOffline, "offline", false, "Embed Cytoscape.js in the HTML output")
	rootCmd.AddCommand(graphCmd)
}

var graphCmd = &cobra.Command{
	Use:   "graph <title>",
	Short: "Build the two-hop citation graph around a paper",
	Long: `Build the citation neighborhood of the best title match.

The graph contains the matched paper, up to --fanout of its references
and citing papers, and one further hop from each of those. Positions
come from a force-directed relaxation; year mode constrains each paper
to a vertical band for its publication year.

Examples:
  citemap graph "attention is all you need"
  citemap graph "resnet" --mode year --fanout 10
  citemap graph "resnet" --html graph.html --offline`,
	Args: cobra.ExactArgs(1),
	RunE: runGraph,
}

// GraphNode is one positioned paper in the JSON output.
type GraphNode struct {
	PaperID string  `json:"paperId"`
	Title   string  `json:"title,omitempty"`
	Year    int     `json:"year,omitempty"`
	Type    string  `json:"type"`
	Level   int     `json:"level"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

// GraphEdge is one citation link in the JSON output.
type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
	Level  int    `json:"level"`
}

// GraphResult is the JSON output for the graph command.
type GraphResult struct {
	Center string      `json:"center"`
	Mode   string      `json:"mode"`
	Ticks  int         `json:"ticks"`
	Nodes  []GraphNode `json:"nodes"`
	Edges  []GraphEdge `json:"edges"`
}

func runGraph(cmd *cobra.Command, args []string) error {
	query := args[0]
	ctx := context.Background()

	mode, err := parseLayoutMode(graphMode)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	repo, closeRepo := openRepository(repoRoot)
	defer closeRepo()

	papers, err := repo.All(ctx)
	if err != nil {
		exitWithError(ExitDataError, "loading papers: %v", err)
	}

	center, ok := match.BestMatch(query, papers)
	if !ok {
		exitWithError(ExitNoMatch, "no paper matches %q", query)
	}

	fanOut := graphFanOut
	if fanOut == 0 {
		fanOut = cfg.FanOut
	}

	builder := citegraph.NewBuilder(repo, fanOut)
	g, err := builder.Build(ctx, center)
	if err != nil {
		exitWithError(ExitDataError, "building graph: %v", err)
	}

	engine := layout.New(g, mode, layout.Config{
		Width:  float64(cfg.CanvasWidth),
		Height: float64(cfg.CanvasHeight),
	})
	ticks := engine.Run(graphTicks)
	positions := engine.Positions()

	if graphHTML != "" {
		data := viz.FromCitationGraph(g, positions)
		opts := viz.DefaultOptions()
		opts.Offline = graphOffline
		html, err := viz.GenerateHTML(data, opts)
		if err != nil {
			exitWithError(ExitError, "generating HTML: %v", err)
		}
		if err := os.WriteFile(graphHTML, []byte(html), 0644); err != nil {
			exitWithError(ExitError, "writing HTML: %v", err)
		}
		if humanOutput {
			fmt.Printf("Wrote %s (%d nodes, %d edges)\n", graphHTML, len(g.Nodes), len(g.Edges))
		} else {
			outputJSON(StatusResponse{Status: "written", Path: graphHTML})
		}
		return nil
	}

	result := buildGraphResult(g, positions, graphMode, ticks)

	if humanOutput {
		fmt.Printf("Center: %s\n", center.Title)
		fmt.Printf("Graph: %d nodes, %d edges (%d ticks)\n", len(result.Nodes), len(result.Edges), ticks)
	} else {
		outputJSON(result)
	}

	return nil
}

func parseLayoutMode(s string) (layout.Mode, error) {
	switch s {
	case "", "free":
		return layout.ModeFree, nil
	case "year":
		return layout.ModeYear, nil
	default:
		return 0, fmt.Errorf("invalid mode %q: must be free or year", s)
	}
}

func buildGraphResult(g *citegraph.Graph, positions []layout.Position, mode string, ticks int) GraphResult {
	posByID := make(map[string]layout.Position, len(positions))
	for _, p := range positions {
		posByID[p.ID] = p
	}

	result := GraphResult{
		Center: g.Center.ID,
		Mode:   mode,
		Ticks:  ticks,
		Nodes:  make([]GraphNode, 0, len(g.Nodes)),
		Edges:  make([]GraphEdge, 0, len(g.Edges)),
	}

	for _, n := range g.Nodes {
		node := GraphNode{
			PaperID: n.ID,
			Type:    string(n.Type),
			Level:   n.Level,
		}
		if n.Paper != nil {
			node.Title = n.Paper.Title
			node.Year = n.Paper.Year
		}
		if p, ok := posByID[n.ID]; ok {
			node.X = p.X
			node.Y = p.Y
		}
		result.Nodes = append(result.Nodes, node)
	}

	for _, e := range g.Edges {
		result.Edges = append(result.Edges, GraphEdge{
			Source: e.SourceID,
			Target: e.TargetID,
			Type:   string(e.Type),
			Level:  e.Level,
		})
	}

	return result
}
