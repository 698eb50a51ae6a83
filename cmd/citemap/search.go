package main

import (
	"context"
	"fmt"

	"github.com/matsen/citemap/internal/match"
	"github.com/spf13/cobra"
)

var (
	searchLimit int
	searchBest  bool
)

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultSearchLimit, "Maximum results to return")
	searchCmd.Flags().BoolVar(&searchBest, "best", false, "Return only the best match")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <title>",
	Short: "Search papers by fuzzy title match",
	Long: `Search the paper library by title.

Matching is case-insensitive and tolerant of partial titles: candidates
are ranked by longest common substring with the query, then by longest
common subsequence, with shorter titles winning remaining ties.

Examples:
  citemap search "attention is all you need"
  citemap search "bloom filter" --limit 5
  citemap search "resnet" --best`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

// SearchResult is one ranked candidate in the search output.
type SearchResult struct {
	PaperID string `json:"paperId"`
	Title   string `json:"title"`
	Year    int    `json:"year,omitempty"`
	Venue   string `json:"venue,omitempty"`
	LCSS    int    `json:"lcss"`
	LCS     int    `json:"lcs"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]
	ctx := context.Background()

	repoRoot := mustFindRepository()
	repo, closeRepo := openRepository(repoRoot)
	defer closeRepo()

	papers, err := repo.All(ctx)
	if err != nil {
		exitWithError(ExitDataError, "loading papers: %v", err)
	}

	scores := match.Rank(query, papers)
	if len(scores) == 0 {
		exitWithError(ExitNoMatch, "no paper matches %q", query)
	}

	limit := searchLimit
	if searchBest {
		limit = 1
	}
	if limit > 0 && len(scores) > limit {
		scores = scores[:limit]
	}

	results := make([]SearchResult, 0, len(scores))
	for _, s := range scores {
		results = append(results, SearchResult{
			PaperID: s.Paper.PaperID,
			Title:   s.Paper.Title,
			Year:    s.Paper.Year,
			Venue:   s.Paper.Venue,
			LCSS:    s.LCSS,
			LCS:     s.LCS,
		})
	}

	if humanOutput {
		fmt.Printf("Found %d candidates:\n\n", len(results))
		for i, s := range scores {
			printPaperSummary(i+1, *s.Paper)
		}
	} else {
		outputJSON(results)
	}

	return nil
}
