package main

import (
	"context"
	"fmt"

	"github.com/matsen/citemap/internal/author"
	"github.com/matsen/citemap/internal/corpus"
	"github.com/matsen/citemap/internal/paper"
	"github.com/spf13/cobra"
)

var (
	authorsMinYear int
	authorsSort    string
	authorsLimit   int
)

func init() {
	authorsCmd.Flags().IntVar(&authorsMinYear, "min-year", 0, "Only count papers published in or after this year")
	authorsCmd.Flags().StringVar(&authorsSort, "sort", "papers", "Sort order: papers or citations")
	authorsCmd.Flags().IntVar(&authorsLimit, "limit", DefaultSearchLimit, "Maximum authors to return")
	rootCmd.AddCommand(authorsCmd)
}

var authorsCmd = &cobra.Command{
	Use:   "authors",
	Short: "Aggregate per-author statistics over the library",
	Long: `Aggregate per-author statistics over the whole paper library.

Each author gets a paper count, total citations, and histograms of the
tags and normalized venues their papers appeared in. Venue names are
normalized by stripping years, ordinals, and empty punctuation groups
so different editions of the same venue count together.

Examples:
  citemap authors
  citemap authors --min-year 2020 --sort citations
  citemap authors --limit 10 --human`,
	Args: cobra.NoArgs,
	RunE: runAuthors,
}

func runAuthors(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	key, err := parseSortKey(authorsSort)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	repoRoot := mustFindRepository()
	repo, closeRepo := openRepository(repoRoot)
	defer closeRepo()

	papers, err := loadAuthorPapers(ctx, repo, authorsMinYear)
	if err != nil {
		exitWithError(ExitDataError, "loading papers: %v", err)
	}

	stats := author.Aggregate(papers, author.Options{MinYear: authorsMinYear})
	author.SortBy(stats, key)

	if authorsLimit > 0 && len(stats) > authorsLimit {
		stats = stats[:authorsLimit]
	}

	if humanOutput {
		if len(stats) == 0 {
			fmt.Println("No authors found")
			return nil
		}
		for i, s := range stats {
			fmt.Printf("[%d] %s\n", i+1, s.Author)
			fmt.Printf("    %d papers, %d citations\n", s.PaperCount, s.TotalCitations)
			if len(s.Venues) > 0 {
				fmt.Printf("    Venues: %s\n", formatHistogram(s.Venues, 3))
			}
			if len(s.Tags) > 0 {
				fmt.Printf("    Tags: %s\n", formatHistogram(s.Tags, 3))
			}
			fmt.Println()
		}
	} else {
		outputJSON(stats)
	}

	return nil
}

// yearFilteredSource is implemented by repositories that can filter by
// publication year at the source, such as the SQLite cache.
type yearFilteredSource interface {
	AllSince(ctx context.Context, minYear int) ([]paper.Paper, error)
}

// loadAuthorPapers pulls the aggregation input, pushing the min-year
// filter down to the repository when it supports it. Aggregate applies
// the same cutoff again, so both paths see identical papers.
func loadAuthorPapers(ctx context.Context, repo corpus.Repository, minYear int) ([]paper.Paper, error) {
	if src, ok := repo.(yearFilteredSource); ok {
		return src.AllSince(ctx, minYear)
	}
	return repo.All(ctx)
}

func parseSortKey(s string) (author.SortKey, error) {
	switch s {
	case "", "papers":
		return author.ByPapers, nil
	case "citations":
		return author.ByCitations, nil
	default:
		return 0, fmt.Errorf("invalid sort %q: must be papers or citations", s)
	}
}

// formatHistogram renders the top entries of a histogram as "key (n)".
func formatHistogram(entries []author.CountEntry, maxCount int) string {
	out := ""
	for i, e := range entries {
		if i >= maxCount {
			out += ", ..."
			break
		}
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s (%d)", e.Key, e.Count)
	}
	return out
}
