package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/matsen/citemap/internal/config"
	"github.com/matsen/citemap/internal/paper"
	"github.com/matsen/citemap/internal/s2"
	"github.com/spf13/cobra"
)

var s2LookupYear int

var s2LookupCmd = &cobra.Command{
	Use:   "lookup <title>",
	Short: "Look up a paper on Semantic Scholar by title",
	Long: `Look up a paper on Semantic Scholar by title.

Searches the Academic Graph API and returns the best match, preferring
an exact case-insensitive title hit. Use --year to disambiguate papers
with similar titles.

Examples:
  citemap s2 lookup "attention is all you need"
  citemap s2 lookup "resnet" --year 2016`,
	Args: cobra.ExactArgs(1),
	RunE: runS2Lookup,
}

func init() {
	s2Cmd.AddCommand(s2LookupCmd)
	s2LookupCmd.Flags().IntVar(&s2LookupYear, "year", 0, "Prefer matches from this publication year")
}

func runS2Lookup(cmd *cobra.Command, args []string) error {
	title := args[0]
	ctx := context.Background()

	p, err := lookupPaper(ctx, newS2Client(), title, s2LookupYear)
	if err != nil {
		if errors.Is(err, errNoLookupMatch) || s2.IsNotFound(err) {
			exitWithError(ExitS2NotFound, "no Semantic Scholar paper matches %q", title)
		}
		exitWithError(ExitS2APIError, "looking up %q: %v", title, err)
	}

	if humanOutput {
		printPaperSummary(1, *p)
		fmt.Printf("    cites %d, cited by %d\n", p.ReferenceCount, p.CitationCount)
	} else {
		outputJSON(p)
	}

	return nil
}

// errNoLookupMatch marks an empty search result; SearchPaperID reports
// "no match" as an empty ID, not an error.
var errNoLookupMatch = errors.New("no matching paper")

// lookupPaper resolves a title to its best-match paper. An empty search
// result is errNoLookupMatch, never a request for paper "".
func lookupPaper(ctx context.Context, client *s2.Client, title string, year int) (*paper.Paper, error) {
	id, err := client.SearchPaperID(ctx, title, year, s2.DefaultSearchLimit)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, errNoLookupMatch
	}
	return client.Paper(ctx, id)
}

// newS2Client builds a client with the key from env or global config.
func newS2Client() *s2.Client {
	if key := config.GetS2APIKey(); key != "" {
		return s2.NewClient(s2.WithAPIKey(key))
	}
	return s2.NewClient()
}
