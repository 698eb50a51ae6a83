package main

import (
	"context"
	"fmt"

	"github.com/matsen/citemap/internal/s2"
	"github.com/spf13/cobra"
)

var (
	s2CitationsLimit     int
	s2CitationsLocalOnly bool
	s2ReferencesLimit    int
	s2ReferencesLocal    bool
)

var s2CitationsCmd = &cobra.Command{
	Use:   "citations <paper-id>",
	Short: "List papers that cite a given paper",
	Long: `List papers that cite a given paper (forward citation tracking).

Accepts a Semantic Scholar paper ID or an external ID such as
DOI:10.1093/sysbio/syy032 or ARXIV:1706.03762. With --local-only,
results are filtered to papers already in the local library.

Examples:
  citemap s2 citations 649def34f8be52c8b66281af98ae884c09aef38b
  citemap s2 citations DOI:10.1093/sysbio/syy032 --limit 20
  citemap s2 citations ARXIV:1706.03762 --local-only`,
	Args: cobra.ExactArgs(1),
	RunE: runS2Citations,
}

var s2ReferencesCmd = &cobra.Command{
	Use:   "references <paper-id>",
	Short: "List the papers a given paper cites",
	Long: `List the papers a given paper cites.

Accepts a Semantic Scholar paper ID or an external ID such as
DOI:10.1093/sysbio/syy032 or ARXIV:1706.03762. With --local-only,
results are filtered to papers already in the local library.

Examples:
  citemap s2 references 649def34f8be52c8b66281af98ae884c09aef38b
  citemap s2 references ARXIV:1706.03762 --limit 20`,
	Args: cobra.ExactArgs(1),
	RunE: runS2References,
}

func init() {
	s2Cmd.AddCommand(s2CitationsCmd)
	s2Cmd.AddCommand(s2ReferencesCmd)
	s2CitationsCmd.Flags().IntVarP(&s2CitationsLimit, "limit", "n", s2.DefaultPageSize, "Maximum results")
	s2CitationsCmd.Flags().BoolVar(&s2CitationsLocalOnly, "local-only", false, "Only show papers in the local library")
	s2ReferencesCmd.Flags().IntVarP(&s2ReferencesLimit, "limit", "n", s2.DefaultPageSize, "Maximum results")
	s2ReferencesCmd.Flags().BoolVar(&s2ReferencesLocal, "local-only", false, "Only show papers in the local library")
}

// S2LinksResult is the JSON output for the citations and references commands.
type S2LinksResult struct {
	PaperID  string   `json:"paperId"`
	Relation string   `json:"relation"` // "citations" or "references"
	IDs      []string `json:"ids"`
	Total    int      `json:"total"`
}

func runS2Citations(cmd *cobra.Command, args []string) error {
	return runS2Links(args[0], "citations", s2CitationsLimit, s2CitationsLocalOnly)
}

func runS2References(cmd *cobra.Command, args []string) error {
	return runS2Links(args[0], "references", s2ReferencesLimit, s2ReferencesLocal)
}

func runS2Links(paperID, relation string, limit int, localOnly bool) error {
	ctx := context.Background()

	parsed := s2.ParsePaperID(paperID)
	if !parsed.IsAPIReady() {
		exitWithError(ExitError, "%q is not a paper identifier; use 'citemap s2 lookup' to search by title", paperID)
	}

	client := newS2Client()

	var ids []string
	var err error
	if relation == "citations" {
		ids, err = client.Citations(ctx, parsed.String(), limit)
	} else {
		ids, err = client.References(ctx, parsed.String(), limit)
	}
	if err != nil {
		if s2.IsNotFound(err) {
			exitWithError(ExitS2NotFound, "paper %s not found in Semantic Scholar", paperID)
		}
		exitWithError(ExitS2APIError, "fetching %s: %v", relation, err)
	}

	if localOnly {
		ids = filterToLocal(ctx, ids)
	}

	if humanOutput {
		fmt.Printf("%d %s for %s:\n", len(ids), relation, paperID)
		for _, id := range ids {
			fmt.Printf("  %s\n", id)
		}
	} else {
		outputJSON(S2LinksResult{
			PaperID:  paperID,
			Relation: relation,
			IDs:      ids,
			Total:    len(ids),
		})
	}

	return nil
}

// filterToLocal keeps only the IDs present in the local library.
func filterToLocal(ctx context.Context, ids []string) []string {
	repoRoot := mustFindRepository()
	repo, closeRepo := openRepository(repoRoot)
	defer closeRepo()

	papers, err := repo.All(ctx)
	if err != nil {
		exitWithError(ExitDataError, "loading papers: %v", err)
	}

	resolver := s2.NewLocalResolver(papers)
	local := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := resolver.FindByID(id); ok {
			local = append(local, id)
		}
	}
	return local
}
