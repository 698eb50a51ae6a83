package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Exit codes specific to s2 commands.
const (
	ExitS2NotFound = 1 // Paper not found in Semantic Scholar
	ExitS2APIError = 3 // API error (rate limit, network)
)

var s2Cmd = &cobra.Command{
	Use:   "s2",
	Short: "Semantic Scholar (S2) integration commands",
	Long: `Commands for querying Semantic Scholar's Academic Graph API.

Look up papers by title, and list the papers a given paper cites or is
cited by, without needing them in the local library.

All commands output JSON by default for agent consumption.
Use --human flag for human-readable output.`,
}

func init() {
	// Load .env file if present (for SEMANTIC_SCHOLAR_API_KEY)
	_ = godotenv.Load()

	rootCmd.AddCommand(s2Cmd)
}
