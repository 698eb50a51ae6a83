// Package main provides the citemap CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/matsen/citemap/internal/config"
	"github.com/matsen/citemap/internal/corpus"
	"github.com/matsen/citemap/internal/storage"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		// This ensures Cobra errors (like missing required flags) are visible
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "citemap",
	Short: "Citation graph explorer for academic papers",
	Long: `citemap explores the citation neighborhood of academic papers.

Core features:
  - Fuzzy title search over a local paper library
  - Bounded two-hop citation graphs around any paper
  - Force-directed layouts, free or grouped by publication year
  - Per-author statistics with tag and venue histograms
  - Semantic Scholar lookups for papers outside the library

Data is stored in git-versionable JSONL with ephemeral SQLite for queries.
All commands output JSON by default for agent integration.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// getStartingDirectory returns the directory to start searching for a repository.
// Checks global config papers_path first, then current working directory.
func getStartingDirectory() (string, int) {
	if root := config.GetPapersPath(); root != "" {
		return root, 0
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", outputError(ExitError, "getting current directory: %v", err)
	}
	return cwd, 0
}

// mustFindRepository finds and validates the repository, exits on error.
// Returns the repository root path.
func mustFindRepository() string {
	start, exitCode := getStartingDirectory()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	repoRoot, err := config.FindRepository(start)
	if err != nil {
		// Show helpful message if no global config exists
		fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
		os.Exit(ExitConfigError)
	}
	return repoRoot
}

// mustOpenDatabase opens the SQLite database, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenDatabase(repoRoot string) *storage.DB {
	dbPath := config.DBPath(repoRoot)
	db, err := storage.OpenDB(dbPath)
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig(repoRoot string) *config.Config {
	cfg, err := config.Load(repoRoot)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// openRepository returns the paper source for query commands: the
// SQLite cache when it has been built, the JSONL file otherwise.
// The returned close function is a no-op for the JSONL path.
func openRepository(repoRoot string) (corpus.Repository, func() error) {
	if _, err := os.Stat(config.DBPath(repoRoot)); err == nil {
		db := mustOpenDatabase(repoRoot)
		return storage.NewRepo(db), db.Close
	}
	return corpus.New(config.PapersPath(repoRoot)), func() error { return nil }
}
