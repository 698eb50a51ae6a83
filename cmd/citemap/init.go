package main

import (
	"fmt"
	"os"

	"github.com/matsen/citemap/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a citemap repository in the current directory",
	Long: `Initialize a citemap repository in the current directory.

Creates the .citemap directory with an empty papers.jsonl source file
and a cache directory for the SQLite query database.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	if config.IsRepository(cwd) {
		exitWithError(ExitError, "already a citemap repository: %s", config.CitemapPath(cwd))
	}

	if err := os.MkdirAll(config.CachePath(cwd), 0755); err != nil {
		exitWithError(ExitError, "creating repository: %v", err)
	}

	papersPath := config.PapersPath(cwd)
	if _, err := os.Stat(papersPath); os.IsNotExist(err) {
		if err := os.WriteFile(papersPath, nil, 0644); err != nil {
			exitWithError(ExitError, "creating papers file: %v", err)
		}
	}

	cfg := &config.Config{}
	if err := cfg.Save(cwd); err != nil {
		exitWithError(ExitError, "writing config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Initialized citemap repository in %s\n", config.CitemapPath(cwd))
	} else {
		outputJSON(StatusResponse{Status: "initialized", Path: config.CitemapPath(cwd)})
	}

	return nil
}
