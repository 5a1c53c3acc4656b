package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goss-platform/reposync/internal/config"
	"github.com/goss-platform/reposync/internal/indexer"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Regenerate the repository index without touching the network",
	RunE:  runReindex,
}

func init() {
	// reindex does not read the declaration; only the repository root
	// matters here.
	reindexCmd.Flags().StringVar(&flagRepoRoot, "repo-root", ".", "Repository root directory")
	rootCmd.AddCommand(reindexCmd)
}

func runReindex(cmd *cobra.Command, _ []string) error {
	cfg := config.Defaults(flagRepoRoot)
	if err := indexer.Regenerate(cmd.Context(), cfg); err != nil {
		return err
	}
	fmt.Printf("Index regenerated: %s\n", cfg.IndexFile)
	return nil
}
