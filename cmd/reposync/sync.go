package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goss-platform/reposync/internal/indexer"
	"github.com/goss-platform/reposync/internal/report"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Download every declared artifact that is not already present",
	Long: "Walks the additional-downloads declaration and downloads only the artifacts " +
		"missing from the repository, then regenerates the index if anything changed.",
	RunE: runSync,
}

func init() {
	addCommonFlags(syncCmd)
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("Configuration loaded from: %s\n", flagConfig)
	fmt.Printf("Additional downloads: %d\n\n", len(cfg.Downloads))

	eng := newEngine(cfg)
	results := eng.DownloadAdditional(cmd.Context(), true)

	report.NewPrinter(os.Stdout).SyncSummary(results, requestedDownloads(cfg))

	if len(results.Updated) > 0 {
		fmt.Println("\nRebuilding repository index...")
		if err := indexer.Regenerate(cmd.Context(), cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: index not regenerated: %v\n", err)
		}
	} else {
		fmt.Println("\nNo new dependencies downloaded, skipping index rebuild.")
	}

	return nil
}
