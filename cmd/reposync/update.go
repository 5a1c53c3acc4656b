package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/goss-platform/reposync/internal/index"
	"github.com/goss-platform/reposync/internal/indexer"
	"github.com/goss-platform/reposync/internal/report"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Download newer versions of every outdated artifact",
	Long: "Parses the repository index, resolves the latest upstream version of every " +
		"mapped bundle, downloads updates and the additional artifacts from the " +
		"declaration, writes the report, and regenerates the index.",
	RunE: runUpdate,
}

func init() {
	addCommonFlags(updateCmd)
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("Configuration loaded from: %s\n", flagConfig)
	fmt.Printf("Bundle mappings: %d\n", len(cfg.Bundles))
	fmt.Printf("Additional downloads: %d\n\n", len(cfg.Downloads))

	// A missing index degrades to processing only the explicit
	// declaration; an unreadable one is a broken contract and fatal.
	var bundles []index.Bundle
	if _, statErr := os.Stat(cfg.IndexFile); os.IsNotExist(statErr) {
		fmt.Printf("Index file not found: %s\n", cfg.IndexFile)
		fmt.Printf("Will only process additional downloads.\n\n")
	} else {
		bundles, err = index.ParseFile(cfg.IndexFile)
		if err != nil {
			return err
		}
		fmt.Printf("Found %d bundle entries\n", len(bundles))
	}

	latest := index.Latest(bundles)
	fmt.Printf("Found %d unique bundles\n\n", len(latest))

	ctx := cmd.Context()
	eng := newEngine(cfg)

	results := eng.ReconcileIndex(ctx, latest)
	additional := eng.DownloadAdditional(ctx, false)

	printer := report.NewPrinter(os.Stdout)
	printer.Summary(results)
	if additional.Total() > 0 {
		printer.SyncSummary(additional, requestedDownloads(cfg))
	}

	reportPath := filepath.Join(cfg.RepoRoot, "unavailable_dependencies.md")
	f, err := os.Create(reportPath)
	if err != nil {
		return fmt.Errorf("failed to create report %s: %w", reportPath, err)
	}
	if err := report.WriteMarkdown(f, results, additional); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write report %s: %w", reportPath, err)
	}
	fmt.Printf("\nReport written to: %s\n", reportPath)

	if err := indexer.Regenerate(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: index not regenerated: %v\n", err)
	}

	return nil
}
