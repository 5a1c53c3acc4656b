package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/goss-platform/reposync/internal/config"
	"github.com/goss-platform/reposync/internal/engine"
	"github.com/goss-platform/reposync/internal/fetcher"
	"github.com/goss-platform/reposync/internal/registry"
)

var (
	flagConfig   string
	flagRepoRoot string
	flagWorkers  int
	flagRate     float64
)

// addCommonFlags registers the flags every subcommand shares.
func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagConfig, "config", "c", "dependencies.json", "Path to the desired-state declaration")
	cmd.Flags().StringVar(&flagRepoRoot, "repo-root", ".", "Repository root directory")
	cmd.Flags().IntVar(&flagWorkers, "workers", 1, "Artifacts processed concurrently")
	cmd.Flags().Float64Var(&flagRate, "rate", 3, "Maximum requests per second per upstream host")
}

// loadConfig builds the run configuration from the declaration file and
// the command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig, flagRepoRoot)
	if err != nil {
		return nil, err
	}
	cfg.Workers = flagWorkers
	cfg.HostRPS = flagRate
	return cfg, nil
}

// newEngine wires the real resolver and fetcher into an engine that
// reports progress on stdout.
func newEngine(cfg *config.Config) *engine.Engine {
	resolver := registry.NewClient(cfg.SearchURL, cfg.MvnRepoURL, cfg.HubAPIURL)
	return engine.New(cfg, resolver, &fetcher.Client{}, os.Stdout)
}

// requestedDownloads counts the declaration entries that describe an
// actual artifact, skipping comment placeholders.
func requestedDownloads(cfg *config.Config) int {
	n := 0
	for _, dl := range cfg.Downloads {
		if dl.IsComment() || dl.GroupID == "" || dl.ArtifactID == "" {
			continue
		}
		n++
	}
	return n
}
