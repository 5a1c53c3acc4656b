package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goss-platform/reposync/internal/report"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check for available updates without downloading",
	RunE:  runCheck,
}

func init() {
	addCommonFlags(checkCmd)
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("Configuration loaded from: %s\n", flagConfig)
	fmt.Printf("Additional downloads: %d\n\n", len(cfg.Downloads))

	eng := newEngine(cfg)
	results := eng.CheckUpdates(cmd.Context())

	report.NewPrinter(os.Stdout).UpdateTable(results)
	return nil
}
