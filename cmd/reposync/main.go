// Package main provides the entry point for the reposync CLI, which
// keeps a local OSGi bundle repository in sync with Maven Central and
// fallback repositories.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "reposync",
	Short: "Synchronize the bundle repository with upstream registries",
	Long: "reposync compares the local OSGi bundle repository against Maven Central " +
		"and fallback repositories, downloads outdated or missing artifacts, and " +
		"regenerates the repository index.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
