// Gitcorpus extracts commit training data from local git repositories.
//
// Every repository one level under the mirrors directory becomes one JSONL
// artifact of commit records: cleaned subject, first-parent diff, recent
// history, style guide snapshot, affected files, and optional provenance
// and license labels.
//
// Configuration is loaded from an optional YAML file, then environment
// variables, then flags, in rising precedence. See internal/config for the
// environment variable mapping.
//
// Usage:
//
//	# Extract with defaults (./repos -> ./commit_data)
//	gitcorpus extract
//
//	# Bound the extraction and raise parallelism
//	gitcorpus extract --repos-dir /srv/mirrors --max-commits 500 --workers 8
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gitcorpus",
	Short: "Extract commit training data from local git repositories",
	Long: `gitcorpus walks every git repository one level under the mirrors directory
and writes one JSONL artifact of commit records per repository.`,
	SilenceUsage: true,
}

// versionCmd prints build information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gitcorpus by Fyrsmith Labs\n")
		fmt.Printf("Version:    %s\n", version)
		fmt.Printf("Commit:     %s\n", gitCommit)
		fmt.Printf("Build Date: %s\n", buildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
