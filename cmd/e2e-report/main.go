package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var resultsDir string

var cliLog = log.New(os.Stdout, "[e2e-report] ", log.LstdFlags)

var rootCmd = &cobra.Command{
	Use:   "e2e-report",
	Short: "Work with Swag Shop e2e suite results",
	Long: `e2e-report reads the artifacts a suite run leaves under the results
directory (outcome stream, screenshots, traces, failure reports) and turns
them into merged reports, a local results dashboard, or exports.

With parallel workers each test process appends to the same outcome stream
(outcomes.jsonl); merge reassembles the complete run from it after the fact.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("e2e-report %s\n", rootCmd.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&resultsDir, "results", "test-results", "results directory written by the suite")
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
