// Package cli wires the analyzer, generator, partitioner, and API server
// into the accelsched command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	jsonOut bool
	verbose bool

	// Version info (set from main)
	Version = "0.1.0"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "accelsched",
	Short: "Schedulability analysis for accelerator-using real-time task sets",
	Long: `Accelsched analyzes periodic task sets whose jobs alternate CPU execution
with self-suspending GPU segments. It bounds worst-case response times under
request-driven, job-driven, hybrid, and FIFO blocking analyses - each for a
serialized or fraction-sharable accelerator - and partitions task sets onto
cores with worst-fit-decreasing heuristics.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// SetVersion sets the version for the CLI
func SetVersion(v string) {
	Version = v
	rootCmd.Version = v
}
