package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"graft/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "graft",
	Short: "Idempotent source instrumentation tool",
	Long:  `graft splices auxiliary statements into source files from declarative anchor rules and can be re-run safely: insertions that already landed are skipped`,
}

// main registers subcommands and persistent flags, then executes the root
// command. Drift found by check exits with status 2, any other failure with 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(revertCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errDrift) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
