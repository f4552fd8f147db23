package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"graft/internal/report"
	"graft/internal/reportfmt"
)

// renderReport prints a run report in the requested format. Pretty output
// honors the persistent --color and --quiet flags; JSON is stable and always
// complete.
func renderReport(cmd *cobra.Command, rep *report.Report, format string, quiet bool) error {
	switch format {
	case "json":
		return reportfmt.JSON(os.Stdout, rep, reportfmt.JSONOpts{IncludeSkips: true})
	default:
		colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
		if err != nil {
			return fmt.Errorf("failed to get color flag: %w", err)
		}
		useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))
		reportfmt.Pretty(os.Stdout, rep, reportfmt.PrettyOpts{Color: useColor, Quiet: quiet})
		return nil
	}
}
