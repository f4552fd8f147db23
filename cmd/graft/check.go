package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"graft/internal/driver"
)

// errDrift marks the check-specific failure: targets are missing insertions.
// main translates it into exit status 2 so CI can tell drift from breakage.
var errDrift = errors.New("targets are missing insertions")

var checkCmd = &cobra.Command{
	Use:   "check [flags] [file|directory ...]",
	Short: "Verify that every insertion is present, without writing",
	Long:  "Run the rules in memory and report files that would change. Exits with status 2 when insertions are missing and 1 when a file cannot be processed.",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("rules", "", "rule file (default: [run].rules from graft.toml)")
	checkCmd.Flags().StringSlice("ext", nil, "extensions picked up when a target is a directory")
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	switch format {
	case "pretty", "json":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	setup, err := resolveRunSetup(cmd, args)
	if err != nil {
		return err
	}

	rep, err := driver.CheckBatch(cmd.Context(), setup.targets, driver.Options{
		Rules: setup.rules,
		Jobs:  jobs,
	})
	if err != nil {
		return err
	}

	rep.Sort()
	if err := renderReport(cmd, rep, format, quiet); err != nil {
		return err
	}

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	if rep.HasErrors() {
		return fmt.Errorf("")
	}
	if rep.Changed() {
		if format == "pretty" && !quiet {
			fmt.Fprintln(os.Stdout, "targets are out of date; apply them with 'graft run'")
		}
		return errDrift
	}
	return nil
}
