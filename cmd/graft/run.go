package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"graft/internal/driver"
	"graft/internal/observ"
	"graft/internal/report"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] [file|directory ...]",
	Short: "Apply insertion rules to target files",
	Long:  "Match every rule against the targets and splice in the insertions that are not already present. Files with nothing pending are left byte-identical.",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().String("rules", "", "rule file (default: [run].rules from graft.toml)")
	runCmd.Flags().Bool("dry-run", false, "report pending insertions without writing")
	runCmd.Flags().Bool("backup", false, "snapshot each file before its first write")
	runCmd.Flags().StringSlice("ext", nil, "extensions picked up when a target is a directory")
	runCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	runCmd.Flags().String("ui", "auto", "interactive progress (auto|on|off)")
}

func runRun(cmd *cobra.Command, args []string) error {
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("failed to get dry-run flag: %w", err)
	}
	backup, err := cmd.Flags().GetBool("backup")
	if err != nil {
		return fmt.Errorf("failed to get backup flag: %w", err)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	switch format {
	case "pretty", "json":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	useTUI, err := wantProgressUI(uiFlag, format, quiet)
	if err != nil {
		return err
	}

	setup, err := resolveRunSetup(cmd, args)
	if err != nil {
		return err
	}

	opts := driver.Options{
		Rules:  setup.rules,
		DryRun: dryRun,
		Backup: backup,
	}
	if backup {
		store, err := driver.OpenSnapStore("graft")
		if err != nil {
			return fmt.Errorf("failed to open snapshot store: %w", err)
		}
		opts.Store = store
	}
	var timer *observ.Timer
	if showTimings {
		timer = observ.NewTimer()
		opts.Timer = timer
	}

	var rep *report.Report
	if useTUI {
		title := "patching"
		if dryRun {
			title = "previewing"
		}
		_, rep, err = runPatchWithUI(cmd.Context(), title, setup.targets, opts)
	} else {
		_, rep, err = driver.RunBatch(cmd.Context(), setup.targets, opts)
	}
	if err != nil {
		return err
	}

	rep.Sort()
	if err := renderReport(cmd, rep, format, quiet); err != nil {
		return err
	}
	if timer != nil {
		fmt.Fprint(os.Stdout, timer.Summary())
	}

	if rep.HasErrors() {
		// Failures are already in the report output.
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}
	return nil
}
