package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"graft/internal/driver"
)

var revertCmd = &cobra.Command{
	Use:   "revert [flags] <file ...>",
	Short: "Restore files from their pre-patch snapshots",
	Long:  "Rewrite targets with the bytes captured by 'run --backup'. A snapshot survives until the next backup run overwrites it.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRevert,
}

func init() {
	revertCmd.Flags().Bool("drop", false, "delete each snapshot after restoring it")
}

func runRevert(cmd *cobra.Command, args []string) error {
	drop, err := cmd.Flags().GetBool("drop")
	if err != nil {
		return fmt.Errorf("failed to get drop flag: %w", err)
	}
	store, err := driver.OpenSnapStore("graft")
	if err != nil {
		return fmt.Errorf("failed to open snapshot store: %w", err)
	}

	missing := 0
	for _, path := range args {
		restored, err := store.Restore(path)
		if err != nil {
			return fmt.Errorf("revert %s: %w", path, err)
		}
		if !restored {
			missing++
			fmt.Fprintf(os.Stdout, "  no snapshot for %s\n", path)
			continue
		}
		fmt.Fprintf(os.Stdout, "  restored %s\n", path)
		if drop {
			if err := store.Drop(path); err != nil {
				return fmt.Errorf("drop snapshot for %s: %w", path, err)
			}
		}
	}

	if missing > 0 {
		cmd.SilenceUsage = true
		return fmt.Errorf("%d file(s) had no snapshot", missing)
	}
	return nil
}
