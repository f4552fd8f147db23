package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"graft/internal/report"
	"graft/internal/rules"
)

var lintCmd = &cobra.Command{
	Use:   "lint [ruleset]",
	Short: "Check a rule file for mistakes validation cannot reject",
	Long:  "Load and validate the rule file, then run advisory checks: duplicate markers, anchors too short to be unique, non-NFC text that byte-exact matching would never find.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLint,
}

func init() {
	lintCmd.Flags().String("rules", "", "rule file (default: [run].rules from graft.toml)")
}

func runLint(cmd *cobra.Command, args []string) error {
	var rulesPath string
	if len(args) == 1 {
		rulesPath = args[0]
	} else {
		p, err := resolveRulesPath(cmd)
		if err != nil {
			return err
		}
		rulesPath = p
	}
	rs, err := rules.Load(rulesPath)
	if err != nil {
		return err
	}

	problems := rules.Lint(rs)
	if len(problems) == 0 {
		fmt.Fprintf(os.Stdout, "%s: %d rule(s), no problems\n", rulesPath, len(rs.Rules))
		return nil
	}
	for _, p := range problems {
		fmt.Fprintln(os.Stdout, p.String())
	}

	if report.HasErrors(problems) {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}
	return nil
}
