package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"graft/internal/driver"
	"graft/internal/rules"
)

// runSetup is everything run and check need resolved before touching files:
// the validated rule set and the expanded target list.
type runSetup struct {
	rules   *rules.RuleSet
	targets []string
}

// resolveRunSetup combines flags, positional arguments and the optional
// graft.toml manifest. Explicit flags always win over manifest values.
func resolveRunSetup(cmd *cobra.Command, args []string) (*runSetup, error) {
	rulesFlag, err := cmd.Flags().GetString("rules")
	if err != nil {
		return nil, fmt.Errorf("failed to get rules flag: %w", err)
	}
	exts, err := cmd.Flags().GetStringSlice("ext")
	if err != nil {
		return nil, fmt.Errorf("failed to get ext flag: %w", err)
	}

	var manifest *projectManifest
	if rulesFlag == "" || len(args) == 0 {
		m, ok, err := loadProjectManifest(manifestStartDir(args))
		if err != nil {
			return nil, err
		}
		if ok {
			manifest = m
		}
	}

	rulesPath := rulesFlag
	if rulesPath == "" {
		if manifest == nil {
			return nil, errors.New(noGraftTomlMessage)
		}
		rulesPath = rulesPathFromManifest(manifest)
	}
	ruleSet, err := rules.Load(rulesPath)
	if err != nil {
		return nil, err
	}

	targetArgs := args
	if len(targetArgs) == 0 && manifest != nil {
		for _, f := range manifest.Config.Run.Files {
			targetArgs = append(targetArgs, filepath.Join(manifest.Root, filepath.FromSlash(f)))
		}
	}
	if len(targetArgs) == 0 {
		return nil, errors.New("no targets given; pass files or directories, or set [run].files in graft.toml")
	}
	if len(exts) == 0 && manifest != nil {
		exts = manifest.Config.Run.Ext
	}

	targets, err := expandTargets(targetArgs, exts)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, errors.New("no files matched under the given targets")
	}
	return &runSetup{rules: ruleSet, targets: targets}, nil
}

// manifestStartDir picks where the graft.toml walk starts: the first
// target's directory when targets are given, the working directory
// otherwise.
func manifestStartDir(args []string) string {
	if len(args) == 0 {
		return "."
	}
	arg := args[0]
	if info, err := os.Stat(arg); err == nil && info.IsDir() {
		return arg
	}
	return filepath.Dir(arg)
}

// expandTargets stats every argument and walks directories. Duplicates are
// dropped so a file named both directly and via its directory is patched once.
func expandTargets(args, exts []string) ([]string, error) {
	seen := make(map[string]bool, len(args))
	out := make([]string, 0, len(args))
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			out = append(out, path)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			// Keep the target in the batch; the run reports it as a
			// per-file load failure without stopping the other files.
			add(arg)
			continue
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		files, err := driver.ListTargets(arg, exts)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", arg, err)
		}
		for _, f := range files {
			add(f)
		}
	}
	return out, nil
}

// resolveRulesPath is the rule-file half of resolveRunSetup, for commands
// that take no targets.
func resolveRulesPath(cmd *cobra.Command) (string, error) {
	rulesFlag, err := cmd.Flags().GetString("rules")
	if err != nil {
		return "", fmt.Errorf("failed to get rules flag: %w", err)
	}
	if rulesFlag != "" {
		return rulesFlag, nil
	}
	manifest, ok, err := loadProjectManifest(".")
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.New(noGraftTomlMessage)
	}
	return rulesPathFromManifest(manifest), nil
}
