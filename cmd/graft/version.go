package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"graft/internal/version"
)

const versionTagline = "splice diagnostics into living code"

// versionPayload is the json shape of `graft version`. The pretty path
// prints the same fields, just colored.
type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	Tagline   string `json:"tagline"`
	Commit    string `json:"commit,omitempty"`
	CommitMsg string `json:"commit_message,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show graft build fingerprints",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().Bool("hash", false, "include git commit hash")
	versionCmd.Flags().Bool("message", false, "include git commit message")
	versionCmd.Flags().Bool("date", false, "include build timestamp")
	versionCmd.Flags().Bool("full", false, "show every recorded bit of build metadata")
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runVersion(cmd *cobra.Command, args []string) error {
	showHash, err := cmd.Flags().GetBool("hash")
	if err != nil {
		return fmt.Errorf("failed to get hash flag: %w", err)
	}
	showMessage, err := cmd.Flags().GetBool("message")
	if err != nil {
		return fmt.Errorf("failed to get message flag: %w", err)
	}
	showDate, err := cmd.Flags().GetBool("date")
	if err != nil {
		return fmt.Errorf("failed to get date flag: %w", err)
	}
	full, err := cmd.Flags().GetBool("full")
	if err != nil {
		return fmt.Errorf("failed to get full flag: %w", err)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if full {
		showHash, showMessage, showDate = true, true, true
	}

	ver := strings.TrimSpace(version.Version)
	display := version.Pretty()
	if ver == "" {
		ver, display = "dev", "dev"
	}
	payload := versionPayload{Tool: "graft", Version: ver, Tagline: versionTagline}
	if showHash {
		payload.Commit = orUnknown(version.Commit())
	}
	if showMessage {
		payload.CommitMsg = orUnknown(strings.TrimSpace(version.GitMessage))
	}
	if showDate {
		payload.BuildDate = orUnknown(strings.TrimSpace(version.BuildDate))
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case "pretty":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}

	fmt.Fprintf(out, "graft %s - %s\n", display, versionTagline)
	if payload.Commit != "" {
		fmt.Fprintf(out, "commit:  %s\n", payload.Commit)
	}
	if payload.CommitMsg != "" {
		fmt.Fprintf(out, "message: %s\n", payload.CommitMsg)
	}
	if payload.BuildDate != "" {
		fmt.Fprintf(out, "built:   %s\n", payload.BuildDate)
	}
	if !showHash && !showMessage && !showDate {
		fmt.Fprintln(out, "set --hash, --message, --date, or --full for more build trivia")
	}
	return nil
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
