package reportfmt

import (
	"encoding/json"
	"io"

	"graft/internal/report"
)

// RuleJSON is one rule outcome in JSON output.
type RuleJSON struct {
	Rule    string `json:"rule"`
	Outcome string `json:"outcome"`
	Line    uint32 `json:"line,omitempty"`
	Inserts int    `json:"inserts,omitempty"`
	Note    string `json:"note,omitempty"`
}

// FileJSON is one target file in JSON output.
type FileJSON struct {
	Path    string     `json:"path"`
	Changed bool       `json:"changed"`
	Written bool       `json:"written"`
	Inserts int        `json:"inserts"`
	Error   string     `json:"error,omitempty"`
	Rules   []RuleJSON `json:"rules"`
}

// RunJSON is the root structure of JSON output.
type RunJSON struct {
	Files     []FileJSON `json:"files"`
	Applied   int        `json:"applied"`
	Skipped   int        `json:"skipped"`
	NoMatch   int        `json:"no_match"`
	Conflicts int        `json:"conflicts"`
}

// BuildRunOutput assembles the JSON payload without serialising it.
func BuildRunOutput(rep *report.Report, opts JSONOpts) RunJSON {
	files := make([]FileJSON, 0, len(rep.Files))
	for i := range rep.Files {
		fr := &rep.Files[i]
		fj := FileJSON{
			Path:    fr.Path,
			Changed: fr.Changed,
			Written: fr.Written,
			Inserts: fr.Inserts,
			Error:   fr.Err,
			Rules:   make([]RuleJSON, 0, len(fr.Rules)),
		}
		for _, rr := range fr.Rules {
			if !opts.IncludeSkips && rr.Outcome == report.OutcomeAlreadyPresent {
				continue
			}
			fj.Rules = append(fj.Rules, RuleJSON{
				Rule:    rr.RuleID,
				Outcome: rr.Outcome.String(),
				Line:    rr.Line,
				Inserts: rr.Inserts,
				Note:    rr.Note,
			})
		}
		files = append(files, fj)
	}

	applied, skipped, noMatch, conflicts := rep.Counts()
	return RunJSON{
		Files:     files,
		Applied:   applied,
		Skipped:   skipped,
		NoMatch:   noMatch,
		Conflicts: conflicts,
	}
}

// JSON renders the whole run report as indented JSON.
func JSON(w io.Writer, rep *report.Report, opts JSONOpts) error {
	output := BuildRunOutput(rep, opts)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
