package report

import (
	"sort"
)

// RuleResult records how a single rule ended up against a single file.
type RuleResult struct {
	RuleID  string
	Outcome Outcome
	Line    uint32 // 1-based line of the first insertion; 0 when nothing landed
	Inserts int    // number of insertion operations applied
	Note    string // human-oriented detail (conflict position, skip reason)
}

// FileResult aggregates the per-rule results for one target file.
type FileResult struct {
	Path    string
	Rules   []RuleResult
	Changed bool   // at least one insertion landed in the buffer
	Written bool   // the buffer was persisted to disk
	Inserts int    // total insertion operations
	Err     string // fatal file-level failure (I/O, conflict); empty otherwise
}

// Counts tallies rule outcomes within the file.
func (fr *FileResult) Counts() (applied, skipped, noMatch, conflicts int) {
	for _, rr := range fr.Rules {
		switch rr.Outcome {
		case OutcomeApplied:
			applied++
		case OutcomeAlreadyPresent:
			skipped++
		case OutcomeNoMatch:
			noMatch++
		case OutcomeConflict:
			conflicts++
		}
	}
	return
}

// Report aggregates file results for a whole run.
type Report struct {
	Files []FileResult
}

// Add appends a file result.
func (r *Report) Add(fr FileResult) {
	r.Files = append(r.Files, fr)
}

// Sort orders file results by path for deterministic output.
func (r *Report) Sort() {
	sort.SliceStable(r.Files, func(i, j int) bool {
		return r.Files[i].Path < r.Files[j].Path
	})
}

// Counts tallies rule outcomes across all files.
func (r *Report) Counts() (applied, skipped, noMatch, conflicts int) {
	for i := range r.Files {
		a, s, n, c := r.Files[i].Counts()
		applied += a
		skipped += s
		noMatch += n
		conflicts += c
	}
	return
}

// Changed reports whether any file's buffer changed.
func (r *Report) Changed() bool {
	for i := range r.Files {
		if r.Files[i].Changed {
			return true
		}
	}
	return false
}

// HasErrors reports whether any file failed fatally (I/O error or conflict).
func (r *Report) HasErrors() bool {
	for i := range r.Files {
		if r.Files[i].Err != "" {
			return true
		}
	}
	return false
}
