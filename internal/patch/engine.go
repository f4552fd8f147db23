// Package patch plans and applies rule insertions against a file revision.
//
// Rules run strictly in declaration order. Each rule sees the buffer as the
// previous rules left it: the marker guard, anchor matching and planning all
// work on the latest revision, and a rule that inserts text produces a new
// revision for the next rule to consume. Edits planned for one rule are
// applied from the highest offset down so earlier offsets stay valid, and
// the regions of freshly inserted text are tracked across rules so a later
// rule that lands inside one of them is rejected as a conflict before
// anything is written.
package patch

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"graft/internal/match"
	"graft/internal/report"
	"graft/internal/rules"
	"graft/internal/source"
)

// ErrConflict marks two insertions claiming the same bytes. The file that
// triggered it must not be written.
var ErrConflict = errors.New("conflicting insertions")

// Result accumulates the per-rule outcomes for one file.
type Result struct {
	// FileID is the latest revision after all applied rules.
	FileID source.FileID
	Rules  []report.RuleResult
	// Changed reports whether the final revision's bytes differ from the
	// input revision's. Callers gate write-back on it.
	Changed bool
	Inserts int
}

// ApplyRules runs every rule of the set against the given revision and
// returns the outcome per rule plus the final revision. On conflict the
// returned error wraps ErrConflict and Result still carries the outcomes
// gathered so far; the caller must discard the revisions instead of
// persisting them.
func ApplyRules(fs *source.FileSet, id source.FileID, rs *rules.RuleSet) (*Result, error) {
	res := &Result{
		FileID: id,
		Rules:  make([]report.RuleResult, 0, len(rs.Rules)),
	}

	// Spans of text inserted by earlier rules, kept in the coordinates of
	// the current revision.
	var inserted []source.Span

	for i := range rs.Rules {
		r := &rs.Rules[i]
		f := fs.Get(res.FileID)
		if f == nil {
			return res, fmt.Errorf("rule %q: file revision %d not found", r.ID, res.FileID)
		}

		if bytes.Contains(f.Content, []byte(r.Marker)) {
			res.Rules = append(res.Rules, report.RuleResult{
				RuleID:  r.ID,
				Outcome: report.OutcomeAlreadyPresent,
				Note:    "marker already present",
			})
			continue
		}

		matches, err := match.Find(f, r)
		if err != nil {
			return res, err
		}
		if len(matches) == 0 {
			res.Rules = append(res.Rules, report.RuleResult{
				RuleID:  r.ID,
				Outcome: report.OutcomeNoMatch,
				Note:    "anchor not found",
			})
			continue
		}

		ops, err := planRule(f, r, matches)
		if err != nil {
			return res, err
		}

		if at, ok := findConflict(ops, inserted); ok {
			line := f.Position(at.Start).Line
			res.Rules = append(res.Rules, report.RuleResult{
				RuleID:  r.ID,
				Outcome: report.OutcomeConflict,
				Line:    line,
				Note:    fmt.Sprintf("insertion at line %d overlaps text inserted by an earlier rule", line),
			})
			return res, fmt.Errorf("rule %q: %w at %s line %d", r.ID, ErrConflict, f.Path, line)
		}

		content, regions, err := applyOps(f.Content, ops)
		if err != nil {
			return res, fmt.Errorf("rule %q: %w", r.ID, err)
		}

		inserted = shiftSpans(inserted, ops)
		inserted = append(inserted, regions...)

		res.FileID = fs.AddRevision(res.FileID, content)
		res.Changed = true
		res.Inserts += len(ops)
		res.Rules = append(res.Rules, report.RuleResult{
			RuleID:  r.ID,
			Outcome: report.OutcomeApplied,
			Line:    matches[0].Line,
			Inserts: len(ops),
		})
	}

	// A replace can expand to exactly the bytes it covered; comparing the
	// revision hashes catches that so an identical buffer is never written
	// back.
	if res.Changed {
		orig, final := fs.Get(id), fs.Get(res.FileID)
		if orig != nil && final != nil && orig.Hash == final.Hash {
			res.Changed = false
		}
	}
	return res, nil
}

// findConflict checks the batch against itself and against regions inserted
// by earlier rules. It returns the span of the first offending op.
func findConflict(ops []Op, inserted []source.Span) (source.Span, bool) {
	for i := range ops {
		for j := i + 1; j < len(ops); j++ {
			if spansConflict(ops[i].Span, ops[j].Span) {
				return ops[j].Span, true
			}
		}
		for _, region := range inserted {
			if spansConflict(ops[i].Span, region) {
				return ops[i].Span, true
			}
		}
	}
	return source.Span{}, false
}

// spansConflict reports whether two edits claim the same bytes. Zero-width
// insertions at the same offset conflict, and a zero-width insertion inside
// a replaced or previously inserted region conflicts too; touching at a
// boundary does not.
func spansConflict(a, b source.Span) bool {
	switch {
	case a.Empty() && b.Empty():
		return a.Start == b.Start
	case a.Empty():
		return b.Start <= a.Start && a.Start < b.End
	case b.Empty():
		return a.Start <= b.Start && b.Start < a.End
	default:
		return a.Start < b.End && b.Start < a.End
	}
}

// applyOps splices the ops into content from the highest offset down and
// returns the new buffer plus the spans of the inserted text in post-edit
// coordinates.
func applyOps(content []byte, ops []Op) ([]byte, []source.Span, error) {
	sorted := append([]Op(nil), ops...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Span.Start == sorted[j].Span.Start {
			return sorted[i].Span.End > sorted[j].Span.End
		}
		return sorted[i].Span.Start > sorted[j].Span.Start
	})

	working := append([]byte(nil), content...)
	for _, op := range sorted {
		start, end := int(op.Span.Start), int(op.Span.End)
		if end < start || end > len(working) {
			return nil, nil, fmt.Errorf("edit span %s out of range for %d bytes", op.Span, len(working))
		}
		tail := append([]byte(nil), working[end:]...)
		working = append(append(working[:start], op.Text...), tail...)
	}

	regions := make([]source.Span, 0, len(ops))
	for _, op := range ops {
		delta := 0
		for _, other := range ops {
			if other.Span.Start < op.Span.Start {
				delta += other.delta()
			}
		}
		start := int(op.Span.Start) + delta
		regions = append(regions, source.Span{
			File:  op.Span.File,
			Start: uint32(start),
			End:   uint32(start + len(op.Text)),
		})
	}
	return working, regions, nil
}

// shiftSpans moves previously tracked regions by the total delta of the ops
// that land strictly before each of them. Ops inside or at the start of a
// tracked region cannot occur here; the conflict check rejects them first.
func shiftSpans(spans []source.Span, ops []Op) []source.Span {
	if len(spans) == 0 {
		return spans
	}
	out := make([]source.Span, 0, len(spans))
	for _, s := range spans {
		delta := 0
		for _, op := range ops {
			if op.Span.End <= s.Start {
				delta += op.delta()
			}
		}
		start := int(s.Start) + delta
		end := int(s.End) + delta
		out = append(out, source.Span{File: s.File, Start: uint32(start), End: uint32(end)})
	}
	return out
}
