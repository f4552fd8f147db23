package rules

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"graft/internal/report"
)

// Matching is byte-exact, so an anchor saved in NFD never matches a target
// file saved in NFC even when both render identically. Anchors shorter than
// this are prone to matching lines the author never meant.
const shortAnchorRunes = 4

// Lint runs advisory checks over a validated rule set. It never rejects the
// set; callers decide what to do with the problems.
func Lint(rs *RuleSet) []report.Problem {
	problems := make([]report.Problem, 0)
	markerOwner := make(map[string]string, len(rs.Rules))

	for i := range rs.Rules {
		r := &rs.Rules[i]
		problems = append(problems, lintNormalization(r)...)

		if owner, ok := markerOwner[r.Marker]; ok {
			problems = append(problems, report.Warn(report.RulDuplicateMarker, r.ID,
				fmt.Sprintf("marker %q is already used by rule %q; this rule will always skip once that one applies", r.Marker, owner)))
		} else {
			markerOwner[r.Marker] = r.ID
		}

		if r.Anchor.Contains != "" && utf8.RuneCountInString(r.Anchor.Contains) < shortAnchorRunes {
			problems = append(problems, report.Warn(report.RulShortAnchor, r.ID,
				fmt.Sprintf("contains anchor %q is %d runes; likely to match unintended lines", r.Anchor.Contains, utf8.RuneCountInString(r.Anchor.Contains))))
		}
	}
	return problems
}

func lintNormalization(r *Rule) []report.Problem {
	fields := []struct {
		name string
		text string
	}{
		{"anchor.equals", r.Anchor.Equals},
		{"anchor.contains", r.Anchor.Contains},
		{"anchor.pattern", r.Anchor.Pattern},
		{"marker", r.Marker},
		{"insert.content", r.Insert.Content},
	}
	for i, ctx := range r.Context {
		fields = append(fields,
			struct {
				name string
				text string
			}{fmt.Sprintf("context[%d].equals", i), ctx.Equals},
			struct {
				name string
				text string
			}{fmt.Sprintf("context[%d].contains", i), ctx.Contains},
		)
	}

	problems := make([]report.Problem, 0)
	for _, f := range fields {
		if f.text == "" {
			continue
		}
		if !norm.NFC.IsNormalString(f.text) {
			problems = append(problems, report.Warn(report.RulNotNFC, r.ID,
				fmt.Sprintf("%s is not NFC-normalized; byte-exact matching may silently fail", f.name)))
		}
	}
	return problems
}
