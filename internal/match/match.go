// Package match resolves rule anchors against loaded file buffers.
// Line anchors scan lines in order and apply context predicates; pattern
// anchors run an RE2 search over the whole buffer. Matching is byte-exact
// and case-sensitive; zero matches is a reportable outcome, not an error.
package match

import (
	"fmt"
	"regexp"
	"strings"

	"graft/internal/rules"
	"graft/internal/source"
)

// Match is one resolved anchor occurrence, in document order.
type Match struct {
	Line     uint32      // 1-based anchor line; for patterns, the line holding the match start
	LineSpan source.Span // anchor line without its newline
	Span     source.Span // full match span; for line anchors equals LineSpan

	// Pattern anchors carry the compiled expression and raw submatch
	// indices so the planner can expand replacement templates.
	Pattern *regexp.Regexp
	Indices []int
}

// GroupSpan returns the span of capture group g. ok is false when the group
// does not exist or did not participate in the match.
func (m *Match) GroupSpan(g int) (source.Span, bool) {
	if m.Pattern == nil || g < 0 || 2*g+1 >= len(m.Indices) {
		return source.Span{}, false
	}
	start, end := m.Indices[2*g], m.Indices[2*g+1]
	if start < 0 || end < 0 {
		return source.Span{}, false
	}
	return source.Span{File: m.Span.File, Start: uint32(start), End: uint32(end)}, true
}

// Expand renders an RE2 expansion template ($1, ${name}) against this match.
func (m *Match) Expand(template string, content []byte) string {
	return string(m.Pattern.Expand(nil, []byte(template), content, m.Indices))
}

// Find resolves the rule's anchor against the current buffer. Results are in
// document order; at most one result unless the anchor selects all
// occurrences.
func Find(f *source.File, r *rules.Rule) ([]Match, error) {
	if r.Anchor.Kind() == rules.AnchorPattern {
		return findPattern(f, r)
	}
	return findLines(f, r), nil
}

func findLines(f *source.File, r *rules.Rule) []Match {
	var out []Match
	n := f.NumLines()
	for ln := uint32(1); ln <= n; ln++ {
		if !anchorLineMatches(f.GetLine(ln), r.Anchor) {
			continue
		}
		if !contextHolds(f, ln, r.Context) {
			continue
		}
		span := f.LineSpan(ln)
		out = append(out, Match{Line: ln, LineSpan: span, Span: span})
		if !r.Anchor.All() {
			break
		}
	}
	return out
}

// anchorLineMatches is whitespace-exact: anchors are copied verbatim from
// the target file, indentation included, so drifted files simply stop
// matching instead of matching the wrong line.
func anchorLineMatches(line string, a rules.Anchor) bool {
	if a.Equals != "" {
		return line == a.Equals
	}
	return strings.Contains(line, a.Contains)
}

// contextHolds checks every context predicate relative to the anchor line.
func contextHolds(f *source.File, anchor uint32, ctxs []rules.Context) bool {
	for _, ctx := range ctxs {
		text, ok := contextLine(f, anchor, ctx)
		if !ok {
			return false
		}
		if ctx.Equals != "" {
			if text != ctx.Equals {
				return false
			}
		} else if !strings.Contains(text, ctx.Contains) {
			return false
		}
	}
	return true
}

// contextLine walks Offset lines from the anchor. With SkipBlank, blank
// lines are passed over without counting, so offset -1 means "the previous
// non-blank line".
func contextLine(f *source.File, anchor uint32, ctx rules.Context) (string, bool) {
	step := 1
	count := ctx.Offset
	if ctx.Offset < 0 {
		step = -1
		count = -ctx.Offset
	}

	ln := int(anchor)
	n := int(f.NumLines())
	for moved := 0; moved < count; {
		ln += step
		if ln < 1 || ln > n {
			return "", false
		}
		if ctx.SkipBlank && strings.TrimSpace(f.GetLine(uint32(ln))) == "" {
			continue
		}
		moved++
	}
	return f.GetLine(uint32(ln)), true
}

func findPattern(f *source.File, r *rules.Rule) ([]Match, error) {
	re, err := regexp.Compile(r.Anchor.Pattern)
	if err != nil {
		return nil, fmt.Errorf("rule %q: invalid pattern: %w", r.ID, err)
	}

	var indexSets [][]int
	if r.Anchor.All() {
		indexSets = re.FindAllSubmatchIndex(f.Content, -1)
	} else if idx := re.FindSubmatchIndex(f.Content); idx != nil {
		indexSets = [][]int{idx}
	}

	out := make([]Match, 0, len(indexSets))
	for _, idx := range indexSets {
		start, end := uint32(idx[0]), uint32(idx[1])
		line := f.Position(start).Line
		out = append(out, Match{
			Line:     line,
			LineSpan: f.LineSpan(line),
			Span:     source.Span{File: f.ID, Start: start, End: end},
			Pattern:  re,
			Indices:  idx,
		})
	}
	return out, nil
}
