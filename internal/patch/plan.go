package patch

import (
	"fmt"
	"strings"

	"graft/internal/match"
	"graft/internal/rules"
	"graft/internal/source"
)

// Op is one planned edit: Text replaces the bytes covered by Span. A
// zero-width span is a pure insertion at Span.Start.
type Op struct {
	RuleID string
	Span   source.Span
	Text   string
}

func (op Op) delta() int {
	return len(op.Text) - int(op.Span.Len())
}

// planRule turns the rule's matches into concrete ops against the current
// buffer. Ops are produced in match (document) order.
func planRule(f *source.File, r *rules.Rule, matches []match.Match) ([]Op, error) {
	ops := make([]Op, 0, len(matches))
	for i := range matches {
		op, err := planMatch(f, r, &matches[i])
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func planMatch(f *source.File, r *rules.Rule, m *match.Match) (Op, error) {
	ins := r.Insert
	switch ins.Position {
	case rules.PositionBefore:
		return Op{
			RuleID: r.ID,
			Span:   m.LineSpan.ZeroideToStart(),
			Text:   lineBlock(f, m, ins, true),
		}, nil

	case rules.PositionAfter:
		return planAfter(f, r, m), nil

	case rules.PositionReplace:
		span, ok := m.GroupSpan(ins.Group)
		if !ok {
			return Op{}, fmt.Errorf("rule %q: capture group %d did not participate in the match", r.ID, ins.Group)
		}
		return Op{
			RuleID: r.ID,
			Span:   span,
			Text:   m.Expand(ins.Content, f.Content),
		}, nil
	}
	return Op{}, fmt.Errorf("rule %q: invalid insert position %q", r.ID, ins.Position)
}

// planAfter inserts past the anchor line's terminator. An anchor on the
// final unterminated line keeps the file's missing trailing newline: the
// block is attached with a leading newline instead.
func planAfter(f *source.File, r *rules.Rule, m *match.Match) Op {
	lineEnd := m.LineSpan.End
	if int(lineEnd) < len(f.Content) {
		at := source.Span{File: f.ID, Start: lineEnd + 1, End: lineEnd + 1}
		return Op{RuleID: r.ID, Span: at, Text: lineBlock(f, m, r.Insert, true)}
	}
	at := source.Span{File: f.ID, Start: lineEnd, End: lineEnd}
	return Op{RuleID: r.ID, Span: at, Text: "\n" + lineBlock(f, m, r.Insert, false)}
}

// lineBlock renders the insert content as full lines. Every non-blank line
// receives the anchor line's indentation when the rule inherits it; blank
// lines stay empty so no trailing whitespace is introduced.
func lineBlock(f *source.File, m *match.Match, ins rules.Insert, terminate bool) string {
	indent := ""
	if ins.InheritIndent() {
		indent = f.LineIndent(m.Line)
	}

	lines := strings.Split(ins.Content, "\n")
	var b strings.Builder
	for i, line := range lines {
		if line != "" {
			b.WriteString(indent)
			b.WriteString(line)
		}
		if i < len(lines)-1 || terminate {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
