package patch

import (
	"strings"
	"testing"

	"graft/internal/report"
	"graft/internal/rules"
)

func TestIndentationInherited(t *testing.T) {
	tests := []struct {
		name    string
		content string
		indent  string
		want    string
	}{
		{
			name:    "spaces",
			content: "    foo();\n",
			indent:  "",
			want:    "    bar();\n    foo();\n",
		},
		{
			name:    "tabs",
			content: "\t\tfoo();\n",
			indent:  "",
			want:    "\t\tbar();\n\t\tfoo();\n",
		},
		{
			name:    "none keeps content verbatim",
			content: "\tfoo();\n",
			indent:  rules.IndentNone,
			want:    "bar();\n\tfoo();\n",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fs, id := newTarget(t, tc.content)
			rs := ruleSet(rules.Rule{
				ID:     "r",
				Marker: "bar();",
				Anchor: rules.Anchor{Contains: "foo();"},
				Insert: rules.Insert{Position: rules.PositionBefore, Content: "bar();", Indent: tc.indent},
			})

			res, err := ApplyRules(fs, id, rs)
			if err != nil {
				t.Fatalf("ApplyRules returned error: %v", err)
			}
			if got := finalContent(t, fs, res); got != tc.want {
				t.Errorf("final content\n%q\nwant\n%q", got, tc.want)
			}
		})
	}
}

func TestMultiLineContentKeepsBlankLinesClean(t *testing.T) {
	fs, id := newTarget(t, "  x();\n")
	rs := ruleSet(rules.Rule{
		ID:     "r",
		Marker: "one();",
		Anchor: rules.Anchor{Equals: "  x();"},
		Insert: rules.Insert{Position: rules.PositionBefore, Content: "one();\n\ntwo();"},
	})

	res, err := ApplyRules(fs, id, rs)
	if err != nil {
		t.Fatalf("ApplyRules returned error: %v", err)
	}

	want := "  one();\n\n  two();\n  x();\n"
	got := finalContent(t, fs, res)
	if got != want {
		t.Fatalf("final content\n%q\nwant\n%q", got, want)
	}
	for _, line := range strings.Split(got, "\n") {
		if line != "" && strings.TrimSpace(line) == "" {
			t.Errorf("blank line carries whitespace: %q", line)
		}
	}
}

func TestAfterAnchorOnUnterminatedLastLine(t *testing.T) {
	fs, id := newTarget(t, "line1\nlast()")
	rs := ruleSet(rules.Rule{
		ID:     "r",
		Marker: "tail()",
		Anchor: rules.Anchor{Equals: "last()"},
		Insert: rules.Insert{Position: rules.PositionAfter, Content: "tail()"},
	})

	res, err := ApplyRules(fs, id, rs)
	if err != nil {
		t.Fatalf("ApplyRules returned error: %v", err)
	}

	want := "line1\nlast()\ntail()"
	if got := finalContent(t, fs, res); got != want {
		t.Errorf("final content\n%q\nwant\n%q", got, want)
	}
}

func TestBeforeWithPatternAnchorUsesMatchLine(t *testing.T) {
	fs, id := newTarget(t, "a();\n  b(42);\n")
	rs := ruleSet(rules.Rule{
		ID:     "r",
		Marker: "value below",
		Anchor: rules.Anchor{Pattern: `b\((\d+)\)`},
		Insert: rules.Insert{Position: rules.PositionBefore, Content: "// value below"},
	})

	res, err := ApplyRules(fs, id, rs)
	if err != nil {
		t.Fatalf("ApplyRules returned error: %v", err)
	}

	want := "a();\n  // value below\n  b(42);\n"
	if got := finalContent(t, fs, res); got != want {
		t.Errorf("final content\n%q\nwant\n%q", got, want)
	}
}

func TestReplaceGroupMustParticipate(t *testing.T) {
	fs, id := newTarget(t, "foo\n")
	rs := ruleSet(rules.Rule{
		ID:     "r",
		Marker: "never",
		Anchor: rules.Anchor{Pattern: `foo(bar)?`},
		Insert: rules.Insert{Position: rules.PositionReplace, Content: "$1", Group: 1},
	})

	res, err := ApplyRules(fs, id, rs)
	if err == nil {
		t.Fatal("expected an error for a non-participating group")
	}
	if !strings.Contains(err.Error(), "did not participate") {
		t.Errorf("unexpected error: %v", err)
	}
	if res.Changed {
		t.Error("failed plan must not change the buffer")
	}
}

func TestMultiInsertReportsEachRegionOnce(t *testing.T) {
	fs, id := newTarget(t, "f(1);\nf(2);\nf(3);\n")
	rs := ruleSet(
		rules.Rule{
			ID:     "trace-all",
			Marker: "t();",
			Anchor: rules.Anchor{Contains: "f(", Occurrences: rules.OccurrencesAll},
			Insert: rules.Insert{Position: rules.PositionAfter, Content: "t();"},
		},
		rules.Rule{
			ID:     "head",
			Marker: "h();",
			Anchor: rules.Anchor{Equals: "f(1);"},
			Insert: rules.Insert{Position: rules.PositionBefore, Content: "h();"},
		},
	)

	res, err := ApplyRules(fs, id, rs)
	if err != nil {
		t.Fatalf("ApplyRules returned error: %v", err)
	}

	want := "h();\nf(1);\nt();\nf(2);\nt();\nf(3);\nt();\n"
	if got := finalContent(t, fs, res); got != want {
		t.Errorf("final content\n%q\nwant\n%q", got, want)
	}
	if res.Inserts != 4 {
		t.Errorf("inserts = %d, want 4", res.Inserts)
	}
	if res.Rules[0].Outcome != report.OutcomeApplied || res.Rules[1].Outcome != report.OutcomeApplied {
		t.Errorf("unexpected outcomes %+v", res.Rules)
	}
}
