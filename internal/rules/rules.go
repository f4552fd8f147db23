package rules

import (
	"fmt"
	"regexp"
	"strings"
)

// AnchorKind discriminates the three anchor forms.
type AnchorKind uint8

const (
	// AnchorEquals matches a whole line byte for byte, indentation included.
	AnchorEquals AnchorKind = iota
	// AnchorContains matches a line containing a raw substring.
	AnchorContains
	// AnchorPattern matches a regular expression against the whole buffer.
	AnchorPattern
)

// Occurrence selection for anchors.
const (
	OccurrencesFirst = "first"
	OccurrencesAll   = "all"
)

// Insert positions.
const (
	PositionBefore  = "before"
	PositionAfter   = "after"
	PositionReplace = "replace"
)

// Indent modes.
const (
	IndentAnchor = "anchor"
	IndentNone   = "none"
)

// RuleSet is a parsed and validated rule file.
type RuleSet struct {
	Path  string `toml:"-"`
	Rules []Rule `toml:"rule"`
}

// Rule describes one idempotent insertion.
type Rule struct {
	ID      string    `toml:"id"`
	Marker  string    `toml:"marker"`
	Anchor  Anchor    `toml:"anchor"`
	Context []Context `toml:"context"`
	Insert  Insert    `toml:"insert"`
}

// Anchor locates candidate positions. Exactly one of Equals, Contains, or
// Pattern must be set.
type Anchor struct {
	Equals      string `toml:"equals"`
	Contains    string `toml:"contains"`
	Pattern     string `toml:"pattern"`
	Occurrences string `toml:"occurrences"`
}

// Kind reports which anchor form is set. Call only on validated rules.
func (a Anchor) Kind() AnchorKind {
	switch {
	case a.Pattern != "":
		return AnchorPattern
	case a.Contains != "":
		return AnchorContains
	default:
		return AnchorEquals
	}
}

// All reports whether the anchor selects every occurrence.
func (a Anchor) All() bool {
	return a.Occurrences == OccurrencesAll
}

// Context is a predicate on a line at a relative offset from the anchor line.
// Exactly one of Equals or Contains must be set.
type Context struct {
	Offset    int    `toml:"offset"`
	Equals    string `toml:"equals"`
	Contains  string `toml:"contains"`
	SkipBlank bool   `toml:"skip_blank"`
}

// Insert describes what to put at the anchored position.
type Insert struct {
	Position string `toml:"position"`
	Content  string `toml:"content"`
	Indent   string `toml:"indent"`
	Group    int    `toml:"group"`
}

// InheritIndent reports whether inserted lines take the anchor line's
// leading whitespace.
func (ins Insert) InheritIndent() bool {
	return ins.Indent != IndentNone
}

// Validate checks the whole rule set and normalizes defaults in place
// (occurrences "first", indent "anchor"). The first violation is returned.
func (rs *RuleSet) Validate() error {
	if len(rs.Rules) == 0 {
		return fmt.Errorf("rule set contains no rules")
	}
	seen := make(map[string]bool, len(rs.Rules))
	for i := range rs.Rules {
		r := &rs.Rules[i]
		if err := r.validate(); err != nil {
			return err
		}
		if seen[r.ID] {
			return fmt.Errorf("rule %q: duplicate rule id", r.ID)
		}
		seen[r.ID] = true
	}
	return nil
}

func (r *Rule) validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("rule with empty id (marker %q)", r.Marker)
	}
	if r.Marker == "" {
		return fmt.Errorf("rule %q: missing marker", r.ID)
	}

	if err := r.validateAnchor(); err != nil {
		return err
	}
	if err := r.validateContext(); err != nil {
		return err
	}
	return r.validateInsert()
}

func (r *Rule) validateAnchor() error {
	a := &r.Anchor
	set := 0
	if a.Equals != "" {
		set++
	}
	if a.Contains != "" {
		set++
	}
	if a.Pattern != "" {
		set++
	}
	if set == 0 {
		return fmt.Errorf("rule %q: anchor requires one of equals, contains, pattern", r.ID)
	}
	if set > 1 {
		return fmt.Errorf("rule %q: anchor must set exactly one of equals, contains, pattern", r.ID)
	}

	switch a.Occurrences {
	case "":
		a.Occurrences = OccurrencesFirst
	case OccurrencesFirst, OccurrencesAll:
	default:
		return fmt.Errorf("rule %q: invalid occurrences %q (expected first|all)", r.ID, a.Occurrences)
	}

	if a.Pattern != "" {
		re, err := regexp.Compile(a.Pattern)
		if err != nil {
			return fmt.Errorf("rule %q: invalid pattern: %w", r.ID, err)
		}
		if re.MatchString("") {
			return fmt.Errorf("rule %q: pattern matches the empty string", r.ID)
		}
		if r.Insert.Position == PositionReplace && (r.Insert.Group < 0 || r.Insert.Group > re.NumSubexp()) {
			return fmt.Errorf("rule %q: replace group %d out of range (pattern has %d groups)",
				r.ID, r.Insert.Group, re.NumSubexp())
		}
	}
	return nil
}

func (r *Rule) validateContext() error {
	if len(r.Context) > 0 && r.Anchor.Kind() == AnchorPattern {
		return fmt.Errorf("rule %q: context predicates apply to line anchors only", r.ID)
	}
	for i, ctx := range r.Context {
		if ctx.Offset == 0 {
			return fmt.Errorf("rule %q: context[%d] offset must be non-zero", r.ID, i)
		}
		if (ctx.Equals == "") == (ctx.Contains == "") {
			return fmt.Errorf("rule %q: context[%d] must set exactly one of equals, contains", r.ID, i)
		}
	}
	return nil
}

func (r *Rule) validateInsert() error {
	ins := &r.Insert
	switch ins.Position {
	case PositionBefore, PositionAfter:
		switch ins.Indent {
		case "":
			ins.Indent = IndentAnchor
		case IndentAnchor, IndentNone:
		default:
			return fmt.Errorf("rule %q: invalid indent %q (expected anchor|none)", r.ID, ins.Indent)
		}
		if ins.Group != 0 {
			return fmt.Errorf("rule %q: group applies to replace only", r.ID)
		}
	case PositionReplace:
		if r.Anchor.Kind() != AnchorPattern {
			return fmt.Errorf("rule %q: replace requires a pattern anchor", r.ID)
		}
		if ins.Indent != "" {
			return fmt.Errorf("rule %q: indent does not apply to replace", r.ID)
		}
	case "":
		return fmt.Errorf("rule %q: missing insert position", r.ID)
	default:
		return fmt.Errorf("rule %q: invalid insert position %q (expected before|after|replace)", r.ID, ins.Position)
	}

	if ins.Content == "" {
		return fmt.Errorf("rule %q: missing insert content", r.ID)
	}
	if !strings.Contains(ins.Content, r.Marker) {
		return fmt.Errorf("rule %q: marker %q does not occur in insert content; re-running would insert forever", r.ID, r.Marker)
	}
	return nil
}
