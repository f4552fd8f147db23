package report

// Outcome is the terminal state of one rule against one file.
type Outcome uint8

const (
	// OutcomeApplied means the rule's insertions landed in the buffer.
	OutcomeApplied Outcome = iota
	// OutcomeAlreadyPresent means the marker guard short-circuited the rule.
	OutcomeAlreadyPresent
	// OutcomeNoMatch means the anchor (or its context) matched nothing.
	OutcomeNoMatch
	// OutcomeConflict means a planned insertion overlapped an earlier one.
	OutcomeConflict
)

// String returns the stable token used in JSON output.
func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeAlreadyPresent:
		return "already_present"
	case OutcomeNoMatch:
		return "no_match"
	case OutcomeConflict:
		return "conflict"
	}
	return "unknown"
}

// Label returns the bracketed status tag used in pretty output.
func (o Outcome) Label() string {
	switch o {
	case OutcomeApplied:
		return "OK"
	case OutcomeAlreadyPresent:
		return "SKIP"
	case OutcomeNoMatch:
		return "NO MATCH"
	case OutcomeConflict:
		return "CONFLICT"
	}
	return "UNKNOWN"
}

// Severity maps an outcome onto the problem severity scale.
func (o Outcome) Severity() Severity {
	switch o {
	case OutcomeNoMatch:
		return SevWarning
	case OutcomeConflict:
		return SevError
	default:
		return SevInfo
	}
}
