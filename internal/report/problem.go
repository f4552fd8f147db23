package report

import "fmt"

// Problem is a standalone finding about a rule set, not tied to a target
// file. Lint produces these.
type Problem struct {
	Severity Severity
	Code     Code
	RuleID   string
	Message  string
}

func (p Problem) String() string {
	if p.RuleID == "" {
		return fmt.Sprintf("%s [%s] %s", p.Severity, p.Code.ID(), p.Message)
	}
	return fmt.Sprintf("%s [%s] rule %q: %s", p.Severity, p.Code.ID(), p.RuleID, p.Message)
}

// Warn builds a warning-severity problem.
func Warn(code Code, ruleID, message string) Problem {
	return Problem{Severity: SevWarning, Code: code, RuleID: ruleID, Message: message}
}

// HasErrors reports whether any problem reaches error severity.
func HasErrors(problems []Problem) bool {
	for _, p := range problems {
		if p.Severity >= SevError {
			return true
		}
	}
	return false
}
