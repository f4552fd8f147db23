package reportfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"graft/internal/report"
)

var (
	okColor       = color.New(color.FgGreen)
	skipColor     = color.New(color.FgCyan)
	noMatchColor  = color.New(color.FgYellow)
	conflictColor = color.New(color.FgRed, color.Bold)
	errColor      = color.New(color.FgRed, color.Bold)
	headerColor   = color.New(color.Bold)
)

// Pretty renders one block per file:
//
//	== path ==
//	[OK]        click-log      line 42
//	[SKIP]      net-log        marker already present
//	[NO MATCH]  drifted-rule   anchor not found
//
// followed by a one-line run summary. Output order follows rep.Files; call
// rep.Sort() first for deterministic batches.
func Pretty(w io.Writer, rep *report.Report, opts PrettyOpts) {
	printed := 0
	for i := range rep.Files {
		fr := &rep.Files[i]
		if opts.Quiet && !fileNeedsAttention(fr) {
			continue
		}
		if printed > 0 {
			fmt.Fprintln(w)
		}
		printed++
		fmt.Fprintf(w, "== %s ==\n", paint(headerColor, fr.Path, opts.Color))
		prettyFile(w, fr, opts)
	}
	fmt.Fprintln(w, summaryLine(rep))
}

func prettyFile(w io.Writer, fr *report.FileResult, opts PrettyOpts) {
	idWidth := 0
	for _, rr := range fr.Rules {
		if len(rr.RuleID) > idWidth {
			idWidth = len(rr.RuleID)
		}
	}

	for _, rr := range fr.Rules {
		if opts.Quiet && rr.Outcome.Severity() == report.SevInfo {
			continue
		}
		label := fmt.Sprintf("%-11s", "["+rr.Outcome.Label()+"]")
		fmt.Fprintf(w, "%s %-*s %s\n",
			paint(outcomeColor(rr.Outcome), label, opts.Color),
			idWidth, rr.RuleID,
			ruleDetail(rr, opts.Verbose))
	}

	if fr.Err != "" {
		fmt.Fprintf(w, "%s %s\n", paint(errColor, "error:", opts.Color), fr.Err)
	}
}

func ruleDetail(rr report.RuleResult, verbose bool) string {
	switch rr.Outcome {
	case report.OutcomeApplied:
		detail := fmt.Sprintf("line %d", rr.Line)
		if rr.Inserts > 1 {
			detail = fmt.Sprintf("%s, %d insertions", detail, rr.Inserts)
		}
		if verbose && rr.Note != "" {
			detail = fmt.Sprintf("%s (%s)", detail, rr.Note)
		}
		return detail
	default:
		return rr.Note
	}
}

func outcomeColor(o report.Outcome) *color.Color {
	switch o {
	case report.OutcomeApplied:
		return okColor
	case report.OutcomeAlreadyPresent:
		return skipColor
	case report.OutcomeNoMatch:
		return noMatchColor
	default:
		return conflictColor
	}
}

func fileNeedsAttention(fr *report.FileResult) bool {
	if fr.Err != "" {
		return true
	}
	for _, rr := range fr.Rules {
		if rr.Outcome.Severity() != report.SevInfo {
			return true
		}
	}
	return false
}

// paint applies c only when color output is requested; padding must happen
// before painting so ANSI codes do not count against column widths.
func paint(c *color.Color, s string, on bool) string {
	if !on {
		return s
	}
	return c.Sprint(s)
}

func summaryLine(rep *report.Report) string {
	applied, skipped, noMatch, conflicts := rep.Counts()
	s := fmt.Sprintf("%d applied, %d skipped", applied, skipped)
	if noMatch > 0 {
		s = fmt.Sprintf("%s, %d without a match", s, noMatch)
	}
	if conflicts > 0 {
		s = fmt.Sprintf("%s, %d conflicts", s, conflicts)
	}
	return s
}
