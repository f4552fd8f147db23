package observ

import (
	"fmt"
	"time"
)

// Timer accumulates stage durations across a batch run. The same stage
// runs once per file, so instead of keeping one entry per file the timer
// folds repeats together: each stage ends up with a total duration and
// the number of times it ran.
type Timer struct {
	order  []string
	stages map[string]*stageClock
}

type stageClock struct {
	dur  time.Duration
	runs int
}

// NewTimer returns an empty Timer.
func NewTimer() *Timer {
	return &Timer{stages: make(map[string]*stageClock, 4)}
}

// Track starts timing one pass through the named stage and returns its
// closer. A nil Timer tracks nothing, so callers can thread an optional
// timer without guarding every call.
func (t *Timer) Track(name string) func() {
	if t == nil {
		return func() {}
	}
	start := time.Now()
	return func() { t.Observe(name, time.Since(start)) }
}

// Observe folds an externally measured duration into the named stage.
func (t *Timer) Observe(name string, d time.Duration) {
	clock, ok := t.stages[name]
	if !ok {
		clock = &stageClock{}
		t.stages[name] = clock
		t.order = append(t.order, name)
	}
	clock.dur += d
	clock.runs++
}

// Summary renders the aggregated stages in first-seen order, one line per
// stage plus a total.
func (t *Timer) Summary() string {
	report := t.Report()
	out := "timings:\n"
	for _, s := range report.Stages {
		out += fmt.Sprintf("  %-12s x%-4d %8.2f ms\n", s.Name, s.Runs, s.DurationMS)
	}
	out += fmt.Sprintf("  %-12s %13.2f ms\n", "total", report.TotalMS)
	return out
}

// StageReport is the serialized form of one aggregated stage.
type StageReport struct {
	Name       string  `json:"name"`
	Runs       int     `json:"runs"`
	DurationMS float64 `json:"duration_ms"`
}

// Report is the timer's aggregate over a whole run.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Stages  []StageReport `json:"stages"`
}

// Report collects the stages and total duration in milliseconds.
func (t *Timer) Report() Report {
	if len(t.order) == 0 {
		return Report{}
	}
	report := Report{Stages: make([]StageReport, len(t.order))}
	var total time.Duration
	for i, name := range t.order {
		clock := t.stages[name]
		total += clock.dur
		report.Stages[i] = StageReport{
			Name:       name,
			Runs:       clock.runs,
			DurationMS: durationToMillis(clock.dur),
		}
	}
	report.TotalMS = durationToMillis(total)
	return report
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
