package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerAggregatesRepeatedStages(t *testing.T) {
	timer := NewTimer()
	timer.Observe("load", 2*time.Millisecond)
	timer.Observe("patch", 5*time.Millisecond)
	timer.Observe("load", 3*time.Millisecond)

	report := timer.Report()
	if len(report.Stages) != 2 {
		t.Fatalf("expected 2 stages, got %d", len(report.Stages))
	}
	load, patch := report.Stages[0], report.Stages[1]
	if load.Name != "load" || patch.Name != "patch" {
		t.Fatalf("stages out of first-seen order: %+v", report.Stages)
	}
	if load.Runs != 2 || patch.Runs != 1 {
		t.Fatalf("wrong run counts: load=%d patch=%d", load.Runs, patch.Runs)
	}
	if load.DurationMS != 5.0 {
		t.Fatalf("load duration not summed: %f", load.DurationMS)
	}
	if report.TotalMS != 10.0 {
		t.Fatalf("total = %f, want 10", report.TotalMS)
	}
}

func TestTimerTrackMeasuresElapsed(t *testing.T) {
	timer := NewTimer()
	end := timer.Track("patch")
	time.Sleep(time.Millisecond)
	end()

	report := timer.Report()
	if len(report.Stages) != 1 || report.Stages[0].Runs != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.Stages[0].DurationMS <= 0 {
		t.Fatalf("tracked stage has no duration")
	}
}

func TestTimerSummaryListsStagesAndTotal(t *testing.T) {
	timer := NewTimer()
	timer.Observe("load", time.Millisecond)
	timer.Observe("load", time.Millisecond)

	summary := timer.Summary()
	if !strings.Contains(summary, "load") || !strings.Contains(summary, "x2") {
		t.Fatalf("summary missing aggregated stage:\n%s", summary)
	}
	if !strings.Contains(summary, "total") {
		t.Fatalf("summary missing total:\n%s", summary)
	}
}

func TestNilTimerTracksNothing(t *testing.T) {
	var timer *Timer
	end := timer.Track("load")
	end()
}
