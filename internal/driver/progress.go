package driver

import "time"

// Stage describes a phase of the per-file patch pipeline.
type Stage string

const (
	// StageLoad covers reading and normalizing the target file.
	StageLoad Stage = "load"
	// StagePatch covers guard, matching, planning and buffer edits.
	StagePatch Stage = "patch"
	// StageWrite covers persisting the patched buffer.
	StageWrite Stage = "write"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the file is being processed.
	StatusWorking Status = "working"
	// StatusDone indicates the file finished cleanly.
	StatusDone Status = "done"
	// StatusError indicates the file failed.
	StatusError Status = "error"
)

// Event reports progress for a file (or for the whole run when File is
// empty). Inserts carries the number of insertion operations applied so
// far; it is only meaningful on done events.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Inserts int
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt Event) {
	if sink == nil {
		return
	}
	sink.OnEvent(evt)
}
