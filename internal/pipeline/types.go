package pipeline

import "time"

// Stage describes a high-level pipeline phase.
type Stage string

const (
	// StageLoad reads the timetable (or takes it from the cache).
	StageLoad Stage = "load"
	// StageSettings reads the rule configuration.
	StageSettings Stage = "settings"
	// StageAnalyze runs the rule table.
	StageAnalyze Stage = "analyze"
	// StageCategorize splits findings into warnings and conflicts.
	StageCategorize Stage = "categorize"
)

// Stages lists the stages in execution order.
var Stages = []Stage{StageLoad, StageSettings, StageAnalyze, StageCategorize}

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress of one stage.
type Event struct {
	Stage   Stage
	Status  Status
	Detail  string
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

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(evt Event) {
	if f != nil {
		f(evt)
	}
}

func emit(sink ProgressSink, stage Stage, status Status, detail string, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{Stage: stage, Status: status, Detail: detail, Err: err, Elapsed: elapsed})
}
