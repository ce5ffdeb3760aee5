package driver

import "time"

// Stage describes a step of one unit build.
type Stage string

const (
	// StageLoad reads and decodes the snapshot.
	StageLoad Stage = "load"
	// StageCache looks the output up in the cache.
	StageCache Stage = "cache"
	// StageGenerate runs the C generator.
	StageGenerate Stage = "generate"
	// StageWrite writes the C file.
	StageWrite Stage = "write"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the unit is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates the unit is in the reported stage.
	StatusWorking Status = "working"
	// StatusCached indicates the output came from the cache.
	StatusCached Status = "cached"
	// StatusDone indicates the unit finished.
	StatusDone Status = "done"
	// StatusError indicates the unit failed.
	StatusError Status = "error"
)

// Event reports progress for a unit (or for the whole build when Unit is empty).
type Event struct {
	RunID   string
	Unit    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Batch builds call OnEvent from
// several goroutines.
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

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
