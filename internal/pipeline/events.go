package pipeline

import (
	"image"
	"time"
)

// EventKind identifies a generation event.
type EventKind int

const (
	EventStarted EventKind = iota
	EventCompleted
	EventErrored
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventCompleted:
		return "completed"
	case EventErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Event is delivered on the pipeline's single ordered event stream.
type Event struct {
	Kind EventKind

	// AttemptID is empty for errors raised before an attempt was created.
	AttemptID string
	Filter    string

	// Set on EventCompleted.
	Image      image.Image
	Elapsed    time.Duration
	Parameters map[string]interface{}

	// Set on EventErrored.
	Err error
}

// ParameterValue is one edit from an edit source.
type ParameterValue struct {
	Name  string
	Value interface{}
}
