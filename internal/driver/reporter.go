package driver

import (
	"fmt"
	"io"
	"sync"
)

// Reporter receives every failed outcome. Implementations must be safe for
// concurrent use when the validator runs with more than one job.
type Reporter interface {
	Report(o Outcome)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(o Outcome)

func (f ReporterFunc) Report(o Outcome) { f(o) }

// LineReporter writes one line per failed file.
type LineReporter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLineReporter returns a reporter writing to w (usually stderr).
func NewLineReporter(w io.Writer) *LineReporter {
	return &LineReporter{w: w}
}

func (r *LineReporter) Report(o Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.Err != nil {
		fmt.Fprintf(r.w, "%s: %v\n", o.Path, o.Err)
		return
	}
	fmt.Fprintf(r.w, "%s: %d syntax error(s)\n", o.Path, o.Errors)
}

// EventKind tells an observer what happened to a file.
type EventKind uint8

const (
	// EventStarted is sent before a file is read.
	EventStarted EventKind = iota
	// EventFinished is sent once the outcome is known.
	EventFinished
)

// Event reports validator progress for one file.
type Event struct {
	Kind    EventKind
	Path    string
	Outcome Outcome
}

// Observer receives progress events. It is called from worker goroutines.
type Observer func(Event)

// ChannelObserver forwards events into ch.
func ChannelObserver(ch chan<- Event) Observer {
	return func(ev Event) {
		ch <- ev
	}
}
