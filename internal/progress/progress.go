package progress

import (
	"os"
	"time"
)

// Event types reported by the release steps
type EventType int

const (
	EventStepStart EventType = iota
	EventStepComplete
	EventStepFailed
	EventFileWritten
	EventMarkerSkipped
	EventCommand
	EventInfo
)

// Event represents something that happened during a release step
type Event struct {
	Type     EventType
	Step     string
	Path     string
	Name     string
	Info     string
	Err      error
	Duration time.Duration
}

// Reporter is the interface the synchronizer uses to report events
type Reporter interface {
	Report(event Event)
}

// Handler processes events and produces output
type Handler interface {
	Handle(event Event)
}

// Progress forwards events to a handler when enabled
type Progress struct {
	enabled    bool
	handler    Handler
	stepStarts map[string]time.Time
}

// New creates a new progress reporter
func New(enabled bool, handler Handler) *Progress {
	if handler == nil {
		handler = NewSimpleHandler(os.Stderr)
	}
	return &Progress{
		enabled:    enabled,
		handler:    handler,
		stepStarts: make(map[string]time.Time),
	}
}

// Disabled returns a reporter that drops every event
func Disabled() *Progress {
	return New(false, nil)
}

// Report sends an event to the handler (only if enabled)
func (p *Progress) Report(event Event) {
	if p == nil || !p.enabled {
		return
	}
	p.handler.Handle(event)
}

func (p *Progress) StepStart(step string) {
	if p == nil {
		return
	}
	p.stepStarts[step] = time.Now()
	p.Report(Event{Type: EventStepStart, Step: step})
}

func (p *Progress) StepComplete(step string) {
	if p == nil {
		return
	}
	p.Report(Event{Type: EventStepComplete, Step: step, Duration: p.elapsed(step)})
}

func (p *Progress) StepFailed(step string, err error) {
	if p == nil {
		return
	}
	p.Report(Event{Type: EventStepFailed, Step: step, Err: err, Duration: p.elapsed(step)})
}

func (p *Progress) FileWritten(path string) {
	p.Report(Event{Type: EventFileWritten, Path: path})
}

func (p *Progress) MarkerSkipped(path, marker string) {
	p.Report(Event{Type: EventMarkerSkipped, Path: path, Name: marker, Info: "no match"})
}

func (p *Progress) Command(dir, command string) {
	p.Report(Event{Type: EventCommand, Path: dir, Info: command})
}

func (p *Progress) Info(info string) {
	p.Report(Event{Type: EventInfo, Info: info})
}

func (p *Progress) elapsed(step string) time.Duration {
	start, ok := p.stepStarts[step]
	if !ok {
		return 0
	}
	delete(p.stepStarts, step)
	return time.Since(start)
}
