package progress

import (
	"fmt"
	"io"
)

// SimpleHandler outputs events as simple lines
type SimpleHandler struct {
	writer io.Writer
}

func NewSimpleHandler(writer io.Writer) *SimpleHandler {
	return &SimpleHandler{writer: writer}
}

func (h *SimpleHandler) Handle(event Event) {
	switch event.Type {
	case EventStepStart:
		fmt.Fprintf(h.writer, "[STEP] Starting: %s\n", event.Step)

	case EventStepComplete:
		if event.Duration > 0 {
			fmt.Fprintf(h.writer, "[STEP] Completed: %s (%.2fs)\n", event.Step, event.Duration.Seconds())
		} else {
			fmt.Fprintf(h.writer, "[STEP] Completed: %s\n", event.Step)
		}

	case EventStepFailed:
		fmt.Fprintf(h.writer, "[STEP] Failed: %s: %v\n", event.Step, event.Err)

	case EventFileWritten:
		fmt.Fprintf(h.writer, "[FILE] Written: %s\n", event.Path)

	case EventMarkerSkipped:
		fmt.Fprintf(h.writer, "[SKIP] Marker %s in %s (%s)\n", event.Name, event.Path, event.Info)

	case EventCommand:
		fmt.Fprintf(h.writer, "[EXEC] %s (in %s)\n", event.Info, event.Path)

	case EventInfo:
		fmt.Fprintf(h.writer, "[INFO] %s\n", event.Info)
	}
}
