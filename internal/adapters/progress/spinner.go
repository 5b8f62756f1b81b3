package progress

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/exactly/liquidator-deploy/internal/usecase"
	"github.com/fatih/color"
)

// SpinnerSink reports progress with a spinner and one line per finished step
type SpinnerSink struct {
	out     io.Writer
	spinner *spinner.Spinner

	mu      sync.Mutex
	started map[string]time.Time
}

// NewSpinnerSink creates a spinner-based sink writing to out
func NewSpinnerSink(out io.Writer) *SpinnerSink {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerSink{
		out:     out,
		spinner: s,
		started: make(map[string]time.Time),
	}
}

// OnProgress handles progress events
func (r *SpinnerSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stepID, _ := event.Metadata.(string)

	switch event.Stage {
	case "step_started":
		r.started[stepID] = time.Now()
		r.spinner.Suffix = fmt.Sprintf(" [%d/%d] %s", event.Current, event.Total, event.Message)
		if !r.spinner.Active() {
			r.spinner.Start()
		}
	case "step_completed":
		r.spinner.Stop()
		color.New(color.FgGreen).Fprintf(r.out, "✓ [%d/%d] %s (%s)\n",
			event.Current, event.Total, stepID, r.elapsed(stepID))
	case "step_failed":
		r.spinner.Stop()
		color.New(color.FgRed).Fprintf(r.out, "✗ [%d/%d] %s (%s)\n",
			event.Current, event.Total, stepID, r.elapsed(stepID))
	default:
		if event.Spinner {
			r.spinner.Suffix = " " + event.Message
			if !r.spinner.Active() {
				r.spinner.Start()
			}
		} else if r.spinner.Active() {
			r.spinner.Stop()
		}
	}
}

func (r *SpinnerSink) elapsed(stepID string) time.Duration {
	start, ok := r.started[stepID]
	if !ok {
		return 0
	}
	delete(r.started, stepID)
	return time.Since(start).Round(time.Millisecond)
}

// Info prints an info message
func (r *SpinnerSink) Info(message string) {
	r.print(color.New(color.FgCyan), message)
}

// Error prints an error message
func (r *SpinnerSink) Error(message string) {
	r.print(color.New(color.FgRed), message)
}

// print writes a line with the spinner paused
func (r *SpinnerSink) print(c *color.Color, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}

	c.Fprintln(r.out, message)

	if wasActive {
		r.spinner.Start()
	}
}

// Ensure SpinnerSink implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerSink)(nil)
