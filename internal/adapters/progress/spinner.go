package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/sndeploy/internal/usecase"
)

// SpinnerProgressReporter shows a spinner while transactions are pending and
// prints colored lines for everything else
type SpinnerProgressReporter struct {
	mu             sync.Mutex
	out            io.Writer
	spinner        *spinner.Spinner
	stages         []stageInfo
	currentStage   string
	stageStartTime time.Time
}

type stageInfo struct {
	Stage     string
	StartTime time.Time
	EndTime   time.Time
	Status    string
	Message   string
}

// NewSpinnerProgressReporter creates a reporter writing to stdout
func NewSpinnerProgressReporter() *SpinnerProgressReporter {
	return NewSpinnerProgressReporterTo(os.Stdout)
}

// NewSpinnerProgressReporterTo creates a reporter writing to out
func NewSpinnerProgressReporterTo(out io.Writer) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerProgressReporter{
		out:     out,
		spinner: s,
		stages:  []stageInfo{},
	}
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.Stage != "" && event.Stage != r.currentStage {
		r.enterStage(event.Stage)
	}
	if len(r.stages) > 0 {
		r.stages[len(r.stages)-1].Message = event.Message
	}

	if event.Spinner {
		if !r.spinner.Active() {
			r.spinner.Start()
		}
		r.spinner.Suffix = " " + event.Message + r.stageTrail()
		return
	}
	if r.spinner.Active() {
		r.spinner.Stop()
	}

	if event.Stage == usecase.StageDone {
		r.completeCurrentStage()
		color.New(color.FgGreen, color.Bold).Fprintln(r.out, event.Message)
		return
	}
	if event.Message != "" {
		color.New(color.FgYellow).Fprintln(r.out, formatEvent(event))
	}
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.println(color.New(color.FgCyan), message)
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	r.println(color.New(color.FgRed), message)
}

// Stop stops the spinner if it is running
func (r *SpinnerProgressReporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.spinner.Active() {
		r.spinner.Stop()
	}
}

func (r *SpinnerProgressReporter) println(c *color.Color, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Stop spinner temporarily
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}

	c.Fprintln(r.out, message)

	if wasActive {
		r.spinner.Start()
	}
}

func (r *SpinnerProgressReporter) enterStage(stage string) {
	r.completeCurrentStage()
	r.currentStage = stage
	r.stageStartTime = time.Now()
	r.stages = append(r.stages, stageInfo{
		Stage:     stage,
		StartTime: r.stageStartTime,
		Status:    "running",
	})
}

// completeCurrentStage marks the current stage as completed
func (r *SpinnerProgressReporter) completeCurrentStage() {
	if len(r.stages) > 0 {
		idx := len(r.stages) - 1
		if r.stages[idx].EndTime.IsZero() {
			r.stages[idx].EndTime = time.Now()
			r.stages[idx].Status = "completed"
		}
	}
}

// stageTrail renders how long the running stage has been going
func (r *SpinnerProgressReporter) stageTrail() string {
	if len(r.stages) == 0 {
		return ""
	}
	stage := r.stages[len(r.stages)-1]
	if stage.Status != "running" {
		return ""
	}
	return color.New(color.Faint).Sprintf(" (%s)", time.Since(stage.StartTime).Round(time.Second))
}

func formatEvent(event usecase.ProgressEvent) string {
	if event.Total > 1 && event.Current > 0 {
		return fmt.Sprintf("[%d/%d] %s", event.Current, event.Total, event.Message)
	}
	return event.Message
}

// Stages returns the stages seen so far in order
func (r *SpinnerProgressReporter) Stages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.stages))
	for _, s := range r.stages {
		names = append(names, s.Stage)
	}
	return names
}

var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
