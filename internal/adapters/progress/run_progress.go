package progress

import (
	"context"
	"io"

	"github.com/exactly/liquidator-deploy/internal/cli/render"
	"github.com/exactly/liquidator-deploy/internal/usecase"
)

// DeployProgress prints the run banner once steps are planned and reports
// the steps themselves with a spinner
type DeployProgress struct {
	renderer *render.StepsRenderer
	spinner  *SpinnerSink
}

// NewDeployProgress creates a deploy progress sink writing to out
func NewDeployProgress(out io.Writer) *DeployProgress {
	return &DeployProgress{
		renderer: render.NewStepsRenderer(out),
		spinner:  NewSpinnerSink(out),
	}
}

// OnProgress renders the banner on the planned stage and forwards every event to the spinner
func (n *DeployProgress) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if event.Stage == "planned" {
		if result, ok := event.Metadata.(*usecase.RunStepsResult); ok {
			n.renderer.RenderBanner(result)
		} else {
			n.spinner.Info("Warning: wrong data-type in planned event")
		}
	}

	n.spinner.OnProgress(ctx, event)
}

// Info prints an info message
func (n *DeployProgress) Info(message string) {
	n.spinner.Info(message)
}

// Error prints an error message
func (n *DeployProgress) Error(message string) {
	n.spinner.Error(message)
}

// Ensure DeployProgress implements ProgressSink
var _ usecase.ProgressSink = (*DeployProgress)(nil)
