package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/exactly/liquidator-deploy/internal/domain/config"
	"github.com/exactly/liquidator-deploy/internal/domain/models"
)

// RunStepsParams contains parameters for running deployment steps
type RunStepsParams struct {
	// Tags selects the steps to run, every step when empty
	Tags []string
}

// StepResult is the outcome of one planned step
type StepResult struct {
	Step     Step
	Status   StepStatus
	Error    error
	Duration time.Duration
	// Deployments holds what the step deployed or reused, in call order
	Deployments []*models.DeployResult
}

// RunStepsResult contains the outcome of a run
type RunStepsResult struct {
	Plan      *StepPlan
	Steps     []StepResult
	Namespace string
	Network   string
	DryRun    bool
}

// Failed returns the first failed step, if any
func (r *RunStepsResult) Failed() *StepResult {
	for i := range r.Steps {
		if r.Steps[i].Status == StepFailed {
			return &r.Steps[i]
		}
	}
	return nil
}

// RunSteps is the use case for running planned deployment steps
type RunSteps struct {
	config    *config.RuntimeConfig
	registry  *StepRegistry
	deployer  Deployer
	artifacts ArtifactReader
	accounts  AccountResolver
	sink      ProgressSink
	log       *slog.Logger
}

// NewRunSteps creates a new RunSteps use case
func NewRunSteps(
	cfg *config.RuntimeConfig,
	registry *StepRegistry,
	deployer Deployer,
	artifacts ArtifactReader,
	accounts AccountResolver,
	sink ProgressSink,
	log *slog.Logger,
) *RunSteps {
	return &RunSteps{
		config:    cfg,
		registry:  registry,
		deployer:  deployer,
		artifacts: artifacts,
		accounts:  accounts,
		sink:      sink,
		log:       log.With("component", "RunSteps"),
	}
}

// Run plans and runs the selected steps sequentially. It stops at the first
// failing step; the returned error wraps the step's error unchanged.
func (uc *RunSteps) Run(ctx context.Context, params RunStepsParams) (*RunStepsResult, error) {
	if uc.config.Network == nil {
		return nil, fmt.Errorf("network must be configured")
	}

	plan, err := uc.registry.Plan(params.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to plan steps: %w", err)
	}

	if uc.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.config.Timeout)
		defer cancel()
	}

	result := &RunStepsResult{
		Plan:      plan,
		Steps:     make([]StepResult, len(plan.Steps)),
		Namespace: uc.config.Namespace,
		Network:   uc.config.Network.Name,
		DryRun:    uc.config.DryRun,
	}
	for i, step := range plan.Steps {
		result.Steps[i] = StepResult{Step: step, Status: StepPending}
	}

	uc.log.Debug("planned steps", "steps", plan.IDs(), "external", plan.External)
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:    "planned",
		Total:    len(plan.Steps),
		Message:  fmt.Sprintf("Planned %d steps", len(plan.Steps)),
		Metadata: result,
	})

	for i, step := range plan.Steps {
		env := StepEnv{
			Deployer:  &collectingDeployer{next: uc.deployer, into: &result.Steps[i]},
			Artifacts: uc.artifacts,
			Accounts:  uc.accounts,
		}

		uc.sink.OnProgress(ctx, ProgressEvent{
			Stage:    "step_started",
			Current:  i + 1,
			Total:    len(plan.Steps),
			Message:  fmt.Sprintf("Running step %s", step.ID),
			Spinner:  true,
			Metadata: step.ID,
		})

		start := time.Now()
		err := step.Run(ctx, env)
		result.Steps[i].Duration = time.Since(start)

		if err != nil {
			result.Steps[i].Status = StepFailed
			result.Steps[i].Error = err
			uc.log.Debug("step failed", "step", step.ID, "error", err)
			uc.sink.OnProgress(ctx, ProgressEvent{
				Stage:    "step_failed",
				Current:  i + 1,
				Total:    len(plan.Steps),
				Message:  fmt.Sprintf("Step %s failed", step.ID),
				Metadata: step.ID,
			})
			return result, fmt.Errorf("step %s: %w", step.ID, err)
		}

		result.Steps[i].Status = StepCompleted
		uc.sink.OnProgress(ctx, ProgressEvent{
			Stage:    "step_completed",
			Current:  i + 1,
			Total:    len(plan.Steps),
			Message:  fmt.Sprintf("Step %s completed", step.ID),
			Metadata: step.ID,
		})
	}

	return result, nil
}

// collectingDeployer records every successful deploy of a step on its result
type collectingDeployer struct {
	next Deployer
	into *StepResult
}

func (d *collectingDeployer) Deploy(ctx context.Context, name string, opts models.DeployOptions) (*models.DeployResult, error) {
	res, err := d.next.Deploy(ctx, name, opts)
	if err != nil {
		return nil, err
	}
	d.into.Deployments = append(d.into.Deployments, res)
	return res, nil
}
