package usecase

import "context"

// ListStepsParams contains parameters for showing the step plan
type ListStepsParams struct {
	Tags []string
}

// ListStepsResult contains the planned steps
type ListStepsResult struct {
	Plan       *StepPlan
	Registered int
}

// ListSteps plans steps without running them
type ListSteps struct {
	registry *StepRegistry
}

// NewListSteps creates a new ListSteps use case
func NewListSteps(registry *StepRegistry) *ListSteps {
	return &ListSteps{registry: registry}
}

// Run returns the execution plan for the selected tags
func (uc *ListSteps) Run(ctx context.Context, params ListStepsParams) (*ListStepsResult, error) {
	plan, err := uc.registry.Plan(params.Tags)
	if err != nil {
		return nil, err
	}
	return &ListStepsResult{
		Plan:       plan,
		Registered: len(uc.registry.All()),
	}, nil
}
