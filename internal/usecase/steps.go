package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/exactly/liquidator-deploy/internal/domain"
	"github.com/samber/lo"
)

// StepStatus is the state of a step within a run
type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepCompleted StepStatus = "completed"
	StepFailed    StepStatus = "failed"
)

// StepEnv is the execution context handed to every step
type StepEnv struct {
	Deployer  Deployer
	Artifacts ArtifactReader
	Accounts  AccountResolver
}

// StepFunc is the body of a deployment step
type StepFunc func(ctx context.Context, env StepEnv) error

// Step is the registration record of a deployment step
type Step struct {
	ID string
	// Tags select the step and name what it provides to other steps
	Tags []string
	// Dependencies are tags that must be satisfied before the step runs, in order
	Dependencies []string
	Run          StepFunc
}

// StepPlan is an ordered selection of steps
type StepPlan struct {
	Steps []Step
	// External are dependency tags no registered step provides. They are
	// expected to be satisfied by records already in the registry.
	External []string
}

// IDs returns the planned step IDs in execution order
func (p *StepPlan) IDs() []string {
	return lo.Map(p.Steps, func(s Step, _ int) string { return s.ID })
}

// StepRegistry holds registered steps in registration order
type StepRegistry struct {
	steps []Step
	index map[string]int
}

// NewStepRegistry creates an empty registry
func NewStepRegistry() *StepRegistry {
	return &StepRegistry{index: make(map[string]int)}
}

// Add registers a step. It panics on a duplicate ID, on a step without tags
// or without a body since those are programming errors.
func (r *StepRegistry) Add(step Step) {
	if step.ID == "" {
		panic("step registered without an ID")
	}
	if _, exists := r.index[step.ID]; exists {
		panic(fmt.Sprintf("step %q registered twice", step.ID))
	}
	if len(step.Tags) == 0 {
		panic(fmt.Sprintf("step %q registered without tags", step.ID))
	}
	if step.Run == nil {
		panic(fmt.Sprintf("step %q registered without a body", step.ID))
	}
	r.index[step.ID] = len(r.steps)
	r.steps = append(r.steps, step)
}

// All returns every registered step in registration order
func (r *StepRegistry) All() []Step {
	return append([]Step(nil), r.steps...)
}

// Get returns a step by ID
func (r *StepRegistry) Get(id string) (Step, bool) {
	i, ok := r.index[id]
	if !ok {
		return Step{}, false
	}
	return r.steps[i], true
}

// ByTags returns the steps carrying any of the given tags
func (r *StepRegistry) ByTags(tags ...string) []Step {
	return lo.Filter(r.steps, func(s Step, _ int) bool {
		return lo.Some(s.Tags, tags)
	})
}

// providers returns the indexes of steps tagged with tag, in registration order
func (r *StepRegistry) providers(tag string) []int {
	var out []int
	for i, s := range r.steps {
		if lo.Contains(s.Tags, tag) {
			out = append(out, i)
		}
	}
	return out
}

// Plan selects the steps carrying any of tags (every step when tags is empty),
// adds the steps providing their dependencies and orders them so that
// providers run first.
func (r *StepRegistry) Plan(tags []string) (*StepPlan, error) {
	var roots []int
	if len(tags) == 0 {
		roots = lo.Range(len(r.steps))
	} else {
		for _, tag := range tags {
			found := r.providers(tag)
			if len(found) == 0 {
				return nil, fmt.Errorf("no step tagged %q: %w", tag, domain.ErrNotFound)
			}
			roots = append(roots, found...)
		}
		roots = lo.Uniq(roots)
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(r.steps))
	plan := &StepPlan{}
	var path []string

	var visit func(i int) error
	visit = func(i int) error {
		switch state[i] {
		case done:
			return nil
		case visiting:
			cycle := append(path, r.steps[i].ID)
			return fmt.Errorf("%w: %s", domain.ErrDependencyCycle, strings.Join(cycle, " -> "))
		}
		state[i] = visiting
		path = append(path, r.steps[i].ID)

		for _, dep := range r.steps[i].Dependencies {
			found := r.providers(dep)
			if len(found) == 0 {
				if !lo.Contains(plan.External, dep) {
					plan.External = append(plan.External, dep)
				}
				continue
			}
			for _, p := range found {
				if err := visit(p); err != nil {
					return err
				}
			}
		}

		path = path[:len(path)-1]
		state[i] = done
		plan.Steps = append(plan.Steps, r.steps[i])
		return nil
	}

	for _, i := range roots {
		if err := visit(i); err != nil {
			return nil, err
		}
	}

	return plan, nil
}
