package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/exactly/liquidator-deploy/internal/domain/models"
	"github.com/exactly/liquidator-deploy/internal/usecase"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// StepsRenderer renders step plans and run summaries
type StepsRenderer struct {
	out io.Writer
}

// NewStepsRenderer creates a new steps renderer
func NewStepsRenderer(out io.Writer) *StepsRenderer {
	return &StepsRenderer{out: out}
}

// RenderPlan renders the ordered step plan
func (r *StepsRenderer) RenderPlan(result *usecase.ListStepsResult) error {
	if len(result.Plan.Steps) == 0 {
		fmt.Fprintln(r.out, "No steps selected")
		return nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.AppendHeader(table.Row{"#", "STEP", "TAGS", "DEPENDENCIES"})
	for i, step := range result.Plan.Steps {
		deps := "-"
		if len(step.Dependencies) > 0 {
			deps = strings.Join(step.Dependencies, ", ")
		}
		t.AppendRow(table.Row{i + 1, step.ID, strings.Join(step.Tags, ", "), deps})
	}
	fmt.Fprintln(r.out, t.Render())

	r.renderExternal(result.Plan.External)
	fmt.Fprintf(r.out, "\n%d of %d registered steps selected\n", len(result.Plan.Steps), result.Registered)
	return nil
}

// RenderBanner renders the header printed before steps run
func (r *StepsRenderer) RenderBanner(result *usecase.RunStepsResult) {
	mode := ""
	if result.DryRun {
		mode = color.New(color.FgYellow).Sprint(" [dry-run]")
	}
	color.New(color.FgCyan, color.Bold).Fprintf(r.out, "🚀 Deploying to %s", result.Network)
	fmt.Fprintf(r.out, " (namespace: %s)%s\n", result.Namespace, mode)
	fmt.Fprintf(r.out, "   Steps: %s\n", strings.Join(result.Plan.IDs(), " → "))
	r.renderExternal(result.Plan.External)
	fmt.Fprintln(r.out)
}

// RenderSummary renders the outcome of a run
func (r *StepsRenderer) RenderSummary(result *usecase.RunStepsResult) error {
	title := cases.Title(language.English)

	fmt.Fprintln(r.out)
	for _, step := range result.Steps {
		status := title.String(string(step.Status))
		switch step.Status {
		case usecase.StepCompleted:
			status = color.New(color.FgGreen).Sprint(status)
		case usecase.StepFailed:
			status = color.New(color.FgRed).Sprint(status)
		default:
			status = color.New(color.Faint).Sprint(status)
		}
		fmt.Fprintf(r.out, "  %-24s %s\n", step.Step.ID, status)
		for _, res := range step.Deployments {
			r.renderDeployed(res)
		}
	}
	fmt.Fprintln(r.out)

	if failed := result.Failed(); failed != nil {
		fmt.Fprintln(r.out, FormatError(fmt.Sprintf("step %s failed: %v", failed.Step.ID, failed.Error)))
		return nil
	}
	if result.DryRun {
		fmt.Fprintln(r.out, FormatWarning("Dry run, nothing was sent to the network"))
		return nil
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%d steps completed", len(result.Steps))))
	return nil
}

func (r *StepsRenderer) renderDeployed(res *models.DeployResult) {
	dep := res.Deployment
	switch {
	case res.DryRun && res.Reused:
		fmt.Fprintf(r.out, "    %s would reuse %s\n", dep.ContractName, dep.Address)
	case res.DryRun:
		fmt.Fprintf(r.out, "    %s would be deployed\n", dep.ContractName)
	case res.Reused:
		fmt.Fprintf(r.out, "    %s reused at %s\n", dep.ContractName, dep.Address)
	default:
		fmt.Fprintf(r.out, "    %s deployed at %s (tx %s, %d gas)\n",
			dep.ContractName, color.New(color.FgCyan).Sprint(dep.Address), dep.TransactionHash, dep.GasUsed)
	}
}

func (r *StepsRenderer) renderExternal(external []string) {
	if len(external) == 0 {
		return
	}
	fmt.Fprintf(r.out, "   Requires registered: %s\n", color.New(color.FgYellow).Sprint(strings.Join(external, ", ")))
}
