package render

import (
	"fmt"
	"io"

	"github.com/exactly/liquidator-deploy/internal/usecase"
	"github.com/fatih/color"
	"github.com/samber/lo"
)

// RegisterRenderer renders the records created by register
type RegisterRenderer struct {
	out io.Writer
}

// NewRegisterRenderer creates a new register renderer
func NewRegisterRenderer(out io.Writer) *RegisterRenderer {
	return &RegisterRenderer{out: out}
}

// Render displays registered deployments
func (r *RegisterRenderer) Render(result *usecase.RegisterDeploymentResult) error {
	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "Nothing registered")
		return nil
	}

	for _, dep := range result.Deployments {
		verb := "Registered"
		if lo.Contains(result.Replaced, dep.ID) {
			verb = "Replaced"
		}
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s %s", verb, color.New(color.Bold).Sprint(dep.ID))))
		fmt.Fprintf(r.out, "   Address: %s\n", dep.Address)
	}
	return nil
}
