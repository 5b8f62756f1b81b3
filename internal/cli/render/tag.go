package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/exactly/liquidator-deploy/internal/usecase"
	"github.com/fatih/color"
)

// TagRenderer renders tag operation results
type TagRenderer struct {
	out io.Writer
}

// NewTagRenderer creates a new tag renderer
func NewTagRenderer(out io.Writer) *TagRenderer {
	return &TagRenderer{out: out}
}

// Render displays the tag operation result
func (r *TagRenderer) Render(result *usecase.TagDeploymentResult) error {
	if result == nil {
		return fmt.Errorf("no result to render")
	}

	deployment := result.Deployment
	switch result.Operation {
	case usecase.TagShow:
		fmt.Fprintln(r.out)
		color.New(color.FgCyan, color.Bold).Fprintf(r.out, "Deployment: %s\n", deployment.ID)
		color.New(color.FgWhite, color.Bold).Fprint(r.out, "Address: ")
		color.New(color.FgGreen, color.Bold).Fprintln(r.out, deployment.Address)
		color.New(color.FgWhite, color.Bold).Fprint(r.out, "Tags:    ")
		r.writeTags(deployment.Tags)
		fmt.Fprintln(r.out)
	case usecase.TagAdd:
		color.New(color.FgGreen).Fprintf(r.out, "✅ Added tag '%s' to %s\n", result.Tag, deployment.ID)
		fmt.Fprint(r.out, "\nCurrent tags: ")
		r.writeTags(deployment.Tags)
	case usecase.TagRemove:
		color.New(color.FgGreen).Fprintf(r.out, "✅ Removed tag '%s' from %s\n", result.Tag, deployment.ID)
		fmt.Fprint(r.out, "\nRemaining tags: ")
		r.writeTags(deployment.Tags)
	default:
		return fmt.Errorf("unknown operation: %s", result.Operation)
	}
	return nil
}

func (r *TagRenderer) writeTags(tags []string) {
	if len(tags) == 0 {
		color.New(color.Faint).Fprintln(r.out, "No tags")
		return
	}

	sorted := append([]string(nil), tags...)
	sort.Strings(sorted)

	tagStyle := color.New(color.FgCyan)
	for i, t := range sorted {
		if i > 0 {
			fmt.Fprint(r.out, ", ")
		}
		tagStyle.Fprint(r.out, t)
	}
	fmt.Fprintln(r.out)
}
