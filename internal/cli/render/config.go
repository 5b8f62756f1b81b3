package render

import (
	"fmt"
	"io"

	"github.com/exactly/liquidator-deploy/internal/config"
	"github.com/exactly/liquidator-deploy/internal/usecase"
	"github.com/fatih/color"
)

// ConfigRenderer renders config-related output
type ConfigRenderer struct {
	out io.Writer
}

// NewConfigRenderer creates a new config renderer
func NewConfigRenderer(out io.Writer) *ConfigRenderer {
	return &ConfigRenderer{
		out: out,
	}
}

// RenderConfig renders the effective context of a run and the file
// it falls back to
func (r *ConfigRenderer) RenderConfig(result *usecase.ShowConfigResult) error {
	fmt.Fprintln(r.out, "Context:")
	fmt.Fprintf(r.out, "  Namespace: %s\n", color.New(color.FgYellow).Sprint(result.Namespace))
	switch {
	case result.Network == "":
		fmt.Fprintln(r.out, "  Network:   (not set)")
	case result.ChainID > 0:
		fmt.Fprintf(r.out, "  Network:   %s (chain %d)\n", result.Network, result.ChainID)
	default:
		fmt.Fprintf(r.out, "  Network:   %s\n", result.Network)
	}

	fmt.Fprintf(r.out, "\nRoles (%s):\n", config.ProjectFile)
	if len(result.Roles) == 0 {
		fmt.Fprintln(r.out, "  (none)")
	}
	for _, b := range result.Roles {
		target := string(b.Type)
		if b.Address != "" {
			target = b.Address
		}
		fmt.Fprintf(r.out, "  %-9s %s → %s\n", b.Role+":", b.Account, target)
	}

	fmt.Fprintln(r.out)
	if !result.Exists {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("No %s file found, defaults come from flags", getRelativePath(result.ConfigPath))))
		return nil
	}
	network := result.Local.Network
	if network == "" {
		network = "(not set)"
	}
	fmt.Fprintf(r.out, "📁 %s: namespace=%s network=%s\n", getRelativePath(result.ConfigPath), result.Local.Namespace, network)
	return nil
}

// RenderSet renders the result of setting a configuration value
func (r *ConfigRenderer) RenderSet(result *usecase.SetConfigResult) error {
	fmt.Fprintf(r.out, "✅ Set %s to: %s\n", result.Key, result.Value)
	fmt.Fprintf(r.out, "📁 config saved to: %s\n", getRelativePath(result.ConfigPath))
	return nil
}

// RenderRemove renders the result of removing a configuration value
func (r *ConfigRenderer) RenderRemove(result *usecase.RemoveConfigResult) error {
	if result.RemovedValue == "" {
		fmt.Fprintf(r.out, "✅ %s was not set\n", result.Key)
	} else {
		fmt.Fprintf(r.out, "✅ Removed %s (was: %s)\n", result.Key, result.RemovedValue)
	}
	fmt.Fprintf(r.out, "📁 config saved to: %s\n", getRelativePath(result.ConfigPath))
	return nil
}
