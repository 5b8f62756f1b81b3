package render

import (
	"fmt"
	"io"

	"github.com/exactly/liquidator-deploy/internal/usecase"
	"github.com/fatih/color"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{
		out: out,
	}
}

// RenderNetworksList renders the list of networks
func (r *NetworksRenderer) RenderNetworksList(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in foundry.toml [rpc_endpoints]")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	for _, network := range result.Networks {
		current := ""
		if network.Name == result.Current {
			current = color.New(color.FgCyan).Sprint(" (current)")
		}
		if network.Error != nil {
			fmt.Fprintf(r.out, "  ❌ %s - Error: %v\n", network.Name, network.Error)
		} else {
			fmt.Fprintf(r.out, "  ✅ %s - Chain ID: %d%s\n", network.Name, network.ChainID, current)
		}
	}

	return nil
}
