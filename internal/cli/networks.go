package cli

import (
	"github.com/exactly/liquidator-deploy/internal/cli/render"
	"github.com/exactly/liquidator-deploy/internal/usecase"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type networkJSON struct {
	Name    string `json:"name"`
	ChainID uint64 `json:"chainId,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List available networks from foundry.toml",
		Long: `List all networks configured in the [rpc_endpoints] section of foundry.toml.

This command shows all available networks and attempts to fetch their chain IDs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListNetworks.Run(cmd.Context())
			if err != nil {
				return err
			}

			networks := lo.Map(result.Networks, func(n usecase.NetworkStatus, _ int) networkJSON {
				out := networkJSON{Name: n.Name, ChainID: n.ChainID}
				if n.Error != nil {
					out.Error = n.Error.Error()
				}
				return out
			})
			return writeOutput(cmd.OutOrStdout(), app.Config.JSON, networks, func() error {
				return render.NewNetworksRenderer(cmd.OutOrStdout()).RenderNetworksList(result)
			})
		},
	}

	return cmd
}
