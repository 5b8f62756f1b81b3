package cli

import (
	"github.com/exactly/liquidator-deploy/internal/cli/render"
	"github.com/exactly/liquidator-deploy/internal/usecase"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command. Without a subcommand it shows
// the namespace, network and account roles a run would use.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the run context and manage local defaults",
		Long: `Show the namespace and network a run would use, and the liqdeploy.toml
accounts the namespace selects for the deployer and owner roles.

Defaults for namespace and network live in .liqdeploy/config.local.json and
apply whenever --namespace or --network is not given.`,
		Example: `  liqdeploy config
  liqdeploy config --namespace production --network optimism
  liqdeploy config set network optimism
  liqdeploy config remove ns`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ShowConfig.Run(cmd.Context())
			if err != nil {
				return err
			}

			return writeOutput(cmd.OutOrStdout(), app.Config.JSON, result, func() error {
				return render.NewConfigRenderer(cmd.OutOrStdout()).RenderConfig(result)
			})
		},
	}

	cmd.AddCommand(newConfigSetCmd(), newConfigRemoveCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <namespace|ns|network> <value>",
		Short: "Save a default namespace or network",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.SetConfig.Run(cmd.Context(), usecase.SetConfigParams{Key: args[0], Value: args[1]})
			if err != nil {
				return err
			}

			return writeOutput(cmd.OutOrStdout(), app.Config.JSON, result.UpdatedConfig, func() error {
				return render.NewConfigRenderer(cmd.OutOrStdout()).RenderSet(result)
			})
		},
	}
}

// newConfigRemoveCmd drops a saved default. The namespace falls back to
// "default", the network must then come from --network.
func newConfigRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <namespace|ns|network>",
		Short: "Remove a saved default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.RemoveConfig.Run(cmd.Context(), usecase.RemoveConfigParams{Key: args[0]})
			if err != nil {
				return err
			}

			return writeOutput(cmd.OutOrStdout(), app.Config.JSON, result.UpdatedConfig, func() error {
				return render.NewConfigRenderer(cmd.OutOrStdout()).RenderRemove(result)
			})
		},
	}
}
