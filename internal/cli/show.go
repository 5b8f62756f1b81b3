package cli

import (
	"github.com/exactly/liquidator-deploy/internal/cli/render"
	"github.com/exactly/liquidator-deploy/internal/usecase"
	"github.com/spf13/cobra"
)

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <deployment>",
		Short: "Show detailed deployment information from registry",
		Long: `Show detailed information about a specific deployment.

You can specify deployments using:
- Contract name: "Liquidator"
- Namespace/contract: "staging/Liquidator"
- Chain/contract: "10/Liquidator"
- Full deployment ID: "default/10/Liquidator"
- Contract address: "0x1234..."`,
		Example: `  liqdeploy show Liquidator
  liqdeploy show default/10/Liquidator
  liqdeploy show 0x1234567890abcdef...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			deployment, err := app.ShowDeployment.Run(cmd.Context(), usecase.ShowDeploymentParams{
				Reference: args[0],
			})
			if err != nil {
				return err
			}

			return writeOutput(cmd.OutOrStdout(), app.Config.JSON, deployment, func() error {
				return render.NewDeploymentRenderer(cmd.OutOrStdout()).RenderDeployment(deployment)
			})
		},
	}

	return cmd
}
