package cli

import (
	"github.com/exactly/liquidator-deploy/internal/cli/render"
	"github.com/exactly/liquidator-deploy/internal/usecase"
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var (
		contractName string
		tag          string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List deployments from registry",
		Long: `List the deployments of the active namespace.

With --network only that chain is listed, otherwise every chain is.`,
		Example: `  # List all deployments
  liqdeploy list

  # List the deployments tagged v1 on optimism
  liqdeploy list --network optimism --tag v1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListDeployments.Run(cmd.Context(), usecase.ListDeploymentsParams{
				ContractName: contractName,
				Tag:          tag,
			})
			if err != nil {
				return err
			}

			return writeOutput(cmd.OutOrStdout(), app.Config.JSON, result.Deployments, func() error {
				return render.NewDeploymentsRenderer(cmd.OutOrStdout()).RenderDeploymentList(result)
			})
		},
	}

	cmd.Flags().StringVar(&contractName, "contract", "", "Filter by contract name")
	cmd.Flags().StringVar(&tag, "tag", "", "Filter by tag")

	return cmd
}
