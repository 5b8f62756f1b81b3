package cli

import (
	"github.com/exactly/liquidator-deploy/internal/cli/render"
	"github.com/exactly/liquidator-deploy/internal/usecase"
	"github.com/spf13/cobra"
)

// NewStepsCmd creates the steps command
func NewStepsCmd() *cobra.Command {
	var tags []string

	cmd := &cobra.Command{
		Use:   "steps",
		Short: "Show the execution plan of deployment steps",
		Long: `Show the steps that 'liqdeploy deploy' would run for the given tags, in
execution order, and the dependencies expected to be in the registry.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListSteps.Run(cmd.Context(), usecase.ListStepsParams{Tags: tags})
			if err != nil {
				return err
			}

			plan := map[string]any{
				"steps":    result.Plan.IDs(),
				"external": result.Plan.External,
			}
			return writeOutput(cmd.OutOrStdout(), app.Config.JSON, plan, func() error {
				return render.NewStepsRenderer(cmd.OutOrStdout()).RenderPlan(result)
			})
		},
	}

	cmd.Flags().StringSliceVarP(&tags, "tags", "t", nil, "Plan the steps carrying any of these tags")

	return cmd
}
