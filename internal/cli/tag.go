package cli

import (
	"fmt"

	"github.com/exactly/liquidator-deploy/internal/cli/render"
	"github.com/exactly/liquidator-deploy/internal/usecase"
	"github.com/spf13/cobra"
)

// tagFlags holds command-specific flags
type tagFlags struct {
	add    string
	remove string
}

// NewTagCmd creates the tag command
func NewTagCmd() *cobra.Command {
	flags := &tagFlags{}

	cmd := &cobra.Command{
		Use:   "tag <deployment|address>",
		Short: "Manage deployment tags",
		Long: `Add or remove tags on deployments.
Without flags, shows current tags.`,
		Example: `  liqdeploy tag Liquidator                # Show current tags
  liqdeploy tag Liquidator --add v1       # Add a tag
  liqdeploy tag Liquidator --remove v1    # Remove a tag`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTag(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.add, "add", "", "Add a tag to the deployment")
	cmd.Flags().StringVar(&flags.remove, "remove", "", "Remove a tag from the deployment")

	return cmd
}

// runTag executes the tag command
func runTag(cmd *cobra.Command, reference string, flags *tagFlags) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	if flags.add != "" && flags.remove != "" {
		return fmt.Errorf("cannot use --add and --remove together")
	}

	params := usecase.TagDeploymentParams{
		Reference: reference,
		Operation: usecase.TagShow,
	}
	if flags.add != "" {
		params.Operation = usecase.TagAdd
		params.Tag = flags.add
	} else if flags.remove != "" {
		params.Operation = usecase.TagRemove
		params.Tag = flags.remove
	}

	result, err := app.TagDeployment.Run(cmd.Context(), params)
	if err != nil {
		return err
	}

	return writeOutput(cmd.OutOrStdout(), app.Config.JSON, result.Deployment, func() error {
		return render.NewTagRenderer(cmd.OutOrStdout()).Render(result)
	})
}
