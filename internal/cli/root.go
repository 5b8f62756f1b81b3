package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/exactly/liquidator-deploy/internal/adapters/progress"
	"github.com/exactly/liquidator-deploy/internal/app"
	"github.com/exactly/liquidator-deploy/internal/cli/render"
	"github.com/exactly/liquidator-deploy/internal/config"
	"github.com/exactly/liquidator-deploy/internal/usecase"
	"github.com/spf13/cobra"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// skipsApp reports whether a command runs without a project
func skipsApp(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion":
		return true
	}
	return false
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "liqdeploy",
		Short: "Deployment steps for the Exactly liquidator",
		Long: `liqdeploy runs the tagged deployment steps of the liquidator against a
Foundry project and keeps a registry of what was deployed on each network.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsApp(cmd) {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd)

			appInstance, err := app.InitApp(v, sinkFor(cmd, v.GetBool("json")))
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringP("namespace", "s", "", "Deployment namespace (defaults to 'default')")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (e.g., optimism, base)")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	for _, c := range []*cobra.Command{NewDeployCmd(), NewStepsCmd(), NewListCmd(), NewShowCmd()} {
		c.GroupID = "main"
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{NewRegisterCmd(), NewTagCmd(), NewNetworksCmd(), NewConfigCmd()} {
		c.GroupID = "management"
		rootCmd.AddCommand(c)
	}

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// sinkFor picks the progress sink of a command. JSON output stays clean.
func sinkFor(cmd *cobra.Command, json bool) usecase.ProgressSink {
	if json {
		return progress.NewNopSink()
	}
	switch cmd.Name() {
	case "deploy":
		return progress.NewDeployProgress(cmd.OutOrStdout())
	case "register":
		return progress.NewSpinnerSink(cmd.ErrOrStderr())
	default:
		return progress.NewNopSink()
	}
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}

// writeOutput renders v as JSON when requested, otherwise calls renderText
func writeOutput(out io.Writer, asJSON bool, v any, renderText func() error) error {
	if asJSON {
		return render.JSON(out, v)
	}
	return renderText()
}
