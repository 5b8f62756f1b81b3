package cli

import (
	"errors"
	"fmt"

	"github.com/exactly/liquidator-deploy/internal/cli/render"
	"github.com/exactly/liquidator-deploy/internal/domain"
	"github.com/exactly/liquidator-deploy/internal/usecase"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

// confirmOverwrite asks before replacing a registry record
var confirmOverwrite = func(name string) bool {
	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("%s is already registered, overwrite", name),
		IsConfirm: true,
	}
	_, err := prompt.Run()
	return err == nil
}

// NewRegisterCmd creates the register command
func NewRegisterCmd() *cobra.Command {
	var (
		manifest      string
		tags          []string
		force         bool
		skipCodeCheck bool
	)

	cmd := &cobra.Command{
		Use:   "register [name address]",
		Short: "Register an existing contract deployment in the registry",
		Long: `Register a contract that was deployed elsewhere so deployment steps can
look it up by name, e.g. the Uniswap router or the Velodrome pool factory.

The address must have code on the active network unless --skip-code-check
is given. With --file every contract listed for the active network in a
YAML manifest is registered:

  networks:
    optimism:
      UniswapV3Router: "0xE592427A0AEce92De3Edee1F18E0157C05861564"`,
		Example: `  # Register the router used by the liquidator
  liqdeploy register UniswapV3Router 0xE592427A0AEce92De3Edee1F18E0157C05861564 --network optimism

  # Register everything listed in a manifest
  liqdeploy register --file external.yaml --network optimism`,
		Args: func(cmd *cobra.Command, args []string) error {
			if manifest != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var result *usecase.RegisterDeploymentResult
			if manifest != "" {
				result, err = app.RegisterDeployment.ImportManifest(cmd.Context(), usecase.ImportManifestParams{
					Path:          manifest,
					Force:         force,
					SkipCodeCheck: skipCodeCheck,
				})
			} else {
				params := usecase.RegisterDeploymentParams{
					Name:          args[0],
					Address:       args[1],
					Tags:          tags,
					Force:         force,
					SkipCodeCheck: skipCodeCheck,
				}
				result, err = app.RegisterDeployment.Run(cmd.Context(), params)
				if errors.Is(err, domain.ErrAlreadyExists) && !app.Config.NonInteractive && confirmOverwrite(params.Name) {
					params.Force = true
					result, err = app.RegisterDeployment.Run(cmd.Context(), params)
				}
			}
			if err != nil {
				return err
			}

			return writeOutput(cmd.OutOrStdout(), app.Config.JSON, result.Deployments, func() error {
				return render.NewRegisterRenderer(cmd.OutOrStdout()).Render(result)
			})
		},
	}

	cmd.Flags().StringVarP(&manifest, "file", "f", "", "Register every contract of a YAML manifest")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Extra tags for the record")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing record")
	cmd.Flags().BoolVar(&skipCodeCheck, "skip-code-check", false, "Do not require contract code at the address")

	return cmd
}
