package cli

import (
	"github.com/exactly/liquidator-deploy/internal/cli/render"
	"github.com/exactly/liquidator-deploy/internal/usecase"
	"github.com/spf13/cobra"
)

// deployOutput is the JSON form of a run
type deployOutput struct {
	Namespace string           `json:"namespace"`
	Network   string           `json:"network"`
	DryRun    bool             `json:"dryRun"`
	Steps     []deployStepJSON `json:"steps"`
}

type deployStepJSON struct {
	ID          string         `json:"id"`
	Status      string         `json:"status"`
	Duration    string         `json:"duration"`
	Error       string         `json:"error,omitempty"`
	Deployments []deployedJSON `json:"deployments,omitempty"`
}

// deployedJSON is one contract a step deployed or reused
type deployedJSON struct {
	Contract        string `json:"contract"`
	ID              string `json:"id"`
	Address         string `json:"address,omitempty"`
	TransactionHash string `json:"transactionHash,omitempty"`
	BlockNumber     uint64 `json:"blockNumber,omitempty"`
	GasUsed         uint64 `json:"gasUsed,omitempty"`
	Reused          bool   `json:"reused"`
	DryRun          bool   `json:"dryRun"`
}

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var tags []string

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Run deployment steps",
		Long: `Run the registered deployment steps on the selected network.

Steps are selected by tag. Steps providing their dependencies run first; a
dependency no step provides must already be in the registry, either deployed
by an earlier run or imported with 'liqdeploy register'.

Without --tags every registered step runs.`,
		Example: `  # Deploy the liquidator on optimism
  liqdeploy deploy --network optimism --tags Liquidator

  # Show what would be deployed
  liqdeploy deploy --network optimism --tags Liquidator --dry-run

  # Redeploy even when the registry has a matching deployment
  liqdeploy deploy --network optimism --tags Liquidator --reset`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.RunSteps.Run(cmd.Context(), usecase.RunStepsParams{Tags: tags})
			if result == nil {
				return err
			}

			renderErr := writeOutput(cmd.OutOrStdout(), app.Config.JSON, toDeployOutput(result), func() error {
				return render.NewStepsRenderer(cmd.OutOrStdout()).RenderSummary(result)
			})
			if err != nil {
				return err
			}
			return renderErr
		},
	}

	cmd.Flags().StringSliceVarP(&tags, "tags", "t", nil, "Run the steps carrying any of these tags")
	cmd.Flags().Bool("dry-run", false, "Plan and resolve arguments without sending transactions")
	cmd.Flags().Bool("reset", false, "Ignore matching registry records and deploy again")

	return cmd
}

func toDeployOutput(result *usecase.RunStepsResult) deployOutput {
	out := deployOutput{
		Namespace: result.Namespace,
		Network:   result.Network,
		DryRun:    result.DryRun,
		Steps:     make([]deployStepJSON, 0, len(result.Steps)),
	}
	for _, step := range result.Steps {
		s := deployStepJSON{
			ID:       step.Step.ID,
			Status:   string(step.Status),
			Duration: step.Duration.String(),
		}
		if step.Error != nil {
			s.Error = step.Error.Error()
		}
		for _, res := range step.Deployments {
			dep := res.Deployment
			s.Deployments = append(s.Deployments, deployedJSON{
				Contract:        dep.ContractName,
				ID:              dep.ID,
				Address:         dep.Address,
				TransactionHash: dep.TransactionHash,
				BlockNumber:     dep.BlockNumber,
				GasUsed:         dep.GasUsed,
				Reused:          res.Reused,
				DryRun:          res.DryRun,
			})
		}
		out.Steps = append(out.Steps, s)
	}
	return out
}
