package steps

import (
	"context"

	"github.com/exactly/liquidator-deploy/internal/domain/models"
	"github.com/exactly/liquidator-deploy/internal/usecase"
)

// Liquidator deploys the Liquidator contract on top of the Uniswap V3 router and
// factory and the Velodrome pool factory already recorded in the registry.
var Liquidator = usecase.Step{
	ID:           "Liquidator",
	Tags:         []string{"Liquidator"},
	Dependencies: []string{"UniswapV3Router", "UniswapV3Factory", "VelodromePoolFactory"},
	Run:          deployLiquidator,
}

func deployLiquidator(ctx context.Context, env usecase.StepEnv) error {
	accounts, err := env.Accounts.NamedAccounts(ctx)
	if err != nil {
		return err
	}
	deployer, err := accounts.Require("deployer")
	if err != nil {
		return err
	}
	owner, err := accounts.Require("owner")
	if err != nil {
		return err
	}

	router, err := env.Artifacts.Get(ctx, "UniswapV3Router")
	if err != nil {
		return err
	}
	factory, err := env.Artifacts.Get(ctx, "UniswapV3Factory")
	if err != nil {
		return err
	}
	poolFactory, err := env.Artifacts.Get(ctx, "VelodromePoolFactory")
	if err != nil {
		return err
	}

	// argument order must match the Liquidator constructor
	_, err = env.Deployer.Deploy(ctx, "Liquidator", models.DeployOptions{
		Args: []any{owner, router.ContractAddress(), factory.ContractAddress(), poolFactory.ContractAddress()},
		From: deployer,
		Log:  true,
	})
	return err
}
