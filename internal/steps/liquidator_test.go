package steps

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/exactly/liquidator-deploy/internal/domain"
	"github.com/exactly/liquidator-deploy/internal/domain/models"
	"github.com/exactly/liquidator-deploy/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDeployer struct {
	mock.Mock
}

func (m *mockDeployer) Deploy(ctx context.Context, name string, opts models.DeployOptions) (*models.DeployResult, error) {
	args := m.Called(ctx, name, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeployResult), args.Error(1)
}

// mapArtifacts serves deployments from a name to address map
type mapArtifacts map[string]string

func (m mapArtifacts) Get(ctx context.Context, name string) (*models.Deployment, error) {
	addr, ok := m[name]
	if !ok {
		return nil, &domain.MissingArtifactError{Name: name, Namespace: "default", ChainID: 10}
	}
	return &models.Deployment{ContractName: name, Address: addr}, nil
}

type staticAccounts struct {
	accounts models.NamedAccounts
	err      error
}

func (s staticAccounts) NamedAccounts(ctx context.Context) (models.NamedAccounts, error) {
	return s.accounts, s.err
}

var (
	deployerAddr = common.HexToAddress("0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
	ownerAddr    = common.HexToAddress("0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB")
	routerAddr   = common.HexToAddress("0x1111111111111111111111111111111111111111")
	factoryAddr  = common.HexToAddress("0x2222222222222222222222222222222222222222")
	poolAddr     = common.HexToAddress("0x3333333333333333333333333333333333333333")
)

func fullAccounts() models.NamedAccounts {
	return models.NamedAccounts{"deployer": deployerAddr, "owner": ownerAddr}
}

func fullRegistry() mapArtifacts {
	return mapArtifacts{
		"UniswapV3Router":      routerAddr.Hex(),
		"UniswapV3Factory":     factoryAddr.Hex(),
		"VelodromePoolFactory": poolAddr.Hex(),
	}
}

func expectedOptions() models.DeployOptions {
	return models.DeployOptions{
		Args: []any{ownerAddr, routerAddr, factoryAddr, poolAddr},
		From: deployerAddr,
		Log:  true,
	}
}

func TestLiquidatorRegistration(t *testing.T) {
	assert.Equal(t, "Liquidator", Liquidator.ID)
	assert.Equal(t, []string{"Liquidator"}, Liquidator.Tags)
	assert.Equal(t, []string{"UniswapV3Router", "UniswapV3Factory", "VelodromePoolFactory"}, Liquidator.Dependencies)

	registry := NewRegistry()
	got, ok := registry.Get("Liquidator")
	require.True(t, ok)
	assert.Equal(t, Liquidator.Dependencies, got.Dependencies)

	plan, err := registry.Plan([]string{"Liquidator"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Liquidator"}, plan.IDs())
	assert.Equal(t, Liquidator.Dependencies, plan.External)
}

func TestLiquidatorStep(t *testing.T) {
	ctx := context.Background()

	t.Run("submits one request with ordered args from deployer", func(t *testing.T) {
		deployer := &mockDeployer{}
		deployer.On("Deploy", ctx, "Liquidator", expectedOptions()).Return(&models.DeployResult{}, nil).Once()

		env := usecase.StepEnv{Deployer: deployer, Artifacts: fullRegistry(), Accounts: staticAccounts{accounts: fullAccounts()}}
		require.NoError(t, Liquidator.Run(ctx, env))

		deployer.AssertExpectations(t)
		deployer.AssertNumberOfCalls(t, "Deploy", 1)

		opts := deployer.Calls[0].Arguments.Get(2).(models.DeployOptions)
		assert.Equal(t, deployerAddr, opts.From)
		assert.NotEqual(t, ownerAddr, opts.From)
		assert.Equal(t, ownerAddr, opts.Args[0])
	})

	t.Run("result is not inspected", func(t *testing.T) {
		deployer := &mockDeployer{}
		deployer.On("Deploy", ctx, "Liquidator", mock.Anything).Return(&models.DeployResult{Reused: true}, nil)

		env := usecase.StepEnv{Deployer: deployer, Artifacts: fullRegistry(), Accounts: staticAccounts{accounts: fullAccounts()}}
		assert.NoError(t, Liquidator.Run(ctx, env))
	})

	t.Run("missing owner fails before deploy", func(t *testing.T) {
		deployer := &mockDeployer{}
		accounts := models.NamedAccounts{"deployer": deployerAddr}

		env := usecase.StepEnv{Deployer: deployer, Artifacts: fullRegistry(), Accounts: staticAccounts{accounts: accounts}}
		err := Liquidator.Run(ctx, env)

		var missing *domain.MissingAccountError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "owner", missing.Role)
		assert.ErrorIs(t, err, domain.ErrMissingAccount)
		deployer.AssertNotCalled(t, "Deploy", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing deployer fails before deploy", func(t *testing.T) {
		deployer := &mockDeployer{}
		accounts := models.NamedAccounts{"owner": ownerAddr}

		env := usecase.StepEnv{Deployer: deployer, Artifacts: fullRegistry(), Accounts: staticAccounts{accounts: accounts}}
		err := Liquidator.Run(ctx, env)

		var missing *domain.MissingAccountError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "deployer", missing.Role)
		deployer.AssertNotCalled(t, "Deploy", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("account resolver errors are returned unchanged", func(t *testing.T) {
		cause := errors.New("keystore locked")
		deployer := &mockDeployer{}

		env := usecase.StepEnv{Deployer: deployer, Artifacts: fullRegistry(), Accounts: staticAccounts{err: cause}}
		err := Liquidator.Run(ctx, env)

		assert.Same(t, cause, err)
		deployer.AssertNotCalled(t, "Deploy", mock.Anything, mock.Anything, mock.Anything)
	})

	for _, name := range []string{"UniswapV3Router", "UniswapV3Factory", "VelodromePoolFactory"} {
		t.Run("missing "+name+" fails before deploy", func(t *testing.T) {
			registry := fullRegistry()
			delete(registry, name)
			deployer := &mockDeployer{}

			env := usecase.StepEnv{Deployer: deployer, Artifacts: registry, Accounts: staticAccounts{accounts: fullAccounts()}}
			err := Liquidator.Run(ctx, env)

			var missing *domain.MissingArtifactError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, name, missing.Name)
			assert.ErrorIs(t, err, domain.ErrMissingArtifact)
			deployer.AssertNotCalled(t, "Deploy", mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("deploy failure is returned unchanged", func(t *testing.T) {
		cause := &domain.DeploymentError{Contract: "Liquidator", Err: errors.New("insufficient funds for gas * price + value")}
		deployer := &mockDeployer{}
		deployer.On("Deploy", ctx, "Liquidator", expectedOptions()).Return(nil, cause)

		env := usecase.StepEnv{Deployer: deployer, Artifacts: fullRegistry(), Accounts: staticAccounts{accounts: fullAccounts()}}
		err := Liquidator.Run(ctx, env)

		assert.Same(t, cause, err)
		assert.ErrorIs(t, err, domain.ErrDeploymentFailed)
	})

	t.Run("two invocations produce identical requests", func(t *testing.T) {
		deployer := &mockDeployer{}
		deployer.On("Deploy", ctx, "Liquidator", mock.Anything).Return(&models.DeployResult{}, nil)

		env := usecase.StepEnv{Deployer: deployer, Artifacts: fullRegistry(), Accounts: staticAccounts{accounts: fullAccounts()}}
		require.NoError(t, Liquidator.Run(ctx, env))
		require.NoError(t, Liquidator.Run(ctx, env))

		require.Len(t, deployer.Calls, 2)
		assert.Equal(t, deployer.Calls[0].Arguments, deployer.Calls[1].Arguments)
	})
}

func TestLiquidatorScenario(t *testing.T) {
	ctx := context.Background()

	deployer := &mockDeployer{}
	deployer.On("Deploy", ctx, "Liquidator", models.DeployOptions{
		Args: []any{
			common.HexToAddress("0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB"),
			common.HexToAddress("0x1111111111111111111111111111111111111111"),
			common.HexToAddress("0x2222222222222222222222222222222222222222"),
			common.HexToAddress("0x3333333333333333333333333333333333333333"),
		},
		From: common.HexToAddress("0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"),
		Log:  true,
	}).Return(&models.DeployResult{}, nil).Once()

	registry := usecase.NewStepRegistry()
	registry.Add(Liquidator)

	env := usecase.StepEnv{
		Deployer: deployer,
		Artifacts: mapArtifacts{
			"UniswapV3Router":      "0x1111111111111111111111111111111111111111",
			"UniswapV3Factory":     "0x2222222222222222222222222222222222222222",
			"VelodromePoolFactory": "0x3333333333333333333333333333333333333333",
		},
		Accounts: staticAccounts{accounts: models.NamedAccounts{
			"deployer": common.HexToAddress("0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"),
			"owner":    common.HexToAddress("0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB"),
		}},
	}

	plan, err := registry.Plan([]string{"Liquidator"})
	require.NoError(t, err)
	for _, s := range plan.Steps {
		require.NoError(t, s.Run(ctx, env))
	}
	deployer.AssertExpectations(t)
}
