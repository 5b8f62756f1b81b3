package adapters

import (
	"github.com/exactly/liquidator-deploy/internal/adapters/accounts"
	"github.com/exactly/liquidator-deploy/internal/adapters/blockchain"
	internalconfig "github.com/exactly/liquidator-deploy/internal/adapters/config"
	"github.com/exactly/liquidator-deploy/internal/adapters/evm"
	"github.com/exactly/liquidator-deploy/internal/adapters/fs"
	"github.com/exactly/liquidator-deploy/internal/adapters/interactive"
	"github.com/exactly/liquidator-deploy/internal/adapters/repository/contracts"
	"github.com/exactly/liquidator-deploy/internal/adapters/repository/deployments"
	"github.com/exactly/liquidator-deploy/internal/adapters/resolvers"
	"github.com/exactly/liquidator-deploy/internal/config"
	domainconfig "github.com/exactly/liquidator-deploy/internal/domain/config"
	"github.com/exactly/liquidator-deploy/internal/steps"
	"github.com/exactly/liquidator-deploy/internal/usecase"
	"github.com/google/wire"
)

// ProvideDeployer picks the deployer for the run: with --dry-run nothing is
// sent to the network
func ProvideDeployer(cfg *domainconfig.RuntimeConfig, deployer *evm.Deployer) usecase.Deployer {
	if cfg.DryRun {
		return evm.NewDryRunDeployer(deployer)
	}
	return deployer
}

// RepositorySet provides the registry and the compiled contracts
var RepositorySet = wire.NewSet(
	deployments.ProvideFileRepository,
	wire.Bind(new(usecase.DeploymentRepository), new(*deployments.FileRepository)),

	deployments.NewArtifactReader,
	wire.Bind(new(usecase.ArtifactReader), new(*deployments.ArtifactReader)),

	contracts.ProvideRepository,
	wire.Bind(new(usecase.ContractRepository), new(*contracts.Repository)),
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewLocalConfigStoreAdapter,
	wire.Bind(new(usecase.LocalConfigStore), new(*fs.LocalConfigStoreAdapter)),
)

// AccountsSet provides named accounts and their signers
var AccountsSet = wire.NewSet(
	accounts.NewService,
	wire.Bind(new(usecase.AccountResolver), new(*accounts.Service)),
	wire.Bind(new(usecase.Signers), new(*accounts.Service)),
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	blockchain.ProvideClient,
	wire.Bind(new(usecase.CodeChecker), new(*blockchain.Client)),
	wire.Bind(new(evm.ChainClient), new(*blockchain.Client)),

	evm.NewDeployer,
	ProvideDeployer,
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.DeploymentSelector), new(*interactive.SelectorAdapter)),

	resolvers.NewDeploymentResolver,
	wire.Bind(new(usecase.DeploymentResolver), new(*resolvers.DeploymentResolver)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	config.ProvideNetworkResolver,
	internalconfig.NewNetworkResolverAdapter,
	wire.Bind(new(usecase.NetworkResolver), new(*internalconfig.NetworkResolverAdapter)),
)

// StepsSet provides the registered deployment steps
var StepsSet = wire.NewSet(
	steps.NewRegistry,
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	RepositorySet,
	FSSet,
	AccountsSet,
	BlockchainSet,
	InteractiveSet,
	ConfigSet,
	StepsSet,
)
