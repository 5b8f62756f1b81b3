package usecase

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/exactly/liquidator-deploy/internal/domain"
	"github.com/exactly/liquidator-deploy/internal/domain/config"
	"github.com/exactly/liquidator-deploy/internal/domain/models"
)

// DeploymentRepository handles persistence of deployments
type DeploymentRepository interface {
	GetDeployment(ctx context.Context, id string) (*models.Deployment, error)
	GetDeploymentByName(ctx context.Context, namespace string, chainID uint64, contractName string) (*models.Deployment, error)
	GetDeploymentByAddress(ctx context.Context, chainID uint64, address string) (*models.Deployment, error)
	ListDeployments(ctx context.Context, filter domain.DeploymentFilter) ([]*models.Deployment, error)
	SaveDeployment(ctx context.Context, deployment *models.Deployment) error
	DeleteDeployment(ctx context.Context, id string) error
}

// ContractRepository provides access to compiled contracts
type ContractRepository interface {
	GetContract(ctx context.Context, name string) (*models.Contract, error)
	ListContracts(ctx context.Context) []*models.Contract
}

// Deployer submits contract deployments. Implementations decide whether an
// existing deployment is reused.
type Deployer interface {
	Deploy(ctx context.Context, name string, opts models.DeployOptions) (*models.DeployResult, error)
}

// ArtifactReader looks up deployments by contract name in the active namespace and chain
type ArtifactReader interface {
	Get(ctx context.Context, name string) (*models.Deployment, error)
}

// AccountResolver resolves the named accounts of the active namespace
type AccountResolver interface {
	NamedAccounts(ctx context.Context) (models.NamedAccounts, error)
}

// Signers produces transaction signers for named accounts backed by a key
type Signers interface {
	TransactOpts(ctx context.Context, from common.Address, chainID *big.Int) (*bind.TransactOpts, error)
}

// DeploymentResolver resolves a user reference (ID, address, name) to one deployment
type DeploymentResolver interface {
	ResolveDeployment(ctx context.Context, query domain.DeploymentQuery) (*models.Deployment, error)
}

// CodeChecker reports whether contract code exists at an address on the active network
type CodeChecker interface {
	HasCode(ctx context.Context, address common.Address) (bool, error)
}

// NetworkResolver handles network configuration resolution
type NetworkResolver interface {
	GetNetworks(ctx context.Context) []string
	ResolveNetwork(ctx context.Context, networkName string) (*config.Network, error)
}

// DeploymentSelector handles interactive selection of deployments
type DeploymentSelector interface {
	SelectDeployment(ctx context.Context, deployments []*models.Deployment, prompt string) (*models.Deployment, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// DeploymentListResult contains the result of listing deployments
type DeploymentListResult struct {
	Deployments []*models.Deployment
	Summary     DeploymentSummary
}

// DeploymentSummary provides summary statistics
type DeploymentSummary struct {
	Total       int
	ByNamespace map[string]int
	ByChain     map[uint64]int
	BySource    map[models.DeploymentSource]int
}

// LocalConfigStore persists the local namespace and network defaults
type LocalConfigStore interface {
	Exists() bool
	Load(ctx context.Context) (*config.LocalConfig, error)
	Save(ctx context.Context, cfg *config.LocalConfig) error
	GetPath() string
}
