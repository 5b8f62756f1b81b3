package evm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/exactly/liquidator-deploy/internal/adapters/blockchain"
	"github.com/exactly/liquidator-deploy/internal/domain"
	"github.com/exactly/liquidator-deploy/internal/domain/config"
	"github.com/exactly/liquidator-deploy/internal/domain/models"
	"github.com/exactly/liquidator-deploy/internal/usecase"
	"github.com/samber/lo"
)

const (
	defaultConfirmTimeout = 2 * time.Minute
	confirmTick           = time.Second
)

// ChainClient is the connection the deployer sends transactions through
type ChainClient interface {
	Backend(ctx context.Context) (blockchain.Backend, error)
	ChainID() *big.Int
	HasCode(ctx context.Context, address common.Address) (bool, error)
}

// Deployer creates contracts from Foundry artifacts and records them in the registry.
//
// A request is satisfied by the existing record of the same contract when the
// creation bytecode and the encoded constructor arguments match and the
// recorded address still has code. Reset disables reuse.
type Deployer struct {
	config    *config.RuntimeConfig
	contracts usecase.ContractRepository
	repo      usecase.DeploymentRepository
	signers   usecase.Signers
	chain     ChainClient
	confirm   ConfirmFunc
	sink      usecase.ProgressSink
	log       *slog.Logger
}

// NewDeployer creates a new EVM deployer
func NewDeployer(
	cfg *config.RuntimeConfig,
	contracts usecase.ContractRepository,
	repo usecase.DeploymentRepository,
	signers usecase.Signers,
	chain ChainClient,
	sink usecase.ProgressSink,
	log *slog.Logger,
) *Deployer {
	timeout := cfg.ConfirmTimeout
	if timeout <= 0 {
		timeout = defaultConfirmTimeout
	}
	return &Deployer{
		config:    cfg,
		contracts: contracts,
		repo:      repo,
		signers:   signers,
		chain:     chain,
		confirm:   WaitMined(timeout, confirmTick),
		sink:      sink,
		log:       log.With("component", "Deployer"),
	}
}

// prepared is a deployment request resolved against its artifact
type prepared struct {
	contract     *models.Contract
	abi          abi.ABI
	bytecode     []byte
	encodedArgs  []byte
	bytecodeHash common.Hash
}

// Deploy creates name with opts or reuses the matching recorded deployment.
// Every failure is returned as a *domain.DeploymentError.
func (d *Deployer) Deploy(ctx context.Context, name string, opts models.DeployOptions) (*models.DeployResult, error) {
	result, err := d.deploy(ctx, name, opts)
	if err != nil {
		return nil, &domain.DeploymentError{Contract: name, Err: err}
	}
	return result, nil
}

func (d *Deployer) deploy(ctx context.Context, name string, opts models.DeployOptions) (*models.DeployResult, error) {
	p, err := d.prepare(ctx, name, opts)
	if err != nil {
		return nil, err
	}

	existing, err := d.findReusable(ctx, name, p)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if opts.Log {
			d.log.Info("reusing deployment", "contract", name, "address", existing.Address, "id", existing.ID)
			d.sink.Info(fmt.Sprintf("reusing %q at %s", name, existing.Address))
		}
		return &models.DeployResult{Deployment: existing, Reused: true}, nil
	}

	txOpts, err := d.signers.TransactOpts(ctx, opts.From, d.chain.ChainID())
	if err != nil {
		return nil, err
	}
	backend, err := d.chain.Backend(ctx)
	if err != nil {
		return nil, err
	}

	address, tx, _, err := bind.DeployContract(txOpts, p.abi, p.bytecode, backend, opts.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}
	d.log.Debug("sent deployment", "contract", name, "tx", tx.Hash().Hex(), "address", address.Hex())
	d.sink.OnProgress(ctx, usecase.ProgressEvent{
		Stage:   "confirming",
		Message: fmt.Sprintf("Waiting for %s (tx: %s)", name, tx.Hash().Hex()),
		Spinner: true,
	})

	receipt, err := d.confirm(ctx, backend, tx)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("tx %s reverted", tx.Hash().Hex())
	}

	record := d.record(name, opts, p)
	record.Address = address.Hex()
	record.TransactionHash = tx.Hash().Hex()
	record.GasUsed = receipt.GasUsed
	if receipt.BlockNumber != nil {
		record.BlockNumber = receipt.BlockNumber.Uint64()
	}
	if previous, err := d.repo.GetDeployment(ctx, record.ID); err == nil {
		record.Tags = lo.Uniq(append(record.Tags, previous.Tags...))
	}

	if err := d.repo.SaveDeployment(ctx, record); err != nil {
		return nil, fmt.Errorf("deployed at %s but failed to record it: %w", record.Address, err)
	}

	if opts.Log {
		d.log.Info("deployed",
			"contract", name,
			"address", record.Address,
			"tx", record.TransactionHash,
			"gas", record.GasUsed,
			"block", record.BlockNumber,
		)
		d.sink.Info(fmt.Sprintf("deploying %q (tx: %s)...: deployed at %s with %d gas",
			name, record.TransactionHash, record.Address, record.GasUsed))
	}
	return &models.DeployResult{Deployment: record}, nil
}

// prepare loads the artifact of name and encodes the constructor arguments
func (d *Deployer) prepare(ctx context.Context, name string, opts models.DeployOptions) (*prepared, error) {
	if d.config.Network == nil {
		return nil, fmt.Errorf("no network configured")
	}

	contract, err := d.contracts.GetContract(ctx, name)
	if err != nil {
		return nil, err
	}
	if contract.Artifact == nil {
		return nil, fmt.Errorf("%s has no artifact", contract.FullyQualifiedName())
	}
	if contract.Artifact.Bytecode.NeedsLinking() {
		return nil, fmt.Errorf("%s needs library linking, which is not supported", contract.FullyQualifiedName())
	}

	parsed, err := abi.JSON(bytes.NewReader(contract.Artifact.ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI of %s: %w", contract.FullyQualifiedName(), err)
	}

	encoded, err := parsed.Pack("", opts.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode constructor arguments: %w", err)
	}

	bytecode := common.FromHex(contract.Artifact.Bytecode.Object)
	return &prepared{
		contract:     contract,
		abi:          parsed,
		bytecode:     bytecode,
		encodedArgs:  encoded,
		bytecodeHash: crypto.Keccak256Hash(bytecode),
	}, nil
}

// findReusable returns the recorded deployment that already satisfies p, if any
func (d *Deployer) findReusable(ctx context.Context, name string, p *prepared) (*models.Deployment, error) {
	if d.config.Reset {
		return nil, nil
	}

	existing, err := d.repo.GetDeploymentByName(ctx, d.config.Namespace, d.config.Network.ChainID, name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if existing.Artifact.BytecodeHash != p.bytecodeHash.Hex() || existing.ConstructorArgs != hexutil.Encode(p.encodedArgs) {
		d.log.Debug("recorded deployment differs", "id", existing.ID)
		return nil, nil
	}

	hasCode, err := d.chain.HasCode(ctx, existing.ContractAddress())
	if err != nil {
		return nil, err
	}
	if !hasCode {
		d.log.Warn("recorded deployment has no code, redeploying", "id", existing.ID, "address", existing.Address)
		return nil, nil
	}
	return existing, nil
}

// record builds the registry entry for a deployment of p
func (d *Deployer) record(name string, opts models.DeployOptions, p *prepared) *models.Deployment {
	return &models.Deployment{
		ID:              models.DeploymentID(d.config.Namespace, d.config.Network.ChainID, name),
		Namespace:       d.config.Namespace,
		ChainID:         d.config.Network.ChainID,
		ContractName:    name,
		Source:          models.SourceDeployed,
		Deployer:        opts.From.Hex(),
		ConstructorArgs: hexutil.Encode(p.encodedArgs),
		Args:            lo.Map(opts.Args, func(arg any, _ int) string { return fmt.Sprint(arg) }),
		Artifact: models.ArtifactInfo{
			Path:            p.contract.FullyQualifiedName(),
			CompilerVersion: p.contract.Artifact.Metadata.Compiler.Version,
			BytecodeHash:    p.bytecodeHash.Hex(),
		},
		Tags: []string{name},
	}
}

// Ensure the deployer implements the interface
var _ usecase.Deployer = (*Deployer)(nil)
