package evm

import (
	"bytes"
	"context"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/exactly/liquidator-deploy/internal/adapters/accounts"
	"github.com/exactly/liquidator-deploy/internal/adapters/blockchain"
	"github.com/exactly/liquidator-deploy/internal/adapters/repository/contracts"
	"github.com/exactly/liquidator-deploy/internal/adapters/repository/deployments"
	"github.com/exactly/liquidator-deploy/internal/domain"
	"github.com/exactly/liquidator-deploy/internal/domain/config"
	"github.com/exactly/liquidator-deploy/internal/domain/models"
	"github.com/exactly/liquidator-deploy/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// well-known anvil key 0
const testKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

// init code returning a one byte runtime, constructor arguments are ignored
const initCode = "0x6001600c60003960016000f300"

const liquidatorArtifact = `{
  "abi": [{"type":"constructor","stateMutability":"nonpayable","inputs":[
    {"name":"owner_","type":"address"},
    {"name":"swapRouter_","type":"address"},
    {"name":"uniswapV3Factory_","type":"address"},
    {"name":"velodromePoolFactory_","type":"address"}]}],
  "bytecode": {"object": "` + initCode + `", "linkReferences": {}},
  "deployedBytecode": {"object": "0x00"},
  "metadata": {"compiler": {"version": "0.8.23"}, "settings": {"compilationTarget": {"src/Liquidator.sol": "Liquidator"}}}
}`

// init code that reverts with empty data
const revertingInitCode = "0x60006000fd"

const reverterArtifact = `{
  "abi": [],
  "bytecode": {"object": "` + revertingInitCode + `", "linkReferences": {}},
  "deployedBytecode": {"object": "0x"},
  "metadata": {"compiler": {"version": "0.8.23"}, "settings": {"compilationTarget": {"src/Reverter.sol": "Reverter"}}}
}`

var (
	deployerAddr = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	ownerAddr    = common.HexToAddress("0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB")
	routerAddr   = common.HexToAddress("0x1111111111111111111111111111111111111111")
	factoryAddr  = common.HexToAddress("0x2222222222222222222222222222222222222222")
	poolAddr     = common.HexToAddress("0x3333333333333333333333333333333333333333")
)

type recordingSink struct {
	infos  []string
	events []usecase.ProgressEvent
}

func (s *recordingSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	s.events = append(s.events, event)
}
func (s *recordingSink) Info(message string) { s.infos = append(s.infos, message) }
func (s *recordingSink) Error(string)        {}

// gasBackend answers gas estimates with a fixed limit when one is set, so
// transactions that would fail estimation still reach a block
type gasBackend struct {
	blockchain.Backend
	gas *uint64
}

func (b gasBackend) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	if *b.gas > 0 {
		return *b.gas, nil
	}
	return b.Backend.EstimateGas(ctx, call)
}

type fixture struct {
	sim      *simulated.Backend
	cfg      *config.RuntimeConfig
	repo     *deployments.FileRepository
	sink     *recordingSink
	logs     *bytes.Buffer
	gas      *uint64
	deployer *Deployer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	sim := simulated.NewBackend(types.GenesisAlloc{
		deployerAddr: {Balance: new(big.Int).Mul(big.NewInt(100), big.NewInt(1e18))},
	}, simulated.WithBlockGasLimit(50000000))
	t.Cleanup(func() { _ = sim.Close() })
	sim.Commit()

	root := t.TempDir()
	artifactPath := filepath.Join(root, "out", "Liquidator.sol", "Liquidator.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(artifactPath), 0755))
	require.NoError(t, os.WriteFile(artifactPath, []byte(liquidatorArtifact), 0644))
	reverterPath := filepath.Join(root, "out", "Reverter.sol", "Reverter.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(reverterPath), 0755))
	require.NoError(t, os.WriteFile(reverterPath, []byte(reverterArtifact), 0644))

	repo, err := deployments.NewFileRepository(filepath.Join(root, "deployments"))
	require.NoError(t, err)

	cfg := &config.RuntimeConfig{
		ProjectRoot: root,
		Namespace:   "default",
		Network:     &config.Network{Name: "sim", ChainID: 1337, RPCURL: "sim://"},
		Accounts: &config.ResolvedNamespace{Name: "default", Accounts: map[string]config.AccountConfig{
			"deployer": {Type: config.AccountTypePrivateKey, PrivateKey: testKey},
			"owner":    {Type: config.AccountTypeAddress, Address: ownerAddr.Hex()},
		}},
	}

	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))
	gas := new(uint64)
	client := blockchain.NewClient(cfg.Network, func(ctx context.Context, rpcURL string) (blockchain.Backend, error) {
		return gasBackend{Backend: sim.Client(), gas: gas}, nil
	}, log)

	sink := &recordingSink{}
	d := NewDeployer(cfg, contracts.NewRepository(root, "out", log), repo, accounts.NewService(cfg), client, sink, log)
	confirm := WaitMined(time.Minute, 10*time.Millisecond)
	d.confirm = func(ctx context.Context, backend bind.DeployBackend, tx *types.Transaction) (*types.Receipt, error) {
		sim.Commit()
		return confirm(ctx, backend, tx)
	}

	return &fixture{sim: sim, cfg: cfg, repo: repo, sink: sink, logs: &logs, gas: gas, deployer: d}
}

func liquidatorOptions() models.DeployOptions {
	return models.DeployOptions{
		Args: []any{ownerAddr, routerAddr, factoryAddr, poolAddr},
		From: deployerAddr,
		Log:  true,
	}
}

func TestDeployerDeploy(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and records the contract", func(t *testing.T) {
		f := newFixture(t)

		result, err := f.deployer.Deploy(ctx, "Liquidator", liquidatorOptions())
		require.NoError(t, err)
		assert.False(t, result.Reused)
		assert.False(t, result.DryRun)

		dep := result.Deployment
		assert.Equal(t, crypto.CreateAddress(deployerAddr, 0).Hex(), dep.Address)
		assert.Equal(t, "default/1337/Liquidator", dep.ID)
		assert.Equal(t, models.SourceDeployed, dep.Source)
		assert.Equal(t, deployerAddr.Hex(), dep.Deployer)
		assert.Equal(t, []string{ownerAddr.Hex(), routerAddr.Hex(), factoryAddr.Hex(), poolAddr.Hex()}, dep.Args)
		assert.Len(t, dep.ConstructorArgs, 2+4*64)
		assert.True(t, strings.HasSuffix(dep.ConstructorArgs, strings.ToLower(poolAddr.Hex()[2:])))
		assert.Equal(t, "src/Liquidator.sol:Liquidator", dep.Artifact.Path)
		assert.Equal(t, "0.8.23", dep.Artifact.CompilerVersion)
		assert.Equal(t, crypto.Keccak256Hash(common.FromHex(initCode)).Hex(), dep.Artifact.BytecodeHash)
		assert.Equal(t, []string{"Liquidator"}, dep.Tags)
		assert.NotZero(t, dep.GasUsed)
		assert.NotZero(t, dep.BlockNumber)

		code, err := f.sim.Client().CodeAt(ctx, dep.ContractAddress(), nil)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x00}, code)

		stored, err := f.repo.GetDeployment(ctx, dep.ID)
		require.NoError(t, err)
		assert.Equal(t, dep.Address, stored.Address)

		require.Len(t, f.sink.infos, 1)
		assert.Contains(t, f.sink.infos[0], `deploying "Liquidator" (tx: `+dep.TransactionHash+`)...: deployed at `+dep.Address)
	})

	t.Run("reuses an identical deployment", func(t *testing.T) {
		f := newFixture(t)

		first, err := f.deployer.Deploy(ctx, "Liquidator", liquidatorOptions())
		require.NoError(t, err)
		second, err := f.deployer.Deploy(ctx, "Liquidator", liquidatorOptions())
		require.NoError(t, err)

		assert.True(t, second.Reused)
		assert.Equal(t, first.Deployment.Address, second.Deployment.Address)
		assert.Equal(t, `reusing "Liquidator" at `+first.Deployment.Address, f.sink.infos[1])
	})

	t.Run("redeploys when arguments change", func(t *testing.T) {
		f := newFixture(t)

		first, err := f.deployer.Deploy(ctx, "Liquidator", liquidatorOptions())
		require.NoError(t, err)

		opts := liquidatorOptions()
		opts.Args[0] = common.HexToAddress("0xCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCC")
		second, err := f.deployer.Deploy(ctx, "Liquidator", opts)
		require.NoError(t, err)

		assert.False(t, second.Reused)
		assert.NotEqual(t, first.Deployment.Address, second.Deployment.Address)
	})

	t.Run("reset disables reuse", func(t *testing.T) {
		f := newFixture(t)

		first, err := f.deployer.Deploy(ctx, "Liquidator", liquidatorOptions())
		require.NoError(t, err)

		f.cfg.Reset = true
		second, err := f.deployer.Deploy(ctx, "Liquidator", liquidatorOptions())
		require.NoError(t, err)

		assert.False(t, second.Reused)
		assert.NotEqual(t, first.Deployment.Address, second.Deployment.Address)
	})

	t.Run("keeps tags of the previous record", func(t *testing.T) {
		f := newFixture(t)

		first, err := f.deployer.Deploy(ctx, "Liquidator", liquidatorOptions())
		require.NoError(t, err)
		first.Deployment.Tags = append(first.Deployment.Tags, "v1")
		require.NoError(t, f.repo.SaveDeployment(ctx, first.Deployment))

		f.cfg.Reset = true
		second, err := f.deployer.Deploy(ctx, "Liquidator", liquidatorOptions())
		require.NoError(t, err)
		assert.Equal(t, []string{"Liquidator", "v1"}, second.Deployment.Tags)
	})

	t.Run("logs the deployment when progress output is off", func(t *testing.T) {
		f := newFixture(t)
		f.deployer.sink = usecase.NopProgress{}

		result, err := f.deployer.Deploy(ctx, "Liquidator", liquidatorOptions())
		require.NoError(t, err)

		dep := result.Deployment
		assert.Contains(t, f.logs.String(), "msg=deployed component=Deployer contract=Liquidator address="+dep.Address+" tx="+dep.TransactionHash)

		_, err = f.deployer.Deploy(ctx, "Liquidator", liquidatorOptions())
		require.NoError(t, err)
		assert.Contains(t, f.logs.String(), `msg="reusing deployment" component=Deployer contract=Liquidator address=`+dep.Address)
	})

	t.Run("silent when logging is not requested", func(t *testing.T) {
		f := newFixture(t)

		opts := liquidatorOptions()
		opts.Log = false
		_, err := f.deployer.Deploy(ctx, "Liquidator", opts)
		require.NoError(t, err)
		assert.Empty(t, f.sink.infos)
		assert.NotContains(t, f.logs.String(), "msg=deployed")
	})

	t.Run("reverted constructor is a deployment failure", func(t *testing.T) {
		f := newFixture(t)
		*f.gas = 100000

		_, err := f.deployer.Deploy(ctx, "Reverter", models.DeployOptions{From: deployerAddr, Log: true})

		var deployErr *domain.DeploymentError
		require.ErrorAs(t, err, &deployErr)
		assert.Equal(t, "Reverter", deployErr.Contract)
		assert.ErrorIs(t, err, domain.ErrDeploymentFailed)
		assert.ErrorContains(t, err, "reverted")

		_, err = f.repo.GetDeploymentByName(ctx, "default", 1337, "Reverter")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Empty(t, f.sink.infos)
	})

	t.Run("address-only sender cannot deploy", func(t *testing.T) {
		f := newFixture(t)

		opts := liquidatorOptions()
		opts.From = ownerAddr
		_, err := f.deployer.Deploy(ctx, "Liquidator", opts)

		var deployErr *domain.DeploymentError
		require.ErrorAs(t, err, &deployErr)
		assert.Equal(t, "Liquidator", deployErr.Contract)
		assert.ErrorIs(t, err, domain.ErrDeploymentFailed)
		assert.ErrorContains(t, err, "cannot sign")
	})

	t.Run("wrong argument count", func(t *testing.T) {
		f := newFixture(t)

		opts := liquidatorOptions()
		opts.Args = opts.Args[:3]
		_, err := f.deployer.Deploy(ctx, "Liquidator", opts)

		assert.ErrorIs(t, err, domain.ErrDeploymentFailed)
		assert.ErrorContains(t, err, "failed to encode constructor arguments")
	})

	t.Run("unknown contract", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.deployer.Deploy(ctx, "Missing", liquidatorOptions())
		assert.ErrorIs(t, err, domain.ErrDeploymentFailed)
		assert.ErrorIs(t, err, domain.ErrContractNotFound)
	})
}

func TestDryRunDeployer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dry := NewDryRunDeployer(f.deployer)

	result, err := dry.Deploy(ctx, "Liquidator", liquidatorOptions())
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Empty(t, result.Deployment.Address)
	assert.Equal(t, "default/1337/Liquidator", result.Deployment.ID)

	list, err := f.repo.ListDeployments(ctx, domain.DeploymentFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	nonce, err := f.sim.Client().PendingNonceAt(ctx, deployerAddr)
	require.NoError(t, err)
	assert.Zero(t, nonce)

	require.Len(t, f.sink.infos, 1)
	assert.Contains(t, f.sink.infos[0], `[dry-run] would deploy "Liquidator" from `+deployerAddr.Hex())

	_, err = f.deployer.Deploy(ctx, "Liquidator", liquidatorOptions())
	require.NoError(t, err)
	result, err = dry.Deploy(ctx, "Liquidator", liquidatorOptions())
	require.NoError(t, err)
	assert.True(t, result.Reused)
}

func TestWaitMinedTimeout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	key, err := crypto.HexToECDSA(testKey[2:])
	require.NoError(t, err)
	opts, err := bind.NewKeyedTransactorWithChainID(key, big.NewInt(1337))
	require.NoError(t, err)

	tx := types.NewTransaction(0, ownerAddr, big.NewInt(1), 21000, big.NewInt(10_000_000_000), nil)
	signed, err := opts.Signer(opts.From, tx)
	require.NoError(t, err)
	require.NoError(t, f.sim.Client().SendTransaction(ctx, signed))

	_, err = WaitMined(50*time.Millisecond, 10*time.Millisecond)(ctx, f.sim.Client(), signed)
	assert.ErrorContains(t, err, "failed to confirm")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = WaitMined(time.Second, 10*time.Millisecond)(ctx, f.sim.Client(), nil)
	assert.ErrorContains(t, err, "tx was nil")
}
