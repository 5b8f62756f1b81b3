package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/exactly/liquidator-deploy/internal/domain"
	"github.com/exactly/liquidator-deploy/internal/domain/config"
	"github.com/exactly/liquidator-deploy/internal/usecase"
)

const (
	dialAttempts = 3
	dialDelay    = 500 * time.Millisecond
	codeTimeout  = 5 * time.Second
)

// Backend is everything the deployer needs from a node
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

// DialFunc opens a Backend for an RPC URL
type DialFunc func(ctx context.Context, rpcURL string) (Backend, error)

// DialRPC connects with ethclient and makes sure the node answers
func DialRPC(ctx context.Context, rpcURL string) (Backend, error) {
	return retry.DoWithData(
		func() (Backend, error) {
			client, err := ethclient.DialContext(ctx, rpcURL)
			if err != nil {
				return nil, err
			}
			if _, err := client.ChainID(ctx); err != nil {
				client.Close()
				return nil, err
			}
			return client, nil
		},
		retry.Context(ctx),
		retry.Attempts(dialAttempts),
		retry.Delay(dialDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
}

// Client lazily connects to the configured network
type Client struct {
	network *config.Network
	dial    DialFunc
	log     *slog.Logger

	mu      sync.Mutex
	backend Backend
}

// NewClient creates a client for network using dial to connect
func NewClient(network *config.Network, dial DialFunc, log *slog.Logger) *Client {
	return &Client{
		network: network,
		dial:    dial,
		log:     log.With("component", "BlockchainClient"),
	}
}

// ProvideClient creates the client for the active network
func ProvideClient(cfg *config.RuntimeConfig, log *slog.Logger) *Client {
	return NewClient(cfg.Network, DialRPC, log)
}

// Backend returns the connected backend, dialing on first use
func (c *Client) Backend(ctx context.Context) (Backend, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.backend != nil {
		return c.backend, nil
	}
	if c.network == nil {
		return nil, fmt.Errorf("no network configured")
	}
	if c.network.RPCURL == "" {
		return nil, fmt.Errorf("network %s has no RPC URL", c.network.Name)
	}

	c.log.Debug("connecting", "network", c.network.Name, "rpc", c.network.RPCURL)
	backend, err := c.dial(ctx, c.network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", c.network.Name, err)
	}

	chainID, err := backend.ChainID(ctx)
	if err != nil {
		closeBackend(backend)
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	if c.network.ChainID != 0 && chainID.Uint64() != c.network.ChainID {
		closeBackend(backend)
		return nil, fmt.Errorf("%w: %s expects chain %d, node reports %d",
			domain.ErrNetworkMismatch, c.network.Name, c.network.ChainID, chainID.Uint64())
	}

	c.backend = backend
	return backend, nil
}

// closeBackend releases backends that hold a connection
func closeBackend(backend Backend) {
	if closer, ok := backend.(interface{ Close() }); ok {
		closer.Close()
	}
}

// ChainID returns the configured chain ID as a big.Int
func (c *Client) ChainID() *big.Int {
	if c.network == nil {
		return new(big.Int)
	}
	return new(big.Int).SetUint64(c.network.ChainID)
}

// HasCode reports whether there is contract code at address
func (c *Client) HasCode(ctx context.Context, address common.Address) (bool, error) {
	backend, err := c.Backend(ctx)
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, codeTimeout)
	defer cancel()

	code, err := backend.CodeAt(ctx, address, nil)
	if err != nil {
		return false, fmt.Errorf("failed to get code at %s: %w", address.Hex(), err)
	}
	return len(code) > 0, nil
}

// Ensure the client implements the interface
var _ usecase.CodeChecker = (*Client)(nil)
