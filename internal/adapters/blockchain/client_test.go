package blockchain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/exactly/liquidator-deploy/internal/domain"
	"github.com/exactly/liquidator-deploy/internal/domain/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codeAddr = common.HexToAddress("0x1111111111111111111111111111111111111111")

func newSimBackend(t *testing.T) *simulated.Backend {
	t.Helper()

	sim := simulated.NewBackend(types.GenesisAlloc{
		codeAddr: {Code: []byte{0x00}, Balance: big.NewInt(0)},
	})
	t.Cleanup(func() { _ = sim.Close() })
	sim.Commit()
	return sim
}

func simDial(sim *simulated.Backend, calls *int) DialFunc {
	return func(ctx context.Context, rpcURL string) (Backend, error) {
		*calls++
		return sim.Client(), nil
	}
}

// closingBackend counts Close calls and can fail the chain ID query
type closingBackend struct {
	Backend
	chainErr error
	closed   int
}

func (b *closingBackend) ChainID(ctx context.Context) (*big.Int, error) {
	if b.chainErr != nil {
		return nil, b.chainErr
	}
	return b.Backend.ChainID(ctx)
}

func (b *closingBackend) Close() { b.closed++ }

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClientBackend(t *testing.T) {
	ctx := context.Background()

	t.Run("dials once", func(t *testing.T) {
		sim := newSimBackend(t)
		calls := 0
		client := NewClient(&config.Network{Name: "sim", ChainID: 1337, RPCURL: "sim://"}, simDial(sim, &calls), discard())

		_, err := client.Backend(ctx)
		require.NoError(t, err)
		_, err = client.Backend(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("chain id mismatch", func(t *testing.T) {
		sim := newSimBackend(t)
		calls := 0
		client := NewClient(&config.Network{Name: "optimism", ChainID: 10, RPCURL: "sim://"}, simDial(sim, &calls), discard())

		_, err := client.Backend(ctx)
		assert.ErrorIs(t, err, domain.ErrNetworkMismatch)
	})

	t.Run("closes the backend it rejects", func(t *testing.T) {
		sim := newSimBackend(t)
		mismatched := &closingBackend{Backend: sim.Client()}
		unreachable := &closingBackend{Backend: sim.Client(), chainErr: errors.New("eth_chainId timeout")}

		for _, backend := range []*closingBackend{mismatched, unreachable} {
			dial := func(ctx context.Context, rpcURL string) (Backend, error) { return backend, nil }
			client := NewClient(&config.Network{Name: "optimism", ChainID: 10, RPCURL: "sim://"}, dial, discard())

			_, err := client.Backend(ctx)
			require.Error(t, err)
			assert.Equal(t, 1, backend.closed)
		}

		kept := &closingBackend{Backend: sim.Client()}
		dial := func(ctx context.Context, rpcURL string) (Backend, error) { return kept, nil }
		_, err := NewClient(&config.Network{Name: "sim", ChainID: 1337, RPCURL: "sim://"}, dial, discard()).Backend(ctx)
		require.NoError(t, err)
		assert.Zero(t, kept.closed)
	})

	t.Run("no network", func(t *testing.T) {
		client := NewClient(nil, nil, discard())
		_, err := client.Backend(ctx)
		assert.ErrorContains(t, err, "no network configured")
	})

	t.Run("no rpc url", func(t *testing.T) {
		client := NewClient(&config.Network{Name: "optimism", ChainID: 10}, nil, discard())
		_, err := client.Backend(ctx)
		assert.ErrorContains(t, err, "has no RPC URL")
	})

	t.Run("dial error", func(t *testing.T) {
		dial := func(ctx context.Context, rpcURL string) (Backend, error) {
			return nil, errors.New("connection refused")
		}
		client := NewClient(&config.Network{Name: "optimism", ChainID: 10, RPCURL: "http://127.0.0.1:1"}, dial, discard())

		_, err := client.Backend(ctx)
		assert.ErrorContains(t, err, "failed to connect to optimism: connection refused")
	})
}

func TestClientHasCode(t *testing.T) {
	ctx := context.Background()
	sim := newSimBackend(t)
	calls := 0
	client := NewClient(&config.Network{Name: "sim", ChainID: 1337, RPCURL: "sim://"}, simDial(sim, &calls), discard())

	ok, err := client.HasCode(ctx, codeAddr)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.HasCode(ctx, common.HexToAddress("0x2222222222222222222222222222222222222222"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClientChainID(t *testing.T) {
	client := NewClient(&config.Network{ChainID: 10}, nil, discard())
	assert.Equal(t, big.NewInt(10), client.ChainID())
	assert.Equal(t, 0, NewClient(nil, nil, discard()).ChainID().Sign())
}
