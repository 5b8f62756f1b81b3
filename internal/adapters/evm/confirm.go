package evm

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
)

// ConfirmFunc waits until tx is mined and returns its receipt
type ConfirmFunc func(ctx context.Context, backend bind.DeployBackend, tx *types.Transaction) (*types.Receipt, error)

// WaitMined polls for the receipt every tick until timeout elapses
func WaitMined(timeout, tick time.Duration) ConfirmFunc {
	return func(ctx context.Context, backend bind.DeployBackend, tx *types.Transaction) (*types.Receipt, error) {
		if tx == nil {
			return nil, fmt.Errorf("tx was nil, nothing to confirm")
		}

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		receipt, err := retry.DoWithData(
			func() (*types.Receipt, error) {
				return backend.TransactionReceipt(ctx, tx.Hash())
			},
			retry.Context(ctx),
			retry.Attempts(0),
			retry.Delay(tick),
			retry.DelayType(retry.FixedDelay),
			retry.LastErrorOnly(true),
		)
		if err != nil {
			return nil, fmt.Errorf("tx %s failed to confirm: %w", tx.Hash().Hex(), err)
		}
		return receipt, nil
	}
}
