package accounts

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/exactly/liquidator-deploy/internal/domain/config"
	"github.com/exactly/liquidator-deploy/internal/domain/models"
	"github.com/exactly/liquidator-deploy/internal/usecase"
)

// account is a resolved named account
type account struct {
	role    string
	address common.Address
	key     *ecdsa.PrivateKey // nil for address-only accounts
}

// Service resolves the named accounts of the active namespace and signs for
// the ones backed by a private key
type Service struct {
	namespace *config.ResolvedNamespace

	once     sync.Once
	accounts map[string]*account
	err      error
}

// NewService creates a new account service
func NewService(cfg *config.RuntimeConfig) *Service {
	return &Service{namespace: cfg.Accounts}
}

// load parses every configured account once
func (s *Service) load() (map[string]*account, error) {
	s.once.Do(func() {
		s.accounts = make(map[string]*account)
		if s.namespace == nil {
			return
		}
		for role, cfg := range s.namespace.Accounts {
			acc, err := parseAccount(role, cfg)
			if err != nil {
				s.err = err
				return
			}
			s.accounts[role] = acc
		}
	})
	return s.accounts, s.err
}

func parseAccount(role string, cfg config.AccountConfig) (*account, error) {
	switch cfg.Type {
	case config.AccountTypePrivateKey:
		key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("account for role %s: invalid private key: %w", role, err)
		}
		return &account{role: role, address: crypto.PubkeyToAddress(key.PublicKey), key: key}, nil
	case config.AccountTypeAddress:
		if !common.IsHexAddress(cfg.Address) {
			return nil, fmt.Errorf("account for role %s: invalid address %q", role, cfg.Address)
		}
		return &account{role: role, address: common.HexToAddress(cfg.Address)}, nil
	default:
		return nil, fmt.Errorf("account for role %s: unsupported type %q", role, cfg.Type)
	}
}

// NamedAccounts returns the role to address mapping of the active namespace
func (s *Service) NamedAccounts(ctx context.Context) (models.NamedAccounts, error) {
	accounts, err := s.load()
	if err != nil {
		return nil, err
	}

	named := make(models.NamedAccounts, len(accounts))
	for role, acc := range accounts {
		named[role] = acc.address
	}
	return named, nil
}

// TransactOpts returns a signer for the named account with address from
func (s *Service) TransactOpts(ctx context.Context, from common.Address, chainID *big.Int) (*bind.TransactOpts, error) {
	accounts, err := s.load()
	if err != nil {
		return nil, err
	}

	var addressOnly string
	for _, acc := range accounts {
		if acc.address != from {
			continue
		}
		if acc.key == nil {
			addressOnly = acc.role
			continue
		}
		opts, err := bind.NewKeyedTransactorWithChainID(acc.key, chainID)
		if err != nil {
			return nil, fmt.Errorf("failed to create signer for %s: %w", acc.role, err)
		}
		opts.Context = ctx
		return opts, nil
	}

	if addressOnly != "" {
		return nil, fmt.Errorf("account %s (%s) is address-only and cannot sign", addressOnly, from.Hex())
	}
	return nil, fmt.Errorf("no signing account configured for %s", from.Hex())
}

// Ensure the service implements the interfaces
var (
	_ usecase.AccountResolver = (*Service)(nil)
	_ usecase.Signers         = (*Service)(nil)
)
