package usecase

import (
	"context"
	"sort"

	"github.com/exactly/liquidator-deploy/internal/domain/config"
)

// RoleBinding is a namespace role and the account it selects
type RoleBinding struct {
	Role    string             `json:"role"`
	Account string             `json:"account"`
	Type    config.AccountType `json:"type"`
	Address string             `json:"address,omitempty"`
}

// ShowConfigResult describes the saved defaults and what they resolve to
type ShowConfigResult struct {
	Local      *config.LocalConfig `json:"local"`
	ConfigPath string              `json:"configPath"`
	Exists     bool                `json:"exists"`

	// Effective values after flags, environment and local defaults
	Namespace string        `json:"namespace"`
	Network   string        `json:"network,omitempty"`
	ChainID   uint64        `json:"chainId,omitempty"`
	Roles     []RoleBinding `json:"roles"`
}

// ShowConfig reports the local defaults together with the namespace,
// network and account roles a run would use.
type ShowConfig struct {
	cfg   *config.RuntimeConfig
	store LocalConfigStore
}

func NewShowConfig(cfg *config.RuntimeConfig, store LocalConfigStore) *ShowConfig {
	return &ShowConfig{cfg: cfg, store: store}
}

func (uc *ShowConfig) Run(ctx context.Context) (*ShowConfigResult, error) {
	local, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	result := &ShowConfigResult{
		Local:      local,
		ConfigPath: uc.store.GetPath(),
		Exists:     uc.store.Exists(),
		Namespace:  uc.cfg.Namespace,
		Roles:      []RoleBinding{},
	}
	if result.Namespace == "" {
		result.Namespace = local.Namespace
	}
	if uc.cfg.Network != nil {
		result.Network = uc.cfg.Network.Name
		result.ChainID = uc.cfg.Network.ChainID
	}

	if uc.cfg.Accounts != nil {
		for role, acct := range uc.cfg.Accounts.Accounts {
			result.Roles = append(result.Roles, RoleBinding{
				Role:    role,
				Account: uc.cfg.Accounts.AccountNames[role],
				Type:    acct.Type,
				Address: acct.Address,
			})
		}
		sort.Slice(result.Roles, func(i, j int) bool {
			return result.Roles[i].Role < result.Roles[j].Role
		})
	}

	return result, nil
}
