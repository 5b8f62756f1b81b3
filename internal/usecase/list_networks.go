package usecase

import (
	"context"

	"github.com/exactly/liquidator-deploy/internal/domain/config"
)

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
	// Current is the network selected with --network, if any
	Current string
}

// NetworkStatus represents the status of a network
type NetworkStatus struct {
	Name    string
	ChainID uint64
	Error   error
}

// ListNetworks is a use case for listing available networks
type ListNetworks struct {
	config   *config.RuntimeConfig
	resolver NetworkResolver
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(cfg *config.RuntimeConfig, resolver NetworkResolver) *ListNetworks {
	return &ListNetworks{
		config:   cfg,
		resolver: resolver,
	}
}

// Run resolves the chain ID of every configured network. Resolution errors
// are reported per network.
func (uc *ListNetworks) Run(ctx context.Context) (*ListNetworksResult, error) {
	names := uc.resolver.GetNetworks(ctx)

	result := &ListNetworksResult{
		Networks: make([]NetworkStatus, 0, len(names)),
	}
	if uc.config.Network != nil {
		result.Current = uc.config.Network.Name
	}

	for _, name := range names {
		status := NetworkStatus{Name: name}

		info, err := uc.resolver.ResolveNetwork(ctx, name)
		if err != nil {
			status.Error = err
		} else {
			status.ChainID = info.ChainID
		}

		result.Networks = append(result.Networks, status)
	}

	return result, nil
}
