package resolvers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/exactly/liquidator-deploy/internal/domain"
	"github.com/exactly/liquidator-deploy/internal/domain/config"
	"github.com/exactly/liquidator-deploy/internal/domain/models"
	"github.com/exactly/liquidator-deploy/internal/usecase"
	"github.com/samber/lo"
)

// DeploymentResolver handles deployment resolution and selection
type DeploymentResolver struct {
	config   *config.RuntimeConfig
	repo     usecase.DeploymentRepository
	selector usecase.DeploymentSelector
}

// NewDeploymentResolver creates a new deployment resolver
func NewDeploymentResolver(
	cfg *config.RuntimeConfig,
	repo usecase.DeploymentRepository,
	selector usecase.DeploymentSelector,
) *DeploymentResolver {
	return &DeploymentResolver{
		config:   cfg,
		repo:     repo,
		selector: selector,
	}
}

// ResolveDeployment resolves a deployment reference with filtering
func (r *DeploymentResolver) ResolveDeployment(ctx context.Context, query domain.DeploymentQuery) (*models.Deployment, error) {
	deployments, err := r.findDeployments(ctx, query)
	if err != nil {
		return nil, err
	}

	switch len(deployments) {
	case 0:
		return nil, fmt.Errorf("no deployment matching %q: %w", query.Reference, domain.ErrNotFound)
	case 1:
		return deployments[0], nil
	}

	// Multiple matches - use interactive selector if available
	if r.selector != nil && !r.config.NonInteractive {
		selected, err := r.selector.SelectDeployment(ctx, deployments, fmt.Sprintf("Multiple deployments found for '%s'. Select one:", query.Reference))
		if err != nil {
			return nil, fmt.Errorf("deployment selection failed: %w", err)
		}
		return selected, nil
	}

	matches := lo.Map(deployments, func(dep *models.Deployment, _ int) string {
		return fmt.Sprintf("%s at %s", dep.ID, dep.Address)
	})
	sort.Strings(matches)
	return nil, domain.AmbiguousDeploymentErr{Reference: query.Reference, Matches: matches}
}

// findDeployments finds deployments matching the query
func (r *DeploymentResolver) findDeployments(ctx context.Context, query domain.DeploymentQuery) ([]*models.Deployment, error) {
	ref := query.Reference

	namespace := query.Namespace
	if namespace == "" {
		namespace = r.config.Namespace
	}

	chainID := query.ChainID
	if chainID == 0 && r.config.Network != nil {
		chainID = r.config.Network.ChainID
	}

	// 1. Try as deployment ID
	if deployment, err := r.repo.GetDeployment(ctx, ref); err == nil {
		return []*models.Deployment{deployment}, nil
	}

	// 2. Try as address, on every chain unless one is selected. Matches in
	// the active namespace win over the others.
	if common.IsHexAddress(ref) {
		if chainID != 0 {
			deployment, err := r.repo.GetDeploymentByAddress(ctx, chainID, ref)
			if err == nil {
				return []*models.Deployment{deployment}, nil
			}
			if !errors.As(err, new(domain.AmbiguousDeploymentErr)) {
				return nil, nil
			}
		}

		deployments, err := r.repo.ListDeployments(ctx, domain.DeploymentFilter{ChainID: chainID})
		if err != nil {
			return nil, fmt.Errorf("failed to list deployments: %w", err)
		}
		matches := lo.Filter(deployments, func(dep *models.Deployment, _ int) bool {
			return strings.EqualFold(dep.Address, ref)
		})
		if own := lo.Filter(matches, func(dep *models.Deployment, _ int) bool { return dep.Namespace == namespace }); len(own) > 0 {
			return own, nil
		}
		return matches, nil
	}

	// 3. Parse the reference to extract components
	contractName, extractedNamespace, extractedChainID := parseReference(ref)
	if extractedNamespace != "" {
		namespace = extractedNamespace
	}
	if extractedChainID != 0 {
		chainID = extractedChainID
	}

	deployments, err := r.repo.ListDeployments(ctx, domain.DeploymentFilter{
		ContractName: contractName,
		ChainID:      chainID,
		Namespace:    namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list deployments: %w", err)
	}

	return deployments, nil
}

// parseReference parses a deployment reference and extracts components
// Supports formats:
// - Contract name: "Liquidator"
// - Namespace/contract: "staging/Liquidator"
// - Chain/contract: "10/Liquidator"
// - Namespace/chain/contract: "staging/10/Liquidator"
func parseReference(ref string) (contractName, namespace string, chainID uint64) {
	segments := strings.Split(ref, "/")

	switch len(segments) {
	case 1:
		contractName = segments[0]
	case 2:
		// Could be namespace/contract or chainID/contract
		if cid := parseChainID(segments[0]); cid != 0 {
			chainID = cid
		} else {
			namespace = segments[0]
		}
		contractName = segments[1]
	case 3:
		namespace = segments[0]
		chainID = parseChainID(segments[1])
		contractName = segments[2]
	default:
		contractName = ref
	}

	return contractName, namespace, chainID
}

// parseChainID tries to parse a string as a chain ID
func parseChainID(s string) uint64 {
	chainID, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return chainID
}

// Ensure the adapter implements the interface
var _ usecase.DeploymentResolver = (*DeploymentResolver)(nil)
