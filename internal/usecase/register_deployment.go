package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/exactly/liquidator-deploy/internal/domain"
	"github.com/exactly/liquidator-deploy/internal/domain/config"
	"github.com/exactly/liquidator-deploy/internal/domain/models"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// RegisterDeploymentParams contains parameters for registering an external deployment
type RegisterDeploymentParams struct {
	Name          string   // Contract name used by steps to look the record up
	Address       string   // Deployed address
	Tags          []string // Extra tags, the name is always tagged
	Force         bool     // Overwrite an existing record
	SkipCodeCheck bool     // Do not require code at the address
}

// RegisterDeploymentResult contains the result of registering deployments
type RegisterDeploymentResult struct {
	Deployments []*models.Deployment
	// Replaced lists the IDs whose previous record was overwritten
	Replaced []string
}

// Manifest is the YAML document accepted by ImportManifest
//
//	networks:
//	  optimism:
//	    UniswapV3Router: "0x..."
type Manifest struct {
	Networks map[string]map[string]string `yaml:"networks"`
}

// ImportManifestParams contains parameters for a bulk registration
type ImportManifestParams struct {
	Path          string
	Force         bool
	SkipCodeCheck bool
}

// RegisterDeployment is the use case for recording contracts deployed elsewhere
type RegisterDeployment struct {
	config *config.RuntimeConfig
	repo   DeploymentRepository
	code   CodeChecker
	sink   ProgressSink
}

// NewRegisterDeployment creates a new RegisterDeployment use case
func NewRegisterDeployment(
	cfg *config.RuntimeConfig,
	repo DeploymentRepository,
	code CodeChecker,
	sink ProgressSink,
) *RegisterDeployment {
	return &RegisterDeployment{
		config: cfg,
		repo:   repo,
		code:   code,
		sink:   sink,
	}
}

// Run registers a single deployment
func (uc *RegisterDeployment) Run(ctx context.Context, params RegisterDeploymentParams) (*RegisterDeploymentResult, error) {
	if err := uc.checkConfig(); err != nil {
		return nil, err
	}

	result := &RegisterDeploymentResult{}
	if err := uc.register(ctx, params, result); err != nil {
		return nil, err
	}
	return result, nil
}

// ImportManifest registers every contract listed for the active network in a YAML manifest
func (uc *RegisterDeployment) ImportManifest(ctx context.Context, params ImportManifestParams) (*RegisterDeploymentResult, error) {
	if err := uc.checkConfig(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(params.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", params.Path, err)
	}

	entries, ok := manifest.Networks[uc.config.Network.Name]
	if !ok {
		return nil, fmt.Errorf("manifest has no entries for network %s", uc.config.Network.Name)
	}

	names := lo.Keys(entries)
	sort.Strings(names)

	// Validate everything before writing anything
	for _, name := range names {
		if !common.IsHexAddress(entries[name]) {
			return nil, fmt.Errorf("%s: %w: %q", name, domain.ErrInvalidAddress, entries[name])
		}
	}

	result := &RegisterDeploymentResult{}
	for i, name := range names {
		uc.sink.OnProgress(ctx, ProgressEvent{
			Stage:   "registering",
			Current: i + 1,
			Total:   len(names),
			Message: fmt.Sprintf("Registering %s", name),
		})
		err := uc.register(ctx, RegisterDeploymentParams{
			Name:          name,
			Address:       entries[name],
			Force:         params.Force,
			SkipCodeCheck: params.SkipCodeCheck,
		}, result)
		if err != nil {
			return result, err
		}
	}

	return result, nil
}

func (uc *RegisterDeployment) checkConfig() error {
	if uc.config.Network == nil {
		return fmt.Errorf("network must be configured")
	}
	if uc.config.Namespace == "" {
		return fmt.Errorf("namespace must be configured")
	}
	return nil
}

func (uc *RegisterDeployment) register(ctx context.Context, params RegisterDeploymentParams, result *RegisterDeploymentResult) error {
	if params.Name == "" {
		return fmt.Errorf("contract name is required")
	}
	if !common.IsHexAddress(params.Address) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidAddress, params.Address)
	}
	address := common.HexToAddress(params.Address)

	id := models.DeploymentID(uc.config.Namespace, uc.config.Network.ChainID, params.Name)
	existing, err := uc.repo.GetDeployment(ctx, id)
	switch {
	case err == nil && !params.Force:
		return fmt.Errorf("deployment %s %w at %s (use --force to overwrite)", id, domain.ErrAlreadyExists, existing.Address)
	case err == nil:
		result.Replaced = append(result.Replaced, id)
	case !errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("failed to read registry: %w", err)
	}

	if !params.SkipCodeCheck {
		hasCode, err := uc.code.HasCode(ctx, address)
		if err != nil {
			return fmt.Errorf("failed to check code at %s: %w", address.Hex(), err)
		}
		if !hasCode {
			return fmt.Errorf("no contract code at %s on %s", address.Hex(), uc.config.Network.Name)
		}
	}

	now := time.Now()
	deployment := &models.Deployment{
		ID:           id,
		Namespace:    uc.config.Namespace,
		ChainID:      uc.config.Network.ChainID,
		ContractName: params.Name,
		Address:      address.Hex(),
		Source:       models.SourceRegistered,
		Tags:         lo.Uniq(append([]string{params.Name}, params.Tags...)),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if existing != nil {
		deployment.CreatedAt = existing.CreatedAt
	}

	if err := uc.repo.SaveDeployment(ctx, deployment); err != nil {
		return fmt.Errorf("failed to save deployment: %w", err)
	}

	uc.sink.Info(fmt.Sprintf("Registered %s at %s", id, deployment.Address))
	result.Deployments = append(result.Deployments, deployment)
	return nil
}
