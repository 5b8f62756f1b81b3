package deployments

import (
	"context"
	"errors"
	"fmt"

	"github.com/exactly/liquidator-deploy/internal/domain"
	"github.com/exactly/liquidator-deploy/internal/domain/config"
	"github.com/exactly/liquidator-deploy/internal/domain/models"
	"github.com/exactly/liquidator-deploy/internal/usecase"
)

// ArtifactReader looks deployments up by contract name in the active namespace and chain
type ArtifactReader struct {
	config *config.RuntimeConfig
	repo   usecase.DeploymentRepository
}

// NewArtifactReader creates a new artifact reader
func NewArtifactReader(cfg *config.RuntimeConfig, repo usecase.DeploymentRepository) *ArtifactReader {
	return &ArtifactReader{config: cfg, repo: repo}
}

// Get returns the deployment recorded for name or a MissingArtifactError
func (r *ArtifactReader) Get(ctx context.Context, name string) (*models.Deployment, error) {
	if r.config.Network == nil {
		return nil, fmt.Errorf("network must be configured to look up %s", name)
	}

	dep, err := r.repo.GetDeploymentByName(ctx, r.config.Namespace, r.config.Network.ChainID, name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, &domain.MissingArtifactError{
			Name:      name,
			Namespace: r.config.Namespace,
			ChainID:   r.config.Network.ChainID,
		}
	}
	if err != nil {
		return nil, err
	}
	return dep, nil
}

// Ensure the reader implements the interface
var _ usecase.ArtifactReader = (*ArtifactReader)(nil)
