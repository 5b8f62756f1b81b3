package usecase

import (
	"context"
	"fmt"

	"github.com/exactly/liquidator-deploy/internal/domain"
	"github.com/exactly/liquidator-deploy/internal/domain/models"
)

// ShowDeploymentParams contains parameters for showing a deployment
type ShowDeploymentParams struct {
	// Reference is a deployment ID, an address or a contract name
	Reference string
	ChainID   uint64
	Namespace string
}

// ShowDeployment is the use case for showing deployment details
type ShowDeployment struct {
	resolver DeploymentResolver
	sink     ProgressSink
}

// NewShowDeployment creates a new ShowDeployment use case
func NewShowDeployment(resolver DeploymentResolver, sink ProgressSink) *ShowDeployment {
	return &ShowDeployment{
		resolver: resolver,
		sink:     sink,
	}
}

// Run executes the show deployment use case
func (uc *ShowDeployment) Run(ctx context.Context, params ShowDeploymentParams) (*models.Deployment, error) {
	if params.Reference == "" {
		return nil, fmt.Errorf("deployment reference is required")
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: "Loading deployment details",
		Spinner: true,
	})

	deployment, err := uc.resolver.ResolveDeployment(ctx, domain.DeploymentQuery{
		Reference: params.Reference,
		ChainID:   params.ChainID,
		Namespace: params.Namespace,
	})
	if err != nil {
		return nil, err
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "complete",
		Message: "Deployment loaded",
	})

	return deployment, nil
}
