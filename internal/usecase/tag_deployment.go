package usecase

import (
	"context"
	"fmt"

	"github.com/exactly/liquidator-deploy/internal/domain"
	"github.com/exactly/liquidator-deploy/internal/domain/models"
	"github.com/samber/lo"
)

// TagOperation is what TagDeployment does with the tag
type TagOperation string

const (
	TagShow   TagOperation = "show"
	TagAdd    TagOperation = "add"
	TagRemove TagOperation = "remove"
)

// TagDeploymentParams contains parameters for tagging deployments
type TagDeploymentParams struct {
	// Reference can be deployment ID, contract name, or address
	Reference string
	Tag       string
	Operation TagOperation
}

// TagDeploymentResult contains the result of a tag operation
type TagDeploymentResult struct {
	Deployment *models.Deployment
	Operation  TagOperation
	Tag        string
}

// TagDeployment handles tagging of deployments
type TagDeployment struct {
	repo     DeploymentRepository
	resolver DeploymentResolver
	sink     ProgressSink
}

// NewTagDeployment creates a new tag deployment use case
func NewTagDeployment(repo DeploymentRepository, resolver DeploymentResolver, sink ProgressSink) *TagDeployment {
	return &TagDeployment{
		repo:     repo,
		resolver: resolver,
		sink:     sink,
	}
}

// Run handles tag operations on deployments
func (uc *TagDeployment) Run(ctx context.Context, params TagDeploymentParams) (*TagDeploymentResult, error) {
	deployment, err := uc.resolver.ResolveDeployment(ctx, domain.DeploymentQuery{Reference: params.Reference})
	if err != nil {
		return nil, err
	}

	result := &TagDeploymentResult{
		Deployment: deployment,
		Operation:  params.Operation,
		Tag:        params.Tag,
	}

	switch params.Operation {
	case TagShow:
		return result, nil
	case TagAdd:
		if deployment.HasTag(params.Tag) {
			return nil, fmt.Errorf("tag '%s' already exists", params.Tag)
		}
		deployment.Tags = append(deployment.Tags, params.Tag)
		uc.sink.Info(fmt.Sprintf("Added tag '%s' to deployment %s", params.Tag, deployment.ID))
	case TagRemove:
		if !deployment.HasTag(params.Tag) {
			return nil, fmt.Errorf("tag '%s' does not exist", params.Tag)
		}
		deployment.Tags = lo.Without(deployment.Tags, params.Tag)
		uc.sink.Info(fmt.Sprintf("Removed tag '%s' from deployment %s", params.Tag, deployment.ID))
	default:
		return nil, fmt.Errorf("invalid operation: %s", params.Operation)
	}

	if err := uc.repo.SaveDeployment(ctx, deployment); err != nil {
		return nil, fmt.Errorf("failed to save deployment: %w", err)
	}
	return result, nil
}
