package usecase_test

import (
	"context"
	"testing"

	"github.com/exactly/liquidator-deploy/internal/domain"
	"github.com/exactly/liquidator-deploy/internal/domain/models"
	"github.com/exactly/liquidator-deploy/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTagDeployment(t *testing.T) {
	ctx := context.Background()
	query := domain.DeploymentQuery{Reference: "Liquidator"}

	newDeployment := func() *models.Deployment {
		return &models.Deployment{ID: "default/10/Liquidator", ContractName: "Liquidator", Tags: []string{"Liquidator"}}
	}

	t.Run("add", func(t *testing.T) {
		repo := &MockDeploymentRepository{}
		resolver := &MockDeploymentResolver{}
		resolver.On("ResolveDeployment", ctx, query).Return(newDeployment(), nil)
		repo.On("SaveDeployment", ctx, mock.Anything).Return(nil)

		uc := usecase.NewTagDeployment(repo, resolver, usecase.NopProgress{})
		result, err := uc.Run(ctx, usecase.TagDeploymentParams{Reference: "Liquidator", Tag: "v1", Operation: usecase.TagAdd})
		require.NoError(t, err)
		assert.Equal(t, []string{"Liquidator", "v1"}, result.Deployment.Tags)
		repo.AssertExpectations(t)
	})

	t.Run("add existing fails", func(t *testing.T) {
		resolver := &MockDeploymentResolver{}
		resolver.On("ResolveDeployment", ctx, query).Return(newDeployment(), nil)

		uc := usecase.NewTagDeployment(&MockDeploymentRepository{}, resolver, usecase.NopProgress{})
		_, err := uc.Run(ctx, usecase.TagDeploymentParams{Reference: "Liquidator", Tag: "Liquidator", Operation: usecase.TagAdd})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("remove", func(t *testing.T) {
		repo := &MockDeploymentRepository{}
		resolver := &MockDeploymentResolver{}
		resolver.On("ResolveDeployment", ctx, query).Return(newDeployment(), nil)
		repo.On("SaveDeployment", ctx, mock.Anything).Return(nil)

		uc := usecase.NewTagDeployment(repo, resolver, usecase.NopProgress{})
		result, err := uc.Run(ctx, usecase.TagDeploymentParams{Reference: "Liquidator", Tag: "Liquidator", Operation: usecase.TagRemove})
		require.NoError(t, err)
		assert.Empty(t, result.Deployment.Tags)
	})

	t.Run("show does not save", func(t *testing.T) {
		repo := &MockDeploymentRepository{}
		resolver := &MockDeploymentResolver{}
		resolver.On("ResolveDeployment", ctx, query).Return(newDeployment(), nil)

		uc := usecase.NewTagDeployment(repo, resolver, usecase.NopProgress{})
		result, err := uc.Run(ctx, usecase.TagDeploymentParams{Reference: "Liquidator", Operation: usecase.TagShow})
		require.NoError(t, err)
		assert.Equal(t, []string{"Liquidator"}, result.Deployment.Tags)
		repo.AssertNotCalled(t, "SaveDeployment", mock.Anything, mock.Anything)
	})

	t.Run("resolver errors are returned", func(t *testing.T) {
		resolver := &MockDeploymentResolver{}
		resolver.On("ResolveDeployment", ctx, query).Return(nil, domain.ErrNotFound)

		uc := usecase.NewTagDeployment(&MockDeploymentRepository{}, resolver, usecase.NopProgress{})
		_, err := uc.Run(ctx, usecase.TagDeploymentParams{Reference: "Liquidator", Tag: "v1", Operation: usecase.TagAdd})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
