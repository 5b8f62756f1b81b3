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

func TestShowDeployment(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves the reference", func(t *testing.T) {
		dep := &models.Deployment{ID: "default/10/Liquidator"}
		resolver := &MockDeploymentResolver{}
		resolver.On("ResolveDeployment", ctx, domain.DeploymentQuery{Reference: "Liquidator", ChainID: 10}).Return(dep, nil)
		sink := &MockProgressSink{}

		got, err := usecase.NewShowDeployment(resolver, sink).Run(ctx, usecase.ShowDeploymentParams{Reference: "Liquidator", ChainID: 10})
		require.NoError(t, err)
		assert.Same(t, dep, got)
		assert.Equal(t, []string{"loading", "complete"}, sink.stages())
	})

	t.Run("requires a reference", func(t *testing.T) {
		resolver := &MockDeploymentResolver{}

		_, err := usecase.NewShowDeployment(resolver, &MockProgressSink{}).Run(ctx, usecase.ShowDeploymentParams{})
		assert.EqualError(t, err, "deployment reference is required")
		resolver.AssertNotCalled(t, "ResolveDeployment", mock.Anything, mock.Anything)
	})

	t.Run("resolver errors are returned", func(t *testing.T) {
		resolver := &MockDeploymentResolver{}
		resolver.On("ResolveDeployment", ctx, mock.Anything).Return(nil, domain.ErrNotFound)

		_, err := usecase.NewShowDeployment(resolver, &MockProgressSink{}).Run(ctx, usecase.ShowDeploymentParams{Reference: "Nope"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestListSteps(t *testing.T) {
	registry := usecase.NewStepRegistry()
	noop := func(context.Context, usecase.StepEnv) error { return nil }
	registry.Add(usecase.Step{ID: "Router", Tags: []string{"UniswapV3Router"}, Run: noop})
	registry.Add(usecase.Step{ID: "Liquidator", Tags: []string{"Liquidator"}, Dependencies: []string{"UniswapV3Router", "VelodromePoolFactory"}, Run: noop})

	result, err := usecase.NewListSteps(registry).Run(context.Background(), usecase.ListStepsParams{Tags: []string{"Liquidator"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Router", "Liquidator"}, result.Plan.IDs())
	assert.Equal(t, []string{"VelodromePoolFactory"}, result.Plan.External)
	assert.Equal(t, 2, result.Registered)

	_, err = usecase.NewListSteps(registry).Run(context.Background(), usecase.ListStepsParams{Tags: []string{"Unknown"}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
