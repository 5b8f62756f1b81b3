// Package steps holds the deployment steps of the project.
package steps

import "github.com/exactly/liquidator-deploy/internal/usecase"

// NewRegistry returns a registry with every deployment step of the project
func NewRegistry() *usecase.StepRegistry {
	registry := usecase.NewStepRegistry()
	registry.Add(Liquidator)
	return registry
}
