package app

import (
	"github.com/exactly/liquidator-deploy/internal/domain/config"
	"github.com/exactly/liquidator-deploy/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Use cases
	RunSteps           *usecase.RunSteps
	ListSteps          *usecase.ListSteps
	RegisterDeployment *usecase.RegisterDeployment
	ListDeployments    *usecase.ListDeployments
	ShowDeployment     *usecase.ShowDeployment
	TagDeployment      *usecase.TagDeployment
	ListNetworks       *usecase.ListNetworks
	ShowConfig         *usecase.ShowConfig
	SetConfig          *usecase.SetConfig
	RemoveConfig       *usecase.RemoveConfig
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	runSteps *usecase.RunSteps,
	listSteps *usecase.ListSteps,
	registerDeployment *usecase.RegisterDeployment,
	listDeployments *usecase.ListDeployments,
	showDeployment *usecase.ShowDeployment,
	tagDeployment *usecase.TagDeployment,
	listNetworks *usecase.ListNetworks,
	showConfig *usecase.ShowConfig,
	setConfig *usecase.SetConfig,
	removeConfig *usecase.RemoveConfig,
) (*App, error) {
	return &App{
		Config:             cfg,
		RunSteps:           runSteps,
		ListSteps:          listSteps,
		RegisterDeployment: registerDeployment,
		ListDeployments:    listDeployments,
		ShowDeployment:     showDeployment,
		TagDeployment:      tagDeployment,
		ListNetworks:       listNetworks,
		ShowConfig:         showConfig,
		SetConfig:          setConfig,
		RemoveConfig:       removeConfig,
	}, nil
}
