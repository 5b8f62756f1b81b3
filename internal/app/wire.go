//go:build wireinject
// +build wireinject

package app

import (
	"github.com/exactly/liquidator-deploy/internal/adapters"
	"github.com/exactly/liquidator-deploy/internal/config"
	"github.com/exactly/liquidator-deploy/internal/logging"
	"github.com/exactly/liquidator-deploy/internal/usecase"
	"github.com/google/wire"
	"github.com/spf13/viper"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewRunSteps,
		usecase.NewListSteps,
		usecase.NewRegisterDeployment,
		usecase.NewListDeployments,
		usecase.NewShowDeployment,
		usecase.NewTagDeployment,
		usecase.NewListNetworks,
		usecase.NewShowConfig,
		usecase.NewSetConfig,
		usecase.NewRemoveConfig,

		// App
		NewApp,
	)
	return nil, nil
}
