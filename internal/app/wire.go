//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/sndeploy/internal/adapters"
	"github.com/trebuchet-org/sndeploy/internal/config"
	"github.com/trebuchet-org/sndeploy/internal/logging"
	"github.com/trebuchet-org/sndeploy/internal/usecase"
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
		usecase.NewDeclareContract,
		usecase.NewBuildDeployCall,
		usecase.NewExecuteDeployCalls,
		usecase.NewDeployContracts,
		usecase.NewListNetworks,
		usecase.NewListDeployments,

		// App
		NewApp,
	)
	return nil, nil
}
