package app

import (
	"log/slog"

	"github.com/trebuchet-org/sndeploy/internal/adapters/interactive"
	"github.com/trebuchet-org/sndeploy/internal/config"
	domainconfig "github.com/trebuchet-org/sndeploy/internal/domain/config"
	"github.com/trebuchet-org/sndeploy/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *domainconfig.RuntimeConfig
	Log    *slog.Logger

	// Shared dependencies
	Selector *interactive.SelectorAdapter
	Networks *config.NetworkResolver

	// Use cases
	DeployContracts *usecase.DeployContracts
	ListNetworks    *usecase.ListNetworks
	ListDeployments *usecase.ListDeployments
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *domainconfig.RuntimeConfig,
	log *slog.Logger,
	selector *interactive.SelectorAdapter,
	networks *config.NetworkResolver,
	deployContracts *usecase.DeployContracts,
	listNetworks *usecase.ListNetworks,
	listDeployments *usecase.ListDeployments,
) (*App, error) {
	return &App{
		Config:          cfg,
		Log:             log,
		Selector:        selector,
		Networks:        networks,
		DeployContracts: deployContracts,
		ListNetworks:    listNetworks,
		ListDeployments: listDeployments,
	}, nil
}
