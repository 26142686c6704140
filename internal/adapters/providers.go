package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/sndeploy/internal/adapters/blockchain"
	"github.com/trebuchet-org/sndeploy/internal/adapters/interactive"
	"github.com/trebuchet-org/sndeploy/internal/adapters/parser"
	"github.com/trebuchet-org/sndeploy/internal/adapters/repository/contracts"
	"github.com/trebuchet-org/sndeploy/internal/adapters/repository/deployments"
	"github.com/trebuchet-org/sndeploy/internal/adapters/sncast"
	"github.com/trebuchet-org/sndeploy/internal/config"
	"github.com/trebuchet-org/sndeploy/internal/usecase"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	contracts.NewRepository,
	wire.Bind(new(usecase.ArtifactRepository), new(*contracts.Repository)),

	deployments.NewFileRepository,
	wire.Bind(new(usecase.LedgerStore), new(*deployments.FileRepository)),

	parser.NewPlanParser,
	wire.Bind(new(usecase.PlanLoader), new(*parser.PlanParser)),
)

// BlockchainSet provides JSON-RPC reads and sncast submissions
var BlockchainSet = wire.NewSet(
	blockchain.NewRPCClient,
	blockchain.NewClassHasher,
	wire.Bind(new(usecase.ClassHasher), new(*blockchain.ClassHasher)),

	sncast.NewSncastAdapter,
	wire.Bind(new(blockchain.Submitter), new(*sncast.SncastAdapter)),

	blockchain.NewNetworkClient,
	wire.Bind(new(usecase.NetworkClient), new(*blockchain.NetworkClient)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.SelectorAdapter)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	config.ProvideNetworkResolver,
	wire.Bind(new(usecase.NetworkLister), new(*config.NetworkResolver)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	BlockchainSet,
	InteractiveSet,
	ConfigSet,
)
