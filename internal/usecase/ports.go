package usecase

import (
	"context"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/trebuchet-org/sndeploy/internal/domain/config"
	"github.com/trebuchet-org/sndeploy/internal/domain/models"
	"github.com/trebuchet-org/sndeploy/pkg/starknet"
)

// ArtifactRepository provides access to compiled contract artifacts
type ArtifactRepository interface {
	// Locate resolves the path of one artifact of a contract
	Locate(ctx context.Context, contract string, artifactType models.ArtifactType) (string, error)
	// Load reads both compiled representations of a contract
	Load(ctx context.Context, contract string) (*models.CompiledContract, error)
}

// ClassHasher derives class identifiers from compiled payloads
type ClassHasher interface {
	IsSierra(contract *models.CompiledContract) bool
	ClassHash(contract *models.CompiledContract) (*felt.Felt, error)
	CompiledClassHash(contract *models.CompiledContract) (*felt.Felt, error)
}

// NetworkClient is the collaborator talking to the Starknet network
type NetworkClient interface {
	// GetClassByHash returns domain.ErrClassNotFound when the class is not declared
	GetClassByHash(ctx context.Context, classHash *felt.Felt) (*models.ClassReference, error)
	Declare(ctx context.Context, contract *models.CompiledContract, opts models.TxOptions) (*models.TransactionResult, error)
	Execute(ctx context.Context, calls []starknet.FunctionCall, opts models.TxOptions) (*models.TransactionResult, error)
	WaitForTransaction(ctx context.Context, txHash *felt.Felt) (*models.Receipt, error)
	// GetContractVersion returns domain.ErrContractNotFound when nothing is deployed at address
	GetContractVersion(ctx context.Context, address *felt.Felt) (string, error)
	ComputeAddress(deployer, classHash, salt *felt.Felt, constructorArgs []*felt.Felt, unique bool) *felt.Felt
}

// LedgerStore persists the deployment ledger of a network
type LedgerStore interface {
	// Export writes the ledger and returns the path of the latest file
	Export(ctx context.Context, network string, ledger models.Ledger, mode config.LedgerMode) (string, error)
	// Load reads the latest ledger, returning an empty ledger when none exists
	Load(ctx context.Context, network string) (models.Ledger, error)
	// LatestPath returns the path Export writes for a network
	LatestPath(network string) string
}

// PlanLoader loads the deployment plan. When required is false a missing
// file yields the built-in plan.
type PlanLoader interface {
	Load(ctx context.Context, path string, required bool) (*models.DeploymentPlan, error)
}

// Confirmer asks the user for a yes/no decision
type Confirmer interface {
	Confirm(ctx context.Context, label string) (bool, error)
}

// NetworkLister lists networks configured for the project
type NetworkLister interface {
	ListNetworks(ctx context.Context) ([]*config.Network, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// Progress stages reported by the deployment use cases
const (
	StageCheckDeployer = "check-deployer"
	StageDeclare       = "declare"
	StageBuildCall     = "build-call"
	StageExecute       = "execute"
	StageExport        = "export"
	StageDone          = "done"
)
