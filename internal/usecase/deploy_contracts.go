package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/trebuchet-org/sndeploy/internal/domain"
	"github.com/trebuchet-org/sndeploy/internal/domain/config"
	"github.com/trebuchet-org/sndeploy/internal/domain/models"
)

// DeployContractsParams contains parameters for a deployment run
type DeployContractsParams struct {
	// PlanFile overrides the configured plan path
	PlanFile string
	// FeeToken overrides the configured fee token
	FeeToken string
}

// DeployedContract is one contract deployed by the run
type DeployedContract struct {
	Name      string
	Contract  string
	ClassHash *felt.Felt
	Address   *felt.Felt
	Declared  bool
}

// FamilyResult is the outcome of one family
type FamilyResult struct {
	Name              string
	Contracts         []*DeployedContract
	TransactionHashes []*felt.Felt
}

// DeployContractsResult contains the result of a deployment run
type DeployContractsResult struct {
	Network    *config.Network
	FeeToken   models.FeeToken
	LedgerMode config.LedgerMode
	LedgerPath string
	Ledger     models.Ledger
	Families   []*FamilyResult
}

// DeployContracts runs a deployment plan against the selected network.
// Each family is declared, queued, executed and exported before the next one starts.
type DeployContracts struct {
	config    *config.RuntimeConfig
	artifacts ArtifactRepository
	plans     PlanLoader
	network   NetworkClient
	ledger    LedgerStore
	declare   *DeclareContract
	builder   *BuildDeployCall
	executor  *ExecuteDeployCalls
	confirmer Confirmer
	progress  ProgressSink
	log       *slog.Logger
}

// NewDeployContracts creates a new DeployContracts use case
func NewDeployContracts(
	cfg *config.RuntimeConfig,
	artifacts ArtifactRepository,
	plans PlanLoader,
	network NetworkClient,
	ledger LedgerStore,
	declare *DeclareContract,
	builder *BuildDeployCall,
	executor *ExecuteDeployCalls,
	confirmer Confirmer,
	progress ProgressSink,
	log *slog.Logger,
) *DeployContracts {
	return &DeployContracts{
		config:    cfg,
		artifacts: artifacts,
		plans:     plans,
		network:   network,
		ledger:    ledger,
		declare:   declare,
		builder:   builder,
		executor:  executor,
		confirmer: confirmer,
		progress:  progress,
		log:       log.With("component", "DeployContracts"),
	}
}

// Run executes the deployment plan. Any error aborts the run; families after
// a failed one are neither executed nor exported.
func (uc *DeployContracts) Run(ctx context.Context, params DeployContractsParams) (*DeployContractsResult, error) {
	network := uc.config.Network
	if network == nil {
		return nil, fmt.Errorf("network is required for deploy")
	}

	feeToken, err := uc.resolveFeeToken(params)
	if err != nil {
		return nil, err
	}

	planFile, required := params.PlanFile, true
	if planFile == "" {
		planFile, required = uc.config.PlanFile, uc.config.PlanExplicit
	}
	plan, err := uc.plans.Load(ctx, planFile, required)
	if err != nil {
		return nil, fmt.Errorf("failed to load deployment plan: %w", err)
	}

	mode := uc.config.LedgerMode
	if mode == "" {
		mode = config.LedgerOverwrite
	}
	uc.log.Info("starting deployment",
		"network", network.Name,
		"deployer", network.DeployerAddress,
		"feeToken", feeToken,
		"ledgerMode", mode,
		"families", len(plan.Families),
	)

	if network.IsMainnet() && !uc.config.NonInteractive {
		ok, err := uc.confirmer.Confirm(ctx, fmt.Sprintf("Deploy %d contract families to %s", len(plan.Families), network.Name))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrAborted
		}
	}

	if err := uc.checkDeployer(ctx, network); err != nil {
		return nil, err
	}

	session := NewDeploymentSession(network, NewDeploymentLedger(uc.ledger, network.Name, mode))
	result := &DeployContractsResult{
		Network:    network,
		FeeToken:   feeToken,
		LedgerMode: mode,
	}

	for _, family := range plan.Families {
		familyResult, err := uc.deployFamily(ctx, session, family, feeToken)
		if err != nil {
			return nil, err
		}
		result.Families = append(result.Families, familyResult)
	}

	result.LedgerPath = session.Ledger.Path()
	result.Ledger = session.Ledger.Snapshot()

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageDone,
		Message: "All Contracts Setup Complete",
	})
	return result, nil
}

func (uc *DeployContracts) deployFamily(
	ctx context.Context,
	session *DeploymentSession,
	family *models.Family,
	feeToken models.FeeToken,
) (*FamilyResult, error) {
	uc.log.Info("deploying family", "family", family.Name, "contracts", len(family.Contracts))

	familyResult := &FamilyResult{Name: family.Name}
	for i, spec := range family.Contracts {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StageBuildCall,
			Current: i + 1,
			Total:   len(family.Contracts),
			Message: fmt.Sprintf("Deploying %s", spec.LogicalName()),
		})

		deployed, err := uc.prepareContract(ctx, session, spec, feeToken)
		if err != nil {
			return nil, err
		}
		familyResult.Contracts = append(familyResult.Contracts, deployed)
	}

	executed, err := uc.executor.ExecuteAll(ctx, session, ExecuteOptions{FeeToken: feeToken})
	if err != nil {
		return nil, err
	}
	familyResult.TransactionHashes = executed.TransactionHashes

	for _, deployed := range familyResult.Contracts {
		session.Ledger.Record(deployed.Name, deployed.ClassHash, deployed.Address, deployed.Contract)
		uc.progress.Info(fmt.Sprintf("%s Deployed at %s", deployed.Name, deployed.Address))
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageExport,
		Message: fmt.Sprintf("Exporting %s deployments", session.Network.Name),
	})
	path, err := session.Ledger.Export(ctx)
	if err != nil {
		return nil, err
	}
	uc.log.Info("exported deployments", "family", family.Name, "path", path, "records", session.Ledger.Len())

	return familyResult, nil
}

// prepareContract locates, declares and queues one contract
func (uc *DeployContracts) prepareContract(
	ctx context.Context,
	session *DeploymentSession,
	spec *models.ContractSpec,
	feeToken models.FeeToken,
) (*DeployedContract, error) {
	name := spec.LogicalName()

	compiled, err := uc.artifacts.Load(ctx, spec.Contract)
	if err != nil {
		return nil, err
	}

	classRef, err := uc.declare.DeclareIfAbsent(ctx, session.Network, compiled, DeclareOptions{FeeToken: feeToken})
	if err != nil {
		return nil, err
	}

	args, err := ResolveConstructorArgs(spec.ConstructorArgs, session.Network.DeployerAddress)
	if err != nil {
		return nil, &domain.InvalidCallError{Contract: name, Err: err}
	}
	salt, err := ResolveSalt(spec.Salt)
	if err != nil {
		return nil, &domain.InvalidCallError{Contract: name, Err: err}
	}

	call, err := uc.builder.BuildCall(session, BuildCallParams{
		Contract:        spec.Contract,
		ClassHash:       classRef.ClassHash,
		Salt:            salt,
		ConstructorArgs: args,
		Unique:          spec.IsUnique(),
	})
	if err != nil {
		return nil, err
	}

	return &DeployedContract{
		Name:      name,
		Contract:  spec.Contract,
		ClassHash: classRef.ClassHash,
		Address:   call.PredictedAddress,
		Declared:  classRef.Declared,
	}, nil
}

// checkDeployer makes sure the deployer account exists on the network
func (uc *DeployContracts) checkDeployer(ctx context.Context, network *config.Network) error {
	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageCheckDeployer,
		Message: "Checking deployer account",
		Spinner: true,
	})

	address := ""
	if network.DeployerAddress != nil {
		address = network.DeployerAddress.String()
	}
	if network.DeployerAddress == nil {
		return &domain.InvalidDeployerStateError{Network: network.Name, Address: address, Err: domain.ErrContractNotFound}
	}

	version, err := uc.network.GetContractVersion(ctx, network.DeployerAddress)
	if err != nil {
		if errors.Is(err, domain.ErrContractNotFound) {
			return &domain.InvalidDeployerStateError{Network: network.Name, Address: address, Err: err}
		}
		return fmt.Errorf("failed to check deployer account %s on %s: %w", address, network.Name, err)
	}

	uc.log.Debug("deployer account found", "address", address, "cairoVersion", version)
	return nil
}

func (uc *DeployContracts) resolveFeeToken(params DeployContractsParams) (models.FeeToken, error) {
	raw := params.FeeToken
	if raw == "" && uc.config.Network != nil {
		raw = uc.config.Network.FeeToken
	}
	if raw == "" {
		raw = uc.config.FeeToken
	}
	return models.ParseFeeToken(raw)
}
