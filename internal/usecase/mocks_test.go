package usecase

import (
	"context"
	"io"
	"log/slog"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/trebuchet-org/sndeploy/internal/domain"
	"github.com/trebuchet-org/sndeploy/internal/domain/config"
	"github.com/trebuchet-org/sndeploy/internal/domain/models"
	"github.com/trebuchet-org/sndeploy/pkg/starknet"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testNetwork(name string, wait bool) *config.Network {
	return &config.Network{
		Name:                name,
		RPCURL:              "http://127.0.0.1:5050/rpc",
		Account:             "deployer",
		DeployerAddress:     starknet.MustParseFelt("0x64b48806902a367c8598f4f95c305e8c1a1acba5f082d294a43793113115691"),
		WaitForConfirmation: wait,
	}
}

type mockNetworkClient struct {
	getClassByHashFunc     func(ctx context.Context, classHash *felt.Felt) (*models.ClassReference, error)
	declareFunc            func(ctx context.Context, contract *models.CompiledContract, opts models.TxOptions) (*models.TransactionResult, error)
	executeFunc            func(ctx context.Context, calls []starknet.FunctionCall, opts models.TxOptions) (*models.TransactionResult, error)
	waitForTransactionFunc func(ctx context.Context, txHash *felt.Felt) (*models.Receipt, error)
	getContractVersionFunc func(ctx context.Context, address *felt.Felt) (string, error)
	computeAddressFunc     func(deployer, classHash, salt *felt.Felt, args []*felt.Felt, unique bool) *felt.Felt

	declared [][]string
	executed [][]starknet.FunctionCall
	versions []models.TxVersion
}

func (m *mockNetworkClient) GetClassByHash(ctx context.Context, classHash *felt.Felt) (*models.ClassReference, error) {
	if m.getClassByHashFunc != nil {
		return m.getClassByHashFunc(ctx, classHash)
	}
	return nil, domain.ErrClassNotFound
}

func (m *mockNetworkClient) Declare(ctx context.Context, contract *models.CompiledContract, opts models.TxOptions) (*models.TransactionResult, error) {
	m.declared = append(m.declared, []string{contract.Name, string(opts.Version)})
	if m.declareFunc != nil {
		return m.declareFunc(ctx, contract, opts)
	}
	return &models.TransactionResult{TransactionHash: starknet.MustParseFelt("0x1d1")}, nil
}

func (m *mockNetworkClient) Execute(ctx context.Context, calls []starknet.FunctionCall, opts models.TxOptions) (*models.TransactionResult, error) {
	m.executed = append(m.executed, calls)
	m.versions = append(m.versions, opts.Version)
	if m.executeFunc != nil {
		return m.executeFunc(ctx, calls, opts)
	}
	return &models.TransactionResult{TransactionHash: starknet.MustParseFelt("0xe1")}, nil
}

func (m *mockNetworkClient) WaitForTransaction(ctx context.Context, txHash *felt.Felt) (*models.Receipt, error) {
	if m.waitForTransactionFunc != nil {
		return m.waitForTransactionFunc(ctx, txHash)
	}
	return &models.Receipt{TransactionHash: txHash, Status: models.ReceiptConfirmed}, nil
}

func (m *mockNetworkClient) GetContractVersion(ctx context.Context, address *felt.Felt) (string, error) {
	if m.getContractVersionFunc != nil {
		return m.getContractVersionFunc(ctx, address)
	}
	return "1", nil
}

func (m *mockNetworkClient) ComputeAddress(deployer, classHash, salt *felt.Felt, args []*felt.Felt, unique bool) *felt.Felt {
	if m.computeAddressFunc != nil {
		return m.computeAddressFunc(deployer, classHash, salt, args, unique)
	}
	return starknet.UDCDeployedAddress(deployer, classHash, salt, args, unique)
}

type mockClassHasher struct {
	classHashes map[string]string
	legacy      map[string]bool
}

func (m *mockClassHasher) IsSierra(contract *models.CompiledContract) bool {
	return !m.legacy[contract.Name]
}

func (m *mockClassHasher) ClassHash(contract *models.CompiledContract) (*felt.Felt, error) {
	if h, ok := m.classHashes[contract.Name]; ok {
		return starknet.ParseFelt(h)
	}
	return starknet.Selector(contract.Name), nil
}

func (m *mockClassHasher) CompiledClassHash(contract *models.CompiledContract) (*felt.Felt, error) {
	return starknet.Selector("casm:" + contract.Name), nil
}

type mockArtifactRepository struct {
	missing map[string]bool
	loaded  []string
}

func (m *mockArtifactRepository) Locate(ctx context.Context, contract string, artifactType models.ArtifactType) (string, error) {
	if m.missing[contract] {
		return "", &domain.ArtifactNotFoundError{Contract: contract, ArtifactType: string(artifactType), Dir: "contracts/target/dev"}
	}
	return "contracts/target/dev/app_" + contract + "." + string(artifactType) + ".json", nil
}

func (m *mockArtifactRepository) Load(ctx context.Context, contract string) (*models.CompiledContract, error) {
	if _, err := m.Locate(ctx, contract, models.SierraArtifact); err != nil {
		return nil, err
	}
	m.loaded = append(m.loaded, contract)
	return &models.CompiledContract{
		Name:   contract,
		Sierra: []byte(`{"sierra_program":[]}`),
		Casm:   []byte(`{"bytecode":[]}`),
	}, nil
}

type ledgerExport struct {
	network string
	ledger  models.Ledger
	mode    config.LedgerMode
}

type mockLedgerStore struct {
	exportFunc func(ctx context.Context, network string, ledger models.Ledger, mode config.LedgerMode) (string, error)
	exports    []ledgerExport
	stored     map[string]models.Ledger
	loadErr    error
}

func (m *mockLedgerStore) Export(ctx context.Context, network string, ledger models.Ledger, mode config.LedgerMode) (string, error) {
	if m.exportFunc != nil {
		if path, err := m.exportFunc(ctx, network, ledger, mode); err != nil {
			return path, err
		}
	}
	m.exports = append(m.exports, ledgerExport{network: network, ledger: ledger, mode: mode})
	return m.LatestPath(network), nil
}

func (m *mockLedgerStore) LatestPath(network string) string {
	return "deployments/" + network + "_latest.json"
}

func (m *mockLedgerStore) Load(ctx context.Context, network string) (models.Ledger, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if l, ok := m.stored[network]; ok {
		return l, nil
	}
	return models.Ledger{}, nil
}

type planLoad struct {
	path     string
	required bool
}

type mockPlanLoader struct {
	plan  *models.DeploymentPlan
	loads []planLoad
}

func (m *mockPlanLoader) Load(ctx context.Context, path string, required bool) (*models.DeploymentPlan, error) {
	m.loads = append(m.loads, planLoad{path: path, required: required})
	return m.plan, nil
}

type mockConfirmer struct {
	answer bool
	asked  []string
}

func (m *mockConfirmer) Confirm(ctx context.Context, label string) (bool, error) {
	m.asked = append(m.asked, label)
	return m.answer, nil
}

type mockNetworkLister struct {
	networks []*config.Network
}

func (m *mockNetworkLister) ListNetworks(ctx context.Context) ([]*config.Network, error) {
	return m.networks, nil
}

// recordingProgress captures info messages
type recordingProgress struct {
	NopProgress
	infos []string
}

func (r *recordingProgress) Info(message string) {
	r.infos = append(r.infos, message)
}
