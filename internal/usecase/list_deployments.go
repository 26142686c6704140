package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/trebuchet-org/sndeploy/internal/domain/config"
	"github.com/trebuchet-org/sndeploy/internal/domain/models"
)

// ListDeploymentsParams contains parameters for listing deployments
type ListDeploymentsParams struct {
	// Contract keeps only records of this contract
	Contract string
}

// DeploymentEntry is one record of the ledger under its logical name
type DeploymentEntry struct {
	Name   string
	Record *models.DeploymentRecord
}

// DeploymentSummary contains summary statistics
type DeploymentSummary struct {
	Total      int
	ByContract map[string]int
}

// DeploymentListResult contains the deployments of a network
type DeploymentListResult struct {
	Network     string
	Deployments []DeploymentEntry
	Summary     DeploymentSummary
}

// ListDeployments is the use case for listing the ledger of the selected network
type ListDeployments struct {
	config *config.RuntimeConfig
	store  LedgerStore
	sink   ProgressSink
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(cfg *config.RuntimeConfig, store LedgerStore, sink ProgressSink) *ListDeployments {
	return &ListDeployments{
		config: cfg,
		store:  store,
		sink:   sink,
	}
}

// Run executes the list deployments use case
func (uc *ListDeployments) Run(ctx context.Context, params ListDeploymentsParams) (*DeploymentListResult, error) {
	if uc.config.Network == nil {
		return nil, fmt.Errorf("no network selected")
	}
	network := uc.config.Network.Name

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: fmt.Sprintf("Loading %s_latest.json", network),
		Spinner: true,
	})

	ledger, err := uc.store.Load(ctx, network)
	if err != nil {
		return nil, err
	}

	entries := make([]DeploymentEntry, 0, len(ledger))
	for name, record := range ledger {
		if params.Contract != "" && record.Contract != params.Contract {
			continue
		}
		entries = append(entries, DeploymentEntry{Name: name, Record: record})
	}
	sortDeployments(entries)

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   StageDone,
		Current: len(entries),
		Total:   len(entries),
		Message: "Deployments loaded",
	})

	return &DeploymentListResult{
		Network:     network,
		Deployments: entries,
		Summary:     calculateSummary(entries),
	}, nil
}

// sortDeployments sorts entries by contract, then by name
func sortDeployments(entries []DeploymentEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Record.Contract != entries[j].Record.Contract {
			return entries[i].Record.Contract < entries[j].Record.Contract
		}
		return entries[i].Name < entries[j].Name
	})
}

func calculateSummary(entries []DeploymentEntry) DeploymentSummary {
	summary := DeploymentSummary{
		Total:      len(entries),
		ByContract: make(map[string]int),
	}
	for _, entry := range entries {
		summary.ByContract[entry.Record.Contract]++
	}
	return summary
}
