package usecase

import (
	"context"
	"sort"

	"github.com/trebuchet-org/sndeploy/internal/domain/config"
)

// ListNetworksParams contains parameters for listing networks
type ListNetworksParams struct{}

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
}

// NetworkStatus represents a configured network and the state of its ledger
type NetworkStatus struct {
	Name    string
	Network *config.Network
	// Deployments is the number of records in <name>_latest.json
	Deployments int
	Error       error
}

// ListNetworks is a use case for listing available networks
type ListNetworks struct {
	lister NetworkLister
	ledger LedgerStore
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(lister NetworkLister, ledger LedgerStore) *ListNetworks {
	return &ListNetworks{
		lister: lister,
		ledger: ledger,
	}
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context, params ListNetworksParams) (*ListNetworksResult, error) {
	networks, err := uc.lister.ListNetworks(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(networks, func(i, j int) bool {
		return networks[i].Name < networks[j].Name
	})

	statuses := make([]NetworkStatus, 0, len(networks))
	for _, network := range networks {
		status := NetworkStatus{
			Name:    network.Name,
			Network: network,
		}

		ledger, err := uc.ledger.Load(ctx, network.Name)
		if err != nil {
			status.Error = err
		} else {
			status.Deployments = len(ledger)
		}

		statuses = append(statuses, status)
	}

	return &ListNetworksResult{
		Networks: statuses,
	}, nil
}
