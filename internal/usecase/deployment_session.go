package usecase

import (
	"context"
	"errors"
	"sort"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/samber/lo"
	"github.com/trebuchet-org/sndeploy/internal/domain"
	"github.com/trebuchet-org/sndeploy/internal/domain/config"
	"github.com/trebuchet-org/sndeploy/internal/domain/models"
)

// DeploymentQueue is the ordered buffer of deploy calls waiting for execution
type DeploymentQueue struct {
	calls []*models.DeployCall
}

// Enqueue appends a call to the end of the queue
func (q *DeploymentQueue) Enqueue(call *models.DeployCall) {
	q.calls = append(q.calls, call)
}

// Len returns the number of pending calls
func (q *DeploymentQueue) Len() int {
	return len(q.calls)
}

// Calls returns a copy of the pending calls in order
func (q *DeploymentQueue) Calls() []*models.DeployCall {
	out := make([]*models.DeployCall, len(q.calls))
	copy(out, q.calls)
	return out
}

// Drain empties the queue and returns what it held
func (q *DeploymentQueue) Drain() []*models.DeployCall {
	calls := q.calls
	q.calls = nil
	return calls
}

// DeploymentLedger accumulates deployment records for a run and exports them.
// The previous ledger is archived at most once per run, on the first export.
type DeploymentLedger struct {
	store   LedgerStore
	network string
	mode    config.LedgerMode

	records  models.Ledger
	exported bool
	path     string
}

// NewDeploymentLedger creates an empty ledger for a network
func NewDeploymentLedger(store LedgerStore, network string, mode config.LedgerMode) *DeploymentLedger {
	return &DeploymentLedger{
		store:   store,
		network: network,
		mode:    mode,
		records: make(models.Ledger),
	}
}

// Record adds or replaces the entry for a logical name
func (l *DeploymentLedger) Record(name string, classHash, address *felt.Felt, contract string) {
	l.records[name] = &models.DeploymentRecord{
		ClassHash: classHash,
		Address:   address,
		Contract:  contract,
	}
}

// Get returns the record for a logical name
func (l *DeploymentLedger) Get(name string) (*models.DeploymentRecord, bool) {
	r, ok := l.records[name]
	return r, ok
}

// Names returns the recorded logical names sorted
func (l *DeploymentLedger) Names() []string {
	names := make([]string, 0, len(l.records))
	for name := range l.records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of records
func (l *DeploymentLedger) Len() int {
	return len(l.records)
}

// Snapshot returns a copy of the records
func (l *DeploymentLedger) Snapshot() models.Ledger {
	out := make(models.Ledger, len(l.records))
	for name, r := range l.records {
		rec := *r
		out[name] = &rec
	}
	return out
}

// Path returns the path written by the last export
func (l *DeploymentLedger) Path() string {
	return l.path
}

// Export persists the cumulative ledger. A failed write leaves the previous file intact.
func (l *DeploymentLedger) Export(ctx context.Context) (string, error) {
	mode := l.mode
	if l.exported {
		// the prior run's file was already archived, later exports replace our own file
		mode = config.LedgerOverwrite
	}

	path, err := l.store.Export(ctx, l.network, l.Snapshot(), mode)
	if err != nil {
		var exportErr *domain.LedgerExportError
		if errors.As(err, &exportErr) {
			return "", err
		}
		return "", &domain.LedgerExportError{Path: lo.CoalesceOrEmpty(path, l.store.LatestPath(l.network)), Op: "export", Err: err}
	}

	l.exported = true
	l.path = path
	return path, nil
}

// DeploymentSession carries the mutable state of one deployment run
type DeploymentSession struct {
	Network *config.Network
	Queue   *DeploymentQueue
	Ledger  *DeploymentLedger
}

// NewDeploymentSession creates an isolated session for a run
func NewDeploymentSession(network *config.Network, ledger *DeploymentLedger) *DeploymentSession {
	return &DeploymentSession{
		Network: network,
		Queue:   &DeploymentQueue{},
		Ledger:  ledger,
	}
}
