package deployments

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/trebuchet-org/sndeploy/internal/domain"
	"github.com/trebuchet-org/sndeploy/internal/domain/config"
	"github.com/trebuchet-org/sndeploy/internal/domain/models"
	"github.com/trebuchet-org/sndeploy/internal/usecase"
)

// LatestSuffix names the current ledger of a network: <network>_latest.json
const LatestSuffix = "_latest.json"

// FileRepository stores deployment ledgers as JSON files, one per network
type FileRepository struct {
	dir string
	now func() time.Time
	log *slog.Logger
	mu  sync.Mutex
}

// NewFileRepository creates a ledger repository in the configured deployments directory
func NewFileRepository(cfg *config.RuntimeConfig, log *slog.Logger) *FileRepository {
	return NewFileRepositoryForDir(cfg.DeploymentsDir, time.Now, log)
}

// NewFileRepositoryForDir creates a ledger repository in dir using now for archive names
func NewFileRepositoryForDir(dir string, now func() time.Time, log *slog.Logger) *FileRepository {
	return &FileRepository{
		dir: dir,
		now: now,
		log: log.With("component", "LedgerRepository"),
	}
}

// LatestPath returns the path of the current ledger of a network
func (r *FileRepository) LatestPath(network string) string {
	return filepath.Join(r.dir, network+LatestSuffix)
}

// Export writes the ledger to <network>_latest.json. In archive mode an existing
// file is first renamed to <network>_<unixMillis>.json.
func (r *FileRepository) Export(ctx context.Context, network string, ledger models.Ledger, mode config.LedgerMode) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	latest := r.LatestPath(network)

	data, err := json.MarshalIndent(ledger, "", "  ")
	if err != nil {
		return "", &domain.LedgerExportError{Path: latest, Op: "encode", Err: err}
	}

	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return "", &domain.LedgerExportError{Path: r.dir, Op: "create directory for", Err: err}
	}

	if mode == config.LedgerArchive {
		archived, err := r.archive(network, latest)
		if err != nil {
			return "", err
		}
		if archived != "" {
			r.log.Info("archived previous deployments", "network", network, "path", archived)
		}
	}

	if err := saveFile(latest, data); err != nil {
		return "", &domain.LedgerExportError{Path: latest, Op: "write", Err: err}
	}

	r.log.Debug("wrote deployments", "network", network, "path", latest, "records", len(ledger))
	return latest, nil
}

// Load reads the current ledger of a network, returning an empty ledger if there is none
func (r *FileRepository) Load(ctx context.Context, network string) (models.Ledger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	latest := r.LatestPath(network)
	data, err := os.ReadFile(latest)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Ledger{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", latest, err)
	}

	ledger := models.Ledger{}
	if err := json.Unmarshal(data, &ledger); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", latest, err)
	}
	return ledger, nil
}

// archive renames latest to a timestamped file. Returns "" when there is nothing to archive.
func (r *FileRepository) archive(network, latest string) (string, error) {
	if _, err := os.Stat(latest); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", &domain.LedgerExportError{Path: latest, Op: "stat", Err: err}
	}

	millis := r.now().UnixMilli()
	archived := filepath.Join(r.dir, fmt.Sprintf("%s_%d.json", network, millis))
	// never clobber an earlier archive written in the same millisecond
	for {
		if _, err := os.Stat(archived); os.IsNotExist(err) {
			break
		}
		millis++
		archived = filepath.Join(r.dir, fmt.Sprintf("%s_%d.json", network, millis))
	}

	if err := os.Rename(latest, archived); err != nil {
		return "", &domain.LedgerExportError{Path: latest, Op: "archive", Err: err}
	}
	return archived, nil
}

// saveFile writes data next to path and renames it into place
func saveFile(path string, data []byte) error {
	// Write to temp file first
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	// Atomic rename
	return os.Rename(tmpPath, path)
}

var _ usecase.LedgerStore = (*FileRepository)(nil)
