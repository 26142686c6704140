package contracts

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/sndeploy/internal/domain"
	"github.com/trebuchet-org/sndeploy/internal/domain/config"
	"github.com/trebuchet-org/sndeploy/internal/domain/models"
	"github.com/trebuchet-org/sndeploy/internal/usecase"
)

const maxSuggestions = 3

// Repository locates compiled Scarb artifacts in the build directory.
// Scarb names them <package>_<Contract>.<contract_class|compiled_contract_class>.json.
type Repository struct {
	buildDir string
	log      *slog.Logger
}

// NewRepository creates a new artifact repository
func NewRepository(cfg *config.RuntimeConfig, log *slog.Logger) *Repository {
	return NewRepositoryForDir(cfg.BuildDir, log)
}

// NewRepositoryForDir creates a repository reading from buildDir
func NewRepositoryForDir(buildDir string, log *slog.Logger) *Repository {
	return &Repository{
		buildDir: buildDir,
		log:      log.With("component", "ArtifactRepository"),
	}
}

// Locate returns the path of the artifact for contract. When several files match,
// the lexicographically first one is used.
func (r *Repository) Locate(ctx context.Context, contract string, artifactType models.ArtifactType) (string, error) {
	entries, err := os.ReadDir(r.buildDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &domain.ArtifactNotFoundError{
				Contract:     contract,
				ArtifactType: string(artifactType),
				Dir:          r.buildDir,
			}
		}
		return "", fmt.Errorf("failed to read build directory %s: %w", r.buildDir, err)
	}

	suffix := "." + string(artifactType) + ".json"
	// os.ReadDir returns entries sorted by filename
	files := lo.FilterMap(entries, func(e os.DirEntry, _ int) (string, bool) {
		return e.Name(), !e.IsDir() && strings.HasSuffix(e.Name(), suffix)
	})

	matches := lo.Filter(files, func(name string, _ int) bool {
		return matchesContract(name, contract, suffix)
	})

	switch len(matches) {
	case 0:
		return "", &domain.ArtifactNotFoundError{
			Contract:     contract,
			ArtifactType: string(artifactType),
			Dir:          r.buildDir,
			Suggestions:  suggest(contract, files, suffix),
		}
	case 1:
	default:
		r.log.Warn("multiple artifacts match contract, using the first one",
			"contract", contract,
			"type", artifactType,
			"matches", matches,
		)
	}

	return filepath.Join(r.buildDir, matches[0]), nil
}

// Load reads the Sierra and CASM artifacts of a contract
func (r *Repository) Load(ctx context.Context, contract string) (*models.CompiledContract, error) {
	sierraPath, err := r.Locate(ctx, contract, models.SierraArtifact)
	if err != nil {
		return nil, err
	}
	casmPath, err := r.Locate(ctx, contract, models.CasmArtifact)
	if err != nil {
		return nil, err
	}

	sierra, err := readJSON(sierraPath)
	if err != nil {
		return nil, err
	}
	casm, err := readJSON(casmPath)
	if err != nil {
		return nil, err
	}

	r.log.Debug("loaded contract artifacts", "contract", contract, "sierra", sierraPath, "casm", casmPath)
	return &models.CompiledContract{
		Name:       contract,
		SierraPath: sierraPath,
		CasmPath:   casmPath,
		Sierra:     sierra,
		Casm:       casm,
	}, nil
}

// matchesContract reports whether file is the artifact of contract, either
// unprefixed or prefixed with the package name and an underscore.
func matchesContract(file, contract, suffix string) bool {
	stem, ok := strings.CutSuffix(file, suffix)
	if !ok {
		return false
	}
	if stem == contract {
		return true
	}
	return strings.HasSuffix(stem, "_"+contract)
}

// suggest returns the closest artifact names for the "did you mean" hint
func suggest(contract string, files []string, suffix string) []string {
	names := lo.Uniq(lo.Map(files, func(file string, _ int) string {
		stem := strings.TrimSuffix(file, suffix)
		if i := strings.Index(stem, "_"); i >= 0 && i < len(stem)-1 {
			return stem[i+1:]
		}
		return stem
	}))

	matches := fuzzy.Find(strings.ToLower(contract), lo.Map(names, func(n string, _ int) string {
		return strings.ToLower(n)
	}))
	out := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, names[m.Index])
	}
	return out
}

func readJSON(path string) (json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("artifact %s is not valid JSON", path)
	}
	return json.RawMessage(data), nil
}

var _ usecase.ArtifactRepository = (*Repository)(nil)
