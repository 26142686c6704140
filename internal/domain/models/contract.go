package models

import (
	"encoding/json"
)

// ArtifactType identifies one of the two files Scarb emits per contract
type ArtifactType string

const (
	// SierraArtifact is <name>.contract_class.json
	SierraArtifact ArtifactType = "contract_class"
	// CasmArtifact is <name>.compiled_contract_class.json
	CasmArtifact ArtifactType = "compiled_contract_class"
)

// CompiledContract is the pair of compiled representations of one contract.
// It is immutable once loaded.
type CompiledContract struct {
	Name       string          `json:"name"`
	SierraPath string          `json:"sierraPath"`
	CasmPath   string          `json:"casmPath"`
	Sierra     json.RawMessage `json:"-"`
	Casm       json.RawMessage `json:"-"`
}
