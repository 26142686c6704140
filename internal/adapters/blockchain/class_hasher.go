package blockchain

import (
	"fmt"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/trebuchet-org/sndeploy/internal/domain"
	"github.com/trebuchet-org/sndeploy/internal/domain/models"
	"github.com/trebuchet-org/sndeploy/internal/usecase"
	"github.com/trebuchet-org/sndeploy/pkg/starknet"
)

// ClassHasher computes class hashes from Scarb artifacts
type ClassHasher struct{}

// NewClassHasher creates a new class hasher
func NewClassHasher() *ClassHasher {
	return &ClassHasher{}
}

// IsSierra reports whether the contract was compiled to Sierra
func (h *ClassHasher) IsSierra(contract *models.CompiledContract) bool {
	return starknet.IsSierra(contract.Sierra)
}

// ClassHash returns the Sierra class hash of the contract
func (h *ClassHasher) ClassHash(contract *models.CompiledContract) (*felt.Felt, error) {
	if !h.IsSierra(contract) {
		return nil, domain.ErrLegacyClass
	}
	class, err := starknet.ParseSierraClass(contract.Sierra)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", contract.SierraPath, err)
	}
	return starknet.SierraClassHash(class)
}

// CompiledClassHash returns the CASM class hash committed to by a declare
func (h *ClassHasher) CompiledClassHash(contract *models.CompiledContract) (*felt.Felt, error) {
	class, err := starknet.ParseCasmClass(contract.Casm)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", contract.CasmPath, err)
	}
	return starknet.CompiledClassHash(class)
}

var _ usecase.ClassHasher = (*ClassHasher)(nil)
