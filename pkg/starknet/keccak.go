package starknet

import (
	"github.com/NethermindEth/juno/core/felt"
	"github.com/ethereum/go-ethereum/crypto"
)

// StarknetKeccak is keccak256 truncated to its 250 least significant bits.
func StarknetKeccak(data []byte) *felt.Felt {
	h := crypto.Keccak256(data)
	h[0] &= 0x03
	return new(felt.Felt).SetBytes(h)
}

// Selector returns the entry point selector for a function name.
func Selector(name string) *felt.Felt {
	return StarknetKeccak([]byte(name))
}
