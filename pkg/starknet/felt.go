// Package starknet contains the client-side Starknet primitives needed to
// declare and deploy contracts: field element parsing, selectors, class
// hashes and Universal Deployer Contract (UDC) address derivation.
package starknet

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/NethermindEth/juno/core/felt"
)

var (
	// Prime is the Stark field modulus 2^251 + 17*2^192 + 1.
	Prime, _ = new(big.Int).SetString("0800000000000011000000000000000000000000000000000000000000000001", 16)

	// addrBound is 2^251 - 256, the exclusive upper bound of contract addresses.
	addrBound = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 251), big.NewInt(256))

	// saltBound keeps random salts inside the 251-bit range used by starknet.js.
	saltBound = new(big.Int).Lsh(big.NewInt(1), 251)

	ErrInvalidFelt       = errors.New("invalid field element")
	ErrShortStringLength = errors.New("short string exceeds 31 bytes")
)

// ParseFelt parses a hex ("0x" prefixed) or decimal field element.
func ParseFelt(s string) (*felt.Felt, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty value", ErrInvalidFelt)
	}

	n := new(big.Int)
	var ok bool
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		_, ok = n.SetString(s[2:], 16)
	} else {
		_, ok = n.SetString(s, 10)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFelt, s)
	}
	if n.Sign() < 0 || n.Cmp(Prime) >= 0 {
		return nil, fmt.Errorf("%w: %q is outside the field", ErrInvalidFelt, s)
	}

	return FeltFromBig(n), nil
}

// MustParseFelt is ParseFelt for constants.
func MustParseFelt(s string) *felt.Felt {
	f, err := ParseFelt(s)
	if err != nil {
		panic(err)
	}
	return f
}

// FeltFromBig converts a non-negative big.Int (< 2^256) into a felt.
func FeltFromBig(n *big.Int) *felt.Felt {
	return new(felt.Felt).SetBytes(n.FillBytes(make([]byte, 32)))
}

// FeltToBig returns the integer value of f.
func FeltToBig(f *felt.Felt) *big.Int {
	b := f.Bytes()
	return new(big.Int).SetBytes(b[:])
}

// FeltFromUint64 returns v as a felt.
func FeltFromUint64(v uint64) *felt.Felt {
	return new(felt.Felt).SetUint64(v)
}

// ShortString encodes an ASCII string of at most 31 bytes as a felt.
func ShortString(s string) (*felt.Felt, error) {
	if len(s) > 31 {
		return nil, fmt.Errorf("%w: %q", ErrShortStringLength, s)
	}
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return nil, fmt.Errorf("%w: %q is not ASCII", ErrInvalidFelt, s)
		}
	}
	return new(felt.Felt).SetBytes([]byte(s)), nil
}

func mustShortString(s string) *felt.Felt {
	f, err := ShortString(s)
	if err != nil {
		panic(err)
	}
	return f
}

// RandomSalt returns a cryptographically random felt below 2^251.
func RandomSalt() (*felt.Felt, error) {
	n, err := rand.Int(rand.Reader, saltBound)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return FeltFromBig(n), nil
}
