package starknet

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/NethermindEth/juno/core/crypto"
	"github.com/NethermindEth/juno/core/felt"
)

// ErrNotSierra is returned when a class payload has no sierra_program.
var ErrNotSierra = errors.New("payload is not a Sierra contract class")

// SierraEntryPoint is an entry point of a Sierra contract class.
type SierraEntryPoint struct {
	Selector    *felt.Felt `json:"selector"`
	FunctionIdx uint64     `json:"function_idx"`
}

// SierraEntryPoints groups entry points by type.
type SierraEntryPoints struct {
	External    []SierraEntryPoint `json:"EXTERNAL"`
	L1Handler   []SierraEntryPoint `json:"L1_HANDLER"`
	Constructor []SierraEntryPoint `json:"CONSTRUCTOR"`
}

// SierraClass is the subset of a contract_class.json artifact that takes part in the class hash.
type SierraClass struct {
	SierraProgram        []*felt.Felt      `json:"sierra_program"`
	ContractClassVersion string            `json:"contract_class_version"`
	EntryPoints          SierraEntryPoints `json:"entry_points_by_type"`
	ABI                  json.RawMessage   `json:"abi"`
}

// CasmEntryPoint is an entry point of a compiled (CASM) class.
type CasmEntryPoint struct {
	Selector *felt.Felt `json:"selector"`
	Offset   uint64     `json:"offset"`
	Builtins []string   `json:"builtins"`
}

// CasmEntryPoints groups compiled entry points by type.
type CasmEntryPoints struct {
	External    []CasmEntryPoint `json:"EXTERNAL"`
	L1Handler   []CasmEntryPoint `json:"L1_HANDLER"`
	Constructor []CasmEntryPoint `json:"CONSTRUCTOR"`
}

// CasmClass is the subset of a compiled_contract_class.json artifact that takes part in the compiled class hash.
type CasmClass struct {
	Bytecode               []*felt.Felt    `json:"bytecode"`
	BytecodeSegmentLengths json.RawMessage `json:"bytecode_segment_lengths,omitempty"`
	EntryPoints            CasmEntryPoints `json:"entry_points_by_type"`
}

// IsSierra reports whether the raw class payload is a Sierra (Cairo 1+) class.
func IsSierra(raw json.RawMessage) bool {
	var payload struct {
		SierraProgram json.RawMessage `json:"sierra_program"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return false
	}
	return len(payload.SierraProgram) > 0 && !bytes.Equal(payload.SierraProgram, []byte("null"))
}

// ParseSierraClass decodes a contract_class.json payload.
func ParseSierraClass(raw json.RawMessage) (*SierraClass, error) {
	if !IsSierra(raw) {
		return nil, ErrNotSierra
	}
	var class SierraClass
	if err := json.Unmarshal(raw, &class); err != nil {
		return nil, fmt.Errorf("failed to decode sierra class: %w", err)
	}
	if class.ContractClassVersion == "" {
		class.ContractClassVersion = "0.1.0"
	}
	return &class, nil
}

// ParseCasmClass decodes a compiled_contract_class.json payload.
func ParseCasmClass(raw json.RawMessage) (*CasmClass, error) {
	var class CasmClass
	if err := json.Unmarshal(raw, &class); err != nil {
		return nil, fmt.Errorf("failed to decode casm class: %w", err)
	}
	if len(class.Bytecode) == 0 {
		return nil, fmt.Errorf("casm class has no bytecode")
	}
	return &class, nil
}

// SierraClassHash computes the class hash the network assigns to a declared Sierra class.
func SierraClassHash(class *SierraClass) (*felt.Felt, error) {
	abi, err := abiString(class.ABI)
	if err != nil {
		return nil, err
	}

	version, err := ShortString("CONTRACT_CLASS_V" + class.ContractClassVersion)
	if err != nil {
		return nil, err
	}

	return crypto.PoseidonArray(
		version,
		crypto.PoseidonArray(flattenSierraEntryPoints(class.EntryPoints.External)...),
		crypto.PoseidonArray(flattenSierraEntryPoints(class.EntryPoints.L1Handler)...),
		crypto.PoseidonArray(flattenSierraEntryPoints(class.EntryPoints.Constructor)...),
		StarknetKeccak([]byte(abi)),
		crypto.PoseidonArray(class.SierraProgram...),
	), nil
}

// CompiledClassHash computes the compiled class hash committed to in a declare transaction.
func CompiledClassHash(class *CasmClass) (*felt.Felt, error) {
	bytecodeHash, err := hashBytecode(class.Bytecode, class.BytecodeSegmentLengths)
	if err != nil {
		return nil, err
	}

	external, err := hashCasmEntryPoints(class.EntryPoints.External)
	if err != nil {
		return nil, err
	}
	l1Handler, err := hashCasmEntryPoints(class.EntryPoints.L1Handler)
	if err != nil {
		return nil, err
	}
	constructor, err := hashCasmEntryPoints(class.EntryPoints.Constructor)
	if err != nil {
		return nil, err
	}

	return crypto.PoseidonArray(
		mustShortString("COMPILED_CLASS_V1"),
		external,
		l1Handler,
		constructor,
		bytecodeHash,
	), nil
}

func flattenSierraEntryPoints(eps []SierraEntryPoint) []*felt.Felt {
	out := make([]*felt.Felt, 0, len(eps)*2)
	for _, ep := range eps {
		out = append(out, ep.Selector, FeltFromUint64(ep.FunctionIdx))
	}
	return out
}

func hashCasmEntryPoints(eps []CasmEntryPoint) (*felt.Felt, error) {
	out := make([]*felt.Felt, 0, len(eps)*3)
	for _, ep := range eps {
		builtins := make([]*felt.Felt, 0, len(ep.Builtins))
		for _, b := range ep.Builtins {
			f, err := ShortString(b)
			if err != nil {
				return nil, fmt.Errorf("invalid builtin name: %w", err)
			}
			builtins = append(builtins, f)
		}
		out = append(out, ep.Selector, FeltFromUint64(ep.Offset), crypto.PoseidonArray(builtins...))
	}
	return crypto.PoseidonArray(out...), nil
}

// segmentLengths mirrors the NestedIntList of bytecode_segment_lengths.
type segmentLengths struct {
	leaf     int
	children []segmentLengths
	isLeaf   bool
}

func (s *segmentLengths) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &s.leaf); err == nil {
		s.isLeaf = true
		return nil
	}
	return json.Unmarshal(data, &s.children)
}

func hashBytecode(bytecode []*felt.Felt, rawLengths json.RawMessage) (*felt.Felt, error) {
	if len(rawLengths) == 0 || bytes.Equal(rawLengths, []byte("null")) {
		return crypto.PoseidonArray(bytecode...), nil
	}

	var lengths segmentLengths
	if err := json.Unmarshal(rawLengths, &lengths); err != nil {
		return nil, fmt.Errorf("invalid bytecode_segment_lengths: %w", err)
	}

	h, consumed, err := hashSegment(bytecode, lengths)
	if err != nil {
		return nil, err
	}
	if consumed != len(bytecode) {
		return nil, fmt.Errorf("bytecode_segment_lengths cover %d of %d bytecode words", consumed, len(bytecode))
	}
	return h, nil
}

// hashSegment returns the segment hash and the number of words it spans.
func hashSegment(bytecode []*felt.Felt, seg segmentLengths) (*felt.Felt, int, error) {
	if seg.isLeaf {
		if seg.leaf < 0 || seg.leaf > len(bytecode) {
			return nil, 0, fmt.Errorf("bytecode segment length %d out of range", seg.leaf)
		}
		return crypto.PoseidonArray(bytecode[:seg.leaf]...), seg.leaf, nil
	}

	parts := make([]*felt.Felt, 0, len(seg.children)*2)
	offset := 0
	for _, child := range seg.children {
		h, n, err := hashSegment(bytecode[offset:], child)
		if err != nil {
			return nil, 0, err
		}
		parts = append(parts, FeltFromUint64(uint64(n)), h)
		offset += n
	}

	node := FeltToBig(crypto.PoseidonArray(parts...))
	node.Add(node, big.NewInt(1)).Mod(node, Prime)
	return FeltFromBig(node), offset, nil
}

// abiString renders the ABI the way it is submitted with a declare
// transaction: JSON with Python json.dumps separators and ASCII escapes.
func abiString(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString, nil
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return "", fmt.Errorf("invalid abi: %w", err)
	}

	src := compact.Bytes()
	var out bytes.Buffer
	out.Grow(len(src) + len(src)/4)

	inString := false
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case inString && c == '\\':
			out.WriteByte(c)
			if i+1 < len(src) {
				out.WriteByte(src[i+1])
			}
			i += 2
			continue
		case c == '"':
			inString = !inString
			out.WriteByte(c)
		case inString && c >= utf8.RuneSelf:
			r, size := utf8.DecodeRune(src[i:])
			writeEscapedRune(&out, r)
			i += size
			continue
		case !inString && (c == ',' || c == ':'):
			out.WriteByte(c)
			out.WriteByte(' ')
		default:
			out.WriteByte(c)
		}
		i++
	}
	return out.String(), nil
}

func writeEscapedRune(out *bytes.Buffer, r rune) {
	if r > 0xffff {
		r -= 0x10000
		fmt.Fprintf(out, "\\u%04x\\u%04x", 0xd800+(r>>10), 0xdc00+(r&0x3ff))
		return
	}
	fmt.Fprintf(out, "\\u%04x", r)
}
