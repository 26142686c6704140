package models

import (
	"fmt"

	"github.com/NethermindEth/juno/core/felt"
)

// FeeToken is the token fees are paid in
type FeeToken string

const (
	FeeTokenETH  FeeToken = "eth"
	FeeTokenSTRK FeeToken = "strk"
)

// ParseFeeToken validates a user supplied fee token
func ParseFeeToken(s string) (FeeToken, error) {
	switch FeeToken(s) {
	case FeeTokenETH, FeeTokenSTRK:
		return FeeToken(s), nil
	case "":
		return FeeTokenETH, nil
	default:
		return "", fmt.Errorf("unsupported fee token %q (expected eth or strk)", s)
	}
}

// TxVersion is a Starknet transaction version
type TxVersion string

const (
	TxVersionV1 TxVersion = "v1"
	TxVersionV2 TxVersion = "v2"
	TxVersionV3 TxVersion = "v3"
)

// TxKind distinguishes declare from invoke transactions for version selection
type TxKind string

const (
	TxKindDeclare TxKind = "declare"
	TxKindInvoke  TxKind = "invoke"
)

// TxOptions are passed to every submission
type TxOptions struct {
	FeeToken FeeToken
	Version  TxVersion
}

// TransactionResult is returned by a submission
type TransactionResult struct {
	TransactionHash *felt.Felt
}

// ReceiptStatus tags the outcome of a confirmed transaction
type ReceiptStatus string

const (
	ReceiptConfirmed ReceiptStatus = "CONFIRMED"
	ReceiptRejected  ReceiptStatus = "REJECTED"
	ReceiptUnknown   ReceiptStatus = "UNKNOWN"
)

// Receipt is the tagged result of waiting for a transaction
type Receipt struct {
	TransactionHash *felt.Felt
	Status          ReceiptStatus
	// Reason carries the revert or rejection reason for ReceiptRejected
	Reason          string
	FinalityStatus  string
	ExecutionStatus string
}
