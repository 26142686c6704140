package models

import (
	"github.com/NethermindEth/juno/core/felt"
	"github.com/trebuchet-org/sndeploy/pkg/starknet"
)

// ClassReference points at code registered on the network
type ClassReference struct {
	ClassHash         *felt.Felt `json:"classHash"`
	CompiledClassHash *felt.Felt `json:"compiledClassHash,omitempty"`

	// Declared is set when this run submitted the declare transaction
	Declared        bool       `json:"declared"`
	TransactionHash *felt.Felt `json:"transactionHash,omitempty"`
}

// DeployCall is a queued UDC deployment. It only lives in the deployment queue.
type DeployCall struct {
	Contract         string
	Salt             *felt.Felt
	ClassHash        *felt.Felt
	ConstructorArgs  []*felt.Felt
	Unique           bool
	Call             starknet.FunctionCall
	PredictedAddress *felt.Felt
}

// DeploymentRecord is one entry of the exported ledger, keyed by logical name
type DeploymentRecord struct {
	ClassHash *felt.Felt `json:"classHash"`
	Address   *felt.Felt `json:"address"`
	Contract  string     `json:"contract"`
}

// Ledger maps logical contract names to their deployment records
type Ledger map[string]*DeploymentRecord
