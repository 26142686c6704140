package config

import (
	"time"

	"github.com/NethermindEth/juno/core/felt"
)

// LedgerMode controls what happens to an existing <network>_latest.json on export
type LedgerMode string

const (
	// LedgerOverwrite replaces the previous ledger (--reset)
	LedgerOverwrite LedgerMode = "overwrite"
	// LedgerArchive renames the previous ledger to <network>_<unixMillis>.json first (--no-reset)
	LedgerArchive LedgerMode = "archive"
)

// LedgerModeFromReset maps the reset flag to a ledger mode
func LedgerModeFromReset(reset bool) LedgerMode {
	if reset {
		return LedgerOverwrite
	}
	return LedgerArchive
}

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot    string
	ContractsDir   string
	BuildDir       string
	DeploymentsDir string
	PlanFile       string
	// PlanExplicit is set when the plan path came from a flag, env or snfoundry.toml
	PlanExplicit bool

	// Network is resolved once per invocation and never mutated afterwards.
	// nil for commands that don't target a network.
	Network *Network

	// Execution settings
	FeeToken       string
	LedgerMode     LedgerMode
	Debug          bool
	NonInteractive bool
	Timeout        time.Duration
	PollInterval   time.Duration

	// SncastPath is the sncast binary used for submissions
	SncastPath string

	// Config source tracking
	ConfigSource string // path of snfoundry.toml
}

// Network represents a configured Starknet network and the deployer account on it
type Network struct {
	Name         string `json:"name"`
	RPCURL       string `json:"rpcUrl"`
	Account      string `json:"account"`
	AccountsFile string `json:"accountsFile,omitempty"`

	// DeployerAddress is the account contract sending the transactions
	DeployerAddress *felt.Felt `json:"deployerAddress"`

	// WaitForConfirmation blocks on declare and execute receipts
	WaitForConfirmation bool `json:"waitForConfirmation"`

	// FeeToken overrides the default fee token for this network
	FeeToken string `json:"feeToken,omitempty"`
}

// IsMainnet reports whether deployments on this network need explicit confirmation
func (n *Network) IsMainnet() bool {
	return n.Name == "mainnet"
}
