package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrClassNotFound is returned by the network when a class hash is not declared
	ErrClassNotFound = errors.New("class hash not found")

	// ErrContractNotFound is returned by the network when no contract is deployed at an address
	ErrContractNotFound = errors.New("contract not found")

	// ErrTransactionNotFound is returned while a submitted transaction is not yet known to the node
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrNoCallsQueued is returned when the batch executor runs on an empty queue
	ErrNoCallsQueued = errors.New("no contract to deploy, prepare the contracts before executing deploy calls")

	// ErrLegacyClass is returned for Cairo 0 payloads, whose class hash cannot be derived locally
	ErrLegacyClass = errors.New("legacy (Cairo 0) contract classes are not supported")

	// ErrInvalidArgument is returned for malformed constructor arguments, salts or paths
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAborted is returned when the user declines a confirmation prompt
	ErrAborted = errors.New("aborted by user")
)

// ArtifactNotFoundError is returned when a compiled artifact cannot be located.
type ArtifactNotFoundError struct {
	Contract     string
	ArtifactType string
	Dir          string
	Suggestions  []string
}

func (e *ArtifactNotFoundError) Error() string {
	msg := fmt.Sprintf("could not find %s file for contract %q in %s. Try removing the contracts target directory, then recompile",
		e.ArtifactType, e.Contract, e.Dir)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean: %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e *ArtifactNotFoundError) Unwrap() error {
	return ErrNotFound
}

// ClassResolutionError is returned when checking a class on the network fails
// for a reason other than the class being absent.
type ClassResolutionError struct {
	Contract  string
	ClassHash string
	Network   string
	Err       error
}

func (e *ClassResolutionError) Error() string {
	return fmt.Sprintf("failed to resolve class %s for %s on %s: %v", e.ClassHash, e.Contract, e.Network, e.Err)
}

func (e *ClassResolutionError) Unwrap() error {
	return e.Err
}

// DeclareFailedError is returned when a declare transaction cannot be submitted or is rejected.
type DeclareFailedError struct {
	Contract string
	Network  string
	Err      error
}

func (e *DeclareFailedError) Error() string {
	return fmt.Sprintf("error declaring contract %s on %s: %v", e.Contract, e.Network, e.Err)
}

func (e *DeclareFailedError) Unwrap() error {
	return e.Err
}

// InvalidDeployerStateError is returned when the deployer account does not exist on the network.
type InvalidDeployerStateError struct {
	Network string
	Address string
	Err     error
}

func (e *InvalidDeployerStateError) Error() string {
	return fmt.Sprintf("The wallet you're using to deploy the contract is not deployed in the %s network (account %s)", e.Network, e.Address)
}

func (e *InvalidDeployerStateError) Unwrap() error {
	return e.Err
}

// DeploymentRejectedError is returned when a confirmed transaction was rejected or reverted.
type DeploymentRejectedError struct {
	TransactionHash string
	Reason          string
}

func (e *DeploymentRejectedError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "Unknown error"
	}
	return fmt.Sprintf("Deploy Failed: %s (transaction %s)", reason, e.TransactionHash)
}

// InvalidCallError is returned when a deploy call cannot be built from its inputs.
type InvalidCallError struct {
	Contract string
	Err      error
}

func (e *InvalidCallError) Error() string {
	return fmt.Sprintf("invalid deploy call for %s: %v", e.Contract, e.Err)
}

func (e *InvalidCallError) Unwrap() error {
	return e.Err
}

// LedgerExportError is returned when the deployment ledger cannot be persisted.
type LedgerExportError struct {
	Path string
	Op   string
	Err  error
}

func (e *LedgerExportError) Error() string {
	return fmt.Sprintf("failed to %s deployment ledger %s: %v", e.Op, e.Path, e.Err)
}

func (e *LedgerExportError) Unwrap() error {
	return e.Err
}
