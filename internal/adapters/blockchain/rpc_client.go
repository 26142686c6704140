package blockchain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/sndeploy/internal/domain"
	"github.com/trebuchet-org/sndeploy/internal/domain/config"
	"github.com/trebuchet-org/sndeploy/internal/domain/models"
)

// Starknet JSON-RPC error codes
const (
	codeContractNotFound  = 20
	codeClassHashNotFound = 28
	codeTxHashNotFound    = 29
)

const (
	blockLatest         = "latest"
	defaultPollInterval = 5 * time.Second
	httpTimeout         = 30 * time.Second
)

// Finality and execution statuses reported in receipts
const (
	finalityAcceptedOnL2 = "ACCEPTED_ON_L2"
	finalityAcceptedOnL1 = "ACCEPTED_ON_L1"
	finalityRejected     = "REJECTED"
	executionSucceeded   = "SUCCEEDED"
	executionReverted    = "REVERTED"
)

// RPCClient reads chain state over the Starknet JSON-RPC API
type RPCClient struct {
	url          string
	pollInterval time.Duration
	log          *slog.Logger

	mu     sync.Mutex
	client *rpc.Client
}

// NewRPCClient creates a client for the selected network. The connection is opened on first use.
func NewRPCClient(cfg *config.RuntimeConfig, log *slog.Logger) *RPCClient {
	url := ""
	if cfg.Network != nil {
		url = cfg.Network.RPCURL
	}
	return NewRPCClientForURL(url, cfg.PollInterval, log)
}

// NewRPCClientForURL creates a client for an explicit endpoint
func NewRPCClientForURL(url string, pollInterval time.Duration, log *slog.Logger) *RPCClient {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &RPCClient{
		url:          url,
		pollInterval: pollInterval,
		log:          log.With("component", "RPCClient"),
	}
}

func (c *RPCClient) connect(ctx context.Context) (*rpc.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}
	if c.url == "" {
		return nil, fmt.Errorf("no RPC URL configured for the selected network")
	}

	client, err := rpc.DialOptions(ctx, c.url, rpc.WithHTTPClient(&http.Client{Timeout: httpTimeout}))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC %s: %w", c.url, err)
	}
	c.client = client
	return client, nil
}

func (c *RPCClient) call(ctx context.Context, result any, method string, args ...any) error {
	client, err := c.connect(ctx)
	if err != nil {
		return err
	}
	c.log.Debug("rpc call", "method", method)
	return client.CallContext(ctx, result, method, args...)
}

// Close releases the underlying connection
func (c *RPCClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		c.client.Close()
		c.client = nil
	}
}

// GetClassByHash returns domain.ErrClassNotFound when the class is not declared
func (c *RPCClient) GetClassByHash(ctx context.Context, classHash *felt.Felt) (*models.ClassReference, error) {
	var class json.RawMessage
	if err := c.call(ctx, &class, "starknet_getClass", blockLatest, classHash); err != nil {
		if hasErrorCode(err, codeClassHashNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrClassNotFound, classHash)
		}
		return nil, fmt.Errorf("starknet_getClass %s: %w", classHash, err)
	}
	return &models.ClassReference{ClassHash: classHash}, nil
}

// GetContractVersion returns the Cairo version of the contract deployed at address
func (c *RPCClient) GetContractVersion(ctx context.Context, address *felt.Felt) (string, error) {
	var classHash felt.Felt
	if err := c.call(ctx, &classHash, "starknet_getClassHashAt", blockLatest, address); err != nil {
		if hasErrorCode(err, codeContractNotFound) {
			return "", fmt.Errorf("%w: %s", domain.ErrContractNotFound, address)
		}
		return "", fmt.Errorf("starknet_getClassHashAt %s: %w", address, err)
	}

	var class struct {
		SierraProgram        json.RawMessage `json:"sierra_program"`
		ContractClassVersion string          `json:"contract_class_version"`
	}
	if err := c.call(ctx, &class, "starknet_getClass", blockLatest, &classHash); err != nil {
		return "", fmt.Errorf("starknet_getClass %s: %w", &classHash, err)
	}

	if len(class.SierraProgram) == 0 {
		return "0", nil
	}
	return "1", nil
}

type rpcReceipt struct {
	TransactionHash *felt.Felt `json:"transaction_hash"`
	FinalityStatus  string     `json:"finality_status"`
	ExecutionStatus string     `json:"execution_status"`
	RevertReason    string     `json:"revert_reason"`
	// pre 0.5 nodes
	Status string `json:"status"`
}

// WaitForTransaction polls the receipt until the transaction is accepted, reverted
// or rejected. It stops when ctx is done.
func (c *RPCClient) WaitForTransaction(ctx context.Context, txHash *felt.Felt) (*models.Receipt, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			return unknownReceipt(ctx, txHash)
		}

		receipt, err := c.getReceipt(ctx, txHash)
		switch {
		case err == nil && receipt.Status != models.ReceiptUnknown:
			return receipt, nil
		case err != nil && ctx.Err() != nil:
			// the request was cut short by ctx
			return unknownReceipt(ctx, txHash)
		case err != nil && !errors.Is(err, domain.ErrTransactionNotFound):
			return nil, err
		}

		c.log.Debug("waiting for transaction", "tx", txHash)
		select {
		case <-ctx.Done():
			return unknownReceipt(ctx, txHash)
		case <-ticker.C:
		}
	}
}

func unknownReceipt(ctx context.Context, txHash *felt.Felt) (*models.Receipt, error) {
	return &models.Receipt{TransactionHash: txHash, Status: models.ReceiptUnknown},
		fmt.Errorf("waiting for transaction %s: %w", txHash, ctx.Err())
}

func (c *RPCClient) getReceipt(ctx context.Context, txHash *felt.Felt) (*models.Receipt, error) {
	var raw rpcReceipt
	if err := c.call(ctx, &raw, "starknet_getTransactionReceipt", txHash); err != nil {
		if hasErrorCode(err, codeTxHashNotFound) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("starknet_getTransactionReceipt %s: %w", txHash, err)
	}
	return toReceipt(txHash, raw), nil
}

// toReceipt maps a raw receipt to the tagged receipt type
func toReceipt(txHash *felt.Felt, raw rpcReceipt) *models.Receipt {
	receipt := &models.Receipt{
		TransactionHash: txHash,
		FinalityStatus:  raw.FinalityStatus,
		ExecutionStatus: raw.ExecutionStatus,
		Status:          models.ReceiptUnknown,
	}
	if receipt.FinalityStatus == "" {
		receipt.FinalityStatus = raw.Status
	}

	switch {
	case raw.ExecutionStatus == executionReverted:
		receipt.Status = models.ReceiptRejected
		receipt.Reason = raw.RevertReason
	case receipt.FinalityStatus == finalityRejected:
		receipt.Status = models.ReceiptRejected
		receipt.Reason = raw.RevertReason
	case receipt.FinalityStatus == finalityAcceptedOnL2 || receipt.FinalityStatus == finalityAcceptedOnL1:
		if raw.ExecutionStatus == "" || raw.ExecutionStatus == executionSucceeded {
			receipt.Status = models.ReceiptConfirmed
		}
	}
	return receipt
}

func hasErrorCode(err error, code int) bool {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return rpcErr.ErrorCode() == code
	}
	return false
}
