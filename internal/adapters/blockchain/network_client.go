package blockchain

import (
	"context"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/trebuchet-org/sndeploy/internal/domain/models"
	"github.com/trebuchet-org/sndeploy/internal/usecase"
	"github.com/trebuchet-org/sndeploy/pkg/starknet"
)

// Submitter signs and sends transactions from the deployer account
type Submitter interface {
	Declare(ctx context.Context, contract *models.CompiledContract, opts models.TxOptions) (*models.TransactionResult, error)
	Execute(ctx context.Context, calls []starknet.FunctionCall, opts models.TxOptions) (*models.TransactionResult, error)
}

// NetworkClient reads state over JSON-RPC and submits transactions through a Submitter
type NetworkClient struct {
	*RPCClient
	submitter Submitter
}

// NewNetworkClient combines the RPC reader with a transaction submitter
func NewNetworkClient(reader *RPCClient, submitter Submitter) *NetworkClient {
	return &NetworkClient{
		RPCClient: reader,
		submitter: submitter,
	}
}

// Declare submits a declare transaction
func (c *NetworkClient) Declare(ctx context.Context, contract *models.CompiledContract, opts models.TxOptions) (*models.TransactionResult, error) {
	return c.submitter.Declare(ctx, contract, opts)
}

// Execute submits the calls as one multicall transaction
func (c *NetworkClient) Execute(ctx context.Context, calls []starknet.FunctionCall, opts models.TxOptions) (*models.TransactionResult, error) {
	return c.submitter.Execute(ctx, calls, opts)
}

// ComputeAddress predicts the address of a UDC deployment
func (c *NetworkClient) ComputeAddress(deployer, classHash, salt *felt.Felt, constructorArgs []*felt.Felt, unique bool) *felt.Felt {
	return starknet.UDCDeployedAddress(deployer, classHash, salt, constructorArgs, unique)
}

var _ usecase.NetworkClient = (*NetworkClient)(nil)
