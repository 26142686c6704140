package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/samber/lo"
	"github.com/trebuchet-org/sndeploy/internal/domain"
	"github.com/trebuchet-org/sndeploy/internal/domain/models"
	"github.com/trebuchet-org/sndeploy/pkg/starknet"
)

// SplitThreshold is the largest batch that is not split again after a failed submission
const SplitThreshold = 100

// ExecuteOptions controls the multicall submission
type ExecuteOptions struct {
	FeeToken models.FeeToken
}

// ExecuteResult lists the transactions that carried the queued calls
type ExecuteResult struct {
	TransactionHashes []*felt.Felt
	Calls             int
	Splits            int
}

// ShouldSplit reports whether a failed batch of n calls is retried in halves
func ShouldSplit(n int) bool {
	return n > SplitThreshold
}

// SplitBatch halves a batch: calls[0:mid] and calls[mid:] with mid = ceil(n/2)
func SplitBatch[T any](calls []T) ([]T, []T) {
	mid := (len(calls) + 1) / 2
	return calls[:mid], calls[mid:]
}

// ExecuteDeployCalls submits the deployment queue as multicall transactions
type ExecuteDeployCalls struct {
	network  NetworkClient
	progress ProgressSink
	log      *slog.Logger
}

// NewExecuteDeployCalls creates a new ExecuteDeployCalls use case
func NewExecuteDeployCalls(network NetworkClient, progress ProgressSink, log *slog.Logger) *ExecuteDeployCalls {
	return &ExecuteDeployCalls{
		network:  network,
		progress: progress,
		log:      log.With("component", "ExecuteDeployCalls"),
	}
}

// ExecuteAll submits every queued call. A failed batch larger than SplitThreshold
// is split in half and both halves are executed in order, first half first.
// Segments are processed sequentially from an explicit stack.
func (uc *ExecuteDeployCalls) ExecuteAll(ctx context.Context, session *DeploymentSession, opts ExecuteOptions) (*ExecuteResult, error) {
	if session.Queue.Len() == 0 {
		return nil, domain.ErrNoCallsQueued
	}

	txOpts := models.TxOptions{
		FeeToken: opts.FeeToken,
		Version:  SelectTxVersion(opts.FeeToken, models.TxKindInvoke),
	}

	result := &ExecuteResult{Calls: session.Queue.Len()}
	stack := [][]*models.DeployCall{session.Queue.Calls()}

	for len(stack) > 0 {
		segment := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		txHash, err := uc.executeBatch(ctx, session, segment, txOpts)
		if err != nil {
			if !ShouldSplit(len(segment)) {
				return nil, err
			}
			first, second := SplitBatch(segment)
			uc.log.Warn("batch failed, retrying in halves",
				"calls", len(segment),
				"first", len(first),
				"second", len(second),
				"error", err,
			)
			// pushed in reverse so the first half runs next
			stack = append(stack, second, first)
			result.Splits++
			continue
		}

		result.TransactionHashes = append(result.TransactionHashes, txHash)
	}

	session.Queue.Drain()
	return result, nil
}

// executeBatch submits one segment and, when the network is worth waiting for,
// checks the receipt. Any failure makes the whole segment eligible for splitting.
func (uc *ExecuteDeployCalls) executeBatch(
	ctx context.Context,
	session *DeploymentSession,
	segment []*models.DeployCall,
	opts models.TxOptions,
) (*felt.Felt, error) {
	calls := lo.Map(segment, func(c *models.DeployCall, _ int) starknet.FunctionCall {
		return c.Call
	})

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageExecute,
		Total:   len(calls),
		Message: fmt.Sprintf("Executing %d deploy calls", len(calls)),
		Spinner: true,
	})
	uc.log.Debug("executing deploy calls", "calls", len(calls), "version", opts.Version)

	tx, err := uc.network.Execute(ctx, calls, opts)
	if err != nil {
		return nil, err
	}

	if session.Network.WaitForConfirmation {
		receipt, err := uc.network.WaitForTransaction(ctx, tx.TransactionHash)
		if err != nil {
			return nil, err
		}
		if receipt.Status == models.ReceiptRejected {
			return nil, &domain.DeploymentRejectedError{
				TransactionHash: tx.TransactionHash.String(),
				Reason:          receipt.Reason,
			}
		}
	}

	uc.progress.Info(fmt.Sprintf("Deploy Calls Executed at %s", tx.TransactionHash))
	return tx.TransactionHash, nil
}
