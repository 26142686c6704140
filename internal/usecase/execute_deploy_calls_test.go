package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/sndeploy/internal/domain"
	"github.com/trebuchet-org/sndeploy/internal/domain/models"
	"github.com/trebuchet-org/sndeploy/pkg/starknet"
)

// queueCalls fills a session with n calls whose salt is their index
func queueCalls(session *DeploymentSession, n int) {
	for i := 0; i < n; i++ {
		salt := starknet.FeltFromUint64(uint64(i))
		call, addr := starknet.BuildUDCCall(session.Network.DeployerAddress, starknet.MustParseFelt("0xabc"), salt, nil, true)
		session.Queue.Enqueue(&models.DeployCall{
			Contract:         fmt.Sprintf("C%d", i),
			Salt:             salt,
			ClassHash:        starknet.MustParseFelt("0xabc"),
			Call:             call,
			PredictedAddress: addr,
		})
	}
}

// saltsOf extracts the salt (calldata[1]) of each call as its index
func saltsOf(calls []starknet.FunctionCall) []uint64 {
	out := make([]uint64, len(calls))
	for i, c := range calls {
		out[i] = starknet.FeltToBig(c.Calldata[1]).Uint64()
	}
	return out
}

func newSession(name string, wait bool) *DeploymentSession {
	return NewDeploymentSession(testNetwork(name, wait), NewDeploymentLedger(&mockLedgerStore{}, name, "overwrite"))
}

func TestSplitBatch(t *testing.T) {
	tests := []struct {
		n      int
		first  int
		second int
	}{
		{n: 1, first: 1, second: 0},
		{n: 2, first: 1, second: 1},
		{n: 101, first: 51, second: 50},
		{n: 250, first: 125, second: 125},
		{n: 201, first: 101, second: 100},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d calls", tt.n), func(t *testing.T) {
			calls := make([]int, tt.n)
			for i := range calls {
				calls[i] = i
			}
			first, second := SplitBatch(calls)
			assert.Len(t, first, tt.first)
			assert.Len(t, second, tt.second)
			assert.Equal(t, calls, append(append([]int{}, first...), second...))
		})
	}
}

func TestShouldSplit(t *testing.T) {
	assert.False(t, ShouldSplit(1))
	assert.False(t, ShouldSplit(SplitThreshold))
	assert.True(t, ShouldSplit(SplitThreshold+1))
}

func TestExecuteAll_NoCallsQueued(t *testing.T) {
	network := &mockNetworkClient{}
	uc := NewExecuteDeployCalls(network, NopProgress{}, testLogger())

	_, err := uc.ExecuteAll(context.Background(), newSession("devnet", false), ExecuteOptions{})
	assert.ErrorIs(t, err, domain.ErrNoCallsQueued)
	assert.Empty(t, network.executed)
}

func TestExecuteAll_SingleBatch(t *testing.T) {
	network := &mockNetworkClient{}
	progress := &recordingProgress{}
	uc := NewExecuteDeployCalls(network, progress, testLogger())
	session := newSession("devnet", false)
	queueCalls(session, 3)

	result, err := uc.ExecuteAll(context.Background(), session, ExecuteOptions{FeeToken: models.FeeTokenETH})
	require.NoError(t, err)

	require.Len(t, network.executed, 1)
	assert.Equal(t, []uint64{0, 1, 2}, saltsOf(network.executed[0]))
	assert.Equal(t, []models.TxVersion{models.TxVersionV1}, network.versions)
	assert.Len(t, result.TransactionHashes, 1)
	assert.Equal(t, 0, session.Queue.Len())
	assert.Contains(t, progress.infos, "Deploy Calls Executed at 0xe1")
}

func TestExecuteAll_SplitRetryPreservesOrder(t *testing.T) {
	network := &mockNetworkClient{
		executeFunc: func(ctx context.Context, calls []starknet.FunctionCall, opts models.TxOptions) (*models.TransactionResult, error) {
			if len(calls) > SplitThreshold {
				return nil, errors.New("transaction too large")
			}
			return &models.TransactionResult{TransactionHash: starknet.FeltFromUint64(uint64(len(calls)))}, nil
		},
	}
	uc := NewExecuteDeployCalls(network, NopProgress{}, testLogger())
	session := newSession("devnet", false)
	queueCalls(session, 250)

	result, err := uc.ExecuteAll(context.Background(), session, ExecuteOptions{})
	require.NoError(t, err)

	sizes := make([]int, len(network.executed))
	var delivered []uint64
	for i, calls := range network.executed {
		sizes[i] = len(calls)
		if len(calls) <= SplitThreshold {
			delivered = append(delivered, saltsOf(calls)...)
		}
	}
	assert.Equal(t, []int{250, 125, 63, 62, 125, 63, 62}, sizes)

	expected := make([]uint64, 250)
	for i := range expected {
		expected[i] = uint64(i)
	}
	assert.Equal(t, expected, delivered)
	assert.Len(t, result.TransactionHashes, 4)
	assert.Equal(t, 3, result.Splits)
	assert.Equal(t, 0, session.Queue.Len())
}

func TestExecuteAll_FailureAtOrBelowThresholdIsFatal(t *testing.T) {
	boom := errors.New("out of gas")

	t.Run("no split for 100 calls", func(t *testing.T) {
		network := &mockNetworkClient{
			executeFunc: func(ctx context.Context, calls []starknet.FunctionCall, opts models.TxOptions) (*models.TransactionResult, error) {
				return nil, boom
			},
		}
		uc := NewExecuteDeployCalls(network, NopProgress{}, testLogger())
		session := newSession("devnet", false)
		queueCalls(session, SplitThreshold)

		_, err := uc.ExecuteAll(context.Background(), session, ExecuteOptions{})
		assert.Same(t, boom, err)
		assert.Len(t, network.executed, 1)
		assert.Equal(t, SplitThreshold, session.Queue.Len())
	})

	t.Run("splitting stops at the first small failing batch", func(t *testing.T) {
		network := &mockNetworkClient{
			executeFunc: func(ctx context.Context, calls []starknet.FunctionCall, opts models.TxOptions) (*models.TransactionResult, error) {
				return nil, boom
			},
		}
		uc := NewExecuteDeployCalls(network, NopProgress{}, testLogger())
		session := newSession("devnet", false)
		queueCalls(session, 250)

		_, err := uc.ExecuteAll(context.Background(), session, ExecuteOptions{})
		assert.ErrorIs(t, err, boom)

		sizes := make([]int, len(network.executed))
		for i, calls := range network.executed {
			sizes[i] = len(calls)
		}
		assert.Equal(t, []int{250, 125, 63}, sizes)
		assert.Equal(t, []uint64{0, 1, 2}, saltsOf(network.executed[2])[:3])
	})
}

func TestExecuteAll_RejectedReceipt(t *testing.T) {
	tests := []struct {
		name   string
		reason string
		expect string
	}{
		{name: "with reason", reason: "Error in the called contract", expect: "Deploy Failed: Error in the called contract"},
		{name: "without reason", reason: "", expect: "Deploy Failed: Unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			network := &mockNetworkClient{
				waitForTransactionFunc: func(ctx context.Context, txHash *felt.Felt) (*models.Receipt, error) {
					return &models.Receipt{TransactionHash: txHash, Status: models.ReceiptRejected, Reason: tt.reason}, nil
				},
			}
			uc := NewExecuteDeployCalls(network, NopProgress{}, testLogger())
			session := newSession("sepolia", true)
			queueCalls(session, 2)

			_, err := uc.ExecuteAll(context.Background(), session, ExecuteOptions{})
			var rejected *domain.DeploymentRejectedError
			require.ErrorAs(t, err, &rejected)
			assert.Contains(t, err.Error(), tt.expect)
		})
	}
}

func TestExecuteAll_SkipsReceiptWhenNotWaiting(t *testing.T) {
	waited := false
	network := &mockNetworkClient{
		waitForTransactionFunc: func(ctx context.Context, txHash *felt.Felt) (*models.Receipt, error) {
			waited = true
			return &models.Receipt{Status: models.ReceiptRejected}, nil
		},
	}
	uc := NewExecuteDeployCalls(network, NopProgress{}, testLogger())
	session := newSession("devnet", false)
	queueCalls(session, 1)

	_, err := uc.ExecuteAll(context.Background(), session, ExecuteOptions{FeeToken: models.FeeTokenSTRK})
	require.NoError(t, err)
	assert.False(t, waited)
	assert.Equal(t, []models.TxVersion{models.TxVersionV3}, network.versions)
}
