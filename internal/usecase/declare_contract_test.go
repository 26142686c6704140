package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/sndeploy/internal/domain"
	"github.com/trebuchet-org/sndeploy/internal/domain/models"
	"github.com/trebuchet-org/sndeploy/pkg/starknet"
)

func compiled(name string) *models.CompiledContract {
	return &models.CompiledContract{Name: name, Sierra: []byte(`{}`), Casm: []byte(`{}`)}
}

func TestDeclareIfAbsent_IsIdempotent(t *testing.T) {
	declared := map[string]bool{}
	network := &mockNetworkClient{
		getClassByHashFunc: func(ctx context.Context, classHash *felt.Felt) (*models.ClassReference, error) {
			if declared[classHash.String()] {
				return &models.ClassReference{ClassHash: classHash}, nil
			}
			return nil, domain.ErrClassNotFound
		},
	}
	network.declareFunc = func(ctx context.Context, contract *models.CompiledContract, opts models.TxOptions) (*models.TransactionResult, error) {
		declared["0xabc"] = true
		return &models.TransactionResult{TransactionHash: starknet.MustParseFelt("0x1")}, nil
	}
	hasher := &mockClassHasher{classHashes: map[string]string{"ReferralContract": "0xabc"}}
	uc := NewDeclareContract(network, hasher, NopProgress{}, testLogger())

	first, err := uc.DeclareIfAbsent(context.Background(), testNetwork("sepolia", true), compiled("ReferralContract"), DeclareOptions{FeeToken: models.FeeTokenETH})
	require.NoError(t, err)
	assert.True(t, first.Declared)
	assert.Equal(t, "0xabc", first.ClassHash.String())

	second, err := uc.DeclareIfAbsent(context.Background(), testNetwork("sepolia", true), compiled("ReferralContract"), DeclareOptions{FeeToken: models.FeeTokenETH})
	require.NoError(t, err)
	assert.Equal(t, "0xabc", second.ClassHash.String())

	assert.Len(t, network.declared, 1)
}

func TestDeclareIfAbsent_AlreadyDeclaredOnNetwork(t *testing.T) {
	network := &mockNetworkClient{
		getClassByHashFunc: func(ctx context.Context, classHash *felt.Felt) (*models.ClassReference, error) {
			return &models.ClassReference{ClassHash: classHash}, nil
		},
	}
	uc := NewDeclareContract(network, &mockClassHasher{}, NopProgress{}, testLogger())

	ref, err := uc.DeclareIfAbsent(context.Background(), testNetwork("devnet", false), compiled("YourContract"), DeclareOptions{})
	require.NoError(t, err)
	assert.False(t, ref.Declared)
	assert.Empty(t, network.declared)
}

func TestDeclareIfAbsent_RemembersUnconfirmedDeclares(t *testing.T) {
	// devnet doesn't wait, so the node may still report the class as missing
	network := &mockNetworkClient{}
	uc := NewDeclareContract(network, &mockClassHasher{}, NopProgress{}, testLogger())

	for i := 0; i < 3; i++ {
		_, err := uc.DeclareIfAbsent(context.Background(), testNetwork("devnet", false), compiled("YourContract"), DeclareOptions{})
		require.NoError(t, err)
	}
	assert.Len(t, network.declared, 1)
}

func TestDeclareIfAbsent_TxVersion(t *testing.T) {
	tests := []struct {
		name     string
		feeToken models.FeeToken
		expected models.TxVersion
	}{
		{name: "eth sierra declare", feeToken: models.FeeTokenETH, expected: models.TxVersionV2},
		{name: "strk declare", feeToken: models.FeeTokenSTRK, expected: models.TxVersionV3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			network := &mockNetworkClient{}
			uc := NewDeclareContract(network, &mockClassHasher{}, NopProgress{}, testLogger())

			_, err := uc.DeclareIfAbsent(context.Background(), testNetwork("devnet", false), compiled("YourContract"), DeclareOptions{FeeToken: tt.feeToken})
			require.NoError(t, err)
			require.Len(t, network.declared, 1)
			assert.Equal(t, string(tt.expected), network.declared[0][1])
		})
	}
}

func TestDeclareIfAbsent_Errors(t *testing.T) {
	rpcDown := errors.New("connection refused")

	t.Run("lookup failure is not treated as missing", func(t *testing.T) {
		network := &mockNetworkClient{
			getClassByHashFunc: func(ctx context.Context, classHash *felt.Felt) (*models.ClassReference, error) {
				return nil, rpcDown
			},
		}
		uc := NewDeclareContract(network, &mockClassHasher{}, NopProgress{}, testLogger())

		_, err := uc.DeclareIfAbsent(context.Background(), testNetwork("sepolia", true), compiled("YourContract"), DeclareOptions{})
		var resolutionErr *domain.ClassResolutionError
		require.ErrorAs(t, err, &resolutionErr)
		assert.Equal(t, "YourContract", resolutionErr.Contract)
		assert.Equal(t, "sepolia", resolutionErr.Network)
		assert.ErrorIs(t, err, rpcDown)
		assert.Empty(t, network.declared)
	})

	t.Run("submission failure", func(t *testing.T) {
		network := &mockNetworkClient{
			declareFunc: func(ctx context.Context, contract *models.CompiledContract, opts models.TxOptions) (*models.TransactionResult, error) {
				return nil, errors.New("insufficient balance")
			},
		}
		uc := NewDeclareContract(network, &mockClassHasher{}, NopProgress{}, testLogger())

		_, err := uc.DeclareIfAbsent(context.Background(), testNetwork("sepolia", true), compiled("YourContract"), DeclareOptions{})
		var declareErr *domain.DeclareFailedError
		require.ErrorAs(t, err, &declareErr)
		assert.Contains(t, err.Error(), "insufficient balance")
		assert.Contains(t, err.Error(), "YourContract")
	})

	t.Run("rejected declare", func(t *testing.T) {
		network := &mockNetworkClient{
			waitForTransactionFunc: func(ctx context.Context, txHash *felt.Felt) (*models.Receipt, error) {
				return &models.Receipt{TransactionHash: txHash, Status: models.ReceiptRejected, Reason: "Class already declared"}, nil
			},
		}
		uc := NewDeclareContract(network, &mockClassHasher{}, NopProgress{}, testLogger())

		_, err := uc.DeclareIfAbsent(context.Background(), testNetwork("mainnet", true), compiled("YourContract"), DeclareOptions{})
		var rejected *domain.DeploymentRejectedError
		require.ErrorAs(t, err, &rejected)
		assert.Equal(t, "Class already declared", rejected.Reason)
	})

	t.Run("legacy class", func(t *testing.T) {
		network := &mockNetworkClient{}
		hasher := &mockClassHasher{legacy: map[string]bool{"Old": true}}
		uc := NewDeclareContract(network, hasher, NopProgress{}, testLogger())

		_, err := uc.DeclareIfAbsent(context.Background(), testNetwork("devnet", false), compiled("Old"), DeclareOptions{})
		assert.ErrorIs(t, err, domain.ErrLegacyClass)
		assert.Empty(t, network.declared)
		assert.Empty(t, network.versions)
	})
}

func TestSelectTxVersion(t *testing.T) {
	assert.Equal(t, models.TxVersionV3, SelectTxVersion(models.FeeTokenSTRK, models.TxKindInvoke))
	assert.Equal(t, models.TxVersionV3, SelectTxVersion(models.FeeTokenSTRK, models.TxKindDeclare))
	assert.Equal(t, models.TxVersionV2, SelectTxVersion(models.FeeTokenETH, models.TxKindDeclare))
	assert.Equal(t, models.TxVersionV1, SelectTxVersion(models.FeeTokenETH, models.TxKindInvoke))
}
