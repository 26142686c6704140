package usecase

import (
	"testing"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/sndeploy/internal/domain"
	"github.com/trebuchet-org/sndeploy/pkg/starknet"
)

func TestBuildCall_QueuesUDCCall(t *testing.T) {
	uc := NewBuildDeployCall(&mockNetworkClient{}, testLogger())
	session := newSession("devnet", false)
	classHash := starknet.MustParseFelt("0xabc")
	salt := starknet.MustParseFelt("0x1")
	args := []*felt.Felt{starknet.MustParseFelt("0x5"), starknet.MustParseFelt("0x6")}

	call, err := uc.BuildCall(session, BuildCallParams{
		Contract:        "ReferralContract",
		ClassHash:       classHash,
		Salt:            salt,
		ConstructorArgs: args,
		Unique:          true,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, session.Queue.Len())
	assert.True(t, call.Call.ContractAddress.Equal(starknet.UDCAddress))
	assert.Equal(t, starknet.DeployContractEntryPoint, call.Call.EntryPoint)

	expected := starknet.UDCDeployedAddress(session.Network.DeployerAddress, classHash, salt, args, true)
	assert.True(t, call.PredictedAddress.Equal(expected))
}

func TestBuildCall_PredictedAddressComesFromNetwork(t *testing.T) {
	var computed int
	network := &mockNetworkClient{
		computeAddressFunc: func(deployer, classHash, salt *felt.Felt, args []*felt.Felt, unique bool) *felt.Felt {
			computed++
			return starknet.MustParseFelt("0xdef")
		},
	}
	uc := NewBuildDeployCall(network, testLogger())
	classHash := starknet.MustParseFelt("0xabc")
	salt := starknet.MustParseFelt("0x1")

	call, err := uc.BuildCall(newSession("devnet", false), BuildCallParams{
		Contract:  "ReferralContract",
		ClassHash: classHash,
		Salt:      salt,
		Unique:    false,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, computed)
	assert.True(t, call.PredictedAddress.Equal(starknet.MustParseFelt("0xdef")))
	assert.Equal(t, starknet.NewUDCCall(classHash, salt, nil, false), call.Call)
}

func TestBuildCall_AddressIsDeterministic(t *testing.T) {
	uc := NewBuildDeployCall(&mockNetworkClient{}, testLogger())
	params := BuildCallParams{
		Contract:        "YourContract",
		ClassHash:       starknet.MustParseFelt("0x1234"),
		Salt:            starknet.MustParseFelt("0x42"),
		ConstructorArgs: []*felt.Felt{starknet.MustParseFelt("0x7")},
		Unique:          true,
	}

	a, err := uc.BuildCall(newSession("devnet", false), params)
	require.NoError(t, err)
	b, err := uc.BuildCall(newSession("devnet", false), params)
	require.NoError(t, err)
	assert.True(t, a.PredictedAddress.Equal(b.PredictedAddress))

	params.Salt = starknet.MustParseFelt("0x43")
	c, err := uc.BuildCall(newSession("devnet", false), params)
	require.NoError(t, err)
	assert.False(t, a.PredictedAddress.Equal(c.PredictedAddress))
}

func TestBuildCall_RejectsInvalidInputs(t *testing.T) {
	tests := []struct {
		name   string
		params BuildCallParams
	}{
		{
			name:   "missing class hash",
			params: BuildCallParams{Contract: "A", Salt: starknet.MustParseFelt("0x1")},
		},
		{
			name:   "missing salt",
			params: BuildCallParams{Contract: "A", ClassHash: starknet.MustParseFelt("0x1")},
		},
		{
			name: "nil constructor argument",
			params: BuildCallParams{
				Contract:        "A",
				ClassHash:       starknet.MustParseFelt("0x1"),
				Salt:            starknet.MustParseFelt("0x1"),
				ConstructorArgs: []*felt.Felt{starknet.MustParseFelt("0x1"), nil},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewBuildDeployCall(&mockNetworkClient{}, testLogger())
			session := newSession("devnet", false)

			_, err := uc.BuildCall(session, tt.params)
			var callErr *domain.InvalidCallError
			require.ErrorAs(t, err, &callErr)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
			assert.Equal(t, 0, session.Queue.Len())
		})
	}

	t.Run("missing deployer", func(t *testing.T) {
		uc := NewBuildDeployCall(&mockNetworkClient{}, testLogger())
		session := newSession("devnet", false)
		session.Network.DeployerAddress = nil

		_, err := uc.BuildCall(session, BuildCallParams{
			Contract:  "A",
			ClassHash: starknet.MustParseFelt("0x1"),
			Salt:      starknet.MustParseFelt("0x1"),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		assert.Equal(t, 0, session.Queue.Len())
	})
}

func TestResolveConstructorArgs(t *testing.T) {
	deployer := starknet.MustParseFelt("0x64b48806902a367c8598f4f95c305e8c1a1acba5f082d294a43793113115691")

	t.Run("mixed values", func(t *testing.T) {
		args, err := ResolveConstructorArgs([]string{"$deployer", "0x10", "42", "str:ETH"}, deployer)
		require.NoError(t, err)
		require.Len(t, args, 4)
		assert.True(t, args[0].Equal(deployer))
		assert.Equal(t, "0x10", args[1].String())
		assert.Equal(t, "0x2a", args[2].String())
		assert.Equal(t, "0x455448", args[3].String())
	})

	t.Run("empty", func(t *testing.T) {
		args, err := ResolveConstructorArgs(nil, deployer)
		require.NoError(t, err)
		assert.Empty(t, args)
	})

	for _, raw := range []string{"0xzz", "-1", "str:this short string is definitely longer than 31 bytes"} {
		t.Run("invalid "+raw, func(t *testing.T) {
			_, err := ResolveConstructorArgs([]string{raw}, deployer)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		})
	}

	t.Run("deployer placeholder without deployer", func(t *testing.T) {
		_, err := ResolveConstructorArgs([]string{"$deployer"}, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})
}

func TestResolveSalt(t *testing.T) {
	salt, err := ResolveSalt("0x1")
	require.NoError(t, err)
	assert.Equal(t, "0x1", salt.String())

	random, err := ResolveSalt("")
	require.NoError(t, err)
	assert.NotNil(t, random)

	_, err = ResolveSalt("salt")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
