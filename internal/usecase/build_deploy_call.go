package usecase

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/samber/lo"
	"github.com/trebuchet-org/sndeploy/internal/domain"
	"github.com/trebuchet-org/sndeploy/internal/domain/models"
	"github.com/trebuchet-org/sndeploy/pkg/starknet"
)

// DeployerPlaceholder is replaced by the deployer address in constructor arguments
const DeployerPlaceholder = "$deployer"

// shortStringPrefix marks a constructor argument encoded as a Cairo short string
const shortStringPrefix = "str:"

// BuildCallParams describes one deployment to queue
type BuildCallParams struct {
	Contract        string
	ClassHash       *felt.Felt
	Salt            *felt.Felt
	ConstructorArgs []*felt.Felt
	Unique          bool
}

// BuildDeployCall turns a declared class into a queued UDC call. It never submits anything.
type BuildDeployCall struct {
	network NetworkClient
	log     *slog.Logger
}

// NewBuildDeployCall creates a new BuildDeployCall use case
func NewBuildDeployCall(network NetworkClient, log *slog.Logger) *BuildDeployCall {
	return &BuildDeployCall{
		network: network,
		log:     log.With("component", "BuildDeployCall"),
	}
}

// BuildCall validates the inputs, appends the UDC call to the session queue
// and returns it with its predicted address. Nothing is queued on error.
func (uc *BuildDeployCall) BuildCall(session *DeploymentSession, params BuildCallParams) (*models.DeployCall, error) {
	if err := validateCallParams(session, params); err != nil {
		return nil, &domain.InvalidCallError{Contract: params.Contract, Err: err}
	}

	deployer := session.Network.DeployerAddress
	call := starknet.NewUDCCall(params.ClassHash, params.Salt, params.ConstructorArgs, params.Unique)
	predicted := uc.network.ComputeAddress(deployer, params.ClassHash, params.Salt, params.ConstructorArgs, params.Unique)

	deployCall := &models.DeployCall{
		Contract:         params.Contract,
		Salt:             params.Salt,
		ClassHash:        params.ClassHash,
		ConstructorArgs:  params.ConstructorArgs,
		Unique:           params.Unique,
		Call:             call,
		PredictedAddress: predicted,
	}
	session.Queue.Enqueue(deployCall)

	uc.log.Debug("queued deploy call",
		"contract", params.Contract,
		"classHash", params.ClassHash,
		"salt", params.Salt,
		"address", predicted,
		"queued", session.Queue.Len(),
	)
	return deployCall, nil
}

func validateCallParams(session *DeploymentSession, params BuildCallParams) error {
	if session == nil || session.Network == nil || session.Network.DeployerAddress == nil {
		return fmt.Errorf("%w: deployer address is not configured", domain.ErrInvalidArgument)
	}
	if params.ClassHash == nil {
		return fmt.Errorf("%w: class hash is required", domain.ErrInvalidArgument)
	}
	if params.Salt == nil {
		return fmt.Errorf("%w: salt is required", domain.ErrInvalidArgument)
	}
	if i := lo.IndexOf(params.ConstructorArgs, nil); i >= 0 {
		return fmt.Errorf("%w: constructor argument %d is empty", domain.ErrInvalidArgument, i)
	}
	return nil
}

// ResolveConstructorArgs converts plan arguments into felts. Values are felt
// literals, the deployer placeholder or "str:" short strings.
func ResolveConstructorArgs(raw []string, deployer *felt.Felt) ([]*felt.Felt, error) {
	args := make([]*felt.Felt, 0, len(raw))
	for i, value := range raw {
		value = strings.TrimSpace(value)
		switch {
		case value == DeployerPlaceholder:
			if deployer == nil {
				return nil, fmt.Errorf("%w: argument %d references the deployer but none is configured", domain.ErrInvalidArgument, i)
			}
			args = append(args, deployer)
		case strings.HasPrefix(value, shortStringPrefix):
			f, err := starknet.ShortString(strings.TrimPrefix(value, shortStringPrefix))
			if err != nil {
				return nil, fmt.Errorf("%w: argument %d: %v", domain.ErrInvalidArgument, i, err)
			}
			args = append(args, f)
		default:
			f, err := starknet.ParseFelt(value)
			if err != nil {
				return nil, fmt.Errorf("%w: argument %d: %v", domain.ErrInvalidArgument, i, err)
			}
			args = append(args, f)
		}
	}
	return args, nil
}

// ResolveSalt parses a configured salt or draws a random one
func ResolveSalt(raw string) (*felt.Felt, error) {
	if strings.TrimSpace(raw) == "" {
		return starknet.RandomSalt()
	}
	salt, err := starknet.ParseFelt(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: salt: %v", domain.ErrInvalidArgument, err)
	}
	return salt, nil
}
