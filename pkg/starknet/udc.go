package starknet

import (
	"github.com/NethermindEth/juno/core/crypto"
	"github.com/NethermindEth/juno/core/felt"
)

// UDCAddress is the Universal Deployer Contract deployed on every public Starknet network.
var UDCAddress = MustParseFelt("0x041a78e741e5af2fec34b695679bc6891742439f7afb8484ecd7766661ad02bf")

// DeployContractEntryPoint is the UDC function that deploys a class.
const DeployContractEntryPoint = "deployContract"

var contractAddressPrefix = mustShortString("STARKNET_CONTRACT_ADDRESS")

// FunctionCall is an invoke call inside a multicall transaction.
type FunctionCall struct {
	ContractAddress *felt.Felt
	EntryPoint      string
	Calldata        []*felt.Felt
}

// Selector returns the selector of the called entry point.
func (c FunctionCall) Selector() *felt.Felt {
	return Selector(c.EntryPoint)
}

// ContractAddress implements the network's contract address derivation:
// pedersen_array(prefix, deployer, salt, classHash, pedersen_array(calldata)) mod 2^251-256.
func ContractAddress(deployer, salt, classHash *felt.Felt, constructorCalldata []*felt.Felt) *felt.Felt {
	h := crypto.PedersenArray(
		contractAddressPrefix,
		deployer,
		salt,
		classHash,
		crypto.PedersenArray(constructorCalldata...),
	)
	n := FeltToBig(h)
	return FeltFromBig(n.Mod(n, addrBound))
}

// UDCDeployedAddress predicts the address the UDC assigns to a deployment.
// When unique is set the UDC mixes the caller into the salt and deploys from its own address.
func UDCDeployedAddress(deployer, classHash, salt *felt.Felt, constructorCalldata []*felt.Felt, unique bool) *felt.Felt {
	if unique {
		return ContractAddress(UDCAddress, crypto.Pedersen(deployer, salt), classHash, constructorCalldata)
	}
	return ContractAddress(new(felt.Felt), salt, classHash, constructorCalldata)
}

// BuildUDCCall builds the UDC deployContract invocation and the address it will deploy to.
func BuildUDCCall(deployer, classHash, salt *felt.Felt, constructorCalldata []*felt.Felt, unique bool) (FunctionCall, *felt.Felt) {
	return NewUDCCall(classHash, salt, constructorCalldata, unique),
		UDCDeployedAddress(deployer, classHash, salt, constructorCalldata, unique)
}

// NewUDCCall builds the UDC deployContract invocation:
// [classHash, salt, unique, len(calldata), calldata...]
func NewUDCCall(classHash, salt *felt.Felt, constructorCalldata []*felt.Felt, unique bool) FunctionCall {
	uniqueFlag := FeltFromUint64(0)
	if unique {
		uniqueFlag = FeltFromUint64(1)
	}

	calldata := make([]*felt.Felt, 0, 4+len(constructorCalldata))
	calldata = append(calldata,
		classHash,
		salt,
		uniqueFlag,
		FeltFromUint64(uint64(len(constructorCalldata))),
	)
	calldata = append(calldata, constructorCalldata...)

	return FunctionCall{
		ContractAddress: UDCAddress,
		EntryPoint:      DeployContractEntryPoint,
		Calldata:        calldata,
	}
}
