package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/sndeploy/internal/domain"
	"github.com/trebuchet-org/sndeploy/internal/domain/config"
	"github.com/trebuchet-org/sndeploy/internal/domain/models"
)

// DeclareOptions controls a declare submission
type DeclareOptions struct {
	FeeToken models.FeeToken
}

// DeclareContract ensures a contract class is registered on the network exactly once
type DeclareContract struct {
	network  NetworkClient
	hasher   ClassHasher
	progress ProgressSink
	log      *slog.Logger

	// declared remembers classes submitted by this process, the node may not
	// report them yet when we don't wait for confirmation
	declared map[string]*models.ClassReference
}

// NewDeclareContract creates a new DeclareContract use case
func NewDeclareContract(
	network NetworkClient,
	hasher ClassHasher,
	progress ProgressSink,
	log *slog.Logger,
) *DeclareContract {
	return &DeclareContract{
		network:  network,
		hasher:   hasher,
		progress: progress,
		log:      log.With("component", "DeclareContract"),
		declared: make(map[string]*models.ClassReference),
	}
}

// DeclareIfAbsent returns the class reference of a contract, declaring it when the
// network doesn't know its class hash yet.
func (uc *DeclareContract) DeclareIfAbsent(
	ctx context.Context,
	network *config.Network,
	contract *models.CompiledContract,
	opts DeclareOptions,
) (*models.ClassReference, error) {
	if !uc.hasher.IsSierra(contract) {
		return nil, &domain.DeclareFailedError{Contract: contract.Name, Network: network.Name, Err: domain.ErrLegacyClass}
	}

	classHash, err := uc.hasher.ClassHash(contract)
	if err != nil {
		return nil, &domain.DeclareFailedError{
			Contract: contract.Name,
			Network:  network.Name,
			Err:      fmt.Errorf("failed to compute class hash: %w", err),
		}
	}

	if ref, ok := uc.declared[classHash.String()]; ok {
		uc.log.Debug("class declared earlier in this run", "contract", contract.Name, "classHash", classHash)
		return ref, nil
	}

	ref, err := uc.network.GetClassByHash(ctx, classHash)
	if err == nil {
		uc.log.Debug("class already declared", "contract", contract.Name, "classHash", classHash)
		if ref == nil {
			ref = &models.ClassReference{ClassHash: classHash}
		}
		return ref, nil
	}
	if !errors.Is(err, domain.ErrClassNotFound) {
		return nil, &domain.ClassResolutionError{
			Contract:  contract.Name,
			ClassHash: classHash.String(),
			Network:   network.Name,
			Err:       err,
		}
	}

	compiledClassHash, err := uc.hasher.CompiledClassHash(contract)
	if err != nil {
		return nil, &domain.DeclareFailedError{
			Contract: contract.Name,
			Network:  network.Name,
			Err:      fmt.Errorf("failed to compute compiled class hash: %w", err),
		}
	}

	txOpts := models.TxOptions{
		FeeToken: opts.FeeToken,
		Version:  SelectTxVersion(opts.FeeToken, models.TxKindDeclare),
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageDeclare,
		Message: fmt.Sprintf("Declaring %s", contract.Name),
		Spinner: true,
	})
	uc.log.Info("declaring contract", "contract", contract.Name, "classHash", classHash, "version", txOpts.Version)

	result, err := uc.network.Declare(ctx, contract, txOpts)
	if err != nil {
		return nil, &domain.DeclareFailedError{Contract: contract.Name, Network: network.Name, Err: err}
	}

	if network.WaitForConfirmation {
		receipt, err := uc.network.WaitForTransaction(ctx, result.TransactionHash)
		if err != nil {
			return nil, &domain.DeclareFailedError{Contract: contract.Name, Network: network.Name, Err: err}
		}
		if receipt.Status == models.ReceiptRejected {
			return nil, &domain.DeclareFailedError{
				Contract: contract.Name,
				Network:  network.Name,
				Err: &domain.DeploymentRejectedError{
					TransactionHash: result.TransactionHash.String(),
					Reason:          receipt.Reason,
				},
			}
		}
	}

	ref = &models.ClassReference{
		ClassHash:         classHash,
		CompiledClassHash: compiledClassHash,
		Declared:          true,
		TransactionHash:   result.TransactionHash,
	}
	uc.declared[classHash.String()] = ref

	uc.progress.Info(fmt.Sprintf("%s declared with class hash %s", contract.Name, classHash))
	return ref, nil
}
