package usecase

import (
	"github.com/trebuchet-org/sndeploy/internal/domain/models"
)

// SelectTxVersion picks the transaction version for a submission.
// STRK fees require v3 transactions. ETH fees use v2 for declares and v1
// for invokes. Cairo 0 classes never reach a declare: they are
// rejected with ErrLegacyClass before a version is picked.
func SelectTxVersion(feeToken models.FeeToken, kind models.TxKind) models.TxVersion {
	if feeToken == models.FeeTokenSTRK {
		return models.TxVersionV3
	}
	if kind == models.TxKindDeclare {
		return models.TxVersionV2
	}
	return models.TxVersionV1
}
