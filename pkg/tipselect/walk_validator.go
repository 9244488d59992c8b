package tipselect

import (
	"github.com/pkg/errors"

	"github.com/iotaledger/hive.go/logger"

	"github.com/gohornet/tipsel/pkg/common"
	"github.com/gohornet/tipsel/pkg/dag"
	"github.com/gohornet/tipsel/pkg/metrics"
	"github.com/gohornet/tipsel/pkg/model/hornet"
	"github.com/gohornet/tipsel/pkg/utils"
)

// LedgerService checks whether the past cone of a tail can be added to the
// walker's accumulated state without creating negative balances.
type LedgerService interface {
	IsBalanceDiffConsistent(approved map[string]struct{}, diff map[string]int64, tailTxHash hornet.Hash) (bool, error)
}

// WalkValidatorStorage provides the interface to the used storage in the WalkValidator.
type WalkValidatorStorage interface {
	dag.TransactionStorage
	TransactionMetadata(txHash hornet.Hash) (*hornet.TransactionMetadata, error)
}

// WalkValidator decides whether the random walk may step onto a transaction.
// approved and diff are owned by the walker and mutated on every accepted step.
type WalkValidator struct {
	*utils.WrappedLogger

	storage       WalkValidatorStorage
	ledgerService LedgerService
	approved      map[string]struct{}
	diff          map[string]int64
	metrics       *metrics.TipSelMetrics
}

// NewWalkValidator creates a new WalkValidator. log and tipSelMetrics may be nil.
func NewWalkValidator(log *logger.Logger, storage WalkValidatorStorage, ledgerService LedgerService, approved map[string]struct{}, diff map[string]int64, tipSelMetrics ...*metrics.TipSelMetrics) *WalkValidator {

	m := &metrics.TipSelMetrics{}
	if len(tipSelMetrics) > 0 && tipSelMetrics[0] != nil {
		m = tipSelMetrics[0]
	}

	return &WalkValidator{
		WrappedLogger: utils.NewWrappedLogger(log),
		storage:       storage,
		ledgerService: ledgerService,
		approved:      approved,
		diff:          diff,
		metrics:       m,
	}
}

// IsValid returns whether the walk may continue on the given transaction.
// Only storage errors other than a missing transaction are returned as errors.
func (v *WalkValidator) IsValid(txHash hornet.Hash) (bool, error) {
	valid, err := v.isValid(txHash)
	if err != nil {
		return false, err
	}

	if valid {
		v.metrics.WalkValidationsAccepted.Inc()
	} else {
		v.metrics.WalkValidationsRejected.Inc()
	}

	return valid, nil
}

func (v *WalkValidator) isValid(txHash hornet.Hash) (bool, error) {

	tx, err := v.storage.Transaction(txHash)
	if err != nil {
		if errors.Is(err, common.ErrTransactionNotFound) {
			v.LogDebugf("validation failed for %s: transaction not found", txHash.Trytes())
			return false, nil
		}
		return false, err
	}

	if !tx.IsTail() {
		v.LogDebugf("validation failed for %s: not a tail", txHash.Trytes())
		return false, nil
	}

	metadata, err := v.storage.TransactionMetadata(txHash)
	if err != nil {
		if errors.Is(err, common.ErrTransactionNotFound) {
			v.LogDebugf("validation failed for %s: metadata not found", txHash.Trytes())
			return false, nil
		}
		return false, err
	}

	if !metadata.IsSolid() {
		v.LogDebugf("validation failed for %s: not solid", txHash.Trytes())
		return false, nil
	}

	consistent, err := v.ledgerService.IsBalanceDiffConsistent(v.approved, v.diff, txHash)
	if err != nil {
		return false, err
	}

	if !consistent {
		v.LogDebugf("validation failed for %s: ledger is inconsistent", txHash.Trytes())
		return false, nil
	}

	return true, nil
}
