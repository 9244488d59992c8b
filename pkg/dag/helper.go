package dag

import (
	"github.com/pkg/errors"

	"github.com/gohornet/tipsel/pkg/common"
	"github.com/gohornet/tipsel/pkg/model/hornet"
)

var (
	ErrFindAllTailsFailed = errors.New("unable to find all tails")
)

// FindAllTails returns all tails referenced by the past cone of the given transaction,
// stopping at the first tail on every path. Genesis is ignored.
func FindAllTails(storage TransactionStorage, txHash hornet.Hash, skipStartTx bool) (map[string]struct{}, error) {

	txsToTraverse := make(map[string]struct{})
	txsChecked := make(map[string]struct{})
	tails := make(map[string]struct{})

	if skipStartTx {
		tx, err := storage.Transaction(txHash)
		if err != nil {
			return nil, errors.Wrapf(ErrFindAllTailsFailed, "%s", err)
		}
		txsChecked[txHash.ToMapKey()] = struct{}{}
		txsToTraverse[tx.TrunkHash().ToMapKey()] = struct{}{}
		txsToTraverse[tx.BranchHash().ToMapKey()] = struct{}{}
	} else {
		txsToTraverse[txHash.ToMapKey()] = struct{}{}
	}

	// collect all txs to check by traversing the tangle
	// loop as long as new transactions are added in every loop cycle
	for len(txsToTraverse) != 0 {

		for txMapKey := range txsToTraverse {
			delete(txsToTraverse, txMapKey)

			if _, checked := txsChecked[txMapKey]; checked {
				// tx was already checked => ignore
				continue
			}
			txsChecked[txMapKey] = struct{}{}

			hash := hornet.HashFromMapKey(txMapKey)
			if hash.IsNull() {
				continue
			}

			tx, err := storage.Transaction(hash)
			if err != nil {
				return nil, errors.Wrapf(ErrFindAllTailsFailed, "%s", err)
			}

			if tx.IsTail() {
				tails[txMapKey] = struct{}{}
				continue
			}

			// mark the approvees to be traversed
			txsToTraverse[tx.TrunkHash().ToMapKey()] = struct{}{}
			txsToTraverse[tx.BranchHash().ToMapKey()] = struct{}{}
		}
	}

	return tails, nil
}

// Predicate defines whether a traversal should continue or not.
type Predicate func(tx *hornet.Transaction) bool

// Consumer consumes the given transaction during traversal.
type Consumer func(tx *hornet.Transaction)

// OnMissingApprovee gets called when during traversal an approvee is missing.
// Returning an error stops the traversal.
type OnMissingApprovee func(approveeHash hornet.Hash) error

// TraverseApprovees starts to traverse the approvees (past cone) of the given start transaction until
// the traversal stops due to no more transactions passing the given condition or maxVisits
// transactions were consumed. Genesis and the start transaction are never consumed.
func TraverseApprovees(storage TransactionStorage, startTxHash hornet.Hash, maxVisits int, condition Predicate, consumer Consumer, onMissingApprovee OnMissingApprovee) error {

	if startTxHash.IsNull() {
		return nil
	}

	visits := 0
	processed := map[string]struct{}{startTxHash.ToMapKey(): {}}
	txsToTraverse := []hornet.Hash{startTxHash}

	for len(txsToTraverse) != 0 {
		txHash := txsToTraverse[0]
		txsToTraverse = txsToTraverse[1:]

		tx, err := storage.Transaction(txHash)
		if err != nil {
			return err
		}

		if !txHash.Equal(startTxHash) {
			if condition != nil && !condition(tx) {
				continue
			}

			if visits >= maxVisits {
				return nil
			}
			visits++

			if consumer != nil {
				consumer(tx)
			}
		}

		approvees := hornet.Hashes{tx.TrunkHash(), tx.BranchHash()}
		for _, approveeHash := range approvees {
			if approveeHash.IsNull() {
				continue
			}

			if _, checked := processed[approveeHash.ToMapKey()]; checked {
				continue
			}
			processed[approveeHash.ToMapKey()] = struct{}{}

			if _, err := storage.Transaction(approveeHash); err != nil {
				if !errors.Is(err, common.ErrTransactionNotFound) {
					return err
				}
				if onMissingApprovee == nil {
					return err
				}
				if err := onMissingApprovee(approveeHash); err != nil {
					return err
				}
				continue
			}

			txsToTraverse = append(txsToTraverse, approveeHash)
		}
	}

	return nil
}

// PastConeSize returns the number of distinct transactions referenced by the given transaction,
// excluding itself and genesis. The result is bounded by limit.
// Missing approvees are not counted.
func PastConeSize(storage TransactionStorage, txHash hornet.Hash, limit int) (int, error) {

	size := 0
	if err := TraverseApprovees(storage, txHash, limit, nil, func(_ *hornet.Transaction) {
		size++
	}, func(_ hornet.Hash) error {
		return nil
	}); err != nil {
		return 0, err
	}

	return size, nil
}

// StepsBack follows the trunk references of the given transaction for at most steps hops.
// It stops early at genesis.
func StepsBack(storage TransactionStorage, txHash hornet.Hash, steps int) (hornet.Hash, error) {

	current := txHash
	for i := 0; i < steps && !current.IsNull(); i++ {
		tx, err := storage.Transaction(current)
		if err != nil {
			return nil, err
		}
		current = tx.TrunkHash()
	}

	return current, nil
}
