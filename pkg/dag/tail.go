package dag

import (
	"github.com/pkg/errors"

	"github.com/gohornet/tipsel/pkg/common"
	"github.com/gohornet/tipsel/pkg/model/hornet"
)

var (
	// ErrNotATail is returned if a bundle is requested for a transaction that is not a tail.
	ErrNotATail = errors.New("transaction is not a tail")
	// ErrBundleIncomplete is returned if not all transactions of a bundle are known.
	ErrBundleIncomplete = errors.New("bundle is incomplete")
)

// FindTail walks from the given transaction to the tail of its bundle.
// Genesis is its own tail. It returns false if the chain towards the tail is broken.
func FindTail(storage TraverserStorage, txHash hornet.Hash) (hornet.Hash, bool, error) {

	if txHash.IsNull() {
		return hornet.NullHashBytes, true, nil
	}

	current, err := storage.Transaction(txHash)
	if err != nil {
		return nil, false, err
	}

	// the index decreases with every hop, so this terminates
	for !current.IsTail() {
		approverHashes, err := storage.ApproverHashes(current.TxHash())
		if err != nil {
			return nil, false, err
		}

		var previous *hornet.Transaction
		for _, approverHash := range approverHashes {
			approver, err := storage.Transaction(approverHash)
			if err != nil {
				return nil, false, err
			}

			if approver.CurrentIndex()+1 == current.CurrentIndex() &&
				approver.BundleHash().Equal(current.BundleHash()) &&
				approver.TrunkHash().Equal(current.TxHash()) {
				previous = approver
				break
			}
		}

		if previous == nil {
			return nil, false, nil
		}
		current = previous
	}

	return current.TxHash(), true, nil
}

// TailFinder finds the tail of the bundle a transaction belongs to.
type TailFinder struct {
	storage TraverserStorage
}

// NewTailFinder creates a TailFinder on top of the given storage.
func NewTailFinder(storage TraverserStorage) *TailFinder {
	return &TailFinder{storage: storage}
}

// FindTail returns the tail of the bundle the given transaction belongs to.
func (f *TailFinder) FindTail(txHash hornet.Hash) (hornet.Hash, bool, error) {
	return FindTail(f.storage, txHash)
}

// Bundle loads all transactions of the bundle starting at the given tail by following the trunk references.
func Bundle(storage TransactionStorage, tailTxHash hornet.Hash) (hornet.Transactions, error) {

	tx, err := storage.Transaction(tailTxHash)
	if err != nil {
		return nil, err
	}

	if !tx.IsTail() {
		return nil, errors.Wrapf(ErrNotATail, "hash: %s", tailTxHash.Trytes())
	}

	bundle := hornet.Transactions{tx}
	for !tx.IsHead() {
		next, err := storage.Transaction(tx.TrunkHash())
		if err != nil {
			if errors.Is(err, common.ErrTransactionNotFound) {
				return nil, errors.Wrapf(ErrBundleIncomplete, "tail: %s, missing index: %d", tailTxHash.Trytes(), tx.CurrentIndex()+1)
			}
			return nil, err
		}

		if !next.BundleHash().Equal(tx.BundleHash()) ||
			next.CurrentIndex() != tx.CurrentIndex()+1 ||
			next.LastIndex() != tx.LastIndex() {
			return nil, errors.Wrapf(ErrBundleIncomplete, "tail: %s, broken at index: %d", tailTxHash.Trytes(), tx.CurrentIndex()+1)
		}

		bundle = append(bundle, next)
		tx = next
	}

	return bundle, nil
}
