package ledger

import (
	"github.com/pkg/errors"

	"github.com/iotaledger/hive.go/logger"

	"github.com/gohornet/tipsel/pkg/common"
	"github.com/gohornet/tipsel/pkg/dag"
	"github.com/gohornet/tipsel/pkg/model/hornet"
	"github.com/gohornet/tipsel/pkg/utils"
)

var (
	ErrRefBundleNotValid    = errors.New("a referenced bundle is invalid")
	ErrRefBundleNotComplete = errors.New("a referenced bundle is not complete")
)

// Service checks whether the cone of a tail transaction is consistent with the confirmed ledger
// and the diff a walker accumulated so far.
type Service struct {
	// the logger used to log events.
	*utils.WrappedLogger

	storage dag.TransactionStorage
	manager *Manager
}

// NewService creates a new ledger Service.
func NewService(log *logger.Logger, storage dag.TransactionStorage, manager *Manager) *Service {
	return &Service{
		WrappedLogger: utils.NewWrappedLogger(log),
		storage:       storage,
		manager:       manager,
	}
}

// IsBalanceDiffConsistent checks whether the cone referenced by the given tail transaction is consistent with the current diff.
// this function mutates the approved, respectively walked transaction hashes and the diff with the cone diff,
// in case the tail transaction is consistent with the latest ledger state.
func (s *Service) IsBalanceDiffConsistent(approved map[string]struct{}, diff map[string]int64, tailTxHash hornet.Hash) (bool, error) {

	if _, alreadyApproved := approved[tailTxHash.ToMapKey()]; alreadyApproved {
		return true, nil
	}

	// make a copy of approved, respectively visited transactions
	visited := make(map[string]struct{}, len(approved))
	for k := range approved {
		visited[k] = struct{}{}
	}

	// compute the diff of the cone which the transaction references
	coneDiff, err := s.computeConeDiff(visited, tailTxHash)
	if err != nil {
		if errors.Is(err, ErrRefBundleNotValid) || errors.Is(err, ErrRefBundleNotComplete) {
			s.LogDebugf("cone of %s is inconsistent: %s", tailTxHash.Trytes(), err)
			return false, nil
		}
		return false, err
	}

	// if the cone didn't create any mutations, it is automatically consistent with our current diff
	if len(coneDiff) == 0 {
		// we still need to add the visited txs during the cone diff computation
		for k := range visited {
			approved[k] = struct{}{}
		}
		return true, nil
	}

	// apply the walker diff to the cone diff
	for addr, change := range diff {
		coneDiff[addr] += change
	}

	s.manager.ReadLockLedger()
	defer s.manager.ReadUnlockLedger()

	// compute a patched state of the ledger where we would have applied the cone diff to it
	for addr, change := range coneDiff {
		currentLedgerBalance, err := s.manager.BalanceWithoutLocking(hornet.HashFromMapKey(addr))
		if err != nil {
			return false, err
		}

		// if the balance is negative after applying the change, the cone diff is not
		// consistent with the latest ledger state
		if change+int64(currentLedgerBalance) < 0 {
			s.LogDebugf("cone of %s would lead to a negative balance on %s", tailTxHash.Trytes(), hornet.HashFromMapKey(addr).Trytes())
			return false, nil
		}
	}

	// replace our diff with entries from the cone diff (which now represents the aggregated mutation).
	// we can't just take the cone diff, as we might be in the second walk and therefore would lose the diffs
	// from the first walk, which are not part of this tail transaction's cone
	for addr, change := range coneDiff {
		diff[addr] = change
	}

	// add all visited txs to the approved set
	for k := range visited {
		approved[k] = struct{}{}
	}

	return true, nil
}

// computeConeDiff collects all mutations of the not yet visited transactions directly/indirectly referenced by the given tail.
func (s *Service) computeConeDiff(visited map[string]struct{}, tailTxHash hornet.Hash) (map[string]int64, error) {

	coneDiff := make(map[string]int64)
	txsToTraverse := map[string]struct{}{tailTxHash.ToMapKey(): {}}

	for len(txsToTraverse) != 0 {
		for txMapKey := range txsToTraverse {
			delete(txsToTraverse, txMapKey)

			if _, alreadyVisited := visited[txMapKey]; alreadyVisited {
				continue
			}
			visited[txMapKey] = struct{}{}

			txHash := hornet.HashFromMapKey(txMapKey)
			if txHash.IsNull() {
				continue
			}

			tx, err := s.storage.Transaction(txHash)
			if err != nil {
				if errors.Is(err, common.ErrTransactionNotFound) {
					return nil, errors.Wrapf(ErrRefBundleNotComplete, "%s", err)
				}
				return nil, err
			}

			// we only load up bundles when we're traversing tails, so we don't
			// check the same bundle twice, however, we still add the trunk and branch of the
			// bundle transaction to ensure, that if a transaction within the bundle would reference
			// another trunk (as seen from the view of the bundle), we'd get that cone too.
			if !tx.IsTail() {
				txsToTraverse[tx.TrunkHash().ToMapKey()] = struct{}{}
				txsToTraverse[tx.BranchHash().ToMapKey()] = struct{}{}
				continue
			}

			bundle, err := dag.Bundle(s.storage, txHash)
			if err != nil {
				if errors.Is(err, dag.ErrBundleIncomplete) {
					return nil, errors.Wrapf(ErrRefBundleNotComplete, "%s", err)
				}
				return nil, err
			}

			ledgerChanges, err := LedgerChanges(bundle)
			if err != nil {
				return nil, err
			}

			for addr, change := range ledgerChanges {
				coneDiff[addr] += change
			}

			txsToTraverse[tx.TrunkHash().ToMapKey()] = struct{}{}
			txsToTraverse[tx.BranchHash().ToMapKey()] = struct{}{}
		}
	}

	return coneDiff, nil
}

// LedgerChanges returns the balance changes per address of a complete bundle.
// The values of a valid bundle sum up to zero.
func LedgerChanges(bundle hornet.Transactions) (map[string]int64, error) {

	var sum int64
	changes := make(map[string]int64)
	for _, tx := range bundle {
		if tx.Value() == 0 {
			continue
		}
		sum += tx.Value()
		changes[tx.Address().ToMapKey()] += tx.Value()
	}

	if sum != 0 {
		return nil, errors.Wrapf(ErrRefBundleNotValid, "values of bundle %s sum up to %d", bundle[0].BundleHash().Trytes(), sum)
	}

	// drop addresses whose changes cancel each other out
	for addr, change := range changes {
		if change == 0 {
			delete(changes, addr)
		}
	}

	return changes, nil
}
