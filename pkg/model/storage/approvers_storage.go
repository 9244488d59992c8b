package storage

import (
	"github.com/pkg/errors"

	"github.com/iotaledger/hive.go/kvstore"

	"github.com/gohornet/tipsel/pkg/common"
	"github.com/gohornet/tipsel/pkg/model/hornet"
)

// ApproverConsumer consumes the given approver during looping through all approvers of a transaction.
// Returning false stops the iteration.
type ApproverConsumer func(approver *hornet.Approver) bool

// ForEachApprover loops over all approver entries of the given transaction.
func (s *Storage) ForEachApprover(txHash hornet.Hash, consumer ApproverConsumer) error {

	var innerErr error
	if err := s.approversStore.IterateKeys(txHash, func(key kvstore.Key) bool {
		approver, err := hornet.ApproverFromKey(key)
		if err != nil {
			innerErr = err
			return false
		}
		return consumer(approver)
	}); err != nil {
		return errors.Wrap(common.NewDatabaseError(err), "failed to iterate approvers")
	}

	return innerErr
}

// ApproverHashes returns the hashes of all approvers of the given transaction.
// There is one element per approval entry, so a transaction that approves
// the given one via trunk and branch is contained twice.
func (s *Storage) ApproverHashes(txHash hornet.Hash) (hornet.Hashes, error) {

	var approverHashes hornet.Hashes
	if err := s.ForEachApprover(txHash, func(approver *hornet.Approver) bool {
		approverHashes = append(approverHashes, approver.ApproverHash)
		return true
	}); err != nil {
		return nil, err
	}

	return approverHashes, nil
}

// HasApprovers returns whether the given transaction is approved by any other transaction.
func (s *Storage) HasApprovers(txHash hornet.Hash) (bool, error) {

	found := false
	if err := s.ForEachApprover(txHash, func(_ *hornet.Approver) bool {
		found = true
		return false
	}); err != nil {
		return false, err
	}

	return found, nil
}

func approverKey(approver *hornet.Approver) []byte {
	return append([]byte{common.StorePrefixApprovers}, approver.StorageKey()...)
}
