package storage

import (
	"github.com/pkg/errors"

	"github.com/iotaledger/hive.go/kvstore"

	"github.com/gohornet/tipsel/pkg/common"
	"github.com/gohornet/tipsel/pkg/model/hornet"
)

// TransactionHashConsumer consumes the given transaction hash during looping through all transactions.
// Returning false stops the iteration.
type TransactionHashConsumer func(txHash hornet.Hash) bool

// StoreTransaction persists the transaction together with empty metadata and its approver entries.
// It returns false if the transaction was already known.
func (s *Storage) StoreTransaction(tx *hornet.Transaction) (bool, error) {

	txHash := tx.TxHash()
	if txHash.IsNull() {
		return false, errors.New("the genesis transaction can not be stored")
	}

	contains, err := s.ContainsTransaction(txHash)
	if err != nil {
		return false, err
	}
	if contains {
		return false, nil
	}

	mutations := s.tangleStore.Batched()

	if err := mutations.Set(transactionKey(txHash), tx.Bytes()); err != nil {
		mutations.Cancel()
		return false, errors.Wrap(common.NewDatabaseError(err), "failed to store transaction")
	}

	if err := mutations.Set(metadataKey(txHash), hornet.NewTransactionMetadata(txHash).Bytes()); err != nil {
		mutations.Cancel()
		return false, errors.Wrap(common.NewDatabaseError(err), "failed to store transaction metadata")
	}

	for _, approver := range hornet.ApproversForTransaction(tx) {
		if err := mutations.Set(approverKey(approver), []byte{}); err != nil {
			mutations.Cancel()
			return false, errors.Wrap(common.NewDatabaseError(err), "failed to store approver")
		}
	}

	if err := mutations.Commit(); err != nil {
		return false, errors.Wrap(common.NewDatabaseError(err), "failed to commit transaction")
	}

	s.Events.TransactionStored.Trigger(txHash)

	return true, nil
}

// Transaction loads a transaction from the database.
// It returns an error wrapping common.ErrTransactionNotFound if the transaction is unknown.
func (s *Storage) Transaction(txHash hornet.Hash) (*hornet.Transaction, error) {

	value, err := s.transactionsStore.Get(txHash)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, errors.Wrapf(common.ErrTransactionNotFound, "hash: %s", txHash.Trytes())
		}
		return nil, errors.Wrap(common.NewDatabaseError(err), "failed to load transaction")
	}

	tx, err := hornet.TransactionFromBytes(txHash, value)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse transaction %s", txHash.Trytes())
	}

	return tx, nil
}

// ContainsTransaction returns whether the transaction is stored.
func (s *Storage) ContainsTransaction(txHash hornet.Hash) (bool, error) {

	contains, err := s.transactionsStore.Has(txHash)
	if err != nil {
		return false, errors.Wrap(common.NewDatabaseError(err), "failed to check transaction")
	}
	return contains, nil
}

// TransactionMetadata loads the metadata of a transaction from the database.
func (s *Storage) TransactionMetadata(txHash hornet.Hash) (*hornet.TransactionMetadata, error) {

	value, err := s.metadataStore.Get(txHash)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, errors.Wrapf(common.ErrTransactionNotFound, "metadata of hash: %s", txHash.Trytes())
		}
		return nil, errors.Wrap(common.NewDatabaseError(err), "failed to load transaction metadata")
	}

	metadata, err := hornet.TransactionMetadataFromBytes(txHash, value)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse transaction metadata %s", txHash.Trytes())
	}

	return metadata, nil
}

// SetSolid marks a stored transaction as solid.
// It returns false if the transaction was already solid.
func (s *Storage) SetSolid(txHash hornet.Hash) (bool, error) {

	s.metadataLock.Lock()
	defer s.metadataLock.Unlock()

	metadata, err := s.TransactionMetadata(txHash)
	if err != nil {
		return false, err
	}

	if !metadata.SetSolid() {
		return false, nil
	}

	if err := s.metadataStore.Set(txHash, metadata.Bytes()); err != nil {
		return false, errors.Wrap(common.NewDatabaseError(err), "failed to store transaction metadata")
	}

	s.Events.TransactionSolid.Trigger(txHash)

	return true, nil
}

// ForEachTransactionHash loops over all stored transaction hashes.
func (s *Storage) ForEachTransactionHash(consumer TransactionHashConsumer) error {

	var innerErr error
	if err := s.transactionsStore.IterateKeys(kvstore.EmptyPrefix, func(key kvstore.Key) bool {
		if len(key) != hornet.HashBytesLength {
			innerErr = errors.Errorf("invalid transaction key length: %d", len(key))
			return false
		}
		return consumer(hornet.HashFromSlice(key))
	}); err != nil {
		return errors.Wrap(common.NewDatabaseError(err), "failed to iterate transactions")
	}

	return innerErr
}

func transactionKey(txHash hornet.Hash) []byte {
	return append([]byte{common.StorePrefixTransactions}, txHash...)
}

func metadataKey(txHash hornet.Hash) []byte {
	return append([]byte{common.StorePrefixTransactionMetadata}, txHash...)
}
