package hornet

import (
	"sync"

	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/iotaledger/iota.go/transaction"
)

// Transaction is the immutable part of a stored transaction.
type Transaction struct {
	txHashOnce     sync.Once
	trunkHashOnce  sync.Once
	branchHashOnce sync.Once
	bundleHashOnce sync.Once
	addressOnce    sync.Once

	txHash     Hash
	trunkHash  Hash
	branchHash Hash
	bundleHash Hash
	address    Hash

	// Tx holds the trinary fields of the transaction.
	Tx *transaction.Transaction
}

func NewTransactionFromTx(tx *transaction.Transaction) *Transaction {
	return &Transaction{
		Tx: tx,
	}
}

func (tx *Transaction) TxHash() Hash {
	tx.txHashOnce.Do(func() {
		tx.txHash = HashFromHashTrytes(tx.Tx.Hash)
	})
	return tx.txHash
}

func (tx *Transaction) TrunkHash() Hash {
	tx.trunkHashOnce.Do(func() {
		tx.trunkHash = HashFromHashTrytes(tx.Tx.TrunkTransaction)
	})
	return tx.trunkHash
}

func (tx *Transaction) BranchHash() Hash {
	tx.branchHashOnce.Do(func() {
		tx.branchHash = HashFromHashTrytes(tx.Tx.BranchTransaction)
	})
	return tx.branchHash
}

func (tx *Transaction) BundleHash() Hash {
	tx.bundleHashOnce.Do(func() {
		tx.bundleHash = HashFromHashTrytes(tx.Tx.Bundle)
	})
	return tx.bundleHash
}

func (tx *Transaction) Address() Hash {
	tx.addressOnce.Do(func() {
		tx.address = HashFromHashTrytes(tx.Tx.Address)
	})
	return tx.address
}

func (tx *Transaction) Value() int64 {
	return tx.Tx.Value
}

func (tx *Transaction) CurrentIndex() uint64 {
	return tx.Tx.CurrentIndex
}

func (tx *Transaction) LastIndex() uint64 {
	return tx.Tx.LastIndex
}

// IsTail returns whether the transaction is the first transaction of its bundle.
func (tx *Transaction) IsTail() bool {
	return tx.Tx.CurrentIndex == 0
}

// IsHead returns whether the transaction is the last transaction of its bundle.
func (tx *Transaction) IsHead() bool {
	return tx.Tx.CurrentIndex == tx.Tx.LastIndex
}

// IsValue returns whether the transaction moves funds.
func (tx *Transaction) IsValue() bool {
	return tx.Tx.Value != 0
}

// Timestamp returns the attachment timestamp in seconds, or the issuance timestamp if it is not set.
func (tx *Transaction) Timestamp() int64 {
	if tx.Tx.AttachmentTimestamp != 0 {
		return tx.Tx.AttachmentTimestamp / 1000
	}
	return int64(tx.Tx.Timestamp)
}

// Bytes serializes the transaction without its hash, which is used as the storage key.
func (tx *Transaction) Bytes() []byte {
	/*
		49 bytes  trunk hash
		49 bytes  branch hash
		49 bytes  bundle hash
		49 bytes  address
		 8 bytes  int64 value
		 8 bytes  uint64 currentIndex
		 8 bytes  uint64 lastIndex
		 8 bytes  uint64 timestamp
		 8 bytes  int64 attachmentTimestamp
	*/

	marshalUtil := marshalutil.New(4*HashBytesLength + 5*8)
	marshalUtil.WriteBytes(tx.TrunkHash())
	marshalUtil.WriteBytes(tx.BranchHash())
	marshalUtil.WriteBytes(tx.BundleHash())
	marshalUtil.WriteBytes(tx.Address())
	marshalUtil.WriteInt64(tx.Tx.Value)
	marshalUtil.WriteUint64(tx.Tx.CurrentIndex)
	marshalUtil.WriteUint64(tx.Tx.LastIndex)
	marshalUtil.WriteUint64(tx.Tx.Timestamp)
	marshalUtil.WriteInt64(tx.Tx.AttachmentTimestamp)

	return marshalUtil.Bytes()
}

// TransactionFromBytes deserializes a transaction that was serialized with Bytes.
func TransactionFromBytes(txHash Hash, data []byte) (*Transaction, error) {

	marshalUtil := marshalutil.New(data)

	readHash := func() (Hash, error) {
		bytes, err := marshalUtil.ReadBytes(HashBytesLength)
		if err != nil {
			return nil, err
		}
		return HashFromSlice(bytes), nil
	}

	trunkHash, err := readHash()
	if err != nil {
		return nil, err
	}

	branchHash, err := readHash()
	if err != nil {
		return nil, err
	}

	bundleHash, err := readHash()
	if err != nil {
		return nil, err
	}

	address, err := readHash()
	if err != nil {
		return nil, err
	}

	value, err := marshalUtil.ReadInt64()
	if err != nil {
		return nil, err
	}

	currentIndex, err := marshalUtil.ReadUint64()
	if err != nil {
		return nil, err
	}

	lastIndex, err := marshalUtil.ReadUint64()
	if err != nil {
		return nil, err
	}

	timestamp, err := marshalUtil.ReadUint64()
	if err != nil {
		return nil, err
	}

	attachmentTimestamp, err := marshalUtil.ReadInt64()
	if err != nil {
		return nil, err
	}

	tx := &Transaction{
		Tx: &transaction.Transaction{
			Hash:                txHash.Trytes(),
			Address:             address.Trytes(),
			Value:               value,
			Timestamp:           timestamp,
			CurrentIndex:        currentIndex,
			LastIndex:           lastIndex,
			Bundle:              bundleHash.Trytes(),
			TrunkTransaction:    trunkHash.Trytes(),
			BranchTransaction:   branchHash.Trytes(),
			AttachmentTimestamp: attachmentTimestamp,
		},
	}

	// the binary hashes are already known, no need to convert them again
	tx.txHashOnce.Do(func() { tx.txHash = HashFromSlice(txHash) })
	tx.trunkHashOnce.Do(func() { tx.trunkHash = trunkHash })
	tx.branchHashOnce.Do(func() { tx.branchHash = branchHash })
	tx.bundleHashOnce.Do(func() { tx.bundleHash = bundleHash })
	tx.addressOnce.Do(func() { tx.address = address })

	return tx, nil
}

// Transactions is a slice of Transaction.
type Transactions []*Transaction

// Hashes returns the hashes of all transactions.
func (t Transactions) Hashes() Hashes {
	hashes := make(Hashes, len(t))
	for i, tx := range t {
		hashes[i] = tx.TxHash()
	}
	return hashes
}
