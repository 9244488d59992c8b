package hornet

import (
	"fmt"
	"time"

	"github.com/iotaledger/hive.go/bitmask"
	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/iotaledger/hive.go/syncutils"
)

const (
	TransactionMetadataSolid = 0
)

// TransactionMetadata is the mutable part of a stored transaction.
type TransactionMetadata struct {
	syncutils.RWMutex

	txHash Hash

	// Metadata
	metadata bitmask.BitMask

	// Unix time when the Tx became solid
	solidificationTimestamp int32
}

func NewTransactionMetadata(txHash Hash) *TransactionMetadata {
	return &TransactionMetadata{
		txHash: txHash,
	}
}

func (m *TransactionMetadata) TxHash() Hash {
	return m.txHash
}

func (m *TransactionMetadata) SolidificationTimestamp() int32 {
	m.RLock()
	defer m.RUnlock()

	return m.solidificationTimestamp
}

func (m *TransactionMetadata) IsSolid() bool {
	m.RLock()
	defer m.RUnlock()

	return m.metadata.HasBit(TransactionMetadataSolid)
}

// SetSolid marks the transaction as solid.
// A solid transaction never becomes unsolid again, so it returns false if nothing changed.
func (m *TransactionMetadata) SetSolid() bool {
	m.Lock()
	defer m.Unlock()

	if m.metadata.HasBit(TransactionMetadataSolid) {
		return false
	}

	m.solidificationTimestamp = int32(time.Now().Unix())
	m.metadata = m.metadata.ModifyBit(TransactionMetadataSolid, true)
	return true
}

func (m *TransactionMetadata) Bytes() []byte {
	m.RLock()
	defer m.RUnlock()

	/*
		1 byte  metadata bitmask
		4 bytes uint32 solidificationTimestamp
	*/

	marshalUtil := marshalutil.New(5)
	marshalUtil.WriteByte(byte(m.metadata))
	marshalUtil.WriteUint32(uint32(m.solidificationTimestamp))

	return marshalUtil.Bytes()
}

func (m *TransactionMetadata) String() string {
	return fmt.Sprintf("TransactionMetadata{txHash: %s, solid: %t}", m.txHash.Trytes(), m.IsSolid())
}

// TransactionMetadataFromBytes deserializes metadata that was serialized with Bytes.
func TransactionMetadataFromBytes(txHash Hash, data []byte) (*TransactionMetadata, error) {

	marshalUtil := marshalutil.New(data)

	metadataByte, err := marshalUtil.ReadByte()
	if err != nil {
		return nil, err
	}

	solidificationTimestamp, err := marshalUtil.ReadUint32()
	if err != nil {
		return nil, err
	}

	m := NewTransactionMetadata(HashFromSlice(txHash))
	m.metadata = bitmask.BitMask(metadataByte)
	m.solidificationTimestamp = int32(solidificationTimestamp)

	return m, nil
}
