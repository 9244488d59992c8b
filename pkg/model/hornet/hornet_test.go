package hornet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/iota.go/consts"
	"github.com/iotaledger/iota.go/transaction"
	"github.com/iotaledger/iota.go/trinary"
)

const (
	testTxHash  = "RIQCSCSBTWSUDNADGPOYDVKSEXAWAJCNAHCOVYMASEZVBNLGUAJAOHELYVEWNNXPKQEZZPGDQSXNRTGPA"
	testTrunk   = "JSPKUXRXDUGWLFZFRBBKJHBRKNAOQHOZDKHWWVIJXJVUNTEKDBVJGJDZGPWWELDRXVGIUSKNITRBBBSEM"
	testBranch  = "QOMZUDIPSKWHLBRMZAVVLUNVNPOVHCMIFAEHECHKYVFWRHOMUDKCRDXRYZSNIBGARKCPZQONOLCRDOHRX"
	testBundle  = "9XRPRKYOJZSRGNSYXLXIVEAAPHISATHPRJMWXJUTOVYOHAVYRXLNBHGWVXPGUIQWPJAYSPXOERAXXQVZD"
	testAddress = "CBBBRXTLKIPIEDGQJJJHQXMMXDEMKJETXBVHJKMRZNHHZYQOTHRXEXBLKZOTDBFYJNGMURZQCVIOWFBDA"
)

func TestHashConversion(t *testing.T) {

	hash := HashFromHashTrytes(testTxHash)
	require.Len(t, hash, HashBytesLength)
	require.Equal(t, trinary.Hash(testTxHash), hash.Trytes())
	require.Equal(t, hash, HashFromMapKey(hash.ToMapKey()))
	require.False(t, hash.IsNull())

	genesis := HashFromHashTrytes(strings.Repeat("9", consts.HashTrytesSize))
	require.True(t, genesis.IsNull())
	require.True(t, genesis.Equal(NullHashBytes))
	require.Len(t, NullHashBytes.Trytes(), consts.HashTrytesSize)

	require.Panics(t, func() {
		HashFromSlice([]byte{1, 2, 3})
	})
}

func TestHashesRemoveDupsAndSortByLexicalOrder(t *testing.T) {

	a := HashFromHashTrytes(testTxHash)
	b := HashFromHashTrytes(testTrunk)
	c := HashFromHashTrytes(testBranch)

	sorted := Hashes{c, a, b, a, c}.RemoveDupsAndSortByLexicalOrder()
	require.Len(t, sorted, 3)
	for i := 1; i < len(sorted); i++ {
		require.Negative(t, bytes.Compare(sorted[i-1], sorted[i]))
	}
}

func TestTransactionSerialization(t *testing.T) {

	tx := NewTransactionFromTx(&transaction.Transaction{
		Hash:                testTxHash,
		Address:             testAddress,
		Value:               -1337,
		Timestamp:           1572868700,
		CurrentIndex:        0,
		LastIndex:           2,
		Bundle:              testBundle,
		TrunkTransaction:    testTrunk,
		BranchTransaction:   testBranch,
		AttachmentTimestamp: 1572868709012,
	})
	require.True(t, tx.IsTail())
	require.False(t, tx.IsHead())
	require.True(t, tx.IsValue())

	restored, err := TransactionFromBytes(tx.TxHash(), tx.Bytes())
	require.NoError(t, err)

	require.Equal(t, tx.Tx.Hash, restored.Tx.Hash)
	require.Equal(t, tx.Tx.Address, restored.Tx.Address)
	require.Equal(t, tx.Tx.Bundle, restored.Tx.Bundle)
	require.Equal(t, tx.Tx.TrunkTransaction, restored.Tx.TrunkTransaction)
	require.Equal(t, tx.Tx.BranchTransaction, restored.Tx.BranchTransaction)
	require.Equal(t, tx.Value(), restored.Value())
	require.Equal(t, tx.CurrentIndex(), restored.CurrentIndex())
	require.Equal(t, tx.LastIndex(), restored.LastIndex())
	require.Equal(t, tx.Timestamp(), restored.Timestamp())
	require.Equal(t, tx.Tx.AttachmentTimestamp, restored.Tx.AttachmentTimestamp)
	require.Equal(t, tx.TrunkHash(), restored.TrunkHash())

	_, err = TransactionFromBytes(tx.TxHash(), tx.Bytes()[:100])
	require.Error(t, err)
}

func TestTransactionMetadataSerialization(t *testing.T) {

	hash := HashFromHashTrytes(testTxHash)
	metadata := NewTransactionMetadata(hash)
	require.False(t, metadata.IsSolid())

	restored, err := TransactionMetadataFromBytes(hash, metadata.Bytes())
	require.NoError(t, err)
	require.False(t, restored.IsSolid())

	require.True(t, metadata.SetSolid())
	require.False(t, metadata.SetSolid())

	restored, err = TransactionMetadataFromBytes(hash, metadata.Bytes())
	require.NoError(t, err)
	require.True(t, restored.IsSolid())
	require.Equal(t, metadata.SolidificationTimestamp(), restored.SolidificationTimestamp())
	require.Equal(t, hash, restored.TxHash())
}

func TestApproverKey(t *testing.T) {

	tx := NewTransactionFromTx(&transaction.Transaction{
		Hash:              testTxHash,
		Address:           testAddress,
		Bundle:            testBundle,
		TrunkTransaction:  testTrunk,
		BranchTransaction: testTrunk,
	})

	approvers := ApproversForTransaction(tx)
	require.Len(t, approvers, 2)
	require.NotEqual(t, approvers[0].StorageKey(), approvers[1].StorageKey())

	for _, approver := range approvers {
		restored, err := ApproverFromKey(approver.StorageKey())
		require.NoError(t, err)
		require.Equal(t, approver, restored)
		require.Equal(t, tx.TrunkHash(), restored.TxHash)
		require.Equal(t, tx.TxHash(), restored.ApproverHash)
	}

	_, err := ApproverFromKey([]byte{1})
	require.Error(t, err)
}
