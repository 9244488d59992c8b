package testsuite

import (
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/iota.go/consts"
	"github.com/iotaledger/iota.go/transaction"
	"github.com/iotaledger/iota.go/trinary"

	"github.com/gohornet/tipsel/pkg/model/hornet"
	"github.com/gohornet/tipsel/pkg/utils"
)

// RandHash returns a random transaction hash.
func RandHash() hornet.Hash {
	return hornet.HashFromHashTrytes(RandHashTrytes())
}

// zeroHighTritTrytes holds the trytes whose highest trit is zero.
const zeroHighTritTrytes = "9ABCDWXYZ"

// RandHashTrytes returns random hash trytes.
// The last trit is always zero, so the result is also a valid Kerl input (e.g. a seed).
func RandHashTrytes() trinary.Hash {
	return utils.RandomTrytesInsecure(consts.HashTrytesSize-1, consts.TryteAlphabet) +
		utils.RandomTrytesInsecure(1, zeroHighTritTrytes)
}

// TransactionBuilder creates single transactions for the test tangle.
type TransactionBuilder struct {
	te *TestEnvironment

	txHash hornet.Hash
	trunk  hornet.Hash
	branch hornet.Hash

	bundle  hornet.Hash
	address hornet.Hash
	value   int64

	currentIndex uint64
	lastIndex    uint64

	notSolid bool
}

// NewTransactionBuilder returns a builder for a solid zero value tail transaction approving genesis.
func (te *TestEnvironment) NewTransactionBuilder() *TransactionBuilder {
	return &TransactionBuilder{
		te:      te,
		txHash:  RandHash(),
		trunk:   hornet.NullHashBytes,
		branch:  hornet.NullHashBytes,
		bundle:  RandHash(),
		address: RandHash(),
	}
}

func (b *TransactionBuilder) Hash(txHash hornet.Hash) *TransactionBuilder {
	b.txHash = txHash
	return b
}

// Parents sets trunk and branch of the transaction.
func (b *TransactionBuilder) Parents(trunk hornet.Hash, branch hornet.Hash) *TransactionBuilder {
	b.trunk = trunk
	b.branch = branch
	return b
}

func (b *TransactionBuilder) Bundle(bundle hornet.Hash) *TransactionBuilder {
	b.bundle = bundle
	return b
}

func (b *TransactionBuilder) Address(address hornet.Hash) *TransactionBuilder {
	b.address = address
	return b
}

func (b *TransactionBuilder) Value(value int64) *TransactionBuilder {
	b.value = value
	return b
}

// Index sets the position of the transaction inside its bundle.
func (b *TransactionBuilder) Index(currentIndex uint64, lastIndex uint64) *TransactionBuilder {
	b.currentIndex = currentIndex
	b.lastIndex = lastIndex
	return b
}

// NotSolid keeps the solid flag of the stored transaction unset.
func (b *TransactionBuilder) NotSolid() *TransactionBuilder {
	b.notSolid = true
	return b
}

// Build creates the transaction without storing it.
func (b *TransactionBuilder) Build() *hornet.Transaction {

	require.True(b.te.TestInterface, b.currentIndex <= b.lastIndex)

	return hornet.NewTransactionFromTx(&transaction.Transaction{
		Hash:                b.txHash.Trytes(),
		Address:             b.address.Trytes(),
		Value:               b.value,
		Timestamp:           uint64(time.Now().Unix()),
		CurrentIndex:        b.currentIndex,
		LastIndex:           b.lastIndex,
		Bundle:              b.bundle.Trytes(),
		TrunkTransaction:    b.trunk.Trytes(),
		BranchTransaction:   b.branch.Trytes(),
		AttachmentTimestamp: time.Now().UnixNano() / int64(time.Millisecond),
	})
}

// Store builds the transaction, stores it and marks it as solid unless NotSolid was set.
func (b *TransactionBuilder) Store() *hornet.Transaction {

	tx := b.Build()

	stored, err := b.te.storage.StoreTransaction(tx)
	require.NoError(b.te.TestInterface, err)
	require.True(b.te.TestInterface, stored)

	if !b.notSolid {
		_, err := b.te.storage.SetSolid(tx.TxHash())
		require.NoError(b.te.TestInterface, err)
	}

	return tx
}

// AttachTransaction stores a solid zero value tail transaction with the given parents.
func (te *TestEnvironment) AttachTransaction(trunk hornet.Hash, branch hornet.Hash) hornet.Hash {
	return te.NewTransactionBuilder().Parents(trunk, branch).Store().TxHash()
}

// BuildChain attaches length transactions, each approving the previous one with trunk and branch.
// The first transaction approves start. The hashes are returned in attachment order.
func (te *TestEnvironment) BuildChain(start hornet.Hash, length int) hornet.Hashes {

	chain := make(hornet.Hashes, 0, length)

	tip := start
	for i := 0; i < length; i++ {
		tip = te.AttachTransaction(tip, tip)
		chain = append(chain, tip)
	}

	return chain
}

// BuildStalk attaches a stalk of levels transactions on top of start. Every stalk transaction
// except the first one gets leavesPerLevel additional approvers that are not part of the stalk.
// The stalk hashes are returned in attachment order.
func (te *TestEnvironment) BuildStalk(start hornet.Hash, levels int, leavesPerLevel int) hornet.Hashes {

	stalk := hornet.Hashes{te.AttachTransaction(start, start)}

	for i := 0; i < levels-1; i++ {
		prev := stalk[len(stalk)-1]
		stalkTxHash := te.AttachTransaction(prev, prev)
		stalk = append(stalk, stalkTxHash)

		for j := 0; j < leavesPerLevel; j++ {
			te.AttachTransaction(stalkTxHash, stalkTxHash)
		}
	}

	return stalk
}

// Transfer is a single ledger change inside a bundle.
type Transfer struct {
	Address hornet.Hash
	Value   int64
}

// AttachBundle stores a bundle with one transaction per transfer.
// The head approves trunk and branch, every other transaction approves its successor and trunk.
// The transactions are returned ordered by their index, starting with the tail.
func (te *TestEnvironment) AttachBundle(trunk hornet.Hash, branch hornet.Hash, transfers ...Transfer) hornet.Transactions {

	require.NotEmpty(te.TestInterface, transfers)

	bundleHash := RandHash()
	lastIndex := uint64(len(transfers) - 1)

	txHashes := make(hornet.Hashes, len(transfers))
	for i := range txHashes {
		txHashes[i] = RandHash()
	}

	txs := make(hornet.Transactions, len(transfers))

	// store from head to tail, the tail is the last one that gets solid
	for i := len(transfers) - 1; i >= 0; i-- {
		txTrunk, txBranch := trunk, branch
		if uint64(i) != lastIndex {
			txTrunk, txBranch = txHashes[i+1], trunk
		}

		txs[i] = te.NewTransactionBuilder().
			Hash(txHashes[i]).
			Parents(txTrunk, txBranch).
			Bundle(bundleHash).
			Address(transfers[i].Address).
			Value(transfers[i].Value).
			Index(uint64(i), lastIndex).
			Store()
	}

	return txs
}

// SetSolid marks the given transaction as solid.
func (te *TestEnvironment) SetSolid(txHash hornet.Hash) {
	_, err := te.storage.SetSolid(txHash)
	require.NoError(te.TestInterface, err)
}
