package test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/gohornet/tipsel/pkg/common"
	"github.com/gohornet/tipsel/pkg/dag"
	"github.com/gohornet/tipsel/pkg/model/hornet"
	"github.com/gohornet/tipsel/pkg/testsuite"
)

func TestFindTail(t *testing.T) {

	te := testsuite.SetupTestEnvironment(t, map[string]uint64{})
	defer te.CleanupTestEnvironment()

	bundle := te.AttachBundle(hornet.NullHashBytes, hornet.NullHashBytes,
		testsuite.Transfer{Address: testsuite.RandHash()},
		testsuite.Transfer{Address: testsuite.RandHash()},
		testsuite.Transfer{Address: testsuite.RandHash()},
	)

	for _, tx := range bundle {
		tail, found, err := dag.FindTail(te.Storage(), tx.TxHash())
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, bundle[0].TxHash(), tail)
	}

	tail, found, err := te.TailFinder().FindTail(hornet.NullHashBytes)
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, tail.IsNull())

	// the tail of this head was never attached
	head := te.NewTransactionBuilder().Index(2, 2).Store()
	_, found, err = dag.FindTail(te.Storage(), head.TxHash())
	require.NoError(t, err)
	require.False(t, found)

	_, _, err = dag.FindTail(te.Storage(), testsuite.RandHash())
	require.True(t, errors.Is(err, common.ErrTransactionNotFound))
}

func TestBundle(t *testing.T) {

	te := testsuite.SetupTestEnvironment(t, map[string]uint64{})
	defer te.CleanupTestEnvironment()

	addressA := testsuite.RandHash()
	addressB := testsuite.RandHash()

	txs := te.AttachBundle(hornet.NullHashBytes, hornet.NullHashBytes,
		testsuite.Transfer{Address: addressA, Value: -10},
		testsuite.Transfer{Address: addressB, Value: 10},
	)

	bundle, err := dag.Bundle(te.Storage(), txs[0].TxHash())
	require.NoError(t, err)
	require.Equal(t, txs.Hashes(), bundle.Hashes())
	require.True(t, bundle[len(bundle)-1].IsHead())

	_, err = dag.Bundle(te.Storage(), txs[1].TxHash())
	require.True(t, errors.Is(err, dag.ErrNotATail))

	incompleteTail := te.NewTransactionBuilder().Index(0, 1).Parents(testsuite.RandHash(), hornet.NullHashBytes).Store()
	_, err = dag.Bundle(te.Storage(), incompleteTail.TxHash())
	require.True(t, errors.Is(err, dag.ErrBundleIncomplete))

	// the trunk belongs to another bundle
	foreignTrunk := te.AttachTransaction(hornet.NullHashBytes, hornet.NullHashBytes)
	brokenTail := te.NewTransactionBuilder().Index(0, 1).Parents(foreignTrunk, hornet.NullHashBytes).Store()
	_, err = dag.Bundle(te.Storage(), brokenTail.TxHash())
	require.True(t, errors.Is(err, dag.ErrBundleIncomplete))
}

func TestStepsBack(t *testing.T) {

	te := testsuite.SetupTestEnvironment(t, map[string]uint64{})
	defer te.CleanupTestEnvironment()

	chain := te.BuildChain(hornet.NullHashBytes, 10)
	tip := chain[9]

	hash, err := dag.StepsBack(te.Storage(), tip, 0)
	require.NoError(t, err)
	require.Equal(t, tip, hash)

	hash, err = dag.StepsBack(te.Storage(), tip, 4)
	require.NoError(t, err)
	require.Equal(t, chain[5], hash)

	// stops at genesis
	hash, err = dag.StepsBack(te.Storage(), tip, 100)
	require.NoError(t, err)
	require.True(t, hash.IsNull())

	_, err = dag.StepsBack(te.Storage(), testsuite.RandHash(), 1)
	require.True(t, errors.Is(err, common.ErrTransactionNotFound))
}

func TestPastConeSize(t *testing.T) {

	te := testsuite.SetupTestEnvironment(t, map[string]uint64{})
	defer te.CleanupTestEnvironment()

	left := te.BuildChain(hornet.NullHashBytes, 5)
	right := te.BuildChain(left[1], 3)
	merged := te.AttachTransaction(left[4], right[2])

	size, err := dag.PastConeSize(te.Storage(), merged, 100)
	require.NoError(t, err)
	require.Equal(t, 8, size)

	size, err = dag.PastConeSize(te.Storage(), merged, 4)
	require.NoError(t, err)
	require.Equal(t, 4, size)

	size, err = dag.PastConeSize(te.Storage(), hornet.NullHashBytes, 100)
	require.NoError(t, err)
	require.Zero(t, size)

	// unknown approvees are not counted
	orphan := te.AttachTransaction(testsuite.RandHash(), left[0])
	size, err = dag.PastConeSize(te.Storage(), orphan, 100)
	require.NoError(t, err)
	require.Equal(t, 1, size)
}

func TestFindAllTails(t *testing.T) {

	te := testsuite.SetupTestEnvironment(t, map[string]uint64{})
	defer te.CleanupTestEnvironment()

	tailA := te.AttachTransaction(hornet.NullHashBytes, hornet.NullHashBytes)
	bundle := te.AttachBundle(tailA, hornet.NullHashBytes,
		testsuite.Transfer{Address: testsuite.RandHash()},
		testsuite.Transfer{Address: testsuite.RandHash()},
	)
	tip := te.AttachTransaction(bundle[0].TxHash(), tailA)

	tails, err := dag.FindAllTails(te.Storage(), tip, true)
	require.NoError(t, err)
	require.Len(t, tails, 2)
	require.Contains(t, tails, tailA.ToMapKey())
	require.Contains(t, tails, bundle[0].TxHash().ToMapKey())

	// the start transaction is a tail itself
	tails, err = dag.FindAllTails(te.Storage(), tip, false)
	require.NoError(t, err)
	require.Len(t, tails, 1)
	require.Contains(t, tails, tip.ToMapKey())

	// the traversal goes through the non-tail head down to its trunk
	tails, err = dag.FindAllTails(te.Storage(), bundle[1].TxHash(), false)
	require.NoError(t, err)
	require.Len(t, tails, 1)
	require.Contains(t, tails, tailA.ToMapKey())

	_, err = dag.FindAllTails(te.Storage(), testsuite.RandHash(), true)
	require.True(t, errors.Is(err, dag.ErrFindAllTailsFailed))
}

func TestFutureConeTraverser(t *testing.T) {

	te := testsuite.SetupTestEnvironment(t, map[string]uint64{})
	defer te.CleanupTestEnvironment()

	stalk := te.BuildStalk(hornet.NullHashBytes, 5, 2)
	traverser := dag.NewFutureConeTraverser(te.Storage())

	entries := 0
	discovered := 0
	require.NoError(t, traverser.Traverse(stalk[0], 1000, func(_ hornet.Hash, _ hornet.Hash, isNew bool) bool {
		entries++
		if isNew {
			discovered++
		}
		return true
	}))

	// 4 further stalk levels with 2 leaves each, every transaction approves twice
	require.Equal(t, 12, discovered)
	require.Equal(t, 24, entries)

	// the traverser is reusable and respects the bound
	discovered = 0
	require.NoError(t, traverser.Traverse(stalk[0], 5, func(_ hornet.Hash, _ hornet.Hash, isNew bool) bool {
		if isNew {
			discovered++
		}
		return true
	}))
	require.Equal(t, 5, discovered)

	entries = 0
	require.NoError(t, traverser.Traverse(stalk[0], 1000, func(_ hornet.Hash, _ hornet.Hash, _ bool) bool {
		entries++
		return entries < 3
	}))
	require.Equal(t, 3, entries)
}
