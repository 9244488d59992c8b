package test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/iotaledger/hive.go/events"

	"github.com/gohornet/tipsel/pkg/model/hornet"
	"github.com/gohornet/tipsel/pkg/testsuite"
	"github.com/gohornet/tipsel/pkg/tipselect"
)

func TestTipPool(t *testing.T) {

	te := testsuite.SetupTestEnvironment(t, map[string]uint64{})
	defer te.CleanupTestEnvironment()

	tipPool := tipselect.NewTipPool(te.Storage(), 2, 0)

	var added, removed int
	tipPool.Events.TipAdded.Attach(events.NewClosure(func(_ *tipselect.Tip) { added++ }))
	tipPool.Events.TipRemoved.Attach(events.NewClosure(func(_ *tipselect.Tip) { removed++ }))

	_, err := tipPool.RandomSolidTip()
	require.True(t, errors.Is(err, tipselect.ErrNoTipsAvailable))

	tip1 := te.AttachTransaction(hornet.NullHashBytes, hornet.NullHashBytes)
	require.NoError(t, tipPool.AddTip(tip1))
	require.NoError(t, tipPool.AddTip(tip1))
	require.Equal(t, 1, tipPool.Len())
	require.Equal(t, 1, added)

	tip, err := tipPool.RandomSolidTip()
	require.NoError(t, err)
	require.Equal(t, tip1, tip)

	// the first approver does not reach the maximum amount of approvers
	tip2 := te.AttachTransaction(tip1, hornet.NullHashBytes)
	require.NoError(t, tipPool.AddTip(tip2))
	require.Equal(t, 2, tipPool.Len())

	tip3 := te.AttachTransaction(tip1, tip2)
	require.NoError(t, tipPool.AddTip(tip3))
	require.Equal(t, hornet.Hashes{tip2, tip3}.RemoveDupsAndSortByLexicalOrder(), tipPool.Tips())
	require.Equal(t, 1, removed)

	tipPool.RemoveTip(tip2)
	tipPool.RemoveTip(tip2)
	require.Equal(t, hornet.Hashes{tip3}, tipPool.Tips())
	require.Equal(t, 2, removed)
}

func TestTipPoolRejectsInvalidTips(t *testing.T) {

	te := testsuite.SetupTestEnvironment(t, map[string]uint64{})
	defer te.CleanupTestEnvironment()

	tipPool := tipselect.NewTipPool(te.Storage(), 2, 0)

	notSolid := te.NewTransactionBuilder().NotSolid().Store()
	require.True(t, errors.Is(tipPool.AddTip(notSolid.TxHash()), tipselect.ErrTipNotSolid))

	head := te.NewTransactionBuilder().Index(1, 1).Store()
	require.True(t, errors.Is(tipPool.AddTip(head.TxHash()), tipselect.ErrTipNotTail))

	require.Error(t, tipPool.AddTip(testsuite.RandHash()))
	require.Zero(t, tipPool.Len())
}

func TestTipPoolLoadTips(t *testing.T) {

	te := testsuite.SetupTestEnvironment(t, map[string]uint64{})
	defer te.CleanupTestEnvironment()

	chainA := te.BuildChain(hornet.NullHashBytes, 5)
	chainB := te.BuildChain(chainA[1], 3)
	te.NewTransactionBuilder().Parents(chainB[2], chainB[2]).NotSolid().Store()

	tips, err := tipselect.CollectTips(te.Storage())
	require.NoError(t, err)
	require.Len(t, tips, 2)

	tipPool := tipselect.NewTipPool(te.Storage(), 2, 0)
	loaded, err := tipPool.LoadTips(te.Storage())
	require.NoError(t, err)
	require.Equal(t, 1, loaded)
	require.Equal(t, hornet.Hashes{chainA[4]}, tipPool.Tips())

	solidTip, err := tipselect.NewSolidTipSelector(tipPool, nil).Tip()
	require.NoError(t, err)
	require.Equal(t, chainA[4], solidTip)
}

func TestSolidTipSelectorFallback(t *testing.T) {

	te := testsuite.SetupTestEnvironment(t, map[string]uint64{})
	defer te.CleanupTestEnvironment()

	tipPool := tipselect.NewTipPool(te.Storage(), 2, 0)

	tip, err := tipselect.NewSolidTipSelector(tipPool, nil).Tip()
	require.NoError(t, err)
	require.True(t, tip.IsNull())

	tip, err = tipselect.NewSolidTipSelector(tipPool, &staticTipSelector{tip: testsuite.RandHash()}).Tip()
	require.NoError(t, err)
	require.False(t, tip.IsNull())

	tip, err = tipselect.GenesisTipSelector{}.Tip()
	require.NoError(t, err)
	require.True(t, tip.IsNull())
}

func TestHeaviestTipSelector(t *testing.T) {

	te := testsuite.SetupTestEnvironment(t, map[string]uint64{})
	defer te.CleanupTestEnvironment()

	tip, err := tipselect.NewHeaviestTipSelector(te.Storage(), 100).Tip()
	require.NoError(t, err)
	require.True(t, tip.IsNull())

	shortChain := te.BuildChain(hornet.NullHashBytes, 4)
	longChain := te.BuildChain(hornet.NullHashBytes, 8)

	tip, err = tipselect.NewHeaviestTipSelector(te.Storage(), 100).Tip()
	require.NoError(t, err)
	require.Equal(t, longChain[7], tip)

	// both past cones are cut at the bound, the lexically smaller tip wins
	tip, err = tipselect.NewHeaviestTipSelector(te.Storage(), 3).Tip()
	require.NoError(t, err)
	require.Equal(t, hornet.Hashes{shortChain[3], longChain[7]}.RemoveDupsAndSortByLexicalOrder()[0], tip)

	// a tip merging both chains references everything
	merged := te.AttachTransaction(shortChain[3], longChain[7])
	tip, err = tipselect.NewHeaviestTipSelector(te.Storage(), 100).Tip()
	require.NoError(t, err)
	require.Equal(t, merged, tip)
}
