package test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/iotaledger/hive.go/kvstore/mapdb"
	"github.com/iotaledger/iota.go/consts"

	"github.com/gohornet/tipsel/pkg/ledger"
	"github.com/gohornet/tipsel/pkg/model/hornet"
	"github.com/gohornet/tipsel/pkg/testsuite"
)

func TestManagerBalances(t *testing.T) {

	manager := ledger.New(mapdb.NewMapDB())

	addressA := testsuite.RandHash()
	addressB := testsuite.RandHash()

	require.NoError(t, manager.StoreBalances(map[string]uint64{
		addressA.ToMapKey(): 100,
		addressB.ToMapKey(): consts.TotalSupply - 100,
	}))
	require.NoError(t, manager.CheckTotalSupply())

	balance, err := manager.Balance(addressA)
	require.NoError(t, err)
	require.Equal(t, uint64(100), balance)

	balance, err = manager.Balance(testsuite.RandHash())
	require.NoError(t, err)
	require.Zero(t, balance)

	// a zero balance removes the address
	require.NoError(t, manager.StoreBalances(map[string]uint64{addressA.ToMapKey(): 0}))
	balance, err = manager.Balance(addressA)
	require.NoError(t, err)
	require.Zero(t, balance)

	err = manager.CheckTotalSupply()
	require.True(t, errors.Is(err, ledger.ErrInvalidBalancesTotalSupply))
}

func TestLedgerChanges(t *testing.T) {

	te := testsuite.SetupTestEnvironment(t, map[string]uint64{})
	defer te.CleanupTestEnvironment()

	addressA := testsuite.RandHash()
	addressB := testsuite.RandHash()

	bundle := te.AttachBundle(hornet.NullHashBytes, hornet.NullHashBytes,
		testsuite.Transfer{Address: addressA, Value: -10},
		testsuite.Transfer{Address: addressA, Value: 4},
		testsuite.Transfer{Address: addressB, Value: 6},
		testsuite.Transfer{Address: testsuite.RandHash()},
	)

	changes, err := ledger.LedgerChanges(bundle)
	require.NoError(t, err)
	require.Equal(t, map[string]int64{
		addressA.ToMapKey(): -6,
		addressB.ToMapKey(): 6,
	}, changes)

	// changes that cancel each other out are dropped
	loop := te.AttachBundle(hornet.NullHashBytes, hornet.NullHashBytes,
		testsuite.Transfer{Address: addressA, Value: -10},
		testsuite.Transfer{Address: addressA, Value: 10},
	)
	changes, err = ledger.LedgerChanges(loop)
	require.NoError(t, err)
	require.Empty(t, changes)

	invalid := te.AttachBundle(hornet.NullHashBytes, hornet.NullHashBytes,
		testsuite.Transfer{Address: addressA, Value: -10},
		testsuite.Transfer{Address: addressB, Value: 9},
	)
	_, err = ledger.LedgerChanges(invalid)
	require.True(t, errors.Is(err, ledger.ErrRefBundleNotValid))
}

func TestConeConsistency(t *testing.T) {

	addressA := testsuite.RandHash()
	addressB := testsuite.RandHash()
	addressC := testsuite.RandHash()

	te := testsuite.SetupTestEnvironment(t, map[string]uint64{addressA.ToMapKey(): 100})
	defer te.CleanupTestEnvironment()
	te.AssertAddressBalance(addressA, 100)
	te.AssertAddressBalance(hornet.NullHashBytes, consts.TotalSupply-100)

	spendAToB := te.AttachBundle(hornet.NullHashBytes, hornet.NullHashBytes,
		testsuite.Transfer{Address: addressA, Value: -100},
		testsuite.Transfer{Address: addressB, Value: 100},
	)

	// spends the funds B only gets inside the referenced cone
	spendBToC := te.AttachBundle(spendAToB[0].TxHash(), hornet.NullHashBytes,
		testsuite.Transfer{Address: addressB, Value: -60},
		testsuite.Transfer{Address: addressC, Value: 60},
	)

	// the same spend without referencing the funding bundle
	unfundedBToC := te.AttachBundle(hornet.NullHashBytes, hornet.NullHashBytes,
		testsuite.Transfer{Address: addressB, Value: -60},
		testsuite.Transfer{Address: addressC, Value: 60},
	)

	approved := make(map[string]struct{})
	diff := make(map[string]int64)

	consistent, err := te.LedgerService().IsBalanceDiffConsistent(approved, diff, unfundedBToC[0].TxHash())
	require.NoError(t, err)
	require.False(t, consistent)
	require.Empty(t, approved)
	require.Empty(t, diff)

	consistent, err = te.LedgerService().IsBalanceDiffConsistent(approved, diff, spendBToC[0].TxHash())
	require.NoError(t, err)
	require.True(t, consistent)
	require.Equal(t, map[string]int64{
		addressA.ToMapKey(): -100,
		addressB.ToMapKey(): 40,
		addressC.ToMapKey(): 60,
	}, diff)
	require.Contains(t, approved, spendAToB[0].TxHash().ToMapKey())
	require.Contains(t, approved, spendBToC[0].TxHash().ToMapKey())

	// with the walker diff applied, the unfunded spend is covered by B's remaining 40 only
	consistent, err = te.LedgerService().IsBalanceDiffConsistent(approved, diff, unfundedBToC[0].TxHash())
	require.NoError(t, err)
	require.False(t, consistent)

	// the ledger itself stays untouched
	te.AssertAddressBalance(addressA, 100)
	te.AssertAddressBalance(addressB, 0)
	te.AssertTotalSupplyStillValid()
}

func TestConeConsistencyZeroValue(t *testing.T) {

	te := testsuite.SetupTestEnvironment(t, map[string]uint64{})
	defer te.CleanupTestEnvironment()

	chain := te.BuildChain(hornet.NullHashBytes, 5)

	approved := make(map[string]struct{})
	diff := make(map[string]int64)

	consistent, err := te.LedgerService().IsBalanceDiffConsistent(approved, diff, chain[4])
	require.NoError(t, err)
	require.True(t, consistent)
	require.Empty(t, diff)
	for _, txHash := range chain {
		require.Contains(t, approved, txHash.ToMapKey())
	}

	// a missing transaction in the cone makes it incomplete
	orphan := te.AttachTransaction(testsuite.RandHash(), chain[4])
	consistent, err = te.LedgerService().IsBalanceDiffConsistent(approved, diff, orphan)
	require.NoError(t, err)
	require.False(t, consistent)
}
