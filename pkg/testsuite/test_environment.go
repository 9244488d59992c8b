package testsuite

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/kvstore/mapdb"
	"github.com/iotaledger/iota.go/consts"

	"github.com/gohornet/tipsel/pkg/dag"
	"github.com/gohornet/tipsel/pkg/ledger"
	"github.com/gohornet/tipsel/pkg/model/hornet"
	"github.com/gohornet/tipsel/pkg/model/storage"
)

// TestEnvironment holds the state of the test environment.
type TestEnvironment struct {
	// TestInterface is the interface of the current test case.
	TestInterface testing.TB

	// store is the temporary key value store for the test.
	store kvstore.KVStore

	// storage is the tangle storage of the test.
	storage *storage.Storage

	// ledgerManager holds the balances of the test.
	ledgerManager *ledger.Manager

	// ledgerService checks the consistency of cones against the balances.
	ledgerService *ledger.Service
}

// SetupTestEnvironment initializes a clean in-memory database with the given initial balances.
// The remaining supply is moved to the genesis address.
func SetupTestEnvironment(testInterface testing.TB, initialBalances map[string]uint64) *TestEnvironment {

	te := &TestEnvironment{
		TestInterface: testInterface,
		store:         mapdb.NewMapDB(),
	}

	var err error
	te.storage, err = storage.New(te.store)
	require.NoError(te.TestInterface, err)

	te.ledgerManager = ledger.New(te.store)
	te.ledgerService = ledger.NewService(nil, te.storage, te.ledgerManager)

	balances := make(map[string]uint64, len(initialBalances)+1)
	var sum uint64
	for address, value := range initialBalances {
		balances[address] = value
		sum += value
	}

	// move remaining supply to 999..999
	balances[hornet.NullHashBytes.ToMapKey()] += consts.TotalSupply - sum

	require.NoError(te.TestInterface, te.ledgerManager.StoreBalances(balances))
	te.AssertTotalSupplyStillValid()

	return te
}

// Storage returns the tangle storage of the test environment.
func (te *TestEnvironment) Storage() *storage.Storage {
	return te.storage
}

// LedgerManager returns the ledger manager of the test environment.
func (te *TestEnvironment) LedgerManager() *ledger.Manager {
	return te.ledgerManager
}

// LedgerService returns the ledger service of the test environment.
func (te *TestEnvironment) LedgerService() *ledger.Service {
	return te.ledgerService
}

// TailFinder returns a tail finder working on the storage of the test environment.
func (te *TestEnvironment) TailFinder() *dag.TailFinder {
	return dag.NewTailFinder(te.storage)
}

// CleanupTestEnvironment cleans up everything at the end of the test.
func (te *TestEnvironment) CleanupTestEnvironment() {
	require.NoError(te.TestInterface, te.storage.FlushAndClose())
}
