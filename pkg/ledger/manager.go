package ledger

import (
	"github.com/pkg/errors"

	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/marshalutil"
	"github.com/iotaledger/hive.go/syncutils"
	"github.com/iotaledger/iota.go/consts"

	"github.com/gohornet/tipsel/pkg/common"
	"github.com/gohornet/tipsel/pkg/model/hornet"
)

var (
	// ErrInvalidBalancesTotalSupply is returned when the sum of all balances does not match total supply.
	ErrInvalidBalancesTotalSupply = errors.New("invalid balances total supply")
)

// Manager holds the confirmed balances of all addresses.
type Manager struct {
	balancesStorage kvstore.KVStore
	ledgerLock      syncutils.RWMutex
}

// New creates a new ledger Manager on top of the given key value store.
func New(store kvstore.KVStore) *Manager {
	return &Manager{
		balancesStorage: store.WithRealm([]byte{common.StorePrefixBalances}),
	}
}

func (m *Manager) ReadLockLedger() {
	m.ledgerLock.RLock()
}

func (m *Manager) ReadUnlockLedger() {
	m.ledgerLock.RUnlock()
}

func (m *Manager) WriteLockLedger() {
	m.ledgerLock.Lock()
}

func (m *Manager) WriteUnlockLedger() {
	m.ledgerLock.Unlock()
}

func balanceFromBytes(value []byte) (uint64, error) {
	return marshalutil.New(value).ReadUint64()
}

func bytesFromBalance(balance uint64) []byte {
	marshalUtil := marshalutil.New(8)
	marshalUtil.WriteUint64(balance)
	return marshalUtil.Bytes()
}

// StoreBalances replaces the balances of the given addresses.
// The map is keyed by the address map key. Zero balances are removed.
func (m *Manager) StoreBalances(balances map[string]uint64) error {

	m.WriteLockLedger()
	defer m.WriteUnlockLedger()

	mutations := m.balancesStorage.Batched()

	for addressMapKey, balance := range balances {
		address := hornet.HashFromMapKey(addressMapKey)

		if balance == 0 {
			if err := mutations.Delete(address); err != nil {
				mutations.Cancel()
				return errors.Wrap(common.NewDatabaseError(err), "failed to delete balance")
			}
			continue
		}

		if err := mutations.Set(address, bytesFromBalance(balance)); err != nil {
			mutations.Cancel()
			return errors.Wrap(common.NewDatabaseError(err), "failed to store balance")
		}
	}

	if err := mutations.Commit(); err != nil {
		return errors.Wrap(common.NewDatabaseError(err), "failed to commit balances")
	}

	return nil
}

// Balance returns the confirmed balance of the given address.
func (m *Manager) Balance(address hornet.Hash) (uint64, error) {

	m.ReadLockLedger()
	defer m.ReadUnlockLedger()

	return m.BalanceWithoutLocking(address)
}

// BalanceWithoutLocking returns the confirmed balance of the given address.
// The caller must hold the ledger lock.
func (m *Manager) BalanceWithoutLocking(address hornet.Hash) (uint64, error) {

	value, err := m.balancesStorage.Get(address)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, errors.Wrap(common.NewDatabaseError(err), "failed to load balance")
	}

	balance, err := balanceFromBytes(value)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to parse balance of %s", address.Trytes())
	}

	return balance, nil
}

// CheckTotalSupply verifies that the sum of all balances equals the total supply.
func (m *Manager) CheckTotalSupply() error {

	m.ReadLockLedger()
	defer m.ReadUnlockLedger()

	var balanceSum uint64
	var innerErr error

	if err := m.balancesStorage.Iterate(kvstore.EmptyPrefix, func(key kvstore.Key, value kvstore.Value) bool {
		balance, err := balanceFromBytes(value)
		if err != nil {
			innerErr = err
			return false
		}

		balanceSum += balance
		return true
	}); err != nil {
		return errors.Wrap(common.NewDatabaseError(err), "failed to iterate balances")
	}

	if innerErr != nil {
		return innerErr
	}

	if balanceSum != consts.TotalSupply {
		return errors.Wrapf(ErrInvalidBalancesTotalSupply, "%d != %d", balanceSum, consts.TotalSupply)
	}

	return nil
}
