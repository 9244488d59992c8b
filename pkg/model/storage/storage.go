package storage

import (
	"github.com/pkg/errors"

	"github.com/iotaledger/hive.go/events"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/syncutils"

	"github.com/gohornet/tipsel/pkg/common"
	"github.com/gohornet/tipsel/pkg/model/hornet"
)

// TransactionCaller is used to signal a transaction related event.
func TransactionCaller(handler interface{}, params ...interface{}) {
	handler.(func(txHash hornet.Hash))(params[0].(hornet.Hash))
}

type packageEvents struct {
	// TransactionStored is triggered after a new transaction was persisted.
	TransactionStored *events.Event
	// TransactionSolid is triggered when a transaction was marked as solid.
	TransactionSolid *events.Event
}

// Storage is the access layer to the tangle database.
// It does not cache anything, every call hits the underlying key value store.
type Storage struct {
	tangleStore kvstore.KVStore

	// kv storages
	transactionsStore kvstore.KVStore
	metadataStore     kvstore.KVStore
	approversStore    kvstore.KVStore

	healthTracker *StoreHealthTracker

	// serializes read-modify-write cycles on the metadata
	metadataLock syncutils.Mutex

	// events
	Events *packageEvents
}

// New creates a new Storage on top of the given key value store.
func New(tangleStore kvstore.KVStore) (*Storage, error) {

	healthTracker, err := NewStoreHealthTracker(tangleStore)
	if err != nil {
		return nil, err
	}

	return &Storage{
		tangleStore:       tangleStore,
		transactionsStore: tangleStore.WithRealm([]byte{common.StorePrefixTransactions}),
		metadataStore:     tangleStore.WithRealm([]byte{common.StorePrefixTransactionMetadata}),
		approversStore:    tangleStore.WithRealm([]byte{common.StorePrefixApprovers}),
		healthTracker:     healthTracker,
		Events: &packageEvents{
			TransactionStored: events.NewEvent(TransactionCaller),
			TransactionSolid:  events.NewEvent(TransactionCaller),
		},
	}, nil
}

// TangleStore returns the underlying key value store.
func (s *Storage) TangleStore() kvstore.KVStore {
	return s.tangleStore
}

// HealthTracker returns the health tracker of the tangle database.
func (s *Storage) HealthTracker() *StoreHealthTracker {
	return s.healthTracker
}

// FlushAndClose flushes pending writes and closes the tangle database.
func (s *Storage) FlushAndClose() error {
	if err := s.tangleStore.Flush(); err != nil {
		return errors.Wrap(common.NewDatabaseError(err), "failed to flush tangle database")
	}
	if err := s.tangleStore.Close(); err != nil {
		return errors.Wrap(common.NewDatabaseError(err), "failed to close tangle database")
	}
	return nil
}
