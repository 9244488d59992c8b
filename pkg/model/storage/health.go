package storage

import (
	"github.com/pkg/errors"

	"github.com/iotaledger/hive.go/kvstore"

	"github.com/gohornet/tipsel/pkg/common"
)

const (
	DBVersion byte = 1
)

var (
	keyDatabaseCorrupted = []byte("dbCorrupted")
	keyDatabaseVersion   = []byte("dbVersion")
)

// StoreHealthTracker keeps track of the health status of a database.
type StoreHealthTracker struct {
	store kvstore.KVStore
}

func NewStoreHealthTracker(store kvstore.KVStore) (*StoreHealthTracker, error) {
	s := &StoreHealthTracker{
		store: store.WithRealm([]byte{common.StorePrefixHealth}),
	}
	if err := s.setDatabaseVersion(DBVersion); err != nil {
		return nil, err
	}
	return s, nil
}

// MarkCorrupted marks the database as corrupted, e.g. if it was not shut down gracefully.
func (s *StoreHealthTracker) MarkCorrupted() error {

	if err := s.store.Set(keyDatabaseCorrupted, []byte{}); err != nil {
		return errors.Wrap(common.NewDatabaseError(err), "failed to set database health status")
	}
	return s.store.Flush()
}

func (s *StoreHealthTracker) MarkHealthy() error {

	if err := s.store.Delete(keyDatabaseCorrupted); err != nil {
		return errors.Wrap(common.NewDatabaseError(err), "failed to set database health status")
	}
	return s.store.Flush()
}

func (s *StoreHealthTracker) IsCorrupted() (bool, error) {

	contains, err := s.store.Has(keyDatabaseCorrupted)
	if err != nil {
		return true, errors.Wrap(common.NewDatabaseError(err), "failed to read database health status")
	}
	return contains, nil
}

// DatabaseVersion returns the database version.
func (s *StoreHealthTracker) DatabaseVersion() (byte, error) {

	value, err := s.store.Get(keyDatabaseVersion)
	if err != nil {
		return 0, errors.Wrap(common.NewDatabaseError(err), "failed to read database version")
	}

	if len(value) < 1 {
		return 0, errors.New("failed to read database version: empty value")
	}

	return value[0], nil
}

func (s *StoreHealthTracker) setDatabaseVersion(version byte) error {

	_, err := s.store.Get(keyDatabaseVersion)
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		// only create the entry, if it doesn't exist already (fresh database)
		if err := s.store.Set(keyDatabaseVersion, []byte{version}); err != nil {
			return errors.Wrap(common.NewDatabaseError(err), "failed to set database version")
		}
		return nil
	}
	if err != nil {
		return errors.Wrap(common.NewDatabaseError(err), "failed to read database version")
	}
	return nil
}

func (s *StoreHealthTracker) CheckCorrectDatabaseVersion() (bool, error) {

	version, err := s.DatabaseVersion()
	if err != nil {
		return false, err
	}
	return version == DBVersion, nil
}
