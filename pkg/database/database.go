package database

import (
	"github.com/iotaledger/hive.go/events"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/logger"

	"github.com/gohornet/tipsel/pkg/metrics"
)

// Engine is a supported database engine.
type Engine string

const (
	EngineUnknown Engine = "unknown"
	EnginePebble  Engine = "pebble"
	EngineMapDB   Engine = "mapdb"
)

// CompactionCaller is used to signal a change of the compaction state.
func CompactionCaller(handler interface{}, params ...interface{}) {
	handler.(func(bool))(params[0].(bool))
}

type Events struct {
	DatabaseCompaction *events.Event
}

// Database holds the underlying KVStore and database specific functions.
type Database struct {
	log                 *logger.Logger
	engine              Engine
	store               kvstore.KVStore
	events              *Events
	metrics             *metrics.DatabaseMetrics
	compactionSupported bool
}

// New creates a new Database instance.
func New(log *logger.Logger, engine Engine, kvStore kvstore.KVStore, events *Events, databaseMetrics *metrics.DatabaseMetrics, compactionSupported bool) *Database {
	return &Database{
		log:                 log,
		engine:              engine,
		store:               kvStore,
		events:              events,
		metrics:             databaseMetrics,
		compactionSupported: compactionSupported,
	}
}

// Engine returns the engine of the database.
func (db *Database) Engine() Engine {
	return db.engine
}

// KVStore returns the underlying KVStore.
func (db *Database) KVStore() kvstore.KVStore {
	return db.store
}

// Events returns the events of the database.
func (db *Database) Events() *Events {
	return db.events
}

// CompactionSupported returns whether the database engine supports compaction.
func (db *Database) CompactionSupported() bool {
	return db.compactionSupported
}

// CompactionRunning returns whether a compaction is running.
func (db *Database) CompactionRunning() bool {
	return db.metrics.CompactionRunning.Load()
}
