package database

import (
	pebbleDB "github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/bloom"

	"github.com/iotaledger/hive.go/events"
	"github.com/iotaledger/hive.go/kvstore/pebble"
	"github.com/iotaledger/hive.go/logger"

	"github.com/gohornet/tipsel/pkg/metrics"
)

// NewPebbleDB creates a new pebble DB instance.
func NewPebbleDB(directory string, eventListener *pebbleDB.EventListener, verbose bool) (*pebbleDB.DB, error) {
	cache := pebbleDB.NewCache(128 << 20) // 128 MB
	defer cache.Unref()

	opts := &pebbleDB.Options{
		Cache:                       cache,
		DisableWAL:                  false,
		L0CompactionThreshold:       2,
		L0StopWritesThreshold:       1000,
		LBaseMaxBytes:               64 << 20, // 64 MB
		Levels:                      make([]pebbleDB.LevelOptions, 7),
		MaxConcurrentCompactions:    3,
		MaxOpenFiles:                16384,
		MemTableSize:                64 << 20,
		MemTableStopWritesThreshold: 4,
	}

	for i := 0; i < len(opts.Levels); i++ {
		l := &opts.Levels[i]
		l.BlockSize = 32 << 10       // 32 KB
		l.IndexBlockSize = 256 << 10 // 256 KB
		l.FilterPolicy = bloom.FilterPolicy(10)
		l.FilterType = pebbleDB.TableFilter
		if i > 0 {
			l.TargetFileSize = opts.Levels[i-1].TargetFileSize * 2
		}
		l.EnsureDefaults()
	}
	opts.Levels[6].FilterPolicy = nil

	opts.EnsureDefaults()

	if eventListener != nil {
		opts.EventListener = *eventListener
	}

	if verbose {
		loggingListener := pebbleDB.MakeLoggingEventListener(nil)
		loggingListener.TableDeleted = nil
		loggingListener.TableIngested = nil
		loggingListener.WALCreated = nil
		loggingListener.WALDeleted = nil

		if eventListener != nil {
			logCompactionBegin := loggingListener.CompactionBegin
			logCompactionEnd := loggingListener.CompactionEnd
			loggingListener.CompactionBegin = func(info pebbleDB.CompactionInfo) {
				logCompactionBegin(info)
				eventListener.CompactionBegin(info)
			}
			loggingListener.CompactionEnd = func(info pebbleDB.CompactionInfo) {
				logCompactionEnd(info)
				eventListener.CompactionEnd(info)
			}
		}
		opts.EventListener = loggingListener
	}

	return pebble.CreateDB(directory, opts)
}

// NewPebbleDatabase opens a pebble database and tracks its compactions in the given metrics.
func NewPebbleDatabase(log *logger.Logger, directory string, databaseMetrics *metrics.DatabaseMetrics, verbose bool) (*Database, error) {

	databaseEvents := &Events{
		DatabaseCompaction: events.NewEvent(CompactionCaller),
	}

	eventListener := &pebbleDB.EventListener{
		CompactionBegin: func(info pebbleDB.CompactionInfo) {
			databaseMetrics.CompactionRunning.Store(true)
			databaseMetrics.CompactionCount.Inc()
			databaseEvents.DatabaseCompaction.Trigger(true)
		},
		CompactionEnd: func(info pebbleDB.CompactionInfo) {
			databaseMetrics.CompactionRunning.Store(false)
			databaseEvents.DatabaseCompaction.Trigger(false)
		},
	}

	db, err := NewPebbleDB(directory, eventListener, verbose)
	if err != nil {
		return nil, err
	}

	return New(log, EnginePebble, pebble.New(db), databaseEvents, databaseMetrics, true), nil
}
