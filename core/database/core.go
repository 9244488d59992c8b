package database

import (
	"context"

	"github.com/dustin/go-humanize"
	"go.uber.org/dig"

	"github.com/iotaledger/hive.go/configuration"
	"github.com/iotaledger/hive.go/events"
	"github.com/iotaledger/hive.go/logger"

	"github.com/gohornet/tipsel/pkg/database"
	"github.com/gohornet/tipsel/pkg/ledger"
	"github.com/gohornet/tipsel/pkg/metrics"
	"github.com/gohornet/tipsel/pkg/model/storage"
	"github.com/gohornet/tipsel/pkg/node"
	"github.com/gohornet/tipsel/pkg/shutdown"
	"github.com/gohornet/tipsel/pkg/utils"
)

func init() {
	CorePlugin = &node.CorePlugin{
		Pluggable: node.Pluggable{
			Name:      "Database",
			DepsFunc:  func(cDeps dependencies) { deps = cDeps },
			Params:    params,
			Provide:   provide,
			Configure: configure,
		},
	}
}

var (
	CorePlugin *node.CorePlugin
	deps       dependencies
)

type dependencies struct {
	dig.In
	NodeConfig      *configuration.Configuration `name:"nodeConfig"`
	Database        *database.Database
	Storage         *storage.Storage
	LedgerManager   *ledger.Manager
	DatabaseMetrics *metrics.DatabaseMetrics
}

func provide(c *dig.Container) {

	if err := c.Provide(func() *metrics.DatabaseMetrics {
		return &metrics.DatabaseMetrics{}
	}); err != nil {
		CorePlugin.LogPanic(err)
	}

	type databaseDeps struct {
		dig.In
		NodeConfig      *configuration.Configuration `name:"nodeConfig"`
		DatabaseMetrics *metrics.DatabaseMetrics
	}

	if err := c.Provide(func(deps databaseDeps) *database.Database {

		dbEngine, err := database.DatabaseEngine(deps.NodeConfig.String(CfgDatabaseEngine))
		if err != nil {
			CorePlugin.LogPanic(err)
		}

		db, err := database.OpenDatabase(
			logger.NewLogger("TangleDB"),
			deps.NodeConfig.String(CfgDatabasePath),
			true,
			deps.DatabaseMetrics,
			deps.NodeConfig.Bool(CfgDatabaseDebug),
			dbEngine,
		)
		if err != nil {
			CorePlugin.LogPanicf("opening database failed: %s", err)
		}

		return db
	}); err != nil {
		CorePlugin.LogPanic(err)
	}

	if err := c.Provide(func(db *database.Database) *storage.Storage {
		store, err := storage.New(db.KVStore())
		if err != nil {
			CorePlugin.LogPanicf("creating storage failed: %s", err)
		}
		return store
	}); err != nil {
		CorePlugin.LogPanic(err)
	}

	if err := c.Provide(func(db *database.Database) *ledger.Manager {
		return ledger.New(db.KVStore())
	}); err != nil {
		CorePlugin.LogPanic(err)
	}

	if err := c.Provide(func(store *storage.Storage, ledgerManager *ledger.Manager) *ledger.Service {
		return ledger.NewService(logger.NewLogger("Ledger"), store, ledgerManager)
	}); err != nil {
		CorePlugin.LogPanic(err)
	}
}

func configure() {

	healthTracker := deps.Storage.HealthTracker()

	correctVersion, err := healthTracker.CheckCorrectDatabaseVersion()
	if err != nil {
		CorePlugin.LogPanic(err)
	}
	if !correctVersion {
		CorePlugin.LogPanic("database version mismatch. The database scheme was updated. Please delete the database folder and start again.")
	}

	corrupted, err := healthTracker.IsCorrupted()
	if err != nil {
		CorePlugin.LogPanic(err)
	}
	if corrupted && !deps.NodeConfig.Bool(CfgDatabaseDebug) {
		CorePlugin.LogPanic("database is corrupted (not shut down gracefully). Please delete the database folder and start again.")
	}

	if err := healthTracker.MarkCorrupted(); err != nil {
		CorePlugin.LogPanic(err)
	}

	if deps.Database.Engine() != database.EngineMapDB {
		if dbSize, err := utils.FolderSize(deps.NodeConfig.String(CfgDatabasePath)); err == nil {
			CorePlugin.LogInfof("Database size: %s", humanize.Bytes(uint64(dbSize)))
		}
	}

	importLedgerState()

	if err := deps.LedgerManager.CheckTotalSupply(); err != nil {
		CorePlugin.LogWarnf("ledger state is invalid: %s", err)
	}

	deps.Database.Events().DatabaseCompaction.Attach(events.NewClosure(func(running bool) {
		if running {
			CorePlugin.LogDebugf("database compaction started (total: %d)", deps.DatabaseMetrics.CompactionCount.Load())
			return
		}
		CorePlugin.LogDebugf("database compaction finished")
	}))

	if err := CorePlugin.Daemon().BackgroundWorker("Close database", func(ctx context.Context) {
		<-ctx.Done()

		if err := healthTracker.MarkHealthy(); err != nil {
			CorePlugin.LogErrorf("marking database as healthy failed: %s", err)
		}

		CorePlugin.LogInfo("Syncing database to disk...")
		if err := deps.Storage.FlushAndClose(); err != nil {
			CorePlugin.LogPanicf("syncing database to disk failed: %s", err)
		}
		CorePlugin.LogInfo("Syncing database to disk... done")
	}, shutdown.PriorityCloseDatabase); err != nil {
		CorePlugin.LogPanicf("failed to start worker: %s", err)
	}
}

// importLedgerState imports the configured initial ledger state if the ledger is still empty.
// Without a ledger file the whole supply is assigned to the genesis address.
func importLedgerState() {

	empty, err := deps.LedgerManager.IsEmpty()
	if err != nil {
		CorePlugin.LogPanic(err)
	}
	if !empty {
		return
	}

	ledgerState := make(map[string]uint64)
	if ledgerFilePath := deps.NodeConfig.String(CfgDatabaseLedgerFilePath); ledgerFilePath != "" {
		CorePlugin.LogInfof("Importing initial ledger state from %s", ledgerFilePath)

		if ledgerState, err = ledger.LoadLedgerStateFile(ledgerFilePath); err != nil {
			CorePlugin.LogPanic(err)
		}
	}

	if err := deps.LedgerManager.ImportLedgerState(ledgerState); err != nil {
		CorePlugin.LogPanic(err)
	}

	deps.DatabaseMetrics.LedgerImportedAddresses.Store(uint32(len(ledgerState)))
	CorePlugin.LogInfof("Imported initial ledger state with %d addresses", len(ledgerState))
}
