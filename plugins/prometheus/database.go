package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iotaledger/hive.go/events"

	coreDatabase "github.com/gohornet/tipsel/core/database"
	"github.com/gohornet/tipsel/pkg/database"
	"github.com/gohornet/tipsel/pkg/utils"
)

var (
	databaseSizeBytes       prometheus.Gauge
	compactionCount         prometheus.Counter
	compactionRunning       prometheus.Gauge
	ledgerImportedAddresses prometheus.Gauge
)

func configureDatabase() {

	databaseSizeBytes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "iota",
			Subsystem: "database",
			Name:      "size_bytes",
			Help:      "Database size in bytes.",
		})

	compactionCount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "iota",
			Subsystem: "database",
			Name:      "compaction_count",
			Help:      "The total amount of database compactions.",
		},
	)

	deps.Database.Events().DatabaseCompaction.Attach(events.NewClosure(func(running bool) {
		if running {
			compactionCount.Inc()
		}
	}))

	compactionRunning = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "iota",
		Subsystem: "database",
		Name:      "compaction_running",
		Help:      "Current state of database compaction process.",
	})

	ledgerImportedAddresses = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "iota",
		Subsystem: "database",
		Name:      "ledger_imported_addresses",
		Help:      "Number of addresses imported from the initial ledger state.",
	})

	registry.MustRegister(databaseSizeBytes)
	registry.MustRegister(compactionCount)
	registry.MustRegister(compactionRunning)
	registry.MustRegister(ledgerImportedAddresses)

	addCollect(collectDatabase)
}

func collectDatabase() {
	databaseSizeBytes.Set(0)
	if deps.Database.Engine() != database.EngineMapDB {
		if dbSize, err := utils.FolderSize(deps.NodeConfig.String(coreDatabase.CfgDatabasePath)); err == nil {
			databaseSizeBytes.Set(float64(dbSize))
		}
	}

	compactionRunning.Set(0)
	if deps.Database.CompactionRunning() {
		compactionRunning.Set(1)
	}

	ledgerImportedAddresses.Set(float64(deps.DatabaseMetrics.LedgerImportedAddresses.Load()))
}
