package metrics

import (
	"go.uber.org/atomic"
)

// DatabaseMetrics holds the counters of the tangle database since the node started.
type DatabaseMetrics struct {
	// CompactionCount counts the compactions of the underlying engine.
	CompactionCount atomic.Uint32
	// CompactionRunning is set while the engine compacts.
	CompactionRunning atomic.Bool
	// LedgerImportedAddresses is the number of addresses of the imported initial ledger state.
	// It stays zero if the ledger already existed.
	LedgerImportedAddresses atomic.Uint32
}
