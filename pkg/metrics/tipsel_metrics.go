package metrics

import (
	"time"

	"go.uber.org/atomic"
)

// TipSelMetrics defines metrics over the entire runtime of the tip selection.
type TipSelMetrics struct {
	// The number of successful entry point selections.
	EntryPointSelections atomic.Uint64
	// The number of failed entry point selections.
	EntryPointFailures atomic.Uint64
	// The number of entry point selections that were rejected by the subtangle size guard.
	SubtangleTooBig atomic.Uint64
	// The number of cumulative weight calculations done while backtracking.
	WeightProbes atomic.Uint64
	// The number of trunk hops done while backtracking.
	BacktrackSteps atomic.Uint64
	// The cumulative weight of the last selected entry point.
	LastEntryPointWeight atomic.Uint32
	// The duration of the last entry point selection in nanoseconds.
	LastEntryPointDuration atomic.Int64
	// The number of transactions accepted by the walk validator.
	WalkValidationsAccepted atomic.Uint64
	// The number of transactions rejected by the walk validator.
	WalkValidationsRejected atomic.Uint64
}

// LastEntryPointDurationValue returns the duration of the last entry point selection.
func (m *TipSelMetrics) LastEntryPointDurationValue() time.Duration {
	return time.Duration(m.LastEntryPointDuration.Load())
}
