package tipselect

import (
	"time"

	"github.com/iotaledger/hive.go/events"

	"github.com/gohornet/tipsel/pkg/model/hornet"
)

// EntryPointStats holds the stats of a single entry point selection.
type EntryPointStats struct {
	// The tip the backtracking started from.
	StartingTip hornet.Hash
	// The selected entry point.
	EntryPoint hornet.Hash
	// The cumulative weight measured at the end of the backtracking.
	Weight int
	// The number of trunk hops that were requested while backtracking.
	Steps int
	// The number of cumulative weight calculations.
	WeightProbes int
	// The size of the subtangle rooted at the entry point.
	SubtangleSize int
	// The duration of the selection.
	Duration time.Duration
}

// TipCaller is used to signal tip events.
func TipCaller(handler interface{}, params ...interface{}) {
	handler.(func(*Tip))(params[0].(*Tip))
}

// EntryPointStatsCaller is used to signal entry point selection events.
func EntryPointStatsCaller(handler interface{}, params ...interface{}) {
	handler.(func(*EntryPointStats))(params[0].(*EntryPointStats))
}

// TipPoolEvents represents events happening on the tip pool.
type TipPoolEvents struct {
	// TipAdded is fired when a tip is added.
	TipAdded *events.Event
	// TipRemoved is fired when a tip is removed.
	TipRemoved *events.Event
}

// EntryPointEvents represents events happening on the entry point selector.
type EntryPointEvents struct {
	// EntryPointSelected is fired when an entry point selection succeeded.
	EntryPointSelected *events.Event
}
