package shutdown

// Please add the dependencies if you add your own priority here.
// Otherwise investigating deadlocks at shutdown is much more complicated.

const (
	PriorityCloseDatabase = iota // no dependencies
	PriorityTipPool              // depends on PriorityCloseDatabase
	PriorityEntryPointSelection  // depends on PriorityCloseDatabase, PriorityTipPool
	PriorityPrometheus
)
