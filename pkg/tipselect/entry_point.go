package tipselect

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/iotaledger/hive.go/events"
	"github.com/iotaledger/hive.go/logger"

	"github.com/gohornet/tipsel/pkg/common"
	"github.com/gohornet/tipsel/pkg/dag"
	"github.com/gohornet/tipsel/pkg/metrics"
	"github.com/gohornet/tipsel/pkg/model/hornet"
	"github.com/gohornet/tipsel/pkg/utils"
)

var (
	// ErrTailNotFound is returned when the bundle tail of the backtracking result could not be found.
	ErrTailNotFound = errors.New("tail not found")
)

// EntryPointSelector selects the transaction a random walk starts from.
type EntryPointSelector interface {
	EntryPoint() (hornet.Hash, error)
}

// TailFinder finds the tail of the bundle a transaction belongs to.
type TailFinder interface {
	FindTail(txHash hornet.Hash) (hornet.Hash, bool, error)
}

// GenesisEntryPointSelector always selects genesis.
type GenesisEntryPointSelector struct{}

// EntryPoint returns the genesis hash.
func (GenesisEntryPointSelector) EntryPoint() (hornet.Hash, error) {
	return hornet.NullHashBytes, nil
}

// SubtangleTooBigError is returned if the subtangle rooted at the selected entry point is too big.
type SubtangleTooBigError struct {
	EntryPoint hornet.Hash
	Size       int
	MaxSize    int
}

func (e *SubtangleTooBigError) Error() string {
	return fmt.Sprintf("subtangle of entry point %s is too big: size %d exceeds %d", e.EntryPoint.Trytes(), e.Size, e.MaxSize)
}

func (e *SubtangleTooBigError) Unwrap() error {
	return common.ErrResourceExceeded
}

// the default options applied to the CumulativeWeightThresholdEntryPointSelector.
var defaultOptions = []Option{
	WithLogger(nil),
	WithMetrics(&metrics.TipSelMetrics{}),
}

// Options define options for the CumulativeWeightThresholdEntryPointSelector.
type Options struct {
	logger  *logger.Logger
	metrics *metrics.TipSelMetrics
}

// applies the given Option.
func (so *Options) apply(opts ...Option) {
	for _, opt := range opts {
		opt(so)
	}
}

// Option is a function setting an Options option.
type Option func(opts *Options)

// WithLogger enables logging within the selector.
func WithLogger(logger *logger.Logger) Option {
	return func(opts *Options) {
		opts.logger = logger
	}
}

// WithMetrics sets the metrics the selector records its stats in.
func WithMetrics(tipSelMetrics *metrics.TipSelMetrics) Option {
	return func(opts *Options) {
		opts.metrics = tipSelMetrics
	}
}

// CumulativeWeightThresholdEntryPointSelector walks back from a starting tip along the trunk references
// with exponentially growing steps until the cumulative weight reaches the threshold.
type CumulativeWeightThresholdEntryPointSelector struct {
	// the logger used to log events.
	*utils.WrappedLogger

	storage             dag.TransactionStorage
	calculator          *CumulativeWeightCalculator
	startingTipSelector StartingTipSelector
	tailFinder          TailFinder
	threshold           int
	maxSubtangleSize    int
	metrics             *metrics.TipSelMetrics

	// Events are the events that are triggered by the selector.
	Events *EntryPointEvents
}

// NewCumulativeWeightThresholdEntryPointSelector creates a new CumulativeWeightThresholdEntryPointSelector.
func NewCumulativeWeightThresholdEntryPointSelector(
	storage dag.TraverserStorage,
	threshold int,
	maxFutureSetSize int,
	startingTipSelector StartingTipSelector,
	tailFinder TailFinder,
	opts ...Option) *CumulativeWeightThresholdEntryPointSelector {

	options := &Options{}
	options.apply(defaultOptions...)
	options.apply(opts...)

	return &CumulativeWeightThresholdEntryPointSelector{
		WrappedLogger:       utils.NewWrappedLogger(options.logger),
		storage:             storage,
		calculator:          NewCumulativeWeightCalculator(storage, maxFutureSetSize),
		startingTipSelector: startingTipSelector,
		tailFinder:          tailFinder,
		threshold:           threshold,
		maxSubtangleSize:    MaxSubtangleSize(maxFutureSetSize),
		metrics:             options.metrics,
		Events: &EntryPointEvents{
			EntryPointSelected: events.NewEvent(EntryPointStatsCaller),
		},
	}
}

// Threshold returns the cumulative weight threshold.
func (s *CumulativeWeightThresholdEntryPointSelector) Threshold() int {
	return s.threshold
}

// MaxSubtangleSize returns the maximum allowed size of the subtangle rooted at an entry point.
func (s *CumulativeWeightThresholdEntryPointSelector) MaxSubtangleSize() int {
	return s.maxSubtangleSize
}

// EntryPoint selects a new entry point.
// The returned error wraps common.ErrResourceExceeded if the subtangle of the entry point is too big.
func (s *CumulativeWeightThresholdEntryPointSelector) EntryPoint() (hornet.Hash, error) {

	entryPoint, stats, err := s.selectEntryPoint()
	if err != nil {
		s.metrics.EntryPointFailures.Inc()
		return nil, err
	}

	s.metrics.EntryPointSelections.Inc()
	s.metrics.WeightProbes.Add(uint64(stats.WeightProbes))
	s.metrics.BacktrackSteps.Add(uint64(stats.Steps))
	s.metrics.LastEntryPointWeight.Store(uint32(stats.Weight))
	s.metrics.LastEntryPointDuration.Store(int64(stats.Duration))

	s.Events.EntryPointSelected.Trigger(stats)

	return entryPoint, nil
}

func (s *CumulativeWeightThresholdEntryPointSelector) selectEntryPoint() (hornet.Hash, *EntryPointStats, error) {

	start := time.Now()

	tip, err := s.startingTipSelector.Tip()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to select a starting tip")
	}

	stats := &EntryPointStats{
		StartingTip: tip,
		Weight:      1,
	}

	backtrackResult, err := s.backtrack(tip, stats)
	if err != nil {
		return nil, nil, err
	}

	tail, found, err := s.tailFinder.FindTail(backtrackResult)
	if err != nil {
		return nil, nil, err
	}
	if !found {
		return nil, nil, errors.Wrapf(ErrTailNotFound, "hash: %s", backtrackResult.Trytes())
	}

	subtangleSize, err := s.calculator.SubtangleSize(tail, s.maxSubtangleSize+1)
	if err != nil {
		return nil, nil, err
	}

	if subtangleSize > s.maxSubtangleSize {
		s.metrics.SubtangleTooBig.Inc()
		return nil, nil, common.CriticalError{Err: &SubtangleTooBigError{
			EntryPoint: tail,
			Size:       subtangleSize,
			MaxSize:    s.maxSubtangleSize,
		}}
	}

	stats.EntryPoint = tail
	stats.SubtangleSize = subtangleSize
	stats.Duration = time.Since(start)

	s.LogDebugf("selected entry point %s (weight: %d, steps: %d, probes: %d, subtangle size: %d), took %v",
		tail.Trytes(), stats.Weight, stats.Steps, stats.WeightProbes, subtangleSize, stats.Duration.Truncate(time.Microsecond))

	return tail, stats, nil
}

// backtrack walks back from the tip with doubling step sizes until the cumulative
// weight reaches the threshold or genesis is reached. The result may overshoot the
// first transaction that reaches the threshold.
func (s *CumulativeWeightThresholdEntryPointSelector) backtrack(tip hornet.Hash, stats *EntryPointStats) (hornet.Hash, error) {

	current := tip
	currentWeight := 1
	stepSize := 1

	for currentWeight < s.threshold && !current.IsNull() {
		var err error
		if current, err = dag.StepsBack(s.storage, current, stepSize); err != nil {
			return nil, err
		}

		if currentWeight, err = s.calculator.CalculateSingle(current); err != nil {
			return nil, err
		}

		stats.Steps += stepSize
		stats.WeightProbes++
		stats.Weight = currentWeight

		stepSize *= 2
	}

	return current, nil
}
