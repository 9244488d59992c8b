package tipselect

import (
	"github.com/pkg/errors"

	"github.com/gohornet/tipsel/pkg/common"
	"github.com/gohornet/tipsel/pkg/dag"
	"github.com/gohornet/tipsel/pkg/model/hornet"
)

const (
	// DefaultMaxFutureSetSize is the default cap of a single cumulative weight calculation.
	DefaultMaxFutureSetSize = 5000
	// SubtangleSizeFactor is the factor between the maximum future set size and the maximum subtangle size.
	SubtangleSizeFactor = 15
)

// MaxSubtangleSize returns the maximum allowed size of the subtangle rooted at an entry point.
func MaxSubtangleSize(maxFutureSetSize int) int {
	return SubtangleSizeFactor * maxFutureSetSize
}

// CumulativeWeightCalculator computes the cumulative weight of transactions by walking their future cone.
// It does not cache anything between calls.
type CumulativeWeightCalculator struct {
	storage          dag.ApproversStorage
	maxFutureSetSize int
}

// NewCumulativeWeightCalculator creates a new CumulativeWeightCalculator.
// maxFutureSetSize must be at least 1.
func NewCumulativeWeightCalculator(storage dag.ApproversStorage, maxFutureSetSize int) *CumulativeWeightCalculator {
	if maxFutureSetSize < 1 {
		panic("maxFutureSetSize must be at least 1")
	}

	return &CumulativeWeightCalculator{
		storage:          storage,
		maxFutureSetSize: maxFutureSetSize,
	}
}

// MaxFutureSetSize returns the cap of a single calculation.
func (c *CumulativeWeightCalculator) MaxFutureSetSize() int {
	return c.maxFutureSetSize
}

func (c *CumulativeWeightCalculator) checkExists(txHash hornet.Hash) error {
	if txHash.IsNull() {
		// genesis is never stored, but it is always known
		return nil
	}

	contains, err := c.storage.ContainsTransaction(txHash)
	if err != nil {
		return err
	}

	if !contains {
		return errors.Wrapf(common.ErrTransactionNotFound, "hash: %s", txHash.Trytes())
	}

	return nil
}

// CalculateSingle returns the cumulative weight of the given transaction.
// The weight is one for the transaction itself plus one for every approval entry
// inside its future cone, where every approver is expanded once.
// The result is capped at MaxFutureSetSize.
func (c *CumulativeWeightCalculator) CalculateSingle(txHash hornet.Hash) (int, error) {

	if err := c.checkExists(txHash); err != nil {
		return 0, err
	}

	weight := 1
	if weight >= c.maxFutureSetSize {
		return c.maxFutureSetSize, nil
	}

	if err := dag.NewFutureConeTraverser(c.storage).Traverse(txHash, c.maxFutureSetSize, func(_ hornet.Hash, _ hornet.Hash, _ bool) bool {
		weight++
		return weight < c.maxFutureSetSize
	}); err != nil {
		return 0, err
	}

	return weight, nil
}

// SubtangleSize returns the number of distinct transactions in the future cone of the
// given transaction, including itself. The traversal stops as soon as limit is reached.
func (c *CumulativeWeightCalculator) SubtangleSize(txHash hornet.Hash, limit int) (int, error) {

	if err := c.checkExists(txHash); err != nil {
		return 0, err
	}

	size := 1
	if size >= limit {
		return size, nil
	}

	if err := dag.NewFutureConeTraverser(c.storage).Traverse(txHash, limit, func(_ hornet.Hash, _ hornet.Hash, discovered bool) bool {
		if discovered {
			size++
		}
		return size < limit
	}); err != nil {
		return 0, err
	}

	return size, nil
}
