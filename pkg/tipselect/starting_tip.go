package tipselect

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/gohornet/tipsel/pkg/dag"
	"github.com/gohornet/tipsel/pkg/model/hornet"
	"github.com/gohornet/tipsel/pkg/model/storage"
)

// StartingTipSelector provides the tip the entry point backtracking starts from.
type StartingTipSelector interface {
	Tip() (hornet.Hash, error)
}

// TipScanStorage provides the interface to the used storage when scanning for tips.
type TipScanStorage interface {
	dag.TransactionStorage
	ForEachTransactionHash(consumer storage.TransactionHashConsumer) error
	HasApprovers(txHash hornet.Hash) (bool, error)
}

// CollectTips returns all stored transactions without approvers in lexical order.
func CollectTips(tipScanStorage TipScanStorage) (hornet.Hashes, error) {

	var txHashes hornet.Hashes
	if err := tipScanStorage.ForEachTransactionHash(func(txHash hornet.Hash) bool {
		txHashes = append(txHashes, txHash)
		return true
	}); err != nil {
		return nil, err
	}

	var tips hornet.Hashes
	for _, txHash := range txHashes {
		hasApprovers, err := tipScanStorage.HasApprovers(txHash)
		if err != nil {
			return nil, err
		}
		if !hasApprovers {
			tips = append(tips, txHash)
		}
	}

	return tips.RemoveDupsAndSortByLexicalOrder(), nil
}

// GenesisTipSelector always returns genesis.
type GenesisTipSelector struct{}

// Tip returns the genesis hash.
func (GenesisTipSelector) Tip() (hornet.Hash, error) {
	return hornet.NullHashBytes, nil
}

// SolidTipSelector returns a random solid tip of the tip pool.
// If the pool is empty, it asks the fallback selector, or returns genesis without one.
type SolidTipSelector struct {
	tipPool  *TipPool
	fallback StartingTipSelector
}

// NewSolidTipSelector creates a new SolidTipSelector. fallback may be nil.
func NewSolidTipSelector(tipPool *TipPool, fallback StartingTipSelector) *SolidTipSelector {
	return &SolidTipSelector{
		tipPool:  tipPool,
		fallback: fallback,
	}
}

// Tip returns a random solid tip of the tip pool.
func (s *SolidTipSelector) Tip() (hornet.Hash, error) {

	tip, err := s.tipPool.RandomSolidTip()
	if err == nil {
		return tip, nil
	}

	if !errors.Is(err, ErrNoTipsAvailable) {
		return nil, err
	}

	if s.fallback != nil {
		return s.fallback.Tip()
	}

	return hornet.NullHashBytes, nil
}

// HeaviestTipSelector returns the stored tip with the largest past cone.
// Ties are broken by lexical hash order. Without any stored tip it returns genesis.
type HeaviestTipSelector struct {
	storage TipScanStorage
	// maxPastConeSize bounds the past cone traversal per tip.
	maxPastConeSize int
}

// NewHeaviestTipSelector creates a new HeaviestTipSelector.
func NewHeaviestTipSelector(tipScanStorage TipScanStorage, maxPastConeSize int) *HeaviestTipSelector {
	return &HeaviestTipSelector{
		storage:         tipScanStorage,
		maxPastConeSize: maxPastConeSize,
	}
}

// Tip scans the stored tips and returns the one with the largest past cone.
func (s *HeaviestTipSelector) Tip() (hornet.Hash, error) {

	tips, err := CollectTips(s.storage)
	if err != nil {
		return nil, err
	}

	heaviestTip := hornet.NullHashBytes
	heaviestSize := -1
	for _, tip := range tips {
		size, err := dag.PastConeSize(s.storage, tip, s.maxPastConeSize)
		if err != nil {
			return nil, err
		}

		// tips are sorted, so on equal size the lexically smaller one wins
		if size > heaviestSize || (size == heaviestSize && bytes.Compare(tip, heaviestTip) < 0) {
			heaviestTip = tip
			heaviestSize = size
		}
	}

	return heaviestTip, nil
}
