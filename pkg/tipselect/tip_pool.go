package tipselect

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"github.com/iotaledger/hive.go/events"
	"github.com/iotaledger/hive.go/syncutils"

	"github.com/gohornet/tipsel/pkg/dag"
	"github.com/gohornet/tipsel/pkg/model/hornet"
	"github.com/gohornet/tipsel/pkg/utils"
)

var (
	// ErrNoTipsAvailable is returned when no tips are available in the node.
	ErrNoTipsAvailable = errors.New("no tips available")
	// ErrTipNotTail is returned when a tip candidate is not the tail of its bundle.
	ErrTipNotTail = errors.New("tip is not a tail")
	// ErrTipNotSolid is returned when a tip candidate is not solid.
	ErrTipNotSolid = errors.New("tip is not solid")
)

// TipPoolStorage provides the interface to the used storage in the TipPool.
type TipPoolStorage interface {
	dag.TransactionStorage
	TransactionMetadata(txHash hornet.Hash) (*hornet.TransactionMetadata, error)
}

// Tip defines a tip.
type Tip struct {
	// Hash is the transaction hash of the tip.
	Hash hornet.Hash
	// TimeFirstApprover is the timestamp the tip was referenced for the first time by another transaction.
	TimeFirstApprover time.Time
	// ApproversCount is the amount the tip was referenced by other transactions.
	ApproversCount *atomic.Uint32
}

// TipPool manages a set of solid tail tips and emits events for their removal and addition.
type TipPool struct {
	storage TipPoolStorage
	// maxApprovers is the maximum amount of references by other transactions
	// before the tip is removed from the tip pool.
	maxApprovers uint32
	// maxReferencedTipAge is the maximum time a tip remains in the tip pool
	// after it was referenced by the first transaction. zero disables the limit.
	maxReferencedTipAge time.Duration

	tipsMap  map[string]*Tip
	tipsLock syncutils.RWMutex

	// Events are the events that are triggered by the TipPool.
	Events *TipPoolEvents
}

// NewTipPool creates a new tip pool.
func NewTipPool(storage TipPoolStorage, maxApprovers uint32, maxReferencedTipAge time.Duration) *TipPool {
	return &TipPool{
		storage:             storage,
		maxApprovers:        maxApprovers,
		maxReferencedTipAge: maxReferencedTipAge,
		tipsMap:             make(map[string]*Tip),
		Events: &TipPoolEvents{
			TipAdded:   events.NewEvent(TipCaller),
			TipRemoved: events.NewEvent(TipCaller),
		},
	}
}

// AddTip adds the given tailTxHash as a tip.
// The tips approved by it are removed once they reached the maximum amount of approvers.
func (p *TipPool) AddTip(tailTxHash hornet.Hash) error {

	tx, err := p.storage.Transaction(tailTxHash)
	if err != nil {
		return err
	}

	if !tx.IsTail() {
		return errors.Wrapf(ErrTipNotTail, "hash: %s", tailTxHash.Trytes())
	}

	metadata, err := p.storage.TransactionMetadata(tailTxHash)
	if err != nil {
		return err
	}

	if !metadata.IsSolid() {
		return errors.Wrapf(ErrTipNotSolid, "hash: %s", tailTxHash.Trytes())
	}

	// search all referenced tails of this tip before taking the lock
	approveeTailTxHashes, err := dag.FindAllTails(p.storage, tailTxHash, true)
	if err != nil {
		return err
	}

	p.tipsLock.Lock()
	defer p.tipsLock.Unlock()

	if _, exists := p.tipsMap[tailTxHash.ToMapKey()]; exists {
		// tip already exists
		return nil
	}

	tip := &Tip{
		Hash:              tailTxHash,
		TimeFirstApprover: time.Time{},
		ApproversCount:    atomic.NewUint32(0),
	}
	p.tipsMap[tailTxHash.ToMapKey()] = tip
	p.Events.TipAdded.Trigger(tip)

	for approveeTailTxMapKey := range approveeTailTxHashes {
		approveeTip, exists := p.tipsMap[approveeTailTxMapKey]
		if !exists {
			continue
		}

		// check if the maximum amount of approvers for this tip is reached
		if approveeTip.ApproversCount.Inc() >= p.maxApprovers {
			p.removeTipWithoutLocking(approveeTip.Hash)
			continue
		}

		// check if the tip was referenced by another transaction before
		if approveeTip.TimeFirstApprover.IsZero() {
			approveeTip.TimeFirstApprover = time.Now()

			if p.maxReferencedTipAge > 0 {
				// remove the tip after it reaches its maximum age
				approveeTipHash := approveeTip.Hash
				time.AfterFunc(p.maxReferencedTipAge, func() {
					p.RemoveTip(approveeTipHash)
				})
			}
		}
	}

	return nil
}

// removeTipWithoutLocking removes the given tailTxHash from the tipsMap without acquiring the lock.
func (p *TipPool) removeTipWithoutLocking(tailTxHash hornet.Hash) {
	if tip, exists := p.tipsMap[tailTxHash.ToMapKey()]; exists {
		delete(p.tipsMap, tailTxHash.ToMapKey())
		p.Events.TipRemoved.Trigger(tip)
	}
}

// RemoveTip removes the given tailTxHash from the tipsMap.
func (p *TipPool) RemoveTip(tailTxHash hornet.Hash) {
	p.tipsLock.Lock()
	defer p.tipsLock.Unlock()

	p.removeTipWithoutLocking(tailTxHash)
}

// Len returns the amount of tips in the pool.
func (p *TipPool) Len() int {
	p.tipsLock.RLock()
	defer p.tipsLock.RUnlock()

	return len(p.tipsMap)
}

// Tips returns the hashes of all tips in lexical order.
func (p *TipPool) Tips() hornet.Hashes {
	p.tipsLock.RLock()
	defer p.tipsLock.RUnlock()

	tips := make(hornet.Hashes, 0, len(p.tipsMap))
	for _, tip := range p.tipsMap {
		tips = append(tips, tip.Hash)
	}
	return tips.RemoveDupsAndSortByLexicalOrder()
}

// RandomSolidTip picks a uniformly distributed random tip from the pool.
func (p *TipPool) RandomSolidTip() (hornet.Hash, error) {
	p.tipsLock.RLock()
	defer p.tipsLock.RUnlock()

	if len(p.tipsMap) == 0 {
		return nil, ErrNoTipsAvailable
	}

	randIndex := utils.RandomInsecure(0, len(p.tipsMap)-1)
	for _, tip := range p.tipsMap {
		if randIndex == 0 {
			return tip.Hash, nil
		}
		randIndex--
	}

	// no tips
	return nil, ErrNoTipsAvailable
}

// LoadTips adds all solid tails without approvers found in the storage to the pool.
func (p *TipPool) LoadTips(storage TipScanStorage) (int, error) {

	candidates, err := CollectTips(storage)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, candidate := range candidates {
		if err := p.AddTip(candidate); err != nil {
			if errors.Is(err, ErrTipNotTail) || errors.Is(err, ErrTipNotSolid) {
				continue
			}
			return added, err
		}
		added++
	}

	return added, nil
}
