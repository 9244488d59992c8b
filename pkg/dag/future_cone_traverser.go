package dag

import (
	"sync"

	"github.com/gammazero/deque"

	"github.com/gohornet/tipsel/pkg/model/hornet"
)

// ApprovalConsumer gets called for every approval entry reached during the traversal.
// discovered is true if the approver was reached for the first time.
// Returning false stops the traversal.
type ApprovalConsumer func(approveeHash hornet.Hash, approverHash hornet.Hash, discovered bool) bool

// FutureConeTraverser can be used to walk the dag in direction of the approvers (future cone).
type FutureConeTraverser struct {
	// interface to the used storage
	storage ApproversStorage

	// queue holding the ordered txs to process
	queue *deque.Deque[hornet.Hash]

	// discovered map with already found transactions
	discovered map[string]struct{}

	traverserLock sync.Mutex
}

// NewFutureConeTraverser creates a new traverser to traverse the approvers (future cone).
func NewFutureConeTraverser(storage ApproversStorage) *FutureConeTraverser {
	return &FutureConeTraverser{
		storage: storage,
	}
}

func (t *FutureConeTraverser) reset() {
	t.discovered = make(map[string]struct{})
	t.queue = new(deque.Deque[hornet.Hash])
}

// Traverse walks the approvers of the given start transaction in BFS order.
// Every approver is expanded once, but the consumer sees every approval entry.
// At most maxDiscovered approvers are discovered before the traversal stops.
func (t *FutureConeTraverser) Traverse(startTxHash hornet.Hash, maxDiscovered int, consumer ApprovalConsumer) error {

	// make sure only one traversal is running
	t.traverserLock.Lock()

	// release lock so the traverser can be reused
	defer t.traverserLock.Unlock()

	t.reset()

	t.queue.PushBack(startTxHash)
	t.discovered[startTxHash.ToMapKey()] = struct{}{}

	for t.queue.Len() > 0 {
		currentTxHash := t.queue.PopFront()

		approverHashes, err := t.storage.ApproverHashes(currentTxHash)
		if err != nil {
			return err
		}

		for _, approverHash := range approverHashes {
			approverMapKey := approverHash.ToMapKey()

			_, alreadyDiscovered := t.discovered[approverMapKey]
			if !alreadyDiscovered {
				// the start transaction is part of the discovered map
				if len(t.discovered) > maxDiscovered {
					return nil
				}
				t.discovered[approverMapKey] = struct{}{}
				t.queue.PushBack(approverHash)
			}

			if !consumer(currentTxHash, approverHash, !alreadyDiscovered) {
				return nil
			}
		}
	}

	return nil
}
