package dag

import (
	"github.com/gohornet/tipsel/pkg/model/hornet"
)

// TransactionStorage provides the interface to load transactions.
type TransactionStorage interface {
	Transaction(txHash hornet.Hash) (*hornet.Transaction, error)
}

// ApproversStorage provides the interface to the reverse approval index.
type ApproversStorage interface {
	ContainsTransaction(txHash hornet.Hash) (bool, error)
	ApproverHashes(txHash hornet.Hash) (hornet.Hashes, error)
}

// TraverserStorage provides the interface to the used storage in the traversers and the tail finder.
type TraverserStorage interface {
	TransactionStorage
	ApproversStorage
}
