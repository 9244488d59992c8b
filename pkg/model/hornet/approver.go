package hornet

import (
	"github.com/pkg/errors"
)

// ApprovalKind defines through which reference a transaction approves another one.
type ApprovalKind byte

const (
	ApprovalTrunk  ApprovalKind = 0
	ApprovalBranch ApprovalKind = 1
)

// Approver is a single reference from an approving transaction to the approved one.
// A transaction that references the same parent as trunk and branch yields two approvers.
type Approver struct {
	TxHash       Hash
	ApproverHash Hash
	Kind         ApprovalKind
}

func NewApprover(txHash Hash, approverHash Hash, kind ApprovalKind) *Approver {
	return &Approver{
		TxHash:       txHash,
		ApproverHash: approverHash,
		Kind:         kind,
	}
}

// StorageKey returns the key of the approver entry.
// Prefixing with the approved hash allows iterating all approvers of a transaction.
func (a *Approver) StorageKey() []byte {
	key := make([]byte, 0, 2*HashBytesLength+1)
	key = append(key, a.TxHash...)
	key = append(key, a.ApproverHash...)
	return append(key, byte(a.Kind))
}

// ApproverFromKey parses an approver entry from its storage key.
func ApproverFromKey(key []byte) (*Approver, error) {
	if len(key) != 2*HashBytesLength+1 {
		return nil, errors.Errorf("invalid approver key length: %d", len(key))
	}
	return NewApprover(
		HashFromSlice(key[:HashBytesLength]),
		HashFromSlice(key[HashBytesLength:2*HashBytesLength]),
		ApprovalKind(key[2*HashBytesLength]),
	), nil
}

// ApproversForTransaction returns the approver entries a transaction creates for its trunk and branch.
func ApproversForTransaction(tx *Transaction) []*Approver {
	return []*Approver{
		NewApprover(tx.TrunkHash(), tx.TxHash(), ApprovalTrunk),
		NewApprover(tx.BranchHash(), tx.TxHash(), ApprovalBranch),
	}
}
