package test

import (
	"github.com/gohornet/tipsel/pkg/model/hornet"
)

// staticTipSelector always returns the same starting tip.
type staticTipSelector struct {
	tip hornet.Hash
	err error
}

func (s *staticTipSelector) Tip() (hornet.Hash, error) {
	return s.tip, s.err
}

// ledgerVerdict is a ledger service with a fixed answer.
type ledgerVerdict struct {
	consistent bool
	err        error
	calls      int
}

func (l *ledgerVerdict) IsBalanceDiffConsistent(_ map[string]struct{}, _ map[string]int64, _ hornet.Hash) (bool, error) {
	l.calls++
	return l.consistent, l.err
}
