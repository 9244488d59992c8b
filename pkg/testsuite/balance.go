package testsuite

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/iota.go/address"
	"github.com/iotaledger/iota.go/consts"
	"github.com/iotaledger/iota.go/trinary"

	"github.com/gohornet/tipsel/pkg/model/hornet"
)

// GenerateAddress generates an address for the given seed and index with medium security.
func GenerateAddress(t testing.TB, seed trinary.Trytes, index uint64) hornet.Hash {
	seedAddress, err := address.GenerateAddress(seed, index, consts.SecurityLevelMedium, false)
	require.NoError(t, err)
	return hornet.HashFromHashTrytes(seedAddress)
}

// AssertAddressBalance checks the balance of the given address in the ledger.
func (te *TestEnvironment) AssertAddressBalance(address hornet.Hash, balance uint64) {
	addrBalance, err := te.ledgerManager.Balance(address)
	require.NoError(te.TestInterface, err)
	require.Equal(te.TestInterface, balance, addrBalance)
}

// AssertTotalSupplyStillValid checks if the total supply in the database is still correct.
func (te *TestEnvironment) AssertTotalSupplyStillValid() {
	require.NoError(te.TestInterface, te.ledgerManager.CheckTotalSupply())
}
