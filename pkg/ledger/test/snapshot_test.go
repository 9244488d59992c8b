package test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/iotaledger/hive.go/kvstore/mapdb"
	"github.com/iotaledger/iota.go/consts"

	"github.com/gohornet/tipsel/pkg/ledger"
	"github.com/gohornet/tipsel/pkg/model/hornet"
	"github.com/gohornet/tipsel/pkg/testsuite"
)

func TestReadLedgerState(t *testing.T) {

	addressA := testsuite.RandHash()
	addressB := testsuite.RandHash()

	input := addressA.Trytes() + ";100\n" +
		"\n" +
		addressB.Trytes() + "999999999;250\n" +
		addressA.Trytes() + ";5"

	ledgerState, err := ledger.ReadLedgerState(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, ledgerState, 2)
	require.Equal(t, uint64(105), ledgerState[addressA.ToMapKey()])
	require.Equal(t, uint64(250), ledgerState[addressB.ToMapKey()])
}

func TestReadLedgerStateInvalid(t *testing.T) {

	address := testsuite.RandHash().Trytes()

	for _, input := range []string{
		address,
		address + ";abc",
		address + ";-1",
		"ABC;100",
		strings.Repeat("a", consts.HashTrytesSize) + ";100",
		address + ";1;2",
	} {
		_, err := ledger.ReadLedgerState(strings.NewReader(input))
		require.Truef(t, errors.Is(err, ledger.ErrLedgerImportFailed), "input: %s", input)
	}
}

func TestImportLedgerState(t *testing.T) {

	manager := ledger.New(mapdb.NewMapDB())

	empty, err := manager.IsEmpty()
	require.NoError(t, err)
	require.True(t, empty)

	address := testsuite.RandHash()

	ledgerFilePath := filepath.Join(t.TempDir(), "ledger.txt")
	require.NoError(t, os.WriteFile(ledgerFilePath, []byte(address.Trytes()+";1000\n"), 0600))

	ledgerState, err := ledger.LoadLedgerStateFile(ledgerFilePath)
	require.NoError(t, err)
	require.NoError(t, manager.ImportLedgerState(ledgerState))

	empty, err = manager.IsEmpty()
	require.NoError(t, err)
	require.False(t, empty)

	balance, err := manager.Balance(address)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), balance)

	balance, err = manager.Balance(hornet.NullHashBytes)
	require.NoError(t, err)
	require.Equal(t, consts.TotalSupply-1000, balance)

	// more than the total supply
	err = manager.ImportLedgerState(map[string]uint64{address.ToMapKey(): consts.TotalSupply + 1})
	require.True(t, errors.Is(err, ledger.ErrInvalidBalancesTotalSupply))

	_, err = ledger.LoadLedgerStateFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.True(t, errors.Is(err, ledger.ErrLedgerImportFailed))
}
