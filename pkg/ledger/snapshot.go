package ledger

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/iota.go/consts"
	"github.com/iotaledger/iota.go/trinary"

	"github.com/gohornet/tipsel/pkg/common"
	"github.com/gohornet/tipsel/pkg/model/hornet"
)

var (
	// ErrLedgerImportFailed is returned if the initial ledger state could not be imported.
	ErrLedgerImportFailed = errors.New("ledger state import failed")
)

// ReadLedgerState parses an initial ledger state in the "ADDRESS;BALANCE" text format.
// Each line holds one address (81 trytes, an optional checksum is ignored) and its balance.
// Empty lines are skipped. The result is keyed by the address map key.
func ReadLedgerState(reader io.Reader) (map[string]uint64, error) {

	ledgerState := make(map[string]uint64)

	scanner := bufio.NewScanner(reader)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		lineSplitted := strings.Split(line, ";")
		if len(lineSplitted) != 2 {
			return nil, errors.Wrapf(ErrLedgerImportFailed, "wrong format in line %d", lineNumber)
		}

		if len(lineSplitted[0]) < consts.HashTrytesSize {
			return nil, errors.Wrapf(ErrLedgerImportFailed, "address too short in line %d", lineNumber)
		}

		addressTrytes := lineSplitted[0][:consts.HashTrytesSize]
		if err := trinary.ValidTrytes(addressTrytes); err != nil {
			return nil, errors.Wrapf(ErrLedgerImportFailed, "invalid address in line %d: %s", lineNumber, err)
		}

		balance, err := strconv.ParseUint(lineSplitted[1], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(ErrLedgerImportFailed, "invalid balance in line %d: %s", lineNumber, err)
		}

		ledgerState[hornet.HashFromHashTrytes(addressTrytes).ToMapKey()] += balance
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(ErrLedgerImportFailed, "read failed: %s", err)
	}

	return ledgerState, nil
}

// LoadLedgerStateFile reads the initial ledger state from the given file.
func LoadLedgerStateFile(filePath string) (map[string]uint64, error) {

	ledgerFile, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrapf(ErrLedgerImportFailed, "open file: %s", err)
	}
	defer func() { _ = ledgerFile.Close() }()

	return ReadLedgerState(ledgerFile)
}

// IsEmpty returns whether no balance was stored yet.
func (m *Manager) IsEmpty() (bool, error) {

	m.ReadLockLedger()
	defer m.ReadUnlockLedger()

	empty := true
	if err := m.balancesStorage.IterateKeys(kvstore.EmptyPrefix, func(_ kvstore.Key) bool {
		empty = false
		return false
	}); err != nil {
		return false, errors.Wrap(common.NewDatabaseError(err), "failed to iterate balances")
	}

	return empty, nil
}

// ImportLedgerState stores the given initial ledger state.
// The supply that is not assigned to any address is moved to the genesis address,
// so the total supply always stays valid.
func (m *Manager) ImportLedgerState(ledgerState map[string]uint64) error {

	balances := make(map[string]uint64, len(ledgerState)+1)

	var sum uint64
	for address, balance := range ledgerState {
		balances[address] = balance
		sum += balance
	}

	if sum > consts.TotalSupply {
		return errors.Wrapf(ErrInvalidBalancesTotalSupply, "%d > %d", sum, consts.TotalSupply)
	}

	balances[hornet.NullHashBytes.ToMapKey()] += consts.TotalSupply - sum

	if err := m.StoreBalances(balances); err != nil {
		return err
	}

	return m.CheckTotalSupply()
}
