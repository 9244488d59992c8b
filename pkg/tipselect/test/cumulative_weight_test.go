package test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/gohornet/tipsel/pkg/common"
	"github.com/gohornet/tipsel/pkg/model/hornet"
	"github.com/gohornet/tipsel/pkg/testsuite"
	"github.com/gohornet/tipsel/pkg/tipselect"
)

func TestCumulativeWeightChain(t *testing.T) {

	te := testsuite.SetupTestEnvironment(t, map[string]uint64{})
	defer te.CleanupTestEnvironment()

	chain := te.BuildChain(hornet.NullHashBytes, 10)
	calculator := tipselect.NewCumulativeWeightCalculator(te.Storage(), tipselect.DefaultMaxFutureSetSize)

	// every chain transaction approves its predecessor twice
	for i, txHash := range chain {
		weight, err := calculator.CalculateSingle(txHash)
		require.NoError(t, err)
		require.Equal(t, 1+2*(len(chain)-1-i), weight)
	}

	weight, err := calculator.CalculateSingle(hornet.NullHashBytes)
	require.NoError(t, err)
	require.Equal(t, 1+2*len(chain), weight)
}

func TestCumulativeWeightStalk(t *testing.T) {

	te := testsuite.SetupTestEnvironment(t, map[string]uint64{})
	defer te.CleanupTestEnvironment()

	stalk := te.BuildStalk(hornet.NullHashBytes, 15, 5)
	calculator := tipselect.NewCumulativeWeightCalculator(te.Storage(), tipselect.DefaultMaxFutureSetSize)

	weight, err := calculator.CalculateSingle(stalk[14])
	require.NoError(t, err)
	require.Equal(t, 11, weight)

	weight, err = calculator.CalculateSingle(stalk[13])
	require.NoError(t, err)
	require.Equal(t, 23, weight)
}

func TestCumulativeWeightCap(t *testing.T) {

	te := testsuite.SetupTestEnvironment(t, map[string]uint64{})
	defer te.CleanupTestEnvironment()

	maxFutureSetSize := 20
	chain := te.BuildChain(hornet.NullHashBytes, 50)
	calculator := tipselect.NewCumulativeWeightCalculator(te.Storage(), maxFutureSetSize)
	require.Equal(t, maxFutureSetSize, calculator.MaxFutureSetSize())

	for _, txHash := range append(hornet.Hashes{hornet.NullHashBytes}, chain...) {
		weight, err := calculator.CalculateSingle(txHash)
		require.NoError(t, err)
		require.LessOrEqual(t, weight, maxFutureSetSize)
	}

	weight, err := calculator.CalculateSingle(chain[0])
	require.NoError(t, err)
	require.Equal(t, maxFutureSetSize, weight)

	// the tip is below the cap
	weight, err = calculator.CalculateSingle(chain[len(chain)-1])
	require.NoError(t, err)
	require.Equal(t, 1, weight)
}

func TestCumulativeWeightIdempotence(t *testing.T) {

	te := testsuite.SetupTestEnvironment(t, map[string]uint64{})
	defer te.CleanupTestEnvironment()

	stalk := te.BuildStalk(hornet.NullHashBytes, 8, 3)
	calculator := tipselect.NewCumulativeWeightCalculator(te.Storage(), 30)

	for _, txHash := range stalk {
		first, err := calculator.CalculateSingle(txHash)
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			weight, err := calculator.CalculateSingle(txHash)
			require.NoError(t, err)
			require.Equal(t, first, weight)
		}
	}
}

func TestCumulativeWeightNotFound(t *testing.T) {

	te := testsuite.SetupTestEnvironment(t, map[string]uint64{})
	defer te.CleanupTestEnvironment()

	calculator := tipselect.NewCumulativeWeightCalculator(te.Storage(), tipselect.DefaultMaxFutureSetSize)

	_, err := calculator.CalculateSingle(testsuite.RandHash())
	require.Error(t, err)
	require.True(t, errors.Is(err, common.ErrTransactionNotFound))

	_, err = calculator.SubtangleSize(testsuite.RandHash(), 10)
	require.True(t, errors.Is(err, common.ErrTransactionNotFound))
}

func TestSubtangleSize(t *testing.T) {

	te := testsuite.SetupTestEnvironment(t, map[string]uint64{})
	defer te.CleanupTestEnvironment()

	stalk := te.BuildStalk(hornet.NullHashBytes, 4, 2)
	calculator := tipselect.NewCumulativeWeightCalculator(te.Storage(), tipselect.DefaultMaxFutureSetSize)

	// genesis, 4 stalk transactions and 3*2 leaves
	size, err := calculator.SubtangleSize(hornet.NullHashBytes, 100)
	require.NoError(t, err)
	require.Equal(t, 11, size)

	size, err = calculator.SubtangleSize(stalk[3], 100)
	require.NoError(t, err)
	require.Equal(t, 3, size)

	size, err = calculator.SubtangleSize(hornet.NullHashBytes, 5)
	require.NoError(t, err)
	require.Equal(t, 5, size)
}

func TestCumulativeWeightCalculatorInvalidCap(t *testing.T) {
	te := testsuite.SetupTestEnvironment(t, map[string]uint64{})
	defer te.CleanupTestEnvironment()

	require.Panics(t, func() {
		tipselect.NewCumulativeWeightCalculator(te.Storage(), 0)
	})
}
