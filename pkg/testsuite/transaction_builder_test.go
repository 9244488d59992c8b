package testsuite

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotaledger/iota.go/consts"
	"github.com/iotaledger/iota.go/trinary"

	"github.com/gohornet/tipsel/pkg/model/hornet"
)

func TestRandHashTrytesIsValidSeed(t *testing.T) {

	for i := 0; i < 50; i++ {
		seed := RandHashTrytes()
		require.Len(t, seed, consts.HashTrytesSize)

		trits, err := trinary.TrytesToTrits(seed)
		require.NoError(t, err)
		require.Zero(t, trits[consts.HashTrinarySize-1])

		// Kerl rejects seeds with a non-zero 243rd trit
		require.Len(t, GenerateAddress(t, seed, uint64(i)), hornet.HashBytesLength)
	}
}

func TestRandHashRoundTrip(t *testing.T) {

	for i := 0; i < 50; i++ {
		hashTrytes := RandHashTrytes()
		hash := hornet.HashFromHashTrytes(hashTrytes)
		require.Len(t, hash, hornet.HashBytesLength)
		require.Equal(t, hashTrytes, hash.Trytes())
	}
}
