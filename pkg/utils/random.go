package utils

import (
	"math/rand"
	"time"

	"github.com/iotaledger/hive.go/syncutils"
)

var (
	seededRand = rand.New(rand.NewSource(time.Now().UnixNano()))
	randLock   = &syncutils.Mutex{}
)

// RandomInsecure returns a random int in the range of min to max (inclusive).
// The result is not cryptographically secure.
func RandomInsecure(min int, max int) int {
	// rand.Rand is not safe for concurrent use
	randLock.Lock()
	defer randLock.Unlock()

	return seededRand.Intn(max+1-min) + min
}

// RandomTrytesInsecure returns random trytes of the given length.
// The result is not cryptographically secure.
func RandomTrytesInsecure(length int, alphabet string) string {
	randLock.Lock()
	defer randLock.Unlock()

	trytes := make([]byte, length)
	for i := range trytes {
		trytes[i] = alphabet[seededRand.Intn(len(alphabet))]
	}
	return string(trytes)
}
