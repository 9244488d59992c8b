package hornet

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/iotaledger/iota.go/consts"
	"github.com/iotaledger/iota.go/encoding/t5b1"
	"github.com/iotaledger/iota.go/trinary"
)

const (
	// HashBytesLength is the length of the binary representation of a transaction hash.
	HashBytesLength = 49
	// HashTrytesLength is the length of the trinary representation of a transaction hash.
	HashTrytesLength = consts.HashTrytesSize
)

var (
	// NullHashBytes is the binary hash of the genesis transaction.
	NullHashBytes = make(Hash, HashBytesLength)
)

// Hash is the binary representation of a trinary Hash.
type Hash []byte

// Trytes converts the binary Hash to its trinary representation.
func (h Hash) Trytes() trinary.Hash {
	if len(h) != HashBytesLength {
		panic(fmt.Sprintf("unknown hash length (%d)", len(h)))
	}
	trytes, err := t5b1.DecodeToTrytes(h)
	if err != nil {
		panic(err)
	}
	return trytes[:HashTrytesLength]
}

// ToMapKey converts the Hash to a string that can be used as a map key.
func (h Hash) ToMapKey() string {
	return string(h)
}

// IsNull returns whether the hash is the genesis hash.
func (h Hash) IsNull() bool {
	return bytes.Equal(h, NullHashBytes)
}

// Equal returns whether both hashes are the same.
func (h Hash) Equal(other Hash) bool {
	return bytes.Equal(h, other)
}

func (h Hash) String() string {
	return string(h.Trytes())
}

// HashFromHashTrytes converts a trinary hash to its binary representation.
func HashFromHashTrytes(hash trinary.Hash) Hash {
	return t5b1.EncodeTrytes(hash)[:HashBytesLength]
}

// HashFromMapKey creates a Hash from a map key representation.
func HashFromMapKey(mapKey string) Hash {
	if len(mapKey) != HashBytesLength {
		panic(fmt.Sprintf("invalid hash map key length: %d", len(mapKey)))
	}
	return Hash(mapKey)
}

// HashFromSlice copies the given bytes into a new Hash.
func HashFromSlice(b []byte) Hash {
	if len(b) != HashBytesLength {
		panic(fmt.Sprintf("invalid hash length: %d", len(b)))
	}
	h := make(Hash, HashBytesLength)
	copy(h, b)
	return h
}

// Hashes is a slice of Hash.
type Hashes []Hash

// Trytes converts the binary Hashes to their trinary representation.
func (h Hashes) Trytes() []trinary.Hash {
	results := make([]trinary.Hash, len(h))
	for i, hash := range h {
		results[i] = hash.Trytes()
	}
	return results
}

// RemoveDupsAndSortByLexicalOrder returns a new slice of Hashes sorted by lexical order and without duplicates.
func (h Hashes) RemoveDupsAndSortByLexicalOrder() Hashes {
	seen := make(map[string]struct{}, len(h))
	sorted := make(Hashes, 0, len(h))
	for _, hash := range h {
		if _, exists := seen[hash.ToMapKey()]; exists {
			continue
		}
		seen[hash.ToMapKey()] = struct{}{}
		sorted = append(sorted, hash)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i], sorted[j]) < 0
	})
	return sorted
}
