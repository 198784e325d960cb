package merkle

import (
	"errors"

	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/sha3"
)

// HashFunc is the digest primitive the tree is built on.
type HashFunc func(data []byte) [32]byte

// EmptyRoot is the root of a tree with no leaves. It is the zero bytes32,
// which is also what an unset root slot reads as on chain, so a verifier
// treats it as "no payments this cycle" and no proof can recombine to it.
var EmptyRoot = [32]byte{}

var (
	// ErrLeafNotFound is returned by strict lookups for a digest that is not in layer 0.
	ErrLeafNotFound = errors.New("leaf does not exist in merkle tree")

	// ErrInvalidLayers is returned when a serialized layer set is not a valid tree.
	ErrInvalidLayers = errors.New("invalid merkle layers")
)

// Keccak256 is the default digest primitive, matching Solidity's keccak256.
func Keccak256(data []byte) [32]byte {
	return [32]byte(crypto.Keccak256Hash(data))
}

// LegacyKeccak256 computes the same digest as Keccak256 through
// golang.org/x/crypto. It exists for callers who want to supply the primitive
// without go-ethereum's crypto package.
func LegacyKeccak256(data []byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write(data)

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// HashTree is a binary hash tree over a sorted, deduplicated leaf set.
// Parents are hashes of the sorted concatenation of their two children; a
// lone odd node is promoted to the next layer unchanged.
//
// A HashTree is immutable once built and safe for concurrent reads.
type HashTree struct {
	// layers[0] = sorted leaves, layers[len-1] = root
	layers [][][32]byte

	// index maps a leaf digest to its position in layers[0]
	index map[[32]byte]int

	hashFn HashFunc
}
