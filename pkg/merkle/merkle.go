package merkle

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/Layr-Labs/cumulative-payments-go/pkg/util"
)

// NewHashTree builds a tree from already computed leaf digests.
// Exact duplicate digests are collapsed and the remainder sorted by unsigned
// big-endian byte order, so the input order never affects the root.
// A nil hashFn selects Keccak256. An empty leaf set yields a tree whose root
// is EmptyRoot.
func NewHashTree(leaves [][32]byte, hashFn HashFunc) *HashTree {
	if hashFn == nil {
		hashFn = Keccak256
	}

	sorted := make([][32]byte, len(leaves))
	copy(sorted, leaves)
	slices.SortFunc(sorted, compareDigests)
	sorted = slices.Compact(sorted)

	tree := &HashTree{
		index:  make(map[[32]byte]int, len(sorted)),
		hashFn: hashFn,
	}
	for i, leaf := range sorted {
		tree.index[leaf] = i
	}
	tree.layers = buildLayers(sorted, hashFn)

	return tree
}

// NewHashTreeFromLayers reconstructs a tree from a previously serialized
// layer set. Every layer is checked against the construction rules, so a
// tampered or truncated set is rejected rather than served.
func NewHashTreeFromLayers(layers [][][32]byte, hashFn HashFunc) (*HashTree, error) {
	if hashFn == nil {
		hashFn = Keccak256
	}
	if len(layers) == 0 {
		return nil, fmt.Errorf("%w: no layers", ErrInvalidLayers)
	}

	leaves := layers[0]
	for i := 1; i < len(leaves); i++ {
		if compareDigests(leaves[i-1], leaves[i]) >= 0 {
			return nil, fmt.Errorf("%w: leaves not strictly ascending at index %d", ErrInvalidLayers, i)
		}
	}

	tree := NewHashTree(leaves, hashFn)
	if len(tree.layers) != len(layers) {
		return nil, fmt.Errorf("%w: expected %d layers, got %d", ErrInvalidLayers, len(tree.layers), len(layers))
	}
	for level := range layers {
		if !slices.Equal(tree.layers[level], layers[level]) {
			return nil, fmt.Errorf("%w: layer %d does not match its children", ErrInvalidLayers, level)
		}
	}

	return tree, nil
}

func buildLayers(leaves [][32]byte, hashFn HashFunc) [][][32]byte {
	if len(leaves) == 0 {
		return [][][32]byte{{}}
	}

	layers := [][][32]byte{leaves}
	current := leaves
	for len(current) > 1 {
		next := make([][32]byte, 0, (len(current)+1)/2)
		for i := 0; i < len(current); i += 2 {
			// Odd node out is carried up unchanged
			if i+1 >= len(current) {
				next = append(next, current[i])
				continue
			}
			next = append(next, hashPair(current[i], current[i+1], hashFn))
		}
		layers = append(layers, next)
		current = next
	}

	return layers
}

// Root returns the single digest of the top layer, or EmptyRoot for an empty tree.
func (t *HashTree) Root() [32]byte {
	top := t.layers[len(t.layers)-1]
	if len(top) == 0 {
		return EmptyRoot
	}
	return top[0]
}

// HexRoot returns the 0x-prefixed hex encoding of Root.
func (t *HashTree) HexRoot() string {
	return util.BytesToHex(t.Root())
}

// Len is the number of distinct leaves.
func (t *HashTree) Len() int {
	return len(t.layers[0])
}

// Depth is the number of hashing levels above the leaves.
func (t *HashTree) Depth() int {
	return len(t.layers) - 1
}

// Leaves returns a copy of the sorted leaf layer.
func (t *HashTree) Leaves() [][32]byte {
	return slices.Clone(t.layers[0])
}

// Layers returns a deep copy of every layer, suitable for serialization.
func (t *HashTree) Layers() [][][32]byte {
	out := make([][][32]byte, len(t.layers))
	for i, layer := range t.layers {
		out[i] = slices.Clone(layer)
	}
	return out
}

// IndexOf reports the position of leaf in the sorted leaf layer.
func (t *HashTree) IndexOf(leaf [32]byte) (int, bool) {
	idx, ok := t.index[leaf]
	return idx, ok
}

// Contains reports whether leaf is in the tree.
func (t *HashTree) Contains(leaf [32]byte) bool {
	_, ok := t.index[leaf]
	return ok
}

// Proof returns the sibling path for leaf, leaf-adjacent sibling first.
// Layers where the node has no sibling contribute nothing. A digest that is
// not a leaf of this tree is an error (ErrLeafNotFound).
func (t *HashTree) Proof(leaf [32]byte) ([][32]byte, error) {
	return t.ProofWithPrefix(leaf)
}

// ProofWithPrefix is Proof with the given words placed ahead of the sibling path.
func (t *HashTree) ProofWithPrefix(leaf [32]byte, prefix ...[32]byte) ([][32]byte, error) {
	idx, ok := t.index[leaf]
	if !ok {
		return nil, fmt.Errorf("%w: 0x%x", ErrLeafNotFound, leaf)
	}

	proof := make([][32]byte, 0, len(prefix)+t.Depth())
	proof = append(proof, prefix...)

	for level := 0; level < len(t.layers)-1; level++ {
		if sibling, ok := pairElement(idx, t.layers[level]); ok {
			proof = append(proof, sibling)
		}
		idx /= 2
	}

	return proof, nil
}

// HexProof is ProofWithPrefix encoded as one hex string of 32 byte words.
func (t *HashTree) HexProof(leaf [32]byte, prefix ...[32]byte) (string, error) {
	proof, err := t.ProofWithPrefix(leaf, prefix...)
	if err != nil {
		return "", err
	}
	return util.EncodeProofHex(proof), nil
}

// Verify recombines leaf with proof using this tree's digest primitive and
// compares the result with root.
func (t *HashTree) Verify(root, leaf [32]byte, proof [][32]byte) bool {
	return verify(root, leaf, proof, t.hashFn)
}

// VerifyProof is the verifier side of the construction under Keccak256:
// fold the siblings into the leaf with sorted-pair hashing and compare
// against root. It needs no positional information.
func VerifyProof(root, leaf [32]byte, proof [][32]byte) bool {
	return verify(root, leaf, proof, Keccak256)
}

func verify(root, leaf [32]byte, proof [][32]byte, hashFn HashFunc) bool {
	if root == EmptyRoot {
		return false
	}
	computed := leaf
	for _, sibling := range proof {
		computed = hashPair(computed, sibling, hashFn)
	}
	return computed == root
}

// HashPair combines two child digests under Keccak256, independent of their order.
func HashPair(a, b [32]byte) [32]byte {
	return hashPair(a, b, Keccak256)
}

// hashPair computes hash(min(a,b) || max(a,b)).
func hashPair(a, b [32]byte, hashFn HashFunc) [32]byte {
	if compareDigests(a, b) > 0 {
		a, b = b, a
	}
	data := make([]byte, 64)
	copy(data[0:32], a[:])
	copy(data[32:64], b[:])
	return hashFn(data)
}

func pairElement(idx int, layer [][32]byte) ([32]byte, bool) {
	pairIdx := idx + 1
	if idx%2 == 1 {
		pairIdx = idx - 1
	}
	if pairIdx < len(layer) {
		return layer[pairIdx], true
	}
	return [32]byte{}, false
}

func compareDigests(a, b [32]byte) int {
	return bytes.Compare(a[:], b[:])
}
