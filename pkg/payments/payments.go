// Package payments builds cumulative-payment trees: one leaf per payee,
// keccak256(abi.encodePacked(address payee, uint256 cumulativeAmount)),
// committed with sorted-pair hashing so an on-chain MerkleProof verifier can
// check a payee's claim with nothing but the sibling path.
package payments

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"slices"

	"github.com/Layr-Labs/cumulative-payments-go/pkg/merkle"
	"github.com/Layr-Labs/cumulative-payments-go/pkg/types"
	"github.com/Layr-Labs/cumulative-payments-go/pkg/util"
	"github.com/ethereum/go-ethereum/common"
)

// ErrRootMismatch is returned when a stored cycle does not rebuild to its recorded root.
var ErrRootMismatch = errors.New("rebuilt root does not match stored root")

// ZeroProof is what ProofFor returns for a claim that is not in the tree: a
// single all-zero word, which never verifies against a real root.
var ZeroProof = [][32]byte{{}}

// CumulativePaymentTree owns a HashTree built from aggregated payee amounts,
// plus the aggregated list needed to answer queries by payee.
type CumulativePaymentTree struct {
	tree *merkle.HashTree

	// entries sorted by payee
	entries []*types.AggregatedEntry
	byPayee map[common.Address]*big.Int

	filtered int
}

// NewCumulativePaymentTree filters, aggregates and commits a raw payment list.
// Entries with a zero payee or a non-positive amount are dropped. An amount
// sum that leaves the uint256 domain is a hard error.
func NewCumulativePaymentTree(entries []*types.PaymentEntry) (*CumulativePaymentTree, error) {
	aggregated, filtered, err := Aggregate(entries)
	if err != nil {
		return nil, err
	}

	t, err := NewFromAggregated(aggregated)
	if err != nil {
		return nil, err
	}
	t.filtered = filtered
	return t, nil
}

// Aggregate sums amounts per payee. It returns the aggregated list sorted by
// payee and the number of entries dropped as invalid.
func Aggregate(entries []*types.PaymentEntry) ([]*types.AggregatedEntry, int, error) {
	sums := make(map[common.Address]*big.Int)
	filtered := 0

	for _, entry := range entries {
		if !entry.IsValid() {
			filtered++
			continue
		}
		sum, ok := sums[entry.Payee]
		if !ok {
			sum = new(big.Int)
			sums[entry.Payee] = sum
		}
		sum.Add(sum, entry.Amount)
		if _, err := util.AmountToUint256(sum); err != nil {
			return nil, 0, fmt.Errorf("cumulative amount for payee %s: %w", entry.Payee.Hex(), err)
		}
	}

	aggregated := make([]*types.AggregatedEntry, 0, len(sums))
	for payee, sum := range sums {
		aggregated = append(aggregated, &types.AggregatedEntry{
			Payee:            payee,
			CumulativeAmount: sum,
		})
	}
	sortEntries(aggregated)

	return aggregated, filtered, nil
}

// NewFromAggregated builds the tree from an already aggregated list, as
// loaded back from storage. Payees must be unique and every amount must be
// positive and fit uint256.
func NewFromAggregated(entries []*types.AggregatedEntry) (*CumulativePaymentTree, error) {
	t := &CumulativePaymentTree{
		entries: make([]*types.AggregatedEntry, 0, len(entries)),
		byPayee: make(map[common.Address]*big.Int, len(entries)),
	}

	leaves := make([][32]byte, 0, len(entries))
	for _, entry := range entries {
		if entry == nil || entry.CumulativeAmount == nil || entry.CumulativeAmount.Sign() <= 0 {
			return nil, fmt.Errorf("invalid aggregated entry for payee %v", entryPayee(entry))
		}
		if entry.Payee == (common.Address{}) {
			return nil, fmt.Errorf("aggregated entry has zero payee")
		}
		if _, dup := t.byPayee[entry.Payee]; dup {
			return nil, fmt.Errorf("duplicate aggregated entry for payee %s", entry.Payee.Hex())
		}

		leaf, err := LeafFor(entry.Payee, entry.CumulativeAmount)
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, leaf)

		cp := entry.Copy()
		t.entries = append(t.entries, cp)
		t.byPayee[cp.Payee] = cp.CumulativeAmount
	}
	sortEntries(t.entries)

	t.tree = merkle.NewHashTree(leaves, merkle.Keccak256)
	return t, nil
}

// FromCycle rebuilds the tree of a stored cycle and checks it against the
// recorded root.
func FromCycle(cycle *types.PaymentCycle) (*CumulativePaymentTree, error) {
	if cycle == nil {
		return nil, fmt.Errorf("cannot rebuild tree from nil cycle")
	}
	t, err := NewFromAggregated(cycle.Entries)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild cycle %d: %w", cycle.Cycle, err)
	}
	if t.Root() != [32]byte(cycle.Root) {
		return nil, fmt.Errorf("cycle %d: %w: stored %s, rebuilt %s", cycle.Cycle, ErrRootMismatch, cycle.Root.Hex(), t.HexRoot())
	}
	return t, nil
}

// LeafFor computes the leaf digest of any (payee, amount) pair, whether or not
// it is in a tree: keccak256(payee[20] || uint256(amount)[32]).
func LeafFor(payee common.Address, amount *big.Int) ([32]byte, error) {
	packed, err := util.PackLeaf(payee, amount)
	if err != nil {
		return [32]byte{}, err
	}
	return merkle.Keccak256(packed), nil
}

// Root is the committed root, merkle.EmptyRoot when no payee survived filtering.
func (t *CumulativePaymentTree) Root() [32]byte {
	return t.tree.Root()
}

// HexRoot is Root as a 0x-prefixed hex string, the form submitted on chain.
func (t *CumulativePaymentTree) HexRoot() string {
	return t.tree.HexRoot()
}

// HashTree exposes the underlying digest-level tree.
func (t *CumulativePaymentTree) HashTree() *merkle.HashTree {
	return t.tree
}

// Len is the number of distinct payees.
func (t *CumulativePaymentTree) Len() int {
	return len(t.entries)
}

// Filtered is the number of raw entries dropped as invalid.
func (t *CumulativePaymentTree) Filtered() int {
	return t.filtered
}

// Entries returns a copy of the aggregated list, sorted by payee.
func (t *CumulativePaymentTree) Entries() []*types.AggregatedEntry {
	out := make([]*types.AggregatedEntry, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Copy()
	}
	return out
}

// AmountFor returns the payee's cumulative amount, zero when absent.
func (t *CumulativePaymentTree) AmountFor(payee common.Address) *big.Int {
	amount, ok := t.byPayee[payee]
	if !ok {
		return new(big.Int)
	}
	return new(big.Int).Set(amount)
}

// ProofFor returns the sibling path for (payee, amount). A pair that is not a
// leaf of this tree (unknown payee, wrong amount, unencodable amount) yields
// ZeroProof instead of an error; such a proof simply fails verification.
func (t *CumulativePaymentTree) ProofFor(payee common.Address, amount *big.Int) [][32]byte {
	proof, err := t.proof(payee, amount)
	if err != nil {
		return cloneZeroProof()
	}
	return proof
}

// HexProofFor is ProofFor as a hex string of concatenated words.
func (t *CumulativePaymentTree) HexProofFor(payee common.Address, amount *big.Int) string {
	return util.EncodeProofHex(t.ProofFor(payee, amount))
}

// HexProofWithClaim returns cycle || amount || siblings as one hex blob, the
// layout withdrawals consume. A claim that is not in the tree gets the
// ZeroProof encoding with no claim words.
func (t *CumulativePaymentTree) HexProofWithClaim(payee common.Address, amount *big.Int, cycle uint64) string {
	proof, err := t.proof(payee, amount)
	if err != nil {
		return util.EncodeProofHex(ZeroProof)
	}
	encoded, err := util.EncodeClaimProofHex(cycle, amount, proof)
	if err != nil {
		return util.EncodeProofHex(ZeroProof)
	}
	return encoded
}

// Verify checks (payee, amount, proof) against this tree's root.
func (t *CumulativePaymentTree) Verify(payee common.Address, amount *big.Int, proof [][32]byte) bool {
	return VerifyPayment(t.Root(), payee, amount, proof)
}

// VerifyPayment recomputes the payee's leaf and folds the proof into it with
// sorted-pair hashing, as the on-chain verifier does.
func VerifyPayment(root [32]byte, payee common.Address, amount *big.Int, proof [][32]byte) bool {
	leaf, err := LeafFor(payee, amount)
	if err != nil {
		return false
	}
	return merkle.VerifyProof(root, leaf, proof)
}

// Cycle snapshots the tree as a storable cycle record.
func (t *CumulativePaymentTree) Cycle(cycle uint64, createdAt int64) *types.PaymentCycle {
	return &types.PaymentCycle{
		Cycle:     cycle,
		Root:      common.Hash(t.Root()),
		Entries:   t.Entries(),
		CreatedAt: createdAt,
	}
}

func (t *CumulativePaymentTree) proof(payee common.Address, amount *big.Int) ([][32]byte, error) {
	leaf, err := LeafFor(payee, amount)
	if err != nil {
		return nil, err
	}
	return t.tree.Proof(leaf)
}

func cloneZeroProof() [][32]byte {
	return slices.Clone(ZeroProof)
}

func sortEntries(entries []*types.AggregatedEntry) {
	slices.SortFunc(entries, func(a, b *types.AggregatedEntry) int {
		return bytes.Compare(a.Payee[:], b.Payee[:])
	})
}

func entryPayee(entry *types.AggregatedEntry) string {
	if entry == nil {
		return "<nil>"
	}
	return entry.Payee.Hex()
}
