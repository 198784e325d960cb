package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// PaymentEntry is one observed payment. A raw list may hold several entries
// for the same payee.
type PaymentEntry struct {
	Payee  common.Address `json:"payee"`
	Amount *big.Int       `json:"amount"`
}

// IsValid reports whether the entry takes part in aggregation: it needs a
// non-zero payee and a strictly positive amount.
func (p *PaymentEntry) IsValid() bool {
	if p == nil || p.Amount == nil {
		return false
	}
	return p.Payee != (common.Address{}) && p.Amount.Sign() > 0
}

// AggregatedEntry is the sum of every PaymentEntry for one payee.
type AggregatedEntry struct {
	Payee            common.Address `json:"payee"`
	CumulativeAmount *big.Int       `json:"cumulativeAmount"`
}

// Copy returns a deep copy of the entry.
func (a *AggregatedEntry) Copy() *AggregatedEntry {
	if a == nil {
		return nil
	}
	var amount *big.Int
	if a.CumulativeAmount != nil {
		amount = new(big.Int).Set(a.CumulativeAmount)
	}
	return &AggregatedEntry{
		Payee:            a.Payee,
		CumulativeAmount: amount,
	}
}

// PaymentCycle is the stored record of one committed cycle: enough to rebuild
// its tree and serve proofs for as long as the cycle is retained.
type PaymentCycle struct {
	// Cycle is the payment cycle number the root was pinned under
	Cycle uint64 `json:"cycle"`

	// Root is the committed merkle root
	Root common.Hash `json:"root"`

	// Entries is the aggregated payee list, sorted by payee
	Entries []*AggregatedEntry `json:"entries"`

	// CreatedAt is the Unix timestamp of the commit
	CreatedAt int64 `json:"createdAt"`

	// SubmissionTx is the hash of the root submission transaction, zero if
	// the root was not submitted by this process
	SubmissionTx common.Hash `json:"submissionTx"`
}

// Copy returns a deep copy of the cycle.
func (c *PaymentCycle) Copy() *PaymentCycle {
	if c == nil {
		return nil
	}
	entries := make([]*AggregatedEntry, len(c.Entries))
	for i, e := range c.Entries {
		entries[i] = e.Copy()
	}
	return &PaymentCycle{
		Cycle:        c.Cycle,
		Root:         c.Root,
		Entries:      entries,
		CreatedAt:    c.CreatedAt,
		SubmissionTx: c.SubmissionTx,
	}
}
