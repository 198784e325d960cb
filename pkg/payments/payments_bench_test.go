package payments

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

// BenchmarkCumulativePaymentTreeBuild benchmarks aggregation plus tree construction
func BenchmarkCumulativePaymentTreeBuild(b *testing.B) {
	sizes := []int{10, 100, 1000, 10000}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("Payments_%d", size), func(b *testing.B) {
			entries := createTestPayments(size)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_, _ = NewCumulativePaymentTree(entries)
			}
		})
	}
}

// BenchmarkProofFor benchmarks payee proof lookup
func BenchmarkProofFor(b *testing.B) {
	sizes := []int{10, 100, 1000, 10000}

	for _, size := range sizes {
		tree, _ := NewCumulativePaymentTree(createTestPayments(size))

		b.Run(fmt.Sprintf("Payments_%d", size), func(b *testing.B) {
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				n := int64(i%size + 1)
				_ = tree.ProofFor(common.BigToAddress(big.NewInt(n)), big.NewInt(n))
			}
		})
	}
}
