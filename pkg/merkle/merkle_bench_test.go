package merkle

import (
	"fmt"
	"testing"
)

// BenchmarkHashTreeBuild benchmarks tree construction with various sizes
func BenchmarkHashTreeBuild(b *testing.B) {
	sizes := []int{10, 100, 1000, 10000}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("Leaves_%d", size), func(b *testing.B) {
			leaves := createTestLeaves(size)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_ = NewHashTree(leaves, nil)
			}
		})
	}
}

// BenchmarkProofGeneration benchmarks proof generation
func BenchmarkProofGeneration(b *testing.B) {
	sizes := []int{10, 100, 1000, 10000}

	for _, size := range sizes {
		leaves := createTestLeaves(size)
		tree := NewHashTree(leaves, nil)

		b.Run(fmt.Sprintf("Leaves_%d", size), func(b *testing.B) {
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_, _ = tree.Proof(leaves[i%size])
			}
		})
	}
}

// BenchmarkProofVerification benchmarks proof verification
func BenchmarkProofVerification(b *testing.B) {
	sizes := []int{10, 100, 1000, 10000}

	for _, size := range sizes {
		leaves := createTestLeaves(size)
		tree := NewHashTree(leaves, nil)
		proof, _ := tree.Proof(leaves[0])
		root := tree.Root()

		b.Run(fmt.Sprintf("Leaves_%d", size), func(b *testing.B) {
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_ = VerifyProof(root, leaves[0], proof)
			}
		})
	}
}
