package util

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func FuzzPackLeafMatchesABIWords(f *testing.F) {
	f.Add(make([]byte, 20), uint64(0))
	f.Add([]byte("01234567890123456789"), uint64(18))
	f.Add([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, ^uint64(0))

	// Standard (non-packed) ABI codec: address is left padded to a word,
	// uint256 is a plain word. Packed encoding must agree on the payload bytes.
	addressType, _ := abi.NewType("address", "", nil)
	uintType, _ := abi.NewType("uint256", "", nil)
	args := abi.Arguments{{Type: addressType}, {Type: uintType}}

	f.Fuzz(func(t *testing.T, b []byte, v uint64) {
		if len(b) < 20 {
			return
		}
		addr := common.BytesToAddress(b[:20])
		amount := new(big.Int).SetUint64(v)

		packed, err := PackLeaf(addr, amount)
		require.NoError(t, err)
		require.Len(t, packed, 52)

		standard, err := args.Pack(addr, amount)
		require.NoError(t, err)
		require.Len(t, standard, 64)

		require.Equal(t, standard[12:32], packed[:20])
		require.Equal(t, standard[32:64], packed[20:])
	})
}

func FuzzProofHexRoundTrip(f *testing.F) {
	f.Add([]byte{})
	f.Add(make([]byte, 64))

	f.Fuzz(func(t *testing.T, raw []byte) {
		if len(raw) > 32*64 {
			raw = raw[:32*64]
		}
		raw = raw[:len(raw)-len(raw)%WordLength]

		proof := make([][WordLength]byte, len(raw)/WordLength)
		for i := range proof {
			copy(proof[i][:], raw[i*WordLength:])
		}

		decoded, err := DecodeProofHex(EncodeProofHex(proof))
		require.NoError(t, err)
		require.Equal(t, proof, decoded)
	})
}
