package util

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeAddress(t *testing.T) {
	addr := common.HexToAddress("0x627306090abaB3A6e1400e9345bC60c78a8BEf57")
	encoded := EncodeAddress(addr)
	require.Len(t, encoded, 20)
	assert.Equal(t, addr.Bytes(), encoded)

	// mutating the result must not touch the address
	encoded[0] ^= 0xFF
	assert.Equal(t, byte(0x62), addr[0])
}

func TestEncodeAmount(t *testing.T) {
	testCases := []struct {
		name    string
		amount  *big.Int
		wantErr error
		want    string
	}{
		{"zero", big.NewInt(0), nil, "0000000000000000000000000000000000000000000000000000000000000000"},
		{"small", big.NewInt(18), nil, "0000000000000000000000000000000000000000000000000000000000000012"},
		{"max uint256", math.MaxBig256, nil, strings.Repeat("ff", 32)},
		{"overflow", new(big.Int).Add(math.MaxBig256, big.NewInt(1)), ErrEncodingOverflow, ""},
		{"negative", big.NewInt(-1), ErrNegativeAmount, ""},
		{"nil", nil, ErrInvalidAmount, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			encoded, err := EncodeAmount(tc.amount)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				require.Nil(t, encoded)
				return
			}
			require.NoError(t, err)
			require.Len(t, encoded, WordLength)
			assert.Equal(t, tc.want, common.Bytes2Hex(encoded))
		})
	}
}

func TestPackLeaf(t *testing.T) {
	addr := common.HexToAddress("0x95A59988186b582325004aC7C8d5724fD21414c3")
	packed, err := PackLeaf(addr, big.NewInt(4))
	require.NoError(t, err)
	require.Len(t, packed, 52)
	assert.Equal(t, addr.Bytes(), packed[:20])
	assert.Equal(t, byte(4), packed[51])
	for _, b := range packed[20:51] {
		assert.Equal(t, byte(0), b)
	}

	_, err = PackLeaf(addr, big.NewInt(-4))
	require.ErrorIs(t, err, ErrNegativeAmount)
}

func TestParseAddress(t *testing.T) {
	lower, err := ParseAddress("0x627306090abab3a6e1400e9345bc60c78a8bef57")
	require.NoError(t, err)
	checksummed, err := ParseAddress(" 0x627306090abaB3A6e1400e9345bC60c78a8BEf57 ")
	require.NoError(t, err)
	assert.Equal(t, lower, checksummed)

	for _, bad := range []string{"", "0x1234", "not-an-address", "0x627306090abab3a6e1400e9345bc60c78a8bef5z"} {
		_, err := ParseAddress(bad)
		require.ErrorIs(t, err, ErrInvalidAddress, "input %q", bad)
	}
}

func TestParseAmount(t *testing.T) {
	amount, err := ParseAmount("101")
	require.NoError(t, err)
	assert.Equal(t, int64(101), amount.Int64())

	amount, err = ParseAmount("0x65")
	require.NoError(t, err)
	assert.Equal(t, int64(101), amount.Int64())

	_, err = ParseAmount("")
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ParseAmount("12abc")
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ParseAmount("-5")
	require.ErrorIs(t, err, ErrNegativeAmount)

	_, err = ParseAmount("0x1" + strings.Repeat("0", 64))
	require.ErrorIs(t, err, ErrEncodingOverflow)
}

func TestProofHexRoundTrip(t *testing.T) {
	proof := [][WordLength]byte{{1, 2, 3}, {0xAA}, {31: 0xFF}}

	encoded := EncodeProofHex(proof)
	require.True(t, strings.HasPrefix(encoded, "0x"))
	require.Len(t, encoded, 2+3*64)

	decoded, err := DecodeProofHex(encoded)
	require.NoError(t, err)
	assert.Equal(t, proof, decoded)

	empty := EncodeProofHex(nil)
	assert.Equal(t, "0x", empty)
	decoded, err = DecodeProofHex(empty)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestDecodeProofHexRejectsBadInput(t *testing.T) {
	for _, bad := range []string{"", "abcd", "0x" + strings.Repeat("00", 31), "0xzz"} {
		_, err := DecodeProofHex(bad)
		require.ErrorIs(t, err, ErrInvalidProofEncoding, "input %q", bad)
	}
}

func TestClaimProofHexRoundTrip(t *testing.T) {
	siblings := [][WordLength]byte{{9}, {8}}
	encoded, err := EncodeClaimProofHex(2, big.NewInt(18), siblings)
	require.NoError(t, err)

	// cycle word, amount word, then siblings
	require.Len(t, encoded, 2+4*64)
	assert.Equal(t, "0x"+strings.Repeat("0", 63)+"2", encoded[:66])
	assert.Equal(t, strings.Repeat("0", 62)+"12", encoded[66:130])

	cycle, amount, proof, err := DecodeClaimProofHex(encoded)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), cycle)
	assert.Equal(t, int64(18), amount.Int64())
	assert.Equal(t, siblings, proof)
}

func TestDecodeClaimProofHexTooShort(t *testing.T) {
	_, _, _, err := DecodeClaimProofHex(EncodeProofHex([][WordLength]byte{{1}}))
	require.ErrorIs(t, err, ErrInvalidProofEncoding)

	_, _, _, err = DecodeClaimProofHex(EncodeProofHex([][WordLength]byte{{0xFF}, {1}}))
	require.ErrorIs(t, err, ErrInvalidProofEncoding)
}

func TestUint64ToWord(t *testing.T) {
	word := Uint64ToWord(0x0102)
	assert.Equal(t, byte(0x01), word[30])
	assert.Equal(t, byte(0x02), word[31])
	assert.Equal(t, [30]byte{}, [30]byte(word[:30]))
}
