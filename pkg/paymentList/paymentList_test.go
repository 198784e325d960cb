package paymentList

import (
	"bytes"
	"math/big"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Layr-Labs/cumulative-payments-go/pkg/payments"
	"github.com/Layr-Labs/cumulative-payments-go/pkg/util"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	addrA = "0x627306090abaB3A6e1400e9345bC60c78a8BEf57"
	addrB = "0xf17f52151EbEF6C7334FAD080c5704D77216b732"
)

func TestParse(t *testing.T) {
	input := `{
		"` + addrB + `": 12,
		"` + addrA + `": "10",
		"0xc5fdf4076b8f3a5357c5e395ab970b5b54098fef": "0x0f"
	}`

	entries, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// sorted by payee bytes
	assert.Equal(t, common.HexToAddress(addrA), entries[0].Payee)
	assert.Equal(t, int64(10), entries[0].Amount.Int64())
	assert.Equal(t, common.HexToAddress("0xc5fdf4076b8f3a5357c5e395ab970b5b54098fef"), entries[1].Payee)
	assert.Equal(t, int64(15), entries[1].Amount.Int64())
	assert.Equal(t, common.HexToAddress(addrB), entries[2].Payee)
	assert.Equal(t, int64(12), entries[2].Amount.Int64())
}

func TestParseLargeAmount(t *testing.T) {
	// Beyond float64 precision; must survive exactly
	input := `{"` + addrA + `": 123456789012345678901234567890}`

	entries, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	expected, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	assert.Zero(t, expected.Cmp(entries[0].Amount))
}

func TestParseIntegerValuedNumbers(t *testing.T) {
	wei, _ := new(big.Int).SetString("1000000000000000000", 10)

	testCases := []struct {
		name   string
		amount string
		want   *big.Int
	}{
		{"exponent", `1e18`, wei},
		{"upper case exponent", `1E18`, wei},
		{"trailing zero fraction", `10.0`, big.NewInt(10)},
		{"fraction with exponent", `2.5e1`, big.NewInt(25)},
		{"positive exponent sign", `3e+2`, big.NewInt(300)},
		{"zero", `0.0`, big.NewInt(0)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			entries, err := Parse(strings.NewReader(`{"` + addrA + `": ` + tc.amount + `}`))
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Zero(t, tc.want.Cmp(entries[0].Amount), "got %s", entries[0].Amount)
		})
	}
}

func TestParseCaseVariantsAggregate(t *testing.T) {
	input := `{
		"` + addrA + `": 10,
		"` + strings.ToLower(addrA) + `": 8,
		"` + addrB + `": 12
	}`

	entries, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	tree, err := payments.NewCumulativePaymentTree(entries)
	require.NoError(t, err)
	assert.Equal(t, 2, tree.Len())
	assert.Equal(t, int64(18), tree.AmountFor(common.HexToAddress(addrA)).Int64())
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"not an object", `[1, 2]`, nil},
		{"bad address", `{"0x1234": 1}`, util.ErrInvalidAddress},
		{"fractional amount", `{"` + addrA + `": 1.5}`, util.ErrInvalidAmount},
		{"fractional exponent amount", `{"` + addrA + `": 15e-1}`, util.ErrInvalidAmount},
		{"negative exponent number", `{"` + addrA + `": -1e3}`, util.ErrNegativeAmount},
		{"overflowing exponent amount", `{"` + addrA + `": 1e78}`, util.ErrEncodingOverflow},
		{"huge exponent amount", `{"` + addrA + `": 1e999999999}`, util.ErrEncodingOverflow},
		{"tiny exponent amount", `{"` + addrA + `": 1e-999999999}`, util.ErrInvalidAmount},
		{"boolean amount", `{"` + addrA + `": true}`, util.ErrInvalidAmount},
		{"null amount", `{"` + addrA + `": null}`, util.ErrInvalidAmount},
		{"garbage string", `{"` + addrA + `": "ten"}`, util.ErrInvalidAmount},
		{"negative amount", `{"` + addrA + `": -1}`, util.ErrNegativeAmount},
		{"overflowing amount", `{"` + addrA + `": "0x1` + strings.Repeat("0", 64) + `"}`, util.ErrEncodingOverflow},
		{"truncated", `{"` + addrA + `": 1`, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.input))
			require.Error(t, err)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	entries, err := Parse(strings.NewReader(`{}`))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteAndParse(t *testing.T) {
	entries, err := GenerateTestPayments()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, entries))

	parsed, err := Parse(&buf)
	require.NoError(t, err)
	require.Len(t, parsed, len(entries))

	byPayee := make(map[common.Address]int64)
	for _, e := range entries {
		byPayee[e.Payee] = e.Amount.Int64()
	}
	for _, e := range parsed {
		amount, ok := byPayee[e.Payee]
		require.True(t, ok, "unexpected payee %s", e.Payee.Hex())
		assert.Equal(t, amount, e.Amount.Int64())
	}
}

func TestWriteRejectsDuplicates(t *testing.T) {
	entries, err := GenerateTestPayments()
	require.NoError(t, err)
	entries = append(entries, entries[0])

	var buf bytes.Buffer
	require.Error(t, Write(&buf, entries))
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payments.json")

	entries, err := GenerateTestPayments()
	require.NoError(t, err)
	require.NoError(t, WriteFile(path, entries))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, loaded, len(entries))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestGenerateTestPayments(t *testing.T) {
	require.Len(t, TestAccountAmounts, len(TestAccountKeys))

	entries, err := GenerateTestPayments()
	require.NoError(t, err)
	require.Len(t, entries, len(TestAccountKeys))

	seen := make(map[common.Address]bool)
	for i, e := range entries {
		assert.NotEqual(t, common.Address{}, e.Payee)
		assert.False(t, seen[e.Payee], "duplicate payee %s", e.Payee.Hex())
		seen[e.Payee] = true
		assert.Equal(t, TestAccountAmounts[i], e.Amount.Int64())
	}

	// Deterministic
	again, err := GenerateTestPayments()
	require.NoError(t, err)
	assert.Equal(t, entries, again)

	tree, err := payments.NewCumulativePaymentTree(entries)
	require.NoError(t, err)
	assert.Equal(t, 8, tree.Len())
	assert.Equal(t, 2, tree.Filtered())

	for _, e := range tree.Entries() {
		assert.True(t, tree.Verify(e.Payee, e.CumulativeAmount, tree.ProofFor(e.Payee, e.CumulativeAmount)))
	}
}
