// Package paymentList reads and writes payment lists: a JSON object mapping
// payee address to amount, e.g. {"0xf17f...b732": 12, "0xc5fd...8fef": "0x0f"}.
package paymentList

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/Layr-Labs/cumulative-payments-go/pkg/types"
	"github.com/Layr-Labs/cumulative-payments-go/pkg/util"
	"github.com/ethereum/go-ethereum/crypto"
)

// maxNumberExponent bounds the exponent of a JSON number amount. Anything
// larger cannot be a uint256 unless the mantissa is zero.
const maxNumberExponent = 1000

// TestAccountKeys are the dev-chain private keys used to derive the synthetic
// test payees.
var TestAccountKeys = []string{
	"0xa3a0080036b8dbc21f63da1189ef5355989255a2a40787a58c33ae63ed20e069",
	"0x2b08f442dbed805005ada6feed49fdae6b3bcf9a5a0f1ee8349bdea9789ee772",
	"0x2897dec6026dc93e64e787ef2d820d273d4d9141f066fc75bb209c52db0d8c39",
	"0xbca7c4a5c1458e0dbbf7b64d3bcab00403c36caca1098defbdc2acc0d3278eca",
	"0x494641c3d2ab250df050936c6304c783f8303137878fc3103f73c3f417789795",
	"0xb3db90f160d9abe170e53d199d426489d7f3fa925c3521e11101777981b1f99f",
	"0xeb086d581d30628bec7424f910df4388d67623e77cae465fd7b3f07ea3018e46",
	"0xcdfa5086cc6ef4f9f259ec3065b0ac2a41093f359168c8b2a544dc56f23bb0e2",
	"0xb3f37cdb4b990f6a0c1e88e12dc3b3ba9a6cf79cc49f1807b1678f0bf0a0eaef",
	"0x52c97e409618367e81f559255fb01a10d68fc4edbf22c51f459a61fddef8dfc5",
}

// TestAccountAmounts pairs with TestAccountKeys by index. The two zero
// amounts are filtered out when the tree is built.
var TestAccountAmounts = []int64{0, 0, 10, 12, 2, 1, 32, 10, 9, 101}

// Parse decodes a payment list. Amounts may be JSON numbers or decimal / 0x-hex
// strings. Keys differing only in hex case become two entries for the same
// payee, which aggregation later sums. The result is sorted by payee.
func Parse(r io.Reader) ([]*types.PaymentEntry, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw map[string]json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode payment list: %w", err)
	}

	entries := make([]*types.PaymentEntry, 0, len(raw))
	for key, value := range raw {
		payee, err := util.ParseAddress(key)
		if err != nil {
			return nil, fmt.Errorf("payment list key: %w", err)
		}
		amount, err := parseAmountValue(value)
		if err != nil {
			return nil, fmt.Errorf("payment list amount for %s: %w", key, err)
		}
		entries = append(entries, &types.PaymentEntry{Payee: payee, Amount: amount})
	}

	sortEntries(entries)
	return entries, nil
}

// LoadFile reads a payment list from disk.
func LoadFile(path string) ([]*types.PaymentEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open payment list: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

// Write encodes entries as an indented JSON object keyed by checksummed
// address. A payee may appear only once.
func Write(w io.Writer, entries []*types.PaymentEntry) error {
	out := make(map[string]*big.Int, len(entries))
	for _, entry := range entries {
		if entry == nil || entry.Amount == nil {
			return fmt.Errorf("cannot write nil payment entry")
		}
		key := entry.Payee.Hex()
		if _, dup := out[key]; dup {
			return fmt.Errorf("duplicate payee %s in payment list", key)
		}
		out[key] = entry.Amount
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode payment list: %w", err)
	}
	data = append(data, '\n')

	_, err = w.Write(data)
	return err
}

// WriteFile writes a payment list to disk.
func WriteFile(path string, entries []*types.PaymentEntry) error {
	var buf bytes.Buffer
	if err := Write(&buf, entries); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write payment list: %w", err)
	}
	return nil
}

// GenerateTestPayments derives the test payees from TestAccountKeys and pairs
// them with TestAccountAmounts.
func GenerateTestPayments() ([]*types.PaymentEntry, error) {
	entries := make([]*types.PaymentEntry, 0, len(TestAccountKeys))
	for i, hexKey := range TestAccountKeys {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid test account key %d: %w", i, err)
		}
		entries = append(entries, &types.PaymentEntry{
			Payee:  crypto.PubkeyToAddress(key.PublicKey),
			Amount: big.NewInt(TestAccountAmounts[i]),
		})
	}
	return entries, nil
}

func parseAmountValue(value json.RawMessage) (*big.Int, error) {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, err
		}
		return util.ParseAmount(s)
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return nil, fmt.Errorf("%w: %s", util.ErrInvalidAmount, string(trimmed))
	}
	return parseNumberAmount(n)
}

// parseNumberAmount accepts any JSON number with an exact integer value, so
// 1e18 and 10.0 are read the same as their plain decimal forms.
func parseNumberAmount(n json.Number) (*big.Int, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		return util.ParseAmount(s)
	}

	if idx := strings.IndexAny(s, "eE"); idx >= 0 {
		exp, err := strconv.Atoi(s[idx+1:])
		if err != nil {
			return nil, fmt.Errorf("%w: %s", util.ErrInvalidAmount, s)
		}
		if exp > maxNumberExponent {
			return nil, fmt.Errorf("%w: %s", util.ErrEncodingOverflow, s)
		}
		if exp < -maxNumberExponent {
			return nil, fmt.Errorf("%w: %s", util.ErrInvalidAmount, s)
		}
	}

	r, ok := new(big.Rat).SetString(s)
	if !ok || !r.IsInt() {
		return nil, fmt.Errorf("%w: %s is not an integer", util.ErrInvalidAmount, s)
	}
	return util.ParseAmount(r.Num().String())
}

func sortEntries(entries []*types.PaymentEntry) {
	slices.SortStableFunc(entries, func(a, b *types.PaymentEntry) int {
		if c := bytes.Compare(a.Payee[:], b.Payee[:]); c != 0 {
			return c
		}
		return a.Amount.Cmp(b.Amount)
	})
}
