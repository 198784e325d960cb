package types

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentEntryIsValid(t *testing.T) {
	payee := common.HexToAddress("0xf17f52151ebef6c7334fad080c5704d77216b732")

	testCases := []struct {
		name  string
		entry *PaymentEntry
		valid bool
	}{
		{"valid", &PaymentEntry{Payee: payee, Amount: big.NewInt(12)}, true},
		{"nil entry", nil, false},
		{"nil amount", &PaymentEntry{Payee: payee}, false},
		{"zero amount", &PaymentEntry{Payee: payee, Amount: big.NewInt(0)}, false},
		{"negative amount", &PaymentEntry{Payee: payee, Amount: big.NewInt(-3)}, false},
		{"zero address", &PaymentEntry{Amount: big.NewInt(3)}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, tc.entry.IsValid())
		})
	}
}

func TestPaymentCycleCopy(t *testing.T) {
	cycle := &PaymentCycle{
		Cycle: 3,
		Root:  common.HexToHash("0x01"),
		Entries: []*AggregatedEntry{
			{Payee: common.HexToAddress("0x01"), CumulativeAmount: big.NewInt(18)},
		},
		CreatedAt: 1700000000,
	}

	cp := cycle.Copy()
	require.Equal(t, cycle, cp)

	cp.Entries[0].CumulativeAmount.SetInt64(99)
	cp.Entries[0].Payee = common.HexToAddress("0x02")
	assert.Equal(t, int64(18), cycle.Entries[0].CumulativeAmount.Int64())
	assert.Equal(t, common.HexToAddress("0x01"), cycle.Entries[0].Payee)

	var nilCycle *PaymentCycle
	assert.Nil(t, nilCycle.Copy())
}
