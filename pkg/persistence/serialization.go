package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/Layr-Labs/cumulative-payments-go/pkg/types"
)

// MarshalPaymentCycle serializes a PaymentCycle to JSON bytes.
// Amounts are written as JSON numbers; big.Int round trips them losslessly.
func MarshalPaymentCycle(cycle *types.PaymentCycle) ([]byte, error) {
	if cycle == nil {
		return nil, fmt.Errorf("cannot marshal nil PaymentCycle")
	}

	data, err := json.Marshal(cycle)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal PaymentCycle to JSON: %w", err)
	}

	return data, nil
}

// UnmarshalPaymentCycle deserializes a PaymentCycle from JSON bytes.
func UnmarshalPaymentCycle(data []byte) (*types.PaymentCycle, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot unmarshal empty data")
	}

	var cycle types.PaymentCycle
	if err := json.Unmarshal(data, &cycle); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON to PaymentCycle: %w", err)
	}

	return &cycle, nil
}
