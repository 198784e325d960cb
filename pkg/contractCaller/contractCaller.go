package contractCaller

import (
	"context"
	"math/big"

	"github.com/Layr-Labs/cumulative-payments-go/pkg/bindings/PaymentPool"
	"github.com/ethereum/go-ethereum/common"
	ethereumTypes "github.com/ethereum/go-ethereum/core/types"
)

// IContractCaller is the client side of the PaymentPool contract.
type IContractCaller interface {
	// NumPaymentCycles returns the contract's current payment cycle. A root
	// submitted now is pinned under this number.
	NumPaymentCycles(ctx context.Context) (uint64, error)

	// BalanceForProof asks the contract what payee may still withdraw for a
	// cumulative amount proven against the root of paymentCycle.
	BalanceForProof(
		ctx context.Context,
		payee common.Address,
		cumulativeAmount *big.Int,
		paymentCycle uint64,
		proof [][32]byte,
	) (*big.Int, error)

	// Withdrawals returns the total payee has already withdrawn.
	Withdrawals(ctx context.Context, payee common.Address) (*big.Int, error)

	// SubmitPayeeMerkleRoot pins root under the current payment cycle.
	SubmitPayeeMerkleRoot(ctx context.Context, root common.Hash) (*ethereumTypes.Receipt, error)

	// Withdraw claims amount out of cumulativeAmount for the signer's address.
	Withdraw(
		ctx context.Context,
		amount *big.Int,
		cumulativeAmount *big.Int,
		paymentCycle uint64,
		proof [][32]byte,
	) (*ethereumTypes.Receipt, error)

	// PaymentCycleEndedFromReceipt extracts the PaymentCycleEnded event a
	// root submission emits.
	PaymentCycleEndedFromReceipt(receipt *ethereumTypes.Receipt) (*PaymentPool.PaymentPoolPaymentCycleEnded, error)
}
