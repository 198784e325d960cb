package caller

import (
	"context"
	"math/big"

	"github.com/Layr-Labs/cumulative-payments-go/pkg/bindings/PaymentPool"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SubmitPayeeMerkleRoot pins root under the contract's current payment cycle
// and waits for the receipt.
func (cc *ContractCaller) SubmitPayeeMerkleRoot(ctx context.Context, root common.Hash) (*types.Receipt, error) {
	txOpts, err := cc.buildTransactionOpts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build transaction options")
	}

	tx, err := cc.paymentPool.SubmitPayeeMerkleRoot(txOpts, root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create transaction for submitting root %s", root.Hex())
	}

	cc.logger.Sugar().Infow("Submitting payee merkle root",
		zap.String("root", root.Hex()),
		zap.String("paymentPool", cc.paymentPoolAddress.Hex()),
	)

	return cc.signAndSendTransaction(ctx, tx, "SubmitPayeeMerkleRoot")
}

func (cc *ContractCaller) Withdraw(
	ctx context.Context,
	amount *big.Int,
	cumulativeAmount *big.Int,
	paymentCycle uint64,
	proof [][32]byte,
) (*types.Receipt, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, errors.New("withdraw amount must be positive")
	}
	if cumulativeAmount == nil || amount.Cmp(cumulativeAmount) > 0 {
		return nil, errors.New("withdraw amount exceeds cumulative amount")
	}

	txOpts, err := cc.buildTransactionOpts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build transaction options")
	}

	tx, err := cc.paymentPool.Withdraw(txOpts, amount, cumulativeAmount, new(big.Int).SetUint64(paymentCycle), proof)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create transaction for withdrawing %s in cycle %d", amount.String(), paymentCycle)
	}

	cc.logger.Sugar().Infow("Withdrawing payment",
		zap.String("amount", amount.String()),
		zap.String("cumulativeAmount", cumulativeAmount.String()),
		zap.Uint64("paymentCycle", paymentCycle),
	)

	return cc.signAndSendTransaction(ctx, tx, "Withdraw")
}

// PaymentCycleEndedFromReceipt returns the PaymentCycleEnded event emitted by
// the payment pool in receipt.
func (cc *ContractCaller) PaymentCycleEndedFromReceipt(receipt *types.Receipt) (*PaymentPool.PaymentPoolPaymentCycleEnded, error) {
	if receipt == nil {
		return nil, errors.New("receipt cannot be nil")
	}
	parsed, err := PaymentPool.PaymentPoolMetaData.GetAbi()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load payment pool abi")
	}
	eventID := parsed.Events["PaymentCycleEnded"].ID

	for _, log := range receipt.Logs {
		if log == nil || log.Address != cc.paymentPoolAddress || len(log.Topics) == 0 || log.Topics[0] != eventID {
			continue
		}
		event, err := cc.paymentPool.ParsePaymentCycleEnded(*log)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse PaymentCycleEnded event")
		}
		return event, nil
	}
	return nil, errors.Errorf("no PaymentCycleEnded event in transaction %s", receipt.TxHash.Hex())
}
