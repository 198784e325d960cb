package caller

import (
	"context"
	"math/big"

	"github.com/Layr-Labs/cumulative-payments-go/pkg/bindings/PaymentPool"
	"github.com/Layr-Labs/cumulative-payments-go/pkg/transactionSigner"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type ContractCaller struct {
	backend bind.ContractBackend
	logger  *zap.Logger
	signer  transactionSigner.ITransactionSigner

	paymentPoolAddress common.Address
	paymentPool        *PaymentPool.PaymentPool
}

// NewContractCaller binds the PaymentPool deployed at paymentPoolAddress.
// signer may be nil, in which case only read calls are available.
func NewContractCaller(
	backend bind.ContractBackend,
	paymentPoolAddress common.Address,
	signer transactionSigner.ITransactionSigner,
	logger *zap.Logger,
) (*ContractCaller, error) {
	if backend == nil {
		return nil, errors.New("contract backend cannot be nil")
	}
	if paymentPoolAddress == (common.Address{}) {
		return nil, errors.New("payment pool address cannot be the zero address")
	}

	paymentPool, err := PaymentPool.NewPaymentPool(paymentPoolAddress, backend)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create payment pool contract instance")
	}

	logger.Sugar().Infow("Using payment pool",
		zap.String("address", paymentPoolAddress.Hex()),
		zap.Bool("readOnly", signer == nil),
	)

	return &ContractCaller{
		backend:            backend,
		logger:             logger,
		signer:             signer,
		paymentPoolAddress: paymentPoolAddress,
		paymentPool:        paymentPool,
	}, nil
}

func (cc *ContractCaller) PaymentPoolAddress() common.Address {
	return cc.paymentPoolAddress
}

func (cc *ContractCaller) NumPaymentCycles(ctx context.Context) (uint64, error) {
	cycles, err := cc.paymentPool.NumPaymentCycles(&bind.CallOpts{Context: ctx})
	if err != nil {
		return 0, errors.Wrap(err, "failed to get number of payment cycles")
	}
	if !cycles.IsUint64() {
		return 0, errors.Errorf("payment cycle %s does not fit in uint64", cycles.String())
	}
	return cycles.Uint64(), nil
}

func (cc *ContractCaller) BalanceForProof(
	ctx context.Context,
	payee common.Address,
	cumulativeAmount *big.Int,
	paymentCycle uint64,
	proof [][32]byte,
) (*big.Int, error) {
	balance, err := cc.paymentPool.BalanceForProofWithAddress(
		&bind.CallOpts{Context: ctx},
		payee,
		cumulativeAmount,
		new(big.Int).SetUint64(paymentCycle),
		proof,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get balance for proof of %s in cycle %d", payee.Hex(), paymentCycle)
	}
	return balance, nil
}

func (cc *ContractCaller) Withdrawals(ctx context.Context, payee common.Address) (*big.Int, error) {
	withdrawn, err := cc.paymentPool.Withdrawals(&bind.CallOpts{Context: ctx}, payee)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get withdrawals for %s", payee.Hex())
	}
	return withdrawn, nil
}
