package transactionSigner

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

var (
	fallbackGasTipCap = big.NewInt(1500000000) // 1.5 gwei
	baseFeeMultiplier = big.NewInt(2)
)

// PrivateKeySigner implements ITransactionSigner with a local ECDSA key
type PrivateKeySigner struct {
	ethClient   EthereumClient
	logger      *zap.Logger
	chainID     *big.Int
	privateKey  *ecdsa.PrivateKey
	fromAddress common.Address
}

// NewPrivateKeySigner creates a signer for a hex private key, reading the
// chain ID from the client.
func NewPrivateKeySigner(privateKeyHex string, ethClient EthereumClient, logger *zap.Logger) (*PrivateKeySigner, error) {
	if ethClient == nil {
		return nil, fmt.Errorf("ethereum client cannot be nil")
	}
	chainID, err := ethClient.ChainID(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	return NewPrivateKeySignerWithChainID(privateKeyHex, chainID, ethClient, logger)
}

// NewPrivateKeySignerWithChainID creates a signer for a known chain ID.
func NewPrivateKeySignerWithChainID(privateKeyHex string, chainID *big.Int, ethClient EthereumClient, logger *zap.Logger) (*PrivateKeySigner, error) {
	if chainID == nil {
		return nil, fmt.Errorf("chain ID cannot be nil")
	}
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	return &PrivateKeySigner{
		ethClient:   ethClient,
		logger:      logger,
		chainID:     new(big.Int).Set(chainID),
		privateKey:  privateKey,
		fromAddress: crypto.PubkeyToAddress(privateKey.PublicKey),
	}, nil
}

// GetTransactOpts returns options that build a signed but unsent transaction.
// SignAndSendTransaction re-prices and re-signs it before sending.
func (pks *PrivateKeySigner) GetTransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(pks.privateKey, pks.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx
	opts.NoSend = true
	return opts, nil
}

// SignAndSendTransaction prices the transaction from current network fees,
// signs it with the local key, sends it and waits for a successful receipt.
func (pks *PrivateKeySigner) SignAndSendTransaction(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	if tx == nil || tx.To() == nil {
		return nil, fmt.Errorf("transaction must have a recipient")
	}

	nonce, err := pks.ethClient.PendingNonceAt(ctx, pks.fromAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	header, err := pks.ethClient.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest block header: %w", err)
	}

	var unsigned types.TxData
	if header.BaseFee == nil {
		gasPrice, gasLimit, err := pks.EstimateGasPriceAndLimit(ctx, tx)
		if err != nil {
			return nil, err
		}
		unsigned = &types.LegacyTx{
			Nonce:    nonce,
			GasPrice: gasPrice,
			Gas:      gasLimit,
			To:       tx.To(),
			Value:    tx.Value(),
			Data:     tx.Data(),
		}
	} else {
		gasTipCap, err := pks.ethClient.SuggestGasTipCap(ctx)
		if err != nil {
			pks.logger.Sugar().Warnw("SignAndSendTransaction: cannot get gasTipCap, using fallback",
				zap.Error(err),
			)
			gasTipCap = fallbackGasTipCap
		}
		maxFeePerGas := new(big.Int).Add(new(big.Int).Mul(header.BaseFee, baseFeeMultiplier), gasTipCap)

		gasLimit, err := pks.ethClient.EstimateGas(ctx, ethereum.CallMsg{
			From:      pks.fromAddress,
			To:        tx.To(),
			GasTipCap: gasTipCap,
			GasFeeCap: maxFeePerGas,
			Value:     tx.Value(),
			Data:      tx.Data(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to estimate gas: %w", err)
		}

		unsigned = &types.DynamicFeeTx{
			ChainID:   pks.chainID,
			Nonce:     nonce,
			GasTipCap: gasTipCap,
			GasFeeCap: maxFeePerGas,
			Gas:       addGasBuffer(gasLimit),
			To:        tx.To(),
			Value:     tx.Value(),
			Data:      tx.Data(),
		}
	}

	signedTx, err := types.SignNewTx(pks.privateKey, types.LatestSignerForChainID(pks.chainID), unsigned)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	pks.logger.Info("SignAndSendTransaction: sending transaction",
		zap.String("to", signedTx.To().Hex()),
		zap.String("from", pks.fromAddress.Hex()),
		zap.Uint64("gasLimit", signedTx.Gas()),
		zap.Uint64("nonce", nonce),
	)

	if err := pks.ethClient.SendTransaction(ctx, signedTx); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}

	receipt, err := bind.WaitMined(ctx, pks.ethClient, signedTx)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for transaction receipt: %w", err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		pks.logger.Error("SignAndSendTransaction: transaction failed",
			zap.String("txHash", receipt.TxHash.Hex()),
			zap.Uint64("status", receipt.Status),
			zap.Uint64("gasUsed", receipt.GasUsed),
		)
		return nil, fmt.Errorf("transaction failed with status %d", receipt.Status)
	}

	pks.logger.Info("SignAndSendTransaction: transaction succeeded",
		zap.String("txHash", receipt.TxHash.Hex()),
		zap.Uint64("gasUsed", receipt.GasUsed),
	)

	return receipt, nil
}

// GetFromAddress returns the address derived from the private key
func (pks *PrivateKeySigner) GetFromAddress() common.Address {
	return pks.fromAddress
}

// EstimateGasPriceAndLimit returns the suggested legacy gas price and a
// buffered gas limit for tx.
func (pks *PrivateKeySigner) EstimateGasPriceAndLimit(ctx context.Context, tx *types.Transaction) (*big.Int, uint64, error) {
	gasPrice, err := pks.ethClient.SuggestGasPrice(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to suggest gas price: %w", err)
	}

	gasLimit, err := pks.ethClient.EstimateGas(ctx, ethereum.CallMsg{
		From:     pks.fromAddress,
		To:       tx.To(),
		GasPrice: gasPrice,
		Value:    tx.Value(),
		Data:     tx.Data(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to estimate gas: %w", err)
	}

	return gasPrice, addGasBuffer(gasLimit), nil
}
