package caller

import (
	"context"
	"math/big"
	"sync"
	"testing"

	"github.com/Layr-Labs/cumulative-payments-go/pkg/bindings/PaymentPool"
	"github.com/Layr-Labs/cumulative-payments-go/pkg/logger"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	poolAddress  = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	payeeAddress = common.HexToAddress("0x95A59988186b582325004aC7C8d5724fD21414c3")
	signerFrom   = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
)

// fakeBackend answers eth_call with canned outputs keyed by method selector.
// Anything else panics through the embedded nil interface.
type fakeBackend struct {
	bind.ContractBackend

	mu       sync.Mutex
	outputs  map[[4]byte][]byte
	lastCall ethereum.CallMsg
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{outputs: make(map[[4]byte][]byte)}
}

func (f *fakeBackend) respond(t *testing.T, method string, values ...interface{}) {
	t.Helper()
	parsed := poolABI(t)
	out, err := parsed.Methods[method].Outputs.Pack(values...)
	require.NoError(t, err)

	var selector [4]byte
	copy(selector[:], parsed.Methods[method].ID)
	f.mu.Lock()
	f.outputs[selector] = out
	f.mu.Unlock()
}

func (f *fakeBackend) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastCall = call

	var selector [4]byte
	copy(selector[:], call.Data)
	return f.outputs[selector], nil
}

func (f *fakeBackend) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	return []byte{0x60}, nil
}

// fakeSigner builds fully priced legacy transactions so the bound contract
// never needs gas estimation, and records what it is asked to send.
type fakeSigner struct {
	mu      sync.Mutex
	sent    []*types.Transaction
	receipt *types.Receipt
}

func (s *fakeSigner) GetTransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	return &bind.TransactOpts{
		From:     signerFrom,
		Nonce:    big.NewInt(1),
		GasPrice: big.NewInt(1_000_000_000),
		GasLimit: 100_000,
		Context:  ctx,
		NoSend:   true,
		Signer: func(address common.Address, tx *types.Transaction) (*types.Transaction, error) {
			return tx, nil
		},
	}, nil
}

func (s *fakeSigner) SignAndSendTransaction(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, tx)
	if s.receipt != nil {
		return s.receipt, nil
	}
	return &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: tx.Hash()}, nil
}

func (s *fakeSigner) GetFromAddress() common.Address {
	return signerFrom
}

func (s *fakeSigner) EstimateGasPriceAndLimit(ctx context.Context, tx *types.Transaction) (*big.Int, uint64, error) {
	return tx.GasPrice(), tx.Gas(), nil
}

func poolABI(t *testing.T) *abi.ABI {
	t.Helper()
	parsed, err := PaymentPool.PaymentPoolMetaData.GetAbi()
	require.NoError(t, err)
	return parsed
}

func newTestCaller(t *testing.T, withSigner bool) (*ContractCaller, *fakeBackend, *fakeSigner) {
	t.Helper()
	backend := newFakeBackend()
	signer := &fakeSigner{}

	var cc *ContractCaller
	var err error
	if withSigner {
		cc, err = NewContractCaller(backend, poolAddress, signer, logger.NewNopLogger())
	} else {
		cc, err = NewContractCaller(backend, poolAddress, nil, logger.NewNopLogger())
	}
	require.NoError(t, err)
	return cc, backend, signer
}

func testProof() [][32]byte {
	return [][32]byte{
		common.HexToHash("0x0d0d3a9d3ac4b0b6ed9d5e6c3db2a9ad1b3b18a7b36a0e6f2fc5ccd1bd43c6f1"),
		common.HexToHash("0x8d2a0a1a4e4ff2c7a4ff7c8d2a2e3f5c0a3d8fbd8d1e3e6b2b1b1c7a9d8e0f11"),
	}
}

func TestNewContractCaller(t *testing.T) {
	t.Run("rejects nil backend", func(t *testing.T) {
		_, err := NewContractCaller(nil, poolAddress, nil, logger.NewNopLogger())
		assert.Error(t, err)
	})

	t.Run("rejects zero address", func(t *testing.T) {
		_, err := NewContractCaller(newFakeBackend(), common.Address{}, nil, logger.NewNopLogger())
		assert.Error(t, err)
	})

	t.Run("binds the pool", func(t *testing.T) {
		cc, _, _ := newTestCaller(t, false)
		assert.Equal(t, poolAddress, cc.PaymentPoolAddress())
	})
}

func TestNumPaymentCycles(t *testing.T) {
	cc, backend, _ := newTestCaller(t, false)
	backend.respond(t, "numPaymentCycles", big.NewInt(7))

	cycles, err := cc.NumPaymentCycles(t.Context())
	require.NoError(t, err)
	assert.Equal(t, uint64(7), cycles)
	require.NotNil(t, backend.lastCall.To)
	assert.Equal(t, poolAddress, *backend.lastCall.To)
}

func TestNumPaymentCycles_Overflow(t *testing.T) {
	cc, backend, _ := newTestCaller(t, false)
	tooBig := new(big.Int).Lsh(big.NewInt(1), 64)
	backend.respond(t, "numPaymentCycles", tooBig)

	_, err := cc.NumPaymentCycles(t.Context())
	assert.Error(t, err)
}

func TestBalanceForProof(t *testing.T) {
	cc, backend, _ := newTestCaller(t, false)
	backend.respond(t, "balanceForProofWithAddress", big.NewInt(42))

	proof := testProof()
	balance, err := cc.BalanceForProof(t.Context(), payeeAddress, big.NewInt(100), 3, proof)
	require.NoError(t, err)
	assert.Equal(t, int64(42), balance.Int64())

	expected, err := poolABI(t).Pack("balanceForProofWithAddress", payeeAddress, big.NewInt(100), big.NewInt(3), proof)
	require.NoError(t, err)
	assert.Equal(t, expected, backend.lastCall.Data)
}

func TestWithdrawals(t *testing.T) {
	cc, backend, _ := newTestCaller(t, false)
	backend.respond(t, "withdrawals", big.NewInt(12))

	withdrawn, err := cc.Withdrawals(t.Context(), payeeAddress)
	require.NoError(t, err)
	assert.Equal(t, int64(12), withdrawn.Int64())

	expected, err := poolABI(t).Pack("withdrawals", payeeAddress)
	require.NoError(t, err)
	assert.Equal(t, expected, backend.lastCall.Data)
}

func TestSubmitPayeeMerkleRoot(t *testing.T) {
	cc, _, signer := newTestCaller(t, true)
	root := common.HexToHash("0x5a8b8c5f1bcd6b1f2cf0a7a1fd8a7f3d6e2c4b0a9d8e7f6a5b4c3d2e1f0a9b8c")

	receipt, err := cc.SubmitPayeeMerkleRoot(t.Context(), root)
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)

	require.Len(t, signer.sent, 1)
	tx := signer.sent[0]
	require.NotNil(t, tx.To())
	assert.Equal(t, poolAddress, *tx.To())

	expected, err := poolABI(t).Pack("submitPayeeMerkleRoot", root)
	require.NoError(t, err)
	assert.Equal(t, expected, tx.Data())
}

func TestSubmitPayeeMerkleRoot_ReadOnly(t *testing.T) {
	cc, _, _ := newTestCaller(t, false)

	_, err := cc.SubmitPayeeMerkleRoot(t.Context(), common.Hash{1})
	assert.ErrorIs(t, err, ErrNoSigner)
}

func TestWithdraw(t *testing.T) {
	t.Run("packs the claim", func(t *testing.T) {
		cc, _, signer := newTestCaller(t, true)
		proof := testProof()

		_, err := cc.Withdraw(t.Context(), big.NewInt(5), big.NewInt(10), 2, proof)
		require.NoError(t, err)

		require.Len(t, signer.sent, 1)
		expected, err := poolABI(t).Pack("withdraw", big.NewInt(5), big.NewInt(10), big.NewInt(2), proof)
		require.NoError(t, err)
		assert.Equal(t, expected, signer.sent[0].Data())
	})

	t.Run("rejects bad amounts", func(t *testing.T) {
		cc, _, signer := newTestCaller(t, true)

		tests := []struct {
			name       string
			amount     *big.Int
			cumulative *big.Int
		}{
			{"nil amount", nil, big.NewInt(10)},
			{"zero amount", big.NewInt(0), big.NewInt(10)},
			{"more than cumulative", big.NewInt(11), big.NewInt(10)},
			{"nil cumulative", big.NewInt(1), nil},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := cc.Withdraw(t.Context(), tt.amount, tt.cumulative, 1, nil)
				assert.Error(t, err)
			})
		}
		assert.Empty(t, signer.sent)
	})
}

func paymentCycleEndedLog(t *testing.T, address common.Address, cycle, start, end int64) *types.Log {
	t.Helper()
	event := poolABI(t).Events["PaymentCycleEnded"]
	data, err := event.Inputs.NonIndexed().Pack(big.NewInt(cycle), big.NewInt(start), big.NewInt(end))
	require.NoError(t, err)
	return &types.Log{
		Address: address,
		Topics:  []common.Hash{event.ID},
		Data:    data,
	}
}

func TestPaymentCycleEndedFromReceipt(t *testing.T) {
	cc, _, _ := newTestCaller(t, false)

	t.Run("finds the pool event", func(t *testing.T) {
		receipt := &types.Receipt{
			Logs: []*types.Log{
				paymentCycleEndedLog(t, common.HexToAddress("0x01"), 99, 0, 0),
				paymentCycleEndedLog(t, poolAddress, 4, 100, 200),
			},
		}

		event, err := cc.PaymentCycleEndedFromReceipt(receipt)
		require.NoError(t, err)
		assert.Equal(t, int64(4), event.PaymentCycle.Int64())
		assert.Equal(t, int64(100), event.StartBlock.Int64())
		assert.Equal(t, int64(200), event.EndBlock.Int64())
	})

	t.Run("no matching event", func(t *testing.T) {
		receipt := &types.Receipt{
			Logs: []*types.Log{paymentCycleEndedLog(t, common.HexToAddress("0x01"), 1, 0, 0)},
		}
		_, err := cc.PaymentCycleEndedFromReceipt(receipt)
		assert.Error(t, err)
	})

	t.Run("nil receipt", func(t *testing.T) {
		_, err := cc.PaymentCycleEndedFromReceipt(nil)
		assert.Error(t, err)
	})
}
