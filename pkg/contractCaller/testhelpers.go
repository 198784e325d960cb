package contractCaller

import (
	"context"
	"math/big"
	"sync"

	"github.com/Layr-Labs/cumulative-payments-go/pkg/bindings/PaymentPool"
	"github.com/ethereum/go-ethereum/common"
	ethTypes "github.com/ethereum/go-ethereum/core/types"
)

// MockContractCaller is an in-memory PaymentPool for tests. Every submitted
// root is pinned under the current cycle, which then advances by one.
type MockContractCaller struct {
	mu sync.Mutex

	// Cycle is what NumPaymentCycles returns
	Cycle uint64
	// Roots holds submitted roots by the cycle they were pinned under
	Roots map[uint64]common.Hash
	// Withdrawn holds the running withdrawal total per payee
	Withdrawn map[common.Address]*big.Int

	// SubmitErr, when set, fails every SubmitPayeeMerkleRoot call
	SubmitErr error
	// Submissions counts SubmitPayeeMerkleRoot calls, failed or not
	Submissions int
}

func NewMockContractCaller(startCycle uint64) *MockContractCaller {
	return &MockContractCaller{
		Cycle:     startCycle,
		Roots:     make(map[uint64]common.Hash),
		Withdrawn: make(map[common.Address]*big.Int),
	}
}

func (m *MockContractCaller) NumPaymentCycles(ctx context.Context) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Cycle, nil
}

func (m *MockContractCaller) BalanceForProof(
	ctx context.Context,
	payee common.Address,
	cumulativeAmount *big.Int,
	paymentCycle uint64,
	proof [][32]byte,
) (*big.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Roots[paymentCycle]; !ok {
		return big.NewInt(0), nil
	}
	balance := new(big.Int).Set(cumulativeAmount)
	if withdrawn, ok := m.Withdrawn[payee]; ok {
		balance.Sub(balance, withdrawn)
	}
	return balance, nil
}

func (m *MockContractCaller) Withdrawals(ctx context.Context, payee common.Address) (*big.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if withdrawn, ok := m.Withdrawn[payee]; ok {
		return new(big.Int).Set(withdrawn), nil
	}
	return big.NewInt(0), nil
}

func (m *MockContractCaller) SubmitPayeeMerkleRoot(ctx context.Context, root common.Hash) (*ethTypes.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Submissions++
	if m.SubmitErr != nil {
		return nil, m.SubmitErr
	}
	m.Roots[m.Cycle] = root
	receipt := &ethTypes.Receipt{
		Status: ethTypes.ReceiptStatusSuccessful,
		TxHash: common.BigToHash(new(big.Int).SetUint64(m.Cycle)),
	}
	m.Cycle++
	return receipt, nil
}

func (m *MockContractCaller) Withdraw(
	ctx context.Context,
	amount *big.Int,
	cumulativeAmount *big.Int,
	paymentCycle uint64,
	proof [][32]byte,
) (*ethTypes.Receipt, error) {
	return &ethTypes.Receipt{Status: ethTypes.ReceiptStatusSuccessful}, nil
}

func (m *MockContractCaller) PaymentCycleEndedFromReceipt(receipt *ethTypes.Receipt) (*PaymentPool.PaymentPoolPaymentCycleEnded, error) {
	return &PaymentPool.PaymentPoolPaymentCycleEnded{
		PaymentCycle: receipt.TxHash.Big(),
		StartBlock:   big.NewInt(0),
		EndBlock:     big.NewInt(0),
	}, nil
}

// RootFor returns the root submitted under cycle.
func (m *MockContractCaller) RootFor(cycle uint64) (common.Hash, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	root, ok := m.Roots[cycle]
	return root, ok
}
