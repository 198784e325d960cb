// Package cycles commits payment cycles and serves proofs for every cycle
// still held in storage.
package cycles

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/Layr-Labs/cumulative-payments-go/pkg/payments"
	"github.com/Layr-Labs/cumulative-payments-go/pkg/persistence"
	"github.com/Layr-Labs/cumulative-payments-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	ethTypes "github.com/ethereum/go-ethereum/core/types"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

const DefaultCacheSize = 16

var (
	ErrCycleNotFound    = errors.New("payment cycle not found")
	ErrCycleExists      = errors.New("payment cycle already committed")
	ErrCycleMismatch    = errors.New("contract payment cycle does not match")
	ErrNoSubmitter      = errors.New("no root submitter configured")
	ErrAlreadySubmitted = errors.New("payment cycle root already submitted")
)

// RootSubmitter pins roots on chain. A root submitted while the contract
// reports cycle n is claimable under n.
type RootSubmitter interface {
	NumPaymentCycles(ctx context.Context) (uint64, error)
	SubmitPayeeMerkleRoot(ctx context.Context, root common.Hash) (*ethTypes.Receipt, error)
}

// Manager is safe for concurrent use.
type Manager struct {
	mu        sync.RWMutex
	store     persistence.ICyclePersistence
	submitter RootSubmitter
	cache     *lru.Cache[uint64, *payments.CumulativePaymentTree]
	logger    *zap.Logger
	now       func() time.Time
}

// NewManager creates a manager over store. submitter may be nil, in which
// case cycles are only built and persisted. cacheSize <= 0 selects
// DefaultCacheSize.
func NewManager(store persistence.ICyclePersistence, submitter RootSubmitter, cacheSize int, logger *zap.Logger) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("cycle store cannot be nil")
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[uint64, *payments.CumulativePaymentTree](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create tree cache: %w", err)
	}
	return &Manager{
		store:     store,
		submitter: submitter,
		cache:     cache,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// NextCycle returns the number the next commit should use: the contract's
// current cycle when a submitter is configured, otherwise one past the
// latest stored cycle.
func (m *Manager) NextCycle(ctx context.Context) (uint64, error) {
	if m.submitter != nil {
		cycle, err := m.submitter.NumPaymentCycles(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to read contract payment cycle: %w", err)
		}
		return cycle, nil
	}

	latest, ok, err := m.store.GetLatestCycle()
	if err != nil {
		return 0, fmt.Errorf("failed to read latest cycle: %w", err)
	}
	if !ok {
		return 1, nil
	}
	return latest + 1, nil
}

// Commit builds the tree for entries, stores it under cycle and, when a
// submitter is configured, pins its root on chain. A failed submission
// leaves the cycle stored so Submit can retry it.
func (m *Manager) Commit(ctx context.Context, cycle uint64, entries []*types.PaymentEntry) (*types.PaymentCycle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, err := m.store.LoadCycle(cycle)
	if err != nil {
		return nil, fmt.Errorf("failed to check cycle %d: %w", cycle, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("cycle %d: %w", cycle, ErrCycleExists)
	}

	tree, err := payments.NewCumulativePaymentTree(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to build tree for cycle %d: %w", cycle, err)
	}
	if tree.Filtered() > 0 {
		m.logger.Sugar().Warnw("Dropped invalid payment entries",
			zap.Uint64("cycle", cycle),
			zap.Int("filtered", tree.Filtered()),
		)
	}
	if tree.Len() == 0 {
		m.logger.Sugar().Warnw("Committing empty payment cycle", zap.Uint64("cycle", cycle))
	}

	record := tree.Cycle(cycle, m.now().Unix())
	if err := m.store.SaveCycle(record); err != nil {
		return nil, fmt.Errorf("failed to save cycle %d: %w", cycle, err)
	}
	if err := m.advanceLatest(cycle); err != nil {
		return nil, err
	}
	m.cache.Add(cycle, tree)

	m.logger.Sugar().Infow("Committed payment cycle",
		zap.Uint64("cycle", cycle),
		zap.String("root", record.Root.Hex()),
		zap.Int("payees", tree.Len()),
	)

	if m.submitter == nil {
		return record.Copy(), nil
	}
	if err := m.submit(ctx, record); err != nil {
		return record.Copy(), err
	}
	return record.Copy(), nil
}

// Submit pins the root of an already stored cycle that has not been
// submitted yet.
func (m *Manager) Submit(ctx context.Context, cycle uint64) (*types.PaymentCycle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.submitter == nil {
		return nil, ErrNoSubmitter
	}
	record, err := m.load(cycle)
	if err != nil {
		return nil, err
	}
	if record.SubmissionTx != (common.Hash{}) {
		return nil, fmt.Errorf("cycle %d in %s: %w", cycle, record.SubmissionTx.Hex(), ErrAlreadySubmitted)
	}
	if err := m.submit(ctx, record); err != nil {
		return nil, err
	}
	return record.Copy(), nil
}

func (m *Manager) submit(ctx context.Context, record *types.PaymentCycle) error {
	current, err := m.submitter.NumPaymentCycles(ctx)
	if err != nil {
		return fmt.Errorf("failed to read contract payment cycle: %w", err)
	}
	if current != record.Cycle {
		return fmt.Errorf("%w: contract is at %d, stored cycle is %d", ErrCycleMismatch, current, record.Cycle)
	}

	receipt, err := m.submitter.SubmitPayeeMerkleRoot(ctx, record.Root)
	if err != nil {
		return fmt.Errorf("failed to submit root for cycle %d: %w", record.Cycle, err)
	}
	record.SubmissionTx = receipt.TxHash
	if err := m.store.SaveCycle(record); err != nil {
		return fmt.Errorf("root for cycle %d submitted in %s but not recorded: %w", record.Cycle, receipt.TxHash.Hex(), err)
	}

	m.logger.Sugar().Infow("Submitted payment cycle root",
		zap.Uint64("cycle", record.Cycle),
		zap.String("root", record.Root.Hex()),
		zap.String("txHash", receipt.TxHash.Hex()),
	)
	return nil
}

func (m *Manager) advanceLatest(cycle uint64) error {
	latest, ok, err := m.store.GetLatestCycle()
	if err != nil {
		return fmt.Errorf("failed to read latest cycle: %w", err)
	}
	if ok && latest >= cycle {
		return nil
	}
	if err := m.store.SetLatestCycle(cycle); err != nil {
		return fmt.Errorf("failed to set latest cycle: %w", err)
	}
	return nil
}

func (m *Manager) load(cycle uint64) (*types.PaymentCycle, error) {
	record, err := m.store.LoadCycle(cycle)
	if err != nil {
		return nil, fmt.Errorf("failed to load cycle %d: %w", cycle, err)
	}
	if record == nil {
		return nil, fmt.Errorf("cycle %d: %w", cycle, ErrCycleNotFound)
	}
	return record, nil
}

// Cycle returns the stored record of cycle.
func (m *Manager) Cycle(cycle uint64) (*types.PaymentCycle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.load(cycle)
}

// Latest returns the highest committed cycle number, if any.
func (m *Manager) Latest() (uint64, bool, error) {
	return m.store.GetLatestCycle()
}

// Tree returns the tree of a stored cycle, rebuilding it from storage on a
// cache miss. A record that no longer rebuilds to its root is an error.
func (m *Manager) Tree(cycle uint64) (*payments.CumulativePaymentTree, error) {
	if tree, ok := m.cache.Get(cycle); ok {
		return tree, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	record, err := m.load(cycle)
	if err != nil {
		return nil, err
	}
	tree, err := payments.FromCycle(record)
	if err != nil {
		return nil, err
	}
	m.cache.Add(cycle, tree)
	return tree, nil
}

// ProofFor returns the sibling path for (payee, amount) in cycle. A pair that
// is not in the cycle gets the zero proof, as with the tree itself.
func (m *Manager) ProofFor(cycle uint64, payee common.Address, amount *big.Int) ([][32]byte, error) {
	tree, err := m.Tree(cycle)
	if err != nil {
		return nil, err
	}
	return tree.ProofFor(payee, amount), nil
}

// HexProofWithClaim returns the claim-encoded proof for (payee, amount)
// under cycle.
func (m *Manager) HexProofWithClaim(cycle uint64, payee common.Address, amount *big.Int) (string, error) {
	tree, err := m.Tree(cycle)
	if err != nil {
		return "", err
	}
	return tree.HexProofWithClaim(payee, amount, cycle), nil
}

// Prune deletes all but the newest keep cycles and returns how many were
// removed.
func (m *Manager) Prune(keep int) (int, error) {
	if keep < 1 {
		return 0, fmt.Errorf("must keep at least one cycle, got %d", keep)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	all, err := m.store.ListCycles()
	if err != nil {
		return 0, fmt.Errorf("failed to list cycles: %w", err)
	}
	if len(all) <= keep {
		return 0, nil
	}

	removed := 0
	for _, record := range all[:len(all)-keep] {
		if err := m.store.DeleteCycle(record.Cycle); err != nil {
			return removed, fmt.Errorf("failed to delete cycle %d: %w", record.Cycle, err)
		}
		m.cache.Remove(record.Cycle)
		removed++
	}

	m.logger.Sugar().Infow("Pruned payment cycles",
		zap.Int("removed", removed),
		zap.Int("kept", keep),
	)
	return removed, nil
}
