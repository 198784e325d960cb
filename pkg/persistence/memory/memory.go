package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Layr-Labs/cumulative-payments-go/pkg/persistence"
	"github.com/Layr-Labs/cumulative-payments-go/pkg/types"
	"go.uber.org/zap"
)

// MemoryPersistence is an in-memory implementation of ICyclePersistence.
//
// All data is lost when the process exits. Stored cycles are deep copied on
// the way in and out so callers cannot mutate them.
type MemoryPersistence struct {
	mu sync.RWMutex

	// cycle number -> PaymentCycle
	cycles map[uint64]*types.PaymentCycle

	latestCycle uint64
	latestSet   bool

	closed bool
}

// NewMemoryPersistence creates a new in-memory persistence layer.
func NewMemoryPersistence(logger *zap.Logger) *MemoryPersistence {
	if logger != nil {
		logger.Sugar().Warnw("Using in-memory persistence, all cycles will be lost on restart",
			"hint", "set PAYMENTS_PERSISTENCE_TYPE=badger to keep old proofs servable")
	}

	return &MemoryPersistence{
		cycles: make(map[uint64]*types.PaymentCycle),
	}
}

// SaveCycle persists a payment cycle.
func (m *MemoryPersistence) SaveCycle(cycle *types.PaymentCycle) error {
	if cycle == nil {
		return fmt.Errorf("cannot save nil PaymentCycle")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return persistence.ErrClosed
	}

	m.cycles[cycle.Cycle] = cycle.Copy()
	return nil
}

// LoadCycle retrieves a payment cycle by number.
func (m *MemoryPersistence) LoadCycle(cycle uint64) (*types.PaymentCycle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, persistence.ErrClosed
	}

	stored, exists := m.cycles[cycle]
	if !exists {
		return nil, nil // Not found is not an error
	}

	return stored.Copy(), nil
}

// ListCycles returns all cycles sorted by cycle number.
func (m *MemoryPersistence) ListCycles() ([]*types.PaymentCycle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, persistence.ErrClosed
	}

	numbers := make([]uint64, 0, len(m.cycles))
	for n := range m.cycles {
		numbers = append(numbers, n)
	}
	sort.Slice(numbers, func(i, j int) bool {
		return numbers[i] < numbers[j]
	})

	result := make([]*types.PaymentCycle, 0, len(numbers))
	for _, n := range numbers {
		result = append(result, m.cycles[n].Copy())
	}

	return result, nil
}

// DeleteCycle removes a payment cycle.
func (m *MemoryPersistence) DeleteCycle(cycle uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return persistence.ErrClosed
	}

	delete(m.cycles, cycle)
	return nil
}

// SetLatestCycle stores the latest committed cycle number.
func (m *MemoryPersistence) SetLatestCycle(cycle uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return persistence.ErrClosed
	}

	m.latestCycle = cycle
	m.latestSet = true
	return nil
}

// GetLatestCycle retrieves the latest committed cycle number.
func (m *MemoryPersistence) GetLatestCycle() (uint64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return 0, false, persistence.ErrClosed
	}

	return m.latestCycle, m.latestSet, nil
}

// Close shuts down the persistence layer.
func (m *MemoryPersistence) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// HealthCheck verifies the persistence layer is operational.
func (m *MemoryPersistence) HealthCheck() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return persistence.ErrClosed
	}

	return nil
}
