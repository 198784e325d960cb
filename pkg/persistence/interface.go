package persistence

import "github.com/Layr-Labs/cumulative-payments-go/pkg/types"

// ICyclePersistence stores committed payment cycles so proofs can be served
// for any cycle still retained, not only the latest.
// All implementations must be thread-safe.
//
// The interface supports:
// - Cycle management (save, load, list, delete)
// - Latest cycle tracking
// - Lifecycle management (close, health check)
type ICyclePersistence interface {
	// Cycle Management

	// SaveCycle persists a cycle keyed by its cycle number.
	// Overwrites any existing record for the same cycle.
	SaveCycle(cycle *types.PaymentCycle) error

	// LoadCycle retrieves a cycle by number.
	// Returns nil if the cycle doesn't exist, error only on storage failure.
	LoadCycle(cycle uint64) (*types.PaymentCycle, error)

	// ListCycles returns all persisted cycles sorted by cycle number (ascending).
	// Returns empty slice if no cycles exist, error only on storage failure.
	ListCycles() ([]*types.PaymentCycle, error)

	// DeleteCycle removes a cycle.
	// Idempotent - returns nil if the cycle doesn't exist.
	DeleteCycle(cycle uint64) error

	// Latest Cycle Tracking

	// SetLatestCycle records the most recently committed cycle number.
	SetLatestCycle(cycle uint64) error

	// GetLatestCycle returns the latest cycle number and whether one was set.
	GetLatestCycle() (uint64, bool, error)

	// Lifecycle Management

	// Close cleanly shuts down the persistence layer.
	// Idempotent - safe to call multiple times.
	// After Close(), all other operations return errors.
	Close() error

	// HealthCheck verifies the persistence layer is operational.
	HealthCheck() error
}
