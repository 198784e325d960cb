package badger

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/Layr-Labs/cumulative-payments-go/pkg/persistence"
	"github.com/Layr-Labs/cumulative-payments-go/pkg/types"
	badgerdb "github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"
)

// Key prefixes for namespacing
const (
	keyPrefixCycle       = "cycle:"
	keyLatestCycle       = "latest:cycle"
	keySchemaVersion     = "metadata:schema_version"
	currentSchemaVersion = "v1"
)

// BadgerPersistence is a disk-backed ICyclePersistence using Badger.
type BadgerPersistence struct {
	db       *badgerdb.DB
	logger   *zap.Logger
	gcCancel context.CancelFunc
	gcWg     sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
}

// NewBadgerPersistence opens (or creates) a Badger database at dataPath with
// SyncWrites enabled and starts a background value-log GC loop.
func NewBadgerPersistence(dataPath string, logger *zap.Logger) (*BadgerPersistence, error) {
	absPath, err := filepath.Abs(dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	opts := badgerdb.DefaultOptions(absPath)
	opts.Logger = &badgerLoggerAdapter{logger: logger}
	opts.SyncWrites = true
	opts.CompactL0OnClose = true
	opts.NumVersionsToKeep = 1

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database at %s: %w", absPath, err)
	}

	bp := &BadgerPersistence{
		db:     db,
		logger: logger,
	}

	if err := bp.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	bp.gcCancel = cancel
	bp.gcWg.Add(1)
	go bp.runGC(ctx)

	logger.Sugar().Infow("Badger persistence initialized", "path", absPath)

	return bp, nil
}

// initSchema initializes or validates the schema version
func (b *BadgerPersistence) initSchema() error {
	return b.db.Update(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(keySchemaVersion))
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return txn.Set([]byte(keySchemaVersion), []byte(currentSchemaVersion))
		}
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}

		var existingVersion string
		err = item.Value(func(val []byte) error {
			existingVersion = string(val)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to read schema version value: %w", err)
		}

		if existingVersion != currentSchemaVersion {
			return fmt.Errorf("unsupported schema version: %s (expected: %s)", existingVersion, currentSchemaVersion)
		}

		return nil
	})
}

// runGC runs periodic value log garbage collection
func (b *BadgerPersistence) runGC(ctx context.Context) {
	defer b.gcWg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			err := b.db.RunValueLogGC(0.5)
			if err != nil && !errors.Is(err, badgerdb.ErrNoRewrite) {
				b.logger.Sugar().Warnw("Badger GC error", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// cycleKey is zero padded so key order matches cycle order
func cycleKey(cycle uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", keyPrefixCycle, cycle))
}

// SaveCycle persists a payment cycle
func (b *BadgerPersistence) SaveCycle(cycle *types.PaymentCycle) error {
	if cycle == nil {
		return fmt.Errorf("cannot save nil PaymentCycle")
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return persistence.ErrClosed
	}

	data, err := persistence.MarshalPaymentCycle(cycle)
	if err != nil {
		return fmt.Errorf("failed to marshal PaymentCycle: %w", err)
	}

	return b.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(cycleKey(cycle.Cycle), data)
	})
}

// LoadCycle retrieves a payment cycle
func (b *BadgerPersistence) LoadCycle(cycle uint64) (*types.PaymentCycle, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, persistence.ErrClosed
	}

	var data []byte
	err := b.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(cycleKey(cycle))
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil // Not found is not an error
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			data = append([]byte{}, val...)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load PaymentCycle: %w", err)
	}

	if data == nil {
		return nil, nil
	}

	stored, err := persistence.UnmarshalPaymentCycle(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal PaymentCycle: %w", err)
	}

	return stored, nil
}

// ListCycles returns all payment cycles sorted by cycle number
func (b *BadgerPersistence) ListCycles() ([]*types.PaymentCycle, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, persistence.ErrClosed
	}

	cycles := []*types.PaymentCycle{}

	err := b.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefixCycle)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()

			var data []byte
			err := item.Value(func(val []byte) error {
				data = append([]byte{}, val...)
				return nil
			})
			if err != nil {
				return fmt.Errorf("failed to read value: %w", err)
			}

			stored, err := persistence.UnmarshalPaymentCycle(data)
			if err != nil {
				b.logger.Sugar().Warnw("Failed to unmarshal PaymentCycle, skipping",
					"key", string(item.Key()), "error", err)
				continue
			}

			cycles = append(cycles, stored)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list PaymentCycles: %w", err)
	}

	sort.Slice(cycles, func(i, j int) bool {
		return cycles[i].Cycle < cycles[j].Cycle
	})

	return cycles, nil
}

// DeleteCycle removes a payment cycle
func (b *BadgerPersistence) DeleteCycle(cycle uint64) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return persistence.ErrClosed
	}

	return b.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete(cycleKey(cycle))
	})
}

// SetLatestCycle stores the latest committed cycle number
func (b *BadgerPersistence) SetLatestCycle(cycle uint64) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return persistence.ErrClosed
	}

	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, cycle)

	return b.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(keyLatestCycle), buf)
	})
}

// GetLatestCycle retrieves the latest committed cycle number
func (b *BadgerPersistence) GetLatestCycle() (uint64, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return 0, false, persistence.ErrClosed
	}

	var (
		cycle uint64
		found bool
	)

	err := b.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(keyLatestCycle))
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("invalid latest cycle data length: %d", len(val))
			}
			cycle = binary.BigEndian.Uint64(val)
			found = true
			return nil
		})
	})
	if err != nil {
		return 0, false, fmt.Errorf("failed to get latest cycle: %w", err)
	}

	return cycle, found, nil
}

// Close shuts down the persistence layer
func (b *BadgerPersistence) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	if b.gcCancel != nil {
		b.gcCancel()
	}
	b.gcWg.Wait()

	if err := b.db.Close(); err != nil {
		return fmt.Errorf("failed to close badger database: %w", err)
	}

	b.logger.Sugar().Info("Badger persistence closed")
	return nil
}

// HealthCheck verifies the database is readable and carries a schema version
func (b *BadgerPersistence) HealthCheck() error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return persistence.ErrClosed
	}

	return b.db.View(func(txn *badgerdb.Txn) error {
		_, err := txn.Get([]byte(keySchemaVersion))
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return fmt.Errorf("schema version not found - database may be corrupted")
		}
		return err
	})
}
