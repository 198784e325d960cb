package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/Layr-Labs/cumulative-payments-go/pkg/persistence"
	"github.com/Layr-Labs/cumulative-payments-go/pkg/types"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Key prefixes for namespacing in Redis
const (
	keyPrefixCycle       = "payments:cycle:"
	keyLatestCycle       = "payments:latest:cycle"
	keySchemaVersion     = "payments:metadata:schema_version"
	currentSchemaVersion = "v1"

	// Redis has no prefix iteration, so cycle numbers are tracked in a set
	keySetCycles = "payments:cycles:index"
)

// RedisPersistence is an ICyclePersistence backed by Redis, for deployments
// where several processes serve proofs from the same cycle history.
type RedisPersistence struct {
	client    *redis.Client
	logger    *zap.Logger
	keyPrefix string
	mu        sync.RWMutex
	closed    bool
}

// RedisConfig holds the configuration for connecting to Redis
type RedisConfig struct {
	// Address is the Redis server address (host:port)
	Address string
	// Password is the optional Redis password
	Password string
	// DB is the Redis database number (0-15)
	DB int
	// KeyPrefix is prepended to every key, e.g. "pool-a:" gives keys like
	// "pool-a:payments:cycle:00000000000000000001".
	KeyPrefix string
}

// NewRedisPersistence connects to Redis and validates the schema version.
func NewRedisPersistence(cfg *RedisConfig, logger *zap.Logger) (*RedisPersistence, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}

	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	rp := &RedisPersistence{
		client:    client,
		logger:    logger,
		keyPrefix: cfg.KeyPrefix,
	}

	if err := rp.initSchema(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Sugar().Infow("Redis persistence initialized", "address", cfg.Address, "db", cfg.DB, "key_prefix", cfg.KeyPrefix)

	return rp, nil
}

// prefixKey adds the custom key prefix (if configured) to a key
func (r *RedisPersistence) prefixKey(key string) string {
	if r.keyPrefix == "" {
		return key
	}
	return r.keyPrefix + key
}

func (r *RedisPersistence) cycleKey(cycle uint64) string {
	return r.prefixKey(fmt.Sprintf("%s%020d", keyPrefixCycle, cycle))
}

// initSchema initializes or validates the schema version
func (r *RedisPersistence) initSchema(ctx context.Context) error {
	schemaKey := r.prefixKey(keySchemaVersion)

	existingVersion, err := r.client.Get(ctx, schemaKey).Result()
	if errors.Is(err, redis.Nil) {
		return r.client.Set(ctx, schemaKey, currentSchemaVersion, 0).Err()
	}
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if existingVersion != currentSchemaVersion {
		return fmt.Errorf("unsupported schema version: %s (expected: %s)", existingVersion, currentSchemaVersion)
	}

	return nil
}

// SaveCycle persists a payment cycle and indexes its number
func (r *RedisPersistence) SaveCycle(cycle *types.PaymentCycle) error {
	if cycle == nil {
		return fmt.Errorf("cannot save nil PaymentCycle")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return persistence.ErrClosed
	}

	ctx := context.Background()

	data, err := persistence.MarshalPaymentCycle(cycle)
	if err != nil {
		return fmt.Errorf("failed to marshal PaymentCycle: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.cycleKey(cycle.Cycle), data, 0)
	pipe.SAdd(ctx, r.prefixKey(keySetCycles), strconv.FormatUint(cycle.Cycle, 10))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save PaymentCycle: %w", err)
	}

	return nil
}

// LoadCycle retrieves a payment cycle
func (r *RedisPersistence) LoadCycle(cycle uint64) (*types.PaymentCycle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, persistence.ErrClosed
	}

	data, err := r.client.Get(context.Background(), r.cycleKey(cycle)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Not found is not an error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load PaymentCycle: %w", err)
	}

	stored, err := persistence.UnmarshalPaymentCycle(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal PaymentCycle: %w", err)
	}

	return stored, nil
}

// ListCycles returns all payment cycles sorted by cycle number
func (r *RedisPersistence) ListCycles() ([]*types.PaymentCycle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, persistence.ErrClosed
	}

	ctx := context.Background()
	indexKey := r.prefixKey(keySetCycles)

	members, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list PaymentCycle numbers: %w", err)
	}

	if len(members) == 0 {
		return []*types.PaymentCycle{}, nil
	}

	keys := make([]string, 0, len(members))
	kept := make([]string, 0, len(members))
	for _, member := range members {
		n, err := strconv.ParseUint(member, 10, 64)
		if err != nil {
			r.logger.Sugar().Warnw("Invalid cycle number in index, skipping", "member", member)
			continue
		}
		keys = append(keys, r.cycleKey(n))
		kept = append(kept, member)
	}

	if len(keys) == 0 {
		return []*types.PaymentCycle{}, nil
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch PaymentCycles: %w", err)
	}

	cycles := make([]*types.PaymentCycle, 0, len(values))
	for i, val := range values {
		if val == nil {
			// Indexed but missing - clean up index
			r.client.SRem(ctx, indexKey, kept[i])
			continue
		}

		data, ok := val.(string)
		if !ok {
			r.logger.Sugar().Warnw("Unexpected value type for PaymentCycle", "key", keys[i])
			continue
		}

		stored, err := persistence.UnmarshalPaymentCycle([]byte(data))
		if err != nil {
			r.logger.Sugar().Warnw("Failed to unmarshal PaymentCycle, skipping",
				"key", keys[i], "error", err)
			continue
		}

		cycles = append(cycles, stored)
	}

	sort.Slice(cycles, func(i, j int) bool {
		return cycles[i].Cycle < cycles[j].Cycle
	})

	return cycles, nil
}

// DeleteCycle removes a payment cycle and its index entry
func (r *RedisPersistence) DeleteCycle(cycle uint64) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return persistence.ErrClosed
	}

	ctx := context.Background()

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.cycleKey(cycle))
	pipe.SRem(ctx, r.prefixKey(keySetCycles), strconv.FormatUint(cycle, 10))

	_, err := pipe.Exec(ctx)
	return err
}

// SetLatestCycle stores the latest committed cycle number
func (r *RedisPersistence) SetLatestCycle(cycle uint64) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return persistence.ErrClosed
	}

	return r.client.Set(context.Background(), r.prefixKey(keyLatestCycle), strconv.FormatUint(cycle, 10), 0).Err()
}

// GetLatestCycle retrieves the latest committed cycle number
func (r *RedisPersistence) GetLatestCycle() (uint64, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return 0, false, persistence.ErrClosed
	}

	val, err := r.client.Get(context.Background(), r.prefixKey(keyLatestCycle)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get latest cycle: %w", err)
	}

	cycle, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid latest cycle value %q: %w", val, err)
	}

	return cycle, true, nil
}

// Close shuts down the persistence layer
func (r *RedisPersistence) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	if err := r.client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis client: %w", err)
	}

	r.logger.Sugar().Info("Redis persistence closed")
	return nil
}

// HealthCheck pings Redis
func (r *RedisPersistence) HealthCheck() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return persistence.ErrClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}

	return nil
}
