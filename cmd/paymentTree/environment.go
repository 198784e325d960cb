package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/Layr-Labs/cumulative-payments-go/pkg/config"
	"github.com/Layr-Labs/cumulative-payments-go/pkg/contractCaller/caller"
	"github.com/Layr-Labs/cumulative-payments-go/pkg/cycles"
	"github.com/Layr-Labs/cumulative-payments-go/pkg/logger"
	"github.com/Layr-Labs/cumulative-payments-go/pkg/persistence"
	"github.com/Layr-Labs/cumulative-payments-go/pkg/persistence/badger"
	"github.com/Layr-Labs/cumulative-payments-go/pkg/persistence/redis"
	"github.com/Layr-Labs/cumulative-payments-go/pkg/transactionSigner"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// errEphemeralStore is returned for the memory backend: every command is a
// separate process, so cycles stored in memory are gone before the next one.
var errEphemeralStore = errors.New("memory persistence does not outlive a command; use badger or redis")

// environment holds what the storage and chain commands share.
type environment struct {
	cfg     *config.PaymentsConfig
	logger  *zap.Logger
	store   persistence.ICyclePersistence
	client  *ethclient.Client
	caller  *caller.ContractCaller
	manager *cycles.Manager
}

func newCommandLogger(c *cli.Context) (*zap.Logger, error) {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: c.Bool("verbose")})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return l, nil
}

func parsePaymentsConfig(c *cli.Context) *config.PaymentsConfig {
	return &config.PaymentsConfig{
		RpcUrl:             c.String("rpc-url"),
		ChainID:            config.ChainId(c.Uint64("chain-id")),
		PaymentPoolAddress: c.String("payment-pool-address"),
		PrivateKey:         c.String("private-key"),
		PersistenceType:    c.String("persistence-type"),
		DataPath:           c.String("data-path"),
		RedisAddress:       c.String("redis-address"),
		RedisPassword:      c.String("redis-password"),
		RedisDB:            c.Int("redis-db"),
		RedisKeyPrefix:     c.String("redis-key-prefix"),
		Verbose:            c.Bool("verbose"),
	}
}

func newEnvironment(c *cli.Context) (*environment, error) {
	cfg := parsePaymentsConfig(c)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if persistenceType, _ := persistence.ParsePersistenceType(cfg.PersistenceType); persistenceType == persistence.PersistenceTypeMemory {
		return nil, errEphemeralStore
	}

	l, err := newCommandLogger(c)
	if err != nil {
		return nil, err
	}

	env := &environment{cfg: cfg, logger: l}

	env.store, err = newStore(cfg, l)
	if err != nil {
		env.Close()
		return nil, err
	}

	if cfg.ChainEnabled() {
		if err := env.connect(c.Context); err != nil {
			env.Close()
			return nil, err
		}
	}

	// a nil *ContractCaller must not reach the manager as a non-nil interface
	var submitter cycles.RootSubmitter
	if cfg.SubmissionEnabled() {
		submitter = env.caller
	}
	env.manager, err = cycles.NewManager(env.store, submitter, cycles.DefaultCacheSize, l)
	if err != nil {
		env.Close()
		return nil, err
	}
	return env, nil
}

func (e *environment) connect(ctx context.Context) error {
	client, err := ethclient.DialContext(ctx, e.cfg.RpcUrl)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", e.cfg.RpcUrl, err)
	}
	e.client = client

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get chain ID: %w", err)
	}
	if e.cfg.ChainID != 0 && chainID.Uint64() != uint64(e.cfg.ChainID) {
		return fmt.Errorf("RPC endpoint is on chain %d, expected %d", chainID.Uint64(), e.cfg.ChainID)
	}
	if name, ok := config.ChainIdToName[config.ChainId(chainID.Uint64())]; ok {
		e.logger.Sugar().Infow("Using chain", "name", name, "chain_id", chainID.Uint64())
	} else {
		e.logger.Sugar().Warnw("Using unlisted chain", "chain_id", chainID.Uint64())
	}

	var signer transactionSigner.ITransactionSigner
	if e.cfg.SubmissionEnabled() {
		signer, err = transactionSigner.NewTransactionSigner(&transactionSigner.SignerConfig{
			PrivateKey: e.cfg.PrivateKey,
		}, client, e.logger)
		if err != nil {
			return fmt.Errorf("failed to create transaction signer: %w", err)
		}
	}

	e.caller, err = caller.NewContractCaller(client, e.cfg.GetPaymentPoolAddress(), signer, e.logger)
	if err != nil {
		return fmt.Errorf("failed to create contract caller: %w", err)
	}
	return nil
}

func (e *environment) Close() {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.logger.Sugar().Warnw("Failed to close cycle store", "error", err)
		}
	}
	if e.client != nil {
		e.client.Close()
	}
	_ = e.logger.Sync()
}

func newStore(cfg *config.PaymentsConfig, l *zap.Logger) (persistence.ICyclePersistence, error) {
	persistenceType, err := persistence.ParsePersistenceType(cfg.PersistenceType)
	if err != nil {
		return nil, err
	}

	switch persistenceType {
	case persistence.PersistenceTypeBadger:
		store, err := badger.NewBadgerPersistence(cfg.DataPath, l)
		if err != nil {
			return nil, fmt.Errorf("failed to open badger store: %w", err)
		}
		return store, nil
	case persistence.PersistenceTypeRedis:
		store, err := redis.NewRedisPersistence(&redis.RedisConfig{
			Address:   cfg.RedisAddress,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.RedisKeyPrefix,
		}, l)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis store: %w", err)
		}
		return store, nil
	default:
		return nil, errEphemeralStore
	}
}
