package config

import (
	"fmt"
	"strings"

	"github.com/Layr-Labs/cumulative-payments-go/pkg/persistence"
	"github.com/ethereum/go-ethereum/common"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Environment variable names for paymentTree configuration
const (
	EnvPaymentsRpcUrl             = "PAYMENTS_RPC_URL"
	EnvPaymentsChainID            = "PAYMENTS_CHAIN_ID"
	EnvPaymentsPaymentPoolAddress = "PAYMENTS_PAYMENT_POOL_ADDRESS"
	EnvPaymentsPersistenceType    = "PAYMENTS_PERSISTENCE_TYPE"
	EnvPaymentsDataPath           = "PAYMENTS_DATA_PATH"
	EnvPaymentsRedisAddress       = "PAYMENTS_REDIS_ADDRESS"
	EnvPaymentsRedisPassword      = "PAYMENTS_REDIS_PASSWORD"
	EnvPaymentsRedisDB            = "PAYMENTS_REDIS_DB"
	EnvPaymentsRedisKeyPrefix     = "PAYMENTS_REDIS_KEY_PREFIX"
	EnvPaymentsPrivateKey         = "PAYMENTS_PRIVATE_KEY"
	EnvPaymentsVerbose            = "PAYMENTS_VERBOSE"
)

const (
	DefaultPersistenceType = string(persistence.PersistenceTypeBadger)
	DefaultDataPath        = "./data/payments"
	DefaultRedisAddress    = "localhost:6379"
)

type ChainId uint

const (
	ChainId_EthereumMainnet ChainId = 1
	ChainId_EthereumSepolia ChainId = 11155111
	ChainId_EthereumAnvil   ChainId = 31337
)

type ChainName string

const (
	ChainName_EthereumMainnet ChainName = "mainnet"
	ChainName_EthereumSepolia ChainName = "sepolia"
	ChainName_EthereumAnvil   ChainName = "devnet"
)

var ChainIdToName = map[ChainId]ChainName{
	ChainId_EthereumMainnet: ChainName_EthereumMainnet,
	ChainId_EthereumSepolia: ChainName_EthereumSepolia,
	ChainId_EthereumAnvil:   ChainName_EthereumAnvil,
}
var ChainNameToId = map[ChainName]ChainId{
	ChainName_EthereumMainnet: ChainId_EthereumMainnet,
	ChainName_EthereumSepolia: ChainId_EthereumSepolia,
	ChainName_EthereumAnvil:   ChainId_EthereumAnvil,
}

// PaymentsConfig is the configuration of the paymentTree commands that touch
// storage or the chain.
type PaymentsConfig struct {
	// Chain configuration. RpcUrl enables contract reads; submitting roots
	// also needs PrivateKey.
	RpcUrl             string  `json:"rpc_url"`
	ChainID            ChainId `json:"chain_id"` // 0 means read it from the RPC endpoint
	PaymentPoolAddress string  `json:"payment_pool_address"`
	PrivateKey         string  `json:"private_key"`

	// Cycle storage
	PersistenceType string `json:"persistence_type"`
	DataPath        string `json:"data_path"`
	RedisAddress    string `json:"redis_address"`
	RedisPassword   string `json:"redis_password"`
	RedisDB         int    `json:"redis_db"`
	RedisKeyPrefix  string `json:"redis_key_prefix"`

	Verbose bool `json:"verbose"`
}

// ChainEnabled reports whether a PaymentPool contract is configured.
func (c *PaymentsConfig) ChainEnabled() bool {
	return c.RpcUrl != ""
}

// SubmissionEnabled reports whether committed roots should be sent on chain.
func (c *PaymentsConfig) SubmissionEnabled() bool {
	return c.ChainEnabled() && c.PrivateKey != ""
}

// Validate collects every configuration problem into a single aggregate error.
func (c *PaymentsConfig) Validate() error {
	var allErrors field.ErrorList

	persistenceType, err := persistence.ParsePersistenceType(c.PersistenceType)
	if err != nil {
		allErrors = append(allErrors, field.NotSupported(field.NewPath("persistenceType"), c.PersistenceType, persistence.SupportedTypes()))
	}
	switch persistenceType {
	case persistence.PersistenceTypeBadger:
		if c.DataPath == "" {
			allErrors = append(allErrors, field.Required(field.NewPath("dataPath"), "dataPath is required for badger persistence"))
		}
	case persistence.PersistenceTypeRedis:
		if c.RedisAddress == "" {
			allErrors = append(allErrors, field.Required(field.NewPath("redisAddress"), "redisAddress is required for redis persistence"))
		}
		if c.RedisDB < 0 {
			allErrors = append(allErrors, field.Invalid(field.NewPath("redisDB"), c.RedisDB, "redisDB cannot be negative"))
		}
	}

	if c.ChainID != 0 {
		if _, ok := ChainIdToName[c.ChainID]; !ok {
			allErrors = append(allErrors, field.Invalid(field.NewPath("chainId"), c.ChainID,
				fmt.Sprintf("unsupported chain ID. Supported: %s", GetSupportedChainIDsString())))
		}
	}

	if c.PaymentPoolAddress != "" && !common.IsHexAddress(c.PaymentPoolAddress) {
		allErrors = append(allErrors, field.Invalid(field.NewPath("paymentPoolAddress"), c.PaymentPoolAddress, "invalid address format"))
	}

	if c.ChainEnabled() && c.PaymentPoolAddress == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("paymentPoolAddress"), "paymentPoolAddress is required when rpcUrl is set"))
	}
	if c.PrivateKey != "" {
		if !c.ChainEnabled() {
			allErrors = append(allErrors, field.Required(field.NewPath("rpcUrl"), "rpcUrl is required when privateKey is set"))
		}
		if !isPrivateKeyHex(c.PrivateKey) {
			allErrors = append(allErrors, field.Invalid(field.NewPath("privateKey"), "<redacted>", "private key must be 32 bytes (64 hex chars)"))
		}
	}

	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

// GetPaymentPoolAddress returns the configured pool address. Only meaningful
// after Validate succeeds.
func (c *PaymentsConfig) GetPaymentPoolAddress() common.Address {
	return common.HexToAddress(c.PaymentPoolAddress)
}

func isPrivateKeyHex(key string) bool {
	key = strings.TrimPrefix(key, "0x")
	if len(key) != 64 {
		return false
	}
	for _, r := range key {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

// GetSupportedChainIDs returns all supported chain IDs
func GetSupportedChainIDs() []ChainId {
	return []ChainId{
		ChainId_EthereumMainnet,
		ChainId_EthereumSepolia,
		ChainId_EthereumAnvil,
	}
}

// GetSupportedChainIDsString returns supported chain IDs as strings for CLI help
func GetSupportedChainIDsString() string {
	return fmt.Sprintf("%d (mainnet), %d (sepolia), %d (anvil)",
		ChainId_EthereumMainnet, ChainId_EthereumSepolia, ChainId_EthereumAnvil)
}
