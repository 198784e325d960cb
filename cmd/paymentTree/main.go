package main

import (
	"fmt"
	"log"
	"os"

	"github.com/Layr-Labs/cumulative-payments-go/pkg/config"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "paymentTree",
		Usage: "Build, commit and prove cumulative payment merkle trees",
		Description: `Builds the cumulative payment tree for a payment list and works with the
roots pinned in a PaymentPool contract.

Payment lists are JSON objects mapping payee address to amount. Amounts may be
JSON numbers or decimal / 0x-hex strings.`,
		Version: "1.0.0",
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			{
				Name:      "root",
				Usage:     "Print the root of a payment list with a sample proof",
				ArgsUsage: "<file>",
				Action:    rootCommand,
			},
			{
				Name:      "proof",
				Usage:     "Print the proof for one payee of a payment list",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "payee",
						Usage:    "Payee address",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "amount",
						Usage:    "Cumulative amount (decimal or 0x-hex)",
						Required: true,
					},
					&cli.Uint64Flag{
						Name:  "cycle",
						Usage: "Payment cycle; when set the proof is prefixed with cycle and amount",
					},
				},
				Action: proofCommand,
			},
			{
				Name:  "verify",
				Usage: "Check a proof against a root",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "root",
						Usage:    "Merkle root (0x-hex)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "payee",
						Usage:    "Payee address",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "amount",
						Usage:    "Cumulative amount (decimal or 0x-hex)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "proof",
						Usage:    "Proof hex as printed by the proof command",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "claim",
						Usage: "The proof carries the cycle and amount prefix",
					},
				},
				Action: verifyCommand,
			},
			{
				Name:      "gen-test-payments",
				Usage:     "Write the payment list of the built-in test accounts",
				ArgsUsage: "<ofile>",
				Action:    genTestPaymentsCommand,
			},
			{
				Name:      "commit",
				Usage:     "Store a payment list as a cycle and submit its root when a chain is configured",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.Uint64Flag{
						Name:  "cycle",
						Usage: "Cycle number; defaults to the contract's current cycle, or the next stored one offline",
					},
				},
				Action: commitCommand,
			},
			{
				Name:  "submit",
				Usage: "Retry submitting the root of a stored cycle",
				Flags: []cli.Flag{
					&cli.Uint64Flag{
						Name:     "cycle",
						Usage:    "Stored cycle number",
						Required: true,
					},
				},
				Action: submitCommand,
			},
			{
				Name:  "cycle-proof",
				Usage: "Print the claim proof for a payee from a stored cycle",
				Flags: []cli.Flag{
					&cli.Uint64Flag{
						Name:  "cycle",
						Usage: "Stored cycle number; defaults to the latest",
					},
					&cli.StringFlag{
						Name:     "payee",
						Usage:    "Payee address",
						Required: true,
					},
				},
				Action: cycleProofCommand,
			},
			{
				Name:  "balance",
				Usage: "Ask the PaymentPool what a payee can still withdraw",
				Flags: []cli.Flag{
					&cli.Uint64Flag{
						Name:  "cycle",
						Usage: "Stored cycle number; defaults to the latest",
					},
					&cli.StringFlag{
						Name:     "payee",
						Usage:    "Payee address",
						Required: true,
					},
				},
				Action: balanceCommand,
			},
			{
				Name:  "prune",
				Usage: "Delete all but the newest stored cycles",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "keep",
						Usage: "Number of cycles to keep",
						Value: 10,
					},
				},
				Action: pruneCommand,
			},
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "rpc-url",
			Aliases: []string{"rpc"},
			Usage:   "Ethereum RPC endpoint URL; leave empty to work offline",
			EnvVars: []string{config.EnvPaymentsRpcUrl},
		},
		&cli.Uint64Flag{
			Name:    "chain-id",
			Aliases: []string{"chain"},
			Usage:   fmt.Sprintf("Expected chain ID, 0 to accept the RPC's: %s", config.GetSupportedChainIDsString()),
			EnvVars: []string{config.EnvPaymentsChainID},
		},
		&cli.StringFlag{
			Name:    "payment-pool-address",
			Aliases: []string{"pool"},
			Usage:   "PaymentPool contract address",
			EnvVars: []string{config.EnvPaymentsPaymentPoolAddress},
		},
		&cli.StringFlag{
			Name:    "private-key",
			Usage:   "Hex private key used to submit roots",
			EnvVars: []string{config.EnvPaymentsPrivateKey},
		},
		&cli.StringFlag{
			Name:    "persistence-type",
			Usage:   "Cycle storage backend: badger or redis (memory is rejected by commands that store cycles)",
			Value:   config.DefaultPersistenceType,
			EnvVars: []string{config.EnvPaymentsPersistenceType},
		},
		&cli.StringFlag{
			Name:    "data-path",
			Usage:   "Badger data directory",
			Value:   config.DefaultDataPath,
			EnvVars: []string{config.EnvPaymentsDataPath},
		},
		&cli.StringFlag{
			Name:    "redis-address",
			Usage:   "Redis server address",
			Value:   config.DefaultRedisAddress,
			EnvVars: []string{config.EnvPaymentsRedisAddress},
		},
		&cli.StringFlag{
			Name:    "redis-password",
			Usage:   "Redis password",
			EnvVars: []string{config.EnvPaymentsRedisPassword},
		},
		&cli.IntFlag{
			Name:    "redis-db",
			Usage:   "Redis database number",
			EnvVars: []string{config.EnvPaymentsRedisDB},
		},
		&cli.StringFlag{
			Name:    "redis-key-prefix",
			Usage:   "Prefix for every Redis key",
			EnvVars: []string{config.EnvPaymentsRedisKeyPrefix},
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Usage:   "Enable verbose logging",
			EnvVars: []string{config.EnvPaymentsVerbose},
		},
	}
}
