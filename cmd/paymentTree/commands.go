package main

import (
	"fmt"
	"math/big"

	"github.com/Layr-Labs/cumulative-payments-go/pkg/paymentList"
	"github.com/Layr-Labs/cumulative-payments-go/pkg/payments"
	"github.com/Layr-Labs/cumulative-payments-go/pkg/util"
	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// samplePayeeIndex picks which payee the root command prints a proof for.
const samplePayeeIndex = 2

func fileArg(c *cli.Context, name string) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one argument <%s>, got %d", name, c.NArg())
	}
	return c.Args().First(), nil
}

func loadTree(c *cli.Context) (*payments.CumulativePaymentTree, error) {
	path, err := fileArg(c, "file")
	if err != nil {
		return nil, err
	}
	entries, err := paymentList.LoadFile(path)
	if err != nil {
		return nil, err
	}
	tree, err := payments.NewCumulativePaymentTree(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to build payment tree: %w", err)
	}
	return tree, nil
}

func rootCommand(c *cli.Context) error {
	tree, err := loadTree(c)
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "root: %s\n", tree.HexRoot())
	fmt.Fprintf(w, "payees: %d\n", tree.Len())
	if tree.Filtered() > 0 {
		fmt.Fprintf(w, "filtered: %d\n", tree.Filtered())
	}

	entries := tree.Entries()
	if len(entries) == 0 {
		return nil
	}
	sample := entries[len(entries)-1]
	if len(entries) > samplePayeeIndex {
		sample = entries[samplePayeeIndex]
	}
	fmt.Fprintf(w, "payee: %s\n", sample.Payee.Hex())
	fmt.Fprintf(w, "amount: %s\n", sample.CumulativeAmount.String())
	fmt.Fprintf(w, "proof: %s\n", tree.HexProofFor(sample.Payee, sample.CumulativeAmount))
	return nil
}

func parsePayeeAndAmount(c *cli.Context) (common.Address, *big.Int, error) {
	payee, err := util.ParseAddress(c.String("payee"))
	if err != nil {
		return common.Address{}, nil, err
	}
	amount, err := util.ParseAmount(c.String("amount"))
	if err != nil {
		return common.Address{}, nil, err
	}
	return payee, amount, nil
}

func proofCommand(c *cli.Context) error {
	tree, err := loadTree(c)
	if err != nil {
		return err
	}
	payee, amount, err := parsePayeeAndAmount(c)
	if err != nil {
		return err
	}

	w := c.App.Writer
	if !tree.Verify(payee, amount, tree.ProofFor(payee, amount)) {
		fmt.Fprintf(w, "warning: %s is not owed %s in this list\n", payee.Hex(), amount.String())
	}
	if c.IsSet("cycle") {
		fmt.Fprintf(w, "proof: %s\n", tree.HexProofWithClaim(payee, amount, c.Uint64("cycle")))
		return nil
	}
	fmt.Fprintf(w, "proof: %s\n", tree.HexProofFor(payee, amount))
	return nil
}

func verifyCommand(c *cli.Context) error {
	root, err := util.DecodeProofHex(c.String("root"))
	if err != nil || len(root) != 1 {
		return fmt.Errorf("root must be a single 32-byte hex word")
	}
	payee, amount, err := parsePayeeAndAmount(c)
	if err != nil {
		return err
	}

	var proof [][32]byte
	if c.Bool("claim") {
		_, claimed, siblings, err := util.DecodeClaimProofHex(c.String("proof"))
		if err != nil {
			return err
		}
		if claimed.Cmp(amount) != 0 {
			return fmt.Errorf("proof claims amount %s, not %s", claimed.String(), amount.String())
		}
		proof = siblings
	} else {
		proof, err = util.DecodeProofHex(c.String("proof"))
		if err != nil {
			return err
		}
	}

	if !payments.VerifyPayment(root[0], payee, amount, proof) {
		return fmt.Errorf("proof does not verify: %s is not owed %s under root %s", payee.Hex(), amount.String(), util.BytesToHex(root[0]))
	}
	fmt.Fprintln(c.App.Writer, "valid")
	return nil
}

func genTestPaymentsCommand(c *cli.Context) error {
	path, err := fileArg(c, "ofile")
	if err != nil {
		return err
	}
	entries, err := paymentList.GenerateTestPayments()
	if err != nil {
		return err
	}
	if err := paymentList.WriteFile(path, entries); err != nil {
		return err
	}
	for i, entry := range entries {
		fmt.Fprintf(c.App.Writer, "addr: %s amount: %s index: %d\n", entry.Payee.Hex(), entry.Amount.String(), i)
	}
	return nil
}

func commitCommand(c *cli.Context) error {
	path, err := fileArg(c, "file")
	if err != nil {
		return err
	}
	entries, err := paymentList.LoadFile(path)
	if err != nil {
		return err
	}

	env, err := newEnvironment(c)
	if err != nil {
		return err
	}
	defer env.Close()

	cycle := c.Uint64("cycle")
	if !c.IsSet("cycle") {
		cycle, err = env.manager.NextCycle(c.Context)
		if err != nil {
			return err
		}
	}

	record, err := env.manager.Commit(c.Context, cycle, entries)
	if record != nil {
		w := c.App.Writer
		fmt.Fprintf(w, "cycle: %d\n", record.Cycle)
		fmt.Fprintf(w, "root: %s\n", record.Root.Hex())
		fmt.Fprintf(w, "payees: %d\n", len(record.Entries))
		if record.SubmissionTx != (common.Hash{}) {
			fmt.Fprintf(w, "tx: %s\n", record.SubmissionTx.Hex())
		}
	}
	return err
}

func submitCommand(c *cli.Context) error {
	env, err := newEnvironment(c)
	if err != nil {
		return err
	}
	defer env.Close()

	record, err := env.manager.Submit(c.Context, c.Uint64("cycle"))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "cycle: %d\nroot: %s\ntx: %s\n", record.Cycle, record.Root.Hex(), record.SubmissionTx.Hex())
	return nil
}

func selectedCycle(c *cli.Context, env *environment) (uint64, error) {
	if c.IsSet("cycle") {
		return c.Uint64("cycle"), nil
	}
	latest, ok, err := env.manager.Latest()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("no cycles stored")
	}
	return latest, nil
}

func cycleProofCommand(c *cli.Context) error {
	payee, err := util.ParseAddress(c.String("payee"))
	if err != nil {
		return err
	}

	env, err := newEnvironment(c)
	if err != nil {
		return err
	}
	defer env.Close()

	cycle, err := selectedCycle(c, env)
	if err != nil {
		return err
	}
	tree, err := env.manager.Tree(cycle)
	if err != nil {
		return err
	}
	amount := tree.AmountFor(payee)
	if amount.Sign() == 0 {
		return fmt.Errorf("%s has no payments in cycle %d", payee.Hex(), cycle)
	}
	proof, err := env.manager.HexProofWithClaim(cycle, payee, amount)
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "cycle: %d\n", cycle)
	fmt.Fprintf(w, "amount: %s\n", amount.String())
	fmt.Fprintf(w, "proof: %s\n", proof)
	return nil
}

func balanceCommand(c *cli.Context) error {
	payee, err := util.ParseAddress(c.String("payee"))
	if err != nil {
		return err
	}

	env, err := newEnvironment(c)
	if err != nil {
		return err
	}
	defer env.Close()
	if env.caller == nil {
		return fmt.Errorf("balance needs --rpc-url and --payment-pool-address")
	}

	cycle, err := selectedCycle(c, env)
	if err != nil {
		return err
	}
	tree, err := env.manager.Tree(cycle)
	if err != nil {
		return err
	}
	amount := tree.AmountFor(payee)
	proof, err := env.manager.ProofFor(cycle, payee, amount)
	if err != nil {
		return err
	}

	available, err := env.caller.BalanceForProof(c.Context, payee, amount, cycle, proof)
	if err != nil {
		return err
	}
	withdrawn, err := env.caller.Withdrawals(c.Context, payee)
	if err != nil {
		return err
	}
	env.logger.Sugar().Debugw("Queried payment pool balance",
		zap.String("payee", payee.Hex()),
		zap.Uint64("cycle", cycle),
	)

	w := c.App.Writer
	fmt.Fprintf(w, "cumulative: %s\n", amount.String())
	fmt.Fprintf(w, "withdrawn: %s\n", withdrawn.String())
	fmt.Fprintf(w, "available: %s\n", available.String())
	return nil
}

func pruneCommand(c *cli.Context) error {
	env, err := newEnvironment(c)
	if err != nil {
		return err
	}
	defer env.Close()

	removed, err := env.manager.Prune(c.Int("keep"))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "removed: %d\n", removed)
	return nil
}
