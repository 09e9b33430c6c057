package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

// depositCmd holds the flags for the 'deposit' subcommand.
type depositCmd struct {
	user   string
	amount string
}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "credit a deposit to a user" }
func (*depositCmd) Usage() string {
	return `vaultctl deposit -u <user> -a <amount>

  Records a deposit of the normalized asset for a user, subject to the
  custody ceiling, and appends the resulting event to the journal.
`
}

func (c *depositCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "u", "", "User to credit")
	f.StringVar(&c.amount, "a", "", "Amount in base units of the normalized asset")
}

func (c *depositCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmount(c.amount)
	if err != nil {
		return fail(err)
	}
	ledger, closer, err := OpenLedger()
	if err != nil {
		return fail(err)
	}
	defer closer()

	if err := ledger.Deposit(ctx, c.user, amount); err != nil {
		return fail(err)
	}
	fmt.Printf("Deposited %s for %q. Balance: %s\n",
		ledger.Registry().Format(ledger.Unit(), amount),
		c.user,
		ledger.Registry().Format(ledger.Unit(), ledger.Balance(c.user)))
	return subcommands.ExitSuccess
}
