package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

// withdrawCmd holds the flags for the 'withdraw' subcommand.
type withdrawCmd struct {
	user   string
	amount string
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "debit a withdrawal from a user" }
func (*withdrawCmd) Usage() string {
	return `vaultctl withdraw -u <user> -a <amount>

  Debits a user's balance, subject to the per-call withdrawal ceiling, and
  appends the resulting event to the journal.
`
}

func (c *withdrawCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "u", "", "User to debit")
	f.StringVar(&c.amount, "a", "", "Amount in base units of the normalized asset")
}

func (c *withdrawCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmount(c.amount)
	if err != nil {
		return fail(err)
	}
	ledger, closer, err := OpenLedger()
	if err != nil {
		return fail(err)
	}
	defer closer()

	if err := ledger.Withdraw(ctx, c.user, amount); err != nil {
		return fail(err)
	}
	fmt.Printf("Withdrew %s for %q. Balance: %s\n",
		ledger.Registry().Format(ledger.Unit(), amount),
		c.user,
		ledger.Registry().Format(ledger.Unit(), ledger.Balance(c.user)))
	return subcommands.ExitSuccess
}
