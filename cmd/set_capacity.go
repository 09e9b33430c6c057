package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

// setCapacityCmd holds the flags for the 'set-capacity' subcommand.
type setCapacityCmd struct {
	amount string
}

func (*setCapacityCmd) Name() string     { return "set-capacity" }
func (*setCapacityCmd) Synopsis() string { return "replace the global custody ceiling" }
func (*setCapacityCmd) Usage() string {
	return `vaultctl set-capacity -a <amount>

  Replaces the global custody ceiling. Existing balances above the new
  ceiling are untouched; only further deposits are constrained.
`
}

func (c *setCapacityCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "a", "", "New ceiling in base units of the normalized asset")
}

func (c *setCapacityCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmount(c.amount)
	if err != nil {
		return fail(err)
	}
	ledger, closer, err := OpenLedger()
	if err != nil {
		return fail(err)
	}
	defer closer()

	if err := ledger.SetCapacity(actor(), amount); err != nil {
		return fail(err)
	}
	fmt.Printf("Capacity set to %s\n", ledger.Registry().Format(ledger.Unit(), amount))
	return subcommands.ExitSuccess
}
