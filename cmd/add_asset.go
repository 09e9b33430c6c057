package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

// addAssetCmd holds the flags for the 'add-asset' subcommand.
type addAssetCmd struct {
	id       string
	symbol   string
	decimals int
}

func (*addAssetCmd) Name() string     { return "add-asset" }
func (*addAssetCmd) Synopsis() string { return "register an accepted asset" }
func (*addAssetCmd) Usage() string {
	return `vaultctl add-asset -id <id> [-s <symbol>] [-d <decimals>]

  Registers an asset identifier with its display symbol and decimal
  precision. Re-registering an id overwrites its metadata; there is no
  removal.
`
}

func (c *addAssetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Asset identifier")
	f.StringVar(&c.symbol, "s", "", "Display symbol (defaults to the identifier)")
	f.IntVar(&c.decimals, "d", 18, "Decimal precision of the asset's base unit")
}

func (c *addAssetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, closer, err := OpenLedger()
	if err != nil {
		return fail(err)
	}
	defer closer()

	symbol := c.symbol
	if symbol == "" {
		symbol = c.id
	}
	if err := ledger.AddAsset(actor(), c.id, symbol, int32(c.decimals)); err != nil {
		return fail(err)
	}
	fmt.Printf("Registered asset %q (%s, %d decimals)\n", c.id, symbol, c.decimals)
	return subcommands.ExitSuccess
}
