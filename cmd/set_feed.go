package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/opencustody/vault"
	"github.com/opencustody/vault/auditlog"
	"github.com/opencustody/vault/feed"
)

// setFeedCmd holds the flags for the 'set-feed' subcommand.
type setFeedCmd struct {
	url       string
	valuePath string
	timePath  string
	native    string
	decimals  int
}

func (*setFeedCmd) Name() string     { return "set-feed" }
func (*setFeedCmd) Synopsis() string { return "switch the price feed and record the change" }
func (*setFeedCmd) Usage() string {
	return `vaultctl set-feed -url <url> [-p <jsonpath>] [-t <jsonpath>] [-n <asset>]

  Points the vault at a new price-feed endpoint. The endpoint is probed for
  a vetted sample first; a feed that is unreachable, stale or non-positive
  is refused. The change is recorded in the journal.
`
}

func (c *setFeedCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.url, "url", "", "URL of the price endpoint")
	f.StringVar(&c.valuePath, "p", "$.price", "jsonpath of the price inside the response")
	f.StringVar(&c.timePath, "t", "", "jsonpath of the unix timestamp (empty to stamp at fetch time)")
	f.StringVar(&c.native, "n", "native", "Asset identifier the feed prices")
	f.IntVar(&c.decimals, "d", 18, "Decimal precision of the priced asset")
}

func (c *setFeedCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	client := feed.New(feed.Config{
		URL:           c.url,
		ValuePath:     c.valuePath,
		UpdatedAtPath: c.timePath,
	}, feed.Cached(time.Minute))

	events, err := DecodeJournal()
	if err != nil {
		return fail(err)
	}
	jf, err := os.OpenFile(*journalFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fail(fmt.Errorf("cannot open journal %q for append: %w", *journalFile, err))
	}
	defer jf.Close()

	cfg, err := seedConfig(auditlog.NewFileSink(jf))
	if err != nil {
		return fail(err)
	}
	cfg.Registry.Add(c.native, c.native, int32(c.decimals))

	ledger, err := vault.NewOracleLedger(cfg, client, c.native)
	if err != nil {
		return fail(err)
	}
	if err := ledger.Restore(events); err != nil {
		return fail(fmt.Errorf("journal replay failed: %w", err))
	}

	// probe the endpoint before recording the switch
	price, err := ledger.Price(ctx)
	if err != nil {
		return fail(fmt.Errorf("refusing feed %q: %w", c.url, err))
	}
	if err := ledger.SetFeed(actor(), client, c.url); err != nil {
		return fail(err)
	}
	fmt.Printf("Feed set to %q (current price %s)\n", c.url, price)
	return subcommands.ExitSuccess
}
