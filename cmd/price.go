package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"

	"github.com/opencustody/vault/feed"
)

// priceCmd holds the flags for the 'price' subcommand.
type priceCmd struct {
	url       string
	valuePath string
	timePath  string
}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "fetch the latest price from a JSON endpoint" }
func (*priceCmd) Usage() string {
	return `vaultctl price -url <url> [-p <jsonpath>] [-t <jsonpath>]

  Fetches a price document over HTTP and displays the extracted sample,
  scaled to 8-fractional-digit base units.
`
}

func (c *priceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.url, "url", "", "URL of the price endpoint")
	f.StringVar(&c.valuePath, "p", "$.price", "jsonpath of the price inside the response")
	f.StringVar(&c.timePath, "t", "", "jsonpath of the unix timestamp (empty to stamp at fetch time)")
}

func (c *priceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	client := feed.New(feed.Config{
		URL:           c.url,
		ValuePath:     c.valuePath,
		UpdatedAtPath: c.timePath,
	}, feed.Cached(time.Minute))

	sample, err := client.Latest(ctx)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("%s at %s\n", sample.Value, sample.UpdatedAt.Format(time.RFC3339))
	return subcommands.ExitSuccess
}
