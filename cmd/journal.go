package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"

	"github.com/opencustody/vault"
	"github.com/opencustody/vault/renderer"
)

// journalCmd holds the flags for the 'journal' subcommand.
type journalCmd struct {
	last int
}

func (*journalCmd) Name() string     { return "journal" }
func (*journalCmd) Synopsis() string { return "display the audit journal" }
func (*journalCmd) Usage() string {
	return `vaultctl journal [-n <count>]

  Displays the audit events recorded in the journal, oldest first.
`
}

func (c *journalCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.last, "n", 0, "Only display the last n events (0 for all)")
}

func (c *journalCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	events, err := DecodeJournal()
	if err != nil {
		return fail(err)
	}
	if c.last > 0 && len(events) > c.last {
		events = events[len(events)-c.last:]
	}

	rows := make([]renderer.JournalRow, 0, len(events))
	for _, e := range events {
		rows = append(rows, renderer.JournalRow{
			Time:   e.When().Format(time.RFC3339),
			Kind:   string(e.What()),
			Detail: eventDetail(e),
		})
	}
	printMarkdown(renderer.RenderJournal(rows))
	return subcommands.ExitSuccess
}

// eventDetail summarizes one audit event for display.
func eventDetail(e vault.Event) string {
	switch evt := e.(type) {
	case vault.DepositMade:
		return fmt.Sprintf("%s deposited %s %s (credited %s)", evt.User, evt.Raw, evt.Asset, evt.Normalized)
	case vault.WithdrawalMade:
		return fmt.Sprintf("%s withdrew %s", evt.User, evt.Amount)
	case vault.CapacityUpdated:
		return fmt.Sprintf("%s set capacity %s (was %s)", evt.Actor, evt.New, evt.Old)
	case vault.FeedUpdated:
		return fmt.Sprintf("%s switched price feed to %s", evt.Actor, evt.Feed)
	case vault.AssetAdded:
		return fmt.Sprintf("%s registered %s (%s, %d decimals)", evt.Actor, evt.Asset, evt.Symbol, evt.Decimals)
	default:
		return string(e.What())
	}
}
