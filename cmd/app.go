// Package cmd implements the CLI application to operate a vault ledger from
// a JSONL journal of audit events.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/opencustody/vault"
	"github.com/opencustody/vault/auditlog"
)

// Commands lists every subcommand of the application. A main package
// registers them on a commander and executes the user-selected one.
var Commands = []subcommands.Command{
	&depositCmd{},
	&withdrawCmd{},
	&addAssetCmd{},
	&setCapacityCmd{},
	&setFeedCmd{},
	&statusCmd{},
	&journalCmd{},
	&fmtJournalCmd{},
	&priceCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var journalFile = flag.String("journal-file", "vault.jsonl", "Path to the journal file containing audit events (JSONL format)")
var unitFlag = flag.String("unit", "USDC", "Identifier of the normalized accounting asset")
var unitDecimals = flag.Int("unit-decimals", 6, "Decimal precision of the normalized accounting asset")
var capacityFlag = flag.String("capacity", "1000000000000", "Seed custody ceiling in base units, before the journal replays any update")
var limitFlag = flag.String("withdrawal-limit", "100000000000", "Per-call withdrawal ceiling in base units")

// manualMover is the CLI's custody boundary: transfers settle out-of-band,
// so the mover only acknowledges them.
type manualMover struct{}

func (manualMover) Pull(ctx context.Context, user, asset string, amount vault.Amount) error {
	return nil
}
func (manualMover) Release(ctx context.Context, user, asset string, amount vault.Amount) error {
	return nil
}

// DecodeJournal reads the journal file. A missing file is an empty journal.
func DecodeJournal() ([]vault.Event, error) {
	f, err := os.Open(*journalFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open journal %q: %w", *journalFile, err)
	}
	defer f.Close()
	events, err := vault.DecodeEvents(f)
	if err != nil {
		return nil, fmt.Errorf("cannot decode journal %q: %w", *journalFile, err)
	}
	return events, nil
}

// seedConfig assembles a ledger configuration from the global flags.
func seedConfig(sink vault.Sink) (vault.Config, error) {
	registry := vault.NewRegistry()
	registry.Add(*unitFlag, *unitFlag, int32(*unitDecimals))

	capacity, err := decimal.NewFromString(*capacityFlag)
	if err != nil {
		return vault.Config{}, fmt.Errorf("invalid -capacity: %w", err)
	}
	limit, err := decimal.NewFromString(*limitFlag)
	if err != nil {
		return vault.Config{}, fmt.Errorf("invalid -withdrawal-limit: %w", err)
	}

	return vault.Config{
		Registry:        registry,
		Mover:           manualMover{},
		Auth:            vault.AllowAll{},
		Audit:           sink,
		Unit:            *unitFlag,
		Capacity:        vault.A(capacity),
		WithdrawalLimit: vault.A(limit),
	}, nil
}

// buildLedger seeds a ledger from the global flags, replays the journal into
// it, and records new events on sink.
func buildLedger(sink vault.Sink) (*vault.Ledger, error) {
	events, err := DecodeJournal()
	if err != nil {
		return nil, err
	}
	cfg, err := seedConfig(sink)
	if err != nil {
		return nil, err
	}
	ledger, err := vault.NewLedger(cfg)
	if err != nil {
		return nil, err
	}
	if err := ledger.Restore(events); err != nil {
		return nil, fmt.Errorf("journal replay failed: %w", err)
	}
	return ledger, nil
}

// ReplayLedger rebuilds the ledger from the journal for read-only commands.
func ReplayLedger() (*vault.Ledger, error) {
	return buildLedger(vault.NopSink{})
}

// OpenLedger rebuilds the ledger from the journal and wires a sink appending
// every new event back to it. The returned close function must run after the
// operation so the file flushes.
func OpenLedger() (*vault.Ledger, func() error, error) {
	f, err := os.OpenFile(*journalFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open journal %q for append: %w", *journalFile, err)
	}
	ledger, err := buildLedger(auditlog.NewFileSink(f))
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return ledger, f.Close, nil
}

// EncodeJournal rewrites the journal file from events, one canonical JSONL
// line per event.
func EncodeJournal(events []vault.Event) error {
	f, err := os.OpenFile(*journalFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("cannot open journal %q for writing: %w", *journalFile, err)
	}
	defer f.Close()

	for _, e := range events {
		if err := vault.EncodeEvent(f, e); err != nil {
			return err
		}
	}
	return nil
}

// parseAmount reads a base-unit amount from a command argument.
func parseAmount(s string) (vault.Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return vault.Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return vault.A(d), nil
}

// actor resolves the acting principal for privileged calls.
func actor() string {
	if u := os.Getenv("VAULT_ACTOR"); u != "" {
		return u
	}
	return os.Getenv("USER")
}

// printMarkdown renders markdown to the terminal.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		// fall back to the raw markdown
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}

// fail prints err and returns the failure exit status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}
