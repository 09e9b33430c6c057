package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/opencustody/vault"
)

// useTempJournal points the global flags at a fresh journal for one test.
func useTempJournal(t *testing.T) {
	t.Helper()
	old := *journalFile
	*journalFile = filepath.Join(t.TempDir(), "vault.jsonl")
	t.Cleanup(func() { *journalFile = old })
}

func TestOpenLedger_RoundTrip(t *testing.T) {
	useTempJournal(t)
	ctx := context.Background()

	ledger, closer, err := OpenLedger()
	if err != nil {
		t.Fatalf("OpenLedger() error: %v", err)
	}
	if err := ledger.Deposit(ctx, "alice", vault.A(1000)); err != nil {
		t.Fatalf("Deposit() error: %v", err)
	}
	if err := ledger.Withdraw(ctx, "alice", vault.A(250)); err != nil {
		t.Fatalf("Withdraw() error: %v", err)
	}
	if err := closer(); err != nil {
		t.Fatalf("close journal: %v", err)
	}

	replayed, err := ReplayLedger()
	if err != nil {
		t.Fatalf("ReplayLedger() error: %v", err)
	}
	if got, want := replayed.Balance("alice"), vault.A(750); !got.Equal(want) {
		t.Errorf("replayed balance = %s, want %s", got, want)
	}
	if got := replayed.TotalDeposits(); got != 1 {
		t.Errorf("replayed deposits = %d, want 1", got)
	}
	if got := replayed.TotalWithdrawals(); got != 1 {
		t.Errorf("replayed withdrawals = %d, want 1", got)
	}
}

func TestReplayLedger_MissingJournalIsEmpty(t *testing.T) {
	useTempJournal(t)

	ledger, err := ReplayLedger()
	if err != nil {
		t.Fatalf("ReplayLedger() error: %v", err)
	}
	if got := ledger.CurrentTotal(); !got.IsZero() {
		t.Errorf("total = %s, want 0", got)
	}
}

func TestEventDetail(t *testing.T) {
	e := vault.DepositMade{User: "alice", Asset: "usd", Raw: vault.A(100), Normalized: vault.A(100)}
	got := eventDetail(e)
	want := "alice deposited 100 usd (credited 100)"
	if got != want {
		t.Errorf("eventDetail() = %q, want %q", got, want)
	}
}
