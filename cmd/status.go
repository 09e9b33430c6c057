package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/opencustody/vault/renderer"
)

// statusCmd holds the flags for the 'status' subcommand.
type statusCmd struct{}

func (*statusCmd) Name() string     { return "status" }
func (*statusCmd) Synopsis() string { return "display the vault's balances and capacity" }
func (*statusCmd) Usage() string {
	return `vaultctl status

  Displays the custody ceiling, the custodied total, the accepted assets
  and every user balance, rebuilt from the journal.
`
}

func (*statusCmd) SetFlags(f *flag.FlagSet) {}

func (*statusCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := ReplayLedger()
	if err != nil {
		return fail(err)
	}

	reg := ledger.Registry()
	unit := ledger.Unit()
	status := &renderer.Status{
		Unit:            unit,
		Capacity:        reg.Format(unit, ledger.Capacity()),
		Total:           reg.Format(unit, ledger.CurrentTotal()),
		Remaining:       reg.Format(unit, ledger.Capacity().Sub(ledger.CurrentTotal())),
		WithdrawalLimit: reg.Format(unit, ledger.WithdrawalLimit()),
		Deposits:        ledger.TotalDeposits(),
		Withdrawals:     ledger.TotalWithdrawals(),
	}
	for id := range reg.Assets() {
		info, _ := reg.Info(id)
		status.Assets = append(status.Assets, renderer.AssetRow{
			ID:       id,
			Symbol:   info.Symbol,
			Decimals: info.Decimals,
		})
	}
	for user, balance := range ledger.Balances() {
		status.Balances = append(status.Balances, renderer.BalanceRow{
			User:    user,
			Balance: reg.Format(unit, balance),
		})
	}

	printMarkdown(renderer.RenderStatus(status))
	return subcommands.ExitSuccess
}
