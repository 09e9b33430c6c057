package renderer

// Status is the at-a-glance view of a vault ledger. Amounts arrive
// pre-formatted so the templates stay purely structural.
type Status struct {
	// Unit is the normalized asset identifier all balances are expressed in.
	Unit string `json:"unit"`
	// Capacity is the global custody ceiling.
	Capacity string `json:"capacity"`
	// Total is the currently custodied total.
	Total string `json:"total"`
	// Remaining is the headroom left under the ceiling.
	Remaining string `json:"remaining"`
	// WithdrawalLimit is the per-call withdrawal ceiling.
	WithdrawalLimit string `json:"withdrawalLimit"`
	// Deposits and Withdrawals count completed operations.
	Deposits    int64 `json:"deposits"`
	Withdrawals int64 `json:"withdrawals"`
	// Assets lists the accepted assets.
	Assets []AssetRow `json:"assets"`
	// Balances lists per-user balances.
	Balances []BalanceRow `json:"balances"`
}

// AssetRow is one accepted asset in the registry.
type AssetRow struct {
	ID       string `json:"id"`
	Symbol   string `json:"symbol"`
	Decimals int32  `json:"decimals"`
}

// BalanceRow is one user's normalized-unit balance.
type BalanceRow struct {
	User    string `json:"user"`
	Balance string `json:"balance"`
}

// JournalRow is one audit event prepared for display.
type JournalRow struct {
	Time   string `json:"time"`
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}
