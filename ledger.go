package vault

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"time"
)

// balanceKey indexes balances by user and by the asset the credit is
// denominated in.
type balanceKey struct {
	user  string
	asset string
}

// Ledger is the balance and capacity ledger. It sequences deposits and
// withdrawals as atomic, all-or-nothing operations, credits every deposit in
// the normalized unit, and keeps the custodied total under the global
// capacity ceiling.
//
// Each state-changing call is a single non-preemptible unit of work; the only
// concurrency hazard is an external collaborator re-invoking the ledger
// before its own call returns. Every state-changing path therefore applies
// its balance and capacity mutations before the external release call, and an
// explicit in-progress marker refuses overlapping mutations.
type Ledger struct {
	registry *Registry
	mover    AssetMover
	valuer   Valuer
	auth     Authorizer
	audit    Sink

	// oracle is set in the oracle generation and enables the value-based
	// reads and the capacity-by-value and feed-replacement operations.
	oracle *OracleValuer

	unit         string // normalized asset id, the denomination of every balance
	defaultAsset string // asset a plain Deposit call custodies
	swaps        bool   // conversion moves custody into the unit asset

	limit       Amount // per-call withdrawal ceiling
	capacity    Amount
	total       Amount
	deposits    int64
	withdrawals int64

	balances map[balanceKey]Amount

	entered bool
	now     func() time.Time
}

// Config carries the injected collaborators and seeded global state of a
// ledger. Registry must already hold the normalized unit and the default
// deposit asset.
type Config struct {
	Registry *Registry
	Mover    AssetMover
	Auth     Authorizer
	Audit    Sink // optional, defaults to NopSink

	Unit            string // normalized asset id
	Capacity        Amount
	WithdrawalLimit Amount

	Now func() time.Time // optional clock override
}

func newLedger(cfg Config, valuer Valuer, defaultAsset string) (*Ledger, error) {
	if cfg.Mover == nil || cfg.Auth == nil || valuer == nil {
		return nil, ErrZeroAddress
	}
	if cfg.Unit == "" {
		return nil, ErrZeroAddress
	}
	if cfg.Registry == nil {
		return nil, ErrZeroAddress
	}
	if !cfg.Registry.Supported(cfg.Unit) {
		return nil, &UnsupportedAssetError{ID: cfg.Unit}
	}
	if defaultAsset != cfg.Unit && !cfg.Registry.Supported(defaultAsset) {
		return nil, &UnsupportedAssetError{ID: defaultAsset}
	}
	if cfg.Capacity.IsNegative() || cfg.WithdrawalLimit.IsNegative() {
		return nil, ErrInvalidAmount
	}
	audit := cfg.Audit
	if audit == nil {
		audit = NopSink{}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Ledger{
		registry:     cfg.Registry,
		mover:        cfg.Mover,
		valuer:       valuer,
		auth:         cfg.Auth,
		audit:        audit,
		unit:         cfg.Unit,
		defaultAsset: defaultAsset,
		limit:        cfg.WithdrawalLimit,
		capacity:     cfg.Capacity,
		balances:     make(map[balanceKey]Amount),
		now:          now,
	}, nil
}

// NewLedger creates a ledger that custodies the normalized asset itself:
// valuation is the identity and only cfg.Unit is accepted.
func NewLedger(cfg Config) (*Ledger, error) {
	return newLedger(cfg, Identity{Asset: cfg.Unit}, cfg.Unit)
}

// NewOracleLedger creates the oracle generation: deposits of the native asset
// are valued through feed and credited in the normalized unit.
func NewOracleLedger(cfg Config, feed PriceFeed, native string) (*Ledger, error) {
	oracle, err := NewOracleValuer(feed, native)
	if err != nil {
		return nil, err
	}
	if cfg.Now != nil {
		oracle.now = cfg.Now
	}
	l, err := newLedger(cfg, oracle, native)
	if err != nil {
		return nil, err
	}
	l.oracle = oracle
	return l, nil
}

// NewSwapLedger creates the swap generation: deposits of any registered asset
// are swapped through router into the canonical asset cfg.Unit, bridging
// through intermediate. Deposit without an asset custodies native.
func NewSwapLedger(cfg Config, router Router, native, intermediate string) (*Ledger, error) {
	valuer, err := NewSwapValuer(router, cfg.Unit, intermediate)
	if err != nil {
		return nil, err
	}
	if cfg.Now != nil {
		valuer.now = cfg.Now
	}
	l, err := newLedger(cfg, valuer, native)
	if err != nil {
		return nil, err
	}
	l.swaps = true
	return l, nil
}

// Deposit custodies amount of the ledger's default asset for user.
func (l *Ledger) Deposit(ctx context.Context, user string, amount Amount) error {
	return l.DepositAsset(ctx, user, l.defaultAsset, amount)
}

// DepositAsset pulls amount of asset from user into custody, converts it to
// the normalized unit, and credits user, subject to the capacity ceiling. On
// any failure after the pull, the pulled value is released back to user and
// the call leaves no state change behind.
func (l *Ledger) DepositAsset(ctx context.Context, user, asset string, amount Amount) error {
	if l.entered {
		return ErrReentrantCall
	}
	l.entered = true
	defer func() { l.entered = false }()

	if user == "" {
		return ErrZeroAddress
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !l.registry.Supported(asset) {
		return &UnsupportedAssetError{ID: asset}
	}

	if err := l.pull(ctx, user, asset, amount); err != nil {
		return err
	}
	// Custody now holds the pulled value; every failure below refunds it.

	normalized, err := l.valuer.Convert(ctx, asset, amount)
	if err != nil {
		return l.refund(ctx, user, asset, amount, err)
	}
	// After a swap the custodied value is the converted output.
	held, heldAmount := asset, amount
	if l.swaps && asset != l.unit {
		held, heldAmount = l.unit, normalized
	}

	if normalized.IsZero() {
		return l.refund(ctx, user, held, heldAmount, ErrInvalidAmount)
	}
	if l.total.Add(normalized).GreaterThan(l.capacity) {
		return l.refund(ctx, user, held, heldAmount, &CapacityExceededError{Remaining: l.capacity.Sub(l.total)})
	}

	key := balanceKey{user: user, asset: l.unit}
	l.balances[key] = l.balances[key].Add(normalized)
	l.total = l.total.Add(normalized)
	l.deposits++

	l.audit.Record(DepositMade{
		baseEvent:  newBaseEvent(EvtDepositMade, l.now()),
		User:       user,
		Asset:      asset,
		Raw:        amount,
		Normalized: normalized,
	})
	return nil
}

// Withdraw debits amount from user's normalized-unit balance and releases it
// from custody. The debit is applied before the release, so a reentrant call
// observes the already-updated balance; if the release fails the debit is
// rolled back and the whole call fails TransferFailed.
func (l *Ledger) Withdraw(ctx context.Context, user string, amount Amount) error {
	if user == "" {
		return ErrZeroAddress
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(l.limit) {
		return &LimitExceededError{Requested: amount, Allowed: l.limit}
	}
	key := balanceKey{user: user, asset: l.unit}
	balance := l.balances[key]
	if balance.LessThan(amount) {
		return &InsufficientBalanceError{Available: balance, Requested: amount}
	}

	// The marker comes after the checks: a reentrant over-withdrawal must
	// surface as InsufficientBalance against the already-debited balance,
	// not as a guard refusal.
	if l.entered {
		return ErrReentrantCall
	}
	l.entered = true
	defer func() { l.entered = false }()

	l.balances[key] = balance.Sub(amount)
	l.total = l.total.Sub(amount)
	l.withdrawals++

	if err := l.release(ctx, user, l.unit, amount); err != nil {
		l.balances[key] = balance
		l.total = l.total.Add(amount)
		l.withdrawals--
		return err
	}

	l.audit.Record(WithdrawalMade{
		baseEvent: newBaseEvent(EvtWithdrawalMade, l.now()),
		User:      user,
		Amount:    amount,
	})
	return nil
}

// refund releases the custodied value back to user and propagates cause. A
// refund that itself fails folds both failures into TransferFailed.
func (l *Ledger) refund(ctx context.Context, user, asset string, amount Amount, cause error) error {
	if rerr := l.release(ctx, user, asset, amount); rerr != nil {
		return &TransferFailedError{Cause: fmt.Errorf("deposit aborted (%v), refund failed: %w", cause, rerr)}
	}
	return cause
}

// pull moves value into custody through the mover, tolerating a panicking
// implementation.
func (l *Ledger) pull(ctx context.Context, user, asset string, amount Amount) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &TransferFailedError{Cause: fmt.Errorf("mover panic: %v", r)}
		}
	}()
	if merr := l.mover.Pull(ctx, user, asset, amount); merr != nil {
		return &TransferFailedError{Cause: merr}
	}
	return nil
}

// release moves value out of custody through the mover, tolerating a
// panicking implementation.
func (l *Ledger) release(ctx context.Context, user, asset string, amount Amount) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &TransferFailedError{Cause: fmt.Errorf("mover panic: %v", r)}
		}
	}()
	if merr := l.mover.Release(ctx, user, asset, amount); merr != nil {
		return &TransferFailedError{Cause: merr}
	}
	return nil
}

// SetCapacity replaces the global custody ceiling, in the normalized unit.
// Privileged.
func (l *Ledger) SetCapacity(actor string, capacity Amount) error {
	if err := l.auth.Authorize(actor, OpSetCapacity); err != nil {
		return err
	}
	if capacity.IsNegative() {
		return ErrInvalidAmount
	}
	old := l.capacity
	l.capacity = capacity
	l.audit.Record(CapacityUpdated{
		baseEvent: newBaseEvent(EvtCapacityUpdated, l.now()),
		Actor:     actor,
		Old:       old,
		New:       capacity,
	})
	return nil
}

// SetCapacityInValue sets the ceiling from a normalized-unit value using the
// oracle's reverse conversion. Privileged; oracle generation only.
func (l *Ledger) SetCapacityInValue(ctx context.Context, actor string, value Amount) error {
	if l.oracle == nil {
		return ErrNotOracle
	}
	if err := l.auth.Authorize(actor, OpSetCapacity); err != nil {
		return err
	}
	capacity, err := l.oracle.Invert(ctx, value)
	if err != nil {
		return err
	}
	old := l.capacity
	l.capacity = capacity
	l.audit.Record(CapacityUpdated{
		baseEvent: newBaseEvent(EvtCapacityUpdated, l.now()),
		Actor:     actor,
		Old:       old,
		New:       capacity,
	})
	return nil
}

// SetFeed replaces the oracle's price feed reference. Privileged; oracle
// generation only. ref names the new feed in the audit record.
func (l *Ledger) SetFeed(actor string, feed PriceFeed, ref string) error {
	if l.oracle == nil {
		return ErrNotOracle
	}
	if err := l.auth.Authorize(actor, OpSetFeed); err != nil {
		return err
	}
	if err := l.oracle.SetFeed(feed); err != nil {
		return err
	}
	l.audit.Record(FeedUpdated{
		baseEvent: newBaseEvent(EvtFeedUpdated, l.now()),
		Actor:     actor,
		Feed:      ref,
	})
	return nil
}

// AddAsset registers an accepted asset. Privileged. Re-registering an id
// overwrites its metadata; there is no removal path.
func (l *Ledger) AddAsset(actor, id, symbol string, decimals int32) error {
	if err := l.auth.Authorize(actor, OpAddAsset); err != nil {
		return err
	}
	if id == "" {
		return ErrZeroAddress
	}
	if decimals < 0 {
		return ErrInvalidAmount
	}
	l.registry.Add(id, symbol, decimals)
	l.audit.Record(AssetAdded{
		baseEvent: newBaseEvent(EvtAssetAdded, l.now()),
		Actor:     actor,
		Asset:     id,
		Symbol:    symbol,
		Decimals:  decimals,
	})
	return nil
}

// Reads. All reads are pure: they never mutate and are safe to call
// concurrently with each other or reentrantly from a collaborator.

// Balance returns user's balance in the normalized unit.
func (l *Ledger) Balance(user string) Amount {
	return l.balances[balanceKey{user: user, asset: l.unit}]
}

// BalanceOf returns user's balance denominated in asset.
func (l *Ledger) BalanceOf(user, asset string) Amount {
	return l.balances[balanceKey{user: user, asset: asset}]
}

// BalanceInValue returns user's balance expressed in the normalized unit. In
// the oracle generation this is the value-denominated read; balances are
// already kept normalized, so it is the plain balance.
func (l *Ledger) BalanceInValue(user string) Amount { return l.Balance(user) }

// Capacity returns the global custody ceiling, in the normalized unit.
func (l *Ledger) Capacity() Amount { return l.capacity }

// WithdrawalLimit returns the fixed per-call withdrawal ceiling.
func (l *Ledger) WithdrawalLimit() Amount { return l.limit }

// CurrentTotal returns the sum of all balances, in the normalized unit.
func (l *Ledger) CurrentTotal() Amount { return l.total }

// TotalDeposits returns the number of completed deposits.
func (l *Ledger) TotalDeposits() int64 { return l.deposits }

// TotalWithdrawals returns the number of completed withdrawals.
func (l *Ledger) TotalWithdrawals() int64 { return l.withdrawals }

// Balances iterates over every user holding a normalized-unit balance, in
// sorted user order.
func (l *Ledger) Balances() iter.Seq2[string, Amount] {
	users := make([]string, 0, len(l.balances))
	for key := range l.balances {
		if key.asset == l.unit {
			users = append(users, key.user)
		}
	}
	slices.Sort(users)
	return func(yield func(string, Amount) bool) {
		for _, user := range users {
			if !yield(user, l.balances[balanceKey{user: user, asset: l.unit}]) {
				return
			}
		}
	}
}

// Unit returns the normalized asset identifier.
func (l *Ledger) Unit() string { return l.unit }

// Registry returns the asset registry.
func (l *Ledger) Registry() *Registry { return l.registry }

// Price returns the oracle's latest vetted price sample. Oracle generation
// only.
func (l *Ledger) Price(ctx context.Context) (Amount, error) {
	if l.oracle == nil {
		return Amount{}, ErrNotOracle
	}
	return l.oracle.Price(ctx)
}

// Restore replays a journal of audit events into a fresh ledger, applying
// each completed transition directly without touching the mover or the
// valuation strategy. It powers journal-backed recovery of ledger state.
func (l *Ledger) Restore(events []Event) error {
	for _, e := range events {
		switch evt := e.(type) {
		case DepositMade:
			key := balanceKey{user: evt.User, asset: l.unit}
			l.balances[key] = l.balances[key].Add(evt.Normalized)
			l.total = l.total.Add(evt.Normalized)
			l.deposits++
		case WithdrawalMade:
			key := balanceKey{user: evt.User, asset: l.unit}
			if l.balances[key].LessThan(evt.Amount) {
				return fmt.Errorf("journal replays a withdrawal of %s above the balance %s of %q", evt.Amount, l.balances[key], evt.User)
			}
			l.balances[key] = l.balances[key].Sub(evt.Amount)
			l.total = l.total.Sub(evt.Amount)
			l.withdrawals++
		case CapacityUpdated:
			l.capacity = evt.New
		case AssetAdded:
			l.registry.Add(evt.Asset, evt.Symbol, evt.Decimals)
		case FeedUpdated:
			// reference only, nothing to restore
		default:
			return fmt.Errorf("unknown event type %T in journal", e)
		}
	}
	return nil
}
