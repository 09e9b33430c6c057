package vault

import (
	"context"
	"fmt"
	"time"
)

// Asset identifiers used across the package tests.
const (
	native    = "native"
	usd       = "usd" // the normalized unit
	wrapped   = "wnative"
	tokenAAA  = "aaa"
	operator  = "operator"
	depositor = "alice"
)

// at is a fixed deterministic clock for tests.
var at = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return at }

// testRegistry seeds the unit, native and one extra token.
func testRegistry() *Registry {
	r := NewRegistry()
	r.Add(usd, "USD", ValueDecimals)
	r.Add(native, "NTV", NativeDecimals)
	r.Add(tokenAAA, "AAA", 18)
	return r
}

// mockMover records every transfer and can be rigged to fail, to panic, or
// to call back into the ledger mid-release.
type mockMover struct {
	pulls    []string
	releases []string

	pullErr    error
	releaseErr error
	panicOn    string // "pull" or "release"

	onRelease func() error // reentrancy hook, runs before the release succeeds
}

func (m *mockMover) Pull(ctx context.Context, user, asset string, amount Amount) error {
	if m.panicOn == "pull" {
		panic("mover gone rogue")
	}
	if m.pullErr != nil {
		return m.pullErr
	}
	m.pulls = append(m.pulls, fmt.Sprintf("%s %s %s", user, asset, amount))
	return nil
}

func (m *mockMover) Release(ctx context.Context, user, asset string, amount Amount) error {
	if m.panicOn == "release" {
		panic("mover gone rogue")
	}
	if m.onRelease != nil {
		if err := m.onRelease(); err != nil {
			return err
		}
	}
	if m.releaseErr != nil {
		return m.releaseErr
	}
	m.releases = append(m.releases, fmt.Sprintf("%s %s %s", user, asset, amount))
	return nil
}

// mockFeed serves a fixed price sample.
type mockFeed struct {
	sample Sample
	err    error
}

func (f *mockFeed) Latest(ctx context.Context) (Sample, error) {
	return f.sample, f.err
}

// mockRouter quotes and executes with a fixed output, counting interactions.
type mockRouter struct {
	quote   Amount
	out     Amount
	quotes  int
	swaps   int
	swapErr error

	lastPath     []string
	lastMinOut   Amount
	lastDeadline time.Time
}

func (r *mockRouter) QuoteOut(ctx context.Context, path []string, amountIn Amount) (Amount, error) {
	r.quotes++
	r.lastPath = path
	return r.quote, nil
}

func (r *mockRouter) Swap(ctx context.Context, path []string, amountIn, minOut Amount, deadline time.Time) (Amount, error) {
	r.swaps++
	r.lastPath = path
	r.lastMinOut = minOut
	r.lastDeadline = deadline
	if r.swapErr != nil {
		return Amount{}, r.swapErr
	}
	return r.out, nil
}

// memSink collects events in memory.
type memSink struct {
	events []Event
}

func (s *memSink) Record(e Event) { s.events = append(s.events, e) }

// denyAll refuses every privileged call.
type denyAll struct{}

func (denyAll) Authorize(actor, op string) error {
	return fmt.Errorf("actor %q may not %s", actor, op)
}
