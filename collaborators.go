package vault

import (
	"context"
	"time"
)

// AssetMover performs the actual custody transfers. Implementations either
// fully move the amount or return an error; the ledger additionally tolerates
// non-conforming implementations that panic, surfacing them as
// TransferFailedError.
type AssetMover interface {
	// Pull moves amount of asset from user into custody.
	Pull(ctx context.Context, user, asset string, amount Amount) error
	// Release moves amount of asset out of custody to user.
	Release(ctx context.Context, user, asset string, amount Amount) error
}

// Sample is one observation from a price feed: the price of the native asset
// in the normalized unit, carried in 8-fractional-digit base units, and the
// time the feed last updated it.
type Sample struct {
	Value     Amount
	UpdatedAt time.Time
}

// PriceFeed supplies the latest price sample for the oracle valuation
// strategy.
type PriceFeed interface {
	Latest(ctx context.Context) (Sample, error)
}

// Router is the external exchange used by the swap valuation strategy. Paths
// are sequences of asset identifiers, first the asset sold and last the asset
// bought.
type Router interface {
	// QuoteOut returns the non-binding expected output of swapping amountIn
	// along path.
	QuoteOut(ctx context.Context, path []string, amountIn Amount) (Amount, error)
	// Swap executes the swap. It returns the actual output, which is at least
	// minOut, or fails; it also fails once past deadline.
	Swap(ctx context.Context, path []string, amountIn, minOut Amount, deadline time.Time) (Amount, error)
}

// Operation names passed to the Authorizer for privileged calls.
const (
	OpSetCapacity = "set-capacity"
	OpSetFeed     = "set-feed"
	OpAddAsset    = "add-asset"
)

// Authorizer gates privileged configuration calls. Authorize returns nil when
// actor may perform op.
type Authorizer interface {
	Authorize(actor, op string) error
}

// AllowAll authorizes every actor for every operation. Useful for tests and
// single-operator deployments.
type AllowAll struct{}

func (AllowAll) Authorize(actor, op string) error { return nil }
