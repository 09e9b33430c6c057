package vault

import (
	"context"
	"time"
)

// Denomination scales reconciled by the oracle conversion: the native asset
// carries 18 fractional digits, price samples 8, the normalized unit 6.
const (
	NativeDecimals = 18
	PriceDecimals  = 8
	ValueDecimals  = 6
)

// Heartbeat is the maximum tolerated age of a price sample before it is
// treated as unusable.
const Heartbeat = 3600 * time.Second

// OracleValuer converts native-asset amounts into the normalized unit using
// the latest sample of an external price feed. A non-positive sample fails
// OracleCompromised; a sample older than the heartbeat fails StalePrice. No
// retries: recovery requires a fresh sample on a later call, or a privileged
// feed replacement.
type OracleValuer struct {
	feed   PriceFeed
	native string // asset identifier the feed prices

	now func() time.Time
}

// NewOracleValuer creates the oracle valuation strategy over feed, pricing
// the native asset.
func NewOracleValuer(feed PriceFeed, native string) (*OracleValuer, error) {
	if feed == nil {
		return nil, ErrZeroAddress
	}
	return &OracleValuer{feed: feed, native: native, now: time.Now}, nil
}

// sample reads and vets the latest price sample.
func (o *OracleValuer) sample(ctx context.Context) (Sample, error) {
	s, err := o.feed.Latest(ctx)
	if err != nil {
		return Sample{}, err
	}
	if !s.Value.IsPositive() {
		return Sample{}, ErrOracleCompromised
	}
	if age := o.now().Sub(s.UpdatedAt); age > Heartbeat {
		return Sample{}, &StalePriceError{Age: age, Heartbeat: Heartbeat}
	}
	return s, nil
}

// Convert turns an 18-fractional-digit native amount into the
// 6-fractional-digit normalized unit:
//
//	normalized = floor(amount * price / 10^(18+8-6))
func (o *OracleValuer) Convert(ctx context.Context, asset string, amount Amount) (Amount, error) {
	if asset != o.native {
		return Amount{}, &UnsupportedAssetError{ID: asset}
	}
	s, err := o.sample(ctx)
	if err != nil {
		return Amount{}, err
	}
	factor := pow10(NativeDecimals + PriceDecimals - ValueDecimals)
	return amount.Mul(s.Value).DivFloor(factor), nil
}

// Invert turns a normalized-unit value back into native base units using the
// same sample:
//
//	native = floor(value * 10^18 / price)
//
// The exponent intentionally differs from Convert's scaling factor; this
// mirrors the reverse capacity conversion as deployed.
func (o *OracleValuer) Invert(ctx context.Context, value Amount) (Amount, error) {
	s, err := o.sample(ctx)
	if err != nil {
		return Amount{}, err
	}
	return value.Mul(pow10(NativeDecimals)).DivFloor(s.Value), nil
}

// Price returns the latest vetted price sample value, in 8-fractional-digit
// base units.
func (o *OracleValuer) Price(ctx context.Context) (Amount, error) {
	s, err := o.sample(ctx)
	if err != nil {
		return Amount{}, err
	}
	return s.Value, nil
}

// SetFeed replaces the price feed reference. The ledger gates this behind its
// Authorizer; a nil feed fails ZeroAddress.
func (o *OracleValuer) SetFeed(feed PriceFeed) error {
	if feed == nil {
		return ErrZeroAddress
	}
	o.feed = feed
	return nil
}
