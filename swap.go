package vault

import (
	"context"
	"fmt"
	"time"
)

// SlippageBps is the maximum acceptable shortfall between a quoted and an
// executed swap output, in basis points.
const SlippageBps = 100

// SwapWindow bounds the validity of an executed swap: past this deadline the
// exchange fails the call itself.
const SwapWindow = 15 * time.Second

// SwapValuer converts deposited assets into the canonical asset by executing
// a swap along a fixed conversion path through an external exchange. The
// canonical asset IS the normalized unit, so converting it is the identity
// and touches no exchange.
//
// Quote-then-execute is not atomic against price movement; the exposure is
// bounded by the slippage tolerance and the deadline.
type SwapValuer struct {
	router       Router
	canonical    string // the normalized unit
	intermediate string // liquidity asset bridging every path

	now func() time.Time
}

// NewSwapValuer creates the swap valuation strategy over router, settling
// into canonical through intermediate.
func NewSwapValuer(router Router, canonical, intermediate string) (*SwapValuer, error) {
	if router == nil {
		return nil, ErrZeroAddress
	}
	if canonical == "" || intermediate == "" {
		return nil, ErrZeroAddress
	}
	return &SwapValuer{router: router, canonical: canonical, intermediate: intermediate, now: time.Now}, nil
}

// path builds the fixed conversion path for asset. Assets bridge through the
// intermediate liquidity asset unless they are the intermediate itself.
func (v *SwapValuer) path(asset string) []string {
	if asset == v.intermediate {
		return []string{asset, v.canonical}
	}
	return []string{asset, v.intermediate, v.canonical}
}

// Convert swaps amount of asset into the canonical unit. The canonical asset
// passes through unchanged. Any other asset triggers exactly one quote and
// one execution; the executed output must reach the quote less the slippage
// tolerance before the validity window closes, and a nominally-successful
// execution with zero output fails SwapFailed.
func (v *SwapValuer) Convert(ctx context.Context, asset string, amount Amount) (Amount, error) {
	if asset == v.canonical {
		return amount, nil
	}

	path := v.path(asset)
	expected, err := v.router.QuoteOut(ctx, path, amount)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: quote: %v", ErrSwapFailed, err)
	}

	minOut := expected.Sub(expected.Mul(A(SlippageBps)).DivFloor(A(10000)))
	deadline := v.now().Add(SwapWindow)

	out, err := v.router.Swap(ctx, path, amount, minOut, deadline)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %v", ErrSwapFailed, err)
	}
	if out.IsZero() {
		return Amount{}, ErrSwapFailed
	}
	return out, nil
}
