package vault

import "context"

// Valuer converts a deposited asset amount into the ledger's normalized
// accounting unit. The strategy is selected at construction of the ledger:
// Identity for a vault that only custodies the normalized asset itself,
// OracleValuer for price-sample conversion, SwapValuer for exchange-based
// conversion.
type Valuer interface {
	Convert(ctx context.Context, asset string, amount Amount) (Amount, error)
}

// Identity accepts only the normalized asset itself and returns amounts
// unchanged.
type Identity struct {
	// Asset is the normalized asset identifier.
	Asset string
}

func (v Identity) Convert(ctx context.Context, asset string, amount Amount) (Amount, error) {
	if asset != v.Asset {
		return Amount{}, &UnsupportedAssetError{ID: asset}
	}
	return amount, nil
}
