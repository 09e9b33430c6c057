package vault

import (
	"iter"
	"slices"

	"github.com/Rhymond/go-money"
)

// AssetInfo holds the denomination metadata of an accepted asset.
type AssetInfo struct {
	Symbol   string `json:"symbol"`
	Decimals int32  `json:"decimals"`
}

// Registry tracks which asset identifiers are accepted and how their amounts
// are denominated. The registry is append-only: assets are added (or their
// metadata overwritten) by privileged calls and never removed.
type Registry struct {
	assets map[string]AssetInfo
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{assets: make(map[string]AssetInfo)}
}

// Add registers an asset. Re-registering an id overwrites its metadata.
func (r *Registry) Add(id, symbol string, decimals int32) {
	r.assets[id] = AssetInfo{Symbol: symbol, Decimals: decimals}
}

// Supported reports whether an asset identifier is accepted.
func (r *Registry) Supported(id string) bool {
	_, ok := r.assets[id]
	return ok
}

// Info returns the metadata registered for id.
func (r *Registry) Info(id string) (AssetInfo, bool) {
	info, ok := r.assets[id]
	return info, ok
}

// DecimalsOf returns the decimal precision registered for id.
func (r *Registry) DecimalsOf(id string) (int32, bool) {
	info, ok := r.assets[id]
	return info.Decimals, ok
}

// SymbolOf returns the display symbol registered for id.
func (r *Registry) SymbolOf(id string) (string, bool) {
	info, ok := r.assets[id]
	return info.Symbol, ok
}

// Assets iterates over all registered asset identifiers in sorted order.
func (r *Registry) Assets() iter.Seq[string] {
	ids := make([]string, 0, len(r.assets))
	for id := range r.assets {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return slices.Values(ids)
}

// Format renders an amount of asset id for display, shifting base units to
// the asset's major unit and appending its symbol. Unknown assets render as
// plain base units.
func (r *Registry) Format(id string, a Amount) string {
	info, ok := r.assets[id]
	if !ok {
		return a.String()
	}
	// The money formatter takes int64 base units; amounts past that range
	// (high-precision assets) format through the shifted decimal instead.
	d := a.Decimal()
	if i := d.BigInt(); d.IsInteger() && i.IsInt64() {
		f := money.NewFormatter(int(info.Decimals), ".", ",", info.Symbol, "1 $")
		return f.Format(i.Int64())
	}
	return d.Shift(-info.Decimals).String() + " " + info.Symbol
}
