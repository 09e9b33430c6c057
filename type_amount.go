package vault

import "github.com/shopspring/decimal"

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// Amount is a fixed-point quantity of some asset, expressed in that asset's
// base units (an integral value at the asset's registered decimal scale).
// The zero value is a zero amount.
type Amount struct {
	value decimal.Decimal
}

// A builds an Amount from any numeric value, counted in base units.
func A[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Amount {
	return Amount{value: newDecimal(value)}
}

func (a Amount) Equal(b Amount) bool          { return a.value.Equal(b.value) }
func (a Amount) LessThan(b Amount) bool       { return a.value.LessThan(b.value) }
func (a Amount) GreaterThan(b Amount) bool    { return a.value.GreaterThan(b.value) }
func (a Amount) Add(b Amount) Amount          { return Amount{value: a.value.Add(b.value)} }
func (a Amount) Sub(b Amount) Amount          { return Amount{value: a.value.Sub(b.value)} }
func (a Amount) Mul(b Amount) Amount          { return Amount{value: a.value.Mul(b.value)} }
func (a Amount) IsZero() bool                 { return a.value.IsZero() }
func (a Amount) IsPositive() bool             { return a.value.IsPositive() }
func (a Amount) IsNegative() bool             { return a.value.IsNegative() }
func (a Amount) String() string               { return a.value.String() }

// DivFloor divides by b and truncates toward zero, matching integer division
// on base units. It panics on a zero divisor, like decimal does.
func (a Amount) DivFloor(b Amount) Amount {
	return Amount{value: a.value.DivRound(b.value, 32).Floor()}
}

// Shift moves the decimal point by exp digits: Shift(-12) turns an
// 18-fractional-digit base amount into a 6-fractional-digit one, truncating
// any remainder.
func (a Amount) Shift(exp int32) Amount {
	return Amount{value: a.value.Shift(exp).Floor()}
}

// Decimal exposes the underlying decimal value for display and persistence.
func (a Amount) Decimal() decimal.Decimal { return a.value }

// pow10 is 10^exp as an Amount, used as a scaling factor.
func pow10(exp int32) Amount {
	return Amount{value: decimal.New(1, exp)}
}

// MarshalJSON implements the json.Marshaler interface.
func (a Amount) MarshalJSON() ([]byte, error) {
	return a.value.MarshalJSON()
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	return a.value.UnmarshalJSON(b)
}
