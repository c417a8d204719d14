package core

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Normalize coerces raw scalar values into finite float64s.
//
// Numbers pass through, strings are parsed as decimal numbers, and anything
// that cannot be read as a finite number becomes 0. The output always has
// the same length as the input; a nil input yields an empty slice.
func Normalize(raw []any) []float64 {
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = toNumber(v)
	}
	return out
}

// Sum adds the values of an already normalized series.
func Sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func toNumber(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case decimal.Decimal:
		f = decimalToFloat(n)
	case json.Number:
		f = parseNumber(n.String())
	case string:
		f = parseNumber(n)
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return decimalToFloat(d)
}

// maxMagnitude bounds the decimal order of magnitude converted to float64.
// Anything beyond it is ±Inf or 0 as a float64 anyway, and converting it
// would expand 10^exp as a big integer.
const maxMagnitude = 400

func decimalToFloat(d decimal.Decimal) float64 {
	if d.IsZero() {
		return 0
	}
	magnitude := int64(d.Exponent()) + int64(d.NumDigits())
	if magnitude > maxMagnitude || magnitude < -maxMagnitude {
		return 0
	}
	return d.InexactFloat64()
}
