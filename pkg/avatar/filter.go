package avatar

import "math"

// maxFloatPrecision is the largest decimal precision the filter accepts.
// float64 carries ~15 significant digits; asking for more is a config error.
const maxFloatPrecision = 15

// changeFilter decides whether an inbound observation is materially new.
// The remote side re-sends unchanged values at its tick rate; without this
// every tick would look like a change.
type changeFilter struct {
	// precision is the decimal precision floats are rounded to before
	// comparison. Negative disables rounding.
	precision int
}

// normalize rounds float payloads to the configured precision and compares
// the result to the previously stored value. changed is false when the
// observation should be suppressed (no store mutation, no event).
// Non-float payloads compare by exact equality.
func (f changeFilter) normalize(v, prev Value) (normalized Value, changed bool) {
	if raw, ok := v.AsFloat(); ok && f.precision >= 0 {
		v = Float(roundTo(raw, f.precision))
	}
	if v.Equal(prev) {
		return v, false
	}
	return v, true
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
