// Package mathutil holds small numeric helpers.
package mathutil

// ClampLimit normalizes a caller-supplied result limit. Non-positive values
// fall back to def, values above max are capped at max.
func ClampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// Clamp01 clamps v into the [0, 1] range. Cosine similarity scores can drift
// slightly outside it due to floating point rounding.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
