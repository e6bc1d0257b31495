package response

import "math"

// CoerceInt implements SPEC_FULL §4.5.1's Int coercion rule, ported
// verbatim in semantics from
// original_source/crates/engine/src/response/write/deserialize/scalar/int.rs:
// an integer coerces directly if it fits in int32; a float coerces
// only if its fractional part is exactly zero AND it is strictly
// less than 2^31 (the reference's can_coerce_f64_to_int checks only
// the upper bound, not a symmetric range around zero — this repo
// matches that asymmetric check rather than the more intuitive
// "within [-2^31, 2^31-1]" read of §8's testable property; see
// DESIGN.md for the discrepancy and why it is kept).
func CoerceInt(v any) (int32, bool) {
	switch n := v.(type) {
	case int32:
		return n, true
	case int:
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0, false
		}
		return int32(n), true
	case int64:
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0, false
		}
		return int32(n), true
	case float64:
		return coerceFloatToInt(n)
	case float32:
		return coerceFloatToInt(float64(n))
	default:
		return 0, false
	}
}

func coerceFloatToInt(f float64) (int32, bool) {
	if math.Floor(f) != f {
		return 0, false
	}
	if f >= float64(math.MaxInt32+1) {
		return 0, false
	}
	return int32(f), true
}
