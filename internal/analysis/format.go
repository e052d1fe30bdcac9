package analysis

import (
	"math"
	"strconv"
	"strings"
)

// parseNumber reads a decimal or scientific literal. Hex forms and
// non-finite values are rejected so every result stays JSON-encodable.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "xX_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// round returns x rounded half-to-even on its exact binary value, to the
// given number of decimal places.
func round(x float64, places int) float64 {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return x
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', places, 64), 64)
	if err != nil {
		return x
	}
	return r
}

// saturate clamps an overflowed result to the largest finite float of the
// same sign. Inputs are always finite, so NaN cannot reach it.
func saturate(x float64) float64 {
	switch {
	case math.IsInf(x, 1):
		return math.MaxFloat64
	case math.IsInf(x, -1):
		return -math.MaxFloat64
	}
	return x
}

func round4(x float64) float64 { return round(x, 4) }

func round2(x float64) float64 { return round(x, 2) }

// formatFloat renders x the shortest way that round-trips, keeping a
// trailing ".0" on integral values and switching to exponent form outside
// [1e-4, 1e16).
func formatFloat(x float64) string {
	if x == 0 {
		if math.Signbit(x) {
			return "-0.0"
		}
		return "0.0"
	}
	e := strconv.FormatFloat(x, 'e', -1, 64)
	exp, err := strconv.Atoi(e[strings.IndexByte(e, 'e')+1:])
	if err != nil || exp < -4 || exp >= 16 {
		return e
	}
	s := strconv.FormatFloat(x, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
