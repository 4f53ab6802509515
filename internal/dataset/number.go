package dataset

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var thousandsOnly = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+$`)

// ParseNumber parses a numeric cell. It accepts thousands separators
// ("1,234" or "1.234,5"), a decimal comma ("7,5") and surrounding spaces.
// NaN and infinities are rejected.
func ParseNumber(s string) (float64, bool) {
	raw := strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
	if raw == "" {
		return 0, false
	}
	raw = strings.ReplaceAll(raw, " ", "")
	cpos := strings.LastIndex(raw, ",")
	dpos := strings.LastIndex(raw, ".")
	switch {
	case cpos >= 0 && dpos >= 0:
		if cpos > dpos {
			raw = strings.ReplaceAll(raw, ".", "")
			raw = strings.Replace(raw, ",", ".", 1)
		} else {
			raw = strings.ReplaceAll(raw, ",", "")
		}
	case cpos >= 0:
		if thousandsOnly.MatchString(raw) {
			raw = strings.ReplaceAll(raw, ",", "")
		} else if strings.Count(raw, ",") == 1 {
			raw = strings.Replace(raw, ",", ".", 1)
		}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseWhole parses an integral cell such as a year or a runtime. A
// trailing "min" unit and an integral decimal ("2001.0") are accepted.
func parseWhole(s string) (int, bool) {
	raw := strings.TrimSpace(strings.ToLower(s))
	raw = strings.TrimSuffix(raw, "mins")
	raw = strings.TrimSuffix(raw, "min")
	f, ok := ParseNumber(raw)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return toInt(f)
}

// toInt converts f when it fits in an int.
func toInt(f float64) (int, bool) {
	if f >= float64(math.MaxInt) || f < float64(math.MinInt) {
		return 0, false
	}
	return int(f), true
}
