// internal/healthscore/fields/parse.go
package fields

import (
	"math"
	"strconv"
	"strings"
)

// Period of a typed {amount, period} value.
type Period string

const (
	PeriodMonthly Period = "monthly"
	PeriodAnnual  Period = "annual"
)

var numberNoise = strings.NewReplacer(
	",", "", "₪", "", "$", "", "€", "", "£", "", "%", "", " ", "", "\u00a0", "",
)

// ParseNumber converts a loosely typed input value into a finite float.
// Strings may carry thousands separators, a currency symbol or a percent sign.
func ParseNumber(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case nil, bool:
		return 0, false
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
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case string:
		s := numberNoise.Replace(strings.TrimSpace(n))
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case interface{ Float64() (float64, error) }:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parsePeriodValue reads a typed {amount, period} value. ok is false when v
// is not such an object or its amount is unusable.
func parsePeriodValue(v interface{}) (amount float64, period Period, ok bool) {
	obj, isMap := v.(map[string]interface{})
	if !isMap {
		return 0, "", false
	}
	raw, has := obj["amount"]
	if !has {
		return 0, "", false
	}
	amount, ok = ParseNumber(raw)
	if !ok {
		return 0, "", false
	}

	period = PeriodMonthly
	if p, isStr := obj["period"].(string); isStr {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "annual", "annually", "yearly", "year":
			period = PeriodAnnual
		}
	}
	return amount, period, true
}

// LookupText returns the first non-empty string stored under keys.
func LookupText(rec Record, keys ...string) (string, bool) {
	for _, k := range keys {
		if s, ok := rec[k].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// IsCouple reports whether the record is in couple planning mode.
func IsCouple(rec Record) bool {
	mode, ok := LookupText(rec, PlanningTypeKeys...)
	return ok && strings.EqualFold(mode, "couple")
}
