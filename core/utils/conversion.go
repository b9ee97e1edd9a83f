package utils

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ToInt converts query strings and decoded JSON values to int.
// Floats are truncated, values outside the int range saturate, and anything
// unparseable is 0.
func ToInt(val any) int {
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	case uint32:
		return int(v)
	case float64:
		return floatToInt(v)
	case float32:
		return floatToInt(float64(v))
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i)
		}
		f, _ := v.Float64()
		return floatToInt(f)
	case string:
		i, _ := strconv.Atoi(strings.TrimSpace(v))
		return i
	case []byte:
		i, _ := strconv.Atoi(strings.TrimSpace(string(v)))
		return i
	default:
		return 0
	}
}

func floatToInt(f float64) int {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	}
	return int(f)
}

// ToBool converts a client-supplied flag to bool.
// JSON clients send true, 1 or "true"; agents written against the legacy API
// also send "yes" and "on". Numbers are true when non-zero.
func ToBool(val any) bool {
	return ToBoolDefault(val, false)
}

// ToBoolDefault is ToBool with a fallback for nil, empty strings and
// unrecognized values.
func ToBoolDefault(val any, fallback bool) bool {
	switch v := val.(type) {
	case nil:
		return fallback
	case bool:
		return v
	case int, int64, int32, uint32, float64, float32, json.Number:
		return ToInt(v) != 0
	case string:
		return parseFlag(v, fallback)
	case []byte:
		return parseFlag(string(v), fallback)
	default:
		return fallback
	}
}

func parseFlag(s string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "yes", "on":
		return true
	case "0", "f", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
