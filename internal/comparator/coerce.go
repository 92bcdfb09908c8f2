package comparator

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// asString renders any value through its default format, so numeric 1 and
// string "1" compare equal under the string family.
func asString(v any) string {
	return fmt.Sprintf("%v", v)
}

// asFloat64 coerces numeric types and numeric strings. Everything else
// fails the coercion rather than panicking or guessing.
func asFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// timeLayouts are tried in order when parsing date strings.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// asTime coerces time values, date strings, and unix-second numbers.
func asTime(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case *time.Time:
		if val == nil {
			return time.Time{}, false
		}
		return *val, true
	case string:
		s := strings.TrimSpace(val)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	case int:
		return time.Unix(int64(val), 0).UTC(), true
	case int64:
		return time.Unix(val, 0).UTC(), true
	case float64:
		return time.Unix(int64(val), 0).UTC(), true
	default:
		return time.Time{}, false
	}
}

// asBool coerces booleans and their common string and numeric spellings.
func asBool(v any) (bool, bool) {
	switch val := v.(type) {
	case bool:
		return val, true
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "on", "yes", "1":
			return true, true
		case "false", "off", "no", "0":
			return false, true
		}
		return false, false
	case int:
		return val != 0, val == 0 || val == 1
	case int64:
		return val != 0, val == 0 || val == 1
	case float64:
		return val != 0, val == 0 || val == 1
	default:
		return false, false
	}
}

// asSlice normalizes operand arrays to []any. Typed slices are accepted
// since operands frequently arrive as []string from decoded documents.
func asSlice(v any) ([]any, bool) {
	switch val := v.(type) {
	case []any:
		return val, true
	case []string:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out, true
	case []int:
		out := make([]any, len(val))
		for i, n := range val {
			out[i] = n
		}
		return out, true
	case []float64:
		out := make([]any, len(val))
		for i, f := range val {
			out[i] = f
		}
		return out, true
	default:
		return nil, false
	}
}

// asPair extracts the [min, max] operand of between-style operators.
func asPair(v any) (any, any, bool) {
	items, ok := asSlice(v)
	if !ok || len(items) != 2 {
		return nil, nil, false
	}
	return items[0], items[1], true
}
