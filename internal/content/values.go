package content

import (
	"strings"
	"time"

	"github.com/spf13/cast"
)

// ParseTime coerces a front matter value into a time. Strings use the
// layouts spf13/cast understands, which cover YAML timestamps and the
// "2006-01-02 15:04:05 -0700" form Jekyll sites commonly use.
func ParseTime(v any) (time.Time, bool) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return val, !val.IsZero()
	case string:
		if strings.TrimSpace(val) == "" {
			return time.Time{}, false
		}
		t, err := cast.ToTimeE(strings.TrimSpace(val))
		return t, err == nil
	default:
		t, err := cast.ToTimeE(val)
		return t, err == nil
	}
}

// Truthy interprets YAML-ish flags. Strings accept 1/true/yes/y/on and
// 0/false/no/n/off case-insensitively; an empty string is false and any
// other non-empty string is true.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "", "0", "false", "no", "n", "off":
			return false
		default:
			return true
		}
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return cast.ToFloat64(val) != 0
	default:
		return true
	}
}

// CloneMap deep-copies nested maps and slices of a front matter bag.
func CloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return CloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), val...)
	default:
		return v
	}
}
