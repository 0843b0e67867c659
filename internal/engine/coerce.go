package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is one remote feature's attribute map. Values arrive as whatever
// the JSON decoder produced: string, float64, bool, or nil.
type Record map[string]any

// LookupField resolves a field on a record case-insensitively: exact match
// first, then a case-folded scan. The remote proxy is not consistent about
// attribute-name casing between metadata and query responses.
func LookupField(rec Record, field string) (any, bool) {
	if v, ok := rec[field]; ok {
		return v, true
	}
	for k, v := range rec {
		if strings.EqualFold(k, field) {
			return v, true
		}
	}
	return nil, false
}

// TryParseNumeric is the single numeric-coercion point for statistics and
// graph aggregation. Strings are trimmed and may carry thousands separators;
// empty or non-numeric input reports false.
func TryParseNumeric(value any) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case bool:
		return 0, false
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		s = strings.ReplaceAll(s, ",", "")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// stringify renders any raw attribute value as display text without
// scientific notation for numbers.
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
