package engine

import (
	"sort"

	"github.com/geonotify/notify-backend/internal/models"
)

// Evaluate computes one aggregate over a record set client-side. Records are
// assumed already filtered; field lookup is case-insensitive. The result is
// nil when no usable values remain (rendered downstream as "-"), a float64
// for numeric operations, or the raw attribute value for first/last.
func Evaluate(records []Record, field, operation string) any {
	switch operation {
	case models.OpCount:
		n := 0
		for _, rec := range records {
			if v, ok := LookupField(rec, field); ok && !isEmptyValue(v) {
				n++
			}
		}
		return float64(n)
	case models.OpDistinct:
		seen := map[string]struct{}{}
		for _, rec := range records {
			if v, ok := LookupField(rec, field); ok && !isEmptyValue(v) {
				seen[stringify(v)] = struct{}{}
			}
		}
		return float64(len(seen))
	case models.OpSum:
		values := numericValues(records, field)
		if len(values) == 0 {
			return nil
		}
		return sum(values)
	case models.OpMean:
		values := numericValues(records, field)
		if len(values) == 0 {
			return nil
		}
		return sum(values) / float64(len(values))
	case models.OpMin:
		values := numericValues(records, field)
		if len(values) == 0 {
			return nil
		}
		min := values[0]
		for _, v := range values[1:] {
			if v < min {
				min = v
			}
		}
		return min
	case models.OpMax:
		values := numericValues(records, field)
		if len(values) == 0 {
			return nil
		}
		max := values[0]
		for _, v := range values[1:] {
			if v > max {
				max = v
			}
		}
		return max
	case models.OpMedian:
		return Median(numericValues(records, field))
	case models.OpFirst:
		for _, rec := range records {
			if v, ok := LookupField(rec, field); ok && !isEmptyValue(v) {
				return v
			}
		}
		return nil
	case models.OpLast:
		for i := len(records) - 1; i >= 0; i-- {
			if v, ok := LookupField(records[i], field); ok && !isEmptyValue(v) {
				return v
			}
		}
		return nil
	default:
		return nil
	}
}

// Median returns the standard median of a numeric sequence: the middle
// element for odd lengths, the mean of the two middle elements for even
// lengths, nil for empty input. The input slice is not modified.
func Median(values []float64) any {
	if len(values) == 0 {
		return nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// numericValues collects the numeric coercions of a field across records,
// skipping non-numeric and missing values.
func numericValues(records []Record, field string) []float64 {
	out := make([]float64, 0, len(records))
	for _, rec := range records {
		v, ok := LookupField(rec, field)
		if !ok {
			continue
		}
		if n, ok := TryParseNumeric(v); ok {
			out = append(out, n)
		}
	}
	return out
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
