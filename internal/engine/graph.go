package engine

import (
	"sort"
	"strings"

	"github.com/geonotify/notify-backend/internal/models"
)

// GraphDatum is one labelled bucket of an aggregated graph series.
type GraphDatum struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// DefaultMaxGraphItems bounds a graph series when the element does not
// configure its own limit.
const DefaultMaxGraphItems = 8

// sentinel labels that mark missing data. Records carrying them are dropped
// rather than bucketed so a chart is never dominated by an "Unknown" slice.
var sentinelLabels = map[string]struct{}{
	"":          {},
	"unknown":   {},
	"null":      {},
	"undefined": {},
}

// Aggregate groups records by labelField and reduces dataField with the
// given operation (sum, mean, or count; count when dataField is empty).
// Field name lookup is case-insensitive but label values keep their casing:
// "Open" and "open" are distinct buckets, trimmed of whitespace only.
// Output is sorted descending by value, ties kept in first-encountered
// order, and truncated to maxItems.
func Aggregate(records []Record, labelField, dataField, operation string, maxItems int) []GraphDatum {
	if maxItems <= 0 {
		maxItems = DefaultMaxGraphItems
	}
	if dataField == "" {
		operation = models.OpCount
	}

	type bucket struct {
		label string
		sum   float64
		count float64
		order int
	}
	buckets := map[string]*bucket{}
	order := []string{}

	for _, rec := range records {
		raw, ok := LookupField(rec, labelField)
		if !ok {
			continue
		}
		label := strings.TrimSpace(stringify(raw))
		if _, drop := sentinelLabels[strings.ToLower(label)]; drop {
			continue
		}

		b, ok := buckets[label]
		if !ok {
			b = &bucket{label: label, order: len(order)}
			buckets[label] = b
			order = append(order, label)
		}

		if operation == models.OpCount {
			b.count++
			continue
		}
		if v, ok := LookupField(rec, dataField); ok {
			if n, ok := TryParseNumeric(v); ok {
				b.sum += n
				b.count++
			}
		}
	}

	out := make([]GraphDatum, 0, len(buckets))
	for _, label := range order {
		b := buckets[label]
		var value float64
		switch operation {
		case models.OpSum:
			value = b.sum
		case models.OpMean:
			if b.count > 0 {
				value = b.sum / b.count
			}
		default: // count
			value = b.count
		}
		if operation != models.OpCount && b.count == 0 {
			// label present but no numeric data; skip rather than chart a zero
			continue
		}
		out = append(out, GraphDatum{Label: b.label, Value: value})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value > out[j].Value
	})
	if len(out) > maxItems {
		out = out[:maxItems]
	}
	return out
}

// NormalizeGraph applies the bucket rules to pre-aggregated rows, for series
// computed remotely: sentinel labels dropped, sorted descending with input
// order preserved on ties, truncated to maxItems.
func NormalizeGraph(data []GraphDatum, maxItems int) []GraphDatum {
	if maxItems <= 0 {
		maxItems = DefaultMaxGraphItems
	}
	out := make([]GraphDatum, 0, len(data))
	for _, d := range data {
		label := strings.TrimSpace(d.Label)
		if _, drop := sentinelLabels[strings.ToLower(label)]; drop {
			continue
		}
		out = append(out, GraphDatum{Label: label, Value: d.Value})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value > out[j].Value
	})
	if len(out) > maxItems {
		out = out[:maxItems]
	}
	return out
}
