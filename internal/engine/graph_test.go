package engine

import (
	"testing"

	"github.com/geonotify/notify-backend/internal/models"
)

func TestAggregateDropsSentinelLabels(t *testing.T) {
	records := []Record{
		{"status": "Open"},
		{"status": ""},
		{"status": "   "},
		{"status": "Unknown"},
		{"status": "NULL"},
		{"status": "undefined"},
		{"status": nil},
		{"status": "Closed"},
	}
	got := Aggregate(records, "status", "", models.OpCount, 10)
	if len(got) != 2 {
		t.Fatalf("bucket count = %d, want 2: %v", len(got), got)
	}
	for _, d := range got {
		if d.Label != "Open" && d.Label != "Closed" {
			t.Fatalf("unexpected bucket %q", d.Label)
		}
	}
}

// Label values keep their casing: field-name lookup is case-insensitive but
// "Open" and "open" are distinct buckets, whitespace-trimmed only.
func TestAggregateLabelValuesAreCaseSensitive(t *testing.T) {
	records := []Record{
		{"status": "Open"},
		{"status": "open "},
		{"status": "Closed"},
	}
	got := Aggregate(records, "status", "", models.OpCount, 10)
	if len(got) != 3 {
		t.Fatalf("bucket count = %d, want 3 (Open/open/Closed distinct): %v", len(got), got)
	}
	counts := map[string]float64{}
	for _, d := range got {
		counts[d.Label] = d.Value
	}
	if counts["Open"] != 1 || counts["open"] != 1 {
		t.Fatalf("Open/open merged: %v", counts)
	}
}

func TestAggregateSortsDescendingAndTruncates(t *testing.T) {
	records := []Record{
		{"t": "a"}, {"t": "a"}, {"t": "a"},
		{"t": "b"}, {"t": "b"},
		{"t": "c"}, {"t": "c"}, {"t": "c"}, {"t": "c"},
		{"t": "d"},
		{"t": "e"}, {"t": "e"},
	}
	got := Aggregate(records, "t", "", models.OpCount, 3)
	if len(got) != 3 {
		t.Fatalf("length = %d, want exactly 3", len(got))
	}
	if got[0].Label != "c" || got[0].Value != 4 {
		t.Fatalf("top bucket = %+v, want c/4", got[0])
	}
	if got[1].Value < got[2].Value {
		t.Fatalf("not sorted descending: %v", got)
	}
}

func TestAggregateTiesKeepFirstEncounteredOrder(t *testing.T) {
	records := []Record{
		{"t": "b"},
		{"t": "a"},
	}
	got := Aggregate(records, "t", "", models.OpCount, 10)
	if got[0].Label != "b" || got[1].Label != "a" {
		t.Fatalf("tie order = %v, want first-encountered (b before a)", got)
	}
}

func TestAggregateSumAndMean(t *testing.T) {
	records := []Record{
		{"region": "North", "sales": float64(10)},
		{"region": "North", "sales": float64(30)},
		{"region": "South", "sales": "5"},
		{"region": "South", "sales": "junk"},
	}

	sums := Aggregate(records, "region", "sales", models.OpSum, 10)
	values := map[string]float64{}
	for _, d := range sums {
		values[d.Label] = d.Value
	}
	if values["North"] != 40 || values["South"] != 5 {
		t.Fatalf("sum buckets = %v", values)
	}

	means := Aggregate(records, "region", "sales", models.OpMean, 10)
	values = map[string]float64{}
	for _, d := range means {
		values[d.Label] = d.Value
	}
	if values["North"] != 20 || values["South"] != 5 {
		t.Fatalf("mean buckets = %v (non-numeric must not dilute the mean)", values)
	}
}

func TestAggregateCaseInsensitiveFieldNames(t *testing.T) {
	records := []Record{
		{"STATUS": "Open"},
		{"Status": "Open"},
	}
	got := Aggregate(records, "status", "", models.OpCount, 10)
	if len(got) != 1 || got[0].Value != 2 {
		t.Fatalf("field lookup not case-insensitive: %v", got)
	}
}

func TestAggregateDefaultsToCountWithoutDataField(t *testing.T) {
	records := []Record{
		{"t": "x", "v": float64(99)},
		{"t": "x", "v": float64(99)},
	}
	got := Aggregate(records, "t", "", models.OpSum, 10)
	if len(got) != 1 || got[0].Value != 2 {
		t.Fatalf("no data field should mean count: %v", got)
	}
}
