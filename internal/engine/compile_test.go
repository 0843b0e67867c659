package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/geonotify/notify-backend/internal/models"
)

func sampleContext() RenderContext {
	return RenderContext{
		Records: []Record{
			{"STATUS": "Open", "AMOUNT": float64(100)},
			{"STATUS": "Closed", "AMOUNT": float64(250.5)},
		},
		Fields: []models.FieldMetadata{
			{Name: "STATUS", Type: models.FieldTypeString, Alias: "Status"},
			{Name: "AMOUNT", Type: models.FieldTypeDouble, Alias: "Amount"},
		},
		RecordCount: 2,
		TotalCount:  40,
		Statistics: []models.Statistic{
			{ID: "total", Label: "Total", Field: "AMOUNT", Operation: models.OpSum},
		},
		StatisticValues: map[string]string{"total": "$350.50"},
		GraphData: map[string][]GraphDatum{
			"g1": {{Label: "Open", Value: 1}, {Label: "Closed", Value: 1}},
		},
		Branding:       models.Branding{OrganizationName: "City of Rivermouth", NotificationName: "Weekly Permits"},
		IncludeCSV:     true,
		DownloadURL:    "https://example.com/export.csv",
		MoreRecords:    "38 more records are available online.",
		DateRangeStart: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
		DateRangeEnd:   time.Date(2024, 3, 8, 17, 0, 0, 0, time.UTC),
	}
}

func sampleElements() []models.VisualElement {
	return []models.VisualElement{
		{ID: "h1", Type: models.ElementHeader, Text: "Weekly Permits"},
		{ID: "s1", Type: models.ElementStatistics, StatisticIDs: []string{"total"}, ValueSize: "24px"},
		{ID: "rc", Type: models.ElementRecordCount},
		{ID: "dt", Type: models.ElementDataTable, Fields: []string{"STATUS", "AMOUNT"}},
		{ID: "g1", Type: models.ElementGraph, ChartType: ChartBar, LabelField: "STATUS"},
		{ID: "dl", Type: models.ElementDownloadButton},
		{ID: "mr", Type: models.ElementMoreRecords},
		{ID: "ft", Type: models.ElementFooter, Text: "Sent by {{organizationName}}"},
	}
}

func TestCompileResolvesEverything(t *testing.T) {
	got := Compile(sampleElements(), models.Theme{}, sampleContext())

	for _, want := range []string{
		"Weekly Permits",
		"$350.50",
		"includes 2 of 40 records",
		"Status", // table header uses alias
		"250.50", // formatted table cell
		"<svg",   // graph
		"https://example.com/export.csv",
		"38 more records",
		"City of Rivermouth",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("compiled html missing %q", want)
		}
	}
	if strings.Contains(got, "{{") {
		idx := strings.Index(got, "{{")
		t.Fatalf("compiled html left unresolved token near %q", got[idx:min(idx+40, len(got))])
	}
}

func TestCompileIdempotent(t *testing.T) {
	a := Compile(sampleElements(), models.Theme{}, sampleContext())
	b := Compile(sampleElements(), models.Theme{}, sampleContext())
	if a != b {
		t.Fatalf("compiling identical input twice is not byte-identical")
	}
}

func TestCompilePreservesElementOrder(t *testing.T) {
	got := Compile(sampleElements(), models.Theme{}, sampleContext())
	header := strings.Index(got, "Weekly Permits")
	footer := strings.Index(got, "City of Rivermouth")
	if header == -1 || footer == -1 || header > footer {
		t.Fatalf("element order not preserved in output")
	}
}

func TestCompileCSVDisabledOmitsDownloadLink(t *testing.T) {
	ctx := sampleContext()
	ctx.IncludeCSV = false
	got := Compile(sampleElements(), models.Theme{}, ctx)
	if strings.Contains(got, "export.csv") || strings.Contains(got, "Download CSV") {
		t.Fatalf("download markup rendered with includeCSV=false")
	}
}

func TestCompileSkipsUnknownElementTypes(t *testing.T) {
	elements := append(sampleElements(), models.VisualElement{ID: "x", Type: "hologram", Text: "should not appear"})
	got := Compile(elements, models.Theme{}, sampleContext())
	if strings.Contains(got, "should not appear") {
		t.Fatalf("unknown element type was rendered")
	}
}

func TestCompileAppliesThemeTokens(t *testing.T) {
	theme := models.Theme{PrimaryColor: "#ff0055"}
	got := Compile(sampleElements(), theme, sampleContext())
	if !strings.Contains(got, "#ff0055") {
		t.Fatalf("configured theme color not applied")
	}
	// unset tokens fall back to defaults, never empty
	if strings.Contains(got, `color:;`) || strings.Contains(got, `solid ;`) {
		t.Fatalf("unmerged empty theme token leaked into output")
	}
}

func TestCompileStatisticNeverClobbersReservedKey(t *testing.T) {
	ctx := sampleContext()
	// a malicious or buggy evaluated-value map must not override recordCount
	ctx.StatisticValues["recordCount"] = "999999"
	got := Compile(sampleElements(), models.Theme{}, ctx)
	if strings.Contains(got, "999999") {
		t.Fatalf("statistic value overrode a reserved placeholder")
	}
}

func TestCompileTwoStatisticsElementsResolveIndependently(t *testing.T) {
	elements := []models.VisualElement{
		{ID: "s1", Type: models.ElementStatistics, ValueSize: "24px"},
		{ID: "s2", Type: models.ElementStatistics, ValueSize: "32px"},
	}
	got := Compile(elements, models.Theme{}, sampleContext())
	if !strings.Contains(got, "font-size:24px") || !strings.Contains(got, "font-size:32px") {
		t.Fatalf("statistics elements did not render independently: %q", got)
	}
}

func TestResolvePlaceholdersOnStoredHTML(t *testing.T) {
	html := "<p>{{organizationName}}: {{recordCount}} records, total {{total}}</p>"
	got := ResolvePlaceholders(html, nil, models.Theme{}, sampleContext())
	want := "<p>City of Rivermouth: 2 records, total $350.50</p>"
	if got != want {
		t.Fatalf("stored html resolution = %q, want %q", got, want)
	}
}

func TestRenderIconFallback(t *testing.T) {
	known := RenderIcon("bell", 24, "", testTheme())
	unknown := RenderIcon("no-such-icon", 24, "", testTheme())
	if !strings.Contains(known, "<svg") || !strings.Contains(unknown, "<svg") {
		t.Fatalf("icons must render as inline svg")
	}
	if known == unknown {
		t.Fatalf("unknown icon should fall back to the default glyph, not the requested one")
	}
}
