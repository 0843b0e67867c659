package engine

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/geonotify/notify-backend/internal/models"
)

func testTheme() models.Theme {
	return DefaultTheme()
}

func TestRenderChartEmptyData(t *testing.T) {
	for _, ct := range []string{ChartBar, ChartLine, ChartPie} {
		got := RenderChart(ct, nil, testTheme(), ChartOptions{})
		if strings.Contains(got, "<svg") {
			t.Fatalf("%s chart with no data produced an SVG: %q", ct, got)
		}
		if !strings.Contains(got, "No data available") {
			t.Fatalf("%s chart with no data missing notice: %q", ct, got)
		}
	}
}

func TestRenderChartAllZeroValues(t *testing.T) {
	data := []GraphDatum{{Label: "A", Value: 0}, {Label: "B", Value: 0}}
	got := RenderChart(ChartBar, data, testTheme(), ChartOptions{})
	if strings.Contains(got, "<svg") {
		t.Fatalf("all-zero chart produced an SVG: %q", got)
	}
	if !strings.Contains(got, "all zero") {
		t.Fatalf("all-zero chart missing warning: %q", got)
	}
}

func TestRenderPieChartZeroTotal(t *testing.T) {
	data := []GraphDatum{{Label: "A", Value: 0}}
	got := RenderChart(ChartPie, data, testTheme(), ChartOptions{})
	if strings.Contains(got, "NaN") || strings.Contains(got, "Inf") {
		t.Fatalf("pie with zero total leaked a division artifact: %q", got)
	}
	// all-zero input is caught before the pie-specific zero-total notice
	if strings.Contains(got, "<svg") {
		t.Fatalf("pie with zero total produced an SVG: %q", got)
	}
}

func TestRenderPieChartNegativeTotal(t *testing.T) {
	data := []GraphDatum{{Label: "A", Value: -3}, {Label: "B", Value: -1}}
	got := RenderChart(ChartPie, data, testTheme(), ChartOptions{})
	if !strings.Contains(got, "No data available for pie chart") {
		t.Fatalf("pie with negative total missing notice: %q", got)
	}
}

func TestRenderBarChart(t *testing.T) {
	data := []GraphDatum{
		{Label: "Open", Value: 12},
		{Label: "Closed", Value: 4},
	}
	got := RenderChart(ChartBar, data, testTheme(), ChartOptions{Height: 260})

	if !strings.HasPrefix(got, "<svg") || !strings.HasSuffix(got, "</svg>") {
		t.Fatalf("bar chart is not a self-contained SVG: %q", got)
	}
	if strings.Count(got, "<rect") < 3 { // background + one per bar
		t.Fatalf("bar chart missing bars: %q", got)
	}
	if !strings.Contains(got, "Open") || !strings.Contains(got, "Closed") {
		t.Fatalf("bar chart missing category labels")
	}
	// gridline labels at 0 and max
	if !strings.Contains(got, ">12<") || !strings.Contains(got, ">0<") {
		t.Fatalf("bar chart missing axis value labels: %q", got)
	}
	if strings.Contains(got, "http") && !strings.Contains(got, "http://www.w3.org/2000/svg") {
		t.Fatalf("bar chart references an external resource")
	}
}

func TestRenderLineChart(t *testing.T) {
	data := []GraphDatum{
		{Label: "Mon", Value: 1},
		{Label: "Tue", Value: 3},
		{Label: "Wed", Value: 2},
	}
	got := RenderChart(ChartLine, data, testTheme(), ChartOptions{})
	if !strings.Contains(got, "<polyline") {
		t.Fatalf("line chart missing polyline: %q", got)
	}
	if strings.Count(got, "<circle") != 3 {
		t.Fatalf("line chart should mark each point")
	}
}

func TestRenderPieChart(t *testing.T) {
	data := []GraphDatum{
		{Label: "A", Value: 60},
		{Label: "B", Value: 30},
		{Label: "C", Value: 10},
		{Label: "Sliver", Value: 2},
	}
	got := RenderChart(ChartPie, data, testTheme(), ChartOptions{ShowLegend: true})

	if strings.Count(got, "<path") != 4 {
		t.Fatalf("pie should have one slice per datum, got %d", strings.Count(got, "<path"))
	}
	// 2/102 is under the 5% share floor; its percentage label is suppressed
	if strings.Contains(got, ">2%<") {
		t.Fatalf("sliver percentage label should be suppressed: %q", got)
	}
	if !strings.Contains(got, ">59%<") && !strings.Contains(got, ">58%<") {
		t.Fatalf("majority slice percentage label missing: %q", got)
	}
	if !strings.Contains(got, "Sliver") {
		t.Fatalf("legend entry missing")
	}
}

func TestRenderChartDeterministic(t *testing.T) {
	data := []GraphDatum{{Label: "X", Value: 5}, {Label: "Y", Value: 3}}
	a := RenderChart(ChartBar, data, testTheme(), ChartOptions{})
	b := RenderChart(ChartBar, data, testTheme(), ChartOptions{})
	if a != b {
		t.Fatalf("chart rendering is not deterministic")
	}
}

func TestRenderChartEscapesLabels(t *testing.T) {
	data := []GraphDatum{{Label: `<script>&"x"</script>`, Value: 1}}
	got := RenderChart(ChartBar, data, testTheme(), ChartOptions{})
	if strings.Contains(got, "<script>") {
		t.Fatalf("label not escaped: %q", got)
	}
}

func TestWrapLabel(t *testing.T) {
	if got := wrapLabel("short", 10); len(got) != 1 || got[0] != "short" {
		t.Fatalf("short label wrapped: %v", got)
	}
	got := wrapLabel("Public Works Department", 10)
	if len(got) != 2 {
		t.Fatalf("long label should wrap to two lines: %v", got)
	}
	if got[0] != "Public" {
		t.Fatalf("wrap should break on the space: %v", got)
	}
}

func TestWrapLabelMultibyte(t *testing.T) {
	for _, label := range []string{
		"Éducation spécialisée régionale",
		"日本語ラベルのとても長い名前",
	} {
		for _, line := range wrapLabel(label, labelWrapChars) {
			if !utf8.ValidString(line) {
				t.Fatalf("wrapLabel(%q) produced invalid UTF-8 line %q", label, line)
			}
		}
	}

	got := wrapLabel("日本語ラベルのとても長い名前", 10)
	if len(got) != 2 {
		t.Fatalf("long multibyte label should wrap to two lines: %v", got)
	}
	if r := []rune(got[0]); len(r) != 10 {
		t.Fatalf("first line should hold 10 runes, got %d: %q", len(r), got[0])
	}
}

func TestTruncateLabelMultibyte(t *testing.T) {
	got := truncateLabel("日本語ラベルのとても長い名前", 12)
	if !utf8.ValidString(got) {
		t.Fatalf("truncateLabel produced invalid UTF-8: %q", got)
	}
	if r := []rune(got); len(r) != 12 || r[11] != '…' {
		t.Fatalf("truncated label should be 11 runes plus ellipsis: %q", got)
	}
	if got := truncateLabel("Éole", 12); got != "Éole" {
		t.Fatalf("label within the limit changed: %q", got)
	}
}

func TestRenderChartMultibyteLabels(t *testing.T) {
	data := []GraphDatum{
		{Label: "Éducation spécialisée régionale", Value: 12},
		{Label: "日本語ラベルのとても長い名前", Value: 4},
	}
	for _, ct := range []string{ChartBar, ChartLine, ChartPie} {
		got := RenderChart(ct, data, testTheme(), ChartOptions{ShowLegend: true})
		if !utf8.ValidString(got) {
			t.Fatalf("%s chart output is not valid UTF-8: %q", ct, got)
		}
	}
}
