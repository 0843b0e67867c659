package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/geonotify/notify-backend/internal/models"
)

// Chart types supported by graph elements.
const (
	ChartBar  = "bar"
	ChartLine = "line"
	ChartPie  = "pie"
)

// ChartOptions carries per-element rendering knobs.
type ChartOptions struct {
	Height     int    // drawing height in px; default 260
	Title      string
	ShowLegend bool // pie only
}

const (
	chartWidth       = 400
	chartPadLeft     = 48
	chartPadRight    = 16
	chartPadTop      = 24
	chartPadBottom   = 56
	labelWrapChars   = 10
	pieMinLabelShare = 0.05
	legendPerRow     = 4
)

// supplemental palette used after the theme's primary and accent colors.
var chartPalette = []string{
	"#4C78A8", "#F58518", "#54A24B", "#E45756",
	"#72B7B2", "#EECA3B", "#B279A2", "#9D755D",
}

// RenderChart produces a complete, self-contained inline SVG for the data
// series. Email clients fetch nothing and run nothing, so all styling is
// inline and degenerate inputs render as explicit textual notices instead
// of broken markup.
func RenderChart(chartType string, data []GraphDatum, theme models.Theme, opts ChartOptions) string {
	if len(data) == 0 {
		return chartNotice(theme, "No data available for this chart")
	}
	allZero := true
	for _, d := range data {
		if d.Value != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return chartNotice(theme, "Chart values are all zero; check the selected field")
	}

	if opts.Height <= 0 {
		opts.Height = 260
	}

	switch chartType {
	case ChartLine:
		return renderLineChart(data, theme, opts)
	case ChartPie:
		return renderPieChart(data, theme, opts)
	default:
		return renderBarChart(data, theme, opts)
	}
}

// chartNotice is the textual placeholder emitted for degenerate input.
func chartNotice(theme models.Theme, message string) string {
	return fmt.Sprintf(
		`<div style="padding:24px;text-align:center;color:%s;font-family:%s;font-size:13px;border:1px dashed %s;border-radius:%s;">%s</div>`,
		theme.MutedTextColor, theme.FontFamily, theme.BorderColor, theme.BorderRadius, escapeXML(message))
}

func chartColor(theme models.Theme, index int) string {
	colors := []string{theme.PrimaryColor, theme.AccentColor}
	colors = append(colors, chartPalette...)
	return colors[index%len(colors)]
}

func renderBarChart(data []GraphDatum, theme models.Theme, opts ChartOptions) string {
	height := opts.Height
	plotW := chartWidth - chartPadLeft - chartPadRight
	plotH := height - chartPadTop - chartPadBottom
	maxVal := maxValue(data)

	var sb strings.Builder
	sb.WriteString(svgOpen(chartWidth, height, theme))
	writeChartTitle(&sb, opts.Title, theme)
	writeGridlines(&sb, maxVal, plotW, plotH, theme)

	n := len(data)
	slot := float64(plotW) / float64(n)
	barW := slot * 0.6

	for i, d := range data {
		x := float64(chartPadLeft) + slot*float64(i) + (slot-barW)/2
		h := 0.0
		if maxVal > 0 && d.Value > 0 {
			h = float64(plotH) * d.Value / maxVal
		}
		y := float64(chartPadTop+plotH) - h
		sb.WriteString(fmt.Sprintf(
			`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" rx="2"/>`,
			x, y, barW, h, chartColor(theme, i)))

		// value label above the bar
		sb.WriteString(fmt.Sprintf(
			`<text x="%.1f" y="%.1f" text-anchor="middle" font-size="10" fill="%s" font-family="%s">%s</text>`,
			x+barW/2, y-4, theme.TextColor, theme.FontFamily, formatAxisValue(d.Value)))

		writeCategoryLabel(&sb, d.Label, x+barW/2, float64(chartPadTop+plotH)+14, theme)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func renderLineChart(data []GraphDatum, theme models.Theme, opts ChartOptions) string {
	height := opts.Height
	plotW := chartWidth - chartPadLeft - chartPadRight
	plotH := height - chartPadTop - chartPadBottom
	maxVal := maxValue(data)

	var sb strings.Builder
	sb.WriteString(svgOpen(chartWidth, height, theme))
	writeChartTitle(&sb, opts.Title, theme)
	writeGridlines(&sb, maxVal, plotW, plotH, theme)

	n := len(data)
	step := float64(plotW)
	if n > 1 {
		step = float64(plotW) / float64(n-1)
	}

	type point struct{ x, y float64 }
	points := make([]point, n)
	for i, d := range data {
		x := float64(chartPadLeft) + step*float64(i)
		if n == 1 {
			x = float64(chartPadLeft) + float64(plotW)/2
		}
		ratio := 0.0
		if maxVal > 0 && d.Value > 0 {
			ratio = d.Value / maxVal
		}
		points[i] = point{x: x, y: float64(chartPadTop+plotH) - float64(plotH)*ratio}
	}

	if n > 1 {
		coords := make([]string, n)
		for i, p := range points {
			coords[i] = fmt.Sprintf("%.1f,%.1f", p.x, p.y)
		}
		sb.WriteString(fmt.Sprintf(
			`<polyline points="%s" fill="none" stroke="%s" stroke-width="2"/>`,
			strings.Join(coords, " "), theme.PrimaryColor))
	}

	for i, p := range points {
		sb.WriteString(fmt.Sprintf(
			`<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>`,
			p.x, p.y, theme.PrimaryColor))
		sb.WriteString(fmt.Sprintf(
			`<text x="%.1f" y="%.1f" text-anchor="middle" font-size="10" fill="%s" font-family="%s">%s</text>`,
			p.x, p.y-7, theme.TextColor, theme.FontFamily, formatAxisValue(data[i].Value)))
		writeCategoryLabel(&sb, data[i].Label, p.x, float64(chartPadTop+plotH)+14, theme)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func renderPieChart(data []GraphDatum, theme models.Theme, opts ChartOptions) string {
	var total float64
	for _, d := range data {
		if d.Value > 0 {
			total += d.Value
		}
	}
	if total <= 0 {
		// a pie cannot express zero-or-negative totals
		return chartNotice(theme, "No data available for pie chart")
	}

	height := opts.Height
	legendRows := 0
	if opts.ShowLegend {
		legendRows = (len(data) + legendPerRow - 1) / legendPerRow
		height += 18*legendRows + 8
	}

	cx := float64(chartWidth) / 2
	cy := float64(opts.Height) / 2
	radius := math.Min(cx, cy) - 24

	var sb strings.Builder
	sb.WriteString(svgOpen(chartWidth, height, theme))
	writeChartTitle(&sb, opts.Title, theme)

	// start at 12 o'clock, sweep clockwise
	angle := -math.Pi / 2
	for i, d := range data {
		if d.Value <= 0 {
			continue
		}
		share := d.Value / total
		sweep := share * 2 * math.Pi
		if len(data) == 1 || share >= 0.9999 {
			sb.WriteString(fmt.Sprintf(
				`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`,
				cx, cy, radius, chartColor(theme, i)))
		} else {
			x1 := cx + radius*math.Cos(angle)
			y1 := cy + radius*math.Sin(angle)
			x2 := cx + radius*math.Cos(angle+sweep)
			y2 := cy + radius*math.Sin(angle+sweep)
			largeArc := 0
			if sweep > math.Pi {
				largeArc = 1
			}
			sb.WriteString(fmt.Sprintf(
				`<path d="M %.1f %.1f L %.1f %.1f A %.1f %.1f 0 %d 1 %.1f %.1f Z" fill="%s"/>`,
				cx, cy, x1, y1, radius, radius, largeArc, x2, y2, chartColor(theme, i)))
		}

		// percentage label, suppressed for slivers that would overlap
		if share >= pieMinLabelShare {
			mid := angle + sweep/2
			lx := cx + radius*0.62*math.Cos(mid)
			ly := cy + radius*0.62*math.Sin(mid)
			sb.WriteString(fmt.Sprintf(
				`<text x="%.1f" y="%.1f" text-anchor="middle" font-size="11" fill="#ffffff" font-family="%s">%.0f%%</text>`,
				lx, ly, theme.FontFamily, share*100))
		}
		angle += sweep
	}

	if opts.ShowLegend {
		writePieLegend(&sb, data, theme, float64(opts.Height)+4)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func writePieLegend(sb *strings.Builder, data []GraphDatum, theme models.Theme, top float64) {
	cellW := float64(chartWidth) / legendPerRow
	for i, d := range data {
		row := i / legendPerRow
		col := i % legendPerRow
		x := cellW*float64(col) + 8
		y := top + 18*float64(row)
		sb.WriteString(fmt.Sprintf(
			`<rect x="%.1f" y="%.1f" width="10" height="10" fill="%s" rx="2"/>`,
			x, y, chartColor(theme, i)))
		sb.WriteString(fmt.Sprintf(
			`<text x="%.1f" y="%.1f" font-size="10" fill="%s" font-family="%s">%s</text>`,
			x+14, y+9, theme.TextColor, theme.FontFamily, escapeXML(truncateLabel(d.Label, 12))))
	}
}

func svgOpen(width, height int, theme models.Theme) string {
	return fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d"><rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		width, height, width, height, width, height, theme.BackgroundColor)
}

func writeChartTitle(sb *strings.Builder, title string, theme models.Theme) {
	if title == "" {
		return
	}
	sb.WriteString(fmt.Sprintf(
		`<text x="%d" y="16" text-anchor="middle" font-size="13" font-weight="bold" fill="%s" font-family="%s">%s</text>`,
		chartWidth/2, theme.TextColor, theme.FontFamily, escapeXML(title)))
}

// writeGridlines draws horizontal gridlines with value labels at 0/25/50/75/
// 100% of the maximum value.
func writeGridlines(sb *strings.Builder, maxVal float64, plotW, plotH int, theme models.Theme) {
	for i := 0; i <= 4; i++ {
		frac := float64(i) / 4
		y := float64(chartPadTop+plotH) - float64(plotH)*frac
		sb.WriteString(fmt.Sprintf(
			`<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="%s" stroke-width="1"/>`,
			chartPadLeft, y, chartPadLeft+plotW, y, theme.BorderColor))
		sb.WriteString(fmt.Sprintf(
			`<text x="%d" y="%.1f" text-anchor="end" font-size="9" fill="%s" font-family="%s">%s</text>`,
			chartPadLeft-6, y+3, theme.MutedTextColor, theme.FontFamily, formatAxisValue(maxVal*frac)))
	}
}

// writeCategoryLabel emits a wrapped, rotated x-axis label so long category
// names do not collide.
func writeCategoryLabel(sb *strings.Builder, label string, x, y float64, theme models.Theme) {
	lines := wrapLabel(label, labelWrapChars)
	sb.WriteString(fmt.Sprintf(
		`<text transform="rotate(-35 %.1f %.1f)" x="%.1f" y="%.1f" text-anchor="end" font-size="9" fill="%s" font-family="%s">`,
		x, y, x, y, theme.MutedTextColor, theme.FontFamily))
	for i, line := range lines {
		dy := "0"
		if i > 0 {
			dy = "10"
		}
		sb.WriteString(fmt.Sprintf(`<tspan x="%.1f" dy="%s">%s</tspan>`, x, dy, escapeXML(line)))
	}
	sb.WriteString(`</text>`)
}

// wrapLabel splits a label into lines of at most width characters, breaking
// on spaces where possible. At most two lines; overflow is ellipsized.
// Widths count runes, not bytes, so multibyte labels never split mid-rune.
func wrapLabel(label string, width int) []string {
	label = strings.TrimSpace(label)
	runes := []rune(label)
	if len(runes) <= width {
		return []string{label}
	}

	var first, rest string
	// a space is a single byte, so the byte index is rune-safe to slice on
	if idx := strings.LastIndex(string(runes[:width+1]), " "); idx > 0 {
		first, rest = label[:idx], strings.TrimSpace(label[idx+1:])
	} else {
		first, rest = string(runes[:width]), string(runes[width:])
	}
	return []string{first, truncateLabel(rest, width)}
}

func truncateLabel(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}

// formatAxisValue renders a chart value label compactly: integers without
// decimals, large values with thousands separators.
func formatAxisValue(v float64) string {
	if v == math.Trunc(v) {
		return groupThousands(strconv.FormatFloat(v, 'f', 0, 64))
	}
	return groupThousands(strconv.FormatFloat(v, 'f', 1, 64))
}

func maxValue(data []GraphDatum) float64 {
	var max float64
	for _, d := range data {
		if d.Value > max {
			max = d.Value
		}
	}
	return max
}

func escapeXML(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	return r.Replace(s)
}
