package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/geonotify/notify-backend/internal/models"
)

// RenderContext is the per-render data snapshot the compiler resolves
// placeholders against. Built fresh for every compile pass; never mutated
// by the compiler.
type RenderContext struct {
	Records     []Record
	Fields      []models.FieldMetadata
	RecordCount int // records included in this notification
	TotalCount  int // records matching on the remote layer

	// StatisticValues holds formatted values keyed by statistic id.
	StatisticValues map[string]string
	// GraphData holds aggregated series keyed by graph element id.
	GraphData map[string][]GraphDatum

	Branding       models.Branding
	Statistics     []models.Statistic
	IncludeCSV     bool
	DownloadURL    string
	MoreRecords    string
	DateRangeStart time.Time
	DateRangeEnd   time.Time
}

// Compile walks the ordered element list and produces the final email HTML
// document. Total and deterministic: the same (elements, theme, context)
// always yields byte-identical output, and degenerate data renders as
// textual notices because the result may be mailed with nobody watching.
func Compile(elements []models.VisualElement, theme models.Theme, ctx RenderContext) string {
	theme = MergeTheme(theme)

	var body strings.Builder
	for _, el := range elements {
		fragment := renderElement(el, theme, ctx)
		if fragment == "" {
			continue
		}
		body.WriteString(`<tr><td style="padding:8px 24px;">`)
		body.WriteString(fragment)
		body.WriteString(`</td></tr>`)
	}

	doc := documentShell(theme, body.String())
	return ApplyPlaceholders(doc, buildContext(elements, theme, ctx))
}

// ResolvePlaceholders substitutes a stored html document against a render
// context without re-walking elements, for templates with hand-edited html.
func ResolvePlaceholders(html string, elements []models.VisualElement, theme models.Theme, ctx RenderContext) string {
	theme = MergeTheme(theme)
	return ApplyPlaceholders(html, buildContext(elements, theme, ctx))
}

// buildContext assembles the full placeholder map: reserved vocabulary,
// theme tokens, statistic ids, and per-element derived keys.
func buildContext(elements []models.VisualElement, theme models.Theme, ctx RenderContext) map[string]string {
	out := map[string]string{
		"recordCount":        strconv.Itoa(ctx.RecordCount),
		"totalRecordCount":   strconv.Itoa(ctx.TotalCount),
		"organizationName":   ctx.Branding.OrganizationName,
		"notificationName":   ctx.Branding.NotificationName,
		"moreRecordsMessage": ctx.MoreRecords,
		"downloadUrl":        ctx.DownloadURL,
	}

	if !ctx.DateRangeStart.IsZero() {
		out["dateRangeStart"] = ctx.DateRangeStart.Format("Jan 2, 2006")
		out["dateRangeStartTime"] = ctx.DateRangeStart.Format("3:04 PM")
	} else {
		out["dateRangeStart"] = ""
		out["dateRangeStartTime"] = ""
	}
	if !ctx.DateRangeEnd.IsZero() {
		out["dateRangeEnd"] = ctx.DateRangeEnd.Format("Jan 2, 2006")
		out["dateRangeEndTime"] = ctx.DateRangeEnd.Format("3:04 PM")
	} else {
		out["dateRangeEnd"] = ""
		out["dateRangeEndTime"] = ""
	}

	for name, value := range themePlaceholders {
		out[name] = value(theme)
	}

	for id, value := range ctx.StatisticValues {
		if _, reserved := out[id]; reserved {
			// validation rejects these at save; never clobber at render
			continue
		}
		out[id] = value
	}

	out["dataTable"] = ""
	out["downloadButton"] = ""
	out["statisticsHtml"] = ""
	for _, el := range elements {
		switch el.Type {
		case models.ElementDataTable:
			out["dataTable"] = RenderDataTable(ctx.Records, ctx.Fields, el.Fields, el.MaxRows, theme)
		case models.ElementDownloadButton:
			out["downloadButton"] = renderDownloadButton(el, theme, ctx)
		case models.ElementStatistics:
			html := RenderStatisticsCards(selectStatistics(ctx.Statistics, el.StatisticIDs), ctx.StatisticValues, theme, CardOptions{
				ValueSize:          el.ValueSize,
				ValueAlignment:     el.ValueAlignment,
				ContainerWidth:     el.ContainerWidth,
				ContainerAlignment: el.ContainerAlignment,
			})
			out[StatisticsCardsKey(el)] = html
			out["statisticsHtml"] = html
		case models.ElementGraph:
			out[GraphKey(el)] = RenderChart(el.ChartType, ctx.GraphData[el.ID], theme, ChartOptions{
				Height:     el.Height,
				Title:      el.Title,
				ShowLegend: el.ShowLegend,
			})
		}
	}

	return out
}

func renderElement(el models.VisualElement, theme models.Theme, ctx RenderContext) string {
	switch el.Type {
	case models.ElementHeader:
		return renderHeading(el, theme, theme.HeaderFontSize)
	case models.ElementLogo:
		if ctx.Branding.LogoURL == "" {
			return ""
		}
		width := el.Width
		if width <= 0 {
			width = 160
		}
		return fmt.Sprintf(
			`<div style="text-align:%s;"><img src="%s" alt="%s" width="%d" style="display:inline-block;border:0;"/></div>`,
			alignmentOr(el.Alignment, "center"), ctx.Branding.LogoURL,
			escapeXML(ctx.Branding.OrganizationName), width)
	case models.ElementText:
		return fmt.Sprintf(
			`<div style="color:%s;font-family:%s;font-size:%s;text-align:%s;line-height:1.5;">%s</div>`,
			colorOr(el.Color, theme.TextColor), theme.FontFamily,
			sizeOr(el.Size, theme.FontSize), alignmentOr(el.Alignment, "left"), el.Text)
	case models.ElementStatistics:
		return "{{" + StatisticsCardsKey(el) + "}}"
	case models.ElementRecordCount:
		text := el.Text
		if text == "" {
			text = "This notification includes {{recordCount}} of {{totalRecordCount}} records."
		}
		return fmt.Sprintf(
			`<div style="color:%s;font-family:%s;font-size:%s;text-align:%s;">%s</div>`,
			theme.MutedTextColor, theme.FontFamily, theme.FontSize,
			alignmentOr(el.Alignment, "left"), text)
	case models.ElementDateRange:
		text := el.Text
		if text == "" {
			text = "{{dateRangeStart}} – {{dateRangeEnd}}"
		}
		return fmt.Sprintf(
			`<div style="color:%s;font-family:%s;font-size:%s;text-align:%s;">%s</div>`,
			theme.MutedTextColor, theme.FontFamily, theme.FontSize,
			alignmentOr(el.Alignment, "center"), text)
	case models.ElementDataTable:
		return "{{dataTable}}"
	case models.ElementDownloadButton:
		return renderDownloadButton(el, theme, ctx)
	case models.ElementMoreRecords:
		return "{{moreRecordsMessage}}"
	case models.ElementDivider:
		return fmt.Sprintf(`<hr style="border:none;border-top:1px solid %s;margin:0;"/>`,
			colorOr(el.Color, theme.BorderColor))
	case models.ElementSpacer:
		height := el.Height
		if height <= 0 {
			height = 16
		}
		return fmt.Sprintf(`<div style="height:%dpx;line-height:%dpx;">&nbsp;</div>`, height, height)
	case models.ElementIcon:
		return fmt.Sprintf(`<div style="text-align:%s;">%s</div>`,
			alignmentOr(el.Alignment, "center"),
			RenderIcon(el.Icon, el.Height, el.Color, theme))
	case models.ElementRow:
		return renderIconRow(el, theme)
	case models.ElementFooter:
		return fmt.Sprintf(
			`<div style="color:%s;font-family:%s;font-size:12px;text-align:%s;border-top:1px solid %s;padding-top:12px;">%s</div>`,
			theme.MutedTextColor, theme.FontFamily,
			alignmentOr(el.Alignment, "center"), theme.BorderColor, el.Text)
	case models.ElementGraph:
		return "{{" + GraphKey(el) + "}}"
	default:
		// forward compatible: unknown types are skipped, validation flags them
		return ""
	}
}

func renderHeading(el models.VisualElement, theme models.Theme, defaultSize string) string {
	return fmt.Sprintf(
		`<div style="color:%s;font-family:%s;font-size:%s;font-weight:bold;text-align:%s;">%s</div>`,
		colorOr(el.Color, theme.PrimaryColor), theme.FontFamily,
		sizeOr(el.Size, defaultSize), alignmentOr(el.Alignment, "left"), escapeXML(el.Text))
}

// renderDownloadButton renders active markup only when CSV attachment is
// enabled; a disabled button must not reference an empty download url.
func renderDownloadButton(el models.VisualElement, theme models.Theme, ctx RenderContext) string {
	if !ctx.IncludeCSV {
		return ""
	}
	label := el.Text
	if label == "" {
		label = "Download CSV"
	}
	return fmt.Sprintf(
		`<div style="text-align:%s;"><a href="{{downloadUrl}}" style="display:inline-block;background-color:%s;color:#ffffff;font-family:%s;font-size:%s;text-decoration:none;padding:10px 22px;border-radius:%s;">%s</a></div>`,
		alignmentOr(el.Alignment, "center"), theme.PrimaryColor, theme.FontFamily,
		theme.FontSize, theme.BorderRadius, escapeXML(label))
}

func renderIconRow(el models.VisualElement, theme models.Theme) string {
	if len(el.Icons) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(`<table role="presentation" width="100%" cellpadding="0" cellspacing="0"><tr>`)
	for _, spec := range el.Icons {
		sb.WriteString(`<td style="text-align:center;padding:4px;">`)
		sb.WriteString(RenderIcon(spec.Name, el.Height, el.Color, theme))
		if spec.Caption != "" {
			sb.WriteString(fmt.Sprintf(
				`<div style="color:%s;font-family:%s;font-size:12px;margin-top:4px;">%s</div>`,
				theme.MutedTextColor, theme.FontFamily, escapeXML(spec.Caption)))
		}
		sb.WriteString(`</td>`)
	}
	sb.WriteString(`</tr></table>`)
	return sb.String()
}

func selectStatistics(statistics []models.Statistic, ids []string) []models.Statistic {
	if len(ids) == 0 {
		return statistics
	}
	out := make([]models.Statistic, 0, len(ids))
	for _, id := range ids {
		for _, stat := range statistics {
			if stat.ID == id {
				out = append(out, stat)
				break
			}
		}
	}
	return out
}

func documentShell(theme models.Theme, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"/><meta name="viewport" content="width=device-width, initial-scale=1.0"/></head>
<body style="margin:0;padding:0;background-color:%s;">
<table role="presentation" width="100%%" cellpadding="0" cellspacing="0"><tr><td align="center" style="padding:24px 0;">
<table role="presentation" width="600" cellpadding="0" cellspacing="0" style="background-color:%s;border:1px solid %s;border-radius:%s;">
%s
</table>
</td></tr></table>
</body>
</html>`, theme.SecondaryColor, theme.BackgroundColor, theme.BorderColor, theme.BorderRadius, body)
}

func alignmentOr(alignment, fallback string) string {
	switch alignment {
	case "left", "center", "right":
		return alignment
	default:
		return fallback
	}
}

func colorOr(color, fallback string) string {
	if color != "" {
		return color
	}
	return fallback
}

func sizeOr(size, fallback string) string {
	if size != "" {
		return size
	}
	return fallback
}
