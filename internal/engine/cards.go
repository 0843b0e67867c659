package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/geonotify/notify-backend/internal/models"
)

// CardOptions controls statistics card layout per element.
type CardOptions struct {
	ValueSize          string // css font size for the value, e.g. "28px"
	ValueAlignment     string // left|center|right
	ContainerWidth     string // e.g. "100%" or "480px"
	ContainerAlignment string // left|center|right
}

// RenderStatisticsCards renders evaluated statistics as a single-row card
// grid: label above value, one cell per statistic. An empty statistic list
// renders as an empty string; the caller decides placeholder messaging.
// Values come pre-formatted from the evaluator via values[statistic id].
func RenderStatisticsCards(statistics []models.Statistic, values map[string]string, theme models.Theme, opts CardOptions) string {
	if len(statistics) == 0 {
		return ""
	}

	valueSize := opts.ValueSize
	if valueSize == "" {
		valueSize = "24px"
	}
	valueAlign := opts.ValueAlignment
	if valueAlign == "" {
		valueAlign = "center"
	}
	width := opts.ContainerWidth
	if width == "" {
		width = "100%"
	}
	containerAlign := opts.ContainerAlignment
	if containerAlign == "" {
		containerAlign = "center"
	}

	labelSize := labelFontSize(valueSize)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(
		`<table role="presentation" width="%s" cellpadding="0" cellspacing="0" style="border-collapse:separate;border-spacing:8px 0;margin:%s;"><tr>`,
		width, tableMargin(containerAlign)))

	for _, stat := range statistics {
		value, ok := values[stat.ID]
		if !ok || value == "" {
			value = "-"
		}
		sb.WriteString(fmt.Sprintf(
			`<td style="background-color:%s;border:1px solid %s;border-radius:%s;padding:14px 10px;text-align:%s;vertical-align:top;">`,
			theme.BackgroundColor, theme.BorderColor, theme.BorderRadius, valueAlign))
		sb.WriteString(fmt.Sprintf(
			`<div style="color:%s;font-family:%s;font-size:%s;text-transform:uppercase;letter-spacing:0.4px;">%s</div>`,
			theme.MutedTextColor, theme.FontFamily, labelSize, escapeXML(stat.Label)))
		sb.WriteString(fmt.Sprintf(
			`<div style="color:%s;font-family:%s;font-size:%s;font-weight:bold;margin-top:4px;">%s</div>`,
			theme.PrimaryColor, theme.FontFamily, valueSize, escapeXML(value)))
		sb.WriteString(`</td>`)
	}

	sb.WriteString(`</tr></table>`)
	return sb.String()
}

// labelFontSize derives the label size from the value size (~45%, floored at
// 9px) so label/value proportions survive any configured scale.
func labelFontSize(valueSize string) string {
	px, err := strconv.Atoi(strings.TrimSuffix(valueSize, "px"))
	if err != nil || px <= 0 {
		return "11px"
	}
	label := int(float64(px) * 0.45)
	if label < 9 {
		label = 9
	}
	return strconv.Itoa(label) + "px"
}

func tableMargin(alignment string) string {
	switch alignment {
	case "left":
		return "0 auto 0 0"
	case "right":
		return "0 0 0 auto"
	default:
		return "0 auto"
	}
}
