package engine

import (
	"fmt"
	"strings"

	"github.com/geonotify/notify-backend/internal/models"
)

// DefaultTableRows bounds the datatable when an element does not configure
// its own limit.
const DefaultTableRows = 10

// RenderDataTable renders a bounded HTML table over the sampled records.
// Columns follow the selected field order (all metadata fields when none
// selected); cells are formatted per the field's declared type and domain.
func RenderDataTable(records []Record, fields []models.FieldMetadata, selected []string, maxRows int, theme models.Theme) string {
	if maxRows <= 0 {
		maxRows = DefaultTableRows
	}
	columns := selected
	if len(columns) == 0 {
		columns = make([]string, 0, len(fields))
		for _, f := range fields {
			columns = append(columns, f.Name)
		}
	}
	if len(columns) == 0 {
		return tableNotice(theme, "No fields selected for this table")
	}
	if len(records) == 0 {
		return tableNotice(theme, "No records to display")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(
		`<table role="presentation" width="100%%" cellpadding="0" cellspacing="0" style="border-collapse:collapse;border:1px solid %s;border-radius:%s;overflow:hidden;">`,
		theme.BorderColor, theme.BorderRadius))

	sb.WriteString(`<tr>`)
	for _, col := range columns {
		sb.WriteString(fmt.Sprintf(
			`<th style="background-color:%s;color:#ffffff;font-family:%s;font-size:12px;text-align:left;padding:8px 10px;">%s</th>`,
			theme.PrimaryColor, theme.FontFamily, escapeXML(fieldAliasOf(fields, col))))
	}
	sb.WriteString(`</tr>`)

	rows := records
	if len(rows) > maxRows {
		rows = rows[:maxRows]
	}
	for i, rec := range rows {
		rowBg := theme.BackgroundColor
		if i%2 == 1 {
			rowBg = theme.SecondaryColor
		}
		sb.WriteString(`<tr>`)
		for _, col := range columns {
			fieldType, domain := fieldTypeOf(fields, col)
			raw, _ := LookupField(rec, col)
			cell := FormatFieldValue(raw, fieldType, domain)
			sb.WriteString(fmt.Sprintf(
				`<td style="background-color:%s;color:%s;font-family:%s;font-size:%s;padding:7px 10px;border-top:1px solid %s;">%s</td>`,
				rowBg, theme.TextColor, theme.FontFamily, theme.FontSize, theme.BorderColor, escapeXML(cell)))
		}
		sb.WriteString(`</tr>`)
	}

	sb.WriteString(`</table>`)
	return sb.String()
}

func tableNotice(theme models.Theme, message string) string {
	return fmt.Sprintf(
		`<div style="padding:16px;text-align:center;color:%s;font-family:%s;font-size:13px;">%s</div>`,
		theme.MutedTextColor, theme.FontFamily, escapeXML(message))
}
