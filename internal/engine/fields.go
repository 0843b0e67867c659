package engine

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/geonotify/notify-backend/internal/models"
)

// FormatFieldValue converts a raw attribute value to display text based on
// the remote field type, consulting the coded-value domain first. Total:
// never errors, never panics; nil and empty input render as "".
func FormatFieldValue(value any, fieldType string, domain *models.Domain) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok && s == "" {
		return ""
	}

	if name, ok := domain.Lookup(stringify(value)); ok {
		return name
	}

	switch fieldType {
	case models.FieldTypeDate:
		return formatDate(value)
	case models.FieldTypeDouble, models.FieldTypeSingle:
		if n, ok := TryParseNumeric(value); ok {
			if n == math.Trunc(n) {
				return groupThousands(strconv.FormatFloat(n, 'f', 0, 64))
			}
			return groupThousands(strconv.FormatFloat(n, 'f', 2, 64))
		}
		return stringify(value)
	case models.FieldTypeInteger, models.FieldTypeSmallInteger, models.FieldTypeOID:
		if n, ok := TryParseNumeric(value); ok {
			return groupThousands(strconv.FormatFloat(math.Round(n), 'f', 0, 64))
		}
		return stringify(value)
	default:
		return stringify(value)
	}
}

// formatDate accepts epoch milliseconds or a parseable date string and
// renders "Jan 2, 2006". Anything unparseable falls back to plain string
// coercion; a formatter that throws inside an unattended send is worse than
// an ugly cell.
func formatDate(value any) string {
	if ms, ok := TryParseNumeric(value); ok {
		return time.UnixMilli(int64(ms)).UTC().Format("Jan 2, 2006")
	}
	s := stringify(value)
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02",
		"1/2/2006",
		"01/02/2006",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("Jan 2, 2006")
		}
	}
	return s
}

// FormatValue renders an evaluated statistic according to its configured
// format, wrapping with prefix/suffix. A nil value renders as "-".
func FormatValue(value any, format models.ValueFormat) string {
	if value == nil {
		return "-"
	}

	var body string
	switch format.Format {
	case "currency":
		body = formatCurrency(value, format)
	case "percent":
		if n, ok := TryParseNumeric(value); ok {
			body = strconv.FormatFloat(n*100, 'f', decimalsOr(format, 1), 64) + "%"
		} else {
			body = stringify(value)
		}
	case "number":
		if n, ok := TryParseNumeric(value); ok {
			body = groupThousands(strconv.FormatFloat(n, 'f', decimalsOr(format, 0), 64))
		} else {
			body = stringify(value)
		}
	case "date":
		body = formatDateWith(value, format.DateFormat)
	case "text":
		body = stringify(value)
	default: // auto
		if n, ok := TryParseNumeric(value); ok {
			if n == math.Trunc(n) {
				body = groupThousands(strconv.FormatFloat(n, 'f', 0, 64))
			} else {
				body = groupThousands(strconv.FormatFloat(n, 'f', 2, 64))
			}
		} else {
			body = stringify(value)
		}
	}

	return format.Prefix + body + format.Suffix
}

func formatCurrency(value any, format models.ValueFormat) string {
	n, ok := TryParseNumeric(value)
	if !ok {
		return stringify(value)
	}
	decimals := decimalsOr(format, 2)
	body := groupThousands(strconv.FormatFloat(n, 'f', decimals, 64))
	symbol, prefix := currencySymbol(format.Currency)
	if prefix {
		return symbol + body
	}
	return body + " " + symbol
}

// currencySymbol returns the display symbol and whether it precedes the
// amount. Unknown codes render as a trailing code, which is at least
// unambiguous.
func currencySymbol(code string) (string, bool) {
	switch strings.ToUpper(code) {
	case "", "USD":
		return "$", true
	case "EUR":
		return "€", true
	case "GBP":
		return "£", true
	case "JPY":
		return "¥", true
	case "CAD":
		return "CA$", true
	case "AUD":
		return "A$", true
	default:
		return strings.ToUpper(code), false
	}
}

func formatDateWith(value any, layoutName string) string {
	var t time.Time
	if ms, ok := TryParseNumeric(value); ok {
		t = time.UnixMilli(int64(ms)).UTC()
	} else {
		parsed, err := time.Parse(time.RFC3339, stringify(value))
		if err != nil {
			return stringify(value)
		}
		t = parsed
	}
	switch layoutName {
	case "short":
		return t.Format("1/2/2006")
	case "long":
		return t.Format("January 2, 2006")
	case "iso":
		return t.Format("2006-01-02")
	default:
		return t.Format("Jan 2, 2006")
	}
}

func decimalsOr(format models.ValueFormat, fallback int) int {
	if format.Decimals != nil && *format.Decimals >= 0 {
		return *format.Decimals
	}
	return fallback
}

// groupThousands inserts comma separators into the integer part of an
// already-formatted decimal string. Handles a leading minus sign.
func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if hasFrac {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}

// fieldTypeOf finds the declared type for a field name, defaulting to
// string when metadata is missing. Lookup is case-insensitive.
func fieldTypeOf(fields []models.FieldMetadata, name string) (string, *models.Domain) {
	for _, f := range fields {
		if strings.EqualFold(f.Name, name) {
			return f.Type, f.Domain
		}
	}
	return models.FieldTypeString, nil
}

// fieldAliasOf returns the display alias for a field, or the name itself.
func fieldAliasOf(fields []models.FieldMetadata, name string) string {
	for _, f := range fields {
		if strings.EqualFold(f.Name, name) && f.Alias != "" {
			return f.Alias
		}
	}
	return name
}
