package models

import (
	"fmt"
	"strconv"
)

// Remote field types as reported by the feature-service metadata call.
const (
	FieldTypeString       = "esriFieldTypeString"
	FieldTypeDate         = "esriFieldTypeDate"
	FieldTypeDouble       = "esriFieldTypeDouble"
	FieldTypeSingle       = "esriFieldTypeSingle"
	FieldTypeInteger      = "esriFieldTypeInteger"
	FieldTypeSmallInteger = "esriFieldTypeSmallInteger"
	FieldTypeOID          = "esriFieldTypeOID"
	FieldTypeGlobalID     = "esriFieldTypeGlobalID"
	FieldTypeGUID         = "esriFieldTypeGUID"
)

// FieldMetadata describes one attribute of the remote layer.
type FieldMetadata struct {
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Alias  string  `json:"alias,omitempty"`
	Length int     `json:"length,omitempty"`
	Domain *Domain `json:"domain,omitempty"`
}

// Domain is a coded-value lookup translating stored codes to display names.
type Domain struct {
	Name        string       `json:"name,omitempty"`
	CodedValues []CodedValue `json:"codedValues,omitempty"`
}

// CodedValue maps one stored code to its display name. Codes may be numeric
// or string depending on the field type.
type CodedValue struct {
	Code any    `json:"code"`
	Name string `json:"name"`
}

// Lookup returns the display name for a code, matching on the string form
// so numeric codes stored as float64 (JSON) still resolve.
func (d *Domain) Lookup(code string) (string, bool) {
	if d == nil {
		return "", false
	}
	for _, cv := range d.CodedValues {
		if codeString(cv.Code) == code {
			return cv.Name, true
		}
	}
	return "", false
}

func codeString(code any) string {
	switch v := code.(type) {
	case string:
		return v
	case float64:
		// JSON numbers decode as float64; integral codes must not render "1.000000"
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
