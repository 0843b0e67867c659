package dto

import (
	"github.com/geonotify/notify-backend/internal/engine"
	"github.com/geonotify/notify-backend/internal/models"
)

// SaveTemplateRequest is the mutation body for create/update.
type SaveTemplateRequest struct {
	Name           string                 `json:"name" validate:"required,max=200"`
	HTML           string                 `json:"html"`
	IncludeCSV     bool                   `json:"includeCSV"`
	Theme          models.Theme           `json:"theme"`
	Branding       models.Branding        `json:"branding"`
	Statistics     []models.Statistic     `json:"statistics" validate:"dive"`
	VisualElements []models.VisualElement `json:"visualElements" validate:"dive"`
	DataSource     models.DataSource      `json:"dataSource"`
}

// ValidateTemplateResponse reports configuration issues without saving.
type ValidateTemplateResponse struct {
	Valid  bool                     `json:"valid"`
	Issues []engine.ValidationIssue `json:"issues,omitempty"`
}

// PreviewRequest selects the data source for a preview compile.
type PreviewRequest struct {
	Live bool `json:"live"` // false: compile against built-in sample data
}

// PreviewResponse carries the compiled document plus per-panel fetch
// diagnostics; a failed live fetch downgrades to sample data rather than
// failing the preview.
type PreviewResponse struct {
	HTML        string             `json:"html"`
	Live        bool               `json:"live"`
	Diagnostics []FetchDiagnostic  `json:"diagnostics,omitempty"`
}

// FetchDiagnostic describes one remote fetch step's outcome.
type FetchDiagnostic struct {
	Step     string `json:"step"` // metadata|count|sample|statistics|graph
	Target   string `json:"target,omitempty"`
	OK       bool   `json:"ok"`
	Fallback bool   `json:"fallback,omitempty"` // client-side aggregation was used
	Message  string `json:"message,omitempty"`
}

// SendRequest dispatches a compiled template by email.
type SendRequest struct {
	To      []string `json:"to" validate:"required,min=1,dive,email"`
	Subject string   `json:"subject" validate:"required,max=300"`
}

// SendResponse reports the provider message id.
type SendResponse struct {
	MessageID string `json:"messageId"`
}
