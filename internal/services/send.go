package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"

	"github.com/geonotify/notify-backend/internal/dto"
	"github.com/geonotify/notify-backend/internal/engine"
	"github.com/geonotify/notify-backend/internal/errs"
	"github.com/geonotify/notify-backend/internal/models"
	"github.com/geonotify/notify-backend/pkg/logger"
)

// emailSender is the transactional mail interface used by sendService.
type emailSender interface {
	SendEmail(ctx context.Context, to []string, subject, html string, csv []byte) (string, error)
}

// renderContextBuilder assembles the data snapshot a compile runs against.
type renderContextBuilder interface {
	BuildRenderContext(ctx context.Context, tmpl *models.Template, live bool) (engine.RenderContext, []dto.FetchDiagnostic, bool)
}

type sendService struct {
	store    templateStore
	contexts renderContextBuilder
	mail     emailSender
}

func NewSendService(store templateStore, contexts renderContextBuilder, mail emailSender) *sendService {
	return &sendService{store: store, contexts: contexts, mail: mail}
}

// Send compiles a template against live data and dispatches it by email,
// with the record set attached as CSV when the template enables it. Sending
// sample data would mislead recipients, so an unreachable data source aborts
// the send instead of degrading.
func (s *sendService) Send(ctx context.Context, orgID, templateID string, req dto.SendRequest) (dto.SendResponse, error) {
	tmpl, err := s.store.Get(ctx, orgID, templateID)
	if err != nil {
		return dto.SendResponse{}, err
	}

	rctx, diags, live := s.contexts.BuildRenderContext(ctx, tmpl, true)
	if tmpl.DataSource.Endpoint != "" && !live {
		return dto.SendResponse{}, errs.NewExternalServiceError("feature-service",
			"live data unavailable, send aborted", true, nil)
	}

	html := compileTemplate(tmpl, rctx)

	var attachment []byte
	if tmpl.IncludeCSV {
		attachment = buildCSV(rctx, tmpl)
	}

	messageID, err := s.mail.SendEmail(ctx, req.To, req.Subject, html, attachment)
	if err != nil {
		return dto.SendResponse{}, err
	}

	logger.FromContext(ctx).Info("notification sent",
		"templateId", templateID, "recipients", len(req.To), "records", rctx.RecordCount, "fallbacks", fallbackCount(diags))
	return dto.SendResponse{MessageID: messageID}, nil
}

// buildCSV exports the fetched records with the same column selection and
// value formatting the rendered data table uses.
func buildCSV(rctx engine.RenderContext, tmpl *models.Template) []byte {
	columns := csvColumns(tmpl, rctx.Fields)
	if len(columns) == 0 {
		return nil
	}

	meta := map[string]models.FieldMetadata{}
	for _, f := range rctx.Fields {
		meta[strings.ToLower(f.Name)] = f
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, len(columns))
	for i, name := range columns {
		header[i] = name
		if f, ok := meta[strings.ToLower(name)]; ok && f.Alias != "" {
			header[i] = f.Alias
		}
	}
	w.Write(header)

	row := make([]string, len(columns))
	for _, rec := range rctx.Records {
		for i, name := range columns {
			raw, _ := engine.LookupField(rec, name)
			f := meta[strings.ToLower(name)]
			row[i] = engine.FormatFieldValue(raw, f.Type, f.Domain)
		}
		w.Write(row)
	}

	w.Flush()
	return buf.Bytes()
}

// csvColumns follows the first data table's column list; a template without
// one exports every layer field.
func csvColumns(tmpl *models.Template, fields []models.FieldMetadata) []string {
	for _, el := range tmpl.VisualElements {
		if el.Type == models.ElementDataTable && len(el.Fields) > 0 {
			return el.Fields
		}
	}
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name)
	}
	return names
}

func fallbackCount(diags []dto.FetchDiagnostic) int {
	n := 0
	for _, d := range diags {
		if d.Fallback {
			n++
		}
	}
	return n
}
