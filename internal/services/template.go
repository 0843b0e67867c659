package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/geonotify/notify-backend/internal/dto"
	"github.com/geonotify/notify-backend/internal/engine"
	"github.com/geonotify/notify-backend/internal/errs"
	"github.com/geonotify/notify-backend/internal/models"
)

// templateStore is the Firestore storage interface for templates.
type templateStore interface {
	Get(ctx context.Context, orgID, templateID string) (*models.Template, error)
	List(ctx context.Context, orgID string) ([]*models.Template, error)
	Save(ctx context.Context, orgID string, tmpl *models.Template) error
	Delete(ctx context.Context, orgID, templateID string) error
}

type templateService struct {
	store templateStore
}

func NewTemplateService(store templateStore) *templateService {
	return &templateService{store: store}
}

func (s *templateService) GetTemplate(ctx context.Context, orgID, templateID string) (*models.Template, error) {
	return s.store.Get(ctx, orgID, templateID)
}

func (s *templateService) ListTemplates(ctx context.Context, orgID string) ([]*models.Template, error) {
	return s.store.List(ctx, orgID)
}

func (s *templateService) CreateTemplate(ctx context.Context, orgID string, req dto.SaveTemplateRequest) (*models.Template, error) {
	tmpl := templateFromRequest(req)
	tmpl.TemplateID = uuid.New().String()
	if err := rejectInvalid(tmpl); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, orgID, tmpl); err != nil {
		return nil, err
	}
	return tmpl, nil
}

func (s *templateService) UpdateTemplate(ctx context.Context, orgID, templateID string, req dto.SaveTemplateRequest) (*models.Template, error) {
	existing, err := s.store.Get(ctx, orgID, templateID)
	if err != nil {
		return nil, err
	}

	tmpl := templateFromRequest(req)
	tmpl.TemplateID = existing.TemplateID
	tmpl.CreatedAt = existing.CreatedAt
	// unknown keys loaded from the document survive the update
	tmpl.Extra = existing.Extra
	// a blank password keeps the stored one, unless the stored one was only
	// hydrated from the org-level account
	if tmpl.DataSource.Password == "" && !existing.DataSource.FromOrg {
		tmpl.DataSource.Password = existing.DataSource.Password
	}

	if err := rejectInvalid(tmpl); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, orgID, tmpl); err != nil {
		return nil, err
	}
	return tmpl, nil
}

func (s *templateService) DeleteTemplate(ctx context.Context, orgID, templateID string) error {
	return s.store.Delete(ctx, orgID, templateID)
}

// ValidateTemplate reports every configuration issue without saving, for
// editor-side linting.
func (s *templateService) ValidateTemplate(req dto.SaveTemplateRequest) dto.ValidateTemplateResponse {
	issues := engine.ValidateTemplate(templateFromRequest(req))
	return dto.ValidateTemplateResponse{
		Valid:  len(issues) == 0,
		Issues: issues,
	}
}

func templateFromRequest(req dto.SaveTemplateRequest) *models.Template {
	return &models.Template{
		Name:           req.Name,
		HTML:           req.HTML,
		IncludeCSV:     req.IncludeCSV,
		Theme:          req.Theme,
		Branding:       req.Branding,
		Statistics:     req.Statistics,
		VisualElements: req.VisualElements,
		DataSource:     req.DataSource,
	}
}

// rejectInvalid blocks persistence of a configuration that would fail at
// render time. The first issue is reported; Validate returns the full list.
func rejectInvalid(tmpl *models.Template) error {
	issues := engine.ValidateTemplate(tmpl)
	if len(issues) == 0 {
		return nil
	}
	return errs.NewFieldValidationError(issues[0].Field, issues[0].Message)
}
