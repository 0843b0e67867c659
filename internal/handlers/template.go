package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/geonotify/notify-backend/internal/dto"
	"github.com/geonotify/notify-backend/internal/errs"
	"github.com/geonotify/notify-backend/internal/models"
	"github.com/geonotify/notify-backend/internal/response"
)

type TemplateService interface {
	GetTemplate(ctx context.Context, orgID, templateID string) (*models.Template, error)
	ListTemplates(ctx context.Context, orgID string) ([]*models.Template, error)
	CreateTemplate(ctx context.Context, orgID string, req dto.SaveTemplateRequest) (*models.Template, error)
	UpdateTemplate(ctx context.Context, orgID, templateID string, req dto.SaveTemplateRequest) (*models.Template, error)
	DeleteTemplate(ctx context.Context, orgID, templateID string) error
	ValidateTemplate(req dto.SaveTemplateRequest) dto.ValidateTemplateResponse
}

type PreviewService interface {
	Preview(ctx context.Context, tmpl *models.Template, req dto.PreviewRequest) (dto.PreviewResponse, error)
}

type SendService interface {
	Send(ctx context.Context, orgID, templateID string, req dto.SendRequest) (dto.SendResponse, error)
}

type templateHandlers struct {
	ResponseHandler response.ResponseHandler
	Validate        *validator.Validate
	TemplateSvc     TemplateService
	PreviewSvc      PreviewService
	SendSvc         SendService
}

func NewTemplateHandlers(deps *Deps) *templateHandlers {
	return &templateHandlers{
		ResponseHandler: deps.ResponseHandler,
		Validate:        deps.Validate,
		TemplateSvc:     deps.TemplateSvc,
		PreviewSvc:      deps.PreviewSvc,
		SendSvc:         deps.SendSvc,
	}
}

func (h *templateHandlers) TemplateRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListTemplates)
	r.Post("/", h.CreateTemplate)
	r.Post("/validate", h.ValidateTemplate) // must be before /{templateId}
	r.Get("/{templateId}", h.GetTemplate)
	r.Put("/{templateId}", h.UpdateTemplate)
	r.Delete("/{templateId}", h.DeleteTemplate)
	r.Post("/{templateId}/preview", h.PreviewTemplate)
	r.Post("/{templateId}/send", h.SendTemplate)
	return r
}

func orgID(r *http.Request) string {
	return chi.URLParam(r, "orgId")
}

func (h *templateHandlers) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.TemplateSvc.ListTemplates(r.Context(), orgID(r))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, templates)
}

func (h *templateHandlers) GetTemplate(w http.ResponseWriter, r *http.Request) {
	tmpl, err := h.TemplateSvc.GetTemplate(r.Context(), orgID(r), chi.URLParam(r, "templateId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	// stored credentials never leave the service
	tmpl.DataSource.Password = ""
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, tmpl)
}

func (h *templateHandlers) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req dto.SaveTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	if err := validateRequest(h.Validate, req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	tmpl, err := h.TemplateSvc.CreateTemplate(r.Context(), orgID(r), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusCreated, tmpl)
}

func (h *templateHandlers) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var req dto.SaveTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	if err := validateRequest(h.Validate, req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	tmpl, err := h.TemplateSvc.UpdateTemplate(r.Context(), orgID(r), chi.URLParam(r, "templateId"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, tmpl)
}

func (h *templateHandlers) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := h.TemplateSvc.DeleteTemplate(r.Context(), orgID(r), chi.URLParam(r, "templateId")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, nil)
}

func (h *templateHandlers) ValidateTemplate(w http.ResponseWriter, r *http.Request) {
	var req dto.SaveTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, h.TemplateSvc.ValidateTemplate(req))
}

func (h *templateHandlers) PreviewTemplate(w http.ResponseWriter, r *http.Request) {
	var req dto.PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	tmpl, err := h.TemplateSvc.GetTemplate(r.Context(), orgID(r), chi.URLParam(r, "templateId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	resp, err := h.PreviewSvc.Preview(r.Context(), tmpl, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, resp)
}

func (h *templateHandlers) SendTemplate(w http.ResponseWriter, r *http.Request) {
	var req dto.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	if err := validateRequest(h.Validate, req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	resp, err := h.SendSvc.Send(r.Context(), orgID(r), chi.URLParam(r, "templateId"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, resp)
}
