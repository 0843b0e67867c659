package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/geonotify/notify-backend/internal/dto"
	"github.com/geonotify/notify-backend/internal/errs"
	"github.com/geonotify/notify-backend/internal/response"
)

type CredentialsService interface {
	SetCredentials(ctx context.Context, orgID string, req dto.CredentialsRequest) error
	GetStatus(ctx context.Context, orgID string) (dto.CredentialsStatus, error)
	DeleteCredentials(ctx context.Context, orgID string) error
}

type credentialsHandlers struct {
	ResponseHandler response.ResponseHandler
	Validate        *validator.Validate
	CredentialsSvc  CredentialsService
}

func NewCredentialsHandlers(deps *Deps) *credentialsHandlers {
	return &credentialsHandlers{
		ResponseHandler: deps.ResponseHandler,
		Validate:        deps.Validate,
		CredentialsSvc:  deps.CredentialsSvc,
	}
}

func (h *credentialsHandlers) CredentialsRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetStatus)
	r.Put("/", h.SetCredentials)
	r.Delete("/", h.DeleteCredentials)
	return r
}

func (h *credentialsHandlers) GetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.CredentialsSvc.GetStatus(r.Context(), orgID(r))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, status)
}

func (h *credentialsHandlers) SetCredentials(w http.ResponseWriter, r *http.Request) {
	var req dto.CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	if err := validateRequest(h.Validate, req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if err := h.CredentialsSvc.SetCredentials(r.Context(), orgID(r), req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, nil)
}

func (h *credentialsHandlers) DeleteCredentials(w http.ResponseWriter, r *http.Request) {
	if err := h.CredentialsSvc.DeleteCredentials(r.Context(), orgID(r)); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, nil)
}
