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

type AssistService interface {
	Suggest(ctx context.Context, req dto.AssistRequest) (dto.AssistResponse, error)
}

type assistHandlers struct {
	ResponseHandler response.ResponseHandler
	Validate        *validator.Validate
	AssistSvc       AssistService
}

func NewAssistHandlers(deps *Deps) *assistHandlers {
	return &assistHandlers{
		ResponseHandler: deps.ResponseHandler,
		Validate:        deps.Validate,
		AssistSvc:       deps.AssistSvc,
	}
}

func (h *assistHandlers) AssistRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/suggest", h.Suggest)
	return r
}

func (h *assistHandlers) Suggest(w http.ResponseWriter, r *http.Request) {
	var req dto.AssistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	if err := validateRequest(h.Validate, req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	resp, err := h.AssistSvc.Suggest(r.Context(), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, resp)
}
