package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/geonotify/notify-backend/internal/dto"
	"github.com/geonotify/notify-backend/internal/errs"
	"github.com/geonotify/notify-backend/internal/middleware"
	"github.com/geonotify/notify-backend/internal/response"
)

type AdminService interface {
	VerifyUsers(ctx context.Context, callerUID string, req dto.VerifyUsersRequest) (dto.VerifyUsersResponse, error)
}

type adminHandlers struct {
	ResponseHandler response.ResponseHandler
	Validate        *validator.Validate
	AdminSvc        AdminService
}

func NewAdminHandlers(deps *Deps) *adminHandlers {
	return &adminHandlers{
		ResponseHandler: deps.ResponseHandler,
		Validate:        deps.Validate,
		AdminSvc:        deps.AdminSvc,
	}
}

func (h *adminHandlers) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/verify-users", h.VerifyUsers)
	return r
}

func (h *adminHandlers) VerifyUsers(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyUsersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	if err := validateRequest(h.Validate, req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	resp, err := h.AdminSvc.VerifyUsers(r.Context(), middleware.UID(r.Context()), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, http.StatusOK, resp)
}
