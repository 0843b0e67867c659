package handlers

import (
	"log/slog"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/go-playground/validator/v10"

	"github.com/geonotify/notify-backend/internal/errs"
	"github.com/geonotify/notify-backend/internal/middleware"
	"github.com/geonotify/notify-backend/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	Validate        *validator.Validate
	TemplateSvc     TemplateService
	PreviewSvc      PreviewService
	SendSvc         SendService
	AdminSvc        AdminService
	AssistSvc       AssistService
	CredentialsSvc  CredentialsService
	Firebase        *auth.Client
	Roles           middleware.OrgMembership
}

// validateRequest runs struct tag validation and converts the first failure
// into the service error taxonomy.
func validateRequest(v *validator.Validate, req any) error {
	if v == nil {
		return nil
	}
	err := v.Struct(req)
	if err == nil {
		return nil
	}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return errs.NewFieldValidationError(strings.ToLower(fe.Field()),
			"failed validation on "+fe.Tag())
	}
	return errs.NewValidationError("invalid request body")
}
