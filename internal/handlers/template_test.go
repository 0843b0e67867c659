package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/geonotify/notify-backend/internal/dto"
	"github.com/geonotify/notify-backend/internal/errs"
	"github.com/geonotify/notify-backend/internal/models"
)

// --- Stubs ---

type stubResponseHandler struct {
	writeSuccessCalled bool
	writeSuccessStatus int
	writeSuccessData   any

	handleErrorCalled bool
	handleError       error

	errorWriteCalled bool
	errorWriteStatus int
	errorWriteCode   string
	errorWriteMsg    string
}

func (s *stubResponseHandler) WriteSuccess(w http.ResponseWriter, status int, data any) {
	s.writeSuccessCalled = true
	s.writeSuccessStatus = status
	s.writeSuccessData = data

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"success":true}`))
}

func (s *stubResponseHandler) WriteError(w http.ResponseWriter, _ *http.Request, status int, code, message string) {
	s.errorWriteCalled = true
	s.errorWriteStatus = status
	s.errorWriteCode = code
	s.errorWriteMsg = message
	w.WriteHeader(status)
}

func (s *stubResponseHandler) HandleError(w http.ResponseWriter, _ *http.Request, err error) {
	s.handleErrorCalled = true
	s.handleError = err
	w.WriteHeader(http.StatusInternalServerError)
}

type stubTemplateService struct {
	template    *models.Template
	templates   []*models.Template
	getErr      error
	createErr   error
	updateErr   error
	deleteErr   error
	validation  dto.ValidateTemplateResponse
	lastOrgID   string
	lastSaveReq dto.SaveTemplateRequest
}

func (s *stubTemplateService) GetTemplate(_ context.Context, orgID, _ string) (*models.Template, error) {
	s.lastOrgID = orgID
	return s.template, s.getErr
}

func (s *stubTemplateService) ListTemplates(_ context.Context, orgID string) ([]*models.Template, error) {
	s.lastOrgID = orgID
	return s.templates, nil
}

func (s *stubTemplateService) CreateTemplate(_ context.Context, orgID string, req dto.SaveTemplateRequest) (*models.Template, error) {
	s.lastOrgID = orgID
	s.lastSaveReq = req
	return s.template, s.createErr
}

func (s *stubTemplateService) UpdateTemplate(_ context.Context, orgID, _ string, req dto.SaveTemplateRequest) (*models.Template, error) {
	s.lastOrgID = orgID
	s.lastSaveReq = req
	return s.template, s.updateErr
}

func (s *stubTemplateService) DeleteTemplate(_ context.Context, _, _ string) error {
	return s.deleteErr
}

func (s *stubTemplateService) ValidateTemplate(req dto.SaveTemplateRequest) dto.ValidateTemplateResponse {
	s.lastSaveReq = req
	return s.validation
}

type stubPreviewService struct {
	resp    dto.PreviewResponse
	err     error
	lastReq dto.PreviewRequest
}

func (s *stubPreviewService) Preview(_ context.Context, _ *models.Template, req dto.PreviewRequest) (dto.PreviewResponse, error) {
	s.lastReq = req
	return s.resp, s.err
}

type stubSendService struct {
	resp    dto.SendResponse
	err     error
	lastReq dto.SendRequest
}

func (s *stubSendService) Send(_ context.Context, _, _ string, req dto.SendRequest) (dto.SendResponse, error) {
	s.lastReq = req
	return s.resp, s.err
}

// withChiParams injects chi URL parameters into the request context.
func withChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

func templateDeps(svc *stubTemplateService, resp *stubResponseHandler) *Deps {
	return &Deps{
		ResponseHandler: resp,
		Validate:        validator.New(),
		TemplateSvc:     svc,
	}
}

// --- Tests ---

func TestCreateTemplateHandler(t *testing.T) {
	svc := &stubTemplateService{template: &models.Template{TemplateID: "t1"}}
	resp := &stubResponseHandler{}
	h := NewTemplateHandlers(templateDeps(svc, resp))

	body := `{"name":"Daily incidents"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req = withChiParams(req, map[string]string{"orgId": "org1"})
	rr := httptest.NewRecorder()
	h.CreateTemplate(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusCreated {
		t.Fatalf("expected WriteSuccess with 201, got called=%v status=%d", resp.writeSuccessCalled, resp.writeSuccessStatus)
	}
	if svc.lastOrgID != "org1" {
		t.Errorf("org id = %q", svc.lastOrgID)
	}
	if svc.lastSaveReq.Name != "Daily incidents" {
		t.Errorf("request name = %q", svc.lastSaveReq.Name)
	}
}

func TestCreateTemplateHandlerRejectsMissingName(t *testing.T) {
	svc := &stubTemplateService{}
	resp := &stubResponseHandler{}
	h := NewTemplateHandlers(templateDeps(svc, resp))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	req = withChiParams(req, map[string]string{"orgId": "org1"})
	rr := httptest.NewRecorder()
	h.CreateTemplate(rr, req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError")
	}
	if _, ok := resp.handleError.(*errs.ValidationError); !ok {
		t.Errorf("err = %v, want ValidationError", resp.handleError)
	}
}

func TestCreateTemplateHandlerBadJSON(t *testing.T) {
	svc := &stubTemplateService{}
	resp := &stubResponseHandler{}
	h := NewTemplateHandlers(templateDeps(svc, resp))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	req = withChiParams(req, map[string]string{"orgId": "org1"})
	rr := httptest.NewRecorder()
	h.CreateTemplate(rr, req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError")
	}
	if _, ok := resp.handleError.(*errs.ValidationError); !ok {
		t.Errorf("err = %v, want ValidationError", resp.handleError)
	}
}

func TestGetTemplateHandlerStripsPassword(t *testing.T) {
	svc := &stubTemplateService{template: &models.Template{
		TemplateID: "t1",
		DataSource: models.DataSource{Endpoint: "https://example.com/layer/0", Password: "secret"},
	}}
	resp := &stubResponseHandler{}
	h := NewTemplateHandlers(templateDeps(svc, resp))

	req := httptest.NewRequest(http.MethodGet, "/t1", nil)
	req = withChiParams(req, map[string]string{"orgId": "org1", "templateId": "t1"})
	rr := httptest.NewRecorder()
	h.GetTemplate(rr, req)

	tmpl, ok := resp.writeSuccessData.(*models.Template)
	if !ok {
		t.Fatalf("response data = %T", resp.writeSuccessData)
	}
	if tmpl.DataSource.Password != "" {
		t.Error("stored password leaked through the read endpoint")
	}
}

func TestGetTemplateHandlerNotFound(t *testing.T) {
	svc := &stubTemplateService{getErr: errs.NewNotFoundError("template not found")}
	resp := &stubResponseHandler{}
	h := NewTemplateHandlers(templateDeps(svc, resp))

	req := httptest.NewRequest(http.MethodGet, "/absent", nil)
	req = withChiParams(req, map[string]string{"orgId": "org1", "templateId": "absent"})
	rr := httptest.NewRecorder()
	h.GetTemplate(rr, req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError")
	}
}

func TestPreviewTemplateHandler(t *testing.T) {
	svc := &stubTemplateService{template: &models.Template{TemplateID: "t1"}}
	preview := &stubPreviewService{resp: dto.PreviewResponse{HTML: "<html></html>", Live: true}}
	resp := &stubResponseHandler{}
	deps := templateDeps(svc, resp)
	deps.PreviewSvc = preview
	h := NewTemplateHandlers(deps)

	req := httptest.NewRequest(http.MethodPost, "/t1/preview", strings.NewReader(`{"live":true}`))
	req = withChiParams(req, map[string]string{"orgId": "org1", "templateId": "t1"})
	rr := httptest.NewRecorder()
	h.PreviewTemplate(rr, req)

	if !resp.writeSuccessCalled {
		t.Fatalf("expected WriteSuccess, err=%v", resp.handleError)
	}
	if !preview.lastReq.Live {
		t.Error("live flag not forwarded")
	}
}

func TestSendTemplateHandlerValidatesRecipients(t *testing.T) {
	svc := &stubTemplateService{template: &models.Template{TemplateID: "t1"}}
	send := &stubSendService{}
	resp := &stubResponseHandler{}
	deps := templateDeps(svc, resp)
	deps.SendSvc = send
	h := NewTemplateHandlers(deps)

	body := `{"to":["not-an-email"],"subject":"Hi"}`
	req := httptest.NewRequest(http.MethodPost, "/t1/send", strings.NewReader(body))
	req = withChiParams(req, map[string]string{"orgId": "org1", "templateId": "t1"})
	rr := httptest.NewRecorder()
	h.SendTemplate(rr, req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError")
	}
	if _, ok := resp.handleError.(*errs.ValidationError); !ok {
		t.Errorf("err = %v, want ValidationError", resp.handleError)
	}
}

func TestSendTemplateHandler(t *testing.T) {
	svc := &stubTemplateService{template: &models.Template{TemplateID: "t1"}}
	send := &stubSendService{resp: dto.SendResponse{MessageID: "msg-1"}}
	resp := &stubResponseHandler{}
	deps := templateDeps(svc, resp)
	deps.SendSvc = send
	h := NewTemplateHandlers(deps)

	body := `{"to":["ops@example.com"],"subject":"Daily incidents"}`
	req := httptest.NewRequest(http.MethodPost, "/t1/send", strings.NewReader(body))
	req = withChiParams(req, map[string]string{"orgId": "org1", "templateId": "t1"})
	rr := httptest.NewRecorder()
	h.SendTemplate(rr, req)

	if !resp.writeSuccessCalled {
		t.Fatalf("expected WriteSuccess, err=%v", resp.handleError)
	}
	if send.lastReq.Subject != "Daily incidents" {
		t.Errorf("subject = %q", send.lastReq.Subject)
	}
}

func TestValidateTemplateHandler(t *testing.T) {
	svc := &stubTemplateService{validation: dto.ValidateTemplateResponse{Valid: false}}
	resp := &stubResponseHandler{}
	h := NewTemplateHandlers(templateDeps(svc, resp))

	req := httptest.NewRequest(http.MethodPost, "/validate", strings.NewReader(`{"name":"x"}`))
	req = withChiParams(req, map[string]string{"orgId": "org1"})
	rr := httptest.NewRecorder()
	h.ValidateTemplate(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatal("expected WriteSuccess with 200")
	}
	if v, ok := resp.writeSuccessData.(dto.ValidateTemplateResponse); !ok || v.Valid {
		t.Errorf("response data = %#v", resp.writeSuccessData)
	}
}

func TestDeleteTemplateHandlerServiceError(t *testing.T) {
	svc := &stubTemplateService{deleteErr: errors.New("db failure")}
	resp := &stubResponseHandler{}
	h := NewTemplateHandlers(templateDeps(svc, resp))

	req := httptest.NewRequest(http.MethodDelete, "/t1", nil)
	req = withChiParams(req, map[string]string{"orgId": "org1", "templateId": "t1"})
	rr := httptest.NewRecorder()
	h.DeleteTemplate(rr, req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError")
	}
}
