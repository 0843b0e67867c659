package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/geonotify/notify-backend/internal/dto"
	"github.com/geonotify/notify-backend/internal/errs"
	"github.com/geonotify/notify-backend/pkg/helpers"
)

type fakeVertexClient struct {
	text    string
	err     error
	lastReq dto.VertexGenerateRequest
}

func (f *fakeVertexClient) GenerateContent(_ context.Context, req dto.VertexGenerateRequest) (dto.VertexGenerateResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return dto.VertexGenerateResponse{}, f.err
	}
	return dto.VertexGenerateResponse{Text: f.text}, nil
}

func TestSuggestSubject(t *testing.T) {
	vertex := &fakeVertexClient{text: "  Flood watch: 12 new incidents in your area\n"}
	svc := NewAssistService(vertex)

	resp, err := svc.Suggest(helpers.TestCtx(), dto.AssistRequest{Kind: "subject", Context: "flood monitoring"})
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if resp.Text != "Flood watch: 12 new incidents in your area" {
		t.Errorf("text = %q", resp.Text)
	}
	if !strings.Contains(vertex.lastReq.UserMessage, "flood monitoring") {
		t.Error("caller context missing from prompt")
	}
	if vertex.lastReq.System == "" {
		t.Error("no system instruction set")
	}
}

func TestSuggestUnknownKind(t *testing.T) {
	svc := NewAssistService(&fakeVertexClient{})
	_, err := svc.Suggest(helpers.TestCtx(), dto.AssistRequest{Kind: "slogan"})
	if _, ok := err.(*errs.ValidationError); !ok {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestSuggestEmptyCompletion(t *testing.T) {
	svc := NewAssistService(&fakeVertexClient{text: "   "})
	_, err := svc.Suggest(helpers.TestCtx(), dto.AssistRequest{Kind: "intro"})
	if _, ok := err.(*errs.ExternalServiceError); !ok {
		t.Fatalf("err = %v, want ExternalServiceError", err)
	}
}

func TestSuggestBackendFailure(t *testing.T) {
	svc := NewAssistService(&fakeVertexClient{err: errors.New("quota")})
	_, err := svc.Suggest(helpers.TestCtx(), dto.AssistRequest{Kind: "intro"})
	var external *errs.ExternalServiceError
	if !errors.As(err, &external) {
		t.Fatalf("err = %v, want ExternalServiceError", err)
	}
	if !external.Transient {
		t.Error("backend failure not marked transient")
	}
}
