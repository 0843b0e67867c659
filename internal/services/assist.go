package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/geonotify/notify-backend/internal/dto"
	"github.com/geonotify/notify-backend/internal/errs"
	"github.com/geonotify/notify-backend/pkg/helpers"
	"github.com/geonotify/notify-backend/pkg/logger"
)

type vertexClient interface {
	GenerateContent(ctx context.Context, req dto.VertexGenerateRequest) (dto.VertexGenerateResponse, error)
}

type assistService struct {
	vertex vertexClient
}

func NewAssistService(vertex vertexClient) *assistService {
	return &assistService{vertex: vertex}
}

const assistSystemPrompt = `You write short copy for geographic notification emails.
Answer with the requested text only: no quotes, no markdown, no preamble.`

// Suggest generates one piece of template copy: an email subject line or an
// intro paragraph, seeded with the caller's template context.
func (s *assistService) Suggest(ctx context.Context, req dto.AssistRequest) (dto.AssistResponse, error) {
	var instruction string
	switch req.Kind {
	case "subject":
		instruction = "Write one email subject line, at most 70 characters, for this notification."
	case "intro":
		instruction = "Write one short intro paragraph, at most 3 sentences, for this notification."
	default:
		return dto.AssistResponse{}, errs.NewFieldValidationError("kind",
			fmt.Sprintf("unknown suggestion kind %q", req.Kind))
	}

	message := instruction
	if req.Context != "" {
		message += "\n\nNotification context:\n" + req.Context
	}

	resp, err := s.vertex.GenerateContent(ctx, dto.VertexGenerateRequest{
		System:          assistSystemPrompt,
		UserMessage:     message,
		Temperature:     helpers.Ptr(float32(0.7)),
		MaxOutputTokens: helpers.Ptr(int32(256)),
	})
	if err != nil {
		return dto.AssistResponse{}, errs.NewExternalServiceError("vertex", "suggestion failed", true, err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return dto.AssistResponse{}, errs.NewExternalServiceError("vertex", "empty suggestion", true, nil)
	}

	logger.FromContext(ctx).Info("assist suggestion generated", "kind", req.Kind, "length", len(text))
	return dto.AssistResponse{Text: text}, nil
}
