package brevoclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/geonotify/notify-backend/internal/errs"
)

const serviceName = "brevo"

// Adapter sends compiled template HTML through the Brevo transactional
// email API (plain REST; /smtp/email).
type Adapter struct {
	baseURL string
	apiKey  string
	client  *http.Client
	sender  Sender
}

// Sender identifies the from address on outgoing mail.
type Sender struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// Attachment is an inline base64 attachment; used for CSV exports.
type Attachment struct {
	Name    string `json:"name"`
	Content string `json:"content"` // base64
}

type sendEmailRequest struct {
	Sender      Sender       `json:"sender"`
	To          []recipient  `json:"to"`
	Subject     string       `json:"subject"`
	HTMLContent string       `json:"htmlContent"`
	Attachment  []Attachment `json:"attachment,omitempty"`
}

type recipient struct {
	Email string `json:"email"`
}

type sendEmailResponse struct {
	MessageID string `json:"messageId"`
	Code      string `json:"code,omitempty"`
	Message   string `json:"message,omitempty"`
}

func NewAdapter(baseURL, apiKey string, sender Sender, timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Adapter{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		sender:  sender,
	}
}

// SendEmail dispatches one transactional email and returns the provider
// message id. CSV bytes, when present, go out as a base64 attachment.
func (a *Adapter) SendEmail(ctx context.Context, to []string, subject, html string, csv []byte) (string, error) {
	req := sendEmailRequest{
		Sender:      a.sender,
		Subject:     subject,
		HTMLContent: html,
	}
	for _, addr := range to {
		req.To = append(req.To, recipient{Email: addr})
	}
	if len(csv) > 0 {
		req.Attachment = []Attachment{{
			Name:    "export.csv",
			Content: base64.StdEncoding.EncodeToString(csv),
		}}
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", errs.NewExternalServiceError(serviceName, "failed to encode email", false, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/smtp/email", bytes.NewReader(payload))
	if err != nil {
		return "", errs.NewExternalServiceError(serviceName, "failed to build request", false, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", a.apiKey)

	httpResp, err := a.client.Do(httpReq)
	if err != nil {
		return "", errs.NewExternalServiceError(serviceName, "request failed", true, err)
	}
	defer httpResp.Body.Close()

	var resp sendEmailResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil && httpResp.StatusCode < 300 {
		return "", errs.NewExternalServiceError(serviceName, "failed to decode response", false, err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		msg := resp.Message
		if msg == "" {
			msg = fmt.Sprintf("unexpected status %d", httpResp.StatusCode)
		}
		return "", errs.NewExternalServiceError(serviceName, msg, httpResp.StatusCode >= 500, nil)
	}

	return resp.MessageID, nil
}
