package featureclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/geonotify/notify-backend/internal/dto"
	"github.com/geonotify/notify-backend/internal/errs"
	"github.com/geonotify/notify-backend/internal/models"
)

const serviceName = "feature-service"

// Adapter talks to the feature-service proxy: JSON POST bodies, JSON
// responses that may embed an error object even under HTTP 200. Every call
// runs under a bounded timeout; timeouts and 5xx map to transient errors.
type Adapter struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

func NewAdapter(baseURL string, timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Adapter{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// Metadata fetches the layer's field names, types, aliases, and domains.
func (a *Adapter) Metadata(ctx context.Context, req dto.FeatureMetadataRequest) ([]models.FieldMetadata, error) {
	var resp dto.FeatureMetadataResponse
	if err := a.post(ctx, "/metadata", req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, payloadError(resp.Error)
	}
	return resp.Fields, nil
}

// Query runs a feature query: records, server-side statistics, or both.
func (a *Adapter) Query(ctx context.Context, req dto.FeatureQueryRequest) (dto.FeatureQueryResponse, error) {
	var resp dto.FeatureQueryResponse
	if err := a.post(ctx, "/query", req, &resp); err != nil {
		return resp, err
	}
	if resp.Error != nil {
		return resp, payloadError(resp.Error)
	}
	return resp, nil
}

// Count fetches the total record count for a where clause.
func (a *Adapter) Count(ctx context.Context, req dto.FeatureQueryRequest) (int, error) {
	req.ReturnCountOnly = true
	resp, err := a.Query(ctx, req)
	if err != nil {
		return 0, err
	}
	if resp.Count == nil {
		// some layers answer a count-only query with an empty feature list
		return len(resp.Features), nil
	}
	return *resp.Count, nil
}

func (a *Adapter) post(ctx context.Context, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return errs.NewExternalServiceError(serviceName, "failed to encode request", false, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return errs.NewExternalServiceError(serviceName, "failed to build request", false, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := a.client.Do(httpReq)
	if err != nil {
		transient := errors.Is(err, context.DeadlineExceeded) || isTimeout(err)
		return errs.NewExternalServiceError(serviceName, "request failed", transient, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return errs.NewExternalServiceError(serviceName,
			fmt.Sprintf("unexpected status %d", httpResp.StatusCode),
			httpResp.StatusCode >= 500, nil)
	}

	if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
		return errs.NewExternalServiceError(serviceName, "failed to decode response", false, err)
	}
	return nil
}

func payloadError(svcErr *dto.ServiceError) error {
	msg := svcErr.Message
	if msg == "" {
		msg = "remote service reported an error"
	}
	return errs.NewExternalServiceError(serviceName, msg, false, nil)
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
