package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aimosphere-network/airo-wingman/models"
)

// Connector is an HTTP client bound to a single model server's base URL.
type Connector struct {
	baseURL string
	client  *http.Client
}

// NewConnector creates a Connector bound to baseURL. No blanket timeout is set
// on the client — EnsureReady has no timeout of its own either; cancellation
// via ctx is the only exit.
func NewConnector(baseURL string) *Connector {
	return &Connector{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// SetupFailedError is returned by EnsureReady when the model server reports
// SETUP_FAILED.
type SetupFailedError struct {
	Setup models.SetupResult
}

func (e *SetupFailedError) Error() string {
	return fmt.Sprintf("model setup failed: %s", e.Setup.Logs)
}

// InputValidationError is returned by Predict on an HTTP 422 response.
type InputValidationError struct {
	Errors []models.ValidationErrorDetail
}

func (e *InputValidationError) Error() string {
	return fmt.Sprintf("input validation failed: %d error(s)", len(e.Errors))
}

// OpenAPISchema fetches the model server's /openapi.json verbatim, as a raw
// JSON document; the connector does not interpret the schema.
func (c *Connector) OpenAPISchema(ctx context.Context) (json.RawMessage, error) {
	body, _, err := c.get(ctx, "/openapi.json")
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// HealthCheck calls GET /health-check once.
func (c *Connector) HealthCheck(ctx context.Context) (models.HealthCheckResponse, error) {
	body, _, err := c.get(ctx, "/health-check")
	if err != nil {
		return models.HealthCheckResponse{}, err
	}

	var out models.HealthCheckResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return models.HealthCheckResponse{}, fmt.Errorf("decode health-check response: %w", err)
	}
	return out, nil
}

// EnsureReady polls HealthCheck at 1 Hz until the model reports READY, fails
// with a *SetupFailedError on SETUP_FAILED, and otherwise keeps polling.
// Network errors are logged and retried indefinitely — cancellation via ctx is
// the only other exit.
func (c *Connector) EnsureReady(ctx context.Context) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		health, err := c.HealthCheck(ctx)
		if err != nil {
			log.Warn().Err(err).Str("url", c.baseURL).Msg("health check failed, retrying")
		} else {
			switch health.Status {
			case models.HealthReady:
				return nil
			case models.HealthSetupFailed:
				return &SetupFailedError{Setup: health.Setup}
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Predict submits input as {"input": input} to POST /predictions and returns
// the decoded response.
func (c *Connector) Predict(ctx context.Context, input json.RawMessage) (models.PredictionResponse, error) {
	payload, err := json.Marshal(struct {
		Input json.RawMessage `json:"input"`
	}{Input: input})
	if err != nil {
		return models.PredictionResponse{}, fmt.Errorf("encode predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predictions", bytes.NewReader(payload))
	if err != nil {
		return models.PredictionResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return models.PredictionResponse{}, fmt.Errorf("predict request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.PredictionResponse{}, fmt.Errorf("read predict response: %w", err)
	}

	if resp.StatusCode == http.StatusUnprocessableEntity {
		var verr models.ValidationErrorBody
		if err := json.Unmarshal(body, &verr); err != nil {
			return models.PredictionResponse{}, fmt.Errorf("decode validation error body: %w", err)
		}
		return models.PredictionResponse{}, &InputValidationError{Errors: verr.Detail}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.PredictionResponse{}, fmt.Errorf("predict: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var out models.PredictionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return models.PredictionResponse{}, fmt.Errorf("decode predict response: %w", err)
	}
	return out, nil
}

func (c *Connector) get(ctx context.Context, path string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read %s response: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}
	return body, resp.StatusCode, nil
}
