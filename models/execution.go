package models

import "encoding/json"

// Health is the model server's readiness state, as returned by its
// /health-check endpoint.
type Health string

const (
	HealthUnknown     Health = "UNKNOWN"
	HealthStarting    Health = "STARTING"
	HealthReady       Health = "READY"
	HealthBusy        Health = "BUSY"
	HealthSetupFailed Health = "SETUP_FAILED"
)

// SetupResult carries whatever opaque setup diagnostics the model server
// chooses to report alongside its health status.
type SetupResult struct {
	Logs  string          `json:"logs,omitempty"`
	Error json.RawMessage `json:"error,omitempty"`
}

// HealthCheckResponse is the body of GET /health-check.
type HealthCheckResponse struct {
	Status Health      `json:"status"`
	Setup  SetupResult `json:"setup"`
}

// PredictionResponse is the body of a successful POST /predictions.
type PredictionResponse struct {
	Status      string          `json:"status"`
	Output      json.RawMessage `json:"output,omitempty"`
	Error       json.RawMessage `json:"error,omitempty"`
	StartedAt   *string         `json:"started_at,omitempty"`
	CompletedAt *string         `json:"completed_at,omitempty"`
}

// ValidationErrorDetail is one entry of a 422 response's "detail" array.
type ValidationErrorDetail struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationErrorBody is the full 422 response body.
type ValidationErrorBody struct {
	Detail []ValidationErrorDetail `json:"detail"`
}

// ExecutionResult is what gets uploaded to the content exchange as the
// provider's response payload for a request.
type ExecutionResult struct {
	Status      string          `json:"status"`
	Output      json.RawMessage `json:"output,omitempty"`
	Error       json.RawMessage `json:"error,omitempty"`
	StartedAt   *string         `json:"started_at,omitempty"`
	CompletedAt *string         `json:"completed_at,omitempty"`
}

// ExecutionResultFromPrediction builds an ExecutionResult from a model
// server's raw prediction response.
func ExecutionResultFromPrediction(p PredictionResponse) ExecutionResult {
	return ExecutionResult{
		Status:      p.Status,
		Output:      p.Output,
		Error:       p.Error,
		StartedAt:   p.StartedAt,
		CompletedAt: p.CompletedAt,
	}
}
