package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aimosphere-network/airo-wingman/models"
	"github.com/aimosphere-network/airo-wingman/stats"
)

const (
	agreementRetryAttempts = 5
	agreementRetrySpacing  = 5 * time.Second

	contentRetryAttempts = 5
)

// ExecStateReader is the slice of StateReader the Execution Engine needs.
type ExecStateReader interface {
	GetAgreement(ctx context.Context, agreementID models.AgreementId) (*models.AgreementDetails, bool, error)
}

// ExecDataExchange is the slice of DataExchange the Execution Engine needs.
type ExecDataExchange interface {
	RetryDownload(ctx context.Context, contentID models.ContentId, n int) ([]byte, bool, error)
	HashUpload(ctx context.Context, data []byte) (models.ContentId, error)
}

// ExecTxSubmitter is the slice of TxSubmitter the Execution Engine needs.
type ExecTxSubmitter interface {
	ResponseCreate(ctx context.Context, agreementID models.AgreementId, requestIndex uint32, contentID models.ContentId) error
}

// Predictor is the Inference Connector capability the Request Pipeline
// needs, satisfied structurally by *services.Connector.
type Predictor interface {
	EnsureReady(ctx context.Context) error
	Predict(ctx context.Context, input json.RawMessage) (models.PredictionResponse, error)
}

// ExecutionEngine tracks accepted agreements and, for each RequestCreated
// event against a known agreement whose model is still served, runs the
// Request Pipeline: download input, run inference, upload output, submit
// the response.
type ExecutionEngine struct {
	repo  ModelLookup
	state ExecStateReader
	data  ExecDataExchange
	tx    ExecTxSubmitter

	newConnector func(baseURL string) Predictor
	stats        *stats.Stats

	mu         sync.Mutex
	agreements map[models.AgreementId]models.ModelId
}

// NewExecutionEngine creates an Execution Engine over its collaborators.
// newConnector builds a fresh Inference Connector for a model's
// inference_url; production wiring passes services.NewConnector, tests pass
// a stub. metrics may be nil.
func NewExecutionEngine(repo ModelLookup, state ExecStateReader, data ExecDataExchange, tx ExecTxSubmitter, newConnector func(baseURL string) Predictor, metrics *stats.Stats) *ExecutionEngine {
	return &ExecutionEngine{
		repo:         repo,
		state:        state,
		data:         data,
		tx:           tx,
		newConnector: newConnector,
		stats:        metrics,
		agreements:   make(map[models.AgreementId]models.ModelId),
	}
}

// Run consumes events until ctx is cancelled or events is closed.
func (e *ExecutionEngine) Run(ctx context.Context, events <-chan models.ChainEvent) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-events:
			if !ok {
				return nil
			}
			e.handle(ctx, event)
		}
	}
}

// handle never returns an error: failures within a single event's
// processing are logged and dropped to keep the stream alive.
func (e *ExecutionEngine) handle(ctx context.Context, event models.ChainEvent) {
	switch event.Kind {
	case models.BidAccepted:
		e.handleBidAccepted(ctx, event.OrderID)
	case models.RequestCreated:
		e.handleRequestCreated(ctx, event)
	}
}

// handleBidAccepted fetches the agreement with retry-on-err-or-absent: up
// to 5 attempts at 5 s spacing. If still absent, the event is dropped with
// a warning — the chain was expected to have persisted details by now.
func (e *ExecutionEngine) handleBidAccepted(ctx context.Context, agreementID models.AgreementId) {
	var agreement *models.AgreementDetails

	for attempt := 0; attempt < agreementRetryAttempts; attempt++ {
		a, ok, err := e.state.GetAgreement(ctx, agreementID)
		if err != nil {
			log.Warn().Err(err).Uint32("agreement_id", uint32(agreementID)).Int("attempt", attempt+1).Msg("get_agreement failed, retrying")
		} else if ok {
			agreement = a
			break
		}

		if attempt == agreementRetryAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(agreementRetrySpacing):
		}
	}

	if agreement == nil {
		log.Warn().Uint32("agreement_id", uint32(agreementID)).Msg("agreement not found after retries, dropping")
		return
	}

	e.mu.Lock()
	e.agreements[agreementID] = agreement.ModelID
	e.mu.Unlock()
}

func (e *ExecutionEngine) handleRequestCreated(ctx context.Context, event models.ChainEvent) {
	e.mu.Lock()
	modelID, ok := e.agreements[event.AgreementID]
	e.mu.Unlock()
	if !ok {
		return
	}

	model, ok := e.repo.Get(modelID)
	if !ok {
		log.Warn().Str("model_id", string(modelID)).Msg("model no longer served, dropping request")
		return
	}

	if err := e.runRequestPipeline(ctx, event.AgreementID, event.RequestIndex, event.RequestContentID, model); err != nil {
		log.Warn().Err(err).
			Uint32("agreement_id", uint32(event.AgreementID)).
			Uint32("request_index", event.RequestIndex).
			Msg("request pipeline aborted")
	}
}

// runRequestPipeline downloads the request input, runs inference, uploads
// the result, and submits the response. A download that never succeeds is
// non-fatal; every other failure propagates to the caller, which logs it —
// none of them cancel the engine.
func (e *ExecutionEngine) runRequestPipeline(ctx context.Context, agreementID models.AgreementId, requestIndex uint32, contentID models.ContentId, model models.Model) error {
	content, ok, err := e.data.RetryDownload(ctx, contentID, contentRetryAttempts)
	if err != nil {
		return fmt.Errorf("download request content: %w", err)
	}
	if !ok {
		return fmt.Errorf("request content %s not available after retries", contentID)
	}

	var input json.RawMessage
	if err := json.Unmarshal(content, &input); err != nil {
		return fmt.Errorf("parse request content as JSON: %w", err)
	}

	connector := e.newConnector(model.Details.InferenceURL)
	if err := connector.EnsureReady(ctx); err != nil {
		return fmt.Errorf("model not ready: %w", err)
	}

	prediction, err := connector.Predict(ctx, input)
	if err != nil {
		return fmt.Errorf("predict: %w", err)
	}

	result := models.ExecutionResultFromPrediction(prediction)

	resultBytes, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode execution result: %w", err)
	}

	resultCID, err := e.data.HashUpload(ctx, resultBytes)
	if err != nil {
		return fmt.Errorf("upload execution result: %w", err)
	}

	if err := e.tx.ResponseCreate(ctx, agreementID, requestIndex, resultCID); err != nil {
		return fmt.Errorf("response_create: %w", err)
	}

	if e.stats != nil {
		e.stats.IncResponsesSubmitted()
	}

	log.Info().
		Uint32("agreement_id", uint32(agreementID)).
		Uint32("request_index", requestIndex).
		Str("status", result.Status).
		Msg("response submitted")
	return nil
}
