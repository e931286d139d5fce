// Package engine holds the Bid Engine and Execution Engine: the two
// independent consumers of the Chain Listener's event broadcast.
package engine

import (
	"context"
	"math/big"

	"github.com/rs/zerolog/log"

	"github.com/aimosphere-network/airo-wingman/models"
	"github.com/aimosphere-network/airo-wingman/stats"
)

// BidSubmitter is the slice of TxSubmitter the Bid Engine needs.
type BidSubmitter interface {
	BidCreate(ctx context.Context, orderID models.OrderId, pricePerRequest *big.Int) error
}

// ModelLookup is the slice of the Model Repository the engines need: a
// read-only lookup by id.
type ModelLookup interface {
	Get(id models.ModelId) (models.Model, bool)
}

// BidEngine bids on orders naming a model this provider serves. It owns no
// state beyond its references; restart loses nothing it needs to recover.
type BidEngine struct {
	repo  ModelLookup
	tx    BidSubmitter
	stats *stats.Stats
}

// NewBidEngine creates a Bid Engine over repo and tx. metrics may be nil.
func NewBidEngine(repo ModelLookup, tx BidSubmitter, metrics *stats.Stats) *BidEngine {
	return &BidEngine{repo: repo, tx: tx, stats: metrics}
}

// Run consumes events until ctx is cancelled or events is closed. Any
// TxSubmitter error returned from bid_create propagates and becomes a
// supervisor-cancelling fatal error — deliberately strict; a future
// hardening would classify transient vs. permanent submit errors.
func (e *BidEngine) Run(ctx context.Context, events <-chan models.ChainEvent) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := e.handle(ctx, event); err != nil {
				return err
			}
		}
	}
}

func (e *BidEngine) handle(ctx context.Context, event models.ChainEvent) error {
	if event.Kind != models.OrderCreated {
		return nil
	}

	model, ok := e.repo.Get(event.ModelID)
	if !ok {
		return nil
	}

	if err := e.tx.BidCreate(ctx, event.OrderID, model.Details.PricePerRequest); err != nil {
		log.Error().Err(err).Uint32("order_id", uint32(event.OrderID)).Msg("bid submission failed")
		return err
	}

	if e.stats != nil {
		e.stats.IncBidsSubmitted()
	}

	log.Info().
		Uint32("order_id", uint32(event.OrderID)).
		Str("model_id", string(event.ModelID)).
		Str("price", model.Details.PricePerRequest.String()).
		Msg("bid submitted for order")
	return nil
}
