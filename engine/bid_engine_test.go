package engine

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aimosphere-network/airo-wingman/models"
)

type stubModelLookup struct {
	models map[models.ModelId]models.Model
}

func (s *stubModelLookup) Get(id models.ModelId) (models.Model, bool) {
	m, ok := s.models[id]
	return m, ok
}

type stubBidSubmitter struct {
	calls []bidCall
	err   error
}

type bidCall struct {
	orderID models.OrderId
	price   *big.Int
}

func (s *stubBidSubmitter) BidCreate(ctx context.Context, orderID models.OrderId, price *big.Int) error {
	s.calls = append(s.calls, bidCall{orderID: orderID, price: price})
	return s.err
}

func TestBidEngine_BidsWhenModelServed(t *testing.T) {
	repo := &stubModelLookup{models: map[models.ModelId]models.Model{
		"resnet": {ID: "resnet", Details: models.ModelDetails{PricePerRequest: big.NewInt(42)}},
	}}
	tx := &stubBidSubmitter{}
	e := NewBidEngine(repo, tx, nil)

	events := make(chan models.ChainEvent, 1)
	events <- models.ChainEvent{Kind: models.OrderCreated, OrderID: 7, ModelID: "resnet"}
	close(events)

	require.NoError(t, e.Run(context.Background(), events))
	require.Len(t, tx.calls, 1)
	assert.Equal(t, models.OrderId(7), tx.calls[0].orderID)
	assert.Equal(t, big.NewInt(42), tx.calls[0].price)
}

func TestBidEngine_NoOpWhenModelNotServed(t *testing.T) {
	repo := &stubModelLookup{models: map[models.ModelId]models.Model{}}
	tx := &stubBidSubmitter{}
	e := NewBidEngine(repo, tx, nil)

	events := make(chan models.ChainEvent, 1)
	events <- models.ChainEvent{Kind: models.OrderCreated, OrderID: 7, ModelID: "resnet"}
	close(events)

	require.NoError(t, e.Run(context.Background(), events))
	assert.Empty(t, tx.calls)
}

func TestBidEngine_IgnoresNonOrderCreatedEvents(t *testing.T) {
	repo := &stubModelLookup{models: map[models.ModelId]models.Model{
		"resnet": {ID: "resnet", Details: models.ModelDetails{PricePerRequest: big.NewInt(1)}},
	}}
	tx := &stubBidSubmitter{}
	e := NewBidEngine(repo, tx, nil)

	events := make(chan models.ChainEvent, 1)
	events <- models.ChainEvent{Kind: models.BidAccepted, OrderID: 7}
	close(events)

	require.NoError(t, e.Run(context.Background(), events))
	assert.Empty(t, tx.calls)
}

func TestBidEngine_SubmitErrorPropagatesAsFatal(t *testing.T) {
	repo := &stubModelLookup{models: map[models.ModelId]models.Model{
		"resnet": {ID: "resnet", Details: models.ModelDetails{PricePerRequest: big.NewInt(1)}},
	}}
	tx := &stubBidSubmitter{err: assertionError("submit failed")}
	e := NewBidEngine(repo, tx, nil)

	events := make(chan models.ChainEvent, 1)
	events <- models.ChainEvent{Kind: models.OrderCreated, OrderID: 7, ModelID: "resnet"}

	err := e.Run(context.Background(), events)
	require.Error(t, err)
}

func TestBidEngine_StopsOnContextCancellation(t *testing.T) {
	repo := &stubModelLookup{models: map[models.ModelId]models.Model{}}
	tx := &stubBidSubmitter{}
	e := NewBidEngine(repo, tx, nil)

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan models.ChainEvent)

	done := make(chan error, 1)
	go func() { done <- e.Run(ctx, events) }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}

type assertionError string

func (e assertionError) Error() string { return string(e) }
