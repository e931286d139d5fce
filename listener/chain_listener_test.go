package listener

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aimosphere-network/airo-wingman/contracts"
	"github.com/aimosphere-network/airo-wingman/models"
)

var testProvider = common.HexToAddress("0x00000000000000000000000000000000000001")

type fakeSubscription struct {
	errCh chan error
}

func (f *fakeSubscription) Unsubscribe() {}
func (f *fakeSubscription) Err() <-chan error { return f.errCh }

type fakeLogSubscriber struct {
	logs chan<- ethtypes.Log
	sub  *fakeSubscription
}

func (f *fakeLogSubscriber) SubscribeFilterLogs(ctx context.Context, q ethereum.FilterQuery, ch chan<- ethtypes.Log) (ethereum.Subscription, error) {
	f.logs = ch
	f.sub = &fakeSubscription{errCh: make(chan error)}
	return f.sub, nil
}

func (f *fakeLogSubscriber) Provider() common.Address   { return testProvider }
func (f *fakeLogSubscriber) MarketAddr() common.Address { return common.HexToAddress("0xaaaa000000000000000000000000000000aaaa") }
func (f *fakeLogSubscriber) ExecAddr() common.Address   { return common.HexToAddress("0xbbbb000000000000000000000000000000bbbb") }

func topicFromUint32(v uint32) common.Hash {
	return common.BigToHash(new(big.Int).SetUint64(uint64(v)))
}

func packOrderCreatedData(t *testing.T, modelID []byte) []byte {
	t.Helper()
	args := abi.Arguments{{Type: mustType(t, "bytes")}}
	data, err := args.Pack(modelID)
	require.NoError(t, err)
	return data
}

func mustType(t *testing.T, typ string) abi.Type {
	t.Helper()
	ty, err := abi.NewType(typ, "", nil)
	require.NoError(t, err)
	return ty
}

func TestListener_OrderCreatedIsBroadcastToBothEngines(t *testing.T) {
	source := &fakeLogSubscriber{}
	l := New(source)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	// Wait for the subscription to be established.
	require.Eventually(t, func() bool { return source.logs != nil }, time.Second, time.Millisecond)

	source.logs <- ethtypes.Log{
		Topics: []common.Hash{contracts.OrderCreatedTopic, topicFromUint32(7)},
		Data:   packOrderCreatedData(t, []byte("resnet")),
	}

	var bidEvent, execEvent models.ChainEvent
	select {
	case bidEvent = <-l.BidEvents():
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for bid engine event")
	}
	select {
	case execEvent = <-l.ExecEvents():
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for execution engine event")
	}

	assert.Equal(t, models.OrderCreated, bidEvent.Kind)
	assert.Equal(t, models.OrderId(7), bidEvent.OrderID)
	assert.Equal(t, models.ModelId("resnet"), bidEvent.ModelID)
	assert.Equal(t, bidEvent, execEvent)

	cancel()
	require.NoError(t, <-done)
}

func TestListener_BidAcceptedFilteredToSelf(t *testing.T) {
	source := &fakeLogSubscriber{}
	l := New(source)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()
	require.Eventually(t, func() bool { return source.logs != nil }, time.Second, time.Millisecond)

	// This BidAccepted belongs to another provider and must never surface.
	foreignProvider := common.HexToAddress("0x00000000000000000000000000000000009999")
	source.logs <- ethtypes.Log{
		Topics: []common.Hash{contracts.BidAcceptedTopic, topicFromUint32(7), common.BytesToHash(foreignProvider.Bytes())},
	}

	// This BidAccepted is addressed to this agent and must surface.
	source.logs <- ethtypes.Log{
		Topics: []common.Hash{contracts.BidAcceptedTopic, topicFromUint32(8), common.BytesToHash(testProvider.Bytes())},
	}

	select {
	case event := <-l.BidEvents():
		assert.Equal(t, models.OrderId(8), event.OrderID)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for this agent's BidAccepted event")
	}

	select {
	case event := <-l.BidEvents():
		t.Fatalf("unexpected second event surfaced: %+v", event)
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	require.NoError(t, <-done)
}

func TestListener_SubscriptionClosedIsFatal(t *testing.T) {
	source := &fakeLogSubscriber{}
	l := New(source)

	done := make(chan error, 1)
	go func() { done <- l.Run(context.Background()) }()
	require.Eventually(t, func() bool { return source.sub != nil }, time.Second, time.Millisecond)

	close(source.sub.errCh)

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after subscription closed")
	}
}
