// Package listener implements the Chain Listener: it turns the chain's log
// stream into a typed domain-event broadcast consumed independently by the
// Bid Engine and the Execution Engine. A lost subscription is a fatal
// error that propagates to the supervisor, which cancels every task and
// shuts the whole process down; the listener does not reconnect in place.
package listener

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog/log"

	"github.com/aimosphere-network/airo-wingman/contracts"
	"github.com/aimosphere-network/airo-wingman/models"
)

// LogSubscriber is the slice of the Protocol Adapter this listener needs:
// subscribing to contract logs and knowing this agent's own provider
// address (to filter BidAccepted events). Defined here, not in protocol, so
// this package can be driven against a stub in tests without a live chain.
type LogSubscriber interface {
	SubscribeFilterLogs(ctx context.Context, q ethereum.FilterQuery, ch chan<- ethtypes.Log) (ethereum.Subscription, error)
	Provider() common.Address
	MarketAddr() common.Address
	ExecAddr() common.Address
}

// eventChanCap is the broadcast channel capacity for each subscriber.
const eventChanCap = 128

// Listener subscribes to the market and execution contracts' logs and
// fans decoded events out to the Bid Engine and Execution Engine, each
// over its own bounded channel (Go has no native broadcast channel; two
// independent bounded channels are the idiomatic substitute, each with its
// own lag tolerance).
type Listener struct {
	source LogSubscriber

	bidCh  chan models.ChainEvent
	execCh chan models.ChainEvent
}

// New creates a Listener over source. Call BidEvents/ExecEvents to obtain
// each engine's receive-only view before calling Run.
func New(source LogSubscriber) *Listener {
	return &Listener{
		source: source,
		bidCh:  make(chan models.ChainEvent, eventChanCap),
		execCh: make(chan models.ChainEvent, eventChanCap),
	}
}

// BidEvents returns the Bid Engine's subscriber channel.
func (l *Listener) BidEvents() <-chan models.ChainEvent { return l.bidCh }

// ExecEvents returns the Execution Engine's subscriber channel.
func (l *Listener) ExecEvents() <-chan models.ChainEvent { return l.execCh }

// Run subscribes to logs from both contracts and processes them until ctx
// is cancelled or the subscription ends. A subscription ending for any
// reason other than context cancellation is fatal.
func (l *Listener) Run(ctx context.Context) error {
	logCh := make(chan ethtypes.Log, eventChanCap)

	query := ethereum.FilterQuery{
		Addresses: []common.Address{l.source.MarketAddr(), l.source.ExecAddr()},
	}

	sub, err := l.source.SubscribeFilterLogs(ctx, query, logCh)
	if err != nil {
		return fmt.Errorf("subscribe to chain logs: %w", err)
	}
	defer sub.Unsubscribe()

	log.Info().Msg("chain listener subscribed")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("chain listener cancelled")
			return nil

		case err := <-sub.Err():
			if err == nil {
				return fmt.Errorf("chain log subscription closed")
			}
			return fmt.Errorf("chain log subscription failed: %w", err)

		case vLog := <-logCh:
			event, ok, err := l.decode(vLog)
			if err != nil {
				log.Warn().Err(err).Str("tx", vLog.TxHash.Hex()).Msg("failed to decode chain log, ignoring")
				continue
			}
			if !ok {
				continue
			}
			l.publish(event)
		}
	}
}

// decode maps a raw log into a ChainEvent by its first topic, applying the
// BidAccepted provider filter inline: a BidAccepted event is only surfaced
// if its provider equals this agent's signing identity.
func (l *Listener) decode(vLog ethtypes.Log) (models.ChainEvent, bool, error) {
	if len(vLog.Topics) == 0 {
		return models.ChainEvent{}, false, nil
	}

	switch vLog.Topics[0] {
	case contracts.OrderCreatedTopic:
		var data struct {
			ModelId []byte
		}
		if err := contracts.ParsedAiroMarketABI.UnpackIntoInterface(&data, "OrderCreated", vLog.Data); err != nil {
			return models.ChainEvent{}, false, err
		}
		if len(vLog.Topics) < 2 {
			return models.ChainEvent{}, false, fmt.Errorf("OrderCreated log missing indexed orderId topic")
		}
		orderID := models.OrderId(new(big.Int).SetBytes(vLog.Topics[1].Bytes()).Uint64())

		return models.ChainEvent{
			Kind:    models.OrderCreated,
			OrderID: orderID,
			ModelID: models.ModelId(data.ModelId),
		}, true, nil

	case contracts.BidAcceptedTopic:
		if len(vLog.Topics) < 3 {
			return models.ChainEvent{}, false, fmt.Errorf("BidAccepted log missing indexed topics")
		}
		orderID := models.OrderId(new(big.Int).SetBytes(vLog.Topics[1].Bytes()).Uint64())
		provider := common.BytesToAddress(vLog.Topics[2].Bytes())

		if provider != l.source.Provider() {
			return models.ChainEvent{}, false, nil
		}

		return models.ChainEvent{
			Kind:    models.BidAccepted,
			OrderID: orderID,
		}, true, nil

	case contracts.RequestCreatedTopic:
		var data struct {
			RequestIndex uint32
			ContentId    [32]byte
		}
		if err := contracts.ParsedAiroExecutionABI.UnpackIntoInterface(&data, "RequestCreated", vLog.Data); err != nil {
			return models.ChainEvent{}, false, err
		}
		if len(vLog.Topics) < 2 {
			return models.ChainEvent{}, false, fmt.Errorf("RequestCreated log missing indexed agreementId topic")
		}
		agreementID := models.AgreementId(new(big.Int).SetBytes(vLog.Topics[1].Bytes()).Uint64())

		return models.ChainEvent{
			Kind:             models.RequestCreated,
			AgreementID:      agreementID,
			RequestIndex:     data.RequestIndex,
			RequestContentID: models.ContentId(data.ContentId),
		}, true, nil

	default:
		return models.ChainEvent{}, false, nil
	}
}

// publish fans event out to both engine channels. A full channel means a
// lagging subscriber; the listener logs and continues rather than
// blocking the producer for a slow consumer.
func (l *Listener) publish(event models.ChainEvent) {
	select {
	case l.bidCh <- event:
	default:
		log.Warn().Str("kind", event.Kind.String()).Msg("bid engine channel full, dropping event")
	}

	select {
	case l.execCh <- event:
	default:
		log.Warn().Str("kind", event.Kind.String()).Msg("execution engine channel full, dropping event")
	}
}
