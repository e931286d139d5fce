package protocol

import (
	"context"
	"fmt"
	"math/big"

	"github.com/rs/zerolog/log"

	"github.com/aimosphere-network/airo-wingman/models"
)

// BidCreate submits a bid for orderID at pricePerRequest, signed and
// broadcast with bind.NewKeyedTransactorWithChainID. Returns once the
// transaction is accepted into the node's mempool; it does not wait for
// inclusion, since the Chain Listener observes BidAccepted independently.
func (a *Adapter) BidCreate(ctx context.Context, orderID models.OrderId, pricePerRequest *big.Int) error {
	auth, err := a.transactor(ctx)
	if err != nil {
		return err
	}

	tx, err := a.marketContract.Transact(auth, "bid_create", uint32(orderID), pricePerRequest)
	if err != nil {
		return fmt.Errorf("bid_create(%d): %w", orderID, err)
	}

	log.Debug().
		Uint32("order_id", uint32(orderID)).
		Str("price", pricePerRequest.String()).
		Str("tx", tx.Hash().Hex()).
		Msg("bid submitted")
	return nil
}

// ResponseCreate submits a request's response content id to the execution
// contract, signed the same way as BidCreate.
func (a *Adapter) ResponseCreate(ctx context.Context, agreementID models.AgreementId, requestIndex uint32, contentID models.ContentId) error {
	auth, err := a.transactor(ctx)
	if err != nil {
		return err
	}

	tx, err := a.execContract.Transact(auth, "response_create", uint32(agreementID), requestIndex, [32]byte(contentID))
	if err != nil {
		return fmt.Errorf("response_create(%d, %d): %w", agreementID, requestIndex, err)
	}

	log.Debug().
		Uint32("agreement_id", uint32(agreementID)).
		Uint32("request_index", requestIndex).
		Str("content_id", contentID.String()).
		Str("tx", tx.Hash().Hex()).
		Msg("response submitted")
	return nil
}
