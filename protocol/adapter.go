// Package protocol is the Protocol Adapter: a single facade holding a
// connected chain client and this provider's signing key, implementing the
// TxSubmitter, StateReader, and DataExchange capabilities the rest of the
// agent needs to talk to the chain.
package protocol

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/zerolog/log"

	"github.com/aimosphere-network/airo-wingman/contracts"
)

// Adapter is the concrete, chain-backed implementation of the capability
// interfaces the engines and the Chain Listener consume. It is safe for
// concurrent use by the Chain Listener, Bid Engine, and Execution
// Engine simultaneously: the underlying ethclient.Client and rpc.Client are
// themselves goroutine-safe, and the signing key is read-only after
// construction.
type Adapter struct {
	rpcClient *rpc.Client
	client    *ethclient.Client

	signer     *ecdsa.PrivateKey
	provider   common.Address
	chainID    *big.Int
	marketAddr common.Address
	execAddr   common.Address

	marketContract *bind.BoundContract
	execContract   *bind.BoundContract
}

// New connects to the chain node at url and derives this provider's signing
// identity from signerKeyHex, a hex-encoded ECDSA private key — the one
// fatal-at-startup secret this agent owns.
func New(ctx context.Context, url, signerKeyHex string, chainID *big.Int, marketAddr, execAddr common.Address) (*Adapter, error) {
	key, err := crypto.HexToECDSA(trimHexPrefix(signerKeyHex))
	if err != nil {
		return nil, fmt.Errorf("parse signer key: %w", err)
	}
	provider := crypto.PubkeyToAddress(key.PublicKey)

	rpcClient, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial chain node %s: %w", url, err)
	}
	client := ethclient.NewClient(rpcClient)

	marketContract := bind.NewBoundContract(marketAddr, contracts.ParsedAiroMarketABI, client, client, client)
	execContract := bind.NewBoundContract(execAddr, contracts.ParsedAiroExecutionABI, client, client, client)

	log.Info().Str("url", url).Str("provider", provider.Hex()).Msg("connected to airo node")

	return &Adapter{
		rpcClient:      rpcClient,
		client:         client,
		signer:         key,
		provider:       provider,
		chainID:        chainID,
		marketAddr:     marketAddr,
		execAddr:       execAddr,
		marketContract: marketContract,
		execContract:   execContract,
	}, nil
}

// Provider returns this agent's signing account id, used by the Chain
// Listener to filter BidAccepted events to this provider only.
func (a *Adapter) Provider() common.Address {
	return a.provider
}

// Client exposes the underlying ethclient, for callers that need direct
// chain access beyond the capability methods below.
func (a *Adapter) Client() *ethclient.Client {
	return a.client
}

// MarketAddr and ExecAddr expose the two contract addresses this adapter
// watches/calls, for the Chain Listener's filter query.
func (a *Adapter) MarketAddr() common.Address { return a.marketAddr }
func (a *Adapter) ExecAddr() common.Address   { return a.execAddr }

// SubscribeFilterLogs delegates to the underlying ethclient, satisfying the
// Chain Listener's LogSubscriber capability.
func (a *Adapter) SubscribeFilterLogs(ctx context.Context, q ethereum.FilterQuery, ch chan<- ethtypes.Log) (ethereum.Subscription, error) {
	return a.client.SubscribeFilterLogs(ctx, q, ch)
}

func (a *Adapter) transactor(ctx context.Context) (*bind.TransactOpts, error) {
	auth, err := bind.NewKeyedTransactorWithChainID(a.signer, a.chainID)
	if err != nil {
		return nil, fmt.Errorf("build transactor: %w", err)
	}
	auth.Context = ctx
	return auth, nil
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
