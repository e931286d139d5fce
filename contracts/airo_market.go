// Package contracts holds the marketplace ABI this agent speaks: two
// contracts, AiroMarket (orders and bids) and AiroExecution (agreements and
// requests), hand-parsed with go-ethereum's abi.JSON — no abigen bindings,
// just an inline ABI string plus manual Pack/Unpack calls.
package contracts

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
)

// AiroMarketABI covers order publication, bidding, and bid acceptance.
const AiroMarketABI = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true,  "name": "orderId", "type": "uint32"},
      {"indexed": false, "name": "modelId", "type": "bytes"}
    ],
    "name": "OrderCreated",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true,  "name": "orderId",  "type": "uint32"},
      {"indexed": true,  "name": "provider", "type": "address"}
    ],
    "name": "BidAccepted",
    "type": "event"
  },
  {
    "inputs": [
      {"name": "orderId",         "type": "uint32"},
      {"name": "pricePerRequest", "type": "uint128"}
    ],
    "name": "bid_create",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  }
]`

// AiroExecutionABI covers agreement lookup and response submission.
const AiroExecutionABI = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true,  "name": "agreementId",  "type": "uint32"},
      {"indexed": false, "name": "requestIndex", "type": "uint32"},
      {"indexed": false, "name": "contentId",    "type": "bytes32"}
    ],
    "name": "RequestCreated",
    "type": "event"
  },
  {
    "inputs": [
      {"name": "agreementId",  "type": "uint32"},
      {"name": "requestIndex", "type": "uint32"},
      {"name": "contentId",    "type": "bytes32"}
    ],
    "name": "response_create",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [{"name": "agreementId", "type": "uint32"}],
    "name": "agreements",
    "outputs": [
      {"name": "modelId",  "type": "bytes"},
      {"name": "isActive", "type": "bool"}
    ],
    "stateMutability": "view",
    "type": "function"
  }
]`

// ParsedAiroMarketABI and ParsedAiroExecutionABI are parsed once at package
// init rather than per-service-construction.
var (
	ParsedAiroMarketABI    abi.ABI
	ParsedAiroExecutionABI abi.ABI

	// OrderCreatedTopic, BidAcceptedTopic, RequestCreatedTopic are the
	// precomputed keccak256 event signature hashes used to dispatch decoded
	// logs.
	OrderCreatedTopic   = crypto.Keccak256Hash([]byte("OrderCreated(uint32,bytes)"))
	BidAcceptedTopic    = crypto.Keccak256Hash([]byte("BidAccepted(uint32,address)"))
	RequestCreatedTopic = crypto.Keccak256Hash([]byte("RequestCreated(uint32,uint32,bytes32)"))
)

func init() {
	var err error
	ParsedAiroMarketABI, err = abi.JSON(strings.NewReader(AiroMarketABI))
	if err != nil {
		panic("contracts: invalid AiroMarketABI: " + err.Error())
	}
	ParsedAiroExecutionABI, err = abi.JSON(strings.NewReader(AiroExecutionABI))
	if err != nil {
		panic("contracts: invalid AiroExecutionABI: " + err.Error())
	}
}
