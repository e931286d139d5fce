// Package models holds the plain domain value types shared across the wingman:
// models served, chain identifiers, chain events, and execution results. None of
// these are persisted — the agent keeps no durable state, so there is no ORM tag
// here.
package models

import "math/big"

// ModelId is the interned identifier the chain uses for a served model. On the
// wire it arrives as a length-prefixed byte string and is decoded to UTF-8,
// lossily, matching the chain's own bytes->string convention.
type ModelId string

// ModelDetails is operator-assigned metadata for a served model.
type ModelDetails struct {
	// PricePerRequest is the provider's bid price, a chain balance (native EVM
	// ABI decoding always produces *big.Int, the Go analogue of an unsigned
	// 128-bit integer).
	PricePerRequest *big.Int `json:"pricePerRequest"`
	InferenceURL    string   `json:"inferenceUrl"`
}

// Model pairs an id with its details, the shape returned by list/get.
type Model struct {
	ID      ModelId      `json:"id"`
	Details ModelDetails `json:"details"`
}
