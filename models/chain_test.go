package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentId_StringAndIsZero(t *testing.T) {
	var zero ContentId
	assert.True(t, zero.IsZero())
	assert.Len(t, zero.String(), 64)
	assert.Equal(t, "00", zero.String()[:2])

	nonZero := ContentId{0xde, 0xad, 0xbe, 0xef}
	assert.False(t, nonZero.IsZero())
	assert.Equal(t, "deadbeef", nonZero.String()[:8])
}

func TestChainEventKind_String(t *testing.T) {
	assert.Equal(t, "OrderCreated", OrderCreated.String())
	assert.Equal(t, "BidAccepted", BidAccepted.String())
	assert.Equal(t, "RequestCreated", RequestCreated.String())
}
