package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type saleCompleted struct {
	SaleID   string  `json:"sale_id"`
	ItemID   string  `json:"item_id"`
	Username string  `json:"username"`
	Amount   float64 `json:"amount"`
}

func TestNewEvent(t *testing.T) {
	payload := saleCompleted{SaleID: "s-1", ItemID: "i-1", Username: "omar", Amount: 19.99}

	event, err := NewEvent("sale.completed", "s-1", "sale", "sales", payload)
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "sale.completed", event.EventType)
	assert.Equal(t, "s-1", event.AggregateID)
	assert.Equal(t, "sale", event.AggregateType)
	assert.Equal(t, "sales", event.Source)
	assert.Equal(t, 1, event.Version)
	assert.False(t, event.Timestamp.IsZero())
}

func TestEvent_RoundTrip(t *testing.T) {
	payload := saleCompleted{SaleID: "s-2", ItemID: "i-9", Username: "rana", Amount: 5}

	event, err := NewEvent("sale.completed", "s-2", "sale", "sales", payload)
	require.NoError(t, err)
	event.WithRequestID("req-42").WithMetadata("channel", "api")

	raw, err := event.Marshal()
	require.NoError(t, err)

	decoded, err := UnmarshalEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, event.EventID, decoded.EventID)
	assert.Equal(t, "req-42", decoded.RequestID)
	assert.Equal(t, "api", decoded.Metadata["channel"])

	var got saleCompleted
	require.NoError(t, decoded.UnmarshalData(&got))
	assert.Equal(t, payload, got)
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "shop.sale.completed", Topic("sale", "completed"))
	assert.Equal(t, "shop.customer.registered", Topic("customer", "registered"))
}
