package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skateshop/storefront/internal/core/domain/cart"
)

func TestCartChangedPayload(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	body, err := json.Marshal(CartChanged{
		EventType: cartChangedEventType,
		ChangeEvent: cart.ChangeEvent{
			SessionID:  "s1",
			Action:     cart.ActionAdd,
			ItemID:     "v1",
			ItemCount:  3,
			Total:      7500,
			OccurredAt: at,
		},
	})
	require.NoError(t, err)
	require.JSONEq(t, `{
		"eventType": "CartChanged",
		"sessionId": "s1",
		"action": "add",
		"itemId": "v1",
		"itemCount": 3,
		"total": 7500,
		"occurredAt": "2024-05-01T12:00:00Z"
	}`, string(body))
}
