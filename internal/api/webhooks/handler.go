package webhooks

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/quayside/suitebridge/internal/api"
	"github.com/quayside/suitebridge/internal/bridge"
	"github.com/quayside/suitebridge/internal/domain"
)

// EventProcessor handles one notification; it never fails the batch.
type EventProcessor interface {
	Process(ctx context.Context, event domain.WebhookEvent) bridge.Outcome
}

// Handler accepts HubSpot webhook deliveries.
type Handler struct {
	processor EventProcessor
}

// notification is one element of the inbound batch. HubSpot sends numeric
// ids; json.Number keeps both spellings decodable.
type notification struct {
	EventID          json.Number `json:"eventId"`
	ObjectID         json.Number `json:"objectId"`
	SubscriptionType string      `json:"subscriptionType"`
}

// Receive handles POST /webhooks/hubspot. The body is an array of
// notifications, each processed independently: a failure in one event never
// prevents processing of the rest, and the caller only ever sees a generic
// acknowledgment.
func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	var batch []notification
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid webhook payload", corrID)
		return
	}

	for _, n := range batch {
		h.processor.Process(r.Context(), domain.WebhookEvent{
			EventID:          n.EventID.String(),
			ObjectID:         objectID(n.ObjectID),
			SubscriptionType: n.SubscriptionType,
		})
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"received": len(batch),
	})
}

// objectID normalizes the id, mapping the zero json.Number to "".
func objectID(n json.Number) string {
	if n.String() == "" {
		return ""
	}
	return n.String()
}
