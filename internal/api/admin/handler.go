package admin

import (
	"net/http"
	"strconv"

	"github.com/quayside/suitebridge/internal/api"
	"github.com/quayside/suitebridge/internal/journal"
)

// Handler serves the operator API at /_bridge/.
type Handler struct {
	journal *journal.Journal
}

const maxDeliveriesLimit = 500

// Deliveries handles GET /_bridge/deliveries, returning recent journal
// entries, newest first.
func (h *Handler) Deliveries(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 || parsed > maxDeliveriesLimit {
			api.WriteError(w, http.StatusBadRequest, "limit must be between 1 and 500", corrID)
			return
		}
		limit = parsed
	}

	entries, err := h.journal.Recent(r.Context(), limit)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, err.Error(), corrID)
		return
	}
	if entries == nil {
		entries = []journal.Entry{}
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{"results": entries})
}

// Health handles GET /_bridge/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
