package admin

import (
	"net/http"

	"github.com/quayside/suitebridge/internal/journal"
)

// RegisterRoutes registers the operator endpoints on mux.
func RegisterRoutes(mux *http.ServeMux, j *journal.Journal) {
	h := &Handler{journal: j}
	mux.HandleFunc("GET /_bridge/deliveries", h.Deliveries)
	mux.HandleFunc("GET /_bridge/health", h.Health)
}
