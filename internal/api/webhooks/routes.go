package webhooks

import "net/http"

// RegisterRoutes registers the webhook endpoints on mux.
func RegisterRoutes(mux *http.ServeMux, processor EventProcessor) {
	h := &Handler{processor: processor}
	mux.HandleFunc("POST /webhooks/hubspot", h.Receive)
}
