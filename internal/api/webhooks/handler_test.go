package webhooks_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/quayside/suitebridge/internal/api"
	"github.com/quayside/suitebridge/internal/api/webhooks"
	"github.com/quayside/suitebridge/internal/bridge"
	"github.com/quayside/suitebridge/internal/domain"
	"github.com/quayside/suitebridge/internal/journal"
)

// recordingProcessor captures events and returns a fixed outcome per event.
type recordingProcessor struct {
	events   []domain.WebhookEvent
	outcomes []bridge.Outcome
}

func (p *recordingProcessor) Process(ctx context.Context, event domain.WebhookEvent) bridge.Outcome {
	p.events = append(p.events, event)
	if len(p.outcomes) >= len(p.events) {
		return p.outcomes[len(p.events)-1]
	}
	return bridge.Outcome{Status: journal.OutcomeCompleted}
}

func setupServer(p webhooks.EventProcessor) *httptest.Server {
	mux := http.NewServeMux()
	webhooks.RegisterRoutes(mux, p)
	return httptest.NewServer(api.Chain(mux, api.RequestID()))
}

func TestReceiveProcessesEachBatchElement(t *testing.T) {
	p := &recordingProcessor{}
	srv := setupServer(p)
	defer srv.Close()

	body := `[
		{"eventId": 100, "objectId": 42, "subscriptionType": "company.creation"},
		{"eventId": 101, "objectId": 7, "subscriptionType": "deal.propertyChange"},
		{"eventId": 102, "subscriptionType": "contact.creation"}
	]`
	resp, err := http.Post(srv.URL+"/webhooks/hubspot", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var ack struct {
		Status   string `json:"status"`
		Received int    `json:"received"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ack.Status != "ok" || ack.Received != 3 {
		t.Errorf("ack = %+v", ack)
	}

	if len(p.events) != 3 {
		t.Fatalf("processed = %d, want 3", len(p.events))
	}
	if p.events[0].ObjectID != "42" || p.events[0].SubscriptionType != "company.creation" {
		t.Errorf("event[0] = %+v", p.events[0])
	}
	if p.events[1].ObjectID != "7" {
		t.Errorf("event[1] = %+v", p.events[1])
	}
	// Missing objectId decodes to empty, left for the classifier to skip.
	if p.events[2].ObjectID != "" {
		t.Errorf("event[2].ObjectID = %q, want empty", p.events[2].ObjectID)
	}
}

func TestReceiveFailingEventDoesNotBlockBatch(t *testing.T) {
	p := &recordingProcessor{outcomes: []bridge.Outcome{
		{Status: journal.OutcomeFailed, Detail: "downstream api error"},
		{Status: journal.OutcomeCompleted},
	}}
	srv := setupServer(p)
	defer srv.Close()

	body := `[
		{"eventId": 1, "objectId": 7, "subscriptionType": "deal.propertyChange"},
		{"eventId": 2, "objectId": 42, "subscriptionType": "company.creation"}
	]`
	resp, err := http.Post(srv.URL+"/webhooks/hubspot", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 despite per-event failure", resp.StatusCode)
	}
	if len(p.events) != 2 {
		t.Errorf("processed = %d, want both events", len(p.events))
	}
}

func TestReceiveMalformedJSON(t *testing.T) {
	p := &recordingProcessor{}
	srv := setupServer(p)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/webhooks/hubspot", "application/json", strings.NewReader(`{not json`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if len(p.events) != 0 {
		t.Errorf("processed = %d, want 0", len(p.events))
	}
}

func TestReceiveEmptyBatch(t *testing.T) {
	p := &recordingProcessor{}
	srv := setupServer(p)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/webhooks/hubspot", "application/json", strings.NewReader(`[]`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}
