package admin_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quayside/suitebridge/internal/api"
	"github.com/quayside/suitebridge/internal/api/admin"
	"github.com/quayside/suitebridge/internal/database"
	"github.com/quayside/suitebridge/internal/journal"
	"github.com/quayside/suitebridge/internal/testhelpers"
)

func setupServer(t *testing.T) (*httptest.Server, *journal.Journal) {
	t.Helper()
	db := testhelpers.NewTestDB(t)
	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	j := journal.New(db)

	mux := http.NewServeMux()
	admin.RegisterRoutes(mux, j)
	return httptest.NewServer(api.Chain(mux, api.RequestID())), j
}

func TestHealth(t *testing.T) {
	srv, _ := setupServer(t)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/_bridge/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestDeliveriesListsJournalEntries(t *testing.T) {
	srv, j := setupServer(t)
	defer srv.Close()

	ctx := context.Background()
	for _, outcome := range []string{journal.OutcomeCompleted, journal.OutcomeSkipped} {
		if _, err := j.Record(ctx, journal.Entry{ObjectType: "deals", ObjectID: "7", Outcome: outcome}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	resp, err := http.Get(srv.URL + "/_bridge/deliveries")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Results []journal.Entry `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Results) != 2 {
		t.Errorf("results = %d, want 2", len(body.Results))
	}
}

func TestDeliveriesEmptyJournal(t *testing.T) {
	srv, _ := setupServer(t)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/_bridge/deliveries")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var body struct {
		Results []journal.Entry `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Results == nil {
		t.Error("results is null, want empty array")
	}
}

func TestDeliveriesRejectsBadLimit(t *testing.T) {
	srv, _ := setupServer(t)
	defer srv.Close()

	for _, limit := range []string{"0", "-5", "9999", "abc"} {
		resp, err := http.Get(srv.URL + "/_bridge/deliveries?limit=" + limit)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("limit=%s: status = %d, want 400", limit, resp.StatusCode)
		}
	}
}
