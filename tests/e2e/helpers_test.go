package e2e_test

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

// postWebhook delivers a webhook batch to the running server and returns the
// response status and decoded body.
func postWebhook(t *testing.T, body string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Post(serverURL+"/webhooks/hubspot", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post webhook: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	var decoded map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode response %q: %v", raw, err)
		}
	}
	return resp.StatusCode, decoded
}

// delivery mirrors the journal entry shape served by the operator API.
type delivery struct {
	EventID    string `json:"eventId"`
	ObjectType string `json:"objectType"`
	ObjectID   string `json:"objectId"`
	Action     string `json:"action"`
	Outcome    string `json:"outcome"`
	Detail     string `json:"detail"`
}

// deliveriesFor polls the operator API until a journal entry for eventID
// appears or the timeout expires.
func deliveryForEvent(t *testing.T, eventID string) delivery {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(serverURL + "/_bridge/deliveries?limit=500")
		if err != nil {
			t.Fatalf("get deliveries: %v", err)
		}
		var body struct {
			Results []delivery `json:"results"`
		}
		err = json.NewDecoder(resp.Body).Decode(&body)
		_ = resp.Body.Close()
		if err != nil {
			t.Fatalf("decode deliveries: %v", err)
		}
		for _, d := range body.Results {
			if d.EventID == eventID {
				return d
			}
		}
		time.Sleep(25 * time.Millisecond)
	}
	t.Fatalf("no journal entry for event %s", eventID)
	return delivery{}
}

// callsTo filters captured ERP requests by path.
func callsTo(calls []erpCall, path string) []erpCall {
	var out []erpCall
	for _, c := range calls {
		if c.Path == path {
			out = append(out, c)
		}
	}
	return out
}
