// Package netsuite dispatches signed requests to NetSuite RESTlet endpoints
// using OAuth 1.0a token-based authentication with HMAC-SHA256.
package netsuite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrEndpointDisabled is returned when the target URL for an operation is not
// configured. Callers treat this as a soft no-op, not an event failure.
var ErrEndpointDisabled = errors.New("netsuite: endpoint not configured")

// SigningError means a request could not be signed, typically because the
// credential set is incomplete. Credentials are validated lazily at call
// time, so a misconfigured deployment fails on first dispatch.
type SigningError struct {
	Reason string
}

func (e *SigningError) Error() string {
	return "netsuite: cannot sign request: " + e.Reason
}

// RequestError is a non-2xx response from a RESTlet. Status and body are
// carried for diagnostics; the event is failed, never retried.
type RequestError struct {
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("netsuite: RESTlet returned %d: %s", e.StatusCode, e.Body)
}

const maxErrorBody = 4 << 10

// Client issues signed calls to RESTlet endpoints.
type Client struct {
	creds  Credentials
	cookie string
	http   *http.Client

	// now and nonce are swappable for tests.
	now   func() time.Time
	nonce func() (string, error)
}

// New returns a Client signing with the given credentials. cookie, when
// non-empty, is sent verbatim as a Cookie header on every call (app-server
// routing on some deployments).
func New(creds Credentials, cookie string) *Client {
	return &Client{
		creds:  creds,
		cookie: cookie,
		http:   &http.Client{Timeout: 30 * time.Second},
		now:    time.Now,
		nonce:  newNonce,
	}
}

// Send signs and issues one request carrying payload as JSON, returning the
// response body. Every call computes a fresh nonce, timestamp and signature.
func (c *Client) Send(ctx context.Context, method, targetURL string, payload any) ([]byte, error) {
	if targetURL == "" {
		return nil, ErrEndpointDisabled
	}
	if !c.creds.complete() {
		return nil, &SigningError{Reason: "incomplete credential set"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	nonce, err := c.nonce()
	if err != nil {
		return nil, &SigningError{Reason: err.Error()}
	}
	timestamp := strconv.FormatInt(c.now().Unix(), 10)

	header, err := authorizationHeader(c.creds, method, targetURL, nonce, timestamp)
	if err != nil {
		return nil, &SigningError{Reason: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, method, targetURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", header)
	req.Header.Set("Content-Type", "application/json")
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("netsuite: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &RequestError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	return io.ReadAll(resp.Body)
}
