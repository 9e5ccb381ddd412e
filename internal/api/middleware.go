package api

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type contextKey int

const correlationIDKey contextKey = iota

// CorrelationID returns the correlation ID from the request context.
func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

// Recovery returns middleware that recovers from panics and returns a 500.
func Recovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					slog.Error("panic recovered",
						"error", rec,
						"method", r.Method,
						"path", r.URL.Path,
					)
					WriteError(w, http.StatusInternalServerError, "Internal Server Error", CorrelationID(r.Context()))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequestID returns middleware that generates a correlation ID, stores it in
// the request context, and adds it to the response headers.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := uuid.NewString()
			ctx := context.WithValue(r.Context(), correlationIDKey, id)
			w.Header().Set("X-Correlation-Id", id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// maxSignatureSkew is how far a webhook timestamp may drift before the
// delivery is rejected as a replay.
const maxSignatureSkew = 5 * time.Minute

// maxWebhookBody bounds the request body read for signature verification.
const maxWebhookBody = 1 << 20

// VerifySignature returns middleware that validates HubSpot v3 webhook
// signatures when appSecret is non-empty: base64 HMAC-SHA256 of
// method + URI + body + timestamp under the app secret. With an empty secret
// all requests pass through unverified.
func VerifySignature(appSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/_bridge/") || strings.HasPrefix(r.URL.Path, "/_bridge") {
				next.ServeHTTP(w, r)
				return
			}

			if appSecret == "" {
				next.ServeHTTP(w, r)
				return
			}
			corrID := CorrelationID(r.Context())

			signature := r.Header.Get("X-HubSpot-Signature-v3")
			timestamp := r.Header.Get("X-HubSpot-Request-Timestamp")
			if signature == "" || timestamp == "" {
				WriteError(w, http.StatusUnauthorized, "Missing webhook signature", corrID)
				return
			}

			ms, err := strconv.ParseInt(timestamp, 10, 64)
			if err != nil || absDuration(time.Since(time.UnixMilli(ms))) > maxSignatureSkew {
				WriteError(w, http.StatusUnauthorized, "Webhook timestamp outside tolerance", corrID)
				return
			}

			body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
			if err != nil {
				WriteError(w, http.StatusBadRequest, "Unreadable request body", corrID)
				return
			}
			_ = r.Body.Close()
			r.Body = io.NopCloser(bytes.NewReader(body))

			uri := "https://" + r.Host + r.URL.RequestURI()
			mac := hmac.New(sha256.New, []byte(appSecret))
			mac.Write([]byte(r.Method))
			mac.Write([]byte(uri))
			mac.Write(body)
			mac.Write([]byte(timestamp))
			expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

			if !hmac.Equal([]byte(signature), []byte(expected)) {
				WriteError(w, http.StatusUnauthorized, "Invalid webhook signature", corrID)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	code int
}

// WriteHeader captures the status code and delegates to the wrapped writer.
func (sw *statusWriter) WriteHeader(code int) {
	sw.code = code
	sw.ResponseWriter.WriteHeader(code)
}

// Logging returns middleware that logs each request with slog.
func Logging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
			next.ServeHTTP(sw, r)
			slog.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.code,
				"duration", time.Since(start).String(),
			)
		})
	}
}

// Chain applies middleware in order so that the first middleware is the
// outermost handler.
func Chain(handler http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}
