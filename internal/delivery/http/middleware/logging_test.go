package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturingHandler records the last log record for assertions.
type capturingHandler struct {
	mu     sync.Mutex
	record slog.Record
}

func (h *capturingHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *capturingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.record = r.Clone()
	return nil
}

func (h *capturingHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }

func (h *capturingHandler) WithGroup(_ string) slog.Handler { return h }

func (h *capturingHandler) attrs() map[string]slog.Value {
	h.mu.Lock()
	defer h.mu.Unlock()
	attrs := make(map[string]slog.Value)
	h.record.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value
		return true
	})
	return attrs
}

func TestLoggingMiddleware(t *testing.T) {
	var cap capturingHandler
	logger := slog.New(&cap)

	tests := []struct {
		name          string
		handlerStatus int
		path          string
		method        string
		wantRoute     string
	}{
		{"ok status", http.StatusOK, "/events/gophercon", http.MethodGet, "GET /events/{slug}"},
		{"created", http.StatusCreated, "/bookings", http.MethodPost, "POST /bookings"},
		{"server error", http.StatusInternalServerError, "/events", http.MethodPost, "POST /events"},
		{"unmatched", http.StatusNotFound, "/nope", http.MethodGet, ""},
	}

	mux := http.NewServeMux()
	var status int
	handle := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(status) }
	mux.HandleFunc("GET /events/{slug}", handle)
	mux.HandleFunc("POST /events", handle)
	mux.HandleFunc("POST /bookings", handle)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status = tt.handlerStatus
			handler := LoggingMiddleware(logger, mux)
			req := httptest.NewRequest(tt.method, "http://test"+tt.path, nil)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			require.Equal(t, "request", cap.record.Message)
			attrs := cap.attrs()
			for _, key := range []string{"request_id", "method", "path", "route", "status", "duration_ms"} {
				require.Contains(t, attrs, key)
			}
			require.Equal(t, tt.method, attrs["method"].String())
			require.Equal(t, tt.path, attrs["path"].String())
			require.Equal(t, tt.wantRoute, attrs["route"].String())
			require.Equal(t, int64(tt.handlerStatus), attrs["status"].Int64())
			require.GreaterOrEqual(t, attrs["duration_ms"].Int64(), int64(0))
			require.Equal(t, tt.handlerStatus, rr.Code)
			require.NotEmpty(t, rr.Header().Get(RequestIDHeader))
			require.Equal(t, rr.Header().Get(RequestIDHeader), attrs["request_id"].String())
		})
	}
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	logger := slog.New(&capturingHandler{})
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = RequestIDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	rr := httptest.NewRecorder()
	LoggingMiddleware(logger, next).ServeHTTP(rr, req)

	assert.Equal(t, "req-42", seen)
	assert.Equal(t, "req-42", rr.Header().Get(RequestIDHeader))

	_, ok := RequestIDFromContext(context.Background())
	assert.False(t, ok)
}
