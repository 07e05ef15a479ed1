package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/logging"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/middleware"
	"github.com/stretchr/testify/assert"
)

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(previous) })

	handler := middleware.Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.LoggerFromContext(r.Context()).Info("inside")
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	t.Run("Success - Keeps the caller's request id", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-Request-ID", "req-42")
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.Equal(t, "req-42", rr.Header().Get("X-Request-ID"))
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Contains(t, buf.String(), `"correlation_id":"req-42"`)
		assert.Contains(t, buf.String(), `"http_status":503`)
	})

	t.Run("Success - Generates a request id", func(t *testing.T) {
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	})
}
