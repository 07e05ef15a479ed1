package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestTransport(t *testing.T) {
	t.Run("Success - Counts by status and route", func(t *testing.T) {
		// Arrange
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := &http.Client{Transport: Transport(nil)}
		counter := backendRequestsTotal.WithLabelValues("404", http.MethodGet, "/products/{id}")
		before := testutil.ToFloat64(counter)

		ctx := WithRoute(context.Background(), "/products/{id}")
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/products/P404", nil)
		require.NoError(t, err)

		// Act
		resp, err := client.Do(req)

		// Assert
		require.NoError(t, err)
		resp.Body.Close()
		assert.InDelta(t, before+1, testutil.ToFloat64(counter), 1e-9)
		assert.InDelta(t, 0, testutil.ToFloat64(backendRequestsInFlight), 1e-9)
	})

	t.Run("Failure - Transport error counted as error", func(t *testing.T) {
		// Arrange
		failing := Transport(roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		}))
		counter := backendRequestsTotal.WithLabelValues("error", http.MethodDelete, "/products/delete/{id}")
		before := testutil.ToFloat64(counter)

		ctx := WithRoute(context.Background(), "/products/delete/{id}")
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete, "http://backend.invalid/products/delete/P1", nil)
		require.NoError(t, err)

		// Act
		resp, err := failing.RoundTrip(req)

		// Assert
		require.Error(t, err)
		assert.Nil(t, resp)
		assert.InDelta(t, before+1, testutil.ToFloat64(counter), 1e-9)
	})

	t.Run("Raw path used without route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/products", nil)

		assert.Equal(t, "/products", routeOf(req))
	})
}

func TestHandler(t *testing.T) {
	rec := httptest.NewRecorder()

	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "backend_requests_in_flight"))
}
