package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/config"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/logging"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/metrics"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const requestIDHeader = "X-Request-ID"

// NewHTTPClient builds the client shared by every gateway. The backend keeps
// the signed-in user in a cookie session, so the client carries a jar.
func NewHTTPClient(cfg config.Backend) (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &http.Client{
		Jar:       jar,
		Timeout:   cfg.RequestTimeout,
		Transport: otelhttp.NewTransport(metrics.Transport(http.DefaultTransport)),
	}, nil
}

type backend struct {
	baseURL string
	client  *http.Client
}

func newBackend(baseURL string, client *http.Client) backend {
	if client == nil {
		client = http.DefaultClient
	}

	return backend{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// do sends one request. route is the path pattern used for metric labels;
// path is the concrete, already escaped path. A transport failure is returned
// as err; any HTTP status, including errors, comes back as a response.
func (b backend) do(ctx context.Context, method, route, path string, body any) (*http.Response, error) {
	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(metrics.WithRoute(ctx, route), method, b.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	req.Header.Set("Accept", "application/json, text/plain")

	requestID := logging.CorrelationID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	req.Header.Set(requestIDHeader, requestID)

	return b.client.Do(req)
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func readText(resp *http.Response) (string, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return strings.TrimSpace(string(data)), nil
}
