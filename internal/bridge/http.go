package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mmcdole/reverig/internal/domain"
)

const userAgent = "reverig/1.0"

// HTTPTransport posts calls to <baseURL>/call
type HTTPTransport struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPTransport creates a transport for an HTTP bridge endpoint.
// Timeouts are carried by the call context, not the http.Client.
func NewHTTPTransport(baseURL string, logger *slog.Logger) *HTTPTransport {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPTransport{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Call performs one POST and returns the response body as the raw result
func (t *HTTPTransport) Call(ctx context.Context, plugin, method string, args any) (json.RawMessage, error) {
	payload, err := json.Marshal(callRequest{Plugin: plugin, Method: method, Args: args})
	if err != nil {
		return nil, fmt.Errorf("failed to encode call: %w", err)
	}

	reqURL := t.baseURL + "/call"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	t.logger.DebugContext(ctx, "bridge request", "method", method, "url", reqURL)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		t.logger.ErrorContext(ctx, "bridge request failed", "method", method, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.logger.ErrorContext(ctx, "bridge request error", "method", method, "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return json.RawMessage(body), nil
}

// Close releases idle connections
func (t *HTTPTransport) Close() error {
	t.httpClient.CloseIdleConnections()
	return nil
}
