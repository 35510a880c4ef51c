package bridge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmcdole/reverig/internal/adapter"
)

// NewTransport creates the transport selected by the backend configuration
func NewTransport(ctx context.Context, cfg adapter.BackendConfig, logger *slog.Logger) (Transport, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("backend URL is required")
	}

	switch cfg.Transport {
	case adapter.TransportHTTP, "":
		return NewHTTPTransport(cfg.URL, logger), nil

	case adapter.TransportWebSocket:
		dialCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
		return DialWebSocket(dialCtx, cfg.URL, logger)

	default:
		return nil, fmt.Errorf("unknown backend transport: %s", cfg.Transport)
	}
}

// New creates a configured client, dialing the transport when needed
func New(ctx context.Context, cfg adapter.BackendConfig, logger *slog.Logger, opts ...Option) (*Client, error) {
	transport, err := NewTransport(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithTimeout(cfg.Timeout)}, opts...)
	return NewClient(transport, cfg.Plugin, logger, opts...), nil
}
