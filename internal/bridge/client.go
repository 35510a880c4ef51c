package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmcdole/reverig/internal/domain"
)

// Backend method names
const (
	MethodHasTool     = "HasReverigToolForApp"
	MethodStartAdd    = "StartAddViaReverigTool"
	MethodAddStatus   = "GetAddViaReverigToolStatus"
	MethodRemoveTool  = "RemoveReverigToolForApp"
	MethodAddDLCs     = "AddDLCs"
	MethodRestartHost = "RestartSteam"
	MethodLoggerWarn  = "Logger.warn"
)

const defaultTimeout = 10 * time.Second

// CallHook observes every finished call (used for metrics)
type CallHook func(method string, elapsed time.Duration, err error)

// appArgs is the payload of every per-app call
type appArgs struct {
	AppID              domain.AppID `json:"appid"`
	ContentScriptQuery string       `json:"contentScriptQuery"`
}

// Client implements domain.ToolRepository and domain.RemoteLogger over a Transport
type Client struct {
	transport Transport
	plugin    string
	timeout   time.Duration
	hook      CallHook
	logger    *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithTimeout bounds each call; zero disables the bound
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithCallHook registers a hook run after every call
func WithCallHook(h CallHook) Option {
	return func(c *Client) {
		c.hook = h
	}
}

// NewClient creates a bridge client for the given plugin
func NewClient(transport Transport, plugin string, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		transport: transport,
		plugin:    plugin,
		timeout:   defaultTimeout,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// call runs one method with the per-call timeout and hook
func (c *Client) call(ctx context.Context, method string, args any) (json.RawMessage, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := c.transport.Call(ctx, c.plugin, method, args)
	if c.hook != nil {
		c.hook(method, time.Since(start), err)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return raw, nil
}

// callInto runs a method and decodes its result into dest
func (c *Client) callInto(ctx context.Context, method string, args any, dest any) error {
	raw, err := c.call(ctx, method, args)
	if err != nil {
		return err
	}
	if err := Decode(raw, dest); err != nil {
		c.logger.DebugContext(ctx, "bridge decode failed", "method", method, "error", err)
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

func forApp(id domain.AppID) appArgs {
	return appArgs{AppID: id}
}

// HasTool asks whether the item is already installed
func (c *Client) HasTool(ctx context.Context, id domain.AppID) (domain.PresenceResult, error) {
	var res domain.PresenceResult
	err := c.callInto(ctx, MethodHasTool, forApp(id), &res)
	return res, err
}

// StartAdd kicks off the backend install; the result is ignored
func (c *Client) StartAdd(ctx context.Context, id domain.AppID) error {
	_, err := c.call(ctx, MethodStartAdd, forApp(id))
	return err
}

// AddStatus fetches the current install state
func (c *Client) AddStatus(ctx context.Context, id domain.AppID) (domain.StatusResult, error) {
	var res domain.StatusResult
	err := c.callInto(ctx, MethodAddStatus, forApp(id), &res)
	return res, err
}

// RemoveTool uninstalls the item
func (c *Client) RemoveTool(ctx context.Context, id domain.AppID) (domain.RemoveResult, error) {
	var res domain.RemoveResult
	err := c.callInto(ctx, MethodRemoveTool, forApp(id), &res)
	return res, err
}

// AddDLCs adds the item's downloadable content
func (c *Client) AddDLCs(ctx context.Context, id domain.AppID) (domain.DLCResult, error) {
	var res domain.DLCResult
	err := c.callInto(ctx, MethodAddDLCs, forApp(id), &res)
	return res, err
}

// RestartHost asks the backend to restart the host client
func (c *Client) RestartHost(ctx context.Context) error {
	_, err := c.call(ctx, MethodRestartHost, struct {
		ContentScriptQuery string `json:"contentScriptQuery"`
	}{})
	return err
}

// Warn writes a line to the backend log
func (c *Client) Warn(ctx context.Context, message string) error {
	_, err := c.call(ctx, MethodLoggerWarn, struct {
		Message string `json:"message"`
	}{Message: message})
	return err
}

// Close closes the underlying transport
func (c *Client) Close() error {
	return c.transport.Close()
}
