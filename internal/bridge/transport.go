// Package bridge is the client side of the host's callServerMethod surface.
//
// A Transport carries one call (plugin, method, args) to the backend and
// returns the method's raw return value. Client layers the typed workflow
// calls on top and accepts results that arrive either as JSON objects or as
// JSON strings holding an encoded object.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrMalformedResponse indicates a result that could not be decoded
var ErrMalformedResponse = errors.New("malformed backend response")

// ErrClosed indicates a call on a transport that has been closed
var ErrClosed = errors.New("bridge transport closed")

// Transport delivers a single backend call
type Transport interface {
	Call(ctx context.Context, plugin, method string, args any) (json.RawMessage, error)
	Close() error
}

// callRequest is the envelope sent for every call
type callRequest struct {
	ID     uint64 `json:"id,omitempty"`
	Plugin string `json:"plugin"`
	Method string `json:"method"`
	Args   any    `json:"args"`
}
