package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/mmcdole/reverig/internal/domain"
)

// wsReply is a response frame matched to its request by ID
type wsReply struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// WSTransport multiplexes calls over one websocket connection
type WSTransport struct {
	conn   *websocket.Conn
	logger *slog.Logger

	writeMu sync.Mutex // gorilla allows one concurrent writer

	mu      sync.Mutex
	pending map[uint64]chan wsReply
	err     error // set once the read loop ends

	nextID atomic.Uint64
	closed chan struct{}
}

// DialWebSocket connects to a websocket bridge endpoint
func DialWebSocket(ctx context.Context, url string, logger *slog.Logger) (*WSTransport, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}

	t := &WSTransport{
		conn:    conn,
		logger:  logger,
		pending: make(map[uint64]chan wsReply),
		closed:  make(chan struct{}),
	}
	go t.readLoop()

	logger.Debug("bridge websocket connected", "url", url)
	return t, nil
}

// Call sends one request frame and waits for the matching reply
func (t *WSTransport) Call(ctx context.Context, plugin, method string, args any) (json.RawMessage, error) {
	id := t.nextID.Add(1)
	ch := make(chan wsReply, 1)

	t.mu.Lock()
	if t.err != nil {
		err := t.err
		t.mu.Unlock()
		return nil, err
	}
	t.pending[id] = ch
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		delete(t.pending, id)
		t.mu.Unlock()
	}()

	t.writeMu.Lock()
	err := t.conn.WriteJSON(callRequest{ID: id, Plugin: plugin, Method: method, Args: args})
	t.writeMu.Unlock()
	if err != nil {
		t.logger.ErrorContext(ctx, "bridge websocket write failed", "method", method, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}

	select {
	case reply := <-ch:
		if reply.Error != "" {
			return nil, fmt.Errorf("%s: %s", method, reply.Error)
		}
		return reply.Result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-t.closed:
		t.mu.Lock()
		err := t.err
		t.mu.Unlock()
		return nil, err
	}
}

// readLoop dispatches reply frames until the connection fails
func (t *WSTransport) readLoop() {
	for {
		var reply wsReply
		if err := t.conn.ReadJSON(&reply); err != nil {
			t.fail(err)
			return
		}

		t.mu.Lock()
		ch, ok := t.pending[reply.ID]
		t.mu.Unlock()
		if !ok {
			t.logger.Debug("bridge websocket reply without caller", "id", reply.ID)
			continue
		}
		select {
		case ch <- reply:
		default:
			t.logger.Debug("bridge websocket duplicate reply", "id", reply.ID)
		}
	}
}

func (t *WSTransport) fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return
	}
	if websocket.IsCloseError(err, websocket.CloseNormalClosure) || errors.Is(err, ErrClosed) {
		t.err = ErrClosed
	} else {
		t.logger.Warn("bridge websocket read failed", "error", err)
		t.err = fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	close(t.closed)
}

// Close sends a close frame and tears the connection down
func (t *WSTransport) Close() error {
	t.writeMu.Lock()
	_ = t.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	t.writeMu.Unlock()

	t.mu.Lock()
	if t.err == nil {
		t.err = ErrClosed
		close(t.closed)
	}
	t.mu.Unlock()

	return t.conn.Close()
}
