// Package wsbridge delivers state-update frames to a hosting application
// over a websocket, the transport used when the editor runs embedded.
package wsbridge

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/avelar0/kinmap/internal/logging"
	"github.com/avelar0/kinmap/pkg/domain"
)

const queueSize = 64

// Bridge implements ports.HostNotifier. Frames are written by a single
// goroutine so delivery order matches enqueue order.
type Bridge struct {
	conn   *websocket.Conn
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
	frames chan *domain.StateUpdate
	done   chan struct{}
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the bridge logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bridge) { b.logger = l }
}

// Dial connects to the host endpoint and starts the writer.
func Dial(ctx context.Context, url string, opts ...Option) (*Bridge, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial host: %w", err)
	}
	return NewFromConn(conn, opts...), nil
}

// NewFromConn wraps an established connection, e.g. one accepted server-side.
func NewFromConn(conn *websocket.Conn, opts ...Option) *Bridge {
	b := &Bridge{
		conn:   conn,
		logger: logging.NewNop(),
		frames: make(chan *domain.StateUpdate, queueSize),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	go b.writer()
	return b
}

func (b *Bridge) writer() {
	defer close(b.done)
	for frame := range b.frames {
		if err := b.conn.WriteJSON(frame); err != nil {
			b.logger.Warn("state update delivery failed", "error", err)
		}
	}
}

// NotifyStateUpdate enqueues a frame for delivery. It never blocks the
// mutation path: when the queue is full the oldest pending frame is dropped,
// since a newer full-state frame supersedes it.
func (b *Bridge) NotifyStateUpdate(ctx context.Context, update *domain.StateUpdate) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("bridge is closed")
	}

	for {
		select {
		case b.frames <- update:
			return nil
		default:
			select {
			case <-b.frames:
				b.logger.Debug("state update queue full, dropping oldest frame")
			default:
			}
		}
	}
}

// Close flushes pending frames and closes the connection.
func (b *Bridge) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.frames)
	b.mu.Unlock()

	<-b.done
	return b.conn.Close()
}
