package ports

import (
	"context"

	"github.com/avelar0/kinmap/pkg/domain"
)

// HostNotifier delivers state-update frames to a hosting context while the
// editor is embedded. Delivery is best-effort and must preserve the order in
// which updates were enqueued; it is never awaited by the mutation path.
type HostNotifier interface {
	// NotifyStateUpdate enqueues one update frame for delivery.
	NotifyStateUpdate(ctx context.Context, update *domain.StateUpdate) error

	// Close flushes pending updates and releases the transport.
	Close() error
}
