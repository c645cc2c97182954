// Package autosave periodically persists document snapshots to a
// DocumentStore.
package autosave

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/avelar0/kinmap/internal/logging"
	"github.com/avelar0/kinmap/pkg/domain"
	"github.com/avelar0/kinmap/pkg/ports"
)

// DefaultInterval is used when the caller passes a non-positive interval.
const DefaultInterval = 30 * time.Second

// Snapshotter returns an immutable snapshot of the current document. The
// runner calls it at firing time, so each save captures the state as of the
// tick, not as of Start.
type Snapshotter func() *domain.Document

// Runner writes a snapshot to the store on a fixed interval until stopped.
type Runner struct {
	store    ports.DocumentStore
	docID    string
	interval time.Duration
	snapshot Snapshotter
	logger   *slog.Logger

	// mu is held for the whole of each save so that Stop, which also takes
	// it, cannot return while a write is in flight.
	mu      sync.Mutex
	stopped bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a runner. It does not start ticking until Start is called.
func New(store ports.DocumentStore, docID string, interval time.Duration, snapshot Snapshotter, logger *slog.Logger) *Runner {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		store:    store,
		docID:    docID,
		interval: interval,
		snapshot: snapshot,
		logger:   logger,
	}
}

// Start launches the ticking goroutine. Calling Start on a running or
// stopped runner is a no-op.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped || r.done != nil {
		return
	}
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})

	go r.loop(ctx)
}

func (r *Runner) loop(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.saveOnce(ctx)
		}
	}
}

func (r *Runner) saveOnce(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	if err := r.store.Save(ctx, r.docID, r.snapshot()); err != nil {
		r.logger.Warn("autosave failed", "doc", r.docID, "error", err)
		return
	}
	r.logger.Debug("autosave", "doc", r.docID)
}

// Stop disables autosaving. When Stop returns, no save is in flight and no
// further save will start.
func (r *Runner) Stop() {
	r.mu.Lock()
	r.stopped = true
	cancel := r.cancel
	done := r.done
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}
