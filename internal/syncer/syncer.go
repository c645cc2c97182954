// Package syncer dispatches committed mutations to an external
// system-of-record, asynchronously and in order.
package syncer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/avelar0/kinmap/internal/logging"
	"github.com/avelar0/kinmap/pkg/domain"
	"github.com/avelar0/kinmap/pkg/ports"
)

const queueSize = 256

type job struct {
	op     domain.MutationOp
	entity domain.EntityKind
	id     string
	run    func(context.Context) error
}

// Dispatcher serializes pushes to a SyncClient on a single worker goroutine.
// Enqueue order is delivery order; when the queue overflows the oldest push
// is shed rather than blocking the caller. Failures are reported through the
// OnSyncError hook and logged; the local mutation is never rolled back.
type Dispatcher struct {
	client ports.SyncClient
	hooks  domain.Hooks
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
	jobs   chan job
	done   chan struct{}
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the dispatcher logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// WithHooks sets the callbacks notified on sync failures.
func WithHooks(h domain.Hooks) Option {
	return func(d *Dispatcher) { d.hooks = h }
}

// New creates a dispatcher and starts its worker.
func New(client ports.SyncClient, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		client: client,
		logger: logging.NewNop(),
		jobs:   make(chan job, queueSize),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for j := range d.jobs {
		ctx := context.Background()
		if err := j.run(ctx); err != nil {
			d.logger.Warn("sync push failed",
				"op", string(j.op), "entity", string(j.entity), "id", j.id, "error", err)
			if d.hooks.OnSyncError != nil {
				d.hooks.OnSyncError(ctx, &domain.SyncErrorEvent{
					Timestamp: time.Now(),
					Op:        j.op,
					Entity:    j.entity,
					EntityID:  j.id,
					Err:       err,
				})
			}
			continue
		}
		d.logger.Debug("sync push",
			"op", string(j.op), "entity", string(j.entity), "id", j.id)
	}
}

// enqueue never blocks the mutation path: when a stalled backend has filled
// the queue, the oldest pending push is dropped. Sync is best effort, the
// local document stays the source of truth.
func (d *Dispatcher) enqueue(j job) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	for {
		select {
		case d.jobs <- j:
			return
		default:
			select {
			case dropped := <-d.jobs:
				d.logger.Warn("sync queue full, dropping oldest push",
					"op", string(dropped.op), "entity", string(dropped.entity), "id", dropped.id)
			default:
			}
		}
	}
}

// PersonUpserted pushes an added or updated person.
func (d *Dispatcher) PersonUpserted(op domain.MutationOp, p domain.Person) {
	p = p.Clone()
	d.enqueue(job{op: op, entity: domain.EntityPerson, id: p.ID,
		run: func(ctx context.Context) error { return d.client.PushPerson(ctx, p) }})
}

// PersonRemoved pushes a person deletion.
func (d *Dispatcher) PersonRemoved(id string) {
	d.enqueue(job{op: domain.OpDelete, entity: domain.EntityPerson, id: id,
		run: func(ctx context.Context) error { return d.client.RemovePerson(ctx, id) }})
}

// RelationshipUpserted pushes an added or updated relationship.
func (d *Dispatcher) RelationshipUpserted(op domain.MutationOp, r domain.Relationship) {
	d.enqueue(job{op: op, entity: domain.EntityRelationship, id: r.ID,
		run: func(ctx context.Context) error { return d.client.PushRelationship(ctx, r) }})
}

// RelationshipRemoved pushes a relationship deletion.
func (d *Dispatcher) RelationshipRemoved(id string) {
	d.enqueue(job{op: domain.OpDelete, entity: domain.EntityRelationship, id: id,
		run: func(ctx context.Context) error { return d.client.RemoveRelationship(ctx, id) }})
}

// Close drains the queue and stops the worker. Enqueues after Close are
// dropped silently.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()
	<-d.done
}
