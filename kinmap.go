package kinmap

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/avelar0/kinmap/internal/autosave"
	"github.com/avelar0/kinmap/internal/graph"
	"github.com/avelar0/kinmap/internal/history"
	"github.com/avelar0/kinmap/internal/interaction"
	"github.com/avelar0/kinmap/internal/logging"
	"github.com/avelar0/kinmap/internal/syncer"
	"github.com/avelar0/kinmap/pkg/domain"
	"github.com/avelar0/kinmap/pkg/ports"
)

// Editor is the high-level entry point for the kinmap library. It owns the
// document, the interaction state machines, the undo history, and the
// outbound integrations (sync, host notification).
//
// Methods are safe for concurrent use, but the editor models a single user's
// editing session: callers should treat it as one logical actor.
type Editor struct {
	mu sync.Mutex

	store     *graph.Store
	selection *interaction.Selection
	connector *interaction.Connector
	boundary  *interaction.Boundary
	history   *history.History

	// pending holds a surfaced child-connection decision awaiting an
	// explicit attach call.
	pending *pendingAttachment

	hooks      []domain.Hooks
	logger     *slog.Logger
	dispatcher *syncer.Dispatcher
	syncClient ports.SyncClient
	notifier   ports.HostNotifier

	historyLimit int
	closeRadius  float64

	dirty bool
	zoom  float64
	panX  float64
	panY  float64
}

type pendingAttachment struct {
	childID  string
	parentID string
	decision domain.Decision
}

// Option defines a functional option for configuring the Editor.
type Option func(*Editor)

// WithLogger sets a custom structured logger for the editor.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// WithHooks registers observability callbacks. Several sets of hooks may be
// registered; each is invoked in registration order.
func WithHooks(hooks domain.Hooks) Option {
	return func(e *Editor) {
		e.hooks = append(e.hooks, hooks)
	}
}

// WithHistoryLimit caps the undo stack depth.
func WithHistoryLimit(limit int) Option {
	return func(e *Editor) {
		e.historyLimit = limit
	}
}

// WithCloseRadius sets the proximity radius, in canvas units, at which a
// household boundary click snaps to the first point and closes the polygon.
func WithCloseRadius(radius float64) Option {
	return func(e *Editor) {
		e.closeRadius = radius
	}
}

// WithSyncClient enables best-effort pushes of committed mutations to an
// external system-of-record.
func WithSyncClient(client ports.SyncClient) Option {
	return func(e *Editor) {
		e.syncClient = client
	}
}

// WithHostNotifier enables state-update frames toward a hosting application.
func WithHostNotifier(notifier ports.HostNotifier) Option {
	return func(e *Editor) {
		e.notifier = notifier
	}
}

// New initializes an Editor with an empty document.
func New(opts ...Option) *Editor {
	e := &Editor{
		historyLimit: history.DefaultLimit,
		closeRadius:  interaction.DefaultCloseRadius,
		zoom:         1,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}

	e.store = graph.NewStore()
	e.selection = interaction.NewSelection()
	e.connector = interaction.NewConnector(e.store)
	e.boundary = interaction.NewBoundary(interaction.WithCloseRadius(e.closeRadius))
	e.history = history.New(history.WithLimit(e.historyLimit))

	if e.syncClient != nil {
		e.dispatcher = syncer.New(e.syncClient,
			syncer.WithLogger(e.logger),
			syncer.WithHooks(domain.Hooks{OnSyncError: e.onSyncError}),
		)
	}
	return e
}

// Close flushes the outbound sync queue and the host notifier. The editor
// must not be used after Close.
func (e *Editor) Close() error {
	if e.dispatcher != nil {
		e.dispatcher.Close()
	}
	if e.notifier != nil {
		return e.notifier.Close()
	}
	return nil
}

// Document returns an independent snapshot of the current document.
func (e *Editor) Document() *domain.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Snapshot()
}

// Serialize returns the current document as JSON.
func (e *Editor) Serialize() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Document().Serialize()
}

// Dirty reports whether the document changed since the last load or save.
func (e *Editor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirty
}

// MarkSaved clears the dirty flag, e.g. after the caller persisted the
// serialized document itself.
func (e *Editor) MarkSaved() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dirty = false
}

// EnableAutosave starts periodic snapshots into the given store. The
// returned stop function disables autosaving; once it returns, no write is
// in flight and none will start.
func (e *Editor) EnableAutosave(ctx context.Context, store ports.DocumentStore, docID string, interval time.Duration) (stop func()) {
	runner := autosave.New(store, docID, interval, e.Document, e.logger)
	runner.Start(ctx)
	return runner.Stop
}

// HostSave serializes the current document, pushes it synchronously to the
// sync backend when one is configured, and clears the dirty flag. Hosts call
// this for explicit "save now" requests.
func (e *Editor) HostSave(ctx context.Context) ([]byte, error) {
	e.mu.Lock()
	doc := e.store.Snapshot()
	e.mu.Unlock()

	data, err := doc.Serialize()
	if err != nil {
		return nil, err
	}
	if e.syncClient != nil {
		if err := e.syncClient.PushDocument(ctx, doc); err != nil {
			return nil, err
		}
	}
	e.MarkSaved()
	return data, nil
}

// Stats is a point-in-time summary of the editor state, suitable for
// exporting as gauges.
type Stats struct {
	People        int
	Relationships int
	Households    int
	Annotations   int
	UndoDepth     int
	RedoDepth     int
}

// Stats returns current entity counts and history depths.
func (e *Editor) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	doc := e.store.Document()
	undo, redo := e.history.Depth()
	return Stats{
		People:        len(doc.People),
		Relationships: len(doc.Relationships),
		Households:    len(doc.Households),
		Annotations:   len(doc.Annotations),
		UndoDepth:     undo,
		RedoDepth:     redo,
	}
}

// SetZoom sets the viewport zoom factor. Viewport state is volatile: it is
// not undoable and not serialized.
func (e *Editor) SetZoom(zoom float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.zoom = zoom
}

// SetPan sets the viewport pan offset.
func (e *Editor) SetPan(x, y float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.panX = x
	e.panY = y
}

// Viewport returns the current zoom and pan.
func (e *Editor) Viewport() (zoom, panX, panY float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.zoom, e.panX, e.panY
}

// commit wraps a mutation: it snapshots the pre-mutation document for undo,
// applies fn, and on success marks the document dirty and emits the event.
// Callers must hold e.mu.
func (e *Editor) commit(ctx context.Context, op domain.MutationOp, entity domain.EntityKind, id string, fn func() error) error {
	before := e.store.Document().Clone()
	if err := fn(); err != nil {
		e.logger.Debug("mutation rejected",
			"op", string(op), "entity", string(entity), "id", id, "error", err)
		return err
	}
	e.history.PushOwned(before)
	e.dirty = true
	e.emit(ctx, op, entity, id)
	return nil
}

// emit invokes hooks and pushes a state-update frame. Callers must hold e.mu.
func (e *Editor) emit(ctx context.Context, op domain.MutationOp, entity domain.EntityKind, id string) {
	ev := &domain.MutationEvent{
		Timestamp: time.Now(),
		Op:        op,
		Entity:    entity,
		EntityID:  id,
	}
	for _, h := range e.hooks {
		if h.OnMutation != nil {
			h.OnMutation(ctx, ev)
		}
	}
	if e.notifier != nil {
		if err := e.notifier.NotifyStateUpdate(ctx, domain.NewStateUpdate(e.store.Document())); err != nil {
			e.logger.Warn("host notification failed", "error", err)
		}
	}
	e.logger.Debug("mutation", "op", string(op), "entity", string(entity), "id", id)
}

func (e *Editor) onSyncError(ctx context.Context, ev *domain.SyncErrorEvent) {
	for _, h := range e.hooks {
		if h.OnSyncError != nil {
			h.OnSyncError(ctx, ev)
		}
	}
}

// pruneSelection drops selections that reference entities no longer in the
// document, e.g. after a cascade delete or an undo. Callers must hold e.mu.
func (e *Editor) pruneSelection() {
	doc := e.store.Document()

	cur := e.selection.Current()
	if !cur.IsEmpty() && !selectionResolves(doc, cur) {
		e.selection.Clear()
	}
	for _, id := range e.selection.Nodes() {
		if _, ok := doc.PersonByID(id); !ok {
			e.selection.DropEntity(domain.SelectPerson, id)
		}
	}
}

func selectionResolves(doc *domain.Document, sel domain.Selection) bool {
	switch sel.Kind {
	case domain.SelectPerson:
		_, ok := doc.PersonByID(sel.ID)
		return ok
	case domain.SelectRelationship:
		_, ok := doc.RelationshipByID(sel.ID)
		return ok
	case domain.SelectHousehold:
		_, ok := doc.HouseholdByID(sel.ID)
		return ok
	case domain.SelectAnnotation:
		_, ok := doc.AnnotationByID(sel.ID)
		return ok
	}
	return false
}
