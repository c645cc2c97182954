// Package history provides undo/redo over whole-document snapshots.
//
// Snapshots are full deep copies, not diffs: correctness over memory. Depth
// is bounded by a cap, discarding the oldest snapshot when exceeded, which is
// an accepted limitation of the design.
package history

import "github.com/avelar0/kinmap/pkg/domain"

// DefaultLimit bounds the undo stack depth.
const DefaultLimit = 100

// History holds the undo and redo stacks. Push records the state as it was
// before a mutation; Undo/Redo exchange the live document against the stacks.
type History struct {
	undo  []*domain.Document
	redo  []*domain.Document
	limit int
}

// Option configures the History.
type Option func(*History)

// WithLimit overrides the snapshot cap. Values below 1 keep the default.
func WithLimit(limit int) Option {
	return func(h *History) {
		if limit >= 1 {
			h.limit = limit
		}
	}
}

// New creates an empty history.
func New(opts ...Option) *History {
	h := &History{limit: DefaultLimit}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Push records a pre-mutation snapshot on the undo stack and clears the redo
// stack. The snapshot is deep-copied; callers may keep mutating the source.
func (h *History) Push(doc *domain.Document) {
	h.undo = append(h.undo, doc.Clone())
	if len(h.undo) > h.limit {
		h.undo = h.undo[1:]
	}
	h.redo = nil
}

// PushOwned is Push for a snapshot the caller already copied and will not
// touch again; it skips the defensive clone.
func (h *History) PushOwned(doc *domain.Document) {
	h.undo = append(h.undo, doc)
	if len(h.undo) > h.limit {
		h.undo = h.undo[1:]
	}
	h.redo = nil
}

// Undo pops the latest snapshot, pushing the current document onto the redo
// stack. Returns the document to restore, or false when nothing to undo.
func (h *History) Undo(current *domain.Document) (*domain.Document, bool) {
	if len(h.undo) == 0 {
		return nil, false
	}
	top := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, current.Clone())
	return top, true
}

// Redo is the mirror of Undo.
func (h *History) Redo(current *domain.Document) (*domain.Document, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	top := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, current.Clone())
	return top, true
}

// CanUndo reports whether an undo snapshot exists.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether a redo snapshot exists.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Depth returns the current stack sizes.
func (h *History) Depth() (undo, redo int) { return len(h.undo), len(h.redo) }

// Clear drops both stacks. Used when a new document is loaded.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}
