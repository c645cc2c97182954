package domain

import (
	"context"
	"time"
)

// MutationOp categorizes a committed document mutation.
type MutationOp string

const (
	OpAdd    MutationOp = "add"
	OpUpdate MutationOp = "update"
	OpDelete MutationOp = "delete"
	OpLoad   MutationOp = "load"
	OpReset  MutationOp = "reset"
	OpUndo   MutationOp = "undo"
	OpRedo   MutationOp = "redo"
)

// EntityKind names the entity collection a mutation touched. OpLoad, OpReset,
// OpUndo and OpRedo use EntityDocument.
type EntityKind string

const (
	EntityPerson       EntityKind = "person"
	EntityRelationship EntityKind = "relationship"
	EntityHousehold    EntityKind = "household"
	EntityAnnotation   EntityKind = "annotation"
	EntityDocument     EntityKind = "document"
)

// MutationEvent describes one committed mutation. Hooks receive events in
// mutation order.
type MutationEvent struct {
	Timestamp time.Time  `json:"timestamp"`
	Op        MutationOp `json:"op"`
	Entity    EntityKind `json:"entity"`
	EntityID  string     `json:"entity_id,omitempty"`
}

// SyncErrorEvent reports a failed best-effort push to the external
// system-of-record. The local mutation is never rolled back.
type SyncErrorEvent struct {
	Timestamp time.Time  `json:"timestamp"`
	Op        MutationOp `json:"op"`
	Entity    EntityKind `json:"entity"`
	EntityID  string     `json:"entity_id,omitempty"`
	Err       error      `json:"-"`
}

// Hooks defines callbacks for editor observability. All callbacks are
// optional and are invoked synchronously in mutation order.
type Hooks struct {
	OnMutation  func(context.Context, *MutationEvent)
	OnSyncError func(context.Context, *SyncErrorEvent)
}

// StateUpdateType is the discriminator carried by every host-embedding frame.
const StateUpdateType = "state_update"

// StateUpdate is the frame posted to a hosting context on every committed
// mutation while embedded.
type StateUpdate struct {
	Type          string         `json:"type"`
	People        []Person       `json:"people"`
	Relationships []Relationship `json:"relationships"`
}

// NewStateUpdate builds a state-update frame from a document. The frame owns
// its data and does not alias the document.
func NewStateUpdate(doc *Document) *StateUpdate {
	people := make([]Person, 0, len(doc.People))
	for _, p := range doc.People {
		people = append(people, p.Clone())
	}
	return &StateUpdate{
		Type:          StateUpdateType,
		People:        people,
		Relationships: append([]Relationship(nil), doc.Relationships...),
	}
}
