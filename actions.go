package kinmap

import (
	"context"
	"errors"

	"github.com/avelar0/kinmap/pkg/domain"
)

// ErrNoPendingAttachment is returned by the attach completions when no
// child-connection decision is waiting.
var ErrNoPendingAttachment = errors.New("no pending child attachment")

// AddPerson adds a person node. A missing id is generated.
func (e *Editor) AddPerson(ctx context.Context, p domain.Person) (domain.Person, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if p.ID == "" {
		p.ID = domain.NewPersonID()
	}
	err := e.commit(ctx, domain.OpAdd, domain.EntityPerson, p.ID, func() error {
		return e.store.AddPerson(p)
	})
	if err != nil {
		return domain.Person{}, err
	}
	e.syncPerson(domain.OpAdd, p.ID)
	return p, nil
}

// UpdatePerson applies a partial update to a person.
func (e *Editor) UpdatePerson(ctx context.Context, id string, patch domain.PersonPatch) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.commit(ctx, domain.OpUpdate, domain.EntityPerson, id, func() error {
		return e.store.UpdatePerson(id, patch)
	})
	if err != nil {
		return err
	}
	e.syncPerson(domain.OpUpdate, id)
	return nil
}

// DeletePerson removes a person and cascades: relationships touching the
// person go away, child edges hanging off removed partner relationships go
// away, and household membership is dropped. Any selection of a removed
// entity is cleared.
func (e *Editor) DeletePerson(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var removedRels []string
	err := e.commit(ctx, domain.OpDelete, domain.EntityPerson, id, func() error {
		before := append([]domain.Relationship(nil), e.store.Document().Relationships...)
		if err := e.store.DeletePerson(id); err != nil {
			return err
		}
		after := e.store.Document()
		for _, r := range before {
			if _, ok := after.RelationshipByID(r.ID); !ok {
				removedRels = append(removedRels, r.ID)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	e.pruneSelection()
	if e.dispatcher != nil {
		e.dispatcher.PersonRemoved(id)
		for _, relID := range removedRels {
			e.dispatcher.RelationshipRemoved(relID)
		}
	}
	return nil
}

// AddRelationship adds an edge. A missing id is generated. The edge payload
// must match the relationship kind, both endpoints must exist, and duplicate
// edges are rejected.
func (e *Editor) AddRelationship(ctx context.Context, r domain.Relationship) (domain.Relationship, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if r.ID == "" {
		r.ID = domain.NewRelationshipID()
	}
	err := e.commit(ctx, domain.OpAdd, domain.EntityRelationship, r.ID, func() error {
		return e.store.AddRelationship(r)
	})
	if err != nil {
		return domain.Relationship{}, err
	}
	e.syncRelationship(domain.OpAdd, r.ID)
	return r, nil
}

// UpdateRelationship changes presentation metadata; endpoints and kind are
// immutable.
func (e *Editor) UpdateRelationship(ctx context.Context, id string, patch domain.RelationshipPatch) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.commit(ctx, domain.OpUpdate, domain.EntityRelationship, id, func() error {
		return e.store.UpdateRelationship(id, patch)
	})
	if err != nil {
		return err
	}
	e.syncRelationship(domain.OpUpdate, id)
	return nil
}

// DeleteRelationship removes an edge. Deleting a partner relationship also
// removes the child edges attached to it.
func (e *Editor) DeleteRelationship(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var removedRels []string
	err := e.commit(ctx, domain.OpDelete, domain.EntityRelationship, id, func() error {
		before := append([]domain.Relationship(nil), e.store.Document().Relationships...)
		if err := e.store.DeleteRelationship(id); err != nil {
			return err
		}
		after := e.store.Document()
		for _, r := range before {
			if _, ok := after.RelationshipByID(r.ID); !ok {
				removedRels = append(removedRels, r.ID)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	e.pruneSelection()
	if e.dispatcher != nil {
		for _, relID := range removedRels {
			e.dispatcher.RelationshipRemoved(relID)
		}
	}
	return nil
}

// AddHousehold adds a household region. A missing id is generated.
func (e *Editor) AddHousehold(ctx context.Context, h domain.Household) (domain.Household, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if h.ID == "" {
		h.ID = domain.NewHouseholdID()
	}
	err := e.commit(ctx, domain.OpAdd, domain.EntityHousehold, h.ID, func() error {
		return e.store.AddHousehold(h)
	})
	if err != nil {
		return domain.Household{}, err
	}
	return h, nil
}

// UpdateHousehold applies a partial update to a household.
func (e *Editor) UpdateHousehold(ctx context.Context, id string, patch domain.HouseholdPatch) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.commit(ctx, domain.OpUpdate, domain.EntityHousehold, id, func() error {
		return e.store.UpdateHousehold(id, patch)
	})
}

// DeleteHousehold removes a household. Member people are untouched.
func (e *Editor) DeleteHousehold(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.commit(ctx, domain.OpDelete, domain.EntityHousehold, id, func() error {
		return e.store.DeleteHousehold(id)
	})
	if err != nil {
		return err
	}
	e.pruneSelection()
	return nil
}

// AddAnnotation adds a free text annotation. A missing id is generated.
func (e *Editor) AddAnnotation(ctx context.Context, a domain.Annotation) (domain.Annotation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if a.ID == "" {
		a.ID = domain.NewAnnotationID()
	}
	err := e.commit(ctx, domain.OpAdd, domain.EntityAnnotation, a.ID, func() error {
		return e.store.AddAnnotation(a)
	})
	if err != nil {
		return domain.Annotation{}, err
	}
	return a, nil
}

// UpdateAnnotation applies a partial update to an annotation.
func (e *Editor) UpdateAnnotation(ctx context.Context, id string, patch domain.AnnotationPatch) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.commit(ctx, domain.OpUpdate, domain.EntityAnnotation, id, func() error {
		return e.store.UpdateAnnotation(id, patch)
	})
}

// DeleteAnnotation removes an annotation.
func (e *Editor) DeleteAnnotation(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.commit(ctx, domain.OpDelete, domain.EntityAnnotation, id, func() error {
		return e.store.DeleteAnnotation(id)
	})
	if err != nil {
		return err
	}
	e.pruneSelection()
	return nil
}

// Select sets the single selection. An empty id clears it. Selection is
// volatile state: it does not dirty the document and is not undoable.
func (e *Editor) Select(kind domain.SelectionKind, id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selection.Select(kind, id)
}

// ClearSelection empties the single selection.
func (e *Editor) ClearSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selection.Clear()
}

// Selection returns the current single selection.
func (e *Editor) Selection() domain.Selection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection.Current()
}

// ToggleNodeSelection adds or removes a person from the multi-selection set.
func (e *Editor) ToggleNodeSelection(personID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selection.ToggleNode(personID)
}

// ClearNodeSelection empties the multi-selection set.
func (e *Editor) ClearNodeSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selection.ClearNodes()
}

// SelectedNodes returns the multi-selection set in selection order.
func (e *Editor) SelectedNodes() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection.Nodes()
}

// StartConnection begins the two-phase connection gesture from the given
// origin. Starting while already connecting restarts from the new origin.
// Any pending child attachment decision is discarded.
func (e *Editor) StartConnection(originID string, kind domain.ConnectionKind) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = nil
	e.connector.Start(originID, kind)
}

// CancelConnection discards the gesture and any pending decision.
func (e *Editor) CancelConnection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = nil
	e.connector.Cancel()
}

// Connecting reports whether a connection gesture is in progress.
func (e *Editor) Connecting() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.connector.Connecting()
}

// CommitConnection completes the gesture on the clicked target. An invalid
// target is a silent no-op returning ok=false with the gesture still armed.
// When the target is valid but the child attachment needs disambiguation,
// the returned decision is non-nil and the caller completes the connection
// via one of the AttachChild completions matching the decision's options.
func (e *Editor) CommitConnection(ctx context.Context, targetID string) (decision *domain.Decision, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	originID, _, _ := e.connector.Origin()
	plan, ok := e.connector.Commit(targetID)
	if !ok {
		return nil, false
	}

	if plan.Decision != nil {
		e.pending = &pendingAttachment{
			childID:  originID,
			parentID: targetID,
			decision: *plan.Decision,
		}
		return plan.Decision, true
	}

	e.applyPlan(ctx, plan.NewPeople, plan.NewRelationships)
	return nil, true
}

// PendingDecision returns the surfaced child-connection decision, if any.
func (e *Editor) PendingDecision() (domain.Decision, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending == nil {
		return domain.Decision{}, false
	}
	return e.pending.decision, true
}

// AttachChildToRelationship completes a pending child attachment against the
// chosen partner relationship.
func (e *Editor) AttachChildToRelationship(ctx context.Context, relationshipID string) (domain.Relationship, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending == nil {
		return domain.Relationship{}, ErrNoPendingAttachment
	}
	childID := e.pending.childID

	rel := domain.Relationship{
		ID:   domain.NewRelationshipID(),
		Kind: domain.KindChild,
		Edge: domain.ChildEdge{ParentRelationshipID: relationshipID, ChildID: childID},
	}
	err := e.commit(ctx, domain.OpAdd, domain.EntityRelationship, rel.ID, func() error {
		return e.store.AddRelationship(rel)
	})
	if err != nil {
		return domain.Relationship{}, err
	}
	e.pending = nil
	e.syncRelationship(domain.OpAdd, rel.ID)
	return rel, nil
}

// AttachChildWithUnknownCoParent completes a pending child attachment by
// generating a placeholder co-parent beside the chosen parent, partnering
// them, and hanging the child off the new pair.
func (e *Editor) AttachChildWithUnknownCoParent(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending == nil {
		return ErrNoPendingAttachment
	}
	parent, ok := e.store.Document().PersonByID(e.pending.parentID)
	if !ok {
		return domain.ErrNotFound
	}

	coParent := domain.Person{
		ID:   domain.NewPersonID(),
		Name: "Unknown",
		X:    parent.X + 160,
		Y:    parent.Y,
	}
	e.attachWithNewCoParent(ctx, coParent)
	return nil
}

// AttachChildWithNewPartner completes a pending child attachment with a
// caller-authored new person as the co-parent. A missing id is generated and
// a missing position places the person beside the chosen parent. Returns the
// co-parent as stored.
func (e *Editor) AttachChildWithNewPartner(ctx context.Context, coParent domain.Person) (domain.Person, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending == nil {
		return domain.Person{}, ErrNoPendingAttachment
	}
	parent, ok := e.store.Document().PersonByID(e.pending.parentID)
	if !ok {
		return domain.Person{}, domain.ErrNotFound
	}

	if coParent.ID == "" {
		coParent.ID = domain.NewPersonID()
	}
	if coParent.X == 0 && coParent.Y == 0 {
		coParent.X = parent.X + 160
		coParent.Y = parent.Y
	}
	e.attachWithNewCoParent(ctx, coParent)
	return coParent, nil
}

// AttachChildWithExistingCoParent completes a pending child attachment by
// partnering the chosen parent with an existing person and hanging the child
// off the pair. An already-partnered pair is reused instead of duplicated.
func (e *Editor) AttachChildWithExistingCoParent(ctx context.Context, coParentID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending == nil {
		return ErrNoPendingAttachment
	}
	doc := e.store.Document()
	if _, ok := doc.PersonByID(coParentID); !ok {
		return domain.ErrNotFound
	}
	if coParentID == e.pending.parentID || coParentID == e.pending.childID {
		return domain.ErrSelfEdge
	}

	parentRelID := ""
	for _, r := range doc.Relationships {
		if r.Kind == domain.KindPartner && r.Involves(e.pending.parentID) && r.Involves(coParentID) {
			parentRelID = r.ID
			break
		}
	}
	var rels []domain.Relationship
	if parentRelID == "" {
		partnerRel := domain.Relationship{
			ID:        domain.NewRelationshipID(),
			Kind:      domain.KindPartner,
			Edge:      domain.PartnerEdge{PersonA: e.pending.parentID, PersonB: coParentID},
			BubblePos: 0.5,
		}
		parentRelID = partnerRel.ID
		rels = append(rels, partnerRel)
	}
	rels = append(rels, domain.Relationship{
		ID:   domain.NewRelationshipID(),
		Kind: domain.KindChild,
		Edge: domain.ChildEdge{ParentRelationshipID: parentRelID, ChildID: e.pending.childID},
	})

	e.applyPlan(ctx, nil, rels)
	e.pending = nil
	return nil
}

// AttachChildSingleParent completes a pending child attachment with no
// second parent: the child edge hangs directly off the chosen parent person.
func (e *Editor) AttachChildSingleParent(ctx context.Context) (domain.Relationship, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending == nil {
		return domain.Relationship{}, ErrNoPendingAttachment
	}
	rel := domain.Relationship{
		ID:   domain.NewRelationshipID(),
		Kind: domain.KindChild,
		Edge: domain.ChildEdge{SingleParentID: e.pending.parentID, ChildID: e.pending.childID},
	}
	err := e.commit(ctx, domain.OpAdd, domain.EntityRelationship, rel.ID, func() error {
		return e.store.AddRelationship(rel)
	})
	if err != nil {
		return domain.Relationship{}, err
	}
	e.pending = nil
	e.syncRelationship(domain.OpAdd, rel.ID)
	return rel, nil
}

// attachWithNewCoParent inserts the co-parent, partners them with the pending
// parent and hangs the child off the new pair as one undo step. Callers must
// hold e.mu and have checked e.pending.
func (e *Editor) attachWithNewCoParent(ctx context.Context, coParent domain.Person) {
	partnerRel := domain.Relationship{
		ID:        domain.NewRelationshipID(),
		Kind:      domain.KindPartner,
		Edge:      domain.PartnerEdge{PersonA: e.pending.parentID, PersonB: coParent.ID},
		BubblePos: 0.5,
	}
	childRel := domain.Relationship{
		ID:   domain.NewRelationshipID(),
		Kind: domain.KindChild,
		Edge: domain.ChildEdge{ParentRelationshipID: partnerRel.ID, ChildID: e.pending.childID},
	}

	e.applyPlan(ctx, []domain.Person{coParent}, []domain.Relationship{partnerRel, childRel})
	e.pending = nil
}

// applyPlan commits a connection plan's entities as one user action: a
// single undo snapshot covers all of them. Callers must hold e.mu.
func (e *Editor) applyPlan(ctx context.Context, people []domain.Person, rels []domain.Relationship) {
	before := e.store.Document().Clone()

	for _, p := range people {
		if err := e.store.AddPerson(p); err != nil {
			e.logger.Warn("connection plan person rejected", "id", p.ID, "error", err)
		}
	}
	for _, r := range rels {
		if err := e.store.AddRelationship(r); err != nil {
			e.logger.Warn("connection plan relationship rejected", "id", r.ID, "error", err)
		}
	}

	e.history.PushOwned(before)
	e.dirty = true
	for _, p := range people {
		e.emit(ctx, domain.OpAdd, domain.EntityPerson, p.ID)
		e.syncPerson(domain.OpAdd, p.ID)
	}
	for _, r := range rels {
		e.emit(ctx, domain.OpAdd, domain.EntityRelationship, r.ID)
		e.syncRelationship(domain.OpAdd, r.ID)
	}
}

// StartDrawingHousehold begins capturing a boundary polygon. Restarting
// discards captured points.
func (e *Editor) StartDrawingHousehold() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.boundary.Start()
}

// CancelDrawingHousehold discards the capture.
func (e *Editor) CancelDrawingHousehold() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.boundary.Cancel()
}

// DrawingHousehold reports whether a boundary capture is in progress.
func (e *Editor) DrawingHousehold() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.boundary.Drawing()
}

// AddBoundaryPoint appends a vertex to the boundary in progress. A click
// near the first point (within the configured close radius, with at least
// three vertices down) closes the polygon instead, creating the household.
func (e *Editor) AddBoundaryPoint(ctx context.Context, pt domain.Point) (*domain.Household, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	points, closed := e.boundary.AddPoint(pt)
	if !closed {
		return nil, nil
	}
	return e.createHousehold(ctx, points)
}

// CloseHousehold closes the polygon explicitly, e.g. on double-click. With
// fewer than three vertices this is a no-op.
func (e *Editor) CloseHousehold(ctx context.Context) (*domain.Household, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	points, closed := e.boundary.Close()
	if !closed {
		return nil, nil
	}
	return e.createHousehold(ctx, points)
}

func (e *Editor) createHousehold(ctx context.Context, points []domain.Point) (*domain.Household, error) {
	h := domain.Household{
		ID:      domain.NewHouseholdID(),
		Points:  points,
		Members: e.store.PeopleInPolygon(points),
	}
	err := e.commit(ctx, domain.OpAdd, domain.EntityHousehold, h.ID, func() error {
		return e.store.AddHousehold(h)
	})
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// CanUndo reports whether an undo step exists.
func (e *Editor) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanUndo()
}

// CanRedo reports whether a redo step exists.
func (e *Editor) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanRedo()
}

// Undo restores the document to the state before the latest mutation.
// Returns false when there is nothing to undo.
func (e *Editor) Undo(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	doc, ok := e.history.Undo(e.store.Document())
	if !ok {
		return false
	}
	e.store.Restore(doc)
	e.dirty = true
	e.pruneSelection()
	e.emit(ctx, domain.OpUndo, domain.EntityDocument, "")
	return true
}

// Redo reapplies the latest undone mutation.
func (e *Editor) Redo(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	doc, ok := e.history.Redo(e.store.Document())
	if !ok {
		return false
	}
	e.store.Restore(doc)
	e.dirty = true
	e.pruneSelection()
	e.emit(ctx, domain.OpRedo, domain.EntityDocument, "")
	return true
}

// Load replaces the document. History, selection, and in-flight gestures are
// discarded; the document starts clean.
func (e *Editor) Load(ctx context.Context, doc *domain.Document) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.store.LoadFromData(doc)
	e.afterReplace(ctx, domain.OpLoad)
	return nil
}

// LoadData parses serialized JSON and loads it.
func (e *Editor) LoadData(ctx context.Context, data []byte) error {
	doc, err := domain.Parse(data)
	if err != nil {
		return err
	}
	return e.Load(ctx, doc)
}

// Reset replaces the document with an empty one.
func (e *Editor) Reset(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.store.Reset()
	e.afterReplace(ctx, domain.OpReset)
}

func (e *Editor) afterReplace(ctx context.Context, op domain.MutationOp) {
	e.history.Clear()
	e.selection.Clear()
	e.selection.ClearNodes()
	e.connector.Cancel()
	e.boundary.Cancel()
	e.pending = nil
	e.dirty = false
	e.emit(ctx, op, domain.EntityDocument, "")
}

// syncPerson enqueues a person push. Callers must hold e.mu.
func (e *Editor) syncPerson(op domain.MutationOp, id string) {
	if e.dispatcher == nil {
		return
	}
	if p, ok := e.store.Document().PersonByID(id); ok {
		e.dispatcher.PersonUpserted(op, p)
	}
}

// syncRelationship enqueues a relationship push. Callers must hold e.mu.
func (e *Editor) syncRelationship(op domain.MutationOp, id string) {
	if e.dispatcher == nil {
		return
	}
	if r, ok := e.store.Document().RelationshipByID(id); ok {
		e.dispatcher.RelationshipUpserted(op, r)
	}
}
