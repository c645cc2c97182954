// Package graph owns the canonical entity collections of a genogram document
// and enforces referential integrity on every mutation. Mutations are
// synchronous and total: either the new state is fully consistent or the call
// is rejected before any state change.
package graph

import (
	"fmt"

	"github.com/avelar0/kinmap/pkg/domain"
)

// Store holds the live document. It is not safe for concurrent use; the
// editor serializes access (the interaction model is single-threaded).
type Store struct {
	doc *domain.Document
}

// NewStore creates a store with an empty document.
func NewStore() *Store {
	return &Store{doc: domain.NewDocument()}
}

// Document returns the live document. Callers must treat it as read-only;
// use Snapshot for a copy that can escape the mutation path.
func (s *Store) Document() *domain.Document {
	return s.doc
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() *domain.Document {
	return s.doc.Clone()
}

// Restore replaces the document with the given snapshot, taking ownership.
// Used by undo/redo replay.
func (s *Store) Restore(doc *domain.Document) {
	s.doc = doc
}

// LoadFromData atomically replaces the document with a copy of the snapshot.
func (s *Store) LoadFromData(doc *domain.Document) {
	s.doc = doc.Clone()
}

// Reset replaces the document with a new empty diagram.
func (s *Store) Reset() {
	s.doc = domain.NewDocument()
}

// AddPerson inserts a new person (or other node kind).
func (s *Store) AddPerson(p domain.Person) error {
	if p.ID == "" {
		return fmt.Errorf("add person: empty id")
	}
	if _, ok := s.doc.PersonByID(p.ID); ok {
		return fmt.Errorf("add person %s: %w", p.ID, domain.ErrDuplicateID)
	}
	s.doc.People = append(s.doc.People, p.Clone())
	return nil
}

// UpdatePerson applies a patch to an existing person.
func (s *Store) UpdatePerson(id string, patch domain.PersonPatch) error {
	for i := range s.doc.People {
		if s.doc.People[i].ID == id {
			patch.Apply(&s.doc.People[i])
			return nil
		}
	}
	return fmt.Errorf("update person %s: %w", id, domain.ErrNotFound)
}

// DeletePerson removes the person and cascades: every relationship with the
// person as a direct endpoint is removed, then every child edge whose parent
// partner relationship was just removed, and finally the person leaves all
// household membership sets. Selection cleanup is the editor's concern.
func (s *Store) DeletePerson(id string) error {
	idx := -1
	for i := range s.doc.People {
		if s.doc.People[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("delete person %s: %w", id, domain.ErrNotFound)
	}
	s.doc.People = append(s.doc.People[:idx], s.doc.People[idx+1:]...)

	removed := make(map[string]bool)
	kept := s.doc.Relationships[:0]
	for _, r := range s.doc.Relationships {
		if r.Involves(id) {
			removed[r.ID] = true
			continue
		}
		kept = append(kept, r)
	}
	s.doc.Relationships = kept

	// Second pass: child edges hanging off a partner relationship that was
	// just cascaded away.
	s.pruneChildEdges(removed)

	for i := range s.doc.Households {
		s.doc.Households[i].Members = remove(s.doc.Households[i].Members, id)
	}
	return nil
}

// AddRelationship inserts a new edge after checking referential integrity:
// the edge variant must match the kind, every endpoint must resolve to a live
// entity, self-edges are rejected and equivalent duplicates are rejected.
func (s *Store) AddRelationship(r domain.Relationship) error {
	if r.ID == "" {
		return fmt.Errorf("add relationship: empty id")
	}
	if _, ok := s.doc.RelationshipByID(r.ID); ok {
		return fmt.Errorf("add relationship %s: %w", r.ID, domain.ErrDuplicateID)
	}
	if err := r.Validate(); err != nil {
		return err
	}
	switch e := r.Edge.(type) {
	case domain.PartnerEdge:
		if e.PersonA == e.PersonB {
			return fmt.Errorf("relationship %s: %w", r.ID, domain.ErrSelfEdge)
		}
		if _, ok := s.doc.PersonByID(e.PersonA); !ok {
			return fmt.Errorf("relationship %s: person %s: %w", r.ID, e.PersonA, domain.ErrEndpointNotFound)
		}
		if _, ok := s.doc.PersonByID(e.PersonB); !ok {
			return fmt.Errorf("relationship %s: person %s: %w", r.ID, e.PersonB, domain.ErrEndpointNotFound)
		}
		if dup, ok := s.findPartnerEdge(r.Kind, e.PersonA, e.PersonB); ok {
			return fmt.Errorf("relationship %s duplicates %s: %w", r.ID, dup, domain.ErrDuplicateEdge)
		}
	case domain.ChildEdge:
		if e.SingleParentID != "" {
			if e.SingleParentID == e.ChildID {
				return fmt.Errorf("relationship %s: %w", r.ID, domain.ErrSelfEdge)
			}
			if _, ok := s.doc.PersonByID(e.SingleParentID); !ok {
				return fmt.Errorf("relationship %s: person %s: %w", r.ID, e.SingleParentID, domain.ErrEndpointNotFound)
			}
		} else {
			parent, ok := s.doc.RelationshipByID(e.ParentRelationshipID)
			if !ok || parent.Kind != domain.KindPartner {
				return fmt.Errorf("relationship %s: partner relationship %s: %w", r.ID, e.ParentRelationshipID, domain.ErrEndpointNotFound)
			}
		}
		if _, ok := s.doc.PersonByID(e.ChildID); !ok {
			return fmt.Errorf("relationship %s: person %s: %w", r.ID, e.ChildID, domain.ErrEndpointNotFound)
		}
		if dup, ok := s.findChildEdge(e.ParentRef(), e.ChildID); ok {
			return fmt.Errorf("relationship %s duplicates %s: %w", r.ID, dup, domain.ErrDuplicateEdge)
		}
	}
	s.doc.Relationships = append(s.doc.Relationships, r)
	return nil
}

// UpdateRelationship patches presentation metadata. Endpoints are immutable;
// re-connecting is a delete plus add.
func (s *Store) UpdateRelationship(id string, patch domain.RelationshipPatch) error {
	for i := range s.doc.Relationships {
		if s.doc.Relationships[i].ID == id {
			patch.Apply(&s.doc.Relationships[i])
			return nil
		}
	}
	return fmt.Errorf("update relationship %s: %w", id, domain.ErrNotFound)
}

// DeleteRelationship removes the edge and eagerly cascades to child edges
// that named it as their parent partner relationship.
func (s *Store) DeleteRelationship(id string) error {
	idx := -1
	for i := range s.doc.Relationships {
		if s.doc.Relationships[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("delete relationship %s: %w", id, domain.ErrNotFound)
	}
	s.doc.Relationships = append(s.doc.Relationships[:idx], s.doc.Relationships[idx+1:]...)
	s.pruneChildEdges(map[string]bool{id: true})
	return nil
}

// AddHousehold inserts a new household boundary.
func (s *Store) AddHousehold(h domain.Household) error {
	if h.ID == "" {
		return fmt.Errorf("add household: empty id")
	}
	if _, ok := s.doc.HouseholdByID(h.ID); ok {
		return fmt.Errorf("add household %s: %w", h.ID, domain.ErrDuplicateID)
	}
	s.doc.Households = append(s.doc.Households, h.Clone())
	return nil
}

// UpdateHousehold applies a patch to an existing household.
func (s *Store) UpdateHousehold(id string, patch domain.HouseholdPatch) error {
	for i := range s.doc.Households {
		if s.doc.Households[i].ID == id {
			patch.Apply(&s.doc.Households[i])
			return nil
		}
	}
	return fmt.Errorf("update household %s: %w", id, domain.ErrNotFound)
}

// DeleteHousehold removes the household. Membership is not an edge: people
// are unaffected.
func (s *Store) DeleteHousehold(id string) error {
	for i := range s.doc.Households {
		if s.doc.Households[i].ID == id {
			s.doc.Households = append(s.doc.Households[:i], s.doc.Households[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete household %s: %w", id, domain.ErrNotFound)
}

// AddAnnotation inserts a new text annotation.
func (s *Store) AddAnnotation(a domain.Annotation) error {
	if a.ID == "" {
		return fmt.Errorf("add annotation: empty id")
	}
	if _, ok := s.doc.AnnotationByID(a.ID); ok {
		return fmt.Errorf("add annotation %s: %w", a.ID, domain.ErrDuplicateID)
	}
	s.doc.Annotations = append(s.doc.Annotations, a)
	return nil
}

// UpdateAnnotation applies a patch to an existing annotation.
func (s *Store) UpdateAnnotation(id string, patch domain.AnnotationPatch) error {
	for i := range s.doc.Annotations {
		if s.doc.Annotations[i].ID == id {
			patch.Apply(&s.doc.Annotations[i])
			return nil
		}
	}
	return fmt.Errorf("update annotation %s: %w", id, domain.ErrNotFound)
}

// DeleteAnnotation removes the annotation.
func (s *Store) DeleteAnnotation(id string) error {
	for i := range s.doc.Annotations {
		if s.doc.Annotations[i].ID == id {
			s.doc.Annotations = append(s.doc.Annotations[:i], s.doc.Annotations[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete annotation %s: %w", id, domain.ErrNotFound)
}

// pruneChildEdges removes child edges whose parent partner relationship id is
// in the removed set.
func (s *Store) pruneChildEdges(removed map[string]bool) {
	if len(removed) == 0 {
		return
	}
	kept := s.doc.Relationships[:0]
	for _, r := range s.doc.Relationships {
		if e, ok := r.Edge.(domain.ChildEdge); ok && removed[e.ParentRelationshipID] {
			continue
		}
		kept = append(kept, r)
	}
	s.doc.Relationships = kept
}

func (s *Store) findPartnerEdge(kind domain.RelationshipKind, a, b string) (string, bool) {
	for _, r := range s.doc.Relationships {
		e, ok := r.Edge.(domain.PartnerEdge)
		if !ok || r.Kind != kind {
			continue
		}
		if (e.PersonA == a && e.PersonB == b) || (e.PersonA == b && e.PersonB == a) {
			return r.ID, true
		}
	}
	return "", false
}

func (s *Store) findChildEdge(parentRef, childID string) (string, bool) {
	for _, r := range s.doc.Relationships {
		if e, ok := r.Edge.(domain.ChildEdge); ok && e.ParentRef() == parentRef && e.ChildID == childID {
			return r.ID, true
		}
	}
	return "", false
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, cur := range ids {
		if cur != id {
			out = append(out, cur)
		}
	}
	return out
}
