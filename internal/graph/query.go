package graph

import (
	"github.com/avelar0/kinmap/internal/geometry"
	"github.com/avelar0/kinmap/pkg/domain"
)

// ResolvedPartner is a partner-type edge with both endpoints resolved.
type ResolvedPartner struct {
	Relationship domain.Relationship
	PersonA      domain.Person
	PersonB      domain.Person
}

// ResolvedChild is a child edge with its parent reference and child person
// resolved. Parents is set for a paired child, SingleParent for a child with
// no second parent.
type ResolvedChild struct {
	Relationship domain.Relationship
	Parents      domain.Relationship
	SingleParent domain.Person
	Child        domain.Person
}

// ResolvePartner resolves both endpoints of a partner-type edge. The second
// return is false when the edge is a child edge or any endpoint is dangling.
func (s *Store) ResolvePartner(r domain.Relationship) (ResolvedPartner, bool) {
	e, ok := r.Edge.(domain.PartnerEdge)
	if !ok {
		return ResolvedPartner{}, false
	}
	a, okA := s.doc.PersonByID(e.PersonA)
	b, okB := s.doc.PersonByID(e.PersonB)
	if !okA || !okB {
		return ResolvedPartner{}, false
	}
	return ResolvedPartner{Relationship: r, PersonA: a, PersonB: b}, true
}

// ResolveChild resolves a child edge down to live entities. For a paired
// child the parent partner relationship and both of its endpoints must
// exist; for a single-parent child the lone parent person must exist. The
// child person must exist either way. Anything less makes the edge dangling.
func (s *Store) ResolveChild(r domain.Relationship) (ResolvedChild, bool) {
	e, ok := r.Edge.(domain.ChildEdge)
	if !ok {
		return ResolvedChild{}, false
	}
	child, ok := s.doc.PersonByID(e.ChildID)
	if !ok {
		return ResolvedChild{}, false
	}
	if e.SingleParentID != "" {
		parent, ok := s.doc.PersonByID(e.SingleParentID)
		if !ok {
			return ResolvedChild{}, false
		}
		return ResolvedChild{Relationship: r, SingleParent: parent, Child: child}, true
	}
	parents, ok := s.doc.RelationshipByID(e.ParentRelationshipID)
	if !ok {
		return ResolvedChild{}, false
	}
	if _, ok := s.ResolvePartner(parents); !ok {
		return ResolvedChild{}, false
	}
	return ResolvedChild{Relationship: r, Parents: parents, Child: child}, true
}

// Renderable returns the relationships whose endpoints all resolve. Dangling
// edges are filtered, never a fault.
func (s *Store) Renderable() []domain.Relationship {
	out := make([]domain.Relationship, 0, len(s.doc.Relationships))
	for _, r := range s.doc.Relationships {
		if s.resolves(r) {
			out = append(out, r)
		}
	}
	return out
}

// Dangling returns the relationships with at least one unresolved endpoint.
// With eager cascade deletes this is empty for documents authored here, but
// loaded data may carry dangling edges.
func (s *Store) Dangling() []domain.Relationship {
	var out []domain.Relationship
	for _, r := range s.doc.Relationships {
		if !s.resolves(r) {
			out = append(out, r)
		}
	}
	return out
}

func (s *Store) resolves(r domain.Relationship) bool {
	switch r.Edge.(type) {
	case domain.PartnerEdge:
		_, ok := s.ResolvePartner(r)
		return ok
	case domain.ChildEdge:
		_, ok := s.ResolveChild(r)
		return ok
	}
	return false
}

// PeopleInPolygon returns the ids of people whose canvas position falls
// inside the polygon, in document order.
func (s *Store) PeopleInPolygon(polygon []domain.Point) []string {
	var out []string
	for _, p := range s.doc.People {
		if geometry.PointInPolygon(domain.Point{X: p.X, Y: p.Y}, polygon) {
			out = append(out, p.ID)
		}
	}
	return out
}

// ReferencesTo returns ids of relationships, households and the multi-select
// style collections that still reference the person. Used by the validate
// surface to prove cascade completeness.
func (s *Store) ReferencesTo(personID string) []string {
	var refs []string
	for _, r := range s.doc.Relationships {
		if r.Involves(personID) {
			refs = append(refs, r.ID)
		}
	}
	for _, h := range s.doc.Households {
		if h.HasMember(personID) {
			refs = append(refs, h.ID)
		}
	}
	return refs
}
