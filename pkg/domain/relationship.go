package domain

import (
	"encoding/json"
	"fmt"
)

// RelationshipKind defines the semantic of an edge and, with it, the meaning
// of its endpoints.
type RelationshipKind string

const (
	// KindPartner connects two people (marriage, partnership).
	KindPartner RelationshipKind = "partner"
	// KindChild hangs off an existing partner relationship (the pair of
	// parents) and points at the child person. This is the key invariant of
	// the model: a child rendered under two parents has one edge, not two.
	KindChild RelationshipKind = "child"
	// KindSibling connects two sibling people with a sibling bar.
	KindSibling RelationshipKind = "sibling"
	// KindSupport connects two people with a supportive (or, with the
	// Conflict flag, conflictual) line.
	KindSupport RelationshipKind = "support"
)

// Edge is the tagged union of endpoint variants. Exactly two variants exist:
// PartnerEdge (person to person) and ChildEdge (partner relationship to
// person). The kind of the owning Relationship selects the variant.
type Edge interface {
	isEdge()
}

// PartnerEdge connects two people directly. Used by the partner, sibling and
// support kinds.
type PartnerEdge struct {
	PersonA string
	PersonB string
}

func (PartnerEdge) isEdge() {}

// ChildEdge connects a parent reference to a child person. Used by the child
// kind only. Exactly one of the parent fields is set: ParentRelationshipID
// names the partner relationship of a parent pair, SingleParentID names a
// lone parent person when the child has no second parent.
type ChildEdge struct {
	ParentRelationshipID string
	SingleParentID       string
	ChildID              string
}

func (ChildEdge) isEdge() {}

// ParentRef returns whichever parent reference is set: the partner
// relationship id for a paired child, the parent person id otherwise.
func (e ChildEdge) ParentRef() string {
	if e.SingleParentID != "" {
		return e.SingleParentID
	}
	return e.ParentRelationshipID
}

// Relationship is an edge of the genogram. The presentation fields (Color,
// BubblePos, Conflict) are data authored by the user, not derived state.
type Relationship struct {
	ID   string
	Kind RelationshipKind
	Edge Edge

	Color string
	// BubblePos is the position ratio of the bubble marker along the line.
	BubblePos float64
	Conflict  bool
	// StartDate is free-form (e.g. a marriage date) and is used to label
	// child-connection choices.
	StartDate string
}

// IsChild reports whether the relationship is a parent-child edge.
func (r Relationship) IsChild() bool { return r.Kind == KindChild }

// Involves reports whether the given person id is a direct endpoint.
// A paired child edge involves only the child person directly (the parents
// are reached through the referenced partner relationship); a single-parent
// child edge also involves the lone parent.
func (r Relationship) Involves(personID string) bool {
	switch e := r.Edge.(type) {
	case PartnerEdge:
		return e.PersonA == personID || e.PersonB == personID
	case ChildEdge:
		return e.ChildID == personID || (e.SingleParentID != "" && e.SingleParentID == personID)
	}
	return false
}

// OtherPartner returns the opposite endpoint of a partner-type edge.
// The second return is false for child edges or when the person is not an
// endpoint.
func (r Relationship) OtherPartner(personID string) (string, bool) {
	e, ok := r.Edge.(PartnerEdge)
	if !ok {
		return "", false
	}
	switch personID {
	case e.PersonA:
		return e.PersonB, true
	case e.PersonB:
		return e.PersonA, true
	}
	return "", false
}

// Validate checks that the edge variant matches the kind.
func (r Relationship) Validate() error {
	switch r.Kind {
	case KindChild:
		e, ok := r.Edge.(ChildEdge)
		if !ok {
			return fmt.Errorf("relationship %s: %w", r.ID, ErrEdgeKindMismatch)
		}
		if (e.ParentRelationshipID == "") == (e.SingleParentID == "") {
			return fmt.Errorf("relationship %s: child edge needs exactly one parent reference: %w", r.ID, ErrEdgeKindMismatch)
		}
	case KindPartner, KindSibling, KindSupport:
		if _, ok := r.Edge.(PartnerEdge); !ok {
			return fmt.Errorf("relationship %s: %w", r.ID, ErrEdgeKindMismatch)
		}
	default:
		return fmt.Errorf("relationship %s: unknown kind %q", r.ID, r.Kind)
	}
	return nil
}

// relationshipWire is the flat persisted shape. The meaning of from/to follows
// the kind: person ids for partner-type kinds, a parent reference and a
// person id for the child kind. SingleParent marks from as a lone parent
// person instead of a partner relationship.
type relationshipWire struct {
	ID           string           `json:"id"`
	Kind         RelationshipKind `json:"kind"`
	From         string           `json:"from"`
	To           string           `json:"to"`
	SingleParent bool             `json:"singleParent,omitempty"`
	Color        string           `json:"color,omitempty"`
	BubblePos    float64          `json:"bubblePos,omitempty"`
	Conflict     bool             `json:"conflict,omitempty"`
	StartDate    string           `json:"startDate,omitempty"`
}

// MarshalJSON flattens the edge union into the from/to wire shape.
func (r Relationship) MarshalJSON() ([]byte, error) {
	w := relationshipWire{
		ID:        r.ID,
		Kind:      r.Kind,
		Color:     r.Color,
		BubblePos: r.BubblePos,
		Conflict:  r.Conflict,
		StartDate: r.StartDate,
	}
	switch e := r.Edge.(type) {
	case PartnerEdge:
		w.From, w.To = e.PersonA, e.PersonB
	case ChildEdge:
		if e.SingleParentID != "" {
			w.From, w.SingleParent = e.SingleParentID, true
		} else {
			w.From = e.ParentRelationshipID
		}
		w.To = e.ChildID
	default:
		return nil, fmt.Errorf("relationship %s: nil edge", r.ID)
	}
	return json.Marshal(w)
}

// UnmarshalJSON rebuilds the edge union from the kind discriminator.
func (r *Relationship) UnmarshalJSON(data []byte) error {
	var w relationshipWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	r.ID = w.ID
	r.Kind = w.Kind
	r.Color = w.Color
	r.BubblePos = w.BubblePos
	r.Conflict = w.Conflict
	r.StartDate = w.StartDate
	if w.Kind == KindChild {
		if w.SingleParent {
			r.Edge = ChildEdge{SingleParentID: w.From, ChildID: w.To}
		} else {
			r.Edge = ChildEdge{ParentRelationshipID: w.From, ChildID: w.To}
		}
	} else {
		r.Edge = PartnerEdge{PersonA: w.From, PersonB: w.To}
	}
	return nil
}
