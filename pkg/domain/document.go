package domain

import (
	"encoding/json"
	"fmt"
)

// Document is the full serializable genogram. The field order matches the
// persisted JSON shape; Metadata is free-form (e.g. source-case linkage).
type Document struct {
	People        []Person       `json:"people"`
	Relationships []Relationship `json:"relationships"`
	Households    []Household    `json:"households"`
	Annotations   []Annotation   `json:"textAnnotations"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{
		People:        []Person{},
		Relationships: []Relationship{},
		Households:    []Household{},
		Annotations:   []Annotation{},
	}
}

// Clone returns a deep copy of the document. Snapshots handed to history,
// autosave and host notification must never alias live state.
func (d *Document) Clone() *Document {
	out := &Document{
		People:        make([]Person, 0, len(d.People)),
		Relationships: make([]Relationship, 0, len(d.Relationships)),
		Households:    make([]Household, 0, len(d.Households)),
		Annotations:   make([]Annotation, 0, len(d.Annotations)),
	}
	for _, p := range d.People {
		out.People = append(out.People, p.Clone())
	}
	// Relationship edges are value types; a shallow copy is a deep copy.
	out.Relationships = append(out.Relationships, d.Relationships...)
	for _, h := range d.Households {
		out.Households = append(out.Households, h.Clone())
	}
	out.Annotations = append(out.Annotations, d.Annotations...)
	if d.Metadata != nil {
		out.Metadata = make(map[string]any, len(d.Metadata))
		for k, v := range d.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// PersonByID returns the person with the given id.
func (d *Document) PersonByID(id string) (Person, bool) {
	for _, p := range d.People {
		if p.ID == id {
			return p, true
		}
	}
	return Person{}, false
}

// RelationshipByID returns the relationship with the given id.
func (d *Document) RelationshipByID(id string) (Relationship, bool) {
	for _, r := range d.Relationships {
		if r.ID == id {
			return r, true
		}
	}
	return Relationship{}, false
}

// HouseholdByID returns the household with the given id.
func (d *Document) HouseholdByID(id string) (Household, bool) {
	for _, h := range d.Households {
		if h.ID == id {
			return h, true
		}
	}
	return Household{}, false
}

// AnnotationByID returns the text annotation with the given id.
func (d *Document) AnnotationByID(id string) (Annotation, bool) {
	for _, a := range d.Annotations {
		if a.ID == id {
			return a, true
		}
	}
	return Annotation{}, false
}

// PartnerRelationshipsOf returns every partner-kind relationship that has the
// given person as an endpoint, in document order.
func (d *Document) PartnerRelationshipsOf(personID string) []Relationship {
	var out []Relationship
	for _, r := range d.Relationships {
		if r.Kind == KindPartner && r.Involves(personID) {
			out = append(out, r)
		}
	}
	return out
}

// Serialize encodes the document as JSON. Round-tripping through Parse yields
// an equal document.
func (d *Document) Serialize() ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("serialize document: %w", err)
	}
	return data, nil
}

// Parse decodes a serialized document. Nil entity slices are normalized to
// empty so a parsed document compares equal to its source.
func Parse(data []byte) (*Document, error) {
	doc := NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if doc.People == nil {
		doc.People = []Person{}
	}
	if doc.Relationships == nil {
		doc.Relationships = []Relationship{}
	}
	if doc.Households == nil {
		doc.Households = []Household{}
	}
	if doc.Annotations == nil {
		doc.Annotations = []Annotation{}
	}
	return doc, nil
}
