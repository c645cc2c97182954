package dsl

import (
	"fmt"

	"github.com/avelar0/kinmap/pkg/domain"
)

// Builder manages the document construction.
type Builder struct {
	people       map[string]*PersonBuilder
	order        []string
	partnerships []*PartnershipBuilder
	supports     []*supportEdge
	siblings     [][2]string
	households   []*HouseholdBuilder
	notes        []domain.Annotation
}

type supportEdge struct {
	a, b     string
	conflict bool
}

// New creates a new document builder.
func New() *Builder {
	return &Builder{
		people: make(map[string]*PersonBuilder),
	}
}

// Person creates a new person in the document.
// If the person already exists, it returns the existing builder.
func (b *Builder) Person(id string) *PersonBuilder {
	if pb, ok := b.people[id]; ok {
		return pb
	}
	pb := &PersonBuilder{
		person: domain.Person{ID: id},
	}
	b.people[id] = pb
	b.order = append(b.order, id)
	return pb
}

// Partners declares a partner relationship between two people. Both must
// have been declared with Person by the time Build runs.
func (b *Builder) Partners(a, other string) *PartnershipBuilder {
	pb := &PartnershipBuilder{
		rel: domain.Relationship{
			ID:   domain.NewRelationshipID(),
			Kind: domain.KindPartner,
			Edge: domain.PartnerEdge{PersonA: a, PersonB: other},
		},
	}
	b.partnerships = append(b.partnerships, pb)
	return pb
}

// Siblings declares a sibling bar between two people.
func (b *Builder) Siblings(a, other string) *Builder {
	b.siblings = append(b.siblings, [2]string{a, other})
	return b
}

// Supports declares a supportive line between two people. Conflict flips it
// to a conflictual line.
func (b *Builder) Supports(a, other string) *Builder {
	b.supports = append(b.supports, &supportEdge{a: a, b: other})
	return b
}

// Conflict declares a conflictual line between two people.
func (b *Builder) Conflict(a, other string) *Builder {
	b.supports = append(b.supports, &supportEdge{a: a, b: other, conflict: true})
	return b
}

// Household declares a named household boundary around the given members.
func (b *Builder) Household(name string, members ...string) *HouseholdBuilder {
	hb := &HouseholdBuilder{
		household: domain.Household{
			ID:      domain.NewHouseholdID(),
			Name:    name,
			Members: members,
		},
	}
	b.households = append(b.households, hb)
	return hb
}

// Note places a free-text annotation on the canvas.
func (b *Builder) Note(content string, x, y float64) *Builder {
	b.notes = append(b.notes, domain.Annotation{
		ID:      domain.NewAnnotationID(),
		Content: content,
		X:       x,
		Y:       y,
	})
	return b
}

// Build compiles the declarations into a document. Edges referencing
// undeclared people fail the build.
func (b *Builder) Build() (*domain.Document, error) {
	doc := domain.NewDocument()

	declared := func(id string) bool {
		_, ok := b.people[id]
		return ok
	}

	for _, id := range b.order {
		doc.People = append(doc.People, b.people[id].person)
	}

	for _, pb := range b.partnerships {
		edge := pb.rel.Edge.(domain.PartnerEdge)
		if !declared(edge.PersonA) || !declared(edge.PersonB) {
			return nil, fmt.Errorf("partnership %s/%s: %w", edge.PersonA, edge.PersonB, domain.ErrEndpointNotFound)
		}
		doc.Relationships = append(doc.Relationships, pb.rel)
		for _, childID := range pb.children {
			if !declared(childID) {
				return nil, fmt.Errorf("child %s: %w", childID, domain.ErrEndpointNotFound)
			}
			doc.Relationships = append(doc.Relationships, domain.Relationship{
				ID:   domain.NewRelationshipID(),
				Kind: domain.KindChild,
				Edge: domain.ChildEdge{ParentRelationshipID: pb.rel.ID, ChildID: childID},
			})
		}
	}

	for _, pair := range b.siblings {
		if !declared(pair[0]) || !declared(pair[1]) {
			return nil, fmt.Errorf("siblings %s/%s: %w", pair[0], pair[1], domain.ErrEndpointNotFound)
		}
		doc.Relationships = append(doc.Relationships, domain.Relationship{
			ID:   domain.NewRelationshipID(),
			Kind: domain.KindSibling,
			Edge: domain.PartnerEdge{PersonA: pair[0], PersonB: pair[1]},
		})
	}

	for _, s := range b.supports {
		if !declared(s.a) || !declared(s.b) {
			return nil, fmt.Errorf("support %s/%s: %w", s.a, s.b, domain.ErrEndpointNotFound)
		}
		doc.Relationships = append(doc.Relationships, domain.Relationship{
			ID:       domain.NewRelationshipID(),
			Kind:     domain.KindSupport,
			Conflict: s.conflict,
			Edge:     domain.PartnerEdge{PersonA: s.a, PersonB: s.b},
		})
	}

	for _, hb := range b.households {
		for _, id := range hb.household.Members {
			if !declared(id) {
				return nil, fmt.Errorf("household %s member %s: %w", hb.household.Name, id, domain.ErrEndpointNotFound)
			}
		}
		doc.Households = append(doc.Households, hb.household)
	}

	doc.Annotations = append(doc.Annotations, b.notes...)

	return doc, nil
}
