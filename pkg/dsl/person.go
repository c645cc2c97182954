package dsl

import "github.com/avelar0/kinmap/pkg/domain"

// PersonBuilder provides a fluent API for configuring a person.
type PersonBuilder struct {
	person domain.Person
}

// Name sets the display name.
func (p *PersonBuilder) Name(name string) *PersonBuilder {
	p.person.Name = name
	return p
}

// Male marks the person as male.
func (p *PersonBuilder) Male() *PersonBuilder {
	p.person.Gender = "male"
	return p
}

// Female marks the person as female.
func (p *PersonBuilder) Female() *PersonBuilder {
	p.person.Gender = "female"
	return p
}

// Gender sets a free-form gender value.
func (p *PersonBuilder) Gender(gender string) *PersonBuilder {
	p.person.Gender = gender
	return p
}

// Born sets the birth date.
func (p *PersonBuilder) Born(date string) *PersonBuilder {
	p.person.BirthDate = date
	return p
}

// Died sets the death date and marks the person deceased.
func (p *PersonBuilder) Died(date string) *PersonBuilder {
	p.person.DeathDate = date
	p.person.Deceased = true
	return p
}

// Deceased marks the person deceased without a known date.
func (p *PersonBuilder) Deceased() *PersonBuilder {
	p.person.Deceased = true
	return p
}

// At sets the canvas position.
func (p *PersonBuilder) At(x, y float64) *PersonBuilder {
	p.person.X = x
	p.person.Y = y
	return p
}

// Kind marks the node as a non-person kind (organization, service, place).
func (p *PersonBuilder) Kind(kind domain.NodeKind) *PersonBuilder {
	p.person.Kind = kind
	return p
}

// Payload sets a kind-specific attribute for non-person nodes.
func (p *PersonBuilder) Payload(key string, value any) *PersonBuilder {
	if p.person.Payload == nil {
		p.person.Payload = make(map[string]any)
	}
	p.person.Payload[key] = value
	return p
}

// Notes attaches free-text notes to the person.
func (p *PersonBuilder) Notes(notes string) *PersonBuilder {
	p.person.Notes = notes
	return p
}

// Build returns the underlying domain.Person.
// This is primarily used by the Builder, but exposed for advanced usage.
func (p *PersonBuilder) Build() domain.Person {
	return p.person
}
