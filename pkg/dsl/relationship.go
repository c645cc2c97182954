package dsl

import "github.com/avelar0/kinmap/pkg/domain"

// PartnershipBuilder provides a fluent API for configuring a partner
// relationship and hanging children off it.
type PartnershipBuilder struct {
	rel      domain.Relationship
	children []string
}

// Since sets the start date (e.g. a marriage date).
func (p *PartnershipBuilder) Since(date string) *PartnershipBuilder {
	p.rel.StartDate = date
	return p
}

// Color sets the line color.
func (p *PartnershipBuilder) Color(color string) *PartnershipBuilder {
	p.rel.Color = color
	return p
}

// Children declares the given people as children of this partnership.
func (p *PartnershipBuilder) Children(ids ...string) *PartnershipBuilder {
	p.children = append(p.children, ids...)
	return p
}

// ID returns the relationship id, useful for referencing the partnership
// after Build.
func (p *PartnershipBuilder) ID() string {
	return p.rel.ID
}

// HouseholdBuilder provides a fluent API for configuring a household.
type HouseholdBuilder struct {
	household domain.Household
}

// Bounded sets the polygon boundary vertices.
func (h *HouseholdBuilder) Bounded(points ...domain.Point) *HouseholdBuilder {
	h.household.Points = points
	return h
}

// Color sets the boundary color.
func (h *HouseholdBuilder) Color(color string) *HouseholdBuilder {
	h.household.Color = color
	return h
}
