package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// NodeKind discriminates the node kinds the canvas supports beyond people.
// All kinds share position, name and notes; non-person kinds carry a
// kind-specific payload bag.
type NodeKind string

const (
	NodeKindPerson       NodeKind = "person"
	NodeKindOrganization NodeKind = "organization"
	NodeKindService      NodeKind = "service"
	NodeKindPlace        NodeKind = "place"
	NodeKindCustom       NodeKind = "custom"
)

// Person is a node on the canvas. Despite the name it covers every node kind;
// the zero Kind means a plain person.
type Person struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Kind NodeKind `json:"kind,omitempty"`

	Gender        string `json:"gender,omitempty"`
	Age           int    `json:"age,omitempty"`
	BirthDate     string `json:"birthDate,omitempty"`
	DeathDate     string `json:"deathDate,omitempty"`
	Deceased      bool   `json:"deceased,omitempty"`
	DeceasedStyle string `json:"deceasedStyle,omitempty"`

	// Canvas position.
	X float64 `json:"x"`
	Y float64 `json:"y"`

	Notes string `json:"notes,omitempty"`

	// Payload holds kind-specific attributes for non-person node kinds.
	// Use DecodePayload to read it as a typed struct.
	Payload map[string]any `json:"payload,omitempty"`
}

// IsPerson reports whether the node is a plain person (not an organization,
// service, place or custom node).
func (p Person) IsPerson() bool {
	return p.Kind == "" || p.Kind == NodeKindPerson
}

// Clone returns a deep copy of the person.
func (p Person) Clone() Person {
	out := p
	if p.Payload != nil {
		out.Payload = make(map[string]any, len(p.Payload))
		for k, v := range p.Payload {
			out.Payload[k] = v
		}
	}
	return out
}

// OrganizationPayload is the typed payload bag for organization nodes.
type OrganizationPayload struct {
	OrgType string `mapstructure:"org_type"`
	Contact string `mapstructure:"contact"`
	Website string `mapstructure:"website"`
}

// ServicePayload is the typed payload bag for service/resource nodes.
type ServicePayload struct {
	Category string `mapstructure:"category"`
	Provider string `mapstructure:"provider"`
	Phone    string `mapstructure:"phone"`
}

// PlacePayload is the typed payload bag for place nodes.
type PlacePayload struct {
	Address string `mapstructure:"address"`
	Region  string `mapstructure:"region"`
}

// DecodePayload decodes the node's free-form payload bag into a typed struct.
func DecodePayload(p Person, out any) error {
	if err := mapstructure.Decode(p.Payload, out); err != nil {
		return fmt.Errorf("decode %s payload: %w", p.Kind, err)
	}
	return nil
}
