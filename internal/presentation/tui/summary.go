package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/avelar0/kinmap/pkg/domain"
	"github.com/avelar0/kinmap/pkg/registry"
)

// DocumentMarkdown renders a genogram document as a markdown summary,
// suitable for piping through the glamour renderer.
func DocumentMarkdown(doc *domain.Document) string {
	var sb strings.Builder

	sb.WriteString("# Genogram\n\n")
	sb.WriteString(fmt.Sprintf("%d people, %d relationships, %d households, %d notes\n\n",
		len(doc.People), len(doc.Relationships), len(doc.Households), len(doc.Annotations)))

	if len(doc.People) > 0 {
		sb.WriteString("## People\n\n")
		for _, p := range doc.People {
			line := "- **" + displayName(p) + "**"
			var facts []string
			if p.Gender != "" {
				facts = append(facts, p.Gender)
			}
			if p.BirthDate != "" {
				facts = append(facts, "b. "+p.BirthDate)
			}
			if p.Deceased {
				if p.DeathDate != "" {
					facts = append(facts, "d. "+p.DeathDate)
				} else {
					facts = append(facts, "deceased")
				}
			}
			if !p.IsPerson() {
				facts = append(facts, string(p.Kind))
			}
			if len(facts) > 0 {
				line += " (" + strings.Join(facts, ", ") + ")"
			}
			sb.WriteString(line + "\n")
		}
		sb.WriteString("\n")
	}

	if len(doc.Relationships) > 0 {
		sb.WriteString("## Relationships\n\n")
		for _, r := range doc.Relationships {
			sb.WriteString("- " + describeRelationship(doc, r) + "\n")
		}
		sb.WriteString("\n")
	}

	if len(doc.Households) > 0 {
		sb.WriteString("## Households\n\n")
		for i, h := range doc.Households {
			name := h.Name
			if name == "" {
				name = fmt.Sprintf("Household %d", i+1)
			}
			var members []string
			for _, id := range h.Members {
				if p, ok := doc.PersonByID(id); ok {
					members = append(members, displayName(p))
				}
			}
			sb.WriteString(fmt.Sprintf("- **%s**: %s\n", name, strings.Join(members, ", ")))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// NodeDetailsMarkdown renders the decoded payloads of non-person nodes as a
// markdown section, using the decoder registered for each node kind. Nodes
// without a registered decoder or with an empty payload are skipped.
func NodeDetailsMarkdown(ctx context.Context, doc *domain.Document, reg *registry.Registry) string {
	var sb strings.Builder
	for _, p := range doc.People {
		if p.IsPerson() || len(p.Payload) == 0 {
			continue
		}
		decoded, err := reg.Decode(ctx, p)
		if err != nil {
			continue
		}
		if sb.Len() == 0 {
			sb.WriteString("## Node Details\n\n")
		}
		sb.WriteString(fmt.Sprintf("- **%s** (%s)", displayName(p), p.Kind))
		for _, fact := range payloadFacts(decoded) {
			sb.WriteString(", " + fact)
		}
		sb.WriteString("\n")
	}
	if sb.Len() > 0 {
		sb.WriteString("\n")
	}
	return sb.String()
}

func payloadFacts(decoded any) []string {
	switch d := decoded.(type) {
	case domain.OrganizationPayload:
		return nonEmpty(d.OrgType, d.Contact, d.Website)
	case domain.ServicePayload:
		return nonEmpty(d.Category, d.Provider, d.Phone)
	case domain.PlacePayload:
		return nonEmpty(d.Address, d.Region)
	}
	return nil
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// DefaultNodeRegistry returns a registry pre-loaded with the built-in
// non-person payload decoders.
func DefaultNodeRegistry() *registry.Registry {
	reg := registry.NewRegistry()
	reg.Register(domain.NodeKindOrganization, registry.Typed[domain.OrganizationPayload]())
	reg.Register(domain.NodeKindService, registry.Typed[domain.ServicePayload]())
	reg.Register(domain.NodeKindPlace, registry.Typed[domain.PlacePayload]())
	return reg
}

func displayName(p domain.Person) string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

func describeRelationship(doc *domain.Document, r domain.Relationship) string {
	nameOf := func(id string) string {
		if p, ok := doc.PersonByID(id); ok {
			return displayName(p)
		}
		return id
	}

	switch e := r.Edge.(type) {
	case domain.PartnerEdge:
		verb := string(r.Kind)
		if r.Kind == domain.KindSupport && r.Conflict {
			verb = "conflict"
		}
		s := fmt.Sprintf("%s & %s (%s)", nameOf(e.PersonA), nameOf(e.PersonB), verb)
		if r.StartDate != "" {
			s += " since " + r.StartDate
		}
		return s
	case domain.ChildEdge:
		if e.SingleParentID != "" {
			return fmt.Sprintf("%s, child of %s", nameOf(e.ChildID), nameOf(e.SingleParentID))
		}
		if parents, ok := doc.RelationshipByID(e.ParentRelationshipID); ok {
			if pe, ok := parents.Edge.(domain.PartnerEdge); ok {
				return fmt.Sprintf("%s, child of %s and %s", nameOf(e.ChildID), nameOf(pe.PersonA), nameOf(pe.PersonB))
			}
		}
		return fmt.Sprintf("%s (child)", nameOf(e.ChildID))
	}
	return r.ID
}
