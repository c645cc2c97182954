package graph

import (
	"fmt"
	"strings"

	"github.com/avelar0/kinmap/pkg/domain"
)

// Overlay contains dynamic state to highlight on the graph.
type Overlay struct {
	SelectedNodes []string
}

// GenerateMermaid produces a Mermaid flowchart from a genogram document.
// It applies genogram styling:
// - Male: [Rectangle]
// - Female: ((Circle))
// - Other/unknown gender, and non-person nodes: {Rhombus}
// Partner relationships become a small junction node between the two people;
// child edges hang off that junction, which keeps the one-edge-per-child
// shape of the model visible. Households render as subgraphs.
func GenerateMermaid(doc *domain.Document, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	inHousehold := make(map[string]bool)
	for _, h := range doc.Households {
		for _, id := range h.Members {
			inHousehold[id] = true
		}
	}

	writePerson := func(indent string, p domain.Person) {
		opener, closer := "{", "}"
		if p.IsPerson() {
			switch strings.ToLower(p.Gender) {
			case "male", "m":
				opener, closer = "[", "]"
			case "female", "f":
				opener, closer = "((", "))"
			}
		}
		label := p.Name
		if label == "" {
			label = p.ID
		}
		if p.Deceased {
			label = "✝ " + label
		}
		if p.BirthDate != "" {
			label = fmt.Sprintf("%s <br/> *%s", label, p.BirthDate)
		}
		sb.WriteString(fmt.Sprintf("%s%s%s\"%s\"%s\n", indent, sanitizeMermaidID(p.ID), opener, label, closer))
	}

	for _, p := range doc.People {
		if inHousehold[p.ID] {
			continue
		}
		writePerson("    ", p)
	}

	for i, h := range doc.Households {
		name := h.Name
		if name == "" {
			name = fmt.Sprintf("Household %d", i+1)
		}
		sb.WriteString(fmt.Sprintf("    subgraph %s[\"%s\"]\n", sanitizeMermaidID(h.ID), name))
		for _, id := range h.Members {
			if p, ok := doc.PersonByID(id); ok {
				writePerson("        ", p)
			}
		}
		sb.WriteString("    end\n")
	}

	for _, r := range doc.Relationships {
		safeID := sanitizeMermaidID(r.ID)
		switch e := r.Edge.(type) {
		case domain.PartnerEdge:
			a, b := sanitizeMermaidID(e.PersonA), sanitizeMermaidID(e.PersonB)
			switch r.Kind {
			case domain.KindPartner:
				// Junction node the child edges attach to.
				label := "⚭"
				if r.StartDate != "" {
					label = r.StartDate
				}
				sb.WriteString(fmt.Sprintf("    %s((\"%s\"))\n", safeID, label))
				sb.WriteString(fmt.Sprintf("    %s --- %s\n", a, safeID))
				sb.WriteString(fmt.Sprintf("    %s --- %s\n", safeID, b))
			case domain.KindSibling:
				sb.WriteString(fmt.Sprintf("    %s --- %s\n", a, b))
			default:
				arrow := "-. support .-"
				if r.Conflict {
					arrow = "-. ⚡ conflict .-"
				}
				sb.WriteString(fmt.Sprintf("    %s %s %s\n", a, arrow, b))
			}
		case domain.ChildEdge:
			// Paired children hang off the partner line's junction node,
			// single-parent children directly off the parent person.
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", sanitizeMermaidID(e.ParentRef()), sanitizeMermaidID(e.ChildID)))
		}
	}

	if overlay != nil && len(overlay.SelectedNodes) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef selected fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.SelectedNodes {
			safeID := sanitizeMermaidID(id)
			if !seen[safeID] && safeID != "" {
				seen[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s selected;\n", safeID))
			}
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
