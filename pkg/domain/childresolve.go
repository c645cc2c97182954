package domain

// DecisionKind classifies the outcome of resolving a child connection
// against a parent's partner relationships.
type DecisionKind string

const (
	// DecisionAuto means exactly one partner relationship exists and the
	// child can be attached to it without asking.
	DecisionAuto DecisionKind = "auto"
	// DecisionPromptCoParent means the parent has no partner relationship
	// and the caller must pick how the co-parent comes to be.
	DecisionPromptCoParent DecisionKind = "prompt_co_parent"
	// DecisionPromptChoose means several partner relationships qualify and
	// the caller must pick one.
	DecisionPromptChoose DecisionKind = "prompt_choose"
)

// CoParentOption is one way to complete a child connection when no single
// partner relationship can be chosen automatically.
type CoParentOption string

const (
	OptionUnknownCoParent CoParentOption = "unknown_co_parent"
	OptionNewPartner      CoParentOption = "new_partner"
	OptionExistingPerson  CoParentOption = "existing_person"
	OptionSingleParent    CoParentOption = "single_parent"
)

// PartnerChoice is a selectable partner relationship, labelled for display.
type PartnerChoice struct {
	RelationshipID string
	Label          string
}

// Decision is the result of ResolveChildConnection. Exactly one of
// AutoRelationshipID or the prompt fields is populated, depending on Kind.
type Decision struct {
	Kind               DecisionKind
	AutoRelationshipID string
	Choices            []PartnerChoice
	Options            []CoParentOption
}

// ResolveChildConnection decides how a child should be attached under the
// given parent. It inspects the document fresh on every call so that
// partner relationships created since the last invocation are seen.
func ResolveChildConnection(doc *Document, parentID string) Decision {
	partners := doc.PartnerRelationshipsOf(parentID)

	switch len(partners) {
	case 0:
		return Decision{
			Kind: DecisionPromptCoParent,
			Options: []CoParentOption{
				OptionUnknownCoParent,
				OptionNewPartner,
				OptionExistingPerson,
				OptionSingleParent,
			},
		}
	case 1:
		return Decision{Kind: DecisionAuto, AutoRelationshipID: partners[0].ID}
	}

	choices := make([]PartnerChoice, 0, len(partners))
	for _, rel := range partners {
		choices = append(choices, PartnerChoice{
			RelationshipID: rel.ID,
			Label:          choiceLabel(doc, rel, parentID),
		})
	}
	return Decision{
		Kind:    DecisionPromptChoose,
		Choices: choices,
		Options: []CoParentOption{OptionUnknownCoParent},
	}
}

func choiceLabel(doc *Document, rel Relationship, parentID string) string {
	name := "unknown partner"
	if otherID, ok := rel.OtherPartner(parentID); ok {
		if other, found := doc.PersonByID(otherID); found {
			name = other.Name
		}
	}
	label := name + " (" + string(rel.Kind)
	if rel.StartDate != "" {
		label += ", " + rel.StartDate
	}
	return label + ")"
}
