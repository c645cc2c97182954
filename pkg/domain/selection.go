package domain

// SelectionKind names the entity kind held by the single selection.
type SelectionKind string

const (
	SelectPerson       SelectionKind = "person"
	SelectRelationship SelectionKind = "relationship"
	SelectHousehold    SelectionKind = "household"
	SelectAnnotation   SelectionKind = "annotation"
)

// Selection is the single-selection slot: at most one entity of any kind is
// selected at a time. The zero value means nothing is selected.
type Selection struct {
	Kind SelectionKind `json:"kind,omitempty"`
	ID   string        `json:"id,omitempty"`
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool { return s.ID == "" }
