package interaction

import "github.com/avelar0/kinmap/pkg/domain"

// Selection tracks the single-selection slot and the independent
// multi-selection set. Setting the single selection to one entity kind clears
// the others; the multi-selection is an ordered set of person ids used for
// bulk operations and never touches the single selection.
type Selection struct {
	current domain.Selection
	multi   []string
}

// NewSelection returns an empty selection state.
func NewSelection() *Selection {
	return &Selection{}
}

// Select sets the single selection. An empty id clears it.
func (s *Selection) Select(kind domain.SelectionKind, id string) {
	if id == "" {
		s.current = domain.Selection{}
		return
	}
	s.current = domain.Selection{Kind: kind, ID: id}
}

// Clear empties the single selection.
func (s *Selection) Clear() {
	s.current = domain.Selection{}
}

// Current returns the single selection.
func (s *Selection) Current() domain.Selection {
	return s.current
}

// ToggleNode adds the person to the multi-selection set, or removes it if
// already present. Order of first insertion is preserved.
func (s *Selection) ToggleNode(personID string) {
	for i, id := range s.multi {
		if id == personID {
			s.multi = append(s.multi[:i], s.multi[i+1:]...)
			return
		}
	}
	s.multi = append(s.multi, personID)
}

// ClearNodes empties the multi-selection set.
func (s *Selection) ClearNodes() {
	s.multi = nil
}

// Nodes returns a copy of the multi-selection set in insertion order.
func (s *Selection) Nodes() []string {
	return append([]string(nil), s.multi...)
}

// DropEntity removes any selection referencing a deleted entity: the single
// selection if it matches, and for people also the multi-selection entry.
func (s *Selection) DropEntity(kind domain.SelectionKind, id string) {
	if s.current.Kind == kind && s.current.ID == id {
		s.current = domain.Selection{}
	}
	if kind == domain.SelectPerson {
		for i, cur := range s.multi {
			if cur == id {
				s.multi = append(s.multi[:i], s.multi[i+1:]...)
				break
			}
		}
	}
}
