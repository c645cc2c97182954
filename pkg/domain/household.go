package domain

// Point is a canvas coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Household is a closed polygonal boundary grouping co-located people.
// Points holds the ordered boundary vertices (at least 3 for a closed shape);
// Members lists the ids of people whose position falls inside the polygon at
// the time the boundary was committed.
type Household struct {
	ID      string   `json:"id"`
	Name    string   `json:"name,omitempty"`
	Points  []Point  `json:"points"`
	Members []string `json:"members"`
	Color   string   `json:"color,omitempty"`
}

// Clone returns a deep copy of the household.
func (h Household) Clone() Household {
	out := h
	out.Points = append([]Point(nil), h.Points...)
	out.Members = append([]string(nil), h.Members...)
	return out
}

// HasMember reports whether the person id is in the membership set.
func (h Household) HasMember(personID string) bool {
	for _, id := range h.Members {
		if id == personID {
			return true
		}
	}
	return false
}
