package domain

// PersonPatch describes a partial update. Nil fields are left untouched.
type PersonPatch struct {
	Name          *string        `json:"name,omitempty"`
	Kind          *NodeKind      `json:"kind,omitempty"`
	Gender        *string        `json:"gender,omitempty"`
	Age           *int           `json:"age,omitempty"`
	BirthDate     *string        `json:"birthDate,omitempty"`
	DeathDate     *string        `json:"deathDate,omitempty"`
	Deceased      *bool          `json:"deceased,omitempty"`
	DeceasedStyle *string        `json:"deceasedStyle,omitempty"`
	X             *float64       `json:"x,omitempty"`
	Y             *float64       `json:"y,omitempty"`
	Notes         *string        `json:"notes,omitempty"`
	Payload       map[string]any `json:"payload,omitempty"`
}

func (p PersonPatch) Apply(dst *Person) {
	if p.Name != nil {
		dst.Name = *p.Name
	}
	if p.Kind != nil {
		dst.Kind = *p.Kind
	}
	if p.Gender != nil {
		dst.Gender = *p.Gender
	}
	if p.Age != nil {
		dst.Age = *p.Age
	}
	if p.BirthDate != nil {
		dst.BirthDate = *p.BirthDate
	}
	if p.DeathDate != nil {
		dst.DeathDate = *p.DeathDate
	}
	if p.Deceased != nil {
		dst.Deceased = *p.Deceased
	}
	if p.DeceasedStyle != nil {
		dst.DeceasedStyle = *p.DeceasedStyle
	}
	if p.X != nil {
		dst.X = *p.X
	}
	if p.Y != nil {
		dst.Y = *p.Y
	}
	if p.Notes != nil {
		dst.Notes = *p.Notes
	}
	if p.Payload != nil {
		dst.Payload = make(map[string]any, len(p.Payload))
		for k, v := range p.Payload {
			dst.Payload[k] = v
		}
	}
}

// RelationshipPatch updates presentation metadata only; endpoints and kind
// are immutable after creation.
type RelationshipPatch struct {
	Color     *string  `json:"color,omitempty"`
	BubblePos *float64 `json:"bubblePos,omitempty"`
	Conflict  *bool    `json:"conflict,omitempty"`
	StartDate *string  `json:"startDate,omitempty"`
}

func (p RelationshipPatch) Apply(dst *Relationship) {
	if p.Color != nil {
		dst.Color = *p.Color
	}
	if p.BubblePos != nil {
		dst.BubblePos = *p.BubblePos
	}
	if p.Conflict != nil {
		dst.Conflict = *p.Conflict
	}
	if p.StartDate != nil {
		dst.StartDate = *p.StartDate
	}
}

// HouseholdPatch describes a partial household update. Points and Members
// replace the whole slice when non-nil.
type HouseholdPatch struct {
	Name    *string  `json:"name,omitempty"`
	Color   *string  `json:"color,omitempty"`
	Points  []Point  `json:"points,omitempty"`
	Members []string `json:"members,omitempty"`
}

func (p HouseholdPatch) Apply(dst *Household) {
	if p.Name != nil {
		dst.Name = *p.Name
	}
	if p.Color != nil {
		dst.Color = *p.Color
	}
	if p.Points != nil {
		dst.Points = append([]Point(nil), p.Points...)
	}
	if p.Members != nil {
		dst.Members = append([]string(nil), p.Members...)
	}
}

// AnnotationPatch describes a partial text annotation update.
type AnnotationPatch struct {
	Content  *string  `json:"content,omitempty"`
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Width    *float64 `json:"width,omitempty"`
	Height   *float64 `json:"height,omitempty"`
	FontSize *float64 `json:"fontSize,omitempty"`
	Color    *string  `json:"color,omitempty"`
	Bold     *bool    `json:"bold,omitempty"`
	Italic   *bool    `json:"italic,omitempty"`
}

func (p AnnotationPatch) Apply(dst *Annotation) {
	if p.Content != nil {
		dst.Content = *p.Content
	}
	if p.X != nil {
		dst.X = *p.X
	}
	if p.Y != nil {
		dst.Y = *p.Y
	}
	if p.Width != nil {
		dst.Width = *p.Width
	}
	if p.Height != nil {
		dst.Height = *p.Height
	}
	if p.FontSize != nil {
		dst.FontSize = *p.FontSize
	}
	if p.Color != nil {
		dst.Color = *p.Color
	}
	if p.Bold != nil {
		dst.Bold = *p.Bold
	}
	if p.Italic != nil {
		dst.Italic = *p.Italic
	}
}
