package interaction

import "github.com/avelar0/kinmap/pkg/domain"

// Plan is the mutation set a committed connection asks the editor to apply.
// When Decision is non-nil the gesture needs user disambiguation first and
// the entity slices are empty.
type Plan struct {
	NewPeople        []domain.Person
	NewRelationships []domain.Relationship
	Decision         *domain.Decision
}

// DocumentReader is the read-only view of the graph the connector validates
// against.
type DocumentReader interface {
	Document() *domain.Document
}

// Connector drives the two-phase "draw a line from X to Y" interaction.
// It has two states: idle, and connecting from an origin with a kind. The
// machine never mutates the graph itself; a successful commit returns a Plan
// for the editor to apply, which decouples gesture capture from mutation.
type Connector struct {
	reader DocumentReader

	connecting bool
	originID   string
	kind       domain.ConnectionKind
}

// NewConnector creates an idle connector validating against the given view.
func NewConnector(reader DocumentReader) *Connector {
	return &Connector{reader: reader}
}

// Start enters the connecting state. Starting while already connecting
// resets to the new origin.
func (c *Connector) Start(originID string, kind domain.ConnectionKind) {
	c.connecting = true
	c.originID = originID
	c.kind = kind
}

// Cancel discards any partial state. Idempotent in idle.
func (c *Connector) Cancel() {
	c.connecting = false
	c.originID = ""
	c.kind = ""
}

// Connecting reports whether a connection gesture is in progress.
func (c *Connector) Connecting() bool { return c.connecting }

// Origin returns the pending origin and kind while connecting.
func (c *Connector) Origin() (string, domain.ConnectionKind, bool) {
	return c.originID, c.kind, c.connecting
}

// Commit attempts to complete the gesture on the clicked target. A valid
// target yields a Plan and returns the machine to idle. An invalid target
// (self, unresolvable ids, would-be duplicate edge) leaves the state
// unchanged and returns false: a caller-visible no-op, not an error.
func (c *Connector) Commit(targetID string) (*Plan, bool) {
	if !c.connecting {
		return nil, false
	}

	var plan *Plan
	switch c.kind {
	case domain.ConnectPartner:
		plan = c.planPartner(targetID)
	case domain.ConnectChild:
		plan = c.planChild(targetID)
	case domain.ConnectParent:
		plan = c.planParent(targetID)
	}
	if plan == nil {
		return nil, false
	}
	c.Cancel()
	return plan, true
}

func (c *Connector) planPartner(targetID string) *Plan {
	doc := c.reader.Document()
	if c.originID == targetID {
		return nil
	}
	if _, ok := doc.PersonByID(c.originID); !ok {
		return nil
	}
	if _, ok := doc.PersonByID(targetID); !ok {
		return nil
	}
	if hasPartnerEdge(doc, c.originID, targetID) {
		return nil
	}
	return &Plan{
		NewRelationships: []domain.Relationship{{
			ID:        domain.NewRelationshipID(),
			Kind:      domain.KindPartner,
			Edge:      domain.PartnerEdge{PersonA: c.originID, PersonB: targetID},
			BubblePos: 0.5,
		}},
	}
}

func (c *Connector) planChild(targetID string) *Plan {
	doc := c.reader.Document()
	parents, ok := doc.RelationshipByID(c.originID)
	if !ok || parents.Kind != domain.KindPartner {
		return nil
	}
	child, ok := doc.PersonByID(targetID)
	if !ok {
		return nil
	}
	// The child cannot be one of its own parents.
	if parents.Involves(child.ID) {
		return nil
	}
	if hasChildEdge(doc, parents.ID, child.ID) {
		return nil
	}
	return &Plan{
		NewRelationships: []domain.Relationship{{
			ID:   domain.NewRelationshipID(),
			Kind: domain.KindChild,
			Edge: domain.ChildEdge{ParentRelationshipID: parents.ID, ChildID: child.ID},
		}},
	}
}

// planParent treats the origin as the child and the target as a parent. The
// co-parent policy decides whether the child can attach to the target's only
// partner relationship directly; every other case surfaces a decision so the
// caller can pick how the co-parent comes to be.
func (c *Connector) planParent(targetID string) *Plan {
	doc := c.reader.Document()
	if c.originID == targetID {
		return nil
	}
	childPerson, ok := doc.PersonByID(c.originID)
	if !ok {
		return nil
	}
	parent, ok := doc.PersonByID(targetID)
	if !ok {
		return nil
	}

	decision := domain.ResolveChildConnection(doc, parent.ID)
	switch decision.Kind {
	case domain.DecisionAuto:
		if rel, ok := doc.RelationshipByID(decision.AutoRelationshipID); ok && rel.Involves(childPerson.ID) {
			// Target's only partner relationship already includes the child.
			return nil
		}
		if hasChildEdge(doc, decision.AutoRelationshipID, childPerson.ID) {
			return nil
		}
		return &Plan{
			NewRelationships: []domain.Relationship{{
				ID:   domain.NewRelationshipID(),
				Kind: domain.KindChild,
				Edge: domain.ChildEdge{ParentRelationshipID: decision.AutoRelationshipID, ChildID: childPerson.ID},
			}},
		}

	default:
		// No candidate pair, or several: surface the decision to the
		// caller, who completes the attachment through an explicit action.
		return &Plan{Decision: &decision}
	}
}

func hasPartnerEdge(doc *domain.Document, a, b string) bool {
	for _, r := range doc.Relationships {
		e, ok := r.Edge.(domain.PartnerEdge)
		if !ok || r.Kind != domain.KindPartner {
			continue
		}
		if (e.PersonA == a && e.PersonB == b) || (e.PersonA == b && e.PersonB == a) {
			return true
		}
	}
	return false
}

func hasChildEdge(doc *domain.Document, parentRelID, childID string) bool {
	for _, r := range doc.Relationships {
		if e, ok := r.Edge.(domain.ChildEdge); ok && e.ParentRelationshipID == parentRelID && e.ChildID == childID {
			return true
		}
	}
	return false
}
