package domain

// ConnectionKind selects what the two-phase connection gesture creates.
type ConnectionKind string

const (
	// ConnectPartner draws a partner line between two people.
	ConnectPartner ConnectionKind = "partner"
	// ConnectChild attaches a child person to a partner relationship; the
	// gesture starts on the relationship's bubble, so the origin is a
	// relationship id.
	ConnectChild ConnectionKind = "child"
	// ConnectParent attaches the origin person as a child under the target
	// person's parental pair; the co-parent is resolved by policy.
	ConnectParent ConnectionKind = "parent"
)
