package domain

import "errors"

// ErrNotFound is returned when an entity id cannot be resolved in the document.
var ErrNotFound = errors.New("entity not found")

// ErrEndpointNotFound is returned when an edge references a nonexistent endpoint.
// The mutation is rejected before any state change.
var ErrEndpointNotFound = errors.New("edge endpoint not found")

// ErrSelfEdge is returned when both endpoints of an edge are the same person.
var ErrSelfEdge = errors.New("edge endpoints are the same person")

// ErrDuplicateEdge is returned when an equivalent edge already exists.
var ErrDuplicateEdge = errors.New("equivalent edge already exists")

// ErrDuplicateID is returned when an entity with the same id already exists.
var ErrDuplicateID = errors.New("entity id already exists")

// ErrEdgeKindMismatch is returned when a relationship's edge variant does not
// match its kind (e.g. a parent-child kind carrying a partner edge).
var ErrEdgeKindMismatch = errors.New("edge variant does not match relationship kind")

// ErrDocumentNotFound is returned by document stores when the requested
// document id does not exist.
var ErrDocumentNotFound = errors.New("document not found")
