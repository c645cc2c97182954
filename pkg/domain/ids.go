package domain

import (
	"strconv"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// idAlphabet keeps ids lowercase so they survive case-insensitive transports.
const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

const idSuffixLen = 8

// NewID generates a collision-resistant entity id: a type prefix, the current
// timestamp in base36, and a random nanoid suffix.
func NewID(prefix string) string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return prefix + "_" + ts + gonanoid.MustGenerate(idAlphabet, idSuffixLen)
}

// NewPersonID returns a fresh person id.
func NewPersonID() string { return NewID("p") }

// NewRelationshipID returns a fresh relationship id.
func NewRelationshipID() string { return NewID("r") }

// NewHouseholdID returns a fresh household id.
func NewHouseholdID() string { return NewID("h") }

// NewAnnotationID returns a fresh text annotation id.
func NewAnnotationID() string { return NewID("t") }
