/*
Package domain contains the core domain models for the kinmap editor.

It defines the entities of a genogram document (people, relationships,
households and text annotations) together with the selection state,
mutation events and the serialized document shape. This package is kept
pure and free of I/O or persistence concerns, following Hexagonal
Architecture principles.

# Key Entities

  - Person: A node on the canvas (a person or another node kind such as
    an organization or a place, discriminated by NodeKind).
  - Relationship: An edge with a tagged-union endpoint model. Partner-type
    kinds connect two people directly; the parent-child kind hangs off an
    existing partner relationship (the pair of parents) and points at the
    child person.
  - Household: A polygonal boundary grouping co-located people.
  - Annotation: A free-text note box on the canvas.
  - Document: The full serializable genogram (people, relationships,
    households, textAnnotations, metadata).
*/
package domain
