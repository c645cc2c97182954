package ports

import (
	"context"

	"github.com/avelar0/kinmap/pkg/domain"
)

// DocumentStore defines the interface for persisting genogram documents.
// Implementations must not retain or alias the saved document: a Load after
// Save returns an equal but independent copy.
type DocumentStore interface {
	// Save persists the document under the given id.
	Save(ctx context.Context, docID string, doc *domain.Document) error

	// Load retrieves a document.
	// Returns domain.ErrDocumentNotFound if the id does not exist.
	Load(ctx context.Context, docID string) (*domain.Document, error)

	// Delete removes the document. Deleting a missing id is not an error.
	Delete(ctx context.Context, docID string) error

	// List returns the stored document ids.
	List(ctx context.Context) ([]string, error)
}
