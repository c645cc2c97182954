package ports

import (
	"context"

	"github.com/avelar0/kinmap/pkg/domain"
)

// SyncClient pushes committed mutations to an external system-of-record
// (e.g. a case-management API). All calls are best-effort: the editor logs
// failures and never rolls back the local mutation.
type SyncClient interface {
	PushPerson(ctx context.Context, p domain.Person) error
	RemovePerson(ctx context.Context, id string) error

	PushRelationship(ctx context.Context, r domain.Relationship) error
	RemoveRelationship(ctx context.Context, id string) error

	// PushDocument transmits the whole serialized document, used for
	// host-requested explicit saves.
	PushDocument(ctx context.Context, doc *domain.Document) error
}
