package ports

import (
	"context"
	"testing"
	"time"

	"github.com/avelar0/kinmap/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunDocumentStoreContract runs a suite of tests to verify that a
// DocumentStore implementation adheres to the defined interface contract.
func RunDocumentStoreContract(t *testing.T, store DocumentStore) {
	ctx := context.Background()
	docID := "contract-test-doc-" + time.Now().Format("20060102150405")

	doc := domain.NewDocument()
	doc.People = append(doc.People,
		domain.Person{ID: "p_a", Name: "Ana", X: 10, Y: 20},
		domain.Person{ID: "p_b", Name: "Bruno", X: 200, Y: 20},
	)
	doc.Relationships = append(doc.Relationships, domain.Relationship{
		ID:   "r_ab",
		Kind: domain.KindPartner,
		Edge: domain.PartnerEdge{PersonA: "p_a", PersonB: "p_b"},
	})
	doc.Metadata = map[string]any{"caseId": "case-1"}

	t.Run("Save and Load", func(t *testing.T) {
		err := store.Save(ctx, docID, doc)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, docID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, doc, loaded)
	})

	t.Run("Load returns an independent copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, docID)
		require.NoError(t, err)

		loaded.People[0].Name = "mutated"

		again, err := store.Load(ctx, docID)
		require.NoError(t, err)
		assert.Equal(t, "Ana", again.People[0].Name)
	})

	t.Run("Overwrite", func(t *testing.T) {
		next := doc.Clone()
		next.People = next.People[:1]
		require.NoError(t, store.Save(ctx, docID, next))

		loaded, err := store.Load(ctx, docID)
		require.NoError(t, err)
		assert.Len(t, loaded.People, 1)

		// Restore for the remaining subtests.
		require.NoError(t, store.Save(ctx, docID, doc))
	})

	t.Run("List", func(t *testing.T) {
		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, docID)
	})

	t.Run("Load missing", func(t *testing.T) {
		_, err := store.Load(ctx, "no-such-doc")
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, docID))

		_, err := store.Load(ctx, docID)
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound)

		// Deleting again is not an error.
		assert.NoError(t, store.Delete(ctx, docID))
	})
}
