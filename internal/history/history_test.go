package history_test

import (
	"strconv"
	"testing"

	"github.com/avelar0/kinmap/internal/history"
	"github.com/avelar0/kinmap/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docWithPeople(n int) *domain.Document {
	doc := domain.NewDocument()
	for i := 0; i < n; i++ {
		doc.People = append(doc.People, domain.Person{ID: "p_" + strconv.Itoa(i)})
	}
	return doc
}

func TestHistory_NUndosRestorePreSequenceState(t *testing.T) {
	h := history.New()
	current := docWithPeople(0)

	// Simulate N mutations, each pushing the pre-mutation snapshot.
	const n = 5
	for i := 0; i < n; i++ {
		h.Push(current)
		current = docWithPeople(i + 1)
	}

	for i := 0; i < n; i++ {
		restored, ok := h.Undo(current)
		require.True(t, ok)
		current = restored
	}
	assert.Equal(t, docWithPeople(0), current)
	assert.False(t, h.CanUndo())

	for i := 0; i < n; i++ {
		restored, ok := h.Redo(current)
		require.True(t, ok)
		current = restored
	}
	assert.Equal(t, docWithPeople(n), current)
	assert.False(t, h.CanRedo())
}

func TestHistory_NewMutationClearsRedo(t *testing.T) {
	h := history.New()

	h.Push(docWithPeople(0))
	current := docWithPeople(1)

	restored, ok := h.Undo(current)
	require.True(t, ok)
	require.True(t, h.CanRedo())

	// A fresh mutation after undo invalidates the redo branch.
	h.Push(restored)
	assert.False(t, h.CanRedo())
	assert.True(t, h.CanUndo())
}

func TestHistory_EmptyStacks(t *testing.T) {
	h := history.New()
	_, ok := h.Undo(docWithPeople(0))
	assert.False(t, ok)
	_, ok = h.Redo(docWithPeople(0))
	assert.False(t, ok)
}

func TestHistory_CapDropsOldest(t *testing.T) {
	h := history.New(history.WithLimit(3))
	for i := 0; i < 10; i++ {
		h.Push(docWithPeople(i))
	}

	// Only the 3 most recent snapshots survive.
	var depth int
	current := docWithPeople(10)
	for {
		restored, ok := h.Undo(current)
		if !ok {
			break
		}
		current = restored
		depth++
	}
	assert.Equal(t, 3, depth)
	assert.Equal(t, docWithPeople(7), current)
}

func TestHistory_SnapshotsDoNotAliasSource(t *testing.T) {
	h := history.New()
	doc := docWithPeople(1)
	h.Push(doc)

	doc.People[0].Name = "mutated"

	restored, ok := h.Undo(doc)
	require.True(t, ok)
	assert.Empty(t, restored.People[0].Name)
}
