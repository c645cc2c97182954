package kinmap_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelar0/kinmap"
	"github.com/avelar0/kinmap/pkg/domain"
)

func newFamily(t *testing.T, e *kinmap.Editor) (ana, bruno domain.Person, partnerRel domain.Relationship) {
	t.Helper()
	ctx := context.Background()

	ana, err := e.AddPerson(ctx, domain.Person{Name: "Ana", X: 100, Y: 100})
	require.NoError(t, err)
	bruno, err = e.AddPerson(ctx, domain.Person{Name: "Bruno", X: 300, Y: 100})
	require.NoError(t, err)

	e.StartConnection(ana.ID, domain.ConnectPartner)
	decision, ok := e.CommitConnection(ctx, bruno.ID)
	require.True(t, ok)
	require.Nil(t, decision)

	doc := e.Document()
	require.Len(t, doc.Relationships, 1)
	return ana, bruno, doc.Relationships[0]
}

func TestEditor_PartnerChildAndCascade(t *testing.T) {
	e := kinmap.New()
	defer e.Close()
	ctx := context.Background()

	_, bruno, partnerRel := newFamily(t, e)

	clara, err := e.AddPerson(ctx, domain.Person{Name: "Clara", X: 200, Y: 300})
	require.NoError(t, err)

	// Child connections start on the partner line's bubble.
	e.StartConnection(partnerRel.ID, domain.ConnectChild)
	decision, ok := e.CommitConnection(ctx, clara.ID)
	require.True(t, ok)
	require.Nil(t, decision)

	doc := e.Document()
	require.Len(t, doc.Relationships, 2)

	// Deleting Bruno cascades: the partner relationship goes, and with it
	// Clara's child edge. Clara herself stays.
	e.Select(domain.SelectPerson, bruno.ID)
	e.ToggleNodeSelection(bruno.ID)
	require.NoError(t, e.DeletePerson(ctx, bruno.ID))

	doc = e.Document()
	assert.Len(t, doc.People, 2)
	assert.Empty(t, doc.Relationships)
	assert.True(t, e.Selection().IsEmpty(), "selection of a deleted person must clear")
	assert.Empty(t, e.SelectedNodes(), "multi-selection of a deleted person must clear")
}

func TestEditor_UndoRestoresPreSequenceState(t *testing.T) {
	e := kinmap.New()
	defer e.Close()
	ctx := context.Background()

	ana, err := e.AddPerson(ctx, domain.Person{Name: "Ana"})
	require.NoError(t, err)
	baseline, err := e.Serialize()
	require.NoError(t, err)

	// Three mutations, three undos.
	name := "Ana Maria"
	require.NoError(t, e.UpdatePerson(ctx, ana.ID, domain.PersonPatch{Name: &name}))
	_, err = e.AddPerson(ctx, domain.Person{Name: "Bruno"})
	require.NoError(t, err)
	_, err = e.AddAnnotation(ctx, domain.Annotation{Content: "note"})
	require.NoError(t, err)

	require.True(t, e.Undo(ctx))
	require.True(t, e.Undo(ctx))
	require.True(t, e.Undo(ctx))

	restored, err := e.Serialize()
	require.NoError(t, err)
	assert.JSONEq(t, string(baseline), string(restored))

	// Redo walks forward again.
	require.True(t, e.Redo(ctx))
	doc := e.Document()
	assert.Equal(t, "Ana Maria", doc.People[0].Name)
}

func TestEditor_RejectedMutationIsNotUndoable(t *testing.T) {
	e := kinmap.New()
	defer e.Close()
	ctx := context.Background()

	_, err := e.AddPerson(ctx, domain.Person{Name: "Ana"})
	require.NoError(t, err)

	_, err = e.AddRelationship(ctx, domain.Relationship{
		Kind: domain.KindPartner,
		Edge: domain.PartnerEdge{PersonA: "p_ghost", PersonB: "p_ghost2"},
	})
	require.Error(t, err)

	// Only the person add is on the undo stack.
	require.True(t, e.Undo(ctx))
	assert.False(t, e.CanUndo())
}

func TestEditor_ParentConnectionPromptsAmongPartners(t *testing.T) {
	e := kinmap.New()
	defer e.Close()
	ctx := context.Background()

	ana, _, _ := newFamily(t, e)
	carla, err := e.AddPerson(ctx, domain.Person{Name: "Carla", X: 500, Y: 100})
	require.NoError(t, err)
	e.StartConnection(ana.ID, domain.ConnectPartner)
	_, ok := e.CommitConnection(ctx, carla.ID)
	require.True(t, ok)

	child, err := e.AddPerson(ctx, domain.Person{Name: "Duda", X: 300, Y: 300})
	require.NoError(t, err)

	// Ana has two partner relationships, so connecting Duda to her as a
	// parent surfaces a decision instead of mutating.
	e.StartConnection(child.ID, domain.ConnectParent)
	decision, ok := e.CommitConnection(ctx, ana.ID)
	require.True(t, ok)
	require.NotNil(t, decision)
	assert.Equal(t, domain.DecisionPromptChoose, decision.Kind)
	assert.Len(t, decision.Choices, 2)

	before := len(e.Document().Relationships)

	rel, err := e.AttachChildToRelationship(ctx, decision.Choices[0].RelationshipID)
	require.NoError(t, err)
	assert.Equal(t, domain.KindChild, rel.Kind)
	assert.Len(t, e.Document().Relationships, before+1)

	// The pending decision is consumed.
	_, err = e.AttachChildToRelationship(ctx, decision.Choices[0].RelationshipID)
	assert.ErrorIs(t, err, kinmap.ErrNoPendingAttachment)
}

func TestEditor_ParentConnectionWithNoPartnersPrompts(t *testing.T) {
	e := kinmap.New()
	defer e.Close()
	ctx := context.Background()

	parent, err := e.AddPerson(ctx, domain.Person{Name: "Ana", X: 100, Y: 100})
	require.NoError(t, err)
	child, err := e.AddPerson(ctx, domain.Person{Name: "Duda", X: 100, Y: 300})
	require.NoError(t, err)

	e.StartConnection(child.ID, domain.ConnectParent)
	decision, ok := e.CommitConnection(ctx, parent.ID)
	require.True(t, ok)
	require.NotNil(t, decision, "a parent with no partners needs the co-parent choice")
	assert.Equal(t, domain.DecisionPromptCoParent, decision.Kind)
	assert.Equal(t, []domain.CoParentOption{
		domain.OptionUnknownCoParent,
		domain.OptionNewPartner,
		domain.OptionExistingPerson,
		domain.OptionSingleParent,
	}, decision.Options)

	// Nothing is committed before the choice.
	doc := e.Document()
	assert.Len(t, doc.People, 2)
	assert.Empty(t, doc.Relationships)
	assert.False(t, e.CanUndo())
}

func TestEditor_AttachChildWithUnknownCoParent(t *testing.T) {
	e := kinmap.New()
	defer e.Close()
	ctx := context.Background()

	parent, _ := e.AddPerson(ctx, domain.Person{Name: "Ana", X: 100, Y: 100})
	child, _ := e.AddPerson(ctx, domain.Person{Name: "Duda", X: 100, Y: 300})

	e.StartConnection(child.ID, domain.ConnectParent)
	_, ok := e.CommitConnection(ctx, parent.ID)
	require.True(t, ok)
	require.NoError(t, e.AttachChildWithUnknownCoParent(ctx))

	doc := e.Document()
	require.Len(t, doc.People, 3)

	var unknown *domain.Person
	for i := range doc.People {
		if doc.People[i].Name == "Unknown" {
			unknown = &doc.People[i]
		}
	}
	require.NotNil(t, unknown)
	assert.Equal(t, parent.X+160, unknown.X)
	assert.Len(t, doc.Relationships, 2)

	// The pending decision is consumed.
	assert.ErrorIs(t, e.AttachChildWithUnknownCoParent(ctx), kinmap.ErrNoPendingAttachment)

	// One undo removes the whole generated cluster, back past the prompt.
	require.True(t, e.Undo(ctx))
	doc = e.Document()
	assert.Len(t, doc.People, 2)
	assert.Empty(t, doc.Relationships)
}

func TestEditor_AttachChildWithNewPartner(t *testing.T) {
	e := kinmap.New()
	defer e.Close()
	ctx := context.Background()

	parent, _ := e.AddPerson(ctx, domain.Person{Name: "Ana", X: 100, Y: 100})
	child, _ := e.AddPerson(ctx, domain.Person{Name: "Duda", X: 100, Y: 300})

	e.StartConnection(child.ID, domain.ConnectParent)
	_, ok := e.CommitConnection(ctx, parent.ID)
	require.True(t, ok)

	coParent, err := e.AttachChildWithNewPartner(ctx, domain.Person{Name: "Bruno"})
	require.NoError(t, err)
	assert.NotEmpty(t, coParent.ID)
	assert.Equal(t, parent.X+160, coParent.X)

	doc := e.Document()
	assert.Len(t, doc.People, 3)
	require.Len(t, doc.Relationships, 2)
	assert.Equal(t, domain.KindPartner, doc.Relationships[0].Kind)
	assert.Equal(t, domain.KindChild, doc.Relationships[1].Kind)
}

func TestEditor_AttachChildWithExistingCoParent(t *testing.T) {
	e := kinmap.New()
	defer e.Close()
	ctx := context.Background()

	parent, _ := e.AddPerson(ctx, domain.Person{Name: "Ana", X: 100, Y: 100})
	other, _ := e.AddPerson(ctx, domain.Person{Name: "Caio", X: 300, Y: 100})
	child, _ := e.AddPerson(ctx, domain.Person{Name: "Duda", X: 200, Y: 300})

	e.StartConnection(child.ID, domain.ConnectParent)
	_, ok := e.CommitConnection(ctx, parent.ID)
	require.True(t, ok)
	require.NoError(t, e.AttachChildWithExistingCoParent(ctx, other.ID))

	doc := e.Document()
	assert.Len(t, doc.People, 3, "no person is created")
	require.Len(t, doc.Relationships, 2)
	partnerRel := doc.Relationships[0]
	assert.True(t, partnerRel.Involves(parent.ID))
	assert.True(t, partnerRel.Involves(other.ID))
	assert.Equal(t, domain.ChildEdge{ParentRelationshipID: partnerRel.ID, ChildID: child.ID}, doc.Relationships[1].Edge)
}

func TestEditor_AttachChildSingleParent(t *testing.T) {
	e := kinmap.New()
	defer e.Close()
	ctx := context.Background()

	parent, _ := e.AddPerson(ctx, domain.Person{Name: "Ana", X: 100, Y: 100})
	child, _ := e.AddPerson(ctx, domain.Person{Name: "Duda", X: 100, Y: 300})

	e.StartConnection(child.ID, domain.ConnectParent)
	_, ok := e.CommitConnection(ctx, parent.ID)
	require.True(t, ok)

	rel, err := e.AttachChildSingleParent(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ChildEdge{SingleParentID: parent.ID, ChildID: child.ID}, rel.Edge)

	doc := e.Document()
	assert.Len(t, doc.People, 2, "no co-parent exists")
	require.Len(t, doc.Relationships, 1)

	// Deleting the lone parent cascades to the child edge.
	require.NoError(t, e.DeletePerson(ctx, parent.ID))
	assert.Empty(t, e.Document().Relationships)
}

func TestEditor_HouseholdDrawing(t *testing.T) {
	e := kinmap.New()
	defer e.Close()
	ctx := context.Background()

	newFamily(t, e)

	e.StartDrawingHousehold()
	require.True(t, e.DrawingHousehold())

	for _, pt := range []domain.Point{{X: 0, Y: 0}, {X: 400, Y: 0}, {X: 400, Y: 400}, {X: 0, Y: 400}} {
		h, err := e.AddBoundaryPoint(ctx, pt)
		require.NoError(t, err)
		require.Nil(t, h)
	}

	// Clicking back near the first vertex closes the polygon.
	h, err := e.AddBoundaryPoint(ctx, domain.Point{X: 3, Y: 2})
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.False(t, e.DrawingHousehold())
	assert.ElementsMatch(t, []string{"Ana", "Bruno"}, memberNames(t, e, h.Members))

	// The capture machine leaves nothing behind on cancel.
	e.StartDrawingHousehold()
	_, err = e.AddBoundaryPoint(ctx, domain.Point{X: 1, Y: 1})
	require.NoError(t, err)
	e.CancelDrawingHousehold()
	assert.Len(t, e.Document().Households, 1)
}

func memberNames(t *testing.T, e *kinmap.Editor, ids []string) []string {
	t.Helper()
	doc := e.Document()
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		p, ok := doc.PersonByID(id)
		require.True(t, ok)
		names = append(names, p.Name)
	}
	return names
}

func TestEditor_LoadClearsVolatileState(t *testing.T) {
	e := kinmap.New()
	defer e.Close()
	ctx := context.Background()

	ana, _, _ := newFamily(t, e)
	e.Select(domain.SelectPerson, ana.ID)
	e.ToggleNodeSelection(ana.ID)
	data, err := e.Serialize()
	require.NoError(t, err)

	require.NoError(t, e.LoadData(ctx, data))

	assert.False(t, e.Dirty())
	assert.False(t, e.CanUndo())
	assert.True(t, e.Selection().IsEmpty())
	assert.Empty(t, e.SelectedNodes())

	// Round-trip: serialize(load(serialize(x))) == serialize(x).
	again, err := e.Serialize()
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

func TestEditor_MutationHooksFireInOrder(t *testing.T) {
	var mu sync.Mutex
	var ops []string
	e := kinmap.New(kinmap.WithHooks(domain.Hooks{
		OnMutation: func(ctx context.Context, ev *domain.MutationEvent) {
			mu.Lock()
			ops = append(ops, string(ev.Op)+":"+string(ev.Entity))
			mu.Unlock()
		},
	}))
	defer e.Close()
	ctx := context.Background()

	ana, err := e.AddPerson(ctx, domain.Person{Name: "Ana"})
	require.NoError(t, err)
	notes := "first contact 2026-01-12"
	require.NoError(t, e.UpdatePerson(ctx, ana.ID, domain.PersonPatch{Notes: &notes}))
	require.NoError(t, e.DeletePerson(ctx, ana.ID))

	assert.Equal(t, []string{"add:person", "update:person", "delete:person"}, ops)
}

func TestEditor_SyncPushesFollowMutations(t *testing.T) {
	client := &fakeSyncClient{}
	e := kinmap.New(kinmap.WithSyncClient(client))
	ctx := context.Background()

	ana, err := e.AddPerson(ctx, domain.Person{Name: "Ana"})
	require.NoError(t, err)
	bruno, err := e.AddPerson(ctx, domain.Person{Name: "Bruno"})
	require.NoError(t, err)
	e.StartConnection(ana.ID, domain.ConnectPartner)
	_, ok := e.CommitConnection(ctx, bruno.ID)
	require.True(t, ok)
	require.NoError(t, e.DeletePerson(ctx, bruno.ID))

	require.NoError(t, e.Close()) // drains the queue

	calls := client.snapshot()
	require.Len(t, calls, 5)
	assert.Equal(t, "push_person:"+ana.ID, calls[0])
	assert.Equal(t, "push_person:"+bruno.ID, calls[1])
	// The cascade emits the person removal first, then the relationship.
	assert.Equal(t, "remove_person:"+bruno.ID, calls[3])
}

type fakeSyncClient struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeSyncClient) record(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, s)
}

func (f *fakeSyncClient) snapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeSyncClient) PushPerson(ctx context.Context, p domain.Person) error {
	f.record("push_person:" + p.ID)
	return nil
}

func (f *fakeSyncClient) RemovePerson(ctx context.Context, id string) error {
	f.record("remove_person:" + id)
	return nil
}

func (f *fakeSyncClient) PushRelationship(ctx context.Context, r domain.Relationship) error {
	f.record("push_relationship:" + r.ID)
	return nil
}

func (f *fakeSyncClient) RemoveRelationship(ctx context.Context, id string) error {
	f.record("remove_relationship:" + id)
	return nil
}

func (f *fakeSyncClient) PushDocument(ctx context.Context, doc *domain.Document) error {
	f.record("push_document")
	return nil
}
