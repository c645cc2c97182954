package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/avelar0/kinmap/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelationship_WireShape(t *testing.T) {
	r := domain.Relationship{
		ID:        "r_1",
		Kind:      domain.KindChild,
		Edge:      domain.ChildEdge{ParentRelationshipID: "r_parents", ChildID: "p_kid"},
		BubblePos: 0.5,
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)

	// The persisted shape stays flat: kind selects the meaning of from/to.
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "child", raw["kind"])
	assert.Equal(t, "r_parents", raw["from"])
	assert.Equal(t, "p_kid", raw["to"])

	var back domain.Relationship
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, r, back)
}

func TestRelationship_SingleParentWireShape(t *testing.T) {
	r := domain.Relationship{
		ID:   "r_sp",
		Kind: domain.KindChild,
		Edge: domain.ChildEdge{SingleParentID: "p_mom", ChildID: "p_kid"},
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)

	// The singleParent marker tells readers that from is a person, not a
	// partner relationship.
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "p_mom", raw["from"])
	assert.Equal(t, "p_kid", raw["to"])
	assert.Equal(t, true, raw["singleParent"])

	var back domain.Relationship
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, r, back)
}

func TestRelationship_PartnerRoundTrip(t *testing.T) {
	r := domain.Relationship{
		ID:        "r_2",
		Kind:      domain.KindPartner,
		Edge:      domain.PartnerEdge{PersonA: "p_a", PersonB: "p_b"},
		Color:     "#880e4f",
		StartDate: "1998-06-01",
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var back domain.Relationship
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, r, back)
}

func TestRelationship_OtherPartner(t *testing.T) {
	r := domain.Relationship{
		ID:   "r_3",
		Kind: domain.KindPartner,
		Edge: domain.PartnerEdge{PersonA: "p_a", PersonB: "p_b"},
	}

	other, ok := r.OtherPartner("p_a")
	assert.True(t, ok)
	assert.Equal(t, "p_b", other)

	_, ok = r.OtherPartner("p_stranger")
	assert.False(t, ok)

	child := domain.Relationship{
		ID:   "r_4",
		Kind: domain.KindChild,
		Edge: domain.ChildEdge{ParentRelationshipID: "r_3", ChildID: "p_kid"},
	}
	_, ok = child.OtherPartner("p_kid")
	assert.False(t, ok)
}

func TestRelationship_Validate(t *testing.T) {
	bad := domain.Relationship{
		ID:   "r_5",
		Kind: domain.KindChild,
		Edge: domain.PartnerEdge{PersonA: "p_a", PersonB: "p_b"},
	}
	assert.ErrorIs(t, bad.Validate(), domain.ErrEdgeKindMismatch)

	bothParents := domain.Relationship{
		ID:   "r_7",
		Kind: domain.KindChild,
		Edge: domain.ChildEdge{ParentRelationshipID: "r_ab", SingleParentID: "p_a", ChildID: "p_c"},
	}
	assert.ErrorIs(t, bothParents.Validate(), domain.ErrEdgeKindMismatch)

	noParents := domain.Relationship{
		ID:   "r_8",
		Kind: domain.KindChild,
		Edge: domain.ChildEdge{ChildID: "p_c"},
	}
	assert.ErrorIs(t, noParents.Validate(), domain.ErrEdgeKindMismatch)

	good := domain.Relationship{
		ID:   "r_6",
		Kind: domain.KindSibling,
		Edge: domain.PartnerEdge{PersonA: "p_a", PersonB: "p_b"},
	}
	assert.NoError(t, good.Validate())

	singleParent := domain.Relationship{
		ID:   "r_9",
		Kind: domain.KindChild,
		Edge: domain.ChildEdge{SingleParentID: "p_a", ChildID: "p_c"},
	}
	assert.NoError(t, singleParent.Validate())
}
