package task

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tree() []Item {
	return []Item{
		{
			ID:   "t1",
			Name: "group",
			Subtasks: []Item{
				{ID: "t1.1", Name: "done", Status: "complete"},
				{ID: "t1.2", Name: "pending", Status: "pending"},
			},
		},
		{ID: "t2", Name: "blocked", Blocked: true},
		{ID: "t3", Name: "open"},
	}
}

func TestIsComplete_BothSchemas(t *testing.T) {
	assert.True(t, Item{Passes: true}.IsComplete())
	assert.True(t, Item{Status: "complete"}.IsComplete())
	assert.True(t, Item{Status: "COMPLETE"}.IsComplete())
	assert.False(t, Item{Status: "pending"}.IsComplete())
}

func TestIsBlocked_BothSchemas(t *testing.T) {
	assert.True(t, Item{Blocked: true}.IsBlocked())
	assert.True(t, Item{Status: "Blocked"}.IsBlocked())
	assert.False(t, Item{}.IsBlocked())
}

func TestCount_OnlyLeavesCount(t *testing.T) {
	completed, total := Count(tree())

	// t1 is a container: it contributes its two children, not itself.
	assert.Equal(t, 1, completed)
	assert.Equal(t, 4, total)
}

func TestCount_Compositional(t *testing.T) {
	items := tree()

	sumCompleted, sumTotal := 0, 0
	for _, item := range items {
		c, n := Count([]Item{item})
		sumCompleted += c
		sumTotal += n
	}

	completed, total := Count(items)
	assert.Equal(t, completed, sumCompleted)
	assert.Equal(t, total, sumTotal)
}

func TestResolve_NoPin_FirstIncompleteLeaf(t *testing.T) {
	got := Resolve(tree(), "")

	require.NotNil(t, got)
	assert.Equal(t, "t1.2", got.ID)
	assert.True(t, got.IsLeaf())
}

func TestResolve_ChildrenBeforeSelf(t *testing.T) {
	items := []Item{
		{
			ID: "parent",
			Subtasks: []Item{
				{ID: "child", Status: "complete"},
			},
		},
		{ID: "sibling"},
	}

	got := Resolve(items, "")

	// The container's children are all complete; the container itself is
	// never a candidate, so the search moves on.
	require.NotNil(t, got)
	assert.Equal(t, "sibling", got.ID)
}

func TestResolve_PinnedWins(t *testing.T) {
	got := Resolve(tree(), "t3")

	require.NotNil(t, got)
	assert.Equal(t, "t3", got.ID)
}

func TestResolve_PinnedCompleted_FallsBack(t *testing.T) {
	got := Resolve(tree(), "t1.1")

	require.NotNil(t, got)
	assert.Equal(t, "t1.2", got.ID)
}

func TestResolve_PinnedBlocked_FallsBack(t *testing.T) {
	got := Resolve(tree(), "t2")

	require.NotNil(t, got)
	assert.Equal(t, "t1.2", got.ID)
}

func TestResolve_PinnedUnknown_FallsBack(t *testing.T) {
	got := Resolve(tree(), "nope")

	require.NotNil(t, got)
	assert.Equal(t, "t1.2", got.ID)
}

func TestResolve_NothingActionable(t *testing.T) {
	items := []Item{
		{ID: "a", Status: "complete"},
		{ID: "b", Blocked: true},
	}

	assert.Nil(t, Resolve(items, ""))
	assert.Nil(t, Resolve(nil, ""))
}

func TestFindByID_Nested(t *testing.T) {
	got := FindByID(tree(), "t1.2")

	require.NotNil(t, got)
	assert.Equal(t, "pending", got.Name)

	assert.Nil(t, FindByID(tree(), "missing"))
}

func TestUnmarshal_TolerantFields(t *testing.T) {
	// id is a number, passes is a string: both wrong types, both ignored.
	raw := `{"id": 42, "name": "weird", "passes": "yes", "subtasks": [
		{"id": "ok"},
		"not an object",
		{"id": "also-ok", "blocked": true}
	]}`

	var item Item
	require.NoError(t, json.Unmarshal([]byte(raw), &item))

	assert.Empty(t, item.ID)
	assert.Equal(t, "weird", item.Name)
	assert.False(t, item.Passes)
	require.Len(t, item.Subtasks, 2)
	assert.Equal(t, "ok", item.Subtasks[0].ID)
	assert.Equal(t, "also-ok", item.Subtasks[1].ID)
}

func TestUnmarshal_List(t *testing.T) {
	raw := `{"next_task": "t2", "features": [
		{"id": "t1", "subtasks": [{"id": "t1.1", "status": "complete"}]},
		{"id": "t2"}
	]}`

	var list List
	require.NoError(t, json.Unmarshal([]byte(raw), &list))

	assert.Equal(t, "t2", list.NextTask)
	require.Len(t, list.Features, 2)
	assert.Equal(t, "t1.1", list.Features[0].Subtasks[0].ID)
}

func TestUnmarshal_MalformedFeatureSkipped(t *testing.T) {
	raw := `{"features": [{"id": "good"}, 7, {"id": "fine"}]}`

	var list List
	require.NoError(t, json.Unmarshal([]byte(raw), &list))

	require.Len(t, list.Features, 2)
	assert.Equal(t, "good", list.Features[0].ID)
	assert.Equal(t, "fine", list.Features[1].ID)
}
