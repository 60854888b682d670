package memory

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const taskFileJSON = `{
  "next_task": "t2",
  "custom_field": "survives",
  "features": [
    {"id": "t1", "name": "first", "subtasks": [{"id": "t1.1", "status": "complete"}]},
    {"id": "t2", "name": "second", "owner": "someone"}
  ]
}`

func writeTaskFile(t *testing.T, s *Store, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(s.root, s.taskFile), []byte(content), 0o644))
}

func TestTaskList_Loads(t *testing.T) {
	s := newTestStore(t)
	writeTaskFile(t, s, taskFileJSON)

	list := s.TaskList()

	assert.Equal(t, "t2", list.NextTask)
	require.Len(t, list.Features, 2)
	assert.Equal(t, "t1.1", list.Features[0].Subtasks[0].ID)
}

func TestTaskList_MissingFileIsEmpty(t *testing.T) {
	s := newTestStore(t)

	list := s.TaskList()

	assert.Empty(t, list.NextTask)
	assert.Empty(t, list.Features)
}

func TestTaskList_GarbageFileIsEmpty(t *testing.T) {
	s := newTestStore(t)
	writeTaskFile(t, s, "{not json")

	list := s.TaskList()

	assert.Empty(t, list.Features)
}

func TestCompleteTask_MarksAndStamps(t *testing.T) {
	s := newTestStore(t)
	writeTaskFile(t, s, taskFileJSON)

	require.NoError(t, s.CompleteTask("t2"))

	data, err := os.ReadFile(filepath.Join(s.root, s.taskFile))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	features := doc["features"].([]any)
	second := features[1].(map[string]any)
	assert.Equal(t, true, second["passes"])
	assert.NotEmpty(t, second["completed_at"])

	// Fields the engine doesn't model survive the rewrite.
	assert.Equal(t, "survives", doc["custom_field"])
	assert.Equal(t, "someone", second["owner"])
}

func TestCompleteTask_Nested(t *testing.T) {
	s := newTestStore(t)
	writeTaskFile(t, s, taskFileJSON)

	require.NoError(t, s.CompleteTask("t1.1"))

	list := s.TaskList()
	assert.True(t, list.Features[0].Subtasks[0].Passes)
}

func TestCompleteTask_UnknownID(t *testing.T) {
	s := newTestStore(t)
	writeTaskFile(t, s, taskFileJSON)

	err := s.CompleteTask("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCompleteTask_MissingFile(t *testing.T) {
	s := newTestStore(t)

	require.Error(t, s.CompleteTask("t1"))
}
