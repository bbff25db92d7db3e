package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaskKind(t *testing.T) {
	for _, s := range []string{"regular", "pretest", "postest", "problem", "refleksi", "lo", "kbk"} {
		kind, err := ParseTaskKind(s)
		require.NoError(t, err)
		assert.Equal(t, TaskKind(s), kind)
	}

	_, err := ParseTaskKind("posttest")
	assert.Error(t, err)
	_, err = ParseTaskKind("")
	assert.Error(t, err)
}

func TestGradedByTotalScore(t *testing.T) {
	assert.True(t, TaskLO.GradedByTotalScore())
	assert.True(t, TaskKBK.GradedByTotalScore())
	assert.False(t, TaskRegular.GradedByTotalScore())
	assert.False(t, TaskPretest.GradedByTotalScore())
	assert.False(t, TaskProblem.GradedByTotalScore())
}

func TestCompletedTodoCount(t *testing.T) {
	task := &Task{TodoChecklist: []TodoItem{
		{Text: "a", Completed: true},
		{Text: "b"},
		{Text: "c", Completed: true},
	}}
	assert.Equal(t, 2, task.CompletedTodoCount())

	assert.Equal(t, 0, (&Task{}).CompletedTodoCount())
}

func TestApplyStatusCompletedForcesProgressAndTodos(t *testing.T) {
	task := &Task{
		Status:   StatusInProgress,
		Progress: 40,
		TodoChecklist: []TodoItem{
			{Text: "a", Completed: true},
			{Text: "b"},
		},
	}

	task.ApplyStatus(StatusCompleted)

	assert.Equal(t, StatusCompleted, task.Status)
	assert.Equal(t, 100, task.Progress)
	for _, item := range task.TodoChecklist {
		assert.True(t, item.Completed, item.Text)
	}
}

func TestApplyStatusNonCompletedLeavesProgress(t *testing.T) {
	task := &Task{
		Status:        StatusPending,
		Progress:      40,
		TodoChecklist: []TodoItem{{Text: "a"}},
	}

	task.ApplyStatus(StatusInProgress)

	assert.Equal(t, StatusInProgress, task.Status)
	assert.Equal(t, 40, task.Progress)
	assert.False(t, task.TodoChecklist[0].Completed)
}
