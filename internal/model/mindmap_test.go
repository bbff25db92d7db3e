package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMindmapApplyStatus(t *testing.T) {
	task := &MindmapTask{
		Status:        StatusPending,
		Progress:      25,
		TodoChecklist: []TodoItem{{Text: "draft"}},
	}

	task.ApplyStatus(StatusInProgress)
	assert.Equal(t, StatusInProgress, task.Status)
	assert.Equal(t, 25, task.Progress)

	task.ApplyStatus(StatusCompleted)
	assert.Equal(t, StatusCompleted, task.Status)
	assert.Equal(t, 100, task.Progress)
	assert.True(t, task.TodoChecklist[0].Completed)
}
