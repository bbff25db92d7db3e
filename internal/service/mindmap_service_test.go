package service

import (
	"testing"

	"lms_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRubricRowsKeepOrder(t *testing.T) {
	rows := rubricRows([]RubricInput{
		{Text: "clarity", File: "http://localhost:8080/uploads/1-a.pdf"},
		{Text: "depth"},
	})

	require.Len(t, rows, 2)
	assert.Equal(t, "clarity", rows[0].Text)
	assert.Equal(t, "http://localhost:8080/uploads/1-a.pdf", rows[0].File)
	assert.Equal(t, 0, rows[0].Position)
	assert.Equal(t, "depth", rows[1].Text)
	assert.Empty(t, rows[1].File)
	assert.Equal(t, 1, rows[1].Position)
}

func TestStaleRubricFiles(t *testing.T) {
	old := []model.RubricEntry{
		{Text: "a", File: "f1.pdf"},
		{Text: "b", File: "f2.pdf"},
		{Text: "c"},
	}

	t.Run("dropped files are stale", func(t *testing.T) {
		replacement := []model.RubricEntry{
			{Text: "b", File: "f2.pdf"},
			{Text: "d", File: "f3.pdf"},
		}
		assert.Equal(t, []string{"f1.pdf"}, staleRubricFiles(old, replacement))
	})

	t.Run("empty replacement drops every file", func(t *testing.T) {
		assert.Equal(t, []string{"f1.pdf", "f2.pdf"}, staleRubricFiles(old, nil))
	})

	t.Run("identical replacement drops nothing", func(t *testing.T) {
		assert.Empty(t, staleRubricFiles(old, old))
	})
}
