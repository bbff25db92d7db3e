package service

import (
	"testing"

	"lms_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEssayQuestionRowsKeepOrder(t *testing.T) {
	rows := essayQuestionRows([]string{"Why?", "How?", "When?"})

	require.Len(t, rows, 3)
	for i, q := range []string{"Why?", "How?", "When?"} {
		assert.Equal(t, q, rows[i].Question)
		assert.Equal(t, i, rows[i].Position)
	}

	assert.Empty(t, essayQuestionRows(nil))
}

func TestMultipleChoiceRowsStripAnswerForTotalScoreKinds(t *testing.T) {
	in := []MCQInput{
		{Question: "Pick one", Options: []string{"a", "b"}, Answer: "a"},
	}

	for _, kind := range []model.TaskKind{model.TaskLO, model.TaskKBK} {
		rows := multipleChoiceRows(in, kind)
		require.Len(t, rows, 1)
		assert.Empty(t, rows[0].Answer, kind)
	}

	rows := multipleChoiceRows(in, model.TaskRegular)
	require.Len(t, rows, 1)
	assert.Equal(t, "a", rows[0].Answer)
	assert.Equal(t, []string{"a", "b"}, []string(rows[0].Options))
}

func TestProblemRowsKeepOrder(t *testing.T) {
	rows := problemRows([]string{"first", "second"})

	require.Len(t, rows, 2)
	assert.Equal(t, "first", rows[0].Problem)
	assert.Equal(t, 0, rows[0].Position)
	assert.Equal(t, "second", rows[1].Problem)
	assert.Equal(t, 1, rows[1].Position)
}
