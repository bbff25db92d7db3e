package service

import (
	"strings"
	"testing"

	"lms_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func score(v float64) *float64 {
	return &v
}

func TestAverageScoreSkipsUngraded(t *testing.T) {
	subs := []model.TaskSubmission{
		{Score: score(80)},
		{Score: nil},
	}
	mindmaps := []model.MindmapSubmission{
		{Score: score(60)},
	}

	assert.Equal(t, "70.00", averageScore(subs, mindmaps))
}

func TestAverageScoreNoGradedWork(t *testing.T) {
	subs := []model.TaskSubmission{{Score: nil}, {Score: nil}}

	assert.Equal(t, "0", averageScore(subs, nil))
	assert.Equal(t, "0", averageScore(nil, nil))
}

func TestAverageScoreTwoDecimals(t *testing.T) {
	subs := []model.TaskSubmission{
		{Score: score(85)},
		{Score: score(90)},
		{Score: score(76)},
	}

	assert.Equal(t, "83.67", averageScore(subs, nil))
}

func TestBuildReportRowOrderMatchesTranscriptOrder(t *testing.T) {
	user := &model.User{Name: "Alice", NIM: "123", Offering: "A"}
	subs := []model.TaskSubmission{
		{Task: &model.Task{Title: "Pretest"}, Score: score(50)},
		{Task: &model.Task{Title: "Posttest"}, Score: nil},
	}
	mindmaps := []model.MindmapSubmission{
		{Task: &model.MindmapTask{Title: "Concept Map"}, Score: score(90)},
	}

	report := BuildPortfolioReport(user, subs, mindmaps, "http://localhost:8080")

	require.Len(t, report.ScoreRows, 3)
	assert.Equal(t, []ScoreRow{
		{Number: 1, Label: "Pretest", Score: "50"},
		{Number: 2, Label: "Posttest", Score: "0"},
		{Number: 3, Label: "Concept Map", Score: "90"},
	}, report.ScoreRows)

	require.Len(t, report.Tasks, 2)
	assert.Equal(t, "Pretest", report.Tasks[0].Title)
	assert.Equal(t, "Posttest", report.Tasks[1].Title)
	require.Len(t, report.Mindmaps, 1)
	assert.Equal(t, "Concept Map", report.Mindmaps[0].Title)
}

func TestBuildReportUnansweredQuestionsGetPlaceholder(t *testing.T) {
	sub := model.TaskSubmission{
		Task: &model.Task{
			Title: "Quiz",
			EssayQuestions: []model.EssayQuestion{
				{UUIDBase: model.UUIDBase{ID: "e1"}, Question: "Why?"},
				{UUIDBase: model.UUIDBase{ID: "e2"}, Question: "How?"},
			},
			MultipleChoiceQuestions: []model.MultipleChoiceQuestion{
				{UUIDBase: model.UUIDBase{ID: "m1"}, Question: "Pick one"},
			},
		},
		EssayAnswers: []model.EssayAnswer{
			{QuestionID: "e1", Answer: "Because"},
		},
	}

	transcript := buildTaskTranscript(&sub)

	require.Len(t, transcript.Essays, 2)
	assert.Equal(t, "Because", transcript.Essays[0].Answer)
	assert.True(t, transcript.Essays[0].Answered)
	assert.Equal(t, notAnswered, transcript.Essays[1].Answer)
	assert.False(t, transcript.Essays[1].Answered)

	require.Len(t, transcript.MultipleChoice, 1)
	assert.Equal(t, notAnswered, transcript.MultipleChoice[0].Answer)
}

func TestBuildReportDropsAnswersWithoutQuestions(t *testing.T) {
	sub := model.TaskSubmission{
		Task: &model.Task{
			Title: "Quiz",
			EssayQuestions: []model.EssayQuestion{
				{UUIDBase: model.UUIDBase{ID: "e1"}, Question: "Why?"},
			},
		},
		EssayAnswers: []model.EssayAnswer{
			{QuestionID: "e1", Answer: "Because"},
			{QuestionID: "ghost", Answer: "Orphan"},
		},
	}

	transcript := buildTaskTranscript(&sub)

	require.Len(t, transcript.Essays, 1)
	assert.Equal(t, "Because", transcript.Essays[0].Answer)
}

func TestBuildReportProblemsKeepOriginalPositions(t *testing.T) {
	sub := model.TaskSubmission{
		Task: &model.Task{
			Title: "Problems",
			Problems: []model.ProblemPrompt{
				{UUIDBase: model.UUIDBase{ID: "p1"}, Problem: "First"},
				{UUIDBase: model.UUIDBase{ID: "p2"}, Problem: "Second"},
				{UUIDBase: model.UUIDBase{ID: "p3"}, Problem: "Third"},
			},
		},
		ProblemAnswers: []model.ProblemAnswer{
			{QuestionID: "p3", Answer: "answer three"},
		},
	}

	transcript := buildTaskTranscript(&sub)

	require.Len(t, transcript.Problems, 1)
	assert.Equal(t, 3, transcript.Problems[0].Number)
	assert.Equal(t, "Third", transcript.Problems[0].Prompt)
	assert.Equal(t, "answer three", transcript.Problems[0].Answer)
}

func TestRenderHTMLEmptyPortfolio(t *testing.T) {
	user := &model.User{Name: "Bob", NIM: "42", Offering: "B"}
	report := BuildPortfolioReport(user, nil, nil, "http://localhost:8080")

	html, err := report.RenderHTML()
	require.NoError(t, err)

	assert.Contains(t, html, "Bob")
	assert.Contains(t, html, "Score Recap")
	assert.Contains(t, html, ">0<") // average with no graded work
}

func TestRenderHTMLEscapesUserContent(t *testing.T) {
	user := &model.User{Name: "<script>alert(1)</script>"}
	report := BuildPortfolioReport(user, nil, nil, "http://localhost:8080")

	html, err := report.RenderHTML()
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestRenderHTMLDeterministic(t *testing.T) {
	user := &model.User{Name: "Alice"}
	subs := []model.TaskSubmission{
		{Task: &model.Task{Title: "Quiz"}, Score: score(75), FeedbackFile: "fb.pdf"},
	}
	mindmaps := []model.MindmapSubmission{
		{Task: &model.MindmapTask{
			Title:        "Map",
			Instructions: "Draw it",
			Rubric:       []model.RubricEntry{{Text: "clarity"}, {Text: "depth"}},
		}},
	}

	report := BuildPortfolioReport(user, subs, mindmaps, "http://localhost:8080")
	first, err := report.RenderHTML()
	require.NoError(t, err)
	second, err := report.RenderHTML()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, first, "Feedback PDF appended")
	assert.Contains(t, first, "Answer PDF appended")
	assert.Less(t, strings.Index(first, "Quiz"), strings.Index(first, "Map"))
}
