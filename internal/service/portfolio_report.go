package service

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"

	"lms_backend/internal/model"
)

// PortfolioReport is the structured model the e-portfolio HTML is rendered
// from. Building it is pure: no I/O, no clock, no randomness, so the same
// stored data always produces the same report.
type PortfolioReport struct {
	LearnerName        string
	LearnerNIM         string
	LearnerOffering    string
	ProfileImageURL    string
	CoverBackgroundURL string

	ScoreRows    []ScoreRow
	AverageScore string

	Tasks    []TaskTranscript
	Mindmaps []MindmapTranscript
}

// ScoreRow is one line of the score recap table.
type ScoreRow struct {
	Number int
	Label  string
	Score  string
}

// TaskTranscript reproduces one plain submission: every question of the task
// with the learner's answer beside it.
type TaskTranscript struct {
	Title           string
	Essays          []QuestionAnswer
	MultipleChoice  []QuestionAnswer
	Problems        []ProblemAnswer
	HasFeedbackFile bool
}

type QuestionAnswer struct {
	Number   int
	Question string
	Answer   string
	Answered bool
}

// ProblemAnswer keeps the problem's position in the original problem list, so
// the label stays stable even when other problems were left unanswered.
type ProblemAnswer struct {
	Number int
	Prompt string
	Answer string
}

// MindmapTranscript reproduces one mindmap submission: instructions and
// rubric text. The answer PDF itself is appended to the document, not
// inlined.
type MindmapTranscript struct {
	Title        string
	Instructions string
	Rubric       []string
}

const notAnswered = "Not yet answered"

// BuildPortfolioReport assembles the report from a learner's plain and
// mindmap submissions. Rows and transcript blocks keep the fetch order:
// plain submissions first, then mindmaps.
func BuildPortfolioReport(user *model.User, subs []model.TaskSubmission, mindmaps []model.MindmapSubmission, baseURL string) *PortfolioReport {
	report := &PortfolioReport{
		LearnerName:        user.Name,
		LearnerNIM:         user.NIM,
		LearnerOffering:    user.Offering,
		ProfileImageURL:    user.ProfileImageURL,
		CoverBackgroundURL: baseURL + "/public/cover-background.jpg",
	}
	if report.ProfileImageURL == "" {
		report.ProfileImageURL = baseURL + "/public/avatar.png"
	}

	for _, sub := range subs {
		report.ScoreRows = append(report.ScoreRows, ScoreRow{
			Number: len(report.ScoreRows) + 1,
			Label:  plainSubmissionLabel(&sub),
			Score:  formatScore(sub.Score),
		})
		report.Tasks = append(report.Tasks, buildTaskTranscript(&sub))
	}
	for _, sub := range mindmaps {
		report.ScoreRows = append(report.ScoreRows, ScoreRow{
			Number: len(report.ScoreRows) + 1,
			Label:  mindmapSubmissionLabel(&sub),
			Score:  formatScore(sub.Score),
		})
		report.Mindmaps = append(report.Mindmaps, buildMindmapTranscript(&sub))
	}

	report.AverageScore = averageScore(subs, mindmaps)
	return report
}

// averageScore is the arithmetic mean over scores that are actually present.
// Ungraded submissions are left out of both numerator and denominator, and a
// learner with no graded work at all gets "0".
func averageScore(subs []model.TaskSubmission, mindmaps []model.MindmapSubmission) string {
	var sum float64
	var n int
	for _, sub := range subs {
		if sub.Score != nil {
			sum += *sub.Score
			n++
		}
	}
	for _, sub := range mindmaps {
		if sub.Score != nil {
			sum += *sub.Score
			n++
		}
	}
	if n == 0 {
		return "0"
	}
	return fmt.Sprintf("%.2f", sum/float64(n))
}

func formatScore(score *float64) string {
	if score == nil {
		return "0"
	}
	return strconv.FormatFloat(*score, 'f', -1, 64)
}

func plainSubmissionLabel(sub *model.TaskSubmission) string {
	if sub.Task != nil && sub.Task.Title != "" {
		return sub.Task.Title
	}
	if sub.Task != nil {
		return string(sub.Task.Kind)
	}
	return "task"
}

func mindmapSubmissionLabel(sub *model.MindmapSubmission) string {
	if sub.Task != nil && sub.Task.Title != "" {
		return sub.Task.Title
	}
	return "mindmap"
}

func buildTaskTranscript(sub *model.TaskSubmission) TaskTranscript {
	t := TaskTranscript{
		Title:           plainSubmissionLabel(sub),
		HasFeedbackFile: sub.FeedbackFile != "",
	}
	if sub.Task == nil {
		return t
	}

	essayAnswers := make(map[string]string, len(sub.EssayAnswers))
	for _, a := range sub.EssayAnswers {
		essayAnswers[a.QuestionID] = a.Answer
	}
	for i, q := range sub.Task.EssayQuestions {
		answer, ok := essayAnswers[q.ID]
		if !ok {
			answer = notAnswered
		}
		t.Essays = append(t.Essays, QuestionAnswer{
			Number:   i + 1,
			Question: q.Question,
			Answer:   answer,
			Answered: ok,
		})
	}

	mcAnswers := make(map[string]string, len(sub.MultipleChoiceAnswers))
	for _, a := range sub.MultipleChoiceAnswers {
		mcAnswers[a.QuestionID] = a.SelectedOption
	}
	for i, q := range sub.Task.MultipleChoiceQuestions {
		answer, ok := mcAnswers[q.ID]
		if !ok {
			answer = notAnswered
		}
		t.MultipleChoice = append(t.MultipleChoice, QuestionAnswer{
			Number:   i + 1,
			Question: q.Question,
			Answer:   answer,
			Answered: ok,
		})
	}

	// Only problems the learner actually answered appear, but each keeps the
	// number of its position in the task's full problem list.
	problemAnswers := make(map[string]string, len(sub.ProblemAnswers))
	for _, a := range sub.ProblemAnswers {
		problemAnswers[a.QuestionID] = a.Answer
	}
	for i, p := range sub.Task.Problems {
		answer, ok := problemAnswers[p.ID]
		if !ok {
			continue
		}
		prompt := p.Problem
		if prompt == "" {
			prompt = "(Problem unavailable)"
		}
		if answer == "" {
			answer = notAnswered
		}
		t.Problems = append(t.Problems, ProblemAnswer{
			Number: i + 1,
			Prompt: prompt,
			Answer: answer,
		})
	}

	return t
}

func buildMindmapTranscript(sub *model.MindmapSubmission) MindmapTranscript {
	t := MindmapTranscript{
		Title: mindmapSubmissionLabel(sub),
	}
	if sub.Task == nil {
		return t
	}
	t.Instructions = sub.Task.Instructions
	for _, r := range sub.Task.Rubric {
		t.Rubric = append(t.Rubric, r.Text)
	}
	return t
}

// RenderHTML produces the single self-contained HTML document the PDF is
// rasterized from: cover page, score recap table, then the answer
// transcripts.
func (r *PortfolioReport) RenderHTML() (string, error) {
	var buf bytes.Buffer
	if err := portfolioTemplate.Execute(&buf, r); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var portfolioTemplate = template.Must(template.New("portfolio").Parse(`<html>
  <head>
    <style>
      body { font-family: 'Helvetica Neue', Arial, sans-serif; margin: 0; padding: 0; }
      .page { page-break-before: always; padding: 0 40px 0 40px; }
      .cover-page {
        width: 100vw;
        height: 100vh;
        background-image: url('{{.CoverBackgroundURL}}');
        background-size: cover;
        background-position: center;
        position: relative;
      }
      .cover-content {
        position: absolute;
        top: 69.5%;
        left: 50%;
        transform: translate(-50%, -50%);
        width: 400px;
        padding: 20px;
        text-align: center;
        color: #fff;
        display: flex;
        align-items: center;
        justify-content: center;
      }
      .profile-pic {
        width: 120px;
        height: 120px;
        border-radius: 10px;
        object-fit: cover;
        border: 4px solid white;
        background-color: #a1aebf;
      }
      .user-details { text-align: center; margin-left: 50px; }
      .user-details h2 { margin: 0; margin-top: 15px; font-size: 24px; }
      .user-details p { margin: 8px 0; font-size: 18px; }
      table { width: 100%; border-collapse: collapse; }
      th, td { border: 1px solid #ddd; padding: 8px; }
      .appended-note { font-style: italic; color: gray; }
      @page :first { margin: 0; }
      @page { margin-top: 2cm; margin-bottom: 2cm; }
    </style>
  </head>
  <body>
    <div class="cover-page">
      <div class="cover-content">
        <img src="{{.ProfileImageURL}}" alt="Profile" class="profile-pic">
        <div class="user-details">
          <h2>{{.LearnerName}}</h2>
          <p>{{.LearnerNIM}}</p>
          <p>{{.LearnerOffering}}</p>
        </div>
      </div>
    </div>

    <div class="page">
      <h2>Score Recap</h2>
      <table>
        <thead>
          <tr style="background-color: #f2f2f2;">
            <th style="text-align: left;">No</th>
            <th style="text-align: left;">Task</th>
            <th style="text-align: center;">Score</th>
          </tr>
        </thead>
        <tbody>
          {{range .ScoreRows}}<tr>
            <td>{{.Number}}</td>
            <td>{{.Label}}</td>
            <td style="text-align: center;">{{.Score}}</td>
          </tr>
          {{end}}<tr style="font-weight: bold;">
            <td colspan="2" style="text-align: center;">Average</td>
            <td style="text-align: center;">{{.AverageScore}}</td>
          </tr>
        </tbody>
      </table>
    </div>

    <div class="page">
      <h2>Answer Details</h2>
      {{range .Tasks}}<div style="margin-bottom: 40px;">
        <h3 style="font-size: 20px; margin-bottom: 10px;">{{.Title}}</h3>
        {{range .Essays}}<p><strong>- Essay {{.Number}}:</strong> <em>{{.Question}}</em></p>
        <p style="margin-left: 20px;">Answer: {{.Answer}}</p>
        {{end}}{{range .MultipleChoice}}<p><strong>- Multiple Choice {{.Number}}:</strong> <em>{{.Question}}</em></p>
        <p style="margin-left: 20px;">Answer: {{.Answer}}</p>
        {{end}}{{range .Problems}}<p><strong>- Group Problem {{.Number}}:</strong> <em>{{.Prompt}}</em></p>
        <p style="margin-left: 20px;">Answer: {{.Answer}}</p>
        {{end}}{{if .HasFeedbackFile}}<p class="appended-note" style="margin-top: 10px;">[Feedback PDF appended at the end of this document]</p>
        {{end}}</div>
      {{end}}{{range .Mindmaps}}<div style="margin-bottom: 40px;">
        <h3 style="font-size: 20px;">{{.Title}}</h3>
        <p><strong>- Instructions:</strong> {{.Instructions}}</p>
        <p><strong>- Rubric:</strong></p>
        <ul>
          {{range .Rubric}}<li>{{.}}</li>
          {{end}}</ul>
        <p class="appended-note">[Answer PDF appended at the end of this document]</p>
      </div>
      {{end}}</div>
  </body>
</html>
`))
