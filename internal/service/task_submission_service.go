package service

import (
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type TaskSubmissionService struct {
	SubmissionRepo *repository.TaskSubmissionRepository
	TaskRepo       *repository.TaskRepository
}

func NewTaskSubmissionService(subRepo *repository.TaskSubmissionRepository, taskRepo *repository.TaskRepository) *TaskSubmissionService {
	return &TaskSubmissionService{SubmissionRepo: subRepo, TaskRepo: taskRepo}
}

// SubmitInput carries a learner's answers, each keyed by question id.
type SubmitInput struct {
	EssayAnswers          []AnswerInput
	MultipleChoiceAnswers []AnswerInput
	ProblemAnswers        []AnswerInput
}

type AnswerInput struct {
	QuestionID string
	Answer     string
}

// Submit records a learner's one-and-only submission for a task. Answers
// referencing unknown question ids are kept as given; they render as
// unmatched later rather than failing the submit.
func (s *TaskSubmissionService) Submit(taskID, userID uint, in SubmitInput) (*model.TaskSubmission, error) {
	task, err := s.TaskRepo.FindByID(taskID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrTaskNotFound
		}
		return nil, err
	}

	if _, err := s.SubmissionRepo.FindByTaskAndUser(taskID, userID); err == nil {
		return nil, util.ErrAlreadySubmitted
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	sub := &model.TaskSubmission{
		TaskID:      taskID,
		UserID:      userID,
		SubmittedAt: time.Now(),
	}
	for _, a := range in.EssayAnswers {
		sub.EssayAnswers = append(sub.EssayAnswers, model.EssayAnswer{
			QuestionID: a.QuestionID,
			Answer:     a.Answer,
		})
	}
	for _, a := range in.MultipleChoiceAnswers {
		sub.MultipleChoiceAnswers = append(sub.MultipleChoiceAnswers, model.MultipleChoiceAnswer{
			QuestionID:     a.QuestionID,
			SelectedOption: a.Answer,
		})
	}
	for _, a := range in.ProblemAnswers {
		groupID := groupForProblem(task, a.QuestionID)
		sub.ProblemAnswers = append(sub.ProblemAnswers, model.ProblemAnswer{
			QuestionID: a.QuestionID,
			Answer:     a.Answer,
			GroupID:    groupID,
		})
	}

	if err := s.SubmissionRepo.Create(sub); err != nil {
		return nil, err
	}
	return s.SubmissionRepo.FindByID(sub.ID)
}

func groupForProblem(task *model.Task, problemID string) *uint {
	for _, p := range task.Problems {
		if p.ID == problemID {
			return p.GroupID
		}
	}
	return nil
}

func (s *TaskSubmissionService) GetByID(id uint) (*model.TaskSubmission, error) {
	sub, err := s.SubmissionRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}
	return sub, nil
}

func (s *TaskSubmissionService) GetByTaskAndUser(taskID, userID uint) (*model.TaskSubmission, error) {
	sub, err := s.SubmissionRepo.FindByTaskAndUser(taskID, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}
	return sub, nil
}

func (s *TaskSubmissionService) ListByUser(userID uint) ([]model.TaskSubmission, error) {
	return s.SubmissionRepo.FindByUser(userID)
}

func (s *TaskSubmissionService) ListByTask(taskID uint) ([]model.TaskSubmission, error) {
	return s.SubmissionRepo.FindByTask(taskID)
}

func (s *TaskSubmissionService) ListByUserAndKind(userID uint, kind model.TaskKind) ([]model.TaskSubmission, error) {
	return s.SubmissionRepo.FindByUserAndKind(userID, kind)
}

// GradeInput is the admin grading payload. EssayScores keys are essay answer
// ids. FeedbackFile is set for LO/KBK tasks, which are graded with a total
// score and an uploaded feedback document instead of per-question marks.
type GradeInput struct {
	Score        *float64
	EssayScores  map[uint]float64
	Explanation  string
	FeedbackFile string
}

func (s *TaskSubmissionService) Grade(id uint, in GradeInput) (*model.TaskSubmission, error) {
	sub, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if in.Score != nil {
		sub.Score = in.Score
	}
	if in.Explanation != "" {
		sub.Explanation = in.Explanation
	}
	if in.FeedbackFile != "" {
		sub.FeedbackFile = in.FeedbackFile
	}
	for i := range sub.EssayAnswers {
		if score, ok := in.EssayScores[sub.EssayAnswers[i].ID]; ok {
			v := score
			sub.EssayAnswers[i].Score = &v
		}
	}

	if err := s.SubmissionRepo.Update(sub); err != nil {
		return nil, err
	}
	return s.SubmissionRepo.FindByID(id)
}
