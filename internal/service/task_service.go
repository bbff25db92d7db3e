package service

import (
	"fmt"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TaskService struct {
	TaskRepo  *repository.TaskRepository
	GroupRepo *repository.GroupRepository
	UserRepo  *repository.UserRepository
}

func NewTaskService(taskRepo *repository.TaskRepository, groupRepo *repository.GroupRepository, userRepo *repository.UserRepository) *TaskService {
	return &TaskService{TaskRepo: taskRepo, GroupRepo: groupRepo, UserRepo: userRepo}
}

// CreateTaskInput is the payload for task creation across all kinds.
type CreateTaskInput struct {
	Title                   string
	Description             string
	Kind                    model.TaskKind
	Priority                model.Priority
	DueDate                 *time.Time
	AssignedTo              []uint
	Attachments             []string
	TodoChecklist           []model.TodoItem
	EssayQuestions          []string
	MultipleChoiceQuestions []MCQInput
	Problems                []string
}

type MCQInput struct {
	Question string
	Options  []string
	Answer   string
}

// Create builds a task of the given kind. For problem tasks every problem
// prompt gets its own discussion group holding the assignees and the creator.
// LO and KBK tasks never store a correct multiple-choice answer.
func (s *TaskService) Create(in CreateTaskInput, createdByID uint) (*model.Task, error) {
	if in.Kind == "" {
		in.Kind = model.TaskRegular
	}
	if _, err := model.ParseTaskKind(string(in.Kind)); err != nil {
		return nil, err
	}

	assignees, err := s.UserRepo.FindByIDs(in.AssignedTo)
	if err != nil {
		return nil, err
	}

	task := &model.Task{
		Title:         in.Title,
		Description:   in.Description,
		Kind:          in.Kind,
		Priority:      in.Priority,
		DueDate:       in.DueDate,
		AssignedTo:    assignees,
		CreatedByID:   createdByID,
		Attachments:   in.Attachments,
		TodoChecklist: in.TodoChecklist,
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}

	task.EssayQuestions = essayQuestionRows(in.EssayQuestions)
	task.MultipleChoiceQuestions = multipleChoiceRows(in.MultipleChoiceQuestions, in.Kind)
	task.Problems = problemRows(in.Problems)

	if err := s.TaskRepo.Create(task); err != nil {
		return nil, err
	}

	if in.Kind == model.TaskProblem {
		if err := s.createProblemGroups(task, createdByID); err != nil {
			return nil, err
		}
	}

	return s.TaskRepo.FindByID(task.ID)
}

func essayQuestionRows(questions []string) []model.EssayQuestion {
	rows := make([]model.EssayQuestion, 0, len(questions))
	for i, q := range questions {
		rows = append(rows, model.EssayQuestion{Question: q, Position: i})
	}
	return rows
}

// multipleChoiceRows builds positioned MCQ rows. Kinds graded by total score
// never store a correct answer.
func multipleChoiceRows(questions []MCQInput, kind model.TaskKind) []model.MultipleChoiceQuestion {
	rows := make([]model.MultipleChoiceQuestion, 0, len(questions))
	for i, q := range questions {
		answer := q.Answer
		if kind.GradedByTotalScore() {
			answer = ""
		}
		rows = append(rows, model.MultipleChoiceQuestion{
			Question: q.Question,
			Options:  q.Options,
			Answer:   answer,
			Position: i,
		})
	}
	return rows
}

func problemRows(problems []string) []model.ProblemPrompt {
	rows := make([]model.ProblemPrompt, 0, len(problems))
	for i, p := range problems {
		rows = append(rows, model.ProblemPrompt{Problem: p, Position: i})
	}
	return rows
}

// createProblemGroups makes one chat group per problem prompt and links the
// prompt to its group.
func (s *TaskService) createProblemGroups(task *model.Task, createdByID uint) error {
	memberIDs := make([]uint, 0, len(task.AssignedTo)+1)
	for _, u := range task.AssignedTo {
		memberIDs = append(memberIDs, u.ID)
	}
	memberIDs = append(memberIDs, createdByID)
	members, err := s.UserRepo.FindByIDs(memberIDs)
	if err != nil {
		return err
	}

	for i := range task.Problems {
		p := &task.Problems[i]
		group := &model.Group{
			Name:      fmt.Sprintf("%s - Problem %d", task.Title, p.Position+1),
			Members:   members,
			TaskID:    &task.ID,
			ProblemID: p.ID,
		}
		if err := s.GroupRepo.Create(group); err != nil {
			return err
		}
		if err := s.TaskRepo.UpdateProblemGroup(p.ID, group.ID); err != nil {
			return err
		}
		logger.Log.Info("Created problem group",
			zap.Uint("taskId", task.ID),
			zap.String("problemId", p.ID),
			zap.Uint("groupId", group.ID))
	}
	return nil
}

// GetByID loads a task with questions. The correct multiple-choice answers are
// hidden from members; admins see everything.
func (s *TaskService) GetByID(id uint, role model.UserRole) (*model.Task, error) {
	task, err := s.TaskRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrTaskNotFound
		}
		return nil, err
	}
	if role != model.Admin {
		stripAnswers(task)
	}
	return task, nil
}

// GetByIDAndKind loads a task and verifies it carries the requested kind.
func (s *TaskService) GetByIDAndKind(id uint, kind model.TaskKind, role model.UserRole) (*model.Task, error) {
	task, err := s.GetByID(id, role)
	if err != nil {
		return nil, err
	}
	if task.Kind != kind {
		return nil, util.ErrTaskKindMismatch
	}
	return task, nil
}

// List returns all tasks of a kind for admins, or only the caller's assigned
// tasks for members.
func (s *TaskService) List(kind model.TaskKind, status model.WorkStatus, userID uint, role model.UserRole) ([]model.Task, error) {
	if role == model.Admin {
		return s.TaskRepo.FindAll(kind, status)
	}
	tasks, err := s.TaskRepo.FindByAssignee(userID, kind)
	if err != nil {
		return nil, err
	}
	if status != "" {
		filtered := tasks[:0]
		for _, t := range tasks {
			if t.Status == status {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}
	for i := range tasks {
		stripAnswers(&tasks[i])
	}
	return tasks, nil
}

// Update patches scalar fields and, for each question collection present in
// the payload, replaces the stored set wholesale. An empty collection deletes
// the existing questions; an absent one leaves them untouched. New problem
// prompts on a problem task get their discussion groups, same as on create.
func (s *TaskService) Update(id uint, in CreateTaskInput) (*model.Task, error) {
	task, err := s.TaskRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrTaskNotFound
		}
		return nil, err
	}

	if in.Title != "" {
		task.Title = in.Title
	}
	if in.Description != "" {
		task.Description = in.Description
	}
	if in.Priority != "" {
		task.Priority = in.Priority
	}
	if in.DueDate != nil {
		task.DueDate = in.DueDate
	}
	if in.Attachments != nil {
		task.Attachments = in.Attachments
	}
	if in.TodoChecklist != nil {
		task.TodoChecklist = in.TodoChecklist
	}
	if in.AssignedTo != nil {
		assignees, err := s.UserRepo.FindByIDs(in.AssignedTo)
		if err != nil {
			return nil, err
		}
		if err := s.TaskRepo.ReplaceAssignees(task, assignees); err != nil {
			return nil, err
		}
	}

	// Question sets are replaced through dedicated repo calls, so the scalar
	// save must not resave the stale preloaded rows.
	task.EssayQuestions = nil
	task.MultipleChoiceQuestions = nil
	task.Problems = nil
	if err := s.TaskRepo.Update(task); err != nil {
		return nil, err
	}

	if in.EssayQuestions != nil {
		if err := s.TaskRepo.ReplaceEssayQuestions(id, essayQuestionRows(in.EssayQuestions)); err != nil {
			return nil, err
		}
	}
	if in.MultipleChoiceQuestions != nil {
		if err := s.TaskRepo.ReplaceMultipleChoiceQuestions(id, multipleChoiceRows(in.MultipleChoiceQuestions, task.Kind)); err != nil {
			return nil, err
		}
	}
	if in.Problems != nil {
		if err := s.TaskRepo.ReplaceProblems(id, problemRows(in.Problems)); err != nil {
			return nil, err
		}
		if task.Kind == model.TaskProblem && len(in.Problems) > 0 {
			fresh, err := s.TaskRepo.FindByID(id)
			if err != nil {
				return nil, err
			}
			if err := s.createProblemGroups(fresh, task.CreatedByID); err != nil {
				return nil, err
			}
		}
	}

	return s.TaskRepo.FindByID(id)
}

func (s *TaskService) UpdateStatus(id uint, status model.WorkStatus) (*model.Task, error) {
	task, err := s.TaskRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrTaskNotFound
		}
		return nil, err
	}
	task.ApplyStatus(status)
	if err := s.TaskRepo.Update(task); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateChecklist replaces the checklist and recomputes progress and status
// from the completed fraction.
func (s *TaskService) UpdateChecklist(id uint, checklist []model.TodoItem) (*model.Task, error) {
	task, err := s.TaskRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrTaskNotFound
		}
		return nil, err
	}

	task.TodoChecklist = checklist
	completed := task.CompletedTodoCount()
	if len(checklist) > 0 {
		task.Progress = completed * 100 / len(checklist)
	} else {
		task.Progress = 0
	}
	switch {
	case task.Progress == 100:
		task.Status = model.StatusCompleted
	case task.Progress > 0:
		task.Status = model.StatusInProgress
	default:
		task.Status = model.StatusPending
	}

	if err := s.TaskRepo.Update(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Delete(id uint) error {
	if _, err := s.TaskRepo.FindByID(id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrTaskNotFound
		}
		return err
	}
	return s.TaskRepo.Delete(id)
}

// Dashboard is the status/priority distribution plus recent tasks, scoped to
// one user for the member dashboard or unscoped (userID 0) for admins.
type Dashboard struct {
	Statistics struct {
		TotalTasks      int64 `json:"totalTasks"`
		PendingTasks    int64 `json:"pendingTasks"`
		InProgressTasks int64 `json:"inProgressTasks"`
		CompletedTasks  int64 `json:"completedTasks"`
		OverdueTasks    int64 `json:"overdueTasks"`
	} `json:"statistics"`
	TaskDistribution   map[model.WorkStatus]int64 `json:"taskDistribution"`
	TaskPriorityLevels map[model.Priority]int64   `json:"taskPriorityLevels"`
	RecentTasks        []model.Task               `json:"recentTasks"`
}

func (s *TaskService) GetDashboard(userID uint) (*Dashboard, error) {
	statusCounts, err := s.TaskRepo.CountByStatus(userID)
	if err != nil {
		return nil, err
	}
	priorityCounts, err := s.TaskRepo.CountByPriority(userID)
	if err != nil {
		return nil, err
	}
	overdue, err := s.TaskRepo.CountOverdue(userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.TaskRepo.FindRecent(userID, 10)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		TaskDistribution:   statusCounts,
		TaskPriorityLevels: priorityCounts,
		RecentTasks:        recent,
	}
	d.Statistics.PendingTasks = statusCounts[model.StatusPending]
	d.Statistics.InProgressTasks = statusCounts[model.StatusInProgress]
	d.Statistics.CompletedTasks = statusCounts[model.StatusCompleted]
	d.Statistics.TotalTasks = d.Statistics.PendingTasks + d.Statistics.InProgressTasks + d.Statistics.CompletedTasks
	d.Statistics.OverdueTasks = overdue
	return d, nil
}

func stripAnswers(task *model.Task) {
	for i := range task.MultipleChoiceQuestions {
		task.MultipleChoiceQuestions[i].Answer = ""
	}
}
