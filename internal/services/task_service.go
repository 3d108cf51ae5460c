package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/team-management-api/internal/authz"
	apierrors "github.com/yukikurage/team-management-api/internal/errors"
	"github.com/yukikurage/team-management-api/internal/models"
	"github.com/yukikurage/team-management-api/internal/repository"
	"github.com/yukikurage/team-management-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound        = apierrors.New(apierrors.KindNotFound, "task not found")
	ErrTitleRequired       = apierrors.Validation("title is required")
	ErrDescriptionRequired = apierrors.Validation("description is required")
	ErrTeamIDRequired      = apierrors.Validation("team_id is required")
	ErrAssigneeNotFound    = apierrors.New(apierrors.KindConflict, "assignee does not exist")
	ErrAssigneeNotInTeam   = apierrors.New(apierrors.KindConflict, "assignee is not a member of the task's team")
)

var taskDetailPreloads = []string{"AssignedBy", "AssignedTo", "Team"}

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
	teamRepo repository.TeamRepository
	userRepo repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, teamRepo repository.TeamRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		teamRepo: teamRepo,
		userRepo: userRepo,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Status       *models.TaskStatus
	Priority     *models.TaskPriority
	TeamID       *uint64
	AssignedToID *uint64
	Pagination   utils.PaginationParams
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title        string
	Description  string
	Priority     *models.TaskPriority
	DueDate      *time.Time
	TeamID       uint64
	AssignedToID *uint64
}

// ListTasks returns tasks visible to the actor. Employees always see only
// their own assignments, whatever assignee filter they sent.
func (s *TaskService) ListTasks(actor authz.Identity, input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		Status:       input.Status,
		Priority:     input.Priority,
		TeamID:       input.TeamID,
		AssignedToID: input.AssignedToID,
		Pagination:   input.Pagination,
	}
	if !actor.Role.IsPrivileged() {
		self := actor.UserID
		filter.AssignedToID = &self
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a task with related data
func (s *TaskService) GetTask(actor authz.Identity, taskID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID, taskDetailPreloads...)
	if err != nil {
		return nil, err
	}

	if !canTouchTask(actor, task) {
		return nil, authz.ErrForbidden
	}

	return task, nil
}

// CreateTask creates a pending task in an existing team
func (s *TaskService) CreateTask(actor authz.Identity, input CreateTaskInput) (*models.Task, error) {
	if err := authz.RequireManagerOrAdmin(actor); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if description == "" {
		return nil, ErrDescriptionRequired
	}
	if input.TeamID == 0 {
		return nil, ErrTeamIDRequired
	}

	priority := models.TaskPriorityMedium
	if input.Priority != nil {
		p, err := models.ParseTaskPriority(string(*input.Priority))
		if err != nil {
			return nil, apierrors.Validation(err.Error())
		}
		priority = p
	}

	if err := s.ensureTeamExists(input.TeamID); err != nil {
		return nil, err
	}
	if input.AssignedToID != nil {
		if err := s.ensureAssigneeInTeam(*input.AssignedToID, input.TeamID); err != nil {
			return nil, err
		}
	}

	creatorID := actor.UserID
	task := &models.Task{
		Title:        title,
		Description:  description,
		Status:       models.TaskStatusPending,
		Priority:     priority,
		DueDate:      input.DueDate,
		AssignedByID: &creatorID,
		AssignedToID: input.AssignedToID,
		TeamID:       input.TeamID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.findTask(task.ID, taskDetailPreloads...)
}

// UpdateTask applies the changes the actor is allowed to make. Employees may
// only change the status of tasks assigned to them.
func (s *TaskService) UpdateTask(actor authz.Identity, taskID uint64, changes authz.TaskChanges) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if !canTouchTask(actor, task) {
		return nil, authz.ErrForbidden
	}

	changes = authz.FilterTaskUpdate(actor, changes)
	if changes.IsEmpty() {
		return s.findTask(task.ID, taskDetailPreloads...)
	}

	update := repository.TaskUpdate{
		DueDate:       changes.DueDate,
		ClearDueDate:  changes.ClearDueDate,
		TeamID:        changes.TeamID,
		AssignedToID:  changes.AssignedToID,
		ClearAssignee: changes.ClearAssignee,
	}
	if !actor.Role.IsPrivileged() {
		self := actor.UserID
		update.AssignedTo = &self
	}

	if changes.Title != nil {
		title := strings.TrimSpace(*changes.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		update.Title = &title
	}
	if changes.Description != nil {
		description := strings.TrimSpace(*changes.Description)
		if description == "" {
			return nil, ErrDescriptionRequired
		}
		update.Description = &description
	}
	if changes.Status != nil {
		status, err := models.ParseTaskStatus(string(*changes.Status))
		if err != nil {
			return nil, apierrors.Validation(err.Error())
		}
		update.Status = &status
	}
	if changes.Priority != nil {
		priority, err := models.ParseTaskPriority(string(*changes.Priority))
		if err != nil {
			return nil, apierrors.Validation(err.Error())
		}
		update.Priority = &priority
	}

	if err := s.taskRepo.Update(task.ID, update); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrTaskNotFound
		case errors.Is(err, repository.ErrNotAssignee):
			return nil, authz.ErrForbidden
		case errors.Is(err, repository.ErrTeamNotFound):
			return nil, ErrTeamNotFound
		case errors.Is(err, repository.ErrAssigneeNotFound):
			return nil, ErrAssigneeNotFound
		case errors.Is(err, repository.ErrAssigneeNotInTeam):
			return nil, ErrAssigneeNotInTeam
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.findTask(task.ID, taskDetailPreloads...)
}

// DeleteTask deletes a task
func (s *TaskService) DeleteTask(actor authz.Identity, taskID uint64) error {
	if err := authz.RequireManagerOrAdmin(actor); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

func (s *TaskService) findTask(taskID uint64, preload ...string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func (s *TaskService) ensureTeamExists(teamID uint64) error {
	if _, err := s.teamRepo.FindByID(teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to find team: %w", err)
	}
	return nil
}

// ensureAssigneeInTeam verifies that a user exists and belongs to the team
func (s *TaskService) ensureAssigneeInTeam(userID, teamID uint64) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssigneeNotFound
		}
		return fmt.Errorf("failed to find assignee: %w", err)
	}
	if user.TeamID == nil || *user.TeamID != teamID {
		return ErrAssigneeNotInTeam
	}
	return nil
}

// canTouchTask reports whether the actor may read or update the task at all.
func canTouchTask(actor authz.Identity, task *models.Task) bool {
	if actor.Role.IsPrivileged() {
		return true
	}
	return task.AssignedToID != nil && *task.AssignedToID == actor.UserID
}
