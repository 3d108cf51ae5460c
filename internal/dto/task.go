package dto

import (
	"time"

	"github.com/yukikurage/team-management-api/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID           uint64              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Status       models.TaskStatus   `json:"status"`
	Priority     models.TaskPriority `json:"priority"`
	DueDate      *time.Time          `json:"due_date"`
	AssignedByID *uint64             `json:"assigned_by_id"`
	AssignedToID *uint64             `json:"assigned_to_id"`
	TeamID       uint64              `json:"team_id"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	AssignedBy   *UserDTO            `json:"assigned_by,omitempty"`
	AssignedTo   *UserDTO            `json:"assigned_to,omitempty"`
	Team         *TeamDTO            `json:"team,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Page       int       `json:"page,omitempty"`
	PageSize   int       `json:"page_size,omitempty"`
	TotalCount int64     `json:"total_count"`
	TotalPages int       `json:"total_pages,omitempty"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		Status:       task.Status,
		Priority:     task.Priority,
		DueDate:      task.DueDate,
		AssignedByID: task.AssignedByID,
		AssignedToID: task.AssignedToID,
		TeamID:       task.TeamID,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}

	// Include relations if preloaded
	if task.AssignedBy != nil {
		assignedBy := ToUserDTO(*task.AssignedBy)
		dto.AssignedBy = &assignedBy
	}
	if task.AssignedTo != nil {
		assignedTo := ToUserDTO(*task.AssignedTo)
		dto.AssignedTo = &assignedTo
	}
	if task.Team != nil {
		team := ToTeamDTO(*task.Team)
		dto.Team = &team
	}

	return dto
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse. A zero
// pageSize means the list was not paginated.
func ToTaskListResponse(tasks []models.Task, page, pageSize int, totalCount int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	response := TaskListResponse{
		Tasks:      items,
		TotalCount: totalCount,
	}
	if pageSize > 0 {
		totalPages := int(totalCount) / pageSize
		if int(totalCount)%pageSize > 0 {
			totalPages++
		}
		response.Page = page
		response.PageSize = pageSize
		response.TotalPages = totalPages
	}

	return response
}
