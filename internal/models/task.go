package models

import (
	"fmt"
	"time"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// ParseTaskStatus converts a raw string into a TaskStatus, rejecting unknown values.
func ParseTaskStatus(value string) (TaskStatus, error) {
	switch s := TaskStatus(value); s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return s, nil
	default:
		return "", fmt.Errorf("invalid status %q", value)
	}
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// ParseTaskPriority converts a raw string into a TaskPriority, rejecting unknown values.
func ParseTaskPriority(value string) (TaskPriority, error) {
	switch p := TaskPriority(value); p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return p, nil
	default:
		return "", fmt.Errorf("invalid priority %q", value)
	}
}

type Task struct {
	ID           uint64       `gorm:"primarykey" json:"id"`
	Title        string       `gorm:"type:varchar(255);not null" json:"title"`
	Description  string       `gorm:"type:text;not null" json:"description"`
	Status       TaskStatus   `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Priority     TaskPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	DueDate      *time.Time   `json:"due_date"`
	AssignedByID *uint64      `json:"assigned_by_id"`
	AssignedToID *uint64      `json:"assigned_to_id"`
	TeamID       uint64       `gorm:"not null" json:"team_id"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	// Relations
	AssignedBy *User `gorm:"foreignKey:AssignedByID" json:"assigned_by,omitempty"`
	AssignedTo *User `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	Team       *Team `gorm:"foreignKey:TeamID" json:"team,omitempty"`
}
