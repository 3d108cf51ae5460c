package authz

import (
	"time"

	"github.com/yukikurage/team-management-api/internal/models"
)

// TaskChanges is the set of task fields submitted for an update. Nil pointers
// and false Clear* flags mean "not submitted".
type TaskChanges struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	DueDate       *time.Time
	ClearDueDate  bool
	TeamID        *uint64
	AssignedToID  *uint64
	ClearAssignee bool
}

// FilterTaskUpdate drops every field an identity may not change. Employees keep
// only Status; the rest is discarded without an error.
func FilterTaskUpdate(id Identity, changes TaskChanges) TaskChanges {
	if id.Role.IsPrivileged() {
		return changes
	}
	return TaskChanges{Status: changes.Status}
}

// IsEmpty reports whether no field was submitted.
func (c TaskChanges) IsEmpty() bool {
	return c.Title == nil && c.Description == nil && c.Status == nil && c.Priority == nil &&
		c.DueDate == nil && !c.ClearDueDate && c.TeamID == nil && c.AssignedToID == nil && !c.ClearAssignee
}
