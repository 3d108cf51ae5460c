package repository

import (
	"errors"
	"time"

	"github.com/yukikurage/team-management-api/internal/models"
	"github.com/yukikurage/team-management-api/internal/utils"
)

var (
	// ErrTeamHasTasks is returned when deleting a team that still owns tasks.
	ErrTeamHasTasks = errors.New("team repository: team has tasks")
	// ErrUsersNotFound is returned when a membership change names a user that does not exist.
	ErrUsersNotFound = errors.New("team repository: one or more users not found")
	// ErrEmailTaken is returned when approving a registration whose email now belongs to a user.
	ErrEmailTaken = errors.New("user repository: email already in use")
	// ErrTeamNotFound is returned when a task is moved to a team that does not exist.
	ErrTeamNotFound = errors.New("task repository: team not found")
	// ErrAssigneeNotFound is returned when a task is assigned to a user that does not exist.
	ErrAssigneeNotFound = errors.New("task repository: assignee not found")
	// ErrAssigneeNotInTeam is returned when a task's assignee would not belong to its team.
	ErrAssigneeNotInTeam = errors.New("task repository: assignee is not a member of the team")
	// ErrNotAssignee is returned when a guarded update finds the task assigned to someone else.
	ErrNotAssignee = errors.New("task repository: task is not assigned to the user")
)

// UserFilter holds filtering options for listing users
type UserFilter struct {
	Role       *models.Role
	TeamID     *uint64
	Pagination utils.PaginationParams
}

// TaskFilter holds filtering options for listing tasks. All set fields apply conjunctively.
type TaskFilter struct {
	Status       *models.TaskStatus
	Priority     *models.TaskPriority
	TeamID       *uint64
	AssignedToID *uint64
	Pagination   utils.PaginationParams
}

// TaskUpdate lists the task columns to write. Nil pointers and false Clear
// flags leave a column untouched. When AssignedTo is set the update only
// applies while the task is still assigned to that user.
type TaskUpdate struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	DueDate       *time.Time
	ClearDueDate  bool
	TeamID        *uint64
	AssignedToID  *uint64
	ClearAssignee bool
	AssignedTo    *uint64
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List retrieves users with filtering and pagination
	List(filter UserFilter) ([]models.User, int64, error)

	// Update saves a user and clears their assignments on tasks outside their team
	Update(user *models.User) error

	// Delete removes a user after clearing every reference to them
	Delete(id uint64) error
}

// PendingRegistrationRepository defines the interface for pending signups
type PendingRegistrationRepository interface {
	// Create stores a new pending registration
	Create(pending *models.PendingRegistration) error

	// FindByID finds a pending registration by ID
	FindByID(id uint64) (*models.PendingRegistration, error)

	// ExistsByEmail reports whether any pending registration uses the email
	ExistsByEmail(email string) (bool, error)

	// List returns all pending registrations, oldest first
	List() ([]models.PendingRegistration, error)

	// Delete discards a pending registration
	Delete(id uint64) error

	// Approve promotes a pending registration to a user and discards it
	Approve(id uint64, role models.Role) (*models.User, error)
}

// TeamRepository defines the interface for team data access
type TeamRepository interface {
	// Create creates a new team
	Create(team *models.Team) error

	// FindByID finds a team by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Team, error)

	// FindByName finds a team by its unique name
	FindByName(name string) (*models.Team, error)

	// List returns all teams ordered by name
	List() ([]models.Team, error)

	// Update updates a team
	Update(team *models.Team) error

	// Delete removes a team without tasks, detaching its members first
	Delete(id uint64) error

	// AddMembers moves the given users into the team
	AddMembers(teamID uint64, userIDs []uint64) error

	// RemoveMembers detaches the given users from the team, returning how many were members
	RemoveMembers(teamID uint64, userIDs []uint64) (int64, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update writes the given columns of a task in one transaction
	Update(id uint64, update TaskUpdate) error

	// Delete deletes a task
	Delete(id uint64) error
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
