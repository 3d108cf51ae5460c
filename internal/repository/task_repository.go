package repository

import (
	"errors"

	"github.com/yukikurage/team-management-api/internal/database"
	"github.com/yukikurage/team-management-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// dueDateOrder sorts by due date ascending with undated tasks last on every
// supported dialect.
const dueDateOrder = "CASE WHEN tasks.due_date IS NULL THEN 1 ELSE 0 END, tasks.due_date ASC, tasks.id ASC"

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Omit(clause.Associations).Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	// Apply preloading if specified
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if filter.Status != nil {
			db = db.Where("tasks.status = ?", *filter.Status)
		}
		if filter.Priority != nil {
			db = db.Where("tasks.priority = ?", *filter.Priority)
		}
		if filter.TeamID != nil {
			db = db.Where("tasks.team_id = ?", *filter.TeamID)
		}
		if filter.AssignedToID != nil {
			db = db.Where("tasks.assigned_to_id = ?", *filter.AssignedToID)
		}
		return db
	}

	var total int64
	if err := r.db.Model(&models.Task{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []models.Task
	if err := r.db.Scopes(scope, database.Paginate(filter.Pagination)).
		Order(dueDateOrder).
		Preload("AssignedTo").
		Preload("Team").
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update locks the task row, re-checks its team and assignee against the
// current data and writes only the submitted columns.
func (r *GormTaskRepository) Update(id uint64, update TaskUpdate) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&task, id).Error; err != nil {
			return err
		}
		if update.AssignedTo != nil && (task.AssignedToID == nil || *task.AssignedToID != *update.AssignedTo) {
			return ErrNotAssignee
		}

		columns := map[string]interface{}{}
		if update.Title != nil {
			columns["title"] = *update.Title
		}
		if update.Description != nil {
			columns["description"] = *update.Description
		}
		if update.Status != nil {
			columns["status"] = *update.Status
		}
		if update.Priority != nil {
			columns["priority"] = *update.Priority
		}
		if update.ClearDueDate {
			columns["due_date"] = nil
		} else if update.DueDate != nil {
			columns["due_date"] = *update.DueDate
		}

		teamID := task.TeamID
		teamChanged := update.TeamID != nil && *update.TeamID != task.TeamID
		if teamChanged {
			var count int64
			if err := tx.Model(&models.Team{}).Where("id = ?", *update.TeamID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrTeamNotFound
			}
			teamID = *update.TeamID
			columns["team_id"] = teamID
		}

		assigneeID := task.AssignedToID
		if update.ClearAssignee {
			assigneeID = nil
			columns["assigned_to_id"] = nil
		} else if update.AssignedToID != nil {
			assigneeID = update.AssignedToID
			columns["assigned_to_id"] = *update.AssignedToID
		}

		if assigneeID != nil && (teamChanged || update.AssignedToID != nil) {
			if err := checkAssignee(tx, *assigneeID, teamID); err != nil {
				return err
			}
		}

		if len(columns) == 0 {
			return nil
		}
		return tx.Model(&task).Omit(clause.Associations).Updates(columns).Error
	})
}

// checkAssignee locks the user row so a concurrent membership change waits
// for the task write.
func checkAssignee(tx *gorm.DB, userID, teamID uint64) error {
	var user models.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "team_id").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssigneeNotFound
		}
		return err
	}
	if user.TeamID == nil || *user.TeamID != teamID {
		return ErrAssigneeNotInTeam
	}
	return nil
}

// Delete deletes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	result := r.db.Delete(&models.Task{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
