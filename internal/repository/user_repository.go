package repository

import (
	"github.com/yukikurage/team-management-api/internal/database"
	"github.com/yukikurage/team-management-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List retrieves users with filtering and pagination
func (r *GormUserRepository) List(filter UserFilter) ([]models.User, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if filter.Role != nil {
			db = db.Where("users.role = ?", *filter.Role)
		}
		if filter.TeamID != nil {
			db = db.Where("users.team_id = ?", *filter.TeamID)
		}
		return db
	}

	var total int64
	if err := r.db.Model(&models.User{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := r.db.Scopes(scope, database.Paginate(filter.Pagination)).
		Order("users.id ASC").
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Update saves a user. Assignments on tasks of any other team are cleared in
// the same transaction so a team change never leaves a stale assignee.
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(user).Error; err != nil {
			return err
		}

		stale := tx.Model(&models.Task{}).Where("assigned_to_id = ?", user.ID)
		if user.TeamID != nil {
			stale = stale.Where("team_id <> ?", *user.TeamID)
		}
		return stale.Update("assigned_to_id", nil).Error
	})
}

// Delete clears task and team references to the user, then removes the row.
func (r *GormUserRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).Where("assigned_to_id = ?", id).
			Update("assigned_to_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Task{}).Where("assigned_by_id = ?", id).
			Update("assigned_by_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Team{}).Where("lead_id = ?", id).
			Update("lead_id", nil).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.User{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
