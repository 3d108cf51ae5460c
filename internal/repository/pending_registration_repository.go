package repository

import (
	"errors"

	"github.com/yukikurage/team-management-api/internal/models"
	"gorm.io/gorm"
)

// GormPendingRegistrationRepository is a GORM implementation of PendingRegistrationRepository
type GormPendingRegistrationRepository struct {
	db *gorm.DB
}

// NewPendingRegistrationRepository creates a new PendingRegistrationRepository
func NewPendingRegistrationRepository(db *gorm.DB) PendingRegistrationRepository {
	return &GormPendingRegistrationRepository{db: db}
}

// Create stores a new pending registration
func (r *GormPendingRegistrationRepository) Create(pending *models.PendingRegistration) error {
	return r.db.Create(pending).Error
}

// FindByID finds a pending registration by ID
func (r *GormPendingRegistrationRepository) FindByID(id uint64) (*models.PendingRegistration, error) {
	var pending models.PendingRegistration
	if err := r.db.First(&pending, id).Error; err != nil {
		return nil, err
	}
	return &pending, nil
}

// ExistsByEmail reports whether any pending registration uses the email
func (r *GormPendingRegistrationRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.PendingRegistration{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns all pending registrations, oldest first
func (r *GormPendingRegistrationRepository) List() ([]models.PendingRegistration, error) {
	var pending []models.PendingRegistration
	if err := r.db.Order("created_at ASC, id ASC").Find(&pending).Error; err != nil {
		return nil, err
	}
	return pending, nil
}

// Delete discards a pending registration
func (r *GormPendingRegistrationRepository) Delete(id uint64) error {
	result := r.db.Delete(&models.PendingRegistration{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Approve creates a user from the stored registration and deletes every
// registration for that email within a single transaction.
func (r *GormPendingRegistrationRepository) Approve(id uint64, role models.Role) (*models.User, error) {
	var user *models.User

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var pending models.PendingRegistration
		if err := tx.First(&pending, id).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", pending.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}

		user = &models.User{
			Name:         pending.Name,
			Email:        pending.Email,
			PasswordHash: pending.PasswordHash,
			Role:         role,
		}
		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailTaken
			}
			return err
		}

		// Duplicate signups for the same email would otherwise block the new
		// user's login as still pending.
		return tx.Where("email = ?", pending.Email).Delete(&models.PendingRegistration{}).Error
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}
