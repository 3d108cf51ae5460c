package repository

import (
	"github.com/yukikurage/team-management-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTeamRepository is a GORM implementation of TeamRepository
type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

// Create creates a new team
func (r *GormTeamRepository) Create(team *models.Team) error {
	return r.db.Omit(clause.Associations).Create(team).Error
}

// FindByID finds a team by ID with optional preloading
func (r *GormTeamRepository) FindByID(id uint64, preload ...string) (*models.Team, error) {
	var team models.Team
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// FindByName finds a team by its unique name
func (r *GormTeamRepository) FindByName(name string) (*models.Team, error) {
	var team models.Team
	if err := r.db.Where("name = ?", name).First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// List returns all teams ordered by name
func (r *GormTeamRepository) List() ([]models.Team, error) {
	var teams []models.Team
	if err := r.db.Order("name ASC").Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

// Update updates a team
func (r *GormTeamRepository) Update(team *models.Team) error {
	return r.db.Omit(clause.Associations).Save(team).Error
}

// Delete refuses to remove a team that owns tasks. Otherwise it detaches all
// members and deletes the team within one transaction.
func (r *GormTeamRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var taskCount int64
		if err := tx.Model(&models.Task{}).Where("team_id = ?", id).Count(&taskCount).Error; err != nil {
			return err
		}
		if taskCount > 0 {
			return ErrTeamHasTasks
		}

		if err := tx.Model(&models.User{}).Where("team_id = ?", id).
			Update("team_id", nil).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Team{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// AddMembers verifies the team and every user exist before moving any user.
// A moved user's assignments on other teams' tasks are cleared.
func (r *GormTeamRepository) AddMembers(teamID uint64, userIDs []uint64) error {
	ids := uniqueUint64(userIDs)

	return r.db.Transaction(func(tx *gorm.DB) error {
		var team models.Team
		if err := tx.First(&team, teamID).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.User{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
			return err
		}
		if int(count) != len(ids) {
			return ErrUsersNotFound
		}

		if err := tx.Model(&models.Task{}).
			Where("assigned_to_id IN ? AND team_id <> ?", ids, teamID).
			Update("assigned_to_id", nil).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).Where("id IN ?", ids).
			Update("team_id", teamID).Error
	})
}

// RemoveMembers detaches only users that currently belong to the team and
// clears their assignments on the team's tasks. Other ids are ignored.
func (r *GormTeamRepository) RemoveMembers(teamID uint64, userIDs []uint64) (int64, error) {
	ids := uniqueUint64(userIDs)
	var memberIDs []uint64

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("team_id = ? AND id IN ?", teamID, ids).
			Pluck("id", &memberIDs).Error; err != nil {
			return err
		}
		if len(memberIDs) == 0 {
			return nil
		}

		if err := tx.Model(&models.Task{}).
			Where("team_id = ? AND assigned_to_id IN ?", teamID, memberIDs).
			Update("assigned_to_id", nil).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).Where("id IN ?", memberIDs).
			Update("team_id", nil).Error
	})
	if err != nil {
		return 0, err
	}

	return int64(len(memberIDs)), nil
}
