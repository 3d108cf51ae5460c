// Package testutil provides fixtures shared by repository, service and HTTP tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/team-management-api/internal/auth"
	"github.com/yukikurage/team-management-api/internal/database"
	"github.com/yukikurage/team-management-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory SQLite database that is closed when the test ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to ":memory:" gets its own database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateUser inserts a user whose password is "password".
func CreateUser(t testing.TB, db *gorm.DB, name string, role models.Role, teamID *uint64) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("password")
	require.NoError(t, err)

	user := &models.User{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: hash,
		Role:         role,
		TeamID:       teamID,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTeam inserts a team with no lead.
func CreateTeam(t testing.TB, db *gorm.DB, name string) *models.Team {
	t.Helper()

	team := &models.Team{Name: name}
	require.NoError(t, db.Create(team).Error)
	return team
}

// CreateTask inserts a pending, medium priority task.
func CreateTask(t testing.TB, db *gorm.DB, title string, teamID uint64, assignedTo *uint64) *models.Task {
	t.Helper()

	task := &models.Task{
		Title:        title,
		Description:  title + " description",
		Status:       models.TaskStatusPending,
		Priority:     models.TaskPriorityMedium,
		TeamID:       teamID,
		AssignedToID: assignedTo,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}
