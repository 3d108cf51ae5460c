package services

import (
	"github.com/yukikurage/team-management-api/internal/auth"
	"github.com/yukikurage/team-management-api/internal/authz"
	apierrors "github.com/yukikurage/team-management-api/internal/errors"
	"github.com/yukikurage/team-management-api/internal/models"
	"github.com/yukikurage/team-management-api/internal/testutil"
)

func ptr[T any](v T) *T {
	return &v
}

func (s *ServiceTestSuite) TestCreateUser_DuplicateEmail() {
	_, err := s.users.CreateUser(s.admin, CreateUserInput{
		Name:     "Other",
		Email:    "Manager@example.com",
		Password: "supersecret",
		Role:     models.RoleEmployee,
	})
	s.ErrorIs(err, ErrEmailTaken)
}

func (s *ServiceTestSuite) TestCreateUser_AdminOnly() {
	_, err := s.users.CreateUser(s.manager, CreateUserInput{
		Name:     "New",
		Email:    "new@example.com",
		Password: "supersecret",
		Role:     models.RoleEmployee,
	})
	s.ErrorIs(err, authz.ErrForbidden)
}

func (s *ServiceTestSuite) TestCreateUser_InvalidRole() {
	_, err := s.users.CreateUser(s.admin, CreateUserInput{
		Name:     "New",
		Email:    "new@example.com",
		Password: "supersecret",
		Role:     models.Role("owner"),
	})
	s.assertKind(apierrors.KindValidation, err)
}

func (s *ServiceTestSuite) TestCreateAdmin() {
	user, err := s.users.CreateAdmin("Root", "root@example.com", "supersecret")
	s.Require().NoError(err)
	s.Equal(models.RoleAdmin, user.Role)
	s.True(auth.VerifyPassword("supersecret", user.PasswordHash))
}

func (s *ServiceTestSuite) TestUpdateUser_SelfKeepsOnlyNameAndEmail() {
	user, err := s.users.UpdateUser(s.employee, s.employee.UserID, UpdateUserInput{
		Name:     ptr("Renamed"),
		Email:    ptr("renamed@example.com"),
		Role:     ptr(models.RoleAdmin),
		Password: ptr("newpassword"),
	})
	s.Require().NoError(err)
	s.Equal("Renamed", user.Name)

	reloaded := s.reloadUser(s.employee.UserID)
	s.Equal("renamed@example.com", reloaded.Email)
	s.Equal(models.RoleEmployee, reloaded.Role)
	s.True(auth.VerifyPassword("password", reloaded.PasswordHash))
}

func (s *ServiceTestSuite) TestUpdateUser_SelfEmailCollision() {
	_, err := s.users.UpdateUser(s.employee, s.employee.UserID, UpdateUserInput{
		Email: ptr("manager@example.com"),
	})
	s.ErrorIs(err, ErrEmailTaken)
}

func (s *ServiceTestSuite) TestUpdateUser_SameEmailIsNotACollision() {
	_, err := s.users.UpdateUser(s.employee, s.employee.UserID, UpdateUserInput{
		Email: ptr("employee@example.com"),
	})
	s.NoError(err)
}

func (s *ServiceTestSuite) TestUpdateUser_OtherUserForbidden() {
	_, err := s.users.UpdateUser(s.manager, s.employee.UserID, UpdateUserInput{Name: ptr("x")})
	s.ErrorIs(err, authz.ErrForbidden)
}

func (s *ServiceTestSuite) TestUpdateUser_AdminChangesAnyField() {
	team := testutil.CreateTeam(s.T(), s.db, "Engineering")

	user, err := s.users.UpdateUser(s.admin, s.employee.UserID, UpdateUserInput{
		Role:   ptr(models.RoleManager),
		TeamID: &team.ID,
	})
	s.Require().NoError(err)
	s.Equal(models.RoleManager, user.Role)
	s.Equal(team.ID, *user.TeamID)

	user, err = s.users.UpdateUser(s.admin, s.employee.UserID, UpdateUserInput{ClearTeam: true})
	s.Require().NoError(err)
	s.Nil(user.TeamID)
}

func (s *ServiceTestSuite) TestUpdateUser_UnknownTeam() {
	_, err := s.users.UpdateUser(s.admin, s.employee.UserID, UpdateUserInput{TeamID: ptr(uint64(999))})
	s.ErrorIs(err, ErrTeamNotFound)
}

func (s *ServiceTestSuite) TestDeleteUser() {
	team := testutil.CreateTeam(s.T(), s.db, "Engineering")
	s.Require().NoError(s.db.Model(&models.User{}).Where("id = ?", s.employee.UserID).Update("team_id", team.ID).Error)
	task := testutil.CreateTask(s.T(), s.db, "task", team.ID, &s.employee.UserID)

	s.Require().NoError(s.users.DeleteUser(s.admin, s.employee.UserID))

	s.Nil(s.reloadTask(task.ID).AssignedToID)
	s.ErrorIs(s.users.DeleteUser(s.admin, s.employee.UserID), ErrUserNotFound)
}

func (s *ServiceTestSuite) TestDeleteUser_Rules() {
	s.ErrorIs(s.users.DeleteUser(s.manager, s.employee.UserID), authz.ErrForbidden)
	s.ErrorIs(s.users.DeleteUser(s.admin, s.admin.UserID), ErrCannotDeleteYourself)
}

func (s *ServiceTestSuite) TestGetUser_SelfOrPrivileged() {
	_, err := s.users.GetUser(s.employee, s.employee.UserID)
	s.NoError(err)

	_, err = s.users.GetUser(s.employee, s.manager.UserID)
	s.ErrorIs(err, authz.ErrForbidden)

	_, err = s.users.GetUser(s.manager, s.employee.UserID)
	s.NoError(err)
}

func (s *ServiceTestSuite) TestListUsers() {
	role := models.RoleManager
	users, total, err := s.users.ListUsers(s.manager, ListUsersInput{Role: &role})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(users, 1)
	s.Equal(s.manager.UserID, users[0].ID)

	_, _, err = s.users.ListUsers(s.employee, ListUsersInput{})
	s.ErrorIs(err, authz.ErrForbidden)
}
