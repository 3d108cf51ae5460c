package services

import (
	"github.com/yukikurage/team-management-api/internal/authz"
	"github.com/yukikurage/team-management-api/internal/models"
)

func (s *ServiceTestSuite) TestApprove_CreatesUserWithDefaultRole() {
	pending := s.register("Ann", "ann@x.com")

	user, err := s.registrations.Approve(s.admin, pending.ID, nil)
	s.Require().NoError(err)
	s.Equal("ann@x.com", user.Email)
	s.Equal(models.RoleEmployee, user.Role)
	s.Equal(int64(0), s.countRows(&models.PendingRegistration{}))

	loggedIn, _, err := s.auth.Login(LoginInput{Email: "ann@x.com", Password: "supersecret"})
	s.Require().NoError(err)
	s.Equal(user.ID, loggedIn.ID)
}

func (s *ServiceTestSuite) TestApprove_WithRole() {
	pending := s.register("Ann", "ann@x.com")
	role := models.RoleManager

	user, err := s.registrations.Approve(s.admin, pending.ID, &role)
	s.Require().NoError(err)
	s.Equal(models.RoleManager, user.Role)
}

func (s *ServiceTestSuite) TestApprove_AdminOnly() {
	pending := s.register("Ann", "ann@x.com")

	_, err := s.registrations.Approve(s.manager, pending.ID, nil)
	s.ErrorIs(err, authz.ErrForbidden)
	s.Equal(int64(1), s.countRows(&models.PendingRegistration{}))
}

func (s *ServiceTestSuite) TestApprove_Missing() {
	_, err := s.registrations.Approve(s.admin, 999, nil)
	s.ErrorIs(err, ErrRegistrationNotFound)
}

func (s *ServiceTestSuite) TestReject_Twice() {
	pending := s.register("Ann", "ann@x.com")
	usersBefore := s.countRows(&models.User{})

	s.Require().NoError(s.registrations.Reject(s.admin, pending.ID))
	s.ErrorIs(s.registrations.Reject(s.admin, pending.ID), ErrRegistrationNotFound)
	s.Equal(usersBefore, s.countRows(&models.User{}))
}

func (s *ServiceTestSuite) TestListPending() {
	s.register("Ann", "ann@x.com")
	s.register("Bob", "bob@x.com")

	pending, err := s.registrations.ListPending(s.admin)
	s.Require().NoError(err)
	s.Len(pending, 2)

	_, err = s.registrations.ListPending(s.employee)
	s.ErrorIs(err, authz.ErrForbidden)
}
