package services

import (
	"github.com/yukikurage/team-management-api/internal/authz"
	"github.com/yukikurage/team-management-api/internal/models"
	"github.com/yukikurage/team-management-api/internal/testutil"
)

func (s *ServiceTestSuite) TestCreateTeam() {
	team, err := s.teams.CreateTeam(s.manager, CreateTeamInput{Name: " Engineering ", LeadID: &s.employee.UserID})
	s.Require().NoError(err)
	s.Equal("Engineering", team.Name)
	s.Equal(s.employee.UserID, *team.LeadID)

	// The lead does not become a member.
	s.Nil(s.reloadUser(s.employee.UserID).TeamID)
}

func (s *ServiceTestSuite) TestCreateTeam_Rules() {
	testutil.CreateTeam(s.T(), s.db, "Engineering")

	_, err := s.teams.CreateTeam(s.manager, CreateTeamInput{Name: "Engineering"})
	s.ErrorIs(err, ErrTeamNameTaken)

	_, err = s.teams.CreateTeam(s.manager, CreateTeamInput{Name: "Ops", LeadID: ptr(uint64(999))})
	s.ErrorIs(err, ErrTeamLeadNotFound)

	_, err = s.teams.CreateTeam(s.manager, CreateTeamInput{Name: "  "})
	s.ErrorIs(err, ErrTeamNameRequired)

	_, err = s.teams.CreateTeam(s.employee, CreateTeamInput{Name: "Ops"})
	s.ErrorIs(err, authz.ErrForbidden)
}

func (s *ServiceTestSuite) TestUpdateTeam_PartialUpdate() {
	team, err := s.teams.CreateTeam(s.manager, CreateTeamInput{Name: "Engineering", LeadID: &s.manager.UserID})
	s.Require().NoError(err)
	testutil.CreateTeam(s.T(), s.db, "Operations")

	updated, err := s.teams.UpdateTeam(s.manager, team.ID, UpdateTeamInput{Name: ptr("Platform")})
	s.Require().NoError(err)
	s.Equal("Platform", updated.Name)
	s.Equal(s.manager.UserID, *updated.LeadID)

	_, err = s.teams.UpdateTeam(s.manager, team.ID, UpdateTeamInput{Name: ptr("Operations")})
	s.ErrorIs(err, ErrTeamNameTaken)

	_, err = s.teams.UpdateTeam(s.manager, team.ID, UpdateTeamInput{Name: ptr("Platform")})
	s.NoError(err)

	updated, err = s.teams.UpdateTeam(s.manager, team.ID, UpdateTeamInput{ClearLead: true})
	s.Require().NoError(err)
	s.Nil(updated.LeadID)
	s.Equal("Platform", updated.Name)

	_, err = s.teams.UpdateTeam(s.manager, 999, UpdateTeamInput{Name: ptr("x")})
	s.ErrorIs(err, ErrTeamNotFound)
}

func (s *ServiceTestSuite) TestDeleteTeam_WithTasksChangesNothing() {
	team := testutil.CreateTeam(s.T(), s.db, "Engineering")
	_, err := s.teams.AddMembers(s.manager, team.ID, []uint64{s.employee.UserID})
	s.Require().NoError(err)
	task := testutil.CreateTask(s.T(), s.db, "task", team.ID, &s.employee.UserID)

	s.ErrorIs(s.teams.DeleteTeam(s.manager, team.ID), ErrTeamHasTasks)

	s.Equal(team.ID, *s.reloadUser(s.employee.UserID).TeamID)
	s.Equal(s.employee.UserID, *s.reloadTask(task.ID).AssignedToID)
	s.Equal(int64(1), s.countRows(&models.Team{}))
}

func (s *ServiceTestSuite) TestDeleteTeam() {
	team := testutil.CreateTeam(s.T(), s.db, "Engineering")
	_, err := s.teams.AddMembers(s.manager, team.ID, []uint64{s.employee.UserID})
	s.Require().NoError(err)

	s.Require().NoError(s.teams.DeleteTeam(s.manager, team.ID))
	s.Nil(s.reloadUser(s.employee.UserID).TeamID)
	s.ErrorIs(s.teams.DeleteTeam(s.manager, team.ID), ErrTeamNotFound)
}

func (s *ServiceTestSuite) TestMembers_RoundTrip() {
	team := testutil.CreateTeam(s.T(), s.db, "Engineering")
	ids := []uint64{s.employee.UserID, s.manager.UserID}

	withMembers, err := s.teams.AddMembers(s.manager, team.ID, ids)
	s.Require().NoError(err)
	s.Len(withMembers.Members, 2)

	withoutMembers, err := s.teams.RemoveMembers(s.manager, team.ID, ids)
	s.Require().NoError(err)
	s.Empty(withoutMembers.Members)

	for _, id := range ids {
		s.Nil(s.reloadUser(id).TeamID)
	}
}

func (s *ServiceTestSuite) TestAddMembers_Errors() {
	team := testutil.CreateTeam(s.T(), s.db, "Engineering")

	_, err := s.teams.AddMembers(s.manager, team.ID, []uint64{s.employee.UserID, 999})
	s.ErrorIs(err, ErrMembersNotFound)
	s.Nil(s.reloadUser(s.employee.UserID).TeamID)

	_, err = s.teams.AddMembers(s.manager, 999, []uint64{s.employee.UserID})
	s.ErrorIs(err, ErrTeamNotFound)

	_, err = s.teams.AddMembers(s.manager, team.ID, nil)
	s.ErrorIs(err, ErrNoUserIDsProvided)

	_, err = s.teams.AddMembers(s.employee, team.ID, []uint64{s.employee.UserID})
	s.ErrorIs(err, authz.ErrForbidden)
}

func (s *ServiceTestSuite) TestRemoveMembers_IgnoresNonMembers() {
	eng := testutil.CreateTeam(s.T(), s.db, "Engineering")
	ops := testutil.CreateTeam(s.T(), s.db, "Operations")
	_, err := s.teams.AddMembers(s.manager, ops.ID, []uint64{s.employee.UserID})
	s.Require().NoError(err)

	_, err = s.teams.RemoveMembers(s.manager, eng.ID, []uint64{s.employee.UserID, 999})
	s.Require().NoError(err)
	s.Equal(ops.ID, *s.reloadUser(s.employee.UserID).TeamID)
}
