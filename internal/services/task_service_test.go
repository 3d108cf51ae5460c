package services

import (
	"time"

	"github.com/yukikurage/team-management-api/internal/authz"
	apierrors "github.com/yukikurage/team-management-api/internal/errors"
	"github.com/yukikurage/team-management-api/internal/models"
	"github.com/yukikurage/team-management-api/internal/testutil"
)

// engineering creates a team with the employee as its only member.
func (s *ServiceTestSuite) engineering() *models.Team {
	team := testutil.CreateTeam(s.T(), s.db, "Engineering")
	_, err := s.teams.AddMembers(s.admin, team.ID, []uint64{s.employee.UserID})
	s.Require().NoError(err)
	return team
}

func (s *ServiceTestSuite) TestCreateTask_DefaultsThenForeignAssignee() {
	team, err := s.teams.CreateTeam(s.manager, CreateTeamInput{Name: "Engineering"})
	s.Require().NoError(err)

	task, err := s.tasks.CreateTask(s.manager, CreateTaskInput{
		Title:       "Fix bug",
		Description: "Crash on startup",
		TeamID:      team.ID,
	})
	s.Require().NoError(err)
	s.Equal(models.TaskStatusPending, task.Status)
	s.Equal(models.TaskPriorityMedium, task.Priority)
	s.Nil(task.AssignedToID)
	s.Equal(s.manager.UserID, *task.AssignedByID)
	s.Require().NotNil(task.Team)
	s.Equal("Engineering", task.Team.Name)

	_, err = s.tasks.UpdateTask(s.manager, task.ID, authz.TaskChanges{AssignedToID: &s.employee.UserID})
	s.ErrorIs(err, ErrAssigneeNotInTeam)
	s.Equal(apierrors.KindConflict, apierrors.KindOf(err))
	s.Nil(s.reloadTask(task.ID).AssignedToID)
}

func (s *ServiceTestSuite) TestCreateTask_Validation() {
	team := s.engineering()

	tests := []struct {
		name  string
		input CreateTaskInput
		kind  apierrors.Kind
	}{
		{"missing title", CreateTaskInput{Description: "d", TeamID: team.ID}, apierrors.KindValidation},
		{"missing description", CreateTaskInput{Title: "t", TeamID: team.ID}, apierrors.KindValidation},
		{"missing team", CreateTaskInput{Title: "t", Description: "d"}, apierrors.KindValidation},
		{"unknown team", CreateTaskInput{Title: "t", Description: "d", TeamID: 999}, apierrors.KindNotFound},
		{"unknown assignee", CreateTaskInput{Title: "t", Description: "d", TeamID: team.ID, AssignedToID: ptr(uint64(999))}, apierrors.KindConflict},
		{"assignee outside team", CreateTaskInput{Title: "t", Description: "d", TeamID: team.ID, AssignedToID: &s.manager.UserID}, apierrors.KindConflict},
		{"bad priority", CreateTaskInput{Title: "t", Description: "d", TeamID: team.ID, Priority: ptr(models.TaskPriority("urgent"))}, apierrors.KindValidation},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.tasks.CreateTask(s.manager, tt.input)
			s.assertKind(tt.kind, err)
		})
	}
	s.Equal(int64(0), s.countRows(&models.Task{}))
}

func (s *ServiceTestSuite) TestCreateTask_UnknownAssigneeConflicts() {
	team := s.engineering()

	_, err := s.tasks.CreateTask(s.manager, CreateTaskInput{
		Title:        "t",
		Description:  "d",
		TeamID:       team.ID,
		AssignedToID: ptr(uint64(999)),
	})
	s.ErrorIs(err, ErrAssigneeNotFound)
	s.Equal(apierrors.KindConflict, apierrors.KindOf(err))
}

func (s *ServiceTestSuite) TestCreateTask_EmployeeForbidden() {
	team := s.engineering()

	_, err := s.tasks.CreateTask(s.employee, CreateTaskInput{Title: "t", Description: "d", TeamID: team.ID})
	s.ErrorIs(err, authz.ErrForbidden)
}

func (s *ServiceTestSuite) TestUpdateTask_EmployeeOnlyChangesStatus() {
	team := s.engineering()
	other := testutil.CreateTeam(s.T(), s.db, "Operations")
	task := testutil.CreateTask(s.T(), s.db, "Original", team.ID, &s.employee.UserID)

	updated, err := s.tasks.UpdateTask(s.employee, task.ID, authz.TaskChanges{
		Title:         ptr("Hijacked"),
		Description:   ptr("Hijacked"),
		Status:        ptr(models.TaskStatusInProgress),
		Priority:      ptr(models.TaskPriorityHigh),
		DueDate:       ptr(time.Now()),
		TeamID:        &other.ID,
		ClearAssignee: true,
	})
	s.Require().NoError(err)
	s.Equal(models.TaskStatusInProgress, updated.Status)

	reloaded := s.reloadTask(task.ID)
	s.Equal("Original", reloaded.Title)
	s.Equal("Original description", reloaded.Description)
	s.Equal(models.TaskPriorityMedium, reloaded.Priority)
	s.Nil(reloaded.DueDate)
	s.Equal(team.ID, reloaded.TeamID)
	s.Equal(s.employee.UserID, *reloaded.AssignedToID)
}

func (s *ServiceTestSuite) TestUpdateTask_EmployeeWithoutStatusIsNoop() {
	team := s.engineering()
	task := testutil.CreateTask(s.T(), s.db, "Original", team.ID, &s.employee.UserID)

	updated, err := s.tasks.UpdateTask(s.employee, task.ID, authz.TaskChanges{Title: ptr("Hijacked")})
	s.Require().NoError(err)
	s.Equal("Original", updated.Title)
}

func (s *ServiceTestSuite) TestUpdateTask_EmployeeCannotTouchOthersTasks() {
	team := s.engineering()
	task := testutil.CreateTask(s.T(), s.db, "Unassigned", team.ID, nil)

	_, err := s.tasks.UpdateTask(s.employee, task.ID, authz.TaskChanges{Status: ptr(models.TaskStatusCompleted)})
	s.ErrorIs(err, authz.ErrForbidden)

	_, err = s.tasks.GetTask(s.employee, task.ID)
	s.ErrorIs(err, authz.ErrForbidden)
}

func (s *ServiceTestSuite) TestUpdateTask_TeamChangeRevalidatesAssignee() {
	team := s.engineering()
	other := testutil.CreateTeam(s.T(), s.db, "Operations")
	task := testutil.CreateTask(s.T(), s.db, "task", team.ID, &s.employee.UserID)

	_, err := s.tasks.UpdateTask(s.manager, task.ID, authz.TaskChanges{TeamID: &other.ID})
	s.ErrorIs(err, ErrAssigneeNotInTeam)

	_, err = s.tasks.UpdateTask(s.manager, task.ID, authz.TaskChanges{TeamID: ptr(uint64(999))})
	s.ErrorIs(err, ErrTeamNotFound)

	_, err = s.tasks.UpdateTask(s.manager, task.ID, authz.TaskChanges{AssignedToID: ptr(uint64(999))})
	s.ErrorIs(err, ErrAssigneeNotFound)
	s.Equal(apierrors.KindConflict, apierrors.KindOf(err))

	updated, err := s.tasks.UpdateTask(s.manager, task.ID, authz.TaskChanges{TeamID: &other.ID, ClearAssignee: true})
	s.Require().NoError(err)
	s.Equal(other.ID, updated.TeamID)
	s.Nil(updated.AssignedToID)
}

func (s *ServiceTestSuite) TestUpdateTask_ManagerFields() {
	team := s.engineering()
	task := testutil.CreateTask(s.T(), s.db, "task", team.ID, nil)
	due := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

	updated, err := s.tasks.UpdateTask(s.manager, task.ID, authz.TaskChanges{
		Title:        ptr("Renamed"),
		Priority:     ptr(models.TaskPriorityHigh),
		DueDate:      &due,
		AssignedToID: &s.employee.UserID,
	})
	s.Require().NoError(err)
	s.Equal("Renamed", updated.Title)
	s.Equal(models.TaskPriorityHigh, updated.Priority)
	s.Require().NotNil(updated.DueDate)
	s.True(due.Equal(*updated.DueDate))
	s.Require().NotNil(updated.AssignedTo)
	s.Equal(s.employee.UserID, updated.AssignedTo.ID)

	updated, err = s.tasks.UpdateTask(s.manager, task.ID, authz.TaskChanges{ClearDueDate: true})
	s.Require().NoError(err)
	s.Nil(updated.DueDate)

	_, err = s.tasks.UpdateTask(s.manager, task.ID, authz.TaskChanges{Status: ptr(models.TaskStatus("done"))})
	s.assertKind(apierrors.KindValidation, err)
}

func (s *ServiceTestSuite) TestListTasks_EmployeeForcedToOwn() {
	team := s.engineering()
	mine := testutil.CreateTask(s.T(), s.db, "mine", team.ID, &s.employee.UserID)
	testutil.CreateTask(s.T(), s.db, "unassigned", team.ID, nil)

	tasks, total, err := s.tasks.ListTasks(s.employee, ListTasksInput{AssignedToID: &s.manager.UserID})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(tasks, 1)
	s.Equal(mine.ID, tasks[0].ID)

	_, total, err = s.tasks.ListTasks(s.manager, ListTasksInput{})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
}

func (s *ServiceTestSuite) TestDeleteTask() {
	team := s.engineering()
	task := testutil.CreateTask(s.T(), s.db, "task", team.ID, &s.employee.UserID)

	s.ErrorIs(s.tasks.DeleteTask(s.employee, task.ID), authz.ErrForbidden)
	s.Require().NoError(s.tasks.DeleteTask(s.manager, task.ID))
	s.ErrorIs(s.tasks.DeleteTask(s.manager, task.ID), ErrTaskNotFound)
}
