package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/team-management-api/internal/authz"
	apierrors "github.com/yukikurage/team-management-api/internal/errors"
	"github.com/yukikurage/team-management-api/internal/models"
	"github.com/yukikurage/team-management-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTeamNotFound      = apierrors.New(apierrors.KindNotFound, "team not found")
	ErrTeamNameRequired  = apierrors.Validation("team name is required")
	ErrTeamNameTaken     = apierrors.New(apierrors.KindConflict, "team name already exists")
	ErrTeamLeadNotFound  = apierrors.New(apierrors.KindNotFound, "team lead not found")
	ErrTeamHasTasks      = apierrors.New(apierrors.KindConflict, "cannot delete a team that still has tasks")
	ErrNoUserIDsProvided = apierrors.Validation("at least one user ID is required")
	ErrMembersNotFound   = apierrors.New(apierrors.KindConflict, "one or more users not found")
)

// TeamService provides business logic for team operations.
type TeamService struct {
	teamRepo repository.TeamRepository
	userRepo repository.UserRepository
}

// NewTeamService creates a new TeamService.
func NewTeamService(teamRepo repository.TeamRepository, userRepo repository.UserRepository) *TeamService {
	return &TeamService{
		teamRepo: teamRepo,
		userRepo: userRepo,
	}
}

// CreateTeamInput represents parameters to create a new team.
type CreateTeamInput struct {
	Name   string
	LeadID *uint64
}

// UpdateTeamInput represents a partial team update.
type UpdateTeamInput struct {
	Name      *string
	LeadID    *uint64
	ClearLead bool
}

// ListTeams returns all teams.
func (s *TeamService) ListTeams() ([]models.Team, error) {
	teams, err := s.teamRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

// GetTeam returns a team together with its members.
func (s *TeamService) GetTeam(id uint64) (*models.Team, error) {
	return s.findTeam(id, "Members")
}

// CreateTeam creates a team with a unique name and an optional lead.
func (s *TeamService) CreateTeam(actor authz.Identity, input CreateTeamInput) (*models.Team, error) {
	if err := authz.RequireManagerOrAdmin(actor); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}
	if err := s.ensureNameAvailable(name, 0); err != nil {
		return nil, err
	}
	if input.LeadID != nil {
		if err := s.ensureLeadExists(*input.LeadID); err != nil {
			return nil, err
		}
	}

	team := &models.Team{
		Name:   name,
		LeadID: input.LeadID,
	}
	if err := s.teamRepo.Create(team); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTeamNameTaken
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	return team, nil
}

// UpdateTeam validates and applies only the submitted fields.
func (s *TeamService) UpdateTeam(actor authz.Identity, id uint64, input UpdateTeamInput) (*models.Team, error) {
	if err := authz.RequireManagerOrAdmin(actor); err != nil {
		return nil, err
	}

	team, err := s.findTeam(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrTeamNameRequired
		}
		if name != team.Name {
			if err := s.ensureNameAvailable(name, team.ID); err != nil {
				return nil, err
			}
			team.Name = name
		}
	}
	if input.ClearLead {
		team.LeadID = nil
	} else if input.LeadID != nil {
		if err := s.ensureLeadExists(*input.LeadID); err != nil {
			return nil, err
		}
		leadID := *input.LeadID
		team.LeadID = &leadID
	}

	if err := s.teamRepo.Update(team); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTeamNameTaken
		}
		return nil, fmt.Errorf("failed to update team: %w", err)
	}

	return team, nil
}

// DeleteTeam removes a team that owns no tasks.
func (s *TeamService) DeleteTeam(actor authz.Identity, id uint64) error {
	if err := authz.RequireManagerOrAdmin(actor); err != nil {
		return err
	}

	if err := s.teamRepo.Delete(id); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ErrTeamNotFound
		case errors.Is(err, repository.ErrTeamHasTasks):
			return ErrTeamHasTasks
		default:
			return fmt.Errorf("failed to delete team: %w", err)
		}
	}

	return nil
}

// AddMembers moves every listed user into the team, or none of them.
func (s *TeamService) AddMembers(actor authz.Identity, teamID uint64, userIDs []uint64) (*models.Team, error) {
	if err := authz.RequireManagerOrAdmin(actor); err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		return nil, ErrNoUserIDsProvided
	}

	if err := s.teamRepo.AddMembers(teamID, userIDs); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrTeamNotFound
		case errors.Is(err, repository.ErrUsersNotFound):
			return nil, ErrMembersNotFound
		default:
			return nil, fmt.Errorf("failed to add members: %w", err)
		}
	}

	return s.findTeam(teamID, "Members")
}

// RemoveMembers detaches the listed users that currently belong to the team.
func (s *TeamService) RemoveMembers(actor authz.Identity, teamID uint64, userIDs []uint64) (*models.Team, error) {
	if err := authz.RequireManagerOrAdmin(actor); err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		return nil, ErrNoUserIDsProvided
	}

	if _, err := s.findTeam(teamID); err != nil {
		return nil, err
	}

	if _, err := s.teamRepo.RemoveMembers(teamID, userIDs); err != nil {
		return nil, fmt.Errorf("failed to remove members: %w", err)
	}

	return s.findTeam(teamID, "Members")
}

func (s *TeamService) findTeam(id uint64, preload ...string) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(id, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}
	return team, nil
}

func (s *TeamService) ensureNameAvailable(name string, exceptID uint64) error {
	existing, err := s.teamRepo.FindByName(name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check team name: %w", err)
	}
	if existing.ID != exceptID {
		return ErrTeamNameTaken
	}
	return nil
}

func (s *TeamService) ensureLeadExists(userID uint64) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamLeadNotFound
		}
		return fmt.Errorf("failed to find team lead: %w", err)
	}
	return nil
}
