package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/team-management-api/internal/auth"
	"github.com/yukikurage/team-management-api/internal/authz"
	"github.com/yukikurage/team-management-api/internal/constants"
	apierrors "github.com/yukikurage/team-management-api/internal/errors"
	"github.com/yukikurage/team-management-api/internal/models"
	"github.com/yukikurage/team-management-api/internal/repository"
	"github.com/yukikurage/team-management-api/internal/utils"
	"gorm.io/gorm"
)

var ErrCannotDeleteYourself = apierrors.New(apierrors.KindConflict, "cannot delete your own account")

// UserService provides business logic for user management.
type UserService struct {
	userRepo repository.UserRepository
	teamRepo repository.TeamRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, teamRepo repository.TeamRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		teamRepo: teamRepo,
	}
}

// ListUsersInput represents filters for listing users
type ListUsersInput struct {
	Role       *models.Role
	TeamID     *uint64
	Pagination utils.PaginationParams
}

// CreateUserInput represents input for creating a user directly
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
	TeamID   *uint64
}

// UpdateUserInput represents input for updating a user. Nil means unchanged.
type UpdateUserInput struct {
	Name      *string
	Email     *string
	Password  *string
	Role      *models.Role
	TeamID    *uint64
	ClearTeam bool
}

// ListUsers returns users matching the filters.
func (s *UserService) ListUsers(actor authz.Identity, input ListUsersInput) ([]models.User, int64, error) {
	if err := authz.RequireManagerOrAdmin(actor); err != nil {
		return nil, 0, err
	}

	users, total, err := s.userRepo.List(repository.UserFilter{
		Role:       input.Role,
		TeamID:     input.TeamID,
		Pagination: input.Pagination,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// GetUser returns a user visible to the actor.
func (s *UserService) GetUser(actor authz.Identity, id uint64) (*models.User, error) {
	if err := authz.RequireSelfOrPrivileged(actor, id); err != nil {
		return nil, err
	}
	return s.findUser(id)
}

// CreateUser creates an approved user on behalf of an admin.
func (s *UserService) CreateUser(actor authz.Identity, input CreateUserInput) (*models.User, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return nil, err
	}
	return s.createUser(input)
}

// CreateAdmin bootstraps an admin account outside any request.
func (s *UserService) CreateAdmin(name, email, password string) (*models.User, error) {
	return s.createUser(CreateUserInput{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     models.RoleAdmin,
	})
}

func (s *UserService) createUser(input CreateUserInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)
	if name == "" {
		return nil, ErrNameRequired
	}
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	role, err := models.ParseRole(string(input.Role))
	if err != nil {
		return nil, apierrors.Validation(err.Error())
	}

	if err := s.ensureEmailAvailable(email, 0); err != nil {
		return nil, err
	}
	if input.TeamID != nil {
		if err := s.ensureTeamExists(*input.TeamID); err != nil {
			return nil, err
		}
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		TeamID:       input.TeamID,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// UpdateUser applies changes to a user. Admins may change any field. Users
// editing themselves may change only name and email; other submitted fields
// are ignored.
func (s *UserService) UpdateUser(actor authz.Identity, id uint64, input UpdateUserInput) (*models.User, error) {
	isAdmin := authz.RequireAdmin(actor) == nil
	if !isAdmin && actor.UserID != id {
		return nil, authz.ErrForbidden
	}
	if !isAdmin {
		input = UpdateUserInput{Name: input.Name, Email: input.Email}
	}

	user, err := s.findUser(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		user.Name = name
	}
	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if email == "" {
			return nil, ErrEmailRequired
		}
		if email != user.Email {
			if err := s.ensureEmailAvailable(email, user.ID); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}
	if input.Password != nil {
		if len(*input.Password) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hash, err := auth.HashPassword(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	if input.Role != nil {
		role, err := models.ParseRole(string(*input.Role))
		if err != nil {
			return nil, apierrors.Validation(err.Error())
		}
		user.Role = role
	}
	if input.ClearTeam {
		user.TeamID = nil
	} else if input.TeamID != nil {
		if err := s.ensureTeamExists(*input.TeamID); err != nil {
			return nil, err
		}
		teamID := *input.TeamID
		user.TeamID = &teamID
	}

	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeleteUser removes a user. Tasks assigned to or created by the user and
// teams led by the user keep their rows with the reference cleared.
func (s *UserService) DeleteUser(actor authz.Identity, id uint64) error {
	if err := authz.RequireAdmin(actor); err != nil {
		return err
	}
	if actor.UserID == id {
		return ErrCannotDeleteYourself
	}

	if err := s.userRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

func (s *UserService) findUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ensureEmailAvailable fails when another user than exceptID owns the email.
func (s *UserService) ensureEmailAvailable(email string, exceptID uint64) error {
	existing, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check email: %w", err)
	}
	if existing.ID != exceptID {
		return ErrEmailTaken
	}
	return nil
}

func (s *UserService) ensureTeamExists(teamID uint64) error {
	if _, err := s.teamRepo.FindByID(teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to find team: %w", err)
	}
	return nil
}
