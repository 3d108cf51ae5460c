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
	"gorm.io/gorm"
)

var (
	ErrNameRequired        = apierrors.Validation("name is required")
	ErrEmailRequired       = apierrors.Validation("email is required")
	ErrPasswordTooShort    = apierrors.Validation(fmt.Sprintf("password must be at least %d characters", constants.MinPasswordLength))
	ErrEmailTaken          = apierrors.New(apierrors.KindConflict, "email already in use")
	ErrRegistrationPending = apierrors.New(apierrors.KindForbidden, "account pending approval")
	ErrUserNotFound        = apierrors.New(apierrors.KindNotFound, "user not found")
	ErrInvalidCredentials  = apierrors.New(apierrors.KindUnauthenticated, "invalid email or password")
)

// AuthService handles registration, login and identity lookups.
type AuthService struct {
	userRepo    repository.UserRepository
	pendingRepo repository.PendingRegistrationRepository
	tokens      *auth.TokenManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, pendingRepo repository.PendingRegistrationRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		pendingRepo: pendingRepo,
		tokens:      tokens,
	}
}

// RegisterInput represents the information submitted at signup.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register stores a signup for admin approval. Only approved users are
// checked for an email collision; duplicate pending signups are allowed.
func (s *AuthService) Register(input RegisterInput) (*models.PendingRegistration, error) {
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

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	pending := &models.PendingRegistration{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.pendingRepo.Create(pending); err != nil {
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}

	return pending, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the user with a signed session token.
// A pending registration for the email wins over any password check.
func (s *AuthService) Login(input LoginInput) (*models.User, string, error) {
	email := normalizeEmail(input.Email)

	pending, err := s.pendingRepo.ExistsByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check pending registration: %w", err)
	}
	if pending {
		return nil, "", ErrRegistrationPending
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if !auth.VerifyPassword(input.Password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(authz.Identity{UserID: user.ID, Role: user.Role})
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
