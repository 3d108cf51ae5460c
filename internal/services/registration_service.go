package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/team-management-api/internal/authz"
	apierrors "github.com/yukikurage/team-management-api/internal/errors"
	"github.com/yukikurage/team-management-api/internal/models"
	"github.com/yukikurage/team-management-api/internal/repository"
	"gorm.io/gorm"
)

var ErrRegistrationNotFound = apierrors.New(apierrors.KindNotFound, "pending registration not found")

// RegistrationService lets admins dispose of pending registrations.
type RegistrationService struct {
	pendingRepo repository.PendingRegistrationRepository
	defaultRole models.Role
}

// NewRegistrationService creates a new RegistrationService. Approved users get
// defaultRole unless the approving admin picks another one.
func NewRegistrationService(pendingRepo repository.PendingRegistrationRepository, defaultRole models.Role) *RegistrationService {
	return &RegistrationService{
		pendingRepo: pendingRepo,
		defaultRole: defaultRole,
	}
}

// ListPending returns every registration awaiting a decision.
func (s *RegistrationService) ListPending(actor authz.Identity) ([]models.PendingRegistration, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return nil, err
	}

	pending, err := s.pendingRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	return pending, nil
}

// Approve promotes the registration to a user. role may be nil to use the default.
func (s *RegistrationService) Approve(actor authz.Identity, id uint64, role *models.Role) (*models.User, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return nil, err
	}

	assigned := s.defaultRole
	if role != nil {
		assigned = *role
	}

	user, err := s.pendingRepo.Approve(id, assigned)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrRegistrationNotFound
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, ErrEmailTaken
		default:
			return nil, fmt.Errorf("failed to approve registration: %w", err)
		}
	}

	return user, nil
}

// Reject discards the registration without creating a user.
func (s *RegistrationService) Reject(actor authz.Identity, id uint64) error {
	if err := authz.RequireAdmin(actor); err != nil {
		return err
	}

	if err := s.pendingRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRegistrationNotFound
		}
		return fmt.Errorf("failed to reject registration: %w", err)
	}

	return nil
}
