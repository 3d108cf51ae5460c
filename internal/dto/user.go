package dto

import (
	"time"

	"github.com/yukikurage/team-management-api/internal/models"
	"github.com/yukikurage/team-management-api/internal/utils"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID     uint64      `json:"id"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	TeamID *uint64     `json:"team_id"`
}

// UserListResponse represents a paginated list of users
type UserListResponse struct {
	Users      []UserDTO                 `json:"users"`
	TotalCount int64                     `json:"total_count"`
	Pagination *utils.PaginationResponse `json:"pagination,omitempty"`
}

// PendingRegistrationDTO represents a signup awaiting approval
type PendingRegistrationDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
		TeamID: user.TeamID,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	items := make([]UserDTO, len(users))
	for i, user := range users {
		items[i] = ToUserDTO(user)
	}
	return items
}

// ToPendingRegistrationDTO converts a PendingRegistration model to its DTO
func ToPendingRegistrationDTO(pending models.PendingRegistration) PendingRegistrationDTO {
	return PendingRegistrationDTO{
		ID:        pending.ID,
		Name:      pending.Name,
		Email:     pending.Email,
		CreatedAt: pending.CreatedAt,
	}
}
