package dto

import (
	"github.com/yukikurage/team-management-api/internal/models"
)

// TeamDTO represents a team in API responses
type TeamDTO struct {
	ID     uint64  `json:"id"`
	Name   string  `json:"name"`
	LeadID *uint64 `json:"lead_id"`
}

// TeamDetailDTO represents a team with its members
type TeamDetailDTO struct {
	TeamDTO
	Members []UserDTO `json:"members"`
}

// ToTeamDTO converts a Team model to TeamDTO
func ToTeamDTO(team models.Team) TeamDTO {
	return TeamDTO{
		ID:     team.ID,
		Name:   team.Name,
		LeadID: team.LeadID,
	}
}

// ToTeamDetailDTO converts a team with preloaded members to a detailed DTO
func ToTeamDetailDTO(team models.Team) TeamDetailDTO {
	return TeamDetailDTO{
		TeamDTO: ToTeamDTO(team),
		Members: ToUserDTOs(team.Members),
	}
}
