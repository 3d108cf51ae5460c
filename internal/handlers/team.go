package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-management-api/internal/authz"
	"github.com/yukikurage/team-management-api/internal/dto"
	apierrors "github.com/yukikurage/team-management-api/internal/errors"
	"github.com/yukikurage/team-management-api/internal/models"
	"github.com/yukikurage/team-management-api/internal/services"
)

type TeamHandler struct {
	teamService *services.TeamService
}

func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
	}
}

type memberIDsRequest struct {
	UserIDs []uint64 `json:"user_ids" binding:"required"`
}

// ListTeams returns all teams
func (h *TeamHandler) ListTeams(c *gin.Context) {
	teams, err := h.teamService.ListTeams()
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	items := make([]dto.TeamDTO, len(teams))
	for i, team := range teams {
		items[i] = dto.ToTeamDTO(team)
	}
	apierrors.Respond(c, http.StatusOK, items)
}

// GetTeam returns a team with its members
func (h *TeamHandler) GetTeam(c *gin.Context) {
	id, ok := requireID(c, "team")
	if !ok {
		return
	}

	team, err := h.teamService.GetTeam(id)
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	apierrors.Respond(c, http.StatusOK, dto.ToTeamDetailDTO(*team))
}

// CreateTeam creates a new team
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	type CreateTeamRequest struct {
		Name   string  `json:"name" binding:"required,max=255"`
		LeadID *uint64 `json:"lead_id"`
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	team, err := h.teamService.CreateTeam(identity, services.CreateTeamInput{
		Name:   req.Name,
		LeadID: req.LeadID,
	})
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	apierrors.Respond(c, http.StatusCreated, dto.ToTeamDTO(*team))
}

// UpdateTeam renames a team or changes its lead. A null lead_id clears it.
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := requireID(c, "team")
	if !ok {
		return
	}

	var body patchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var input services.UpdateTeamInput
	var err error
	if input.Name, err = body.String("name"); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	if input.LeadID, input.ClearLead, err = body.Uint("lead_id"); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	team, err := h.teamService.UpdateTeam(identity, id, input)
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	apierrors.Respond(c, http.StatusOK, dto.ToTeamDTO(*team))
}

// DeleteTeam deletes a team without tasks
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := requireID(c, "team")
	if !ok {
		return
	}

	if err := h.teamService.DeleteTeam(identity, id); err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	apierrors.RespondMessage(c, http.StatusOK, "Team deleted successfully")
}

// AddMembers moves users into the team
func (h *TeamHandler) AddMembers(c *gin.Context) {
	h.changeMembers(c, h.teamService.AddMembers)
}

// RemoveMembers detaches users from the team
func (h *TeamHandler) RemoveMembers(c *gin.Context) {
	h.changeMembers(c, h.teamService.RemoveMembers)
}

type memberChange func(actor authz.Identity, teamID uint64, userIDs []uint64) (*models.Team, error)

func (h *TeamHandler) changeMembers(c *gin.Context, apply memberChange) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := requireID(c, "team")
	if !ok {
		return
	}

	var req memberIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	team, err := apply(identity, id, req.UserIDs)
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	apierrors.Respond(c, http.StatusOK, dto.ToTeamDetailDTO(*team))
}
