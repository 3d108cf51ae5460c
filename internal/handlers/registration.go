package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-management-api/internal/dto"
	apierrors "github.com/yukikurage/team-management-api/internal/errors"
	"github.com/yukikurage/team-management-api/internal/models"
	"github.com/yukikurage/team-management-api/internal/services"
)

type RegistrationHandler struct {
	registrationService *services.RegistrationService
}

func NewRegistrationHandler(registrationService *services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{
		registrationService: registrationService,
	}
}

// ListPending returns registrations awaiting approval
func (h *RegistrationHandler) ListPending(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	pending, err := h.registrationService.ListPending(identity)
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	items := make([]dto.PendingRegistrationDTO, len(pending))
	for i, p := range pending {
		items[i] = dto.ToPendingRegistrationDTO(p)
	}
	apierrors.Respond(c, http.StatusOK, items)
}

// Approve promotes a pending registration to a user. The body is optional
// and may name the role to grant.
func (h *RegistrationHandler) Approve(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := requireID(c, "registration")
	if !ok {
		return
	}

	type ApproveRequest struct {
		Role string `json:"role"`
	}

	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var role *models.Role
	if req.Role != "" {
		parsed, err := models.ParseRole(req.Role)
		if err != nil {
			apierrors.BadRequest(c, err.Error())
			return
		}
		role = &parsed
	}

	user, err := h.registrationService.Approve(identity, id, role)
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	apierrors.Respond(c, http.StatusCreated, dto.ToUserDTO(*user))
}

// Reject discards a pending registration
func (h *RegistrationHandler) Reject(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := requireID(c, "registration")
	if !ok {
		return
	}

	if err := h.registrationService.Reject(identity, id); err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	apierrors.RespondMessage(c, http.StatusOK, "Registration rejected")
}
