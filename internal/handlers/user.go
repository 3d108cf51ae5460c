package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/yukikurage/team-management-api/internal/authz"
	"github.com/yukikurage/team-management-api/internal/dto"
	apierrors "github.com/yukikurage/team-management-api/internal/errors"
	"github.com/yukikurage/team-management-api/internal/models"
	"github.com/yukikurage/team-management-api/internal/services"
	"github.com/yukikurage/team-management-api/internal/utils"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers returns users, optionally filtered by role and team_id
func (h *UserHandler) ListUsers(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	input := services.ListUsersInput{
		Pagination: utils.GetPaginationParams(c),
	}
	if roleStr := c.Query("role"); roleStr != "" {
		role, err := models.ParseRole(roleStr)
		if err != nil {
			apierrors.BadRequest(c, err.Error())
			return
		}
		input.Role = &role
	}
	if teamIDStr := c.Query("team_id"); teamIDStr != "" {
		teamID, err := strconv.ParseUint(teamIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid team_id")
			return
		}
		input.TeamID = &teamID
	}

	users, total, err := h.userService.ListUsers(identity, input)
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	response := dto.UserListResponse{
		Users:      dto.ToUserDTOs(users),
		TotalCount: total,
	}
	if params := input.Pagination; params.Limit > 0 {
		response.Pagination = &utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		}
	}
	apierrors.Respond(c, http.StatusOK, response)
}

// GetUser returns a single user
func (h *UserHandler) GetUser(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := requireID(c, "user")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(identity, id)
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	apierrors.Respond(c, http.StatusOK, dto.ToUserDTO(*user))
}

// CreateUser creates an approved user directly
func (h *UserHandler) CreateUser(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	type CreateUserRequest struct {
		Name     string  `json:"name" binding:"required,max=255"`
		Email    string  `json:"email" binding:"required,email"`
		Password string  `json:"password" binding:"required"`
		Role     string  `json:"role"`
		TeamID   *uint64 `json:"team_id"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	role := models.RoleEmployee
	if req.Role != "" {
		parsed, err := models.ParseRole(req.Role)
		if err != nil {
			apierrors.BadRequest(c, err.Error())
			return
		}
		role = parsed
	}

	user, err := h.userService.CreateUser(identity, services.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
		TeamID:   req.TeamID,
	})
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	apierrors.Respond(c, http.StatusCreated, dto.ToUserDTO(*user))
}

// UpdateUser applies a partial update. A null team_id removes the user from
// their team.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := requireID(c, "user")
	if !ok {
		return
	}

	var body patchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if authz.RequireAdmin(identity) != nil {
		body = body.Only("name", "email")
	}

	input, err := userUpdateFromBody(body)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.UpdateUser(identity, id, input)
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	apierrors.Respond(c, http.StatusOK, dto.ToUserDTO(*user))
}

// DeleteUser removes a user
func (h *UserHandler) DeleteUser(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := requireID(c, "user")
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(identity, id); err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	apierrors.RespondMessage(c, http.StatusOK, "User deleted successfully")
}

type emailField struct {
	Email string `binding:"required,email"`
}

func userUpdateFromBody(body patchBody) (services.UpdateUserInput, error) {
	var input services.UpdateUserInput
	var err error

	if input.Name, err = body.String("name"); err != nil {
		return input, err
	}
	if input.Email, err = body.String("email"); err != nil {
		return input, err
	}
	if input.Email != nil {
		if err := binding.Validator.ValidateStruct(emailField{Email: *input.Email}); err != nil {
			return input, errors.New("email must be a valid email address")
		}
	}
	if input.Password, err = body.String("password"); err != nil {
		return input, err
	}

	roleStr, err := body.String("role")
	if err != nil {
		return input, err
	}
	if roleStr != nil {
		role, err := models.ParseRole(*roleStr)
		if err != nil {
			return input, err
		}
		input.Role = &role
	}

	if input.TeamID, input.ClearTeam, err = body.Uint("team_id"); err != nil {
		return input, err
	}

	return input, nil
}
