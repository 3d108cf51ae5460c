package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-management-api/internal/constants"
	"github.com/yukikurage/team-management-api/internal/dto"
	apierrors "github.com/yukikurage/team-management-api/internal/errors"
	"github.com/yukikurage/team-management-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService   *services.AuthService
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler. secureCookies should be true when
// the server is reached over HTTPS.
func NewAuthHandler(authService *services.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		secureCookies: secureCookies,
	}
}

// Register records a signup awaiting admin approval.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Name     string `json:"name" binding:"required,max=255"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	pending, err := h.authService.Register(services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, apierrors.Envelope{
		Success: true,
		Data:    dto.ToPendingRegistrationDTO(*pending),
		Message: "Registration submitted and awaiting approval",
	})
}

// Login authenticates a user and sets the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, token, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	h.setAccessToken(c, token, int(constants.AccessTokenTTL.Seconds()))
	apierrors.Respond(c, http.StatusOK, dto.ToUserDTO(*user))
}

// Logout expires the session cookie. Tokens are stateless, so this only
// clears the client's copy.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setAccessToken(c, "", -1)
	apierrors.RespondMessage(c, http.StatusOK, "Logged out successfully")
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUser(identity.UserID)
	if err != nil {
		apierrors.RespondWithServiceError(c, err)
		return
	}

	apierrors.Respond(c, http.StatusOK, dto.ToUserDTO(*user))
}

// setAccessToken writes the session cookie. A negative maxAge is sent as Max-Age=0.
func (h *AuthHandler) setAccessToken(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     constants.AccessTokenCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   h.secureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
