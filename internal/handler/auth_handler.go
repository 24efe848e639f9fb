package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sams-api/internal/dto"
	"github.com/noah-isme/sams-api/internal/middleware"
	"github.com/noah-isme/sams-api/internal/models"
	appErrors "github.com/noah-isme/sams-api/pkg/errors"
	"github.com/noah-isme/sams-api/pkg/response"
)

type authService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*models.AuthResponse, error)
	Logout(ctx context.Context, claims *models.JWTClaims) error
}

type currentUserService interface {
	Me(ctx context.Context, userID string) (*models.User, error)
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service authService
	users   currentUserService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService, users currentUserService) *AuthHandler {
	return &AuthHandler{service: svc, users: users}
}

// Register godoc
// @Summary Register account
// @Description Create a user of any role. Profile fields depend on the role.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.StudentRegistration true "Registration payload (base fields plus role profile)"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetAuditActor(c, res.User.ID)
	middleware.SetAuditResource(c, res.User.ID)
	response.Created(c, res)
}

// Login godoc
// @Summary Authenticate user
// @Description Authenticate user by email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetAuditActor(c, res.User.ID)
	response.OK(c, res)
}

// Me godoc
// @Summary Current user
// @Description Return the authenticated user with its profile
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	user, err := h.users.Me(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, user)
}

// Logout godoc
// @Summary Logout
// @Description Revoke the presented token
// @Tags Authentication
// @Security BearerAuth
// @Success 204
// @Failure 403 {object} response.Envelope
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.service.Logout(c.Request.Context(), claims); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
