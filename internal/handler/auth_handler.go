package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/learnhub/lms-api/internal/models"
	"github.com/learnhub/lms-api/internal/service"
	appErrors "github.com/learnhub/lms-api/pkg/errors"
	"github.com/learnhub/lms-api/pkg/response"
)

// AuthHandler wires HTTP endpoints to the auth and profile services.
type AuthHandler struct {
	auth  *service.AuthService
	users *service.UserService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(auth *service.AuthService, users *service.UserService) *AuthHandler {
	return &AuthHandler{auth: auth, users: users}
}

// Register godoc
// @Summary Register a new account
// @Description Create an account; teacher accounts await admin approval before they can sign in
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.RegisterRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid register payload"))
		return
	}

	info, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, info)
}

// Login godoc
// @Summary Authenticate user
// @Description Authenticate by email, password and role claim
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// Me godoc
// @Summary Current user
// @Description Return the authenticated user's profile
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	user, err := h.users.GetProfile(c.Request.Context(), principal.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, user, nil)
}

// UpdateProfile godoc
// @Summary Update own profile
// @Description Update the authenticated user's name, bio and avatar
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.UpdateProfileRequest true "Profile payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /teacher/profile [patch]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	principal := principalFromContext(c)
	if principal == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid profile payload"))
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), principal.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, user, nil)
}
