package handler

import (
	"net/http"

	"github.com/emeena/quotation-api/internal/domain"
	"github.com/emeena/quotation-api/internal/service"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register godoc
// @Summary Register account
// @Description Creates a staff account with role user and returns a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.RegisterRequest true "Account data"
// @Success 201 {object} domain.Envelope{data=domain.AuthResponseDTO}
// @Failure 400 {object} domain.Envelope
// @Failure 409 {object} domain.Envelope "Email already registered"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "register user")
		return
	}
	respondSuccess(w, http.StatusCreated, "user registered", result)
}

// Login godoc
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Credentials"
// @Success 200 {object} domain.Envelope{data=domain.AuthResponseDTO}
// @Failure 401 {object} domain.Envelope
// @Failure 403 {object} domain.Envelope "Account deactivated"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "log in")
		return
	}
	respondSuccess(w, http.StatusOK, "login successful", result)
}

// GetProfile godoc
// @Summary Current user profile
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.Envelope{data=domain.UserDTO}
// @Failure 401 {object} domain.Envelope
// @Security BearerAuth
// @Router /auth/profile [get]
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.GetProfile(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, "get profile")
		return
	}
	respondSuccess(w, http.StatusOK, "", user)
}

// UpdateProfile godoc
// @Summary Update current user profile
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} domain.Envelope{data=domain.UserDTO}
// @Failure 400 {object} domain.Envelope
// @Security BearerAuth
// @Router /auth/profile [put]
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.authService.UpdateProfile(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "update profile")
		return
	}
	respondSuccess(w, http.StatusOK, "profile updated", user)
}

// ChangePassword godoc
// @Summary Change password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} domain.Envelope
// @Failure 400 {object} domain.Envelope
// @Failure 401 {object} domain.Envelope "Current password is wrong"
// @Security BearerAuth
// @Router /auth/change-password [put]
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req domain.ChangePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.authService.ChangePassword(r.Context(), &req); err != nil {
		handleServiceError(w, h.logger, err, "change password")
		return
	}
	respondSuccess(w, http.StatusOK, "password changed", nil)
}

// ListUsers godoc
// @Summary List users
// @Description Admin only
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.Envelope{data=[]domain.UserDTO}
// @Failure 403 {object} domain.Envelope
// @Security BearerAuth
// @Router /auth/users [get]
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.authService.ListUsers(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, "list users")
		return
	}
	respondSuccess(w, http.StatusOK, "", users)
}

// UpdateUserRole godoc
// @Summary Change a user's role
// @Description Admin only
// @Tags Auth
// @Accept json
// @Produce json
// @Param id path string true "User ID" format(uuid)
// @Param request body domain.UpdateUserRoleRequest true "New role"
// @Success 200 {object} domain.Envelope{data=domain.UserDTO}
// @Failure 400 {object} domain.Envelope
// @Failure 403 {object} domain.Envelope
// @Failure 404 {object} domain.Envelope
// @Security BearerAuth
// @Router /auth/users/{id}/role [put]
func (h *AuthHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "user")
	if !ok {
		return
	}
	var req domain.UpdateUserRoleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.authService.UpdateUserRole(r.Context(), id, req.Role)
	if err != nil {
		handleServiceError(w, h.logger, err, "update user role")
		return
	}
	respondSuccess(w, http.StatusOK, "role updated", user)
}
