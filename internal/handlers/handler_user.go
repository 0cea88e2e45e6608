package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/purposelog/purposelog_backend/internal/apperrors"
	portssvc "github.com/purposelog/purposelog_backend/internal/core/ports/services"
	"github.com/purposelog/purposelog_backend/internal/dto"
	"github.com/purposelog/purposelog_backend/internal/middleware"
	"github.com/purposelog/purposelog_backend/internal/platform/config"
)

// UserHandler serves the authenticated profile endpoints.
type UserHandler struct {
	userService portssvc.UserSvcFacade
	cfg         *config.Config
}

func NewUserHandler(userService portssvc.UserSvcFacade, cfg *config.Config) *UserHandler {
	return &UserHandler{userService: userService, cfg: cfg}
}

// GetProfile godoc
// @Summary Get the current user's profile
// @Tags users
// @Produce json
// @Success 200 {object} dto.Response{data=dto.UserResponse}
// @Failure 401 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /users/profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized request. Token missing"))
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, dto.OK("Profile fetched successfully", dto.ToUserResponse(user)))
}

// UpdateProfile godoc
// @Summary Update the current user's profile
// @Description Updates username, email, full name and/or avatar. All fields are optional.
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Param username formData string false "New username"
// @Param email formData string false "New email"
// @Param fullName formData string false "New full name"
// @Param avatar formData file false "Replacement avatar image"
// @Success 200 {object} dto.Response{data=dto.UserResponse}
// @Failure 400 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Router /users/profile [post]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized request. Token missing"))
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request: "+err.Error()))
		return
	}

	avatar, closeAvatar, err := avatarFromForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid avatar upload"))
		return
	}
	defer closeAvatar()

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, req, avatar)
	if err != nil {
		respondServiceError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, dto.OK("Profile updated successfully", dto.ToUserResponse(user)))
}

// ChangePassword godoc
// @Summary Change the current user's password
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.ChangePasswordRequest true "Old and new password"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Router /users/change-password [post]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized request. Token missing"))
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request: "+err.Error()))
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, dto.Fail("Old password is incorrect"))
			return
		}
		respondServiceError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, dto.OK("Password changed successfully", nil))
}

// DeleteAccount godoc
// @Summary Delete the current user's account
// @Description Removes the user, their avatar from object storage, and all of their tasks.
// @Tags users
// @Produce json
// @Success 200 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /users/delete [delete]
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized request. Token missing"))
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), userID); err != nil {
		respondServiceError(c, err, "User not found")
		return
	}

	secure := h.cfg.IsProduction
	c.SetCookie(h.cfg.AccessTokenCookieName, "", -1, "/", "", secure, true)
	c.SetCookie(h.cfg.RefreshTokenCookieName, "", -1, "/", "", secure, true)

	c.JSON(http.StatusOK, dto.OK("Account deleted successfully", nil))
}
