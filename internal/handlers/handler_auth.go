package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/purposelog/purposelog_backend/internal/core/ports/services"
	"github.com/purposelog/purposelog_backend/internal/dto"
	"github.com/purposelog/purposelog_backend/internal/middleware"
	"github.com/purposelog/purposelog_backend/internal/platform/config"
)

// AuthHandler owns registration, login and the refresh-token/logout flows.
type AuthHandler struct {
	userService  portssvc.UserSvcFacade
	tokenService portssvc.TokenSvcFacade
	cfg          *config.Config
}

func NewAuthHandler(userService portssvc.UserSvcFacade, tokenService portssvc.TokenSvcFacade, cfg *config.Config) *AuthHandler {
	return &AuthHandler{userService: userService, tokenService: tokenService, cfg: cfg}
}

// setAuthCookies writes both token cookies. Secure is tied to the deployment
// environment so local development over plain HTTP still works.
func (h *AuthHandler) setAuthCookies(c *gin.Context, pair *portssvc.TokenPair) {
	secure := h.cfg.IsProduction
	c.SetCookie(h.cfg.AccessTokenCookieName, pair.AccessToken, int(h.cfg.AccessTokenExpiryDuration.Seconds()), "/", "", secure, true)
	c.SetCookie(h.cfg.RefreshTokenCookieName, pair.RefreshToken, int(h.cfg.RefreshTokenExpiryDuration.Seconds()), "/", "", secure, true)
}

func (h *AuthHandler) clearAuthCookies(c *gin.Context) {
	secure := h.cfg.IsProduction
	c.SetCookie(h.cfg.AccessTokenCookieName, "", -1, "/", "", secure, true)
	c.SetCookie(h.cfg.RefreshTokenCookieName, "", -1, "/", "", secure, true)
}

// Register godoc
// @Summary Register a new user
// @Description Creates a user account with a mandatory avatar image and logs the user in.
// @Tags auth
// @Accept multipart/form-data
// @Produce json
// @Param username formData string true "Unique username"
// @Param email formData string true "Unique email address"
// @Param fullName formData string true "Full name"
// @Param password formData string true "Password (min 6 characters)"
// @Param avatar formData file true "Avatar image"
// @Success 201 {object} dto.Response{data=dto.UserResponse}
// @Failure 400 {object} dto.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterUserRequest
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
	if avatar == nil {
		c.JSON(http.StatusBadRequest, dto.Fail("Avatar image is required"))
		return
	}

	user, err := h.userService.RegisterUser(c.Request.Context(), req, avatar)
	if err != nil {
		respondServiceError(c, err, "User not found")
		return
	}

	pair, err := h.tokenService.IssueTokenPair(c.Request.Context(), user)
	if err != nil {
		respondServiceError(c, err, "User not found")
		return
	}
	h.setAuthCookies(c, pair)

	c.JSON(http.StatusCreated, dto.OK("User registered and logged in successfully", dto.ToUserResponse(user)))
}

// Login godoc
// @Summary Log in
// @Description Authenticates by username or email and sets the token cookies.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.Response{data=dto.UserResponse}
// @Failure 400 {object} dto.Response
// @Failure 404 {object} dto.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request: "+err.Error()))
		return
	}

	user, err := h.userService.AuthenticateUser(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err, "User not found")
		return
	}

	pair, err := h.tokenService.IssueTokenPair(c.Request.Context(), user)
	if err != nil {
		respondServiceError(c, err, "User not found")
		return
	}
	h.setAuthCookies(c, pair)

	c.JSON(http.StatusOK, dto.OK("User logged in successfully", dto.ToUserResponse(user)))
}

// RefreshToken godoc
// @Summary Rotate the token pair
// @Description Validates the refresh-token cookie and issues a fresh pair, invalidating the old refresh token.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Router /auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	tokenString, err := c.Cookie(h.cfg.RefreshTokenCookieName)
	if err != nil || tokenString == "" {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized request. Token missing"))
		return
	}

	user, err := h.tokenService.ValidateRefreshToken(c.Request.Context(), tokenString)
	if err != nil {
		respondServiceError(c, err, "User not found")
		return
	}

	pair, err := h.tokenService.IssueTokenPair(c.Request.Context(), user)
	if err != nil {
		respondServiceError(c, err, "User not found")
		return
	}
	h.setAuthCookies(c, pair)

	c.JSON(http.StatusOK, dto.OK("Tokens refreshed successfully", nil))
}

// Logout godoc
// @Summary Log out
// @Description Clears the token cookies and invalidates the stored refresh token.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.Response
// @Failure 401 {object} dto.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized request. Token missing"))
		return
	}

	if err := h.tokenService.Logout(c.Request.Context(), userID); err != nil {
		respondServiceError(c, err, "User not found")
		return
	}
	h.clearAuthCookies(c)

	c.JSON(http.StatusOK, dto.OK("User logged out successfully", nil))
}
