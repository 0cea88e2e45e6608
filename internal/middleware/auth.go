package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/purposelog/purposelog_backend/internal/dto"
	"github.com/purposelog/purposelog_backend/internal/utils"
)

// AuthMiddleware creates a Gin middleware handler that validates the access
// token carried in a cookie and attaches the resolved user ID to the request
// context. Access tokens are verified statelessly: a valid signature and an
// unexpired timestamp are sufficient, with no store cross-check.
func AuthMiddleware(accessTokenSecret, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		tokenString, err := c.Cookie(cookieName)
		if err != nil || tokenString == "" {
			logger.Warn("Access token cookie missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Fail("Unauthorized request. Token missing"))
			return
		}

		claims, err := utils.ParseAndValidateJWT(tokenString, accessTokenSecret)
		if err != nil {
			// Signature and expiry failures collapse to the same response.
			logger.Warn("Invalid access token", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Fail("Invalid or expired token"))
			return
		}

		userID := claims.Subject
		if userID == "" {
			logger.Error("User ID (subject) missing from valid token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Fail("Invalid or expired token"))
			return
		}

		// Store the user ID in the request context and enrich the logger.
		ctxWithUser := context.WithValue(c.Request.Context(), userIDKey, userID)
		enrichedLogger := logger.With(slog.String("user_id", userID))
		ctxWithLoggerAndUser := context.WithValue(ctxWithUser, loggerCtxKey, enrichedLogger)
		c.Request = c.Request.WithContext(ctxWithLoggerAndUser)

		c.Next()
	}
}
