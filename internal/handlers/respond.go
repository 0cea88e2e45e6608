package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/purposelog/purposelog_backend/internal/apperrors"
	"github.com/purposelog/purposelog_backend/internal/dto"
	"github.com/purposelog/purposelog_backend/internal/middleware"
)

// respondServiceError translates service-layer errors into the uniform JSON
// envelope. notFoundMessage lets each handler name the missing resource.
func respondServiceError(c *gin.Context, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.Fail(validationDetail(err)))
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusBadRequest, dto.Fail("Username or Email is already in use"))
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid credentials"))
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.Fail(notFoundMessage))
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, dto.Fail("Invalid or expired token"))
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.Fail("You do not have permission to perform this action"))
	case errors.Is(err, apperrors.ErrUploadFailed):
		c.JSON(http.StatusInternalServerError, dto.Fail("Avatar upload failed. Please try again."))
	default:
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Unhandled service error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.Fail("Internal server error"))
	}
}

// validationDetail strips the sentinel prefix so the client sees only the
// human-readable reason.
func validationDetail(err error) string {
	msg := strings.TrimPrefix(err.Error(), apperrors.ErrValidation.Error()+": ")
	if msg == "" || msg == apperrors.ErrValidation.Error() {
		return "Invalid request"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// avatarFromForm extracts the optional "avatar" file from a multipart request.
// Returns nil when the field is absent.
func avatarFromForm(c *gin.Context) (*dto.AvatarUpload, func(), error) {
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, func() {}, nil
		}
		return nil, func() {}, err
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, func() {}, err
	}
	upload := &dto.AvatarUpload{
		Reader:      file,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
	}
	return upload, func() { _ = file.Close() }, nil
}
