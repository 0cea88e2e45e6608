package services

import (
	"context"

	"github.com/purposelog/purposelog_backend/internal/core/domain"
	"github.com/purposelog/purposelog_backend/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// RegisterUser creates a new user. The avatar is uploaded to remote
	// storage first; registration does not create a user when the upload
	// fails (apperrors.ErrUploadFailed).
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest, avatar *dto.AvatarUpload) (*domain.User, error)

	// UpdateProfile updates profile fields and optionally replaces the
	// avatar, deleting the old remote asset on a best-effort basis.
	UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest, avatar *dto.AvatarUpload) (*domain.User, error)

	// ChangePassword verifies the old password and stores a new hash.
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error

	// UpdateRefreshTokenHash overwrites the user's single-slot refresh token hash.
	UpdateRefreshTokenHash(ctx context.Context, userID, tokenHash string) error

	// ClearRefreshToken clears the stored refresh token hash.
	ClearRefreshToken(ctx context.Context, userID string) error
}

// UserLifecycleSvc defines operations for managing user lifecycle
type UserLifecycleSvc interface {
	// DeleteUser removes the account, its tasks and its remote avatar asset.
	DeleteUser(ctx context.Context, userID string) error
}

// UserAuthSvc defines operations for user authentication
type UserAuthSvc interface {
	// AuthenticateUser looks a user up by username or email and verifies the
	// password. Returns apperrors.ErrNotFound when no user matches and
	// apperrors.ErrInvalidCredentials on a password mismatch.
	AuthenticateUser(ctx context.Context, username, email, password string) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserLifecycleSvc
	UserAuthSvc
}
