package repositories

import (
	"context"
	"time"

	"github.com/purposelog/purposelog_backend/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a user by their unique identifier.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByLogin retrieves a user matching the given username or email.
	// Both values are compared in their normalized (lowercased, trimmed) form.
	FindUserByLogin(ctx context.Context, username, email string) (*domain.User, error)

	// FindConflictingUser retrieves a user other than excludeUserID that
	// already holds the given username or email. Used for duplicate checks
	// on registration (excludeUserID empty) and profile updates.
	FindConflictingUser(ctx context.Context, username, email, excludeUserID string) (*domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser updates profile fields (full name, username, email, avatar).
	UpdateUser(ctx context.Context, user domain.User) error

	// UpdatePasswordHash replaces the stored password hash.
	UpdatePasswordHash(ctx context.Context, userID, passwordHash string, now time.Time) error

	// UpdateRefreshTokenHash overwrites the single-slot refresh token hash.
	// The previously stored token becomes invalid even if not expired.
	UpdateRefreshTokenHash(ctx context.Context, userID, tokenHash string, now time.Time) error

	// ClearRefreshTokenHash nulls the stored refresh token hash (logout).
	ClearRefreshTokenHash(ctx context.Context, userID string, now time.Time) error

	// DeleteUser removes the user row. Task rows cascade at the schema level.
	DeleteUser(ctx context.Context, userID string) error
}

// UserRepositoryFacade combines all user repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
