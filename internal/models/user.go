package models

import (
	"database/sql"
	"time"
)

// User is the persistence shape of a user row.
type User struct {
	UserID       string `db:"user_id"`
	Username     string `db:"username"`
	Email        string `db:"email"`
	FullName     string `db:"full_name"`
	PasswordHash string `db:"password_hash"`
	Role         string `db:"role"`

	// Avatar is optional; both columns are set or both are NULL.
	AvatarURL sql.NullString `db:"avatar_url"`
	AvatarKey sql.NullString `db:"avatar_key"`

	// SHA-256 hash of the single active refresh token, NULL when logged out.
	RefreshTokenHash sql.NullString `db:"refresh_token_hash"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
