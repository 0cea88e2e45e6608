package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/purposelog/purposelog_backend/internal/apperrors"
	"github.com/purposelog/purposelog_backend/internal/core/domain"
	portsrepo "github.com/purposelog/purposelog_backend/internal/core/ports/repositories"
	"github.com/purposelog/purposelog_backend/internal/models"
)

type PgxUserRepository struct {
	db *pgxpool.Pool
}

func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{db: db}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const userColumns = `user_id, username, email, full_name, password_hash, role, avatar_url, avatar_key, refresh_token_hash, created_at, updated_at`

// Helper to convert domain.User to models.User
func toModelUser(d domain.User) models.User {
	m := models.User{
		UserID:       d.UserID,
		Username:     d.Username,
		Email:        d.Email,
		FullName:     d.FullName,
		PasswordHash: d.PasswordHash,
		Role:         string(d.Role),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if d.Avatar != nil {
		m.AvatarURL = sql.NullString{String: d.Avatar.URL, Valid: true}
		m.AvatarKey = sql.NullString{String: d.Avatar.StorageKey, Valid: true}
	}
	if d.RefreshTokenHash != "" {
		m.RefreshTokenHash = sql.NullString{String: d.RefreshTokenHash, Valid: true}
	}
	return m
}

// Helper to convert models.User to domain.User
func toDomainUser(m models.User) domain.User {
	d := domain.User{
		UserID:       m.UserID,
		Username:     m.Username,
		Email:        m.Email,
		FullName:     m.FullName,
		PasswordHash: m.PasswordHash,
		Role:         domain.Role(m.Role),
		Timestamps: domain.Timestamps{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
	}
	if m.AvatarURL.Valid {
		d.Avatar = &domain.Avatar{URL: m.AvatarURL.String, StorageKey: m.AvatarKey.String}
	}
	if m.RefreshTokenHash.Valid {
		d.RefreshTokenHash = m.RefreshTokenHash.String
	}
	return d
}

func scanUserRow(row pgx.Row) (*domain.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.Username,
		&m.Email,
		&m.FullName,
		&m.PasswordHash,
		&m.Role,
		&m.AvatarURL,
		&m.AvatarKey,
		&m.RefreshTokenHash,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	d := toDomainUser(m)
	return &d, nil
}

// isUniqueViolation maps the postgres unique_violation code to ErrDuplicate.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := toModelUser(user)
	query := `
        INSERT INTO users (` + userColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
    `
	_, err := r.db.Exec(ctx, query,
		m.UserID,
		m.Username,
		m.Email,
		m.FullName,
		m.PasswordHash,
		m.Role,
		m.AvatarURL,
		m.AvatarKey,
		m.RefreshTokenHash,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: username or email already taken", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1;`
	user, err := scanUserRow(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID %s: %w", userID, err)
	}
	return user, nil
}

func (r *PgxUserRepository) FindUserByLogin(ctx context.Context, username, email string) (*domain.User, error) {
	query := `
        SELECT ` + userColumns + `
        FROM users
        WHERE (username = $1 AND $1 <> '') OR (email = $2 AND $2 <> '')
        LIMIT 1;
    `
	user, err := scanUserRow(r.db.QueryRow(ctx, query, username, email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by login: %w", err)
	}
	return user, nil
}

func (r *PgxUserRepository) FindConflictingUser(ctx context.Context, username, email, excludeUserID string) (*domain.User, error) {
	query := `
        SELECT ` + userColumns + `
        FROM users
        WHERE ((username = $1 AND $1 <> '') OR (email = $2 AND $2 <> ''))
          AND user_id <> $3
        LIMIT 1;
    `
	user, err := scanUserRow(r.db.QueryRow(ctx, query, username, email, excludeUserID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find conflicting user: %w", err)
	}
	return user, nil
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	m := toModelUser(user)
	query := `
        UPDATE users
        SET username = $1, email = $2, full_name = $3, avatar_url = $4, avatar_key = $5, updated_at = $6
        WHERE user_id = $7;
    `
	cmdTag, err := r.db.Exec(ctx, query,
		m.Username,
		m.Email,
		m.FullName,
		m.AvatarURL,
		m.AvatarKey,
		m.UpdatedAt,
		m.UserID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: username or email already taken", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) UpdatePasswordHash(ctx context.Context, userID, passwordHash string, now time.Time) error {
	query := `UPDATE users SET password_hash = $1, updated_at = $2 WHERE user_id = $3;`
	cmdTag, err := r.db.Exec(ctx, query, passwordHash, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateRefreshTokenHash is the single synchronization point for session
// rotation: last write wins on the row, which is the de facto ordering for
// concurrent logins.
func (r *PgxUserRepository) UpdateRefreshTokenHash(ctx context.Context, userID, tokenHash string, now time.Time) error {
	query := `UPDATE users SET refresh_token_hash = $1, updated_at = $2 WHERE user_id = $3;`
	cmdTag, err := r.db.Exec(ctx, query, tokenHash, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update refresh token hash: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) ClearRefreshTokenHash(ctx context.Context, userID string, now time.Time) error {
	query := `UPDATE users SET refresh_token_hash = NULL, updated_at = $1 WHERE user_id = $2;`
	cmdTag, err := r.db.Exec(ctx, query, now, userID)
	if err != nil {
		return fmt.Errorf("failed to clear refresh token hash: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) DeleteUser(ctx context.Context, userID string) error {
	query := `DELETE FROM users WHERE user_id = $1;`
	cmdTag, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
