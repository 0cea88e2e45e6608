package services

import (
	"context"
	"time"

	"github.com/purposelog/purposelog_backend/internal/core/domain"
)

// TokenPair groups a freshly minted access/refresh token pair with the
// expiry times the transport layer needs for cookie max-age.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// TokenSvcFacade defines the interface for token issuance and rotation.
type TokenSvcFacade interface {
	// IssueTokenPair mints a new access/refresh pair for the user and
	// persists the hash of the refresh token, rotating out whichever
	// refresh token was stored before.
	IssueTokenPair(ctx context.Context, user *domain.User) (*TokenPair, error)

	// ValidateRefreshToken verifies a presented refresh token: signature
	// and expiry first, then an exact match against the user's stored
	// token hash. Every failure mode returns apperrors.ErrUnauthorized.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*domain.User, error)

	// Logout clears the user's stored refresh token.
	Logout(ctx context.Context, userID string) error
}
