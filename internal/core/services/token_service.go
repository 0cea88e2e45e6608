package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/purposelog/purposelog_backend/internal/apperrors"
	"github.com/purposelog/purposelog_backend/internal/core/domain"
	portssvc "github.com/purposelog/purposelog_backend/internal/core/ports/services"
	"github.com/purposelog/purposelog_backend/internal/platform/config"
	"github.com/purposelog/purposelog_backend/internal/utils"
)

// tokenService implements the TokenSvcFacade for issuing and rotating JWT
// pairs. Access and refresh tokens are signed with distinct secrets so that
// possession of one does not forge the other.
type tokenService struct {
	cfg         *config.Config
	userService portssvc.UserSvcFacade
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config, userService portssvc.UserSvcFacade) portssvc.TokenSvcFacade {
	return &tokenService{
		cfg:         cfg,
		userService: userService,
	}
}

// IssueTokenPair mints a new access/refresh pair and persists the SHA-256
// of the refresh token into the user's single slot. Whatever refresh token
// was stored before is rotated out, even if not yet expired.
func (s *tokenService) IssueTokenPair(ctx context.Context, user *domain.User) (*portssvc.TokenPair, error) {
	now := time.Now()

	accessToken, err := utils.GenerateJWT(user.UserID, s.cfg.AccessTokenSecret, s.cfg.AccessTokenExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateJWT(user.UserID, s.cfg.RefreshTokenSecret, s.cfg.RefreshTokenExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.userService.UpdateRefreshTokenHash(ctx, user.UserID, utils.HashRefreshToken(refreshToken)); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return &portssvc.TokenPair{
		AccessToken:      accessToken,
		AccessExpiresAt:  now.Add(s.cfg.AccessTokenExpiryDuration),
		RefreshToken:     refreshToken,
		RefreshExpiresAt: now.Add(s.cfg.RefreshTokenExpiryDuration),
	}, nil
}

// ValidateRefreshToken verifies a presented refresh token against its
// signature, expiry and the user's stored token hash. The failure modes all
// collapse to ErrUnauthorized so a caller cannot distinguish a forged token
// from a rotated-out one.
func (s *tokenService) ValidateRefreshToken(ctx context.Context, tokenString string) (*domain.User, error) {
	claims, err := utils.ParseAndValidateJWT(tokenString, s.cfg.RefreshTokenSecret)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}
	if claims.Subject == "" {
		return nil, apperrors.ErrUnauthorized
	}

	user, err := s.userService.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to retrieve user for refresh token validation: %w", err)
	}

	// A signature-valid token that no longer matches the stored hash means
	// it was rotated out (reuse of an old token, or logout).
	if user.RefreshTokenHash == "" || !utils.CompareRefreshTokenHash(tokenString, user.RefreshTokenHash) {
		return nil, apperrors.ErrUnauthorized
	}

	return user, nil
}

// Logout clears the user's stored refresh token hash; any refresh attempt
// afterwards fails regardless of token validity.
func (s *tokenService) Logout(ctx context.Context, userID string) error {
	return s.userService.ClearRefreshToken(ctx, userID)
}
