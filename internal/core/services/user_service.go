package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/purposelog/purposelog_backend/internal/apperrors"
	"github.com/purposelog/purposelog_backend/internal/core/domain"
	portsrepo "github.com/purposelog/purposelog_backend/internal/core/ports/repositories"
	portssvc "github.com/purposelog/purposelog_backend/internal/core/ports/services"
	"github.com/purposelog/purposelog_backend/internal/dto"
	"github.com/purposelog/purposelog_backend/internal/platform/config"
	"github.com/purposelog/purposelog_backend/internal/utils"
)

// userService implements UserSvcFacade: registration, credential
// verification, profile management and account deletion.
type userService struct {
	cfg      *config.Config
	userRepo portsrepo.UserRepositoryFacade
	taskRepo portsrepo.TaskRepositoryFacade
	storage  portssvc.AvatarStorageSvc
	logger   *slog.Logger
}

// NewUserService creates a new userService.
func NewUserService(cfg *config.Config, userRepo portsrepo.UserRepositoryFacade, taskRepo portsrepo.TaskRepositoryFacade, storage portssvc.AvatarStorageSvc, logger *slog.Logger) portssvc.UserSvcFacade {
	return &userService{
		cfg:      cfg,
		userRepo: userRepo,
		taskRepo: taskRepo,
		storage:  storage,
		logger:   logger,
	}
}

// normalizeIdentity lowercases and trims a username or email so uniqueness
// checks and lookups are case-insensitive.
func normalizeIdentity(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// avatarObjectKey builds the storage key for a new avatar object, keeping
// the original file extension so content type stays inferable.
func (s *userService) avatarObjectKey(filename string) (string, error) {
	suffix, err := utils.GenerateSecureRandomString(16)
	if err != nil {
		return "", fmt.Errorf("failed to generate avatar object key: %w", err)
	}
	return s.cfg.AvatarFolder + "/" + suffix + strings.ToLower(path.Ext(filename)), nil
}

func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest, avatar *dto.AvatarUpload) (*domain.User, error) {
	username := normalizeIdentity(req.Username)
	email := normalizeIdentity(req.Email)
	fullName := strings.TrimSpace(req.FullName)
	// The password is hashed exactly as submitted; trimming here would strand
	// users whose password carries whitespace.
	password := req.Password

	if username == "" || email == "" || fullName == "" || strings.TrimSpace(password) == "" {
		return nil, fmt.Errorf("%w: all fields are required", apperrors.ErrValidation)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", apperrors.ErrValidation)
	}
	if avatar == nil {
		return nil, fmt.Errorf("%w: avatar is required", apperrors.ErrValidation)
	}

	existing, err := s.userRepo.FindConflictingUser(ctx, username, email, "")
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: username or email is already in use", apperrors.ErrDuplicate)
	}

	// The avatar must land in remote storage before the user row exists;
	// registration never creates a user without a valid avatar.
	key, err := s.avatarObjectKey(avatar.Filename)
	if err != nil {
		return nil, err
	}
	url, err := s.storage.Upload(ctx, key, avatar.Reader, avatar.ContentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUploadFailed, err)
	}

	passwordHash, err := utils.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: passwordHash,
		Avatar:       &domain.Avatar{URL: url, StorageKey: key},
		Role:         domain.RoleUser,
		Timestamps: domain.Timestamps{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		// Unique index may still fire on a racing registration; clean up
		// the orphaned avatar object either way.
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.logger.Warn("Failed to delete avatar after registration failure", slog.String("key", key), slog.String("error", delErr.Error()))
		}
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	return &user, nil
}

func (s *userService) AuthenticateUser(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = normalizeIdentity(username)
	email = normalizeIdentity(email)
	if username == "" && email == "" {
		return nil, fmt.Errorf("%w: username or email is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(password) == "" {
		return nil, fmt.Errorf("%w: password is required", apperrors.ErrValidation)
	}

	user, err := s.userRepo.FindUserByLogin(ctx, username, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up user for login: %w", err)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest, avatar *dto.AvatarUpload) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user for profile update: %w", err)
	}

	if fullName := strings.TrimSpace(req.FullName); fullName != "" {
		user.FullName = fullName
	}

	username := normalizeIdentity(req.Username)
	email := normalizeIdentity(req.Email)
	if username != "" || email != "" {
		conflicting, err := s.userRepo.FindConflictingUser(ctx, username, email, userID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to check for conflicting user: %w", err)
		}
		if conflicting != nil {
			return nil, fmt.Errorf("%w: username or email is already in use", apperrors.ErrDuplicate)
		}
		if username != "" {
			user.Username = username
		}
		if email != "" {
			user.Email = email
		}
	}

	if avatar != nil {
		key, err := s.avatarObjectKey(avatar.Filename)
		if err != nil {
			return nil, err
		}
		url, err := s.storage.Upload(ctx, key, avatar.Reader, avatar.ContentType)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrUploadFailed, err)
		}

		// Best-effort cleanup of the replaced asset; never fails the update.
		if user.Avatar != nil && user.Avatar.StorageKey != "" {
			if delErr := s.storage.Delete(ctx, user.Avatar.StorageKey); delErr != nil {
				s.logger.Warn("Failed to delete old avatar", slog.String("key", user.Avatar.StorageKey), slog.String("error", delErr.Error()))
			}
		}

		user.Avatar = &domain.Avatar{URL: url, StorageKey: key}
	}

	user.UpdatedAt = time.Now()
	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("failed to update user profile: %w", err)
	}

	return user, nil
}

func (s *userService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if strings.TrimSpace(oldPassword) == "" || strings.TrimSpace(newPassword) == "" {
		return fmt.Errorf("%w: old and new password are required", apperrors.ErrValidation)
	}
	if len(newPassword) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", apperrors.ErrValidation)
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to load user for password change: %w", err)
	}

	if !utils.CheckPasswordHash(oldPassword, user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}

	// The plaintext changed, so this is the one place a new hash is computed.
	newHash, err := utils.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.userRepo.UpdatePasswordHash(ctx, userID, newHash, time.Now()); err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}
	return nil
}

func (s *userService) UpdateRefreshTokenHash(ctx context.Context, userID, tokenHash string) error {
	if err := s.userRepo.UpdateRefreshTokenHash(ctx, userID, tokenHash, time.Now()); err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	return nil
}

func (s *userService) ClearRefreshToken(ctx context.Context, userID string) error {
	if err := s.userRepo.ClearRefreshTokenHash(ctx, userID, time.Now()); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

func (s *userService) DeleteUser(ctx context.Context, userID string) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to load user for deletion: %w", err)
	}

	// Remote asset cleanup is best-effort; a storage failure never blocks
	// account deletion.
	if user.Avatar != nil && user.Avatar.StorageKey != "" {
		if delErr := s.storage.Delete(ctx, user.Avatar.StorageKey); delErr != nil {
			s.logger.Warn("Failed to delete avatar during account deletion", slog.String("key", user.Avatar.StorageKey), slog.String("error", delErr.Error()))
		}
	}

	if err := s.taskRepo.DeleteTasksByOwner(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete tasks for user: %w", err)
	}

	if err := s.userRepo.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
