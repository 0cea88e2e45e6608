package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/purposelog/purposelog_backend/internal/apperrors"
	"github.com/purposelog/purposelog_backend/internal/core/domain"
	portssvc "github.com/purposelog/purposelog_backend/internal/core/ports/services"
	"github.com/purposelog/purposelog_backend/internal/core/services"
	"github.com/purposelog/purposelog_backend/internal/dto"
	"github.com/purposelog/purposelog_backend/internal/platform/config"
	"github.com/purposelog/purposelog_backend/internal/utils"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByLogin(ctx context.Context, username, email string) (*domain.User, error) {
	args := m.Called(ctx, username, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindConflictingUser(ctx context.Context, username, email, excludeUserID string) (*domain.User, error) {
	args := m.Called(ctx, username, email, excludeUserID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePasswordHash(ctx context.Context, userID, passwordHash string, now time.Time) error {
	args := m.Called(ctx, userID, passwordHash, now)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshTokenHash(ctx context.Context, userID, tokenHash string, now time.Time) error {
	args := m.Called(ctx, userID, tokenHash, now)
	return args.Error(0)
}

func (m *MockUserRepository) ClearRefreshTokenHash(ctx context.Context, userID string, now time.Time) error {
	args := m.Called(ctx, userID, now)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- Mock TaskRepository ---
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) FindTaskByID(ctx context.Context, taskID, ownerID string) (*domain.Task, error) {
	args := m.Called(ctx, taskID, ownerID)
	var task *domain.Task
	if args.Get(0) != nil {
		task = args.Get(0).(*domain.Task)
	}
	return task, args.Error(1)
}

func (m *MockTaskRepository) ListTasks(ctx context.Context, ownerID string, filter domain.TaskFilter) ([]domain.Task, error) {
	args := m.Called(ctx, ownerID, filter)
	var tasks []domain.Task
	if args.Get(0) != nil {
		tasks = args.Get(0).([]domain.Task)
	}
	return tasks, args.Error(1)
}

func (m *MockTaskRepository) CountTasks(ctx context.Context, ownerID string, filter domain.TaskFilter) (int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) SaveTask(ctx context.Context, task domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) UpdateTask(ctx context.Context, task domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) DeleteTask(ctx context.Context, taskID, ownerID string) error {
	args := m.Called(ctx, taskID, ownerID)
	return args.Error(0)
}

func (m *MockTaskRepository) DeleteTasksByOwner(ctx context.Context, ownerID string) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

// --- Mock AvatarStorage ---
type MockAvatarStorage struct {
	mock.Mock
}

func (m *MockAvatarStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, body, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockAvatarStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// --- Test Suite ---
type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	mockTaskRepo *MockTaskRepository
	mockStorage  *MockAvatarStorage
	cfg          *config.Config
	service      portssvc.UserSvcFacade
	ctx          context.Context
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockTaskRepo = new(MockTaskRepository)
	suite.mockStorage = new(MockAvatarStorage)
	suite.cfg = &config.Config{
		BcryptCost:   4, // cheapest legal cost, keeps the suite fast
		AvatarFolder: "purposelog/avatars",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	suite.service = services.NewUserService(suite.cfg, suite.mockUserRepo, suite.mockTaskRepo, suite.mockStorage, logger)
	suite.ctx = context.Background()
}

func (suite *UserServiceTestSuite) validRegisterRequest() (dto.RegisterUserRequest, *dto.AvatarUpload) {
	req := dto.RegisterUserRequest{
		Username: "TestUser",
		Email:    "Test@Example.com",
		FullName: "Test User",
		Password: "password123",
	}
	avatar := &dto.AvatarUpload{
		Reader:      strings.NewReader("fake-image-bytes"),
		Filename:    "avatar.png",
		ContentType: "image/png",
		Size:        16,
	}
	return req, avatar
}

func (suite *UserServiceTestSuite) TestRegisterUser_Success() {
	req, avatar := suite.validRegisterRequest()

	suite.mockUserRepo.On("FindConflictingUser", suite.ctx, "testuser", "test@example.com", "").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockStorage.On("Upload", suite.ctx, mock.AnythingOfType("string"), avatar.Reader, "image/png").
		Return("https://cdn.example.com/avatar.png", nil).Once()
	suite.mockUserRepo.On("SaveUser", suite.ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Username == "testuser" &&
			u.Email == "test@example.com" &&
			u.Role == domain.RoleUser &&
			u.Avatar != nil && u.Avatar.URL == "https://cdn.example.com/avatar.png" &&
			utils.CheckPasswordHash("password123", u.PasswordHash)
	})).Return(nil).Once()

	user, err := suite.service.RegisterUser(suite.ctx, req, avatar)

	suite.NoError(err)
	suite.NotNil(user)
	suite.Equal("testuser", user.Username)
	suite.Equal("test@example.com", user.Email)
	suite.NotEqual("password123", user.PasswordHash)
	suite.True(strings.HasPrefix(user.Avatar.StorageKey, "purposelog/avatars/"))
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockStorage.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegisterUser_DuplicateUser() {
	req, avatar := suite.validRegisterRequest()

	existing := &domain.User{UserID: uuid.NewString(), Username: "testuser"}
	suite.mockUserRepo.On("FindConflictingUser", suite.ctx, "testuser", "test@example.com", "").
		Return(existing, nil).Once()

	user, err := suite.service.RegisterUser(suite.ctx, req, avatar)

	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockStorage.AssertNotCalled(suite.T(), "Upload")
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser")
}

func (suite *UserServiceTestSuite) TestRegisterUser_WhitespacePasswordRoundTrips() {
	req, avatar := suite.validRegisterRequest()
	req.Password = " secret1 "

	var saved domain.User
	suite.mockUserRepo.On("FindConflictingUser", suite.ctx, "testuser", "test@example.com", "").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockStorage.On("Upload", suite.ctx, mock.AnythingOfType("string"), avatar.Reader, "image/png").
		Return("https://cdn.example.com/avatar.png", nil).Once()
	suite.mockUserRepo.On("SaveUser", suite.ctx, mock.AnythingOfType("domain.User")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.User)
		}).Return(nil).Once()

	_, err := suite.service.RegisterUser(suite.ctx, req, avatar)
	suite.Require().NoError(err)

	// The exact string used at registration must log in afterwards.
	suite.mockUserRepo.On("FindUserByLogin", suite.ctx, "testuser", "").
		Return(&saved, nil).Once()

	user, err := suite.service.AuthenticateUser(suite.ctx, "testuser", "", " secret1 ")
	suite.NoError(err)
	suite.Equal(saved.UserID, user.UserID)

	// The trimmed variant is a different password.
	suite.mockUserRepo.On("FindUserByLogin", suite.ctx, "testuser", "").
		Return(&saved, nil).Once()
	_, err = suite.service.AuthenticateUser(suite.ctx, "testuser", "", "secret1")
	suite.ErrorIs(err, apperrors.ErrInvalidCredentials)
}

func (suite *UserServiceTestSuite) TestRegisterUser_BlankFullName() {
	req, avatar := suite.validRegisterRequest()
	req.FullName = "   "

	user, err := suite.service.RegisterUser(suite.ctx, req, avatar)

	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "FindConflictingUser")
}

func (suite *UserServiceTestSuite) TestRegisterUser_MissingAvatar() {
	req, _ := suite.validRegisterRequest()

	user, err := suite.service.RegisterUser(suite.ctx, req, nil)

	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "FindConflictingUser")
}

func (suite *UserServiceTestSuite) TestRegisterUser_ShortPassword() {
	req, avatar := suite.validRegisterRequest()
	req.Password = "short"

	user, err := suite.service.RegisterUser(suite.ctx, req, avatar)

	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *UserServiceTestSuite) TestRegisterUser_UploadFailure() {
	req, avatar := suite.validRegisterRequest()

	suite.mockUserRepo.On("FindConflictingUser", suite.ctx, "testuser", "test@example.com", "").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockStorage.On("Upload", suite.ctx, mock.AnythingOfType("string"), avatar.Reader, "image/png").
		Return("", errors.New("connection reset")).Once()

	user, err := suite.service.RegisterUser(suite.ctx, req, avatar)

	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrUploadFailed)
	// No user row may exist when the upload failed.
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser")
}

func (suite *UserServiceTestSuite) TestRegisterUser_SaveFailureCleansUpAvatar() {
	req, avatar := suite.validRegisterRequest()

	suite.mockUserRepo.On("FindConflictingUser", suite.ctx, "testuser", "test@example.com", "").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockStorage.On("Upload", suite.ctx, mock.AnythingOfType("string"), avatar.Reader, "image/png").
		Return("https://cdn.example.com/avatar.png", nil).Once()
	suite.mockUserRepo.On("SaveUser", suite.ctx, mock.AnythingOfType("domain.User")).
		Return(apperrors.ErrDuplicate).Once()
	suite.mockStorage.On("Delete", suite.ctx, mock.AnythingOfType("string")).
		Return(nil).Once()

	user, err := suite.service.RegisterUser(suite.ctx, req, avatar)

	suite.Nil(user)
	suite.Error(err)
	suite.mockStorage.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_Success() {
	hash, err := utils.HashPassword("password123", 4)
	suite.Require().NoError(err)
	stored := &domain.User{UserID: uuid.NewString(), Username: "testuser", PasswordHash: hash}

	suite.mockUserRepo.On("FindUserByLogin", suite.ctx, "testuser", "").
		Return(stored, nil).Once()

	user, authErr := suite.service.AuthenticateUser(suite.ctx, "TestUser", "", "password123")

	suite.NoError(authErr)
	suite.Equal(stored.UserID, user.UserID)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_WrongPassword() {
	hash, err := utils.HashPassword("password123", 4)
	suite.Require().NoError(err)
	stored := &domain.User{UserID: uuid.NewString(), Username: "testuser", PasswordHash: hash}

	suite.mockUserRepo.On("FindUserByLogin", suite.ctx, "testuser", "").
		Return(stored, nil).Once()

	user, authErr := suite.service.AuthenticateUser(suite.ctx, "testuser", "", "wrong-password")

	suite.Nil(user)
	suite.ErrorIs(authErr, apperrors.ErrInvalidCredentials)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_UnknownUser() {
	suite.mockUserRepo.On("FindUserByLogin", suite.ctx, "", "ghost@example.com").
		Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.AuthenticateUser(suite.ctx, "", "ghost@example.com", "password123")

	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_MissingIdentity() {
	user, err := suite.service.AuthenticateUser(suite.ctx, "", "", "password123")

	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "FindUserByLogin")
}

func (suite *UserServiceTestSuite) TestChangePassword_Success() {
	userID := uuid.NewString()
	hash, err := utils.HashPassword("old-password", 4)
	suite.Require().NoError(err)

	suite.mockUserRepo.On("FindUserByID", suite.ctx, userID).
		Return(&domain.User{UserID: userID, PasswordHash: hash}, nil).Once()
	suite.mockUserRepo.On("UpdatePasswordHash", suite.ctx, userID, mock.MatchedBy(func(h string) bool {
		return utils.CheckPasswordHash("new-password", h)
	}), mock.AnythingOfType("time.Time")).Return(nil).Once()

	suite.NoError(suite.service.ChangePassword(suite.ctx, userID, "old-password", "new-password"))
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestChangePassword_PreservesWhitespace() {
	userID := uuid.NewString()
	hash, err := utils.HashPassword(" old pass ", 4)
	suite.Require().NoError(err)

	suite.mockUserRepo.On("FindUserByID", suite.ctx, userID).
		Return(&domain.User{UserID: userID, PasswordHash: hash}, nil).Once()
	suite.mockUserRepo.On("UpdatePasswordHash", suite.ctx, userID, mock.MatchedBy(func(h string) bool {
		// The new hash must cover the submitted string, whitespace included.
		return utils.CheckPasswordHash(" new pass ", h) && !utils.CheckPasswordHash("new pass", h)
	}), mock.AnythingOfType("time.Time")).Return(nil).Once()

	suite.NoError(suite.service.ChangePassword(suite.ctx, userID, " old pass ", " new pass "))
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestChangePassword_WrongOldPassword() {
	userID := uuid.NewString()
	hash, err := utils.HashPassword("old-password", 4)
	suite.Require().NoError(err)

	suite.mockUserRepo.On("FindUserByID", suite.ctx, userID).
		Return(&domain.User{UserID: userID, PasswordHash: hash}, nil).Once()

	changeErr := suite.service.ChangePassword(suite.ctx, userID, "not-the-old-password", "new-password")

	suite.ErrorIs(changeErr, apperrors.ErrInvalidCredentials)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdatePasswordHash")
}

func (suite *UserServiceTestSuite) TestUpdateProfile_ConflictingUsername() {
	userID := uuid.NewString()
	suite.mockUserRepo.On("FindUserByID", suite.ctx, userID).
		Return(&domain.User{UserID: userID, Username: "original"}, nil).Once()
	suite.mockUserRepo.On("FindConflictingUser", suite.ctx, "taken", "", userID).
		Return(&domain.User{UserID: uuid.NewString(), Username: "taken"}, nil).Once()

	user, err := suite.service.UpdateProfile(suite.ctx, userID, dto.UpdateProfileRequest{Username: "Taken"}, nil)

	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateUser")
}

func (suite *UserServiceTestSuite) TestUpdateProfile_ReplacesAvatar() {
	userID := uuid.NewString()
	oldAvatar := &domain.Avatar{URL: "https://cdn.example.com/old.png", StorageKey: "purposelog/avatars/old.png"}
	suite.mockUserRepo.On("FindUserByID", suite.ctx, userID).
		Return(&domain.User{UserID: userID, Username: "testuser", Avatar: oldAvatar}, nil).Once()

	newUpload := &dto.AvatarUpload{Reader: strings.NewReader("new-bytes"), Filename: "new.jpg", ContentType: "image/jpeg", Size: 9}
	suite.mockStorage.On("Upload", suite.ctx, mock.AnythingOfType("string"), newUpload.Reader, "image/jpeg").
		Return("https://cdn.example.com/new.jpg", nil).Once()
	suite.mockStorage.On("Delete", suite.ctx, "purposelog/avatars/old.png").
		Return(nil).Once()
	suite.mockUserRepo.On("UpdateUser", suite.ctx, mock.AnythingOfType("domain.User")).
		Return(nil).Once()

	user, err := suite.service.UpdateProfile(suite.ctx, userID, dto.UpdateProfileRequest{}, newUpload)

	suite.NoError(err)
	suite.Equal("https://cdn.example.com/new.jpg", user.Avatar.URL)
	suite.mockStorage.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestUpdateProfile_OldAvatarDeleteFailureIsIgnored() {
	userID := uuid.NewString()
	oldAvatar := &domain.Avatar{URL: "https://cdn.example.com/old.png", StorageKey: "purposelog/avatars/old.png"}
	suite.mockUserRepo.On("FindUserByID", suite.ctx, userID).
		Return(&domain.User{UserID: userID, Username: "testuser", Avatar: oldAvatar}, nil).Once()

	newUpload := &dto.AvatarUpload{Reader: strings.NewReader("new-bytes"), Filename: "new.jpg", ContentType: "image/jpeg", Size: 9}
	suite.mockStorage.On("Upload", suite.ctx, mock.AnythingOfType("string"), newUpload.Reader, "image/jpeg").
		Return("https://cdn.example.com/new.jpg", nil).Once()
	suite.mockStorage.On("Delete", suite.ctx, "purposelog/avatars/old.png").
		Return(errors.New("object storage unavailable")).Once()
	suite.mockUserRepo.On("UpdateUser", suite.ctx, mock.AnythingOfType("domain.User")).
		Return(nil).Once()

	user, err := suite.service.UpdateProfile(suite.ctx, userID, dto.UpdateProfileRequest{}, newUpload)

	suite.NoError(err)
	suite.Equal("https://cdn.example.com/new.jpg", user.Avatar.URL)
}

func (suite *UserServiceTestSuite) TestDeleteUser_RemovesTasksAndAvatar() {
	userID := uuid.NewString()
	avatar := &domain.Avatar{URL: "https://cdn.example.com/a.png", StorageKey: "purposelog/avatars/a.png"}
	suite.mockUserRepo.On("FindUserByID", suite.ctx, userID).
		Return(&domain.User{UserID: userID, Avatar: avatar}, nil).Once()
	suite.mockStorage.On("Delete", suite.ctx, "purposelog/avatars/a.png").Return(nil).Once()
	suite.mockTaskRepo.On("DeleteTasksByOwner", suite.ctx, userID).Return(nil).Once()
	suite.mockUserRepo.On("DeleteUser", suite.ctx, userID).Return(nil).Once()

	suite.NoError(suite.service.DeleteUser(suite.ctx, userID))
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockTaskRepo.AssertExpectations(suite.T())
	suite.mockStorage.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestDeleteUser_AvatarDeleteFailureIsIgnored() {
	userID := uuid.NewString()
	avatar := &domain.Avatar{URL: "https://cdn.example.com/a.png", StorageKey: "purposelog/avatars/a.png"}
	suite.mockUserRepo.On("FindUserByID", suite.ctx, userID).
		Return(&domain.User{UserID: userID, Avatar: avatar}, nil).Once()
	suite.mockStorage.On("Delete", suite.ctx, "purposelog/avatars/a.png").
		Return(errors.New("object storage unavailable")).Once()
	suite.mockTaskRepo.On("DeleteTasksByOwner", suite.ctx, userID).Return(nil).Once()
	suite.mockUserRepo.On("DeleteUser", suite.ctx, userID).Return(nil).Once()

	suite.NoError(suite.service.DeleteUser(suite.ctx, userID))
}

func TestUserService(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
