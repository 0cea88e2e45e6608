package dto

import (
	"io"
	"time"

	"github.com/purposelog/purposelog_backend/internal/core/domain"
)

// RegisterUserRequest carries the multipart form fields of a registration.
// The avatar file itself arrives separately as an AvatarUpload.
type RegisterUserRequest struct {
	FullName string `form:"fullName" binding:"required"`
	Username string `form:"username" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=6"`
}

// LoginRequest requires a password plus at least one of username/email;
// the one-of check happens in the service since binding cannot express it.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest carries the multipart form fields of a profile update.
// Empty fields are left unchanged.
type UpdateProfileRequest struct {
	FullName string `form:"fullName"`
	Username string `form:"username"`
	Email    string `form:"email" binding:"omitempty,email"`
}

// ChangePasswordRequest carries an authenticated password change.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// AvatarUpload carries an avatar file between the transport layer and the
// user service, which streams it to remote object storage.
type AvatarUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// UserResponse is the sanitized read shape of a user. It never carries the
// password hash or the refresh token.
type UserResponse struct {
	UserID    string    `json:"userID"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName,omitempty"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToUserResponse converts a domain.User to its sanitized response shape.
func ToUserResponse(user *domain.User) UserResponse {
	resp := UserResponse{
		UserID:    user.UserID,
		Username:  user.Username,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if user.Avatar != nil {
		resp.AvatarURL = user.Avatar.URL
	}
	return resp
}
