package domain

// Role distinguishes regular users from administrators.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Avatar holds the public URL of a user's avatar together with the object
// storage key needed to delete the remote asset.
type Avatar struct {
	URL        string `json:"url"`
	StorageKey string `json:"-"`
}

// User represents a registered user in the domain.
//
// RefreshTokenHash stores the SHA-256 of the single currently valid refresh
// token. A presented refresh token whose hash does not match this value is
// rejected even if its signature is valid; the field is overwritten on every
// login/refresh and cleared on logout.
type User struct {
	UserID           string  `json:"userID"`
	Username         string  `json:"username"`
	Email            string  `json:"email"`
	FullName         string  `json:"fullName,omitempty"`
	PasswordHash     string  `json:"-"`
	Avatar           *Avatar `json:"avatar,omitempty"`
	Role             Role    `json:"role"`
	RefreshTokenHash string  `json:"-"`
	Timestamps
}
