package domain

import (
	"context"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStudent, RoleFaculty:
		return true
	}
	return false
}

// IsPrivileged reports whether r may review event requests and act on any ticket or event.
func (r Role) IsPrivileged() bool {
	return r == RoleAdmin
}

// CanOrganize reports whether r may publish events directly.
func (r Role) CanOrganize() bool {
	return r == RoleAdmin || r == RoleFaculty
}

// User represents a registered user
// swagger:model User
type User struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	CredentialHash string    `json:"-"`
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewUser returns a new User. ID is assigned by the caller before Create.
func NewUser(name, email, credentialHash string, role Role, createdAt time.Time) *User {
	return &User{
		Name:           name,
		Email:          email,
		CredentialHash: credentialHash,
		Role:           role,
		CreatedAt:      createdAt,
	}
}

// Principal is the authenticated caller as carried by a token.
type Principal struct {
	UserID int64
	Role   Role
}

// PasswordHasher hashes and verifies credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID int64, email string, role Role, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated principal.
type TokenVerifier interface {
	Verify(token string) (Principal, error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	// Create stores u. u.ID must already be set. Returns ErrDuplicateEmail when the email is taken.
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	MaxID(ctx context.Context) (int64, error)
}

// IdentityProvider answers the two questions the booking core asks about actors.
type IdentityProvider interface {
	UserExists(ctx context.Context, userID int64) (bool, error)
	// UserRole returns ErrNotFound for an unknown user.
	UserRole(ctx context.Context, userID int64) (Role, error)
}

// AuthService defines sign-up and login.
type AuthService interface {
	SignUp(ctx context.Context, name, email, password string, role Role) (*User, error)
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
	// EnsureAdmin creates the admin account if the email is not registered yet.
	EnsureAdmin(ctx context.Context, name, email, password string) (*User, error)
}
