package domain

import "time"

// Role is the authorization role carried by a user and embedded in access tokens.
type Role string

const (
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleClient || r == RoleAdmin
}

// AuthProvider identifies how a user's credentials are verified.
type AuthProvider string

const (
	ProviderLocal     AuthProvider = "local"
	ProviderFederated AuthProvider = "federated"
)

// User represents an account in the system. PasswordHash is nil for federated
// accounts and is never serialized.
type User struct {
	ID              int64        `json:"id" db:"id"`
	Email           string       `json:"email" db:"email"`
	PasswordHash    *string      `json:"-" db:"password_hash"`
	FullName        string       `json:"full_name" db:"full_name"`
	AvatarURL       string       `json:"avatar_url" db:"avatar_url"`
	Role            Role         `json:"role" db:"role"`
	IsActive        bool         `json:"is_active" db:"is_active"`
	EmailVerified   bool         `json:"email_verified" db:"email_verified"`
	NewsletterOptIn bool         `json:"newsletter_opt_in" db:"newsletter_opt_in"`
	AuthProvider    AuthProvider `json:"auth_provider" db:"auth_provider"`
	GoogleID        *string      `json:"-" db:"google_id"`
	CreatedAt       time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at" db:"updated_at"`
}

// Identity is the sanitized authenticated-caller context attached to a request
// by the auth middleware. It carries no credential material.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
