package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role represents user roles in the system
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleUniversal Role = "UNIVERSAL"
)

// User represents an account in the system. The role is not stored on the
// account itself; it lives in a separate profile row and defaults to
// UNIVERSAL when no profile exists.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	IsActive     bool               `bson:"is_active" json:"is_active"`
	LastLogin    *time.Time         `bson:"last_login,omitempty" json:"last_login,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// Profile maps an account to its role.
type Profile struct {
	ID   primitive.ObjectID `bson:"_id" json:"id"`
	Role Role               `bson:"role" json:"role"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents an account registration request
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionUser is the identity/role pair handed to clients after login.
type SessionUser struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refresh_token"`
	User         SessionUser `json:"user"`
}

// Claims represents JWT claims
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Exp    int64  `json:"exp"`
}

// IsValidRole checks if a role is valid
func IsValidRole(role Role) bool {
	switch role {
	case RoleAdmin, RoleUniversal:
		return true
	default:
		return false
	}
}

// HasPermission checks if a role grants a specific action. Universal users
// can work records but cannot delete them or manage the lookup lists.
func (r Role) HasPermission(action string) bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleUniversal:
		switch action {
		case "view_records", "create_record", "update_record",
			"view_stats", "view_alerts", "view_lookups":
			return true
		default:
			return false
		}
	default:
		return false
	}
}
