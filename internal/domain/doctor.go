package domain

import (
	"time"
)

// Role represents a principal's role tag
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleUser   Role = "User"
	RoleDoctor Role = "Doctor"
)

// Allows reports whether a principal holding this role may act as required.
// Admin passes every role check.
func (r Role) Allows(required Role) bool {
	return r == required || r == RoleAdmin
}

// Doctor represents a registered doctor account
type Doctor struct {
	ID           string    `json:"id"`
	RegNo        string    `json:"reg_no"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	RankName     string    `json:"rank_name,omitempty"`
	OrgName      string    `json:"org_name,omitempty"`
	OrgID        int32     `json:"org_id"`
	Position     string    `json:"position,omitempty"`
	Gender       string    `json:"gender,omitempty"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"` // Never serialize password
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RefreshToken is the persistent record of one issued refresh token,
// keyed by the token's jti. Only a hash of the raw token is stored.
// Rows are never deleted; revocation flips the revoked flag.
type RefreshToken struct {
	ID        int64     `json:"id"`
	DoctorID  string    `json:"doctor_id"`
	JTI       string    `json:"jti"`
	TokenHash string    `json:"token_hash"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenPair represents a freshly issued access/refresh token pair
type TokenPair struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
	JTI          string `json:"jti"`
}

// Identity is the authenticated caller attached to a request after the
// access token has been verified.
type Identity struct {
	DoctorID string `json:"doctor_id"`
	Role     Role   `json:"role"`
}
