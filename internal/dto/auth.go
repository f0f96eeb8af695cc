package dto

// RegisterRequest represents doctor registration request
type RegisterRequest struct {
	RegNo     string `json:"reg_no" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	RankName  string `json:"rank_name"`
	OrgName   string `json:"org_name"`
	OrgID     int32  `json:"org_id"`
	Position  string `json:"position"`
	Gender    string `json:"gender"`
	Password  string `json:"password" binding:"required"`
}

// ValidatePassword checks minimal password requirements
func (r *RegisterRequest) ValidatePassword() (bool, string) {
	if len(r.Password) < 8 {
		return false, "Password must be at least 8 characters"
	}
	if len(r.Password) > 128 {
		return false, "Password must not exceed 128 characters"
	}
	return true, ""
}

// LoginRequest represents login request
type LoginRequest struct {
	RegNo    string `json:"reg_no" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// DoctorResponse represents the public doctor fields returned by auth flows
type DoctorResponse struct {
	ID        string `json:"id"`
	RegNo     string `json:"reg_no"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// TokensResponse represents the issued token envelope
type TokensResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	JTI     string `json:"jti"`
}

// AuthResponse is the register/login response body
type AuthResponse struct {
	Doctor DoctorResponse `json:"doctor"`
	Tokens TokensResponse `json:"tokens"`
}

// RefreshResponse is the refresh response body; the rotated refresh token
// itself travels only in the Set-Cookie header.
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}
