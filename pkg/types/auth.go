package types

// TokenPair is the access/refresh token pair issued by the login endpoint.
// It is the only client state persisted between runs.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// LoginRequest is the credential payload for /auth/login/.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Profile is the current user's account record from /accounts/me/.
type Profile struct {
	AgentID     string `json:"agent_id,omitempty"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Address     string `json:"address,omitempty"`
	State       string `json:"state,omitempty"`
	IsAdmin     bool   `json:"is_admin"`
}

// UpdateProfileRequest carries a partial self-service profile edit.
type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,e164"`
	Address     *string `json:"address,omitempty"`
	State       *string `json:"state,omitempty"`
}
