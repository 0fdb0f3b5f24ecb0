package types

import "time"

// AgentUser is the nested account record carried by an agent.
type AgentUser struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Agent is a field user authorized to create and manage shop records.
type Agent struct {
	AgentID     string    `json:"agent_id"`
	User        AgentUser `json:"user"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Address     string    `json:"address,omitempty"`
	State       string    `json:"state,omitempty"`
	IsActive    bool      `json:"is_active"`
	DateCreated time.Time `json:"date_created"`
}

// DisplayName renders the agent's full name for list views.
func (a Agent) DisplayName() string {
	switch {
	case a.User.FirstName == "":
		return a.User.LastName
	case a.User.LastName == "":
		return a.User.FirstName
	default:
		return a.User.FirstName + " " + a.User.LastName
	}
}

// CreateAgentRequest is the admin payload for onboarding a new agent.
type CreateAgentRequest struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number,omitempty" validate:"omitempty,e164"`
	Address     string `json:"address,omitempty"`
	State       string `json:"state,omitempty"`
}

// UpdateAgentRequest carries a partial agent edit. Nil fields are omitted.
type UpdateAgentRequest struct {
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,e164"`
	Address     *string `json:"address,omitempty"`
	State       *string `json:"state,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}
