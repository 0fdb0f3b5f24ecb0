package api

import (
	"context"
	"fmt"
	"net/http"

	pkgerrors "github.com/kolamarket/shopdesk/pkg/errors"
	"github.com/kolamarket/shopdesk/pkg/types"
)

// Me fetches the current user's profile.
func (c *Client) Me(ctx context.Context) (*types.Profile, error) {
	var profile types.Profile
	if err := c.do(ctx, request{method: http.MethodGet, path: "/accounts/me/"}, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile patches the current user's profile. The server response is
// authoritative; callers replace their local copy with it.
func (c *Client) UpdateProfile(ctx context.Context, update types.UpdateProfileRequest) (*types.Profile, error) {
	req, err := jsonRequest(http.MethodPatch, "/accounts/me/", update)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building profile request")
	}
	var profile types.Profile
	if err := c.do(ctx, req, &profile); err != nil {
		return nil, err
	}
	c.logg.Info(ctx, "profile updated")
	return &profile, nil
}

// ListAgents fetches every registered agent.
func (c *Client) ListAgents(ctx context.Context) ([]types.Agent, error) {
	var agents []types.Agent
	if err := c.do(ctx, request{method: http.MethodGet, path: "/accounts/agents/"}, &agents); err != nil {
		return nil, err
	}
	return agents, nil
}

// CreateAgent onboards a new agent (admin only).
func (c *Client) CreateAgent(ctx context.Context, create types.CreateAgentRequest) (*types.Agent, error) {
	if err := bodyValidate.Struct(create); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "agent name and a valid email are required")
	}
	req, err := jsonRequest(http.MethodPost, "/accounts/agents/", create)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building agent request")
	}
	var agent types.Agent
	if err := c.do(ctx, req, &agent); err != nil {
		return nil, err
	}
	c.logg.Info(c.logg.WithAgentID(ctx, agent.AgentID), "agent created")
	return &agent, nil
}

// UpdateAgent patches an agent record (admin only).
func (c *Client) UpdateAgent(ctx context.Context, agentID string, update types.UpdateAgentRequest) (*types.Agent, error) {
	if agentID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "agent id is required")
	}
	if err := bodyValidate.Struct(update); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid agent update")
	}
	req, err := jsonRequest(http.MethodPatch, fmt.Sprintf("/accounts/agents/%s/", agentID), update)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building agent request")
	}
	var agent types.Agent
	if err := c.do(ctx, req, &agent); err != nil {
		return nil, err
	}
	c.logg.Info(c.logg.WithAgentID(ctx, agentID), "agent updated")
	return &agent, nil
}
