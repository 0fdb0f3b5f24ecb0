package api

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/kolamarket/shopdesk/pkg/errors"
	"github.com/kolamarket/shopdesk/pkg/types"
)

var bodyValidate = validator.New(validator.WithRequiredStructEnabled())

// Login exchanges credentials for a token pair and persists it. It does not
// carry a bearer token and is never retried through the refresh path.
func (c *Client) Login(ctx context.Context, creds types.LoginRequest) (*types.TokenPair, error) {
	if err := bodyValidate.Struct(creds); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "email and password are required")
	}

	req, err := jsonRequest(http.MethodPost, "/auth/login/", creds)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building login request")
	}
	var pair types.TokenPair
	if err := c.doUnauthenticated(ctx, req, &pair); err != nil {
		return nil, err
	}
	if pair.Access == "" || pair.Refresh == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "login response missing tokens")
	}
	if err := c.store.Save(ctx, pair); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persisting session tokens")
	}
	c.logg.Info(ctx, "logged in")
	return &pair, nil
}

// ClearSession wipes the persisted token pair.
func (c *Client) ClearSession(ctx context.Context) error {
	return c.store.Clear(ctx)
}

// HasSession reports whether a token pair is persisted.
func (c *Client) HasSession(ctx context.Context) (bool, error) {
	pair, err := c.store.Load(ctx)
	if err != nil {
		return false, err
	}
	return pair != nil, nil
}
