// Package session is the explicit identity holder injected into views. There
// is no ambient current-user singleton: the session is constructed once at
// startup, hydrated from persisted tokens, and passed to whoever needs it.
package session

import (
	"context"
	"fmt"
	"sync"

	pkgerrors "github.com/kolamarket/shopdesk/pkg/errors"
	"github.com/kolamarket/shopdesk/pkg/logger"
	"github.com/kolamarket/shopdesk/pkg/types"
)

// State is the session lifecycle position.
type State string

const (
	// StateInit means no hydration has succeeded yet.
	StateInit State = "init"
	// StateAuthenticated means a user is loaded and tokens are live.
	StateAuthenticated State = "authenticated"
	// StateCleared means the session ended: logout or an irrecoverable
	// refresh failure.
	StateCleared State = "cleared"
)

type sessionAPI interface {
	Login(ctx context.Context, creds types.LoginRequest) (*types.TokenPair, error)
	Me(ctx context.Context) (*types.Profile, error)
	UpdateProfile(ctx context.Context, update types.UpdateProfileRequest) (*types.Profile, error)
	ClearSession(ctx context.Context) error
	HasSession(ctx context.Context) (bool, error)
	SetAuthFailureHook(fn func())
}

// Session tracks the authenticated user across one program run.
type Session struct {
	api  sessionAPI
	logg *logger.Logger

	mu      sync.Mutex
	state   State
	profile *types.Profile
}

type Params struct {
	API    sessionAPI
	Logger *logger.Logger
}

// New wires a session and registers it for auth-failure teardown: when a token
// refresh is rejected anywhere in the client, the session clears itself.
func New(params Params) (*Session, error) {
	if params.API == nil {
		return nil, fmt.Errorf("api client required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	s := &Session{api: params.API, logg: params.Logger, state: StateInit}
	params.API.SetAuthFailureHook(s.markCleared)
	return s, nil
}

// Hydrate restores the session from persisted tokens. Returns false with no
// error when nothing is persisted; the caller should prompt for login.
func (s *Session) Hydrate(ctx context.Context) (bool, error) {
	has, err := s.api.HasSession(ctx)
	if err != nil {
		return false, err
	}
	if !has {
		return false, nil
	}
	profile, err := s.api.Me(ctx)
	if err != nil {
		return false, err
	}
	s.setAuthenticated(profile)
	s.logg.Info(ctx, "session restored")
	return true, nil
}

// Login authenticates with credentials and loads the user profile.
func (s *Session) Login(ctx context.Context, email, password string) error {
	if _, err := s.api.Login(ctx, types.LoginRequest{Email: email, Password: password}); err != nil {
		return err
	}
	profile, err := s.api.Me(ctx)
	if err != nil {
		return err
	}
	s.setAuthenticated(profile)
	return nil
}

// Logout wipes the persisted tokens and clears the session.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.api.ClearSession(ctx); err != nil {
		return err
	}
	s.markCleared()
	s.logg.Info(ctx, "logged out")
	return nil
}

// UpdateProfile patches the profile and adopts the server's returned copy.
// Local state is untouched on failure.
func (s *Session) UpdateProfile(ctx context.Context, update types.UpdateProfileRequest) (*types.Profile, error) {
	profile, err := s.api.UpdateProfile(ctx, update)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.profile = profile
	s.mu.Unlock()
	copied := *profile
	return &copied, nil
}

// State returns the lifecycle position.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentUser returns a copy of the authenticated profile, or an error when
// the session is not authenticated.
func (s *Session) CurrentUser() (*types.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAuthenticated || s.profile == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "not logged in")
	}
	copied := *s.profile
	return &copied, nil
}

func (s *Session) setAuthenticated(profile *types.Profile) {
	s.mu.Lock()
	s.state = StateAuthenticated
	s.profile = profile
	s.mu.Unlock()
}

func (s *Session) markCleared() {
	s.mu.Lock()
	s.state = StateCleared
	s.profile = nil
	s.mu.Unlock()
}
