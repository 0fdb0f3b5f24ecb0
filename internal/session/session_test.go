package session

import (
	"context"
	"errors"
	"io"
	"testing"

	pkgerrors "github.com/kolamarket/shopdesk/pkg/errors"
	"github.com/kolamarket/shopdesk/pkg/logger"
	"github.com/kolamarket/shopdesk/pkg/types"
)

type fakeAPI struct {
	hasSession bool
	profile    types.Profile

	loginErr   error
	meErr      error
	updateErr  error
	clearErr   error
	loginCalls int
	clearCalls int

	hook func()
}

func (f *fakeAPI) Login(_ context.Context, creds types.LoginRequest) (*types.TokenPair, error) {
	f.loginCalls++
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.hasSession = true
	return &types.TokenPair{Access: "access", Refresh: "refresh"}, nil
}

func (f *fakeAPI) Me(context.Context) (*types.Profile, error) {
	if f.meErr != nil {
		return nil, f.meErr
	}
	copied := f.profile
	return &copied, nil
}

func (f *fakeAPI) UpdateProfile(_ context.Context, update types.UpdateProfileRequest) (*types.Profile, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if update.FirstName != nil {
		f.profile.FirstName = *update.FirstName
	}
	copied := f.profile
	return &copied, nil
}

func (f *fakeAPI) ClearSession(context.Context) error {
	f.clearCalls++
	if f.clearErr != nil {
		return f.clearErr
	}
	f.hasSession = false
	return nil
}

func (f *fakeAPI) HasSession(context.Context) (bool, error) {
	return f.hasSession, nil
}

func (f *fakeAPI) SetAuthFailureHook(fn func()) {
	f.hook = fn
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestSession(t *testing.T, api *fakeAPI) *Session {
	t.Helper()
	s, err := New(Params{API: api, Logger: testLogger()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNewStartsInInit(t *testing.T) {
	s := newTestSession(t, &fakeAPI{})
	if s.State() != StateInit {
		t.Fatalf("State = %s, want init", s.State())
	}
	if _, err := s.CurrentUser(); err == nil {
		t.Fatal("CurrentUser must fail before authentication")
	}
}

func TestHydrateWithoutPersistedTokens(t *testing.T) {
	s := newTestSession(t, &fakeAPI{hasSession: false})
	ok, err := s.Hydrate(context.Background())
	if err != nil {
		t.Fatalf("Hydrate: %v", err)
	}
	if ok {
		t.Fatal("Hydrate reported a session with nothing persisted")
	}
	if s.State() != StateInit {
		t.Fatalf("State = %s, want init", s.State())
	}
}

func TestHydrateRestoresSession(t *testing.T) {
	api := &fakeAPI{hasSession: true, profile: types.Profile{FirstName: "Ade", Email: "ade@example.com"}}
	s := newTestSession(t, api)

	ok, err := s.Hydrate(context.Background())
	if err != nil {
		t.Fatalf("Hydrate: %v", err)
	}
	if !ok || s.State() != StateAuthenticated {
		t.Fatalf("ok=%t state=%s", ok, s.State())
	}
	profile, err := s.CurrentUser()
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if profile.Email != "ade@example.com" {
		t.Fatalf("profile = %+v", profile)
	}
}

func TestLoginLoadsProfile(t *testing.T) {
	api := &fakeAPI{profile: types.Profile{FirstName: "Ade"}}
	s := newTestSession(t, api)

	if err := s.Login(context.Background(), "ade@example.com", "hunter22"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if s.State() != StateAuthenticated {
		t.Fatalf("State = %s", s.State())
	}
	if api.loginCalls != 1 {
		t.Fatalf("loginCalls = %d", api.loginCalls)
	}
}

func TestLoginFailureLeavesSessionUntouched(t *testing.T) {
	api := &fakeAPI{loginErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "bad credentials")}
	s := newTestSession(t, api)

	if err := s.Login(context.Background(), "ade@example.com", "wrong"); err == nil {
		t.Fatal("expected error")
	}
	if s.State() != StateInit {
		t.Fatalf("State = %s, want init", s.State())
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	api := &fakeAPI{hasSession: true}
	s := newTestSession(t, api)
	if _, err := s.Hydrate(context.Background()); err != nil {
		t.Fatalf("Hydrate: %v", err)
	}

	if err := s.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if s.State() != StateCleared {
		t.Fatalf("State = %s, want cleared", s.State())
	}
	if api.clearCalls != 1 {
		t.Fatalf("clearCalls = %d", api.clearCalls)
	}
	if _, err := s.CurrentUser(); err == nil {
		t.Fatal("CurrentUser must fail after logout")
	}
}

func TestAuthFailureHookClearsSession(t *testing.T) {
	api := &fakeAPI{hasSession: true}
	s := newTestSession(t, api)
	if _, err := s.Hydrate(context.Background()); err != nil {
		t.Fatalf("Hydrate: %v", err)
	}
	if api.hook == nil {
		t.Fatal("session did not register the auth-failure hook")
	}

	// A rejected token refresh anywhere in the client fires the hook.
	api.hook()
	if s.State() != StateCleared {
		t.Fatalf("State = %s, want cleared", s.State())
	}
}

func TestUpdateProfileAdoptsServerCopy(t *testing.T) {
	api := &fakeAPI{hasSession: true, profile: types.Profile{FirstName: "Ade"}}
	s := newTestSession(t, api)
	if _, err := s.Hydrate(context.Background()); err != nil {
		t.Fatalf("Hydrate: %v", err)
	}

	newName := "Adewale"
	updated, err := s.UpdateProfile(context.Background(), types.UpdateProfileRequest{FirstName: &newName})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.FirstName != "Adewale" {
		t.Fatalf("updated = %+v", updated)
	}
	current, err := s.CurrentUser()
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if current.FirstName != "Adewale" {
		t.Fatalf("local copy not replaced: %+v", current)
	}
}

func TestUpdateProfileFailureKeepsLocalCopy(t *testing.T) {
	api := &fakeAPI{hasSession: true, profile: types.Profile{FirstName: "Ade"}}
	s := newTestSession(t, api)
	if _, err := s.Hydrate(context.Background()); err != nil {
		t.Fatalf("Hydrate: %v", err)
	}

	api.updateErr = errors.New("server down")
	newName := "Adewale"
	if _, err := s.UpdateProfile(context.Background(), types.UpdateProfileRequest{FirstName: &newName}); err == nil {
		t.Fatal("expected error")
	}
	current, err := s.CurrentUser()
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if current.FirstName != "Ade" {
		t.Fatalf("local copy changed on failure: %+v", current)
	}
}

func TestCurrentUserReturnsACopy(t *testing.T) {
	api := &fakeAPI{hasSession: true, profile: types.Profile{FirstName: "Ade"}}
	s := newTestSession(t, api)
	if _, err := s.Hydrate(context.Background()); err != nil {
		t.Fatalf("Hydrate: %v", err)
	}

	first, _ := s.CurrentUser()
	first.FirstName = "mutated"
	second, _ := s.CurrentUser()
	if second.FirstName != "Ade" {
		t.Fatal("CurrentUser must hand out copies")
	}
}
