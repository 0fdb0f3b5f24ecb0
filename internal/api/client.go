// Package api is the gateway client for the shop-registration REST API. It
// attaches bearer tokens, performs exactly one silent refresh-and-retry on a
// 401, and maps remote error bodies into the client error taxonomy. All
// persistence and business rules live behind this boundary.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kolamarket/shopdesk/internal/auth"
	"github.com/kolamarket/shopdesk/pkg/config"
	pkgerrors "github.com/kolamarket/shopdesk/pkg/errors"
	"github.com/kolamarket/shopdesk/pkg/logger"
	"github.com/kolamarket/shopdesk/pkg/types"
)

const (
	errorBodyReadLimit int64 = 64 << 10

	// Access tokens inside this window are refreshed before the request goes
	// out, instead of waiting for the server's 401.
	refreshAheadWindow = 30 * time.Second
)

var (
	errStoreRequired  = errors.New("token store is required")
	errLoggerRequired = errors.New("api logger is required")
)

// Client talks to the remote REST API on behalf of the current session.
type Client struct {
	httpClient *http.Client
	baseURL    string
	store      auth.TokenStore
	logg       *logger.Logger

	refreshMu sync.Mutex

	hookMu        sync.Mutex
	onAuthFailure func()
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds the API client against the configured base URL.
func NewClient(cfg config.APIConfig, store auth.TokenStore, logg *logger.Logger, opts ...Option) (*Client, error) {
	if store == nil {
		return nil, errStoreRequired
	}
	if logg == nil {
		return nil, errLoggerRequired
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		store:      store,
		logg:       logg,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// SetAuthFailureHook registers the callback invoked when a token refresh is
// rejected and the session must be torn down.
func (c *Client) SetAuthFailureHook(fn func()) {
	c.hookMu.Lock()
	c.onAuthFailure = fn
	c.hookMu.Unlock()
}

func (c *Client) authFailed() {
	c.hookMu.Lock()
	fn := c.onAuthFailure
	c.hookMu.Unlock()
	if fn != nil {
		fn()
	}
}

// request is one outbound call. Body bytes are kept so the single 401 retry
// can replay them.
type request struct {
	method      string
	path        string
	body        []byte
	contentType string
	query       string
}

func jsonRequest(method, path string, payload any) (request, error) {
	req := request{method: method, path: path}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return request{}, fmt.Errorf("encoding request body: %w", err)
		}
		req.body = raw
		req.contentType = "application/json"
	}
	return req, nil
}

// do runs an authenticated request, refreshing the access token at most once.
func (c *Client) do(ctx context.Context, req request, out any) error {
	pair, err := c.store.Load(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading session tokens")
	}
	if pair == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "not logged in")
	}

	access := pair.Access
	if auth.AccessExpiresWithin(access, refreshAheadWindow) {
		refreshed, err := c.refresh(ctx, access, pair.Refresh)
		if err != nil {
			return err
		}
		access = refreshed
	}

	resp, err := c.send(ctx, req, access)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		drain(resp)
		refreshed, err := c.refresh(ctx, access, pair.Refresh)
		if err != nil {
			return err
		}
		resp, err = c.send(ctx, req, refreshed)
		if err != nil {
			return err
		}
	}
	return c.decode(resp, out)
}

// doUnauthenticated runs a request with no bearer token and no refresh logic.
func (c *Client) doUnauthenticated(ctx context.Context, req request, out any) error {
	resp, err := c.send(ctx, req, "")
	if err != nil {
		return err
	}
	return c.decode(resp, out)
}

func (c *Client) send(ctx context.Context, req request, accessToken string) (*http.Response, error) {
	url := c.baseURL + req.path
	if req.query != "" {
		url += "?" + req.query
	}

	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, url, body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building request")
	}
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if accessToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+accessToken)
	}

	lctx := c.logg.WithFields(ctx, map[string]any{
		"method": req.method,
		"path":   req.path,
	})
	c.logg.Debug(lctx, "api request")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logg.Error(lctx, "api request failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "network error")
	}
	return resp, nil
}

// refresh exchanges the refresh token for a new access token. Exactly one
// refresh runs at a time; failure clears all session state and fires the
// auth-failure hook. staleAccess is the token that just failed or is about to
// expire; a differing stored token means another caller already refreshed.
func (c *Client) refresh(ctx context.Context, staleAccess, refreshToken string) (string, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if pair, err := c.store.Load(ctx); err == nil && pair != nil {
		if pair.Access != staleAccess && !auth.AccessExpiresWithin(pair.Access, refreshAheadWindow) {
			return pair.Access, nil
		}
		if pair.Refresh != "" {
			refreshToken = pair.Refresh
		}
	}

	if refreshToken == "" {
		return "", c.refreshFailed(ctx, nil)
	}

	req, err := jsonRequest(http.MethodPost, "/token/refresh/", map[string]string{"refresh": refreshToken})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building refresh request")
	}
	var payload struct {
		Access string `json:"access"`
	}
	if err := c.doUnauthenticated(ctx, req, &payload); err != nil {
		return "", c.refreshFailed(ctx, err)
	}
	if payload.Access == "" {
		return "", c.refreshFailed(ctx, errors.New("refresh response missing access token"))
	}

	if err := c.store.Save(ctx, types.TokenPair{Access: payload.Access, Refresh: refreshToken}); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving refreshed tokens")
	}
	c.logg.Debug(ctx, "access token refreshed")
	return payload.Access, nil
}

func (c *Client) refreshFailed(ctx context.Context, cause error) error {
	c.logg.Warn(ctx, "token refresh rejected, clearing session")
	if err := c.store.Clear(ctx); err != nil {
		c.logg.Error(ctx, "clearing session tokens", err)
	}
	c.authFailed()
	return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, cause, "session expired, please log in again")
}

func (c *Client) decode(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.errorFromResponse(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decoding response")
	}
	return nil
}

// errorFromResponse maps a 4xx/5xx body into a coded error. Multi-field
// validation payloads are concatenated into one human-readable string; there
// is no field-level mapping.
func (c *Client) errorFromResponse(resp *http.Response) error {
	code := pkgerrors.CodeForStatus(resp.StatusCode)
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))

	message := serverMessage(raw)
	if message == "" {
		message = pkgerrors.MetadataFor(code).UserMessage
	}
	return pkgerrors.New(code, message).WithDetails(map[string]any{
		"status": resp.StatusCode,
	})
}

func serverMessage(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}

	if detail, ok := payload["detail"]; ok {
		var text string
		if err := json.Unmarshal(detail, &text); err == nil {
			return text
		}
	}

	fields := make([]string, 0, len(payload))
	for field := range payload {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var parts []string
	for _, field := range fields {
		for _, msg := range fieldMessages(payload[field]) {
			parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
		}
	}
	return strings.Join(parts, "; ")
}

func fieldMessages(raw json.RawMessage) []string {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return many
	}
	return nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, errorBodyReadLimit))
	resp.Body.Close()
}
