// Package auth persists the access/refresh token pair, the only client state
// that survives between runs. Tokens are cleared wholesale on logout or when a
// refresh is rejected.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kolamarket/shopdesk/pkg/types"
)

// TokenStore is the durable key-value home of the token pair.
type TokenStore interface {
	// Load returns the stored pair, or nil when none is stored.
	Load(ctx context.Context) (*types.TokenPair, error)
	Save(ctx context.Context, pair types.TokenPair) error
	Clear(ctx context.Context) error
}

// FileStore keeps the token pair in a 0600 JSON file.
type FileStore struct {
	path string
}

// NewFileStore builds a file-backed token store. An empty path resolves to
// $HOME/.shopdesk/tokens.json.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, ".shopdesk", "tokens.json")
	}
	return &FileStore{path: path}, nil
}

// Path returns the resolved token file location.
func (s *FileStore) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *FileStore) Load(_ context.Context) (*types.TokenPair, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading token file: %w", err)
	}
	var pair types.TokenPair
	if err := json.Unmarshal(raw, &pair); err != nil {
		return nil, fmt.Errorf("decoding token file: %w", err)
	}
	if pair.Access == "" && pair.Refresh == "" {
		return nil, nil
	}
	return &pair, nil
}

func (s *FileStore) Save(_ context.Context, pair types.TokenPair) error {
	raw, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("encoding tokens: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "tokens-*.json")
	if err != nil {
		return fmt.Errorf("creating token temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing tokens: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("restricting token file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing token temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing token file: %w", err)
	}
	return nil
}

func (s *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing token file: %w", err)
	}
	return nil
}
