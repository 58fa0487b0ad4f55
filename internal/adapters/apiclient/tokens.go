package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"hotel_reservation/internal/domain"
)

// Saved is what a TokenStore keeps between calls: the bearer token and the user it belongs to.
type Saved struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type TokenStore interface {
	Load() (Saved, error)
	Save(Saved) error
	Clear() error
}

type MemoryTokens struct {
	mu sync.Mutex
	s  Saved
}

func (m *MemoryTokens) Load() (Saved, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s, nil
}

func (m *MemoryTokens) Save(s Saved) error {
	m.mu.Lock()
	m.s = s
	m.mu.Unlock()
	return nil
}

func (m *MemoryTokens) Clear() error { return m.Save(Saved{}) }

// FileTokens persists the session as JSON so CLI invocations share a login.
type FileTokens struct{ Path string }

func (f FileTokens) Load() (Saved, error) {
	b, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return Saved{}, nil
	}
	if err != nil {
		return Saved{}, err
	}
	var s Saved
	if err := json.Unmarshal(b, &s); err != nil {
		return Saved{}, fmt.Errorf("session file %s: %w", f.Path, err)
	}
	return s, nil
}

func (f FileTokens) Save(s Saved) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.Path, b, 0o600)
}

func (f FileTokens) Clear() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
