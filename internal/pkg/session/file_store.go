// internal/pkg/session/file_store.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore keeps tokens in a small JSON document on disk, one entry per key.
type FileStore struct {
	path string
	key  string
	mu   sync.Mutex
}

// savedEntry is the JSON structure written to disk for each key.
type savedEntry struct {
	Value   string    `json:"value"`
	SavedAt time.Time `json:"saved_at"`
}

func NewFileStore(path, key string) *FileStore {
	if key == "" {
		key = DefaultTokenKey
	}
	return &FileStore{path: path, key: key}
}

func (s *FileStore) Load(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return "", err
	}
	return entries[s.key].Value, nil
}

func (s *FileStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	entries[s.key] = savedEntry{Value: token, SavedAt: time.Now()}
	return s.write(entries)
}

func (s *FileStore) Delete(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := entries[s.key]; !ok {
		return nil
	}
	delete(entries, s.key)

	if len(entries) == 0 {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove session file: %w", err)
		}
		return nil
	}
	return s.write(entries)
}

func (s *FileStore) read() (map[string]savedEntry, error) {
	entries := make(map[string]savedEntry)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	if len(data) == 0 {
		return entries, nil
	}

	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode session file: %w", err)
	}
	return entries, nil
}

func (s *FileStore) write(entries map[string]savedEntry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session file: %w", err)
	}

	// Write then rename so a crash never leaves a half-written file behind.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}
