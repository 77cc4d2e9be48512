// Package store provides the client-local persisted key-value state:
// credential token, authenticated user record and the chat title cache.
// It is injected into everything that needs local state so tests can
// substitute an in-memory double.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Well-known keys. The legacy prompt-history blob is keyed per user id
// and only ever removed; server-backed history superseded it.
const (
	KeyToken      = "token"
	KeyUser       = "user"
	KeyChatTitles = "chat_titles"

	legacyHistoryPrefix = "promptHistory_"
)

// Store is a key-value store scoped to the client installation.
// Get decodes the stored value into v and reports whether the key existed.
type Store interface {
	Get(key string, v any) (bool, error)
	Set(key string, v any) error
	Delete(key string) error
}

// ParseError reports a stored value that failed schema-checked decoding.
type ParseError struct {
	Key string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("stored value %q is invalid: %v", e.Key, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FileStore persists the mapping as a single JSON file. Every mutation
// reads the full mapping, changes one key and writes the file back.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultStatePath returns the default state file path (~/.gyaanseek/state.json)
func DefaultStatePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(homeDir) == "" {
		return filepath.Join(".gyaanseek", "state.json")
	}
	return filepath.Join(homeDir, ".gyaanseek", "state.json")
}

func (f *FileStore) Get(key string, v any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return false, err
	}
	raw, ok := values[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, &ParseError{Key: key, Err: err}
	}
	return true, nil
}

func (f *FileStore) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %q: %w", key, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return err
	}
	values[key] = raw
	return f.write(values)
}

func (f *FileStore) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return f.write(values)
}

func (f *FileStore) read() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	values := map[string]json.RawMessage{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, &ParseError{Key: f.path, Err: err}
	}
	return values, nil
}

func (f *FileStore) write(values map[string]json.RawMessage) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	mu     sync.Mutex
	values map[string]json.RawMessage
}

func NewMemStore() *MemStore {
	return &MemStore{values: map[string]json.RawMessage{}}
}

func (m *MemStore) Get(key string, v any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.values[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, &ParseError{Key: key, Err: err}
	}
	return true, nil
}

func (m *MemStore) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = raw
	return nil
}

func (m *MemStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
