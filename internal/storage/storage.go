package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"linkstash/internal/model"
)

// Storage defines the interface for persisting the snapshot. An empty
// result from Load means "new user", never an error.
type Storage interface {
	Load() (*model.Store, error)
	Save(store *model.Store) error
}

// StoreError wraps a durable-store failure with the failing operation.
// The engine is local-first: a StoreError is reported, not reconciled.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// JSONStorage implements Storage using a JSON file: three independent
// named collections serialized verbatim, no schema version tag.
type JSONStorage struct {
	path string
}

// NewJSONStorage creates a new JSONStorage with the given file path.
func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path}
}

// Path returns the storage file path.
func (s *JSONStorage) Path() string {
	return s.path
}

// Load reads the store from the JSON file.
// Returns an empty store if the file doesn't exist.
func (s *JSONStorage) Load() (*model.Store, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewStore(), nil
		}
		return nil, &StoreError{Op: "read", Err: err}
	}

	var store model.Store
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, &StoreError{Op: "decode", Err: err}
	}

	// Ensure slices are not nil
	if store.Folders == nil {
		store.Folders = []model.Folder{}
	}
	if store.Tags == nil {
		store.Tags = []model.Tag{}
	}
	if store.Bookmarks == nil {
		store.Bookmarks = []model.Bookmark{}
	}

	return &store, nil
}

// Save writes the store to the JSON file.
// Creates the directory if it doesn't exist.
func (s *JSONStorage) Save(store *model.Store) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &StoreError{Op: "mkdir", Err: err}
	}

	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return &StoreError{Op: "encode", Err: err}
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return &StoreError{Op: "write", Err: err}
	}
	return nil
}

// DefaultConfigPath returns the default snapshot path:
// ~/.config/linkstash/bookmarks.json
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "linkstash", "bookmarks.json"), nil
}

// OpenStorage opens the appropriate storage backend.
// Prefers SQLite if the database file exists, otherwise falls back to JSON.
func OpenStorage() (Storage, error) {
	sqlitePath, err := DefaultSQLitePath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(sqlitePath); err == nil {
		return NewSQLiteStorage(sqlitePath)
	}

	jsonPath, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return NewJSONStorage(jsonPath), nil
}
