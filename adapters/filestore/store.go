// Package filestore persists the faculty document collection as one JSON file.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"facultysite/domain/core"
	"facultysite/domain/faculty"
)

// Store writes the whole collection to path with write-temp-then-rename, so
// a reader opening the file sees either the old or the new collection.
type Store struct {
	path string
	mu   sync.Mutex
}

// New creates a store backed by the JSON file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the file the store writes.
func (s *Store) Path() string {
	return s.path
}

// Replace atomically overwrites the stored collection.
func (s *Store) Replace(ctx context.Context, docs []faculty.Document) error {
	if err := ctx.Err(); err != nil {
		return core.NewStoreError("replace", err)
	}
	if docs == nil {
		docs = []faculty.Document{}
	}

	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return core.NewStoreError("encode", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return core.NewStoreError("mkdir", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return core.NewStoreError("create temp", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return core.NewStoreError("write", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return core.NewStoreError("sync", err)
	}
	if err := tmp.Close(); err != nil {
		return core.NewStoreError("close", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return core.NewStoreError("chmod", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return core.NewStoreError("rename", err)
	}
	committed = true
	return nil
}

// Load reads the stored collection. A missing file is an empty collection.
func (s *Store) Load(ctx context.Context) ([]faculty.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.NewStoreError("load", err)
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []faculty.Document{}, nil
	}
	if err != nil {
		return nil, core.NewStoreError("read", err)
	}

	var docs []faculty.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, core.NewStoreError("decode", fmt.Errorf("%s: %w", s.path, err))
	}
	if docs == nil {
		docs = []faculty.Document{}
	}
	return docs, nil
}
