package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FSStore is a filesystem-based implementation of KVStore. Each key maps to
// one file under the base path:
//
//	.huntboard/
//	  kv/
//	    huntboard/
//	      state/
//	        v1
//
// Key segments become directories, the last segment the file name. Writes go
// through a temp file and rename so a crash never leaves a torn value.
type FSStore struct {
	basePath string
	mu       sync.RWMutex
}

// NewFSStore creates a new filesystem-based key-value store.
func NewFSStore(basePath string) (*FSStore, error) {
	if err := os.MkdirAll(filepath.Join(basePath, "kv"), 0750); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &FSStore{basePath: basePath}, nil
}

// Get retrieves the value stored under key.
func (f *FSStore) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	path, err := f.keyPath(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) // #nosec G304 - path derived from validated key
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound{Key: key}
		}
		return nil, fmt.Errorf("read value: %w", err)
	}
	return data, nil
}

// Set stores value under key, replacing any previous value.
func (f *FSStore) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	path, err := f.keyPath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("create key directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0600); err != nil {
		return fmt.Errorf("write value: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // Best effort
		return fmt.Errorf("commit value: %w", err)
	}
	return nil
}

// Delete removes a key.
func (f *FSStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	path, err := f.keyPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound{Key: key}
		}
		return fmt.Errorf("delete value: %w", err)
	}

	// Try to remove now-empty parent directories up to the kv root.
	dir := filepath.Dir(path)
	root := filepath.Join(f.basePath, "kv")
	for dir != root {
		if os.Remove(dir) != nil {
			break
		}
		dir = filepath.Dir(dir)
	}
	return nil
}

// List returns all keys with the given prefix.
func (f *FSStore) List(ctx context.Context, prefix string) ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	root := filepath.Join(f.basePath, "kv")
	var keys []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(path, ".tmp") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk keys: %w", err)
	}
	return keys, nil
}

// Close releases resources.
func (f *FSStore) Close() error {
	return nil
}

// keyPath maps a key to its file path, rejecting traversal segments.
func (f *FSStore) keyPath(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("empty key")
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", fmt.Errorf("invalid key %q", key)
		}
	}
	return filepath.Join(f.basePath, "kv", filepath.FromSlash(key)), nil
}
