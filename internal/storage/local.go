package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/inkproof/galley/internal/projectconfig"
)

// Local stores objects as files under a root directory. Keys map to relative
// paths, so "results/draft.json" becomes <root>/results/draft.json.
type Local struct {
	root string
}

// NewLocal returns a Local store rooted at dir. An empty dir uses the
// project default.
func NewLocal(dir string) *Local {
	if dir == "" {
		dir = projectconfig.DefaultStorageRoot
	}
	return &Local{root: dir}
}

// Root returns the backing directory.
func (l *Local) Root() string { return l.root }

func (l *Local) Store(_ context.Context, key string, data []byte) error {
	path, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating storage directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("storing %q: %w", key, err)
	}
	return nil
}

func (l *Local) Retrieve(_ context.Context, key string) ([]byte, error) {
	path, err := l.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("retrieving %q: %w", key, err)
	}
	return data, nil
}

func (l *Local) Exists(_ context.Context, key string) (bool, error) {
	path, err := l.path(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("checking %q: %w", key, err)
	}
	return true, nil
}

func (l *Local) Delete(_ context.Context, key string) error {
	path, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	} else if err != nil {
		return fmt.Errorf("deleting %q: %w", key, err)
	}
	return nil
}

// path maps a slash-separated key onto the root directory, rejecting keys
// that would escape it.
func (l *Local) path(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("empty storage key")
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("storage key %q escapes the storage root", key)
	}
	return filepath.Join(l.root, clean), nil
}
