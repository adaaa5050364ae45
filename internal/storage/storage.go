// Package storage provides the artifact store used to persist evaluation
// results and retrieve manuscripts by key. Two backends exist: a local
// directory tree and an Azure Blob container.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// ErrNotFound is returned when a key has no stored object.
var ErrNotFound = errors.New("object not found")

// Backend identifies a storage backend implementation.
type Backend string

const (
	BackendLocal Backend = "local"
	BackendAzure Backend = "azure"
)

// Store is the narrow surface the rest of galley uses to persist and fetch
// artifacts. Keys use forward slashes regardless of backend.
type Store interface {
	Store(ctx context.Context, key string, data []byte) error
	Retrieve(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}

// Create builds a Store for the named backend from its loose option map, as
// loaded from the storage section of galley.yaml.
func Create(backend Backend, options map[string]any) (Store, error) {
	if options == nil {
		options = map[string]any{}
	}

	switch backend {
	case BackendLocal, "":
		var v *struct {
			Root string `mapstructure:"root"`
		}

		if err := mapstructure.Decode(options, &v); err != nil {
			return nil, err
		}

		return NewLocal(v.Root), nil
	case BackendAzure:
		var v *struct {
			Account   string `mapstructure:"account"`
			Container string `mapstructure:"container"`
		}

		if err := mapstructure.Decode(options, &v); err != nil {
			return nil, err
		}

		return NewAzure(v.Account, v.Container)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
