package state

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"

	defaultNamespace = "default"
)

// Store is the persistence contract used by the executor.
// Load returns an empty document when nothing has been saved yet.
// Save replaces the whole stored document.
type Store interface {
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc *Document) error
}

type StoreConfig struct {
	MemoryBackend string `envconfig:"MEMORY_BACKEND" split_words:"true" default:"file"`
	MemoryPath    string `envconfig:"MEMORY_PATH" split_words:"true" default:"memory.json"`
	SQLitePath    string `envconfig:"SQLITE_PATH" split_words:"true" default:"memory.db"`
	Namespace     string `envconfig:"NAMESPACE" split_words:"true" default:"default"`
}

type PostgresConfig struct {
	DSN     string `envconfig:"DSN" split_words:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// Closer is implemented by stores holding a connection.
type Closer interface {
	Close() error
}

// OpenStore builds the backend named in cfg.
func OpenStore(ctx context.Context, cfg StoreConfig, pg PostgresConfig) (Store, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.MemoryBackend))
	switch backend {
	case "", BackendFile:
		return NewFileStore(cfg.MemoryPath)
	case BackendSQLite:
		return NewSQLiteStore(ctx, cfg.SQLitePath, WithNamespace(cfg.Namespace))
	case BackendPostgres:
		return NewPostgresStore(ctx, pg, WithNamespace(cfg.Namespace))
	default:
		return nil, fmt.Errorf("unknown memory backend %q", cfg.MemoryBackend)
	}
}

// StoreOption customizes the database backed stores.
type StoreOption func(*storeOptions)

type storeOptions struct {
	namespace string
}

func WithNamespace(namespace string) StoreOption {
	return func(o *storeOptions) {
		trimmed := strings.TrimSpace(namespace)
		if trimmed != "" {
			o.namespace = trimmed
		}
	}
}

func applyStoreOptions(opts []StoreOption) storeOptions {
	o := storeOptions{namespace: defaultNamespace}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
