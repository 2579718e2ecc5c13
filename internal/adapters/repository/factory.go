package repository

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

// Options selects and locates a backend.
type Options struct {
	Backend    string
	SQLitePath string
	BadgerPath string
}

// Open returns the configured Store.
func Open(ctx context.Context, o Options, opts ...Option) (Store, error) {
	switch o.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendSQLite:
		return OpenSQLite(ctx, o.SQLitePath, opts...)
	case BackendBadger:
		return OpenBadger(o.BadgerPath, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, o.Backend)
	}
}
