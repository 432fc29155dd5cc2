package storage

import (
	"context"
	"errors"
	"fmt"

	"stakeScope/internal/model"
)

// ErrNotFound is returned by backends that signal absence with an error.
var ErrNotFound = errors.New("entity not found")

// LogSink defines a sink for raw log records.
type LogSink interface {
	PutLogBatch(logs []model.LogRecord) error
}

// EntityStore is a key-value upsert store for ledger entities.
// Get decodes into out and reports whether the entity exists.
type EntityStore interface {
	Get(ctx context.Context, kind model.Kind, id string, out interface{}) (bool, error)
	Put(ctx context.Context, kind model.Kind, id string, value interface{}) error
	Close()
}

// Load fetches one entity of type T.
func Load[T any](ctx context.Context, store EntityStore, kind model.Kind, id string) (*T, bool, error) {
	var out T
	ok, err := store.Get(ctx, kind, id, &out)
	if err != nil {
		return nil, false, fmt.Errorf("load %s %s: %w", kind, id, err)
	}
	if !ok {
		return nil, false, nil
	}
	return &out, true, nil
}

// Key joins kind and id into the flat key used by byte-oriented backends.
func Key(kind model.Kind, id string) []byte {
	return []byte(string(kind) + "/" + id)
}
