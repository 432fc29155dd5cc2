package memory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/puzpuzpuz/xsync/v4"

	"stakeScope/internal/model"
	"stakeScope/internal/storage"
)

// Store keeps JSON-encoded entities in memory. Every Get decodes a fresh copy.
type Store struct {
	data *xsync.Map[string, []byte]
}

func NewStore() *Store {
	return &Store{data: xsync.NewMap[string, []byte]()}
}

func (s *Store) Get(_ context.Context, kind model.Kind, id string, out interface{}) (bool, error) {
	raw, ok := s.data.Load(string(storage.Key(kind, id)))
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", kind, err)
	}
	return true, nil
}

func (s *Store) Put(_ context.Context, kind model.Kind, id string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}
	s.data.Store(string(storage.Key(kind, id)), raw)
	return nil
}

// Len returns the number of stored entities of every kind.
func (s *Store) Len() int {
	return s.data.Size()
}

func (s *Store) Close() {}
