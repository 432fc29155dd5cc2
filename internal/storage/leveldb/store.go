package leveldb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"stakeScope/internal/model"
	"stakeScope/internal/storage"
)

// Store persists entities in an embedded LevelDB under "kind/id" keys.
type Store struct {
	db *leveldb.DB
}

// Open creates or opens a LevelDB database at path.
func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{})
	if err != nil {
		return nil, fmt.Errorf("open leveldb: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(_ context.Context, kind model.Kind, id string, out interface{}) (bool, error) {
	raw, err := s.db.Get(storage.Key(kind, id), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return false, nil
		}
		return false, err
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
	return s.db.Put(storage.Key(kind, id), raw, nil)
}

// LoadState returns the last processed block recorded under name.
func (s *Store) LoadState(_ context.Context, name string) (uint64, bool, error) {
	var block uint64
	raw, err := s.db.Get(storage.Key("state", name), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	if err := json.Unmarshal(raw, &block); err != nil {
		return 0, false, fmt.Errorf("decode state: %w", err)
	}
	return block, true, nil
}

// SaveState records the last processed block under name.
func (s *Store) SaveState(_ context.Context, name string, block uint64) error {
	raw, err := json.Marshal(block)
	if err != nil {
		return err
	}
	return s.db.Put(storage.Key("state", name), raw, nil)
}

func (s *Store) Close() {
	if s.db != nil {
		s.db.Close()
	}
}
