package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/okian/jelajah/internal/domain/model"
	"github.com/okian/jelajah/pkg/logger"
)

// Key layout. The NUL separator keeps one user's prefix from matching another
// user whose id extends it.
const (
	profileKeyPrefix = "profile\x00"
	visitKeyPrefix   = "visit\x00"
	keySep           = "\x00"
)

// BadgerStore persists profiles and visits in BadgerDB.
type BadgerStore struct {
	db   *badger.DB
	log  logger.Logger
	owns bool
}

// NewBadgerStore wraps an open database. Close does not close db.
func NewBadgerStore(db *badger.DB, opts ...Option) *BadgerStore {
	s := newSettings(opts)
	return &BadgerStore{db: db, log: s.log}
}

// OpenBadger opens the database directory at path. An empty path opens an
// in-memory database.
func OpenBadger(path string, opts ...Option) (*BadgerStore, error) {
	bopts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		bopts = bopts.WithInMemory(true)
	}
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %q: %w", path, err)
	}
	store := NewBadgerStore(db, opts...)
	store.owns = true
	return store, nil
}

// Backend implements Store.
func (*BadgerStore) Backend() string { return "badger" }

// Close implements Store.
func (s *BadgerStore) Close() error {
	if !s.owns {
		return nil
	}
	return s.db.Close()
}

// GetProfile implements ProfileStore.
func (s *BadgerStore) GetProfile(_ context.Context, userID string) (model.Profile, error) {
	var p model.Profile
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(profileKeyPrefix + userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &p)
		})
	})
	if err != nil {
		return model.Profile{}, err
	}
	return p, nil
}

// PutProfile implements ProfileStore.
func (s *BadgerStore) PutProfile(_ context.Context, p model.Profile) error {
	if err := validateProfile(&p); err != nil {
		return err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(profileKeyPrefix+p.UserID), data)
	})
}

// VisitedIDs implements VisitStore.
func (s *BadgerStore) VisitedIDs(_ context.Context, userID string) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(visitKeyPrefix + userID + keySep)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var v model.Visit
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &v)
			}); err != nil {
				return fmt.Errorf("decode visit: %w", err)
			}
			out[v.DestinationID] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list visits for %s: %w", userID, err)
	}
	return out, nil
}

// RecordVisit implements VisitStore.
func (s *BadgerStore) RecordVisit(_ context.Context, v model.Visit) error {
	if err := validateVisit(&v); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal visit: %w", err)
	}
	key := []byte(visitKeyPrefix + v.UserID + keySep + v.VisitID)
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == nil {
			return nil
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("get visit: %w", err)
		}
		return txn.Set(key, data)
	})
}
