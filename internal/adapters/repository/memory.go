package repository

import (
	"context"
	"sync"

	"github.com/okian/jelajah/internal/domain/model"
)

// MemoryStore keeps everything in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]model.Profile
	visits   map[string]map[string]string // user -> visit id -> destination id
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]model.Profile),
		visits:   make(map[string]map[string]string),
	}
}

// Backend implements Store.
func (*MemoryStore) Backend() string { return "memory" }

// GetProfile implements ProfileStore.
func (s *MemoryStore) GetProfile(_ context.Context, userID string) (model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return model.Profile{}, ErrNotFound
	}
	return p, nil
}

// PutProfile implements ProfileStore.
func (s *MemoryStore) PutProfile(_ context.Context, p model.Profile) error {
	if err := validateProfile(&p); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = p
	return nil
}

// VisitedIDs implements VisitStore.
func (s *MemoryStore) VisitedIDs(_ context.Context, userID string) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]struct{}, len(s.visits[userID]))
	for _, dest := range s.visits[userID] {
		out[dest] = struct{}{}
	}
	return out, nil
}

// RecordVisit implements VisitStore.
func (s *MemoryStore) RecordVisit(_ context.Context, v model.Visit) error {
	if err := validateVisit(&v); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	byID, ok := s.visits[v.UserID]
	if !ok {
		byID = make(map[string]string)
		s.visits[v.UserID] = byID
	}
	if _, dup := byID[v.VisitID]; !dup {
		byID[v.VisitID] = v.DestinationID
	}
	return nil
}

// Close implements Store.
func (*MemoryStore) Close() error { return nil }
