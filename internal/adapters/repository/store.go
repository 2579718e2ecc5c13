// Package repository persists user profiles and visit history.
package repository

import (
	"context"

	"github.com/okian/jelajah/internal/domain/model"
)

// ProfileStore reads and writes declared user preferences.
type ProfileStore interface {
	// GetProfile returns ErrNotFound if the user has no profile.
	GetProfile(ctx context.Context, userID string) (model.Profile, error)
	PutProfile(ctx context.Context, p model.Profile) error
}

// VisitStore records visited destinations.
type VisitStore interface {
	// VisitedIDs returns the destination ids the user has visited. An unknown
	// user has an empty set.
	VisitedIDs(ctx context.Context, userID string) (map[string]struct{}, error)
	// RecordVisit stores v. Storing the same VisitID twice is a no-op.
	RecordVisit(ctx context.Context, v model.Visit) error
}

// Store is a backend serving both collaborators.
type Store interface {
	ProfileStore
	VisitStore
	Backend() string
	Close() error
}

func validateProfile(p *model.Profile) error {
	if p.UserID == "" {
		return ErrInvalidArgument
	}
	return nil
}

func validateVisit(v *model.Visit) error {
	if v.UserID == "" || v.VisitID == "" || v.DestinationID == "" {
		return ErrInvalidArgument
	}
	return nil
}
