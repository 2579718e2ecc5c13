package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	repository "github.com/okian/jelajah/internal/adapters/repository"
	"github.com/okian/jelajah/internal/domain/model"
	"github.com/okian/jelajah/internal/domain/types"
	"github.com/okian/jelajah/pkg/logger"
	"github.com/okian/jelajah/pkg/metrics"
)

// MaxAddressLength bounds a stored profile address in characters.
const MaxAddressLength = 255

// GetProfile returns the stored profile of userID.
func (s *Service) GetProfile(ctx context.Context, userID string) (model.Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return model.Profile{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	p, err := s.store.GetProfile(ctx, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return model.Profile{}, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	case err != nil:
		metrics.RecordUpstreamError("profiles")
		return model.Profile{}, fmt.Errorf("%w: profile of %s: %w", ErrUpstreamLookup, userID, err)
	}
	return p, nil
}

// PutProfile stores the declared interest and address of a user. The
// interest is canonicalized to one of the enumerated categories.
func (s *Service) PutProfile(ctx context.Context, p model.Profile) (model.Profile, error) {
	p.UserID = strings.TrimSpace(p.UserID)
	p.Address = strings.TrimSpace(p.Address)
	if p.UserID == "" {
		return model.Profile{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(p.Address) > MaxAddressLength {
		return model.Profile{}, fmt.Errorf("%w: address longer than %d characters", ErrInvalidInput, MaxAddressLength)
	}
	if strings.TrimSpace(p.Interest) != "" {
		c, ok := types.ParseCategory(p.Interest)
		if !ok {
			return model.Profile{}, fmt.Errorf("%w: interest %q must be one of %s",
				ErrInvalidInput, p.Interest, strings.Join(types.CategoryNames(), ", "))
		}
		p.Interest = string(c)
	}
	p.UpdatedAt = s.now().UTC()

	if err := s.store.PutProfile(ctx, p); err != nil {
		metrics.RecordUpstreamError("profiles")
		return model.Profile{}, fmt.Errorf("%w: store profile of %s: %w", ErrUpstreamLookup, p.UserID, err)
	}
	s.logger.Debug(ctx, "profile stored",
		logger.String("user_id", p.UserID),
		logger.String("interest", p.Interest))
	return p, nil
}

// SubmitVisit queues a visit for asynchronous persistence. Submissions are
// idempotent per user by VisitID; a missing VisitID is generated.
func (s *Service) SubmitVisit(ctx context.Context, v model.Visit) (types.VisitReceipt, error) {
	v.UserID = strings.TrimSpace(v.UserID)
	v.DestinationID = strings.TrimSpace(v.DestinationID)
	v.VisitID = strings.TrimSpace(v.VisitID)
	if v.UserID == "" || v.DestinationID == "" {
		return types.VisitReceipt{}, fmt.Errorf("%w: user id and destination id are required", ErrInvalidInput)
	}
	if v.VisitID == "" {
		v.VisitID = uuid.NewString()
	}
	if v.VisitedAt.IsZero() {
		v.VisitedAt = s.now().UTC()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return types.VisitReceipt{}, ErrNotStarted
	}

	receipt := types.VisitReceipt{VisitID: v.VisitID}
	key := visitKey(v.UserID, v.VisitID)
	if s.deduper.SeenAndRecord(ctx, key) {
		metrics.RecordVisitDuplicate()
		s.logger.Debug(ctx, "duplicate visit skipped",
			logger.String("visit_id", v.VisitID),
			logger.String("user_id", v.UserID))
		receipt.Duplicate = true
		return receipt, nil
	}
	if !s.eventQueue.Enqueue(ctx, v) {
		s.deduper.Unrecord(ctx, key)
		return types.VisitReceipt{}, fmt.Errorf("%w: visit %s", ErrBackpressure, v.VisitID)
	}
	return receipt, nil
}

// visitKey scopes a visit id to its user.
func visitKey(userID, visitID string) string {
	return userID + "\x00" + visitID
}
