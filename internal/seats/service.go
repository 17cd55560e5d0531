package seats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"cinebook/internal/shared/apperrors"
	"cinebook/internal/shared/config"
	"cinebook/pkg/logger"
)

const lockKeyPrefix = "seat_lock"

// PaidSeatSource reports which seats are already sold for a showtime.
// Implemented by the bookings repository; declared here to avoid a circular
// dependency.
type PaidSeatSource interface {
	QueryPaidSeats(ctx context.Context, showtimeID string) (map[string]struct{}, error)
}

type Service interface {
	// Core reservation flow
	Acquire(ctx context.Context, req LockSeatsRequest) (*LockResult, error)
	Release(ctx context.Context, showtimeID string, seatCodes []string, sessionID string) (*ReleaseResult, error)
	Verify(ctx context.Context, showtimeID string, seatCodes []string, sessionID string) (bool, error)
	Refresh(ctx context.Context, showtimeID string, seatCodes []string, sessionID string) error

	// Availability
	ListLocked(ctx context.Context, showtimeID string) ([]string, error)
	GetAvailability(ctx context.Context, showtimeID string) (*AvailabilityResponse, error)
}

type service struct {
	store LockStore
	paid  PaidSeatSource
	ttl   time.Duration
}

func NewService(store LockStore, paid PaidSeatSource, cfg *config.Config) Service {
	return &service{
		store: store,
		paid:  paid,
		ttl:   cfg.Redis.SeatLockTTL,
	}
}

func lockKey(showtimeID, seatCode string) string {
	return fmt.Sprintf("%s:%s:%s", lockKeyPrefix, showtimeID, seatCode)
}

// Acquire locks every requested seat or none of them. Each seat lock is an
// atomic create-if-absent; when any seat is denied, the grants made by this
// call are rolled back and the whole request fails with the contended seats.
func (s *service) Acquire(ctx context.Context, req LockSeatsRequest) (*LockResult, error) {
	value, err := json.Marshal(LockValue{SessionID: req.SessionID, Contact: req.Contact})
	if err != nil {
		return nil, fmt.Errorf("failed to encode lock value: %w", err)
	}

	var granted []string
	var contended []string

	for _, seatCode := range req.Seats {
		ok, err := s.store.SetIfAbsent(ctx, lockKey(req.ShowtimeID, seatCode), string(value), s.ttl)
		if err != nil {
			// Unknown store state: deny the whole request, never grant
			s.rollback(ctx, req.ShowtimeID, granted)
			return nil, apperrors.NewUpstreamUnavailable("lock store", err)
		}
		if !ok {
			contended = append(contended, seatCode)
			continue
		}
		granted = append(granted, seatCode)
	}

	if len(contended) > 0 {
		s.rollback(ctx, req.ShowtimeID, granted)
		logger.GetDefault().LogSeatConflict(ctx, req.ShowtimeID, contended)
		return nil, apperrors.NewConflictError(contended,
			fmt.Sprintf("seats already locked: %s", strings.Join(contended, ", ")))
	}

	logger.GetDefault().LogSeatsLocked(ctx, req.ShowtimeID, granted, req.SessionID)

	return &LockResult{
		ShowtimeID: req.ShowtimeID,
		Locked:     granted,
		ExpiresAt:  time.Now().Add(s.ttl),
		TTL:        int(s.ttl.Seconds()),
	}, nil
}

// rollback removes locks granted earlier in a failed Acquire. Errors are
// logged only; any lock left behind expires at its TTL.
func (s *service) rollback(ctx context.Context, showtimeID string, granted []string) {
	for _, seatCode := range granted {
		if err := s.store.Delete(ctx, lockKey(showtimeID, seatCode)); err != nil {
			logger.GetDefault().ErrorWithContext(ctx, "Lock rollback failed", err, map[string]interface{}{
				"showtime_id": showtimeID,
				"seat":        seatCode,
			})
		}
	}
}

// Release removes the caller's locks. A seat with no live lock counts as
// released so that releasing after expiry is a no-op, not a failure. Seats
// locked by another session are rejected without touching the lock.
func (s *service) Release(ctx context.Context, showtimeID string, seatCodes []string, sessionID string) (*ReleaseResult, error) {
	result := &ReleaseResult{}

	for _, seatCode := range seatCodes {
		key := lockKey(showtimeID, seatCode)

		raw, err := s.store.Get(ctx, key)
		if err != nil {
			if errors.Is(err, ErrLockNotFound) {
				result.Released = append(result.Released, seatCode)
				continue
			}
			return nil, apperrors.NewUpstreamUnavailable("lock store", err)
		}

		var value LockValue
		if err := json.Unmarshal([]byte(raw), &value); err != nil || value.SessionID != sessionID {
			result.Rejected = append(result.Rejected, seatCode)
			continue
		}

		if err := s.store.Delete(ctx, key); err != nil {
			return nil, apperrors.NewUpstreamUnavailable("lock store", err)
		}
		result.Released = append(result.Released, seatCode)
	}

	return result, nil
}

// Verify reports whether every seat holds a live lock owned by sessionID.
// A store failure fails closed: the answer is false, never a guess.
func (s *service) Verify(ctx context.Context, showtimeID string, seatCodes []string, sessionID string) (bool, error) {
	for _, seatCode := range seatCodes {
		raw, err := s.store.Get(ctx, lockKey(showtimeID, seatCode))
		if err != nil {
			if errors.Is(err, ErrLockNotFound) {
				return false, nil
			}
			return false, apperrors.NewUpstreamUnavailable("lock store", err)
		}

		var value LockValue
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			return false, nil
		}
		if value.SessionID != sessionID {
			return false, nil
		}
	}
	return true, nil
}

// Refresh extends the caller's locks back to the full TTL. Ownership of
// every seat is checked before any expiry is touched, so a request that
// fails leaves no partially refreshed state behind.
func (s *service) Refresh(ctx context.Context, showtimeID string, seatCodes []string, sessionID string) error {
	owned, err := s.Verify(ctx, showtimeID, seatCodes, sessionID)
	if err != nil {
		return err
	}
	if !owned {
		return apperrors.NewValidationError("seats", "locks expired or not owned by this session")
	}

	for _, seatCode := range seatCodes {
		ok, err := s.store.Expire(ctx, lockKey(showtimeID, seatCode), s.ttl)
		if err != nil {
			return apperrors.NewUpstreamUnavailable("lock store", err)
		}
		if !ok {
			// Lock expired between the ownership pass and this one
			return apperrors.NewValidationError("seats", fmt.Sprintf("lock expired for seat %s", seatCode))
		}
	}
	return nil
}

// ListLocked enumerates seats with a live lock for the showtime
func (s *service) ListLocked(ctx context.Context, showtimeID string) ([]string, error) {
	pattern := fmt.Sprintf("%s:%s:*", lockKeyPrefix, showtimeID)
	keys, err := s.store.KeysMatching(ctx, pattern)
	if err != nil {
		return nil, apperrors.NewUpstreamUnavailable("lock store", err)
	}

	prefix := fmt.Sprintf("%s:%s:", lockKeyPrefix, showtimeID)
	seatCodes := make([]string, 0, len(keys))
	for _, key := range keys {
		seatCodes = append(seatCodes, strings.TrimPrefix(key, prefix))
	}
	sort.Strings(seatCodes)
	return seatCodes, nil
}

// GetAvailability merges live locks with sold seats from the booking ledger
func (s *service) GetAvailability(ctx context.Context, showtimeID string) (*AvailabilityResponse, error) {
	locked, err := s.ListLocked(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	paidSeats, err := s.paid.QueryPaidSeats(ctx, showtimeID)
	if err != nil {
		return nil, apperrors.NewUpstreamUnavailable("booking store", err)
	}

	booked := make([]string, 0, len(paidSeats))
	for seatCode := range paidSeats {
		booked = append(booked, seatCode)
	}
	sort.Strings(booked)

	unavailableSet := make(map[string]struct{}, len(locked)+len(booked))
	for _, seatCode := range locked {
		unavailableSet[seatCode] = struct{}{}
	}
	for _, seatCode := range booked {
		unavailableSet[seatCode] = struct{}{}
	}
	unavailable := make([]string, 0, len(unavailableSet))
	for seatCode := range unavailableSet {
		unavailable = append(unavailable, seatCode)
	}
	sort.Strings(unavailable)

	return &AvailabilityResponse{
		ShowtimeID:  showtimeID,
		Locked:      locked,
		Booked:      booked,
		Unavailable: unavailable,
	}, nil
}
