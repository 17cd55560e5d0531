package seats

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"cinebook/internal/shared/apperrors"
	"cinebook/internal/shared/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLockStore is an in-memory LockStore safe for concurrent use
type fakeLockStore struct {
	mu      sync.Mutex
	data    map[string]string
	expires map[string]int // counts TTL assertions per key
	err     error          // when set, every operation fails with it
}

func newFakeLockStore() *fakeLockStore {
	return &fakeLockStore{
		data:    make(map[string]string),
		expires: make(map[string]int),
	}
}

func (f *fakeLockStore) SetIfAbsent(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if _, exists := f.data[key]; exists {
		return false, nil
	}
	f.data[key] = value
	return true, nil
}

func (f *fakeLockStore) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	val, exists := f.data[key]
	if !exists {
		return "", ErrLockNotFound
	}
	return val, nil
}

func (f *fakeLockStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	delete(f.data, key)
	return nil
}

func (f *fakeLockStore) Expire(_ context.Context, key string, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if _, exists := f.data[key]; !exists {
		return false, nil
	}
	f.expires[key]++
	return true, nil
}

func (f *fakeLockStore) KeysMatching(_ context.Context, pattern string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for key := range f.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (f *fakeLockStore) expireCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.expires[key]
}

type fakePaidSource struct {
	seats map[string]struct{}
	err   error
}

func (f *fakePaidSource) QueryPaidSeats(_ context.Context, _ string) (map[string]struct{}, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.seats == nil {
		return map[string]struct{}{}, nil
	}
	return f.seats, nil
}

func newTestService(store LockStore, paid PaidSeatSource) Service {
	cfg := &config.Config{}
	cfg.Redis.SeatLockTTL = 5 * time.Minute
	return NewService(store, paid, cfg)
}

func TestAcquire_SingleGrantUnderContention(t *testing.T) {
	store := newFakeLockStore()
	svc := newTestService(store, &fakePaidSource{})
	ctx := context.Background()

	const workers = 50
	var granted int64
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := svc.Acquire(ctx, LockSeatsRequest{
				ShowtimeID: "show-1",
				Seats:      []string{"A1"},
				SessionID:  "sess-" + string(rune('a'+n%26)) + string(rune('0'+n/26)),
			})
			if err == nil {
				atomic.AddInt64(&granted, 1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), granted, "exactly one session may win the seat")
}

func TestAcquire_AllOrNothingRollback(t *testing.T) {
	store := newFakeLockStore()
	svc := newTestService(store, &fakePaidSource{})
	ctx := context.Background()

	// Another session already holds B2
	_, err := svc.Acquire(ctx, LockSeatsRequest{
		ShowtimeID: "show-1",
		Seats:      []string{"B2"},
		SessionID:  "sess-other",
	})
	require.NoError(t, err)

	_, err = svc.Acquire(ctx, LockSeatsRequest{
		ShowtimeID: "show-1",
		Seats:      []string{"A1", "B2", "C3"},
		SessionID:  "sess-mine",
	})
	require.Error(t, err)

	var conflict *apperrors.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{"B2"}, conflict.Seats)

	// No partial grant: A1 and C3 must be free again
	_, err = store.Get(ctx, lockKey("show-1", "A1"))
	assert.ErrorIs(t, err, ErrLockNotFound)
	_, err = store.Get(ctx, lockKey("show-1", "C3"))
	assert.ErrorIs(t, err, ErrLockNotFound)

	// The contended lock still belongs to its original owner
	owned, err := svc.Verify(ctx, "show-1", []string{"B2"}, "sess-other")
	require.NoError(t, err)
	assert.True(t, owned)
}

func TestAcquire_DenialLeavesEarlierLocksIntact(t *testing.T) {
	store := newFakeLockStore()
	svc := newTestService(store, &fakePaidSource{})
	ctx := context.Background()

	_, err := svc.Acquire(ctx, LockSeatsRequest{
		ShowtimeID: "show-1",
		Seats:      []string{"A1", "A2"},
		SessionID:  "sess-x",
	})
	require.NoError(t, err)

	_, err = svc.Acquire(ctx, LockSeatsRequest{
		ShowtimeID: "show-1",
		Seats:      []string{"A1"},
		SessionID:  "sess-y",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))

	owned, err := svc.Verify(ctx, "show-1", []string{"A1", "A2"}, "sess-x")
	require.NoError(t, err)
	assert.True(t, owned, "losing request must not disturb the winner's locks")
}

func TestAcquire_FailsClosedOnStoreError(t *testing.T) {
	store := newFakeLockStore()
	svc := newTestService(store, &fakePaidSource{})
	ctx := context.Background()

	store.err = errors.New("connection refused")

	_, err := svc.Acquire(ctx, LockSeatsRequest{
		ShowtimeID: "show-1",
		Seats:      []string{"A1"},
		SessionID:  "sess-1",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstreamUnavailable(err))
}

func TestRelease_IdempotentForAbsentLocks(t *testing.T) {
	store := newFakeLockStore()
	svc := newTestService(store, &fakePaidSource{})
	ctx := context.Background()

	result, err := svc.Release(ctx, "show-1", []string{"A1", "A2"}, "sess-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A1", "A2"}, result.Released)
	assert.Empty(t, result.Rejected)
}

func TestRelease_RejectsForeignLocks(t *testing.T) {
	store := newFakeLockStore()
	svc := newTestService(store, &fakePaidSource{})
	ctx := context.Background()

	_, err := svc.Acquire(ctx, LockSeatsRequest{
		ShowtimeID: "show-1",
		Seats:      []string{"A1"},
		SessionID:  "sess-owner",
	})
	require.NoError(t, err)

	result, err := svc.Release(ctx, "show-1", []string{"A1"}, "sess-intruder")
	require.NoError(t, err)
	assert.Empty(t, result.Released)
	assert.Equal(t, []string{"A1"}, result.Rejected)

	owned, err := svc.Verify(ctx, "show-1", []string{"A1"}, "sess-owner")
	require.NoError(t, err)
	assert.True(t, owned)
}

func TestVerify(t *testing.T) {
	store := newFakeLockStore()
	svc := newTestService(store, &fakePaidSource{})
	ctx := context.Background()

	_, err := svc.Acquire(ctx, LockSeatsRequest{
		ShowtimeID: "show-1",
		Seats:      []string{"A1", "A2"},
		SessionID:  "sess-1",
	})
	require.NoError(t, err)

	owned, err := svc.Verify(ctx, "show-1", []string{"A1", "A2"}, "sess-1")
	require.NoError(t, err)
	assert.True(t, owned)

	owned, err = svc.Verify(ctx, "show-1", []string{"A1"}, "sess-2")
	require.NoError(t, err)
	assert.False(t, owned)

	owned, err = svc.Verify(ctx, "show-1", []string{"A1", "Z9"}, "sess-1")
	require.NoError(t, err)
	assert.False(t, owned, "a missing lock fails verification")
}

func TestRefresh_RejectsForeignSessionWithoutTouchingExpiry(t *testing.T) {
	store := newFakeLockStore()
	svc := newTestService(store, &fakePaidSource{})
	ctx := context.Background()

	_, err := svc.Acquire(ctx, LockSeatsRequest{
		ShowtimeID: "show-1",
		Seats:      []string{"A1"},
		SessionID:  "sess-x",
	})
	require.NoError(t, err)

	err = svc.Refresh(ctx, "show-1", []string{"A1"}, "sess-y")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, store.expireCount(lockKey("show-1", "A1")), "foreign refresh must not extend the lock")
}

func TestRefresh_NoPartialRefresh(t *testing.T) {
	store := newFakeLockStore()
	svc := newTestService(store, &fakePaidSource{})
	ctx := context.Background()

	_, err := svc.Acquire(ctx, LockSeatsRequest{
		ShowtimeID: "show-1",
		Seats:      []string{"A1"},
		SessionID:  "sess-1",
	})
	require.NoError(t, err)

	// A2 was never locked, so the whole refresh fails before any expiry runs
	err = svc.Refresh(ctx, "show-1", []string{"A1", "A2"}, "sess-1")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Zero(t, store.expireCount(lockKey("show-1", "A1")))
}

func TestRefresh_ExtendsOwnedLocks(t *testing.T) {
	store := newFakeLockStore()
	svc := newTestService(store, &fakePaidSource{})
	ctx := context.Background()

	_, err := svc.Acquire(ctx, LockSeatsRequest{
		ShowtimeID: "show-1",
		Seats:      []string{"A1", "A2"},
		SessionID:  "sess-1",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Refresh(ctx, "show-1", []string{"A1", "A2"}, "sess-1"))
	assert.Equal(t, 1, store.expireCount(lockKey("show-1", "A1")))
	assert.Equal(t, 1, store.expireCount(lockKey("show-1", "A2")))

	// Refresh is idempotent
	require.NoError(t, svc.Refresh(ctx, "show-1", []string{"A1", "A2"}, "sess-1"))
	assert.Equal(t, 2, store.expireCount(lockKey("show-1", "A1")))
}

func TestGetAvailability_MergesLockedAndBooked(t *testing.T) {
	store := newFakeLockStore()
	paid := &fakePaidSource{seats: map[string]struct{}{"C3": {}, "C4": {}}}
	svc := newTestService(store, paid)
	ctx := context.Background()

	_, err := svc.Acquire(ctx, LockSeatsRequest{
		ShowtimeID: "show-1",
		Seats:      []string{"A1", "B2"},
		SessionID:  "sess-1",
	})
	require.NoError(t, err)

	availability, err := svc.GetAvailability(ctx, "show-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "B2"}, availability.Locked)
	assert.Equal(t, []string{"C3", "C4"}, availability.Booked)
	assert.Equal(t, []string{"A1", "B2", "C3", "C4"}, availability.Unavailable)
}
