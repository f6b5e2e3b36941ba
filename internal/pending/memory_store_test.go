package pending

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testBooking() *Booking {
	return &Booking{
		ServiceID:       uuid.New(),
		CustomerName:    "Jana Nováková",
		CustomerEmail:   "jana@example.com",
		CustomerPhone:   "+420777123456",
		AppointmentDate: "2025-03-14",
		AppointmentTime: "10:00",
		IsFirstVisit:    true,
		GDPRConsent:     true,
	}
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore(30*time.Minute, clock.Now)
	ctx := context.Background()

	id, err := store.Store(ctx, testBooking())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	// Retrievable just before the TTL elapses.
	clock.Advance(29 * time.Minute)
	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Jana Nováková", got.CustomerName)

	// Gone just after.
	clock.Advance(2 * time.Minute)
	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreGetUnknownID(t *testing.T) {
	store := NewMemoryStore(30*time.Minute, nil)

	_, err := store.Get(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreDeleteIsIdempotent(t *testing.T) {
	store := NewMemoryStore(30*time.Minute, nil)
	ctx := context.Background()

	id, err := store.Store(ctx, testBooking())
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, id))
	require.NoError(t, store.Delete(ctx, id))
	require.NoError(t, store.Delete(ctx, "never-existed"))

	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreClaimRemovesEntry(t *testing.T) {
	store := NewMemoryStore(30*time.Minute, nil)
	ctx := context.Background()

	id, err := store.Store(ctx, testBooking())
	require.NoError(t, err)

	got, err := store.Claim(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)

	_, err = store.Claim(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreClaimExpiredEntry(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore(30*time.Minute, clock.Now)
	ctx := context.Background()

	id, err := store.Store(ctx, testBooking())
	require.NoError(t, err)

	clock.Advance(31 * time.Minute)
	_, err = store.Claim(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreConcurrentClaimSingleWinner(t *testing.T) {
	store := NewMemoryStore(30*time.Minute, nil)
	ctx := context.Background()

	id, err := store.Store(ctx, testBooking())
	require.NoError(t, err)

	const attempts = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Claim(ctx, id); err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners, "exactly one claim must win")
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore(30*time.Minute, nil)
	ctx := context.Background()

	id, err := store.Store(ctx, testBooking())
	require.NoError(t, err)

	first, err := store.Get(ctx, id)
	require.NoError(t, err)
	first.CustomerName = "mutated"

	second, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Jana Nováková", second.CustomerName)
}
