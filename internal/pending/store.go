package pending

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned for unknown, expired or already-claimed ids.
// Callers must treat it as "booking session no longer valid", not as a
// validation failure — the customer restarts, they don't fix input.
var ErrNotFound = errors.New("pending booking not found")

// Store is the time-bounded holding area for unpaid bookings.
//
// Claim is the single-owner primitive behind the at-most-one-booking
// guarantee: of N concurrent Claim calls for the same id, exactly one
// receives the booking and the rest receive ErrNotFound.
type Store interface {
	Store(ctx context.Context, booking *Booking) (string, error)
	Get(ctx context.Context, id string) (*Booking, error)
	Claim(ctx context.Context, id string) (*Booking, error)
	Delete(ctx context.Context, id string) error
	TTL() time.Duration
}
