package calendar

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrEventNotFound is returned when no event matches the id.
	ErrEventNotFound = errors.New("calendar event not found")

	// ErrNotConfigured is returned when the calendar integration is disabled.
	// API handlers translate this to 503, distinct from NotFound.
	ErrNotConfigured = errors.New("calendar integration not configured")
)

// Provider is the calendar collaborator boundary. The calendar is the single
// source of truth for confirmed appointments; nothing caches its state beyond
// request scope.
type Provider interface {
	CreateEvent(ctx context.Context, event *Event) (uuid.UUID, error)
	GetEvent(ctx context.Context, eventID uuid.UUID) (*Event, error)
	UpdateEventStatus(ctx context.Context, eventID uuid.UUID, status BookingStatus) error
	ListEvents(ctx context.Context, fromDate, toDate string) ([]Event, error)
	IsEnabled() bool
}
