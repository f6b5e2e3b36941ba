package cancellation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dently/internal/calendar"
	"dently/internal/catalog"
	"dently/internal/notifications"
	"dently/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCalendar struct {
	mu     sync.Mutex
	events map[uuid.UUID]*calendar.Event
}

func newFakeCalendar() *fakeCalendar {
	return &fakeCalendar{events: make(map[uuid.UUID]*calendar.Event)}
}

func (f *fakeCalendar) CreateEvent(_ context.Context, event *calendar.Event) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event.ID = uuid.New()
	f.events[event.ID] = event
	return event.ID, nil
}

func (f *fakeCalendar) GetEvent(_ context.Context, eventID uuid.UUID) (*calendar.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[eventID]
	if !ok {
		return nil, calendar.ErrEventNotFound
	}
	copied := *event
	return &copied, nil
}

func (f *fakeCalendar) UpdateEventStatus(_ context.Context, eventID uuid.UUID, status calendar.BookingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[eventID]
	if !ok {
		return calendar.ErrEventNotFound
	}
	event.ColorID = calendar.ColorForStatus(status)
	return nil
}

func (f *fakeCalendar) ListEvents(context.Context, string, string) ([]calendar.Event, error) {
	return nil, nil
}

func (f *fakeCalendar) IsEnabled() bool { return true }

type fakeNotifier struct {
	mu            sync.Mutex
	cancellations int
	lastRefund    *int64
	sendErr       error
}

func (f *fakeNotifier) SendBookingConfirmation(context.Context, notifications.BookingInfo, string) error {
	return nil
}

func (f *fakeNotifier) SendPaymentConfirmation(context.Context, notifications.BookingInfo) error {
	return nil
}

func (f *fakeNotifier) SendReminder(context.Context, notifications.BookingInfo) error {
	return nil
}

func (f *fakeNotifier) SendCancellation(_ context.Context, _ notifications.BookingInfo, refundAmount *int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancellations++
	f.lastRefund = refundAmount
	return f.sendErr
}

type fakeCatalog struct{}

func (fakeCatalog) GetServiceByID(context.Context, uuid.UUID) (*catalog.Service, error) {
	return &catalog.Service{Name: "Dentální hygiena"}, nil
}

func (fakeCatalog) GetServiceBySlug(context.Context, string) (*catalog.Service, error) {
	return nil, catalog.ErrServiceNotFound
}

func (fakeCatalog) GetServiceByName(context.Context, string) (*catalog.Service, error) {
	return nil, catalog.ErrServiceNotFound
}

func (fakeCatalog) ListActiveServices(context.Context) ([]catalog.Service, error) {
	return nil, nil
}

// seedEvent creates a PAID appointment on the given local date/time.
func seedEvent(t *testing.T, cal *fakeCalendar, date, start string) uuid.UUID {
	t.Helper()
	id, err := cal.CreateEvent(context.Background(), &calendar.Event{
		Summary: "Dentální hygiena - Jana Nováková",
		Description: calendar.MarshalDetails(calendar.EventDetails{
			Phone:     "+420777123456",
			Email:     "jana@example.com",
			Name:      "Jana Nováková",
			Deposit:   50000,
			Status:    calendar.StatusPaid,
			ServiceID: uuid.NewString(),
		}),
		Date:      date,
		StartTime: start,
		EndTime:   "11:00",
		ColorID:   calendar.ColorForStatus(calendar.StatusPaid),
	})
	require.NoError(t, err)
	return id
}

func newTestService(cal *fakeCalendar, notifier *fakeNotifier, now time.Time) Service {
	return NewService(cal, fakeCatalog{}, notifier, 24*time.Hour,
		func() time.Time { return now }, logger.GetDefault())
}

func prague(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Prague")
	require.NoError(t, err)
	return loc
}

func TestRefundEligibleBoundary(t *testing.T) {
	appointment := time.Date(2025, 3, 14, 14, 0, 0, 0, time.UTC)
	cutoff := 24 * time.Hour

	assert.True(t, RefundEligible(appointment.Add(-25*time.Hour), appointment, cutoff))
	assert.True(t, RefundEligible(appointment.Add(-24*time.Hour), appointment, cutoff),
		"exactly at the cutoff is still eligible")
	assert.False(t, RefundEligible(appointment.Add(-24*time.Hour+time.Minute), appointment, cutoff))
	assert.False(t, RefundEligible(appointment.Add(-time.Hour), appointment, cutoff))
}

func TestCancelEligibleRefundsDeposit(t *testing.T) {
	cal := newFakeCalendar()
	notifier := &fakeNotifier{}
	id := seedEvent(t, cal, "2025-03-14", "10:00")

	now := time.Date(2025, 3, 12, 9, 0, 0, 0, prague(t))
	sut := newTestService(cal, notifier, now)

	result, err := sut.Cancel(context.Background(), id, "nemoc", false)
	require.NoError(t, err)

	assert.True(t, result.RefundEligible)
	require.NotNil(t, result.RefundAmount)
	assert.Equal(t, int64(50000), *result.RefundAmount)
	assert.Equal(t, calendar.StatusCancelled, result.Status)

	event, err := cal.GetEvent(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, calendar.StatusCancelled, event.Status())

	assert.Equal(t, 1, notifier.cancellations)
	require.NotNil(t, notifier.lastRefund)
	assert.Equal(t, int64(50000), *notifier.lastRefund)
}

func TestCancelLateForfeitsDeposit(t *testing.T) {
	cal := newFakeCalendar()
	notifier := &fakeNotifier{}
	id := seedEvent(t, cal, "2025-03-14", "10:00")

	// 20 hours before the appointment.
	now := time.Date(2025, 3, 13, 14, 0, 0, 0, prague(t))
	sut := newTestService(cal, notifier, now)

	result, err := sut.Cancel(context.Background(), id, "", false)
	require.NoError(t, err)

	assert.False(t, result.RefundEligible)
	assert.Nil(t, result.RefundAmount)
	assert.Equal(t, calendar.StatusCancelled, result.Status)
	assert.Nil(t, notifier.lastRefund)
}

func TestCancelExactBoundary(t *testing.T) {
	cal := newFakeCalendar()
	id := seedEvent(t, cal, "2025-03-14", "14:00")

	// Exactly 24 hours before: still eligible.
	now := time.Date(2025, 3, 13, 14, 0, 0, 0, prague(t))
	sut := newTestService(cal, &fakeNotifier{}, now)

	result, err := sut.Cancel(context.Background(), id, "", true)
	require.NoError(t, err)
	assert.True(t, result.RefundEligible)
}

func TestCancelUnknownBooking(t *testing.T) {
	sut := newTestService(newFakeCalendar(), &fakeNotifier{}, time.Now())

	_, err := sut.Cancel(context.Background(), uuid.New(), "", false)
	assert.ErrorIs(t, err, calendar.ErrEventNotFound)
}

func TestCancelAlreadyCancelled(t *testing.T) {
	cal := newFakeCalendar()
	notifier := &fakeNotifier{}
	id := seedEvent(t, cal, "2025-03-14", "10:00")

	now := time.Date(2025, 3, 12, 9, 0, 0, 0, prague(t))
	sut := newTestService(cal, notifier, now)

	_, err := sut.Cancel(context.Background(), id, "", false)
	require.NoError(t, err)

	_, err = sut.Cancel(context.Background(), id, "", false)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
	assert.Equal(t, 1, notifier.cancellations, "double cancel must not re-notify")
}

func TestCancelEmailFailureIsNonFatal(t *testing.T) {
	cal := newFakeCalendar()
	notifier := &fakeNotifier{sendErr: errors.New("smtp down")}
	id := seedEvent(t, cal, "2025-03-14", "10:00")

	now := time.Date(2025, 3, 12, 9, 0, 0, 0, prague(t))
	sut := newTestService(cal, notifier, now)

	result, err := sut.Cancel(context.Background(), id, "", false)
	require.NoError(t, err, "the state transition is the authoritative outcome")
	assert.Equal(t, calendar.StatusCancelled, result.Status)
}

func TestCancelSkipEmail(t *testing.T) {
	cal := newFakeCalendar()
	notifier := &fakeNotifier{}
	id := seedEvent(t, cal, "2025-03-14", "10:00")

	now := time.Date(2025, 3, 12, 9, 0, 0, 0, prague(t))
	sut := newTestService(cal, notifier, now)

	_, err := sut.Cancel(context.Background(), id, "", true)
	require.NoError(t, err)
	assert.Equal(t, 0, notifier.cancellations)
}
