package bookings

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dently/internal/calendar"
	"dently/internal/catalog"
	"dently/internal/notifications"
	"dently/internal/pending"
	"dently/internal/shared/config"
	"dently/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCalendar struct {
	mu        sync.Mutex
	events    map[uuid.UUID]*calendar.Event
	createErr error
}

func newFakeCalendar() *fakeCalendar {
	return &fakeCalendar{events: make(map[uuid.UUID]*calendar.Event)}
}

func (f *fakeCalendar) CreateEvent(_ context.Context, event *calendar.Event) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return uuid.Nil, f.createErr
	}
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
	confirmations int
	payments      int
	paymentErr    error
	confirmErr    error
	lastURL       string
}

func (f *fakeNotifier) SendBookingConfirmation(_ context.Context, _ notifications.BookingInfo, paymentURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmations++
	f.lastURL = paymentURL
	return f.confirmErr
}

func (f *fakeNotifier) SendPaymentConfirmation(context.Context, notifications.BookingInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payments++
	return f.paymentErr
}

func (f *fakeNotifier) SendReminder(context.Context, notifications.BookingInfo) error {
	return nil
}

func (f *fakeNotifier) SendCancellation(context.Context, notifications.BookingInfo, *int64) error {
	return nil
}

type fakeCatalog struct {
	service *catalog.Service
}

func (f *fakeCatalog) GetServiceByID(_ context.Context, id uuid.UUID) (*catalog.Service, error) {
	if f.service == nil || f.service.ID != id {
		return nil, catalog.ErrServiceNotFound
	}
	return f.service, nil
}

func (f *fakeCatalog) GetServiceBySlug(context.Context, string) (*catalog.Service, error) {
	return nil, catalog.ErrServiceNotFound
}

func (f *fakeCatalog) GetServiceByName(context.Context, string) (*catalog.Service, error) {
	return nil, catalog.ErrServiceNotFound
}

func (f *fakeCatalog) ListActiveServices(context.Context) ([]catalog.Service, error) {
	return nil, nil
}

type fakePayments struct {
	err error
}

func (f *fakePayments) CreateSession(context.Context, string) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	return "https://pay.example/T123", "T123", nil
}

func testCatalogService() *catalog.Service {
	return &catalog.Service{
		ID:              uuid.New(),
		Name:            "Dentální hygiena",
		Slug:            "dentalni-hygiena",
		Price:           190000,
		DepositAmount:   50000,
		DurationMinutes: 60,
		Active:          true,
	}
}

func testPendingBooking(serviceID uuid.UUID) *pending.Booking {
	return &pending.Booking{
		ID:              uuid.NewString(),
		ServiceID:       serviceID,
		CustomerName:    "Jana Nováková",
		CustomerEmail:   "jana@example.com",
		CustomerPhone:   "+420777123456",
		AppointmentDate: "2025-03-14",
		AppointmentTime: "10:00",
		Notes:           "citlivé zuby",
		IsFirstVisit:    true,
		GDPRConsent:     true,
	}
}

func TestMaterializeCreatesEvent(t *testing.T) {
	cal := newFakeCalendar()
	notifier := &fakeNotifier{}
	svc := testCatalogService()
	mat := NewMaterializer(cal, &fakeCatalog{service: svc}, notifier,
		config.CalendarConfig{Enabled: true, CalendarID: "primary"}, logger.GetDefault())

	eventID, err := mat.Materialize(context.Background(), testPendingBooking(svc.ID))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, eventID)

	event, err := cal.GetEvent(context.Background(), eventID)
	require.NoError(t, err)

	assert.Equal(t, "Dentální hygiena - Jana Nováková", event.Summary)
	assert.Equal(t, "2025-03-14", event.Date)
	assert.Equal(t, "10:00", event.StartTime)
	assert.Equal(t, "11:00", event.EndTime)
	assert.Equal(t, calendar.StatusPaid, event.Status())

	details, err := calendar.UnmarshalDetails(event.Description)
	require.NoError(t, err)
	assert.Equal(t, "Jana Nováková", details.Name)
	assert.Equal(t, "jana@example.com", details.Email)
	assert.True(t, details.FirstVisit)
	assert.Equal(t, int64(50000), details.Deposit)
	assert.Equal(t, calendar.StatusPaid, details.Status)
	assert.Equal(t, svc.ID.String(), details.ServiceID)

	assert.Equal(t, 1, notifier.payments, "payment confirmation sent after the event exists")
}

func TestMaterializeCalendarFailurePropagates(t *testing.T) {
	cal := newFakeCalendar()
	cal.createErr = errors.New("calendar down")
	notifier := &fakeNotifier{}
	svc := testCatalogService()
	mat := NewMaterializer(cal, &fakeCatalog{service: svc}, notifier,
		config.CalendarConfig{Enabled: true}, logger.GetDefault())

	_, err := mat.Materialize(context.Background(), testPendingBooking(svc.ID))
	assert.Error(t, err)
	assert.Equal(t, 0, notifier.payments, "no confirmation for a booking that failed to materialize")
}

func TestMaterializeEmailFailureIsNonFatal(t *testing.T) {
	cal := newFakeCalendar()
	notifier := &fakeNotifier{paymentErr: errors.New("smtp down")}
	svc := testCatalogService()
	mat := NewMaterializer(cal, &fakeCatalog{service: svc}, notifier,
		config.CalendarConfig{Enabled: true}, logger.GetDefault())

	eventID, err := mat.Materialize(context.Background(), testPendingBooking(svc.ID))
	require.NoError(t, err, "the calendar event is the source of truth, email is best effort")
	assert.NotEqual(t, uuid.Nil, eventID)
}

func TestMaterializeUnknownService(t *testing.T) {
	mat := NewMaterializer(newFakeCalendar(), &fakeCatalog{}, &fakeNotifier{},
		config.CalendarConfig{Enabled: true}, logger.GetDefault())

	_, err := mat.Materialize(context.Background(), testPendingBooking(uuid.New()))
	assert.ErrorIs(t, err, catalog.ErrServiceNotFound)
}

func TestSubmitBookingHappyPath(t *testing.T) {
	store := pending.NewMemoryStore(30*time.Minute, nil)
	notifier := &fakeNotifier{}
	svc := testCatalogService()
	sut := NewService(&fakeCatalog{service: svc}, store, newFakeCalendar(), notifier, &fakePayments{}, logger.GetDefault())

	result, err := sut.SubmitBooking(context.Background(), &BookingRequest{
		ServiceID:       svc.ID.String(),
		CustomerName:    "Jana Nováková",
		CustomerEmail:   "jana@example.com",
		CustomerPhone:   "+420777123456",
		AppointmentDate: "2025-03-14",
		AppointmentTime: "10:00",
		IsFirstVisit:    true,
		GDPRConsent:     true,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.PendingBookingID)
	assert.Equal(t, "https://pay.example/T123", result.PaymentURL)
	assert.Equal(t, calendar.StatusPendingPayment, result.Booking.Status)
	assert.Empty(t, result.Booking.ID, "no durable booking exists before payment")

	// The pending entry is retrievable by the returned id.
	pb, err := store.Get(context.Background(), result.PendingBookingID)
	require.NoError(t, err)
	assert.Equal(t, "Jana Nováková", pb.CustomerName)

	assert.Equal(t, 1, notifier.confirmations)
	assert.Equal(t, "https://pay.example/T123", notifier.lastURL)
}

func TestSubmitBookingUnknownService(t *testing.T) {
	store := pending.NewMemoryStore(30*time.Minute, nil)
	sut := NewService(&fakeCatalog{}, store, newFakeCalendar(), &fakeNotifier{}, &fakePayments{}, logger.GetDefault())

	_, err := sut.SubmitBooking(context.Background(), &BookingRequest{
		ServiceID:       uuid.NewString(),
		CustomerName:    "Jana Nováková",
		CustomerEmail:   "jana@example.com",
		CustomerPhone:   "+420777123456",
		AppointmentDate: "2025-03-14",
		AppointmentTime: "10:00",
		GDPRConsent:     true,
	})
	assert.ErrorIs(t, err, catalog.ErrServiceNotFound)
}

func TestSubmitBookingPaymentFailureReleasesPending(t *testing.T) {
	store := pending.NewMemoryStore(30*time.Minute, nil)
	notifier := &fakeNotifier{}
	svc := testCatalogService()
	sut := NewService(&fakeCatalog{service: svc}, store, newFakeCalendar(), notifier,
		&fakePayments{err: errors.New("gateway down")}, logger.GetDefault())

	_, err := sut.SubmitBooking(context.Background(), &BookingRequest{
		ServiceID:       svc.ID.String(),
		CustomerName:    "Jana Nováková",
		CustomerEmail:   "jana@example.com",
		CustomerPhone:   "+420777123456",
		AppointmentDate: "2025-03-14",
		AppointmentTime: "10:00",
		GDPRConsent:     true,
	})
	require.Error(t, err)
	assert.Equal(t, 0, notifier.confirmations, "no confirmation without a payment session")
}

func TestGetBookingAssemblesView(t *testing.T) {
	cal := newFakeCalendar()
	svc := testCatalogService()
	mat := NewMaterializer(cal, &fakeCatalog{service: svc}, &fakeNotifier{},
		config.CalendarConfig{Enabled: true}, logger.GetDefault())

	eventID, err := mat.Materialize(context.Background(), testPendingBooking(svc.ID))
	require.NoError(t, err)

	sut := NewService(&fakeCatalog{service: svc}, pending.NewMemoryStore(30*time.Minute, nil),
		cal, &fakeNotifier{}, &fakePayments{}, logger.GetDefault())

	booking, err := sut.GetBooking(context.Background(), eventID)
	require.NoError(t, err)

	assert.Equal(t, eventID.String(), booking.ID)
	assert.Equal(t, "Jana Nováková", booking.CustomerName)
	assert.Equal(t, "Dentální hygiena", booking.ServiceName)
	assert.Equal(t, int64(50000), booking.DepositAmount)
	assert.Equal(t, calendar.StatusPaid, booking.Status)
}

func TestUpdateStatusTransitions(t *testing.T) {
	cal := newFakeCalendar()
	svc := testCatalogService()
	mat := NewMaterializer(cal, &fakeCatalog{service: svc}, &fakeNotifier{},
		config.CalendarConfig{Enabled: true}, logger.GetDefault())

	eventID, err := mat.Materialize(context.Background(), testPendingBooking(svc.ID))
	require.NoError(t, err)

	sut := NewService(&fakeCatalog{service: svc}, pending.NewMemoryStore(30*time.Minute, nil),
		cal, &fakeNotifier{}, &fakePayments{}, logger.GetDefault())

	booking, err := sut.UpdateStatus(context.Background(), eventID, calendar.StatusNoShow)
	require.NoError(t, err)
	assert.Equal(t, calendar.StatusNoShow, booking.Status)

	_, err = sut.UpdateStatus(context.Background(), eventID, calendar.BookingStatus("INVALID"))
	assert.Error(t, err)
}
