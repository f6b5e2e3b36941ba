package bookings

import (
	"context"
	"fmt"

	"dently/internal/calendar"
	"dently/internal/catalog"
	"dently/internal/notifications"
	"dently/internal/pending"
	"dently/pkg/logger"

	"github.com/google/uuid"
)

// PaymentSessionCreator starts a gateway payment session for a pending
// booking. Implemented by the payments service; declared here so the
// dependency points one way only.
type PaymentSessionCreator interface {
	CreateSession(ctx context.Context, pendingBookingID string) (paymentURL, transID string, err error)
}

// Service handles the booking submission flow and the admin views over
// materialized bookings.
type Service interface {
	SubmitBooking(ctx context.Context, req *BookingRequest) (*SubmitResult, error)
	GetBooking(ctx context.Context, eventID uuid.UUID) (*Booking, error)
	UpdateStatus(ctx context.Context, eventID uuid.UUID, status calendar.BookingStatus) (*Booking, error)
}

type service struct {
	catalog  catalog.Lookup
	store    pending.Store
	calendar calendar.Provider
	notifier notifications.Sender
	payments PaymentSessionCreator
	log      *logger.Logger
}

// NewService creates a new bookings service
func NewService(lookup catalog.Lookup, store pending.Store, provider calendar.Provider, notifier notifications.Sender, payments PaymentSessionCreator, log *logger.Logger) Service {
	return &service{
		catalog:  lookup,
		store:    store,
		calendar: provider,
		notifier: notifier,
		payments: payments,
		log:      log,
	}
}

// SubmitBooking validates the request, parks it in the pending store and
// opens a payment session. No calendar event exists until the deposit is
// paid; losing the pending entry only ever loses an unpaid booking.
func (s *service) SubmitBooking(ctx context.Context, req *BookingRequest) (*SubmitResult, error) {
	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("invalid service id %q: %w", req.ServiceID, err)
	}

	svc, err := s.catalog.GetServiceByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	pb := &pending.Booking{
		ServiceID:       svc.ID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		AppointmentDate: req.AppointmentDate,
		AppointmentTime: req.AppointmentTime,
		Notes:           req.Notes,
		IsFirstVisit:    req.IsFirstVisit,
		GDPRConsent:     req.GDPRConsent,
	}

	pendingID, err := s.store.Store(ctx, pb)
	if err != nil {
		return nil, fmt.Errorf("failed to store pending booking: %w", err)
	}

	paymentURL, _, err := s.payments.CreateSession(ctx, pendingID)
	if err != nil {
		// A pending booking without a payment session can never be paid;
		// release it immediately instead of waiting for the TTL.
		if delErr := s.store.Delete(ctx, pendingID); delErr != nil {
			s.log.WithError(delErr).Warn("failed to release pending booking after payment session failure")
		}
		return nil, fmt.Errorf("failed to create payment session: %w", err)
	}

	info := notifications.BookingInfo{
		BookingID:       pendingID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		ServiceName:     svc.Name,
		AppointmentDate: req.AppointmentDate,
		AppointmentTime: req.AppointmentTime,
		DepositAmount:   svc.DepositAmount,
	}
	if err := s.notifier.SendBookingConfirmation(ctx, info, paymentURL); err != nil {
		s.log.WithError(err).Warn("failed to send booking confirmation")
	}

	return &SubmitResult{
		PendingBookingID: pendingID,
		Booking: Booking{
			CustomerName:    req.CustomerName,
			CustomerEmail:   req.CustomerEmail,
			CustomerPhone:   req.CustomerPhone,
			AppointmentDate: req.AppointmentDate,
			AppointmentTime: req.AppointmentTime,
			ServiceID:       svc.ID.String(),
			ServiceName:     svc.Name,
			DepositAmount:   svc.DepositAmount,
			Notes:           req.Notes,
			IsFirstVisit:    req.IsFirstVisit,
			Status:          calendar.StatusPendingPayment,
		},
		PaymentURL: paymentURL,
	}, nil
}

// GetBooking loads a materialized booking by its calendar event id.
func (s *service) GetBooking(ctx context.Context, eventID uuid.UUID) (*Booking, error) {
	event, err := s.calendar.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return s.toBooking(ctx, event)
}

// UpdateStatus transitions a booking to the given status. Administrative
// path only; the public API never mutates status directly.
func (s *service) UpdateStatus(ctx context.Context, eventID uuid.UUID, status calendar.BookingStatus) (*Booking, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid booking status %q", status)
	}

	if err := s.calendar.UpdateEventStatus(ctx, eventID, status); err != nil {
		return nil, err
	}

	event, err := s.calendar.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return s.toBooking(ctx, event)
}

func (s *service) toBooking(ctx context.Context, event *calendar.Event) (*Booking, error) {
	details, err := calendar.UnmarshalDetails(event.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to parse event description: %w", err)
	}

	booking := &Booking{
		ID:              event.ID.String(),
		CustomerName:    details.Name,
		CustomerEmail:   details.Email,
		CustomerPhone:   details.Phone,
		AppointmentDate: event.Date,
		AppointmentTime: event.StartTime,
		ServiceID:       details.ServiceID,
		DepositAmount:   details.Deposit,
		Notes:           details.Notes,
		IsFirstVisit:    details.FirstVisit,
		Status:          event.Status(),
	}

	// Service name is best effort: a removed catalog entry must not make
	// an existing booking unreadable.
	if serviceID, err := uuid.Parse(details.ServiceID); err == nil {
		if svc, err := s.catalog.GetServiceByID(ctx, serviceID); err == nil {
			booking.ServiceName = svc.Name
		}
	}

	return booking, nil
}
