package cancellation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dently/internal/calendar"
	"dently/internal/catalog"
	"dently/internal/notifications"
	"dently/pkg/logger"

	"github.com/google/uuid"
)

// ErrAlreadyCancelled is returned when the booking is already in the
// cancelled state. A client error, not retried.
var ErrAlreadyCancelled = errors.New("booking already cancelled")

// Result reports the outcome of a cancellation.
type Result struct {
	BookingID      string                 `json:"id"`
	Status         calendar.BookingStatus `json:"status"`
	RefundEligible bool                   `json:"refundEligible"`
	RefundAmount   *int64                 `json:"refundAmount,omitempty"` // minor units; nil = deposit forfeited
}

// RefundEligible decides whether cancelling at `now` refunds the deposit for
// an appointment starting at `appointmentAt`. The policy is a strict cutoff:
// eligible iff now <= appointmentAt - cutoff. Pure function so the boundary
// is directly testable.
func RefundEligible(now, appointmentAt time.Time, cutoff time.Duration) bool {
	return !now.After(appointmentAt.Add(-cutoff))
}

// Service cancels materialized bookings and computes refund eligibility.
type Service interface {
	Cancel(ctx context.Context, bookingID uuid.UUID, reason string, skipEmail bool) (*Result, error)
}

type service struct {
	calendar calendar.Provider
	catalog  catalog.Lookup
	notifier notifications.Sender
	cutoff   time.Duration
	loc      *time.Location
	now      func() time.Time
	log      *logger.Logger
}

// NewService creates a new cancellation service. A nil now falls back to the
// wall clock; tests inject a fake.
func NewService(provider calendar.Provider, lookup catalog.Lookup, notifier notifications.Sender, cutoff time.Duration, now func() time.Time, log *logger.Logger) Service {
	if now == nil {
		now = time.Now
	}

	// Appointment times are clinic-local wall times.
	loc, err := time.LoadLocation("Europe/Prague")
	if err != nil {
		loc = time.Local
	}

	return &service{
		calendar: provider,
		catalog:  lookup,
		notifier: notifier,
		cutoff:   cutoff,
		loc:      loc,
		now:      now,
		log:      log,
	}
}

// Cancel transitions the booking to CANCELLED and reports refund
// eligibility. The status transition is the authoritative outcome; the
// cancellation email is best effort only.
func (s *service) Cancel(ctx context.Context, bookingID uuid.UUID, reason string, skipEmail bool) (*Result, error) {
	event, err := s.calendar.GetEvent(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if event.Status() == calendar.StatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	details, err := calendar.UnmarshalDetails(event.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to parse event description: %w", err)
	}

	appointmentAt, err := time.ParseInLocation("2006-01-02 15:04", event.Date+" "+event.StartTime, s.loc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse appointment time: %w", err)
	}

	eligible := RefundEligible(s.now().In(s.loc), appointmentAt, s.cutoff)
	var refundAmount *int64
	if eligible {
		refundAmount = &details.Deposit
	}

	if err := s.calendar.UpdateEventStatus(ctx, bookingID, calendar.StatusCancelled); err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}

	var loggedRefund int64
	if refundAmount != nil {
		loggedRefund = *refundAmount
	}
	s.log.LogBookingCancelled(ctx, bookingID.String(), eligible, loggedRefund)

	if !skipEmail {
		info := notifications.BookingInfo{
			BookingID:       bookingID.String(),
			CustomerName:    details.Name,
			CustomerEmail:   details.Email,
			ServiceName:     s.serviceName(ctx, details.ServiceID),
			AppointmentDate: event.Date,
			AppointmentTime: event.StartTime,
			DepositAmount:   details.Deposit,
		}
		if err := s.notifier.SendCancellation(ctx, info, refundAmount); err != nil {
			s.log.WithError(err).Warn("failed to send cancellation email")
		}
	}

	return &Result{
		BookingID:      bookingID.String(),
		Status:         calendar.StatusCancelled,
		RefundEligible: eligible,
		RefundAmount:   refundAmount,
	}, nil
}

func (s *service) serviceName(ctx context.Context, serviceID string) string {
	id, err := uuid.Parse(serviceID)
	if err != nil {
		return ""
	}
	svc, err := s.catalog.GetServiceByID(ctx, id)
	if err != nil {
		return ""
	}
	return svc.Name
}
