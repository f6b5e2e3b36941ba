package bookings

import (
	"context"
	"fmt"
	"time"

	"dently/internal/calendar"
	"dently/internal/catalog"
	"dently/internal/notifications"
	"dently/internal/pending"
	"dently/internal/shared/config"
	"dently/pkg/logger"

	"github.com/google/uuid"
)

// Materializer converts a paid pending booking into a durable calendar event.
// It is the only creation path for confirmed appointments; nothing else
// writes events for the booking pipeline.
type Materializer struct {
	calendar calendar.Provider
	catalog  catalog.Lookup
	notifier notifications.Sender
	cfg      config.CalendarConfig
	log      *logger.Logger
}

// NewMaterializer creates a new booking materializer
func NewMaterializer(provider calendar.Provider, lookup catalog.Lookup, notifier notifications.Sender, cfg config.CalendarConfig, log *logger.Logger) *Materializer {
	return &Materializer{
		calendar: provider,
		catalog:  lookup,
		notifier: notifier,
		cfg:      cfg,
		log:      log,
	}
}

// Materialize creates the calendar event for a paid booking and sends the
// payment confirmation. The event must exist before the confirmation goes
// out; a calendar failure propagates so the caller can treat the paid
// booking as an incident, while an email failure is logged only.
func (m *Materializer) Materialize(ctx context.Context, pb *pending.Booking) (uuid.UUID, error) {
	service, err := m.catalog.GetServiceByID(ctx, pb.ServiceID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to resolve service for booking: %w", err)
	}

	event := &calendar.Event{
		CalendarID: m.cfg.CalendarID,
		Summary:    fmt.Sprintf("%s - %s", service.Name, pb.CustomerName),
		Description: calendar.MarshalDetails(calendar.EventDetails{
			Phone:      pb.CustomerPhone,
			Email:      pb.CustomerEmail,
			Name:       pb.CustomerName,
			FirstVisit: pb.IsFirstVisit,
			Notes:      pb.Notes,
			Deposit:    service.DepositAmount,
			Status:     calendar.StatusPaid,
			ServiceID:  service.ID.String(),
		}),
		Date:      pb.AppointmentDate,
		StartTime: pb.AppointmentTime,
		EndTime:   addMinutes(pb.AppointmentTime, service.DurationMinutes),
		ColorID:   calendar.ColorForStatus(calendar.StatusPaid),
	}

	eventID, err := m.calendar.CreateEvent(ctx, event)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create calendar event: %w", err)
	}

	m.log.LogBookingMaterialized(ctx, eventID.String(), pb.ID, service.ID.String())

	info := notifications.BookingInfo{
		BookingID:       eventID.String(),
		CustomerName:    pb.CustomerName,
		CustomerEmail:   pb.CustomerEmail,
		ServiceName:     service.Name,
		AppointmentDate: pb.AppointmentDate,
		AppointmentTime: pb.AppointmentTime,
		DepositAmount:   service.DepositAmount,
	}
	if err := m.notifier.SendPaymentConfirmation(ctx, info); err != nil {
		m.log.ErrorWithContext(ctx, "failed to send payment confirmation", err, map[string]interface{}{
			"event_id": eventID.String(),
		})
	}

	return eventID, nil
}

// addMinutes shifts an HH:MM value forward by the given number of minutes.
func addMinutes(hhmm string, minutes int) string {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return hhmm
	}
	return t.Add(time.Duration(minutes) * time.Minute).Format("15:04")
}
