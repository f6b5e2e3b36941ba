package reminders

import (
	"context"
	"fmt"
	"time"

	"dently/internal/calendar"
	"dently/internal/catalog"
	"dently/internal/notifications"
	"dently/pkg/logger"

	"github.com/google/uuid"
)

// Results summarizes one reminder run.
type Results struct {
	Total   int      `json:"total"`
	Sent    int      `json:"sent"`
	Skipped int      `json:"skipped"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// Service sends appointment reminders for the next day's paid bookings.
type Service interface {
	SendReminders(ctx context.Context) (*Results, error)
}

type service struct {
	calendar calendar.Provider
	catalog  catalog.Lookup
	notifier notifications.Sender
	now      func() time.Time
	log      *logger.Logger
}

// NewService creates a new reminders service. A nil now falls back to the
// wall clock.
func NewService(provider calendar.Provider, lookup catalog.Lookup, notifier notifications.Sender, now func() time.Time, log *logger.Logger) Service {
	if now == nil {
		now = time.Now
	}
	return &service{
		calendar: provider,
		catalog:  lookup,
		notifier: notifier,
		now:      now,
		log:      log,
	}
}

// SendReminders emails every customer with a PAID appointment tomorrow.
// Individual failures are collected, not fatal: one bad address must not
// block the rest of the day's reminders.
func (s *service) SendReminders(ctx context.Context) (*Results, error) {
	tomorrow := s.now().AddDate(0, 0, 1).Format("2006-01-02")

	events, err := s.calendar.ListEvents(ctx, tomorrow, tomorrow)
	if err != nil {
		return nil, fmt.Errorf("failed to list events for %s: %w", tomorrow, err)
	}

	results := &Results{Total: len(events)}

	for i := range events {
		event := &events[i]

		if event.Status() != calendar.StatusPaid {
			results.Skipped++
			continue
		}

		details, err := calendar.UnmarshalDetails(event.Description)
		if err != nil {
			results.Failed++
			results.Errors = append(results.Errors, fmt.Sprintf("%s: %v", event.ID, err))
			continue
		}

		info := notifications.BookingInfo{
			BookingID:       event.ID.String(),
			CustomerName:    details.Name,
			CustomerEmail:   details.Email,
			ServiceName:     s.serviceName(ctx, details.ServiceID),
			AppointmentDate: event.Date,
			AppointmentTime: event.StartTime,
			DepositAmount:   details.Deposit,
		}

		if err := s.notifier.SendReminder(ctx, info); err != nil {
			results.Failed++
			results.Errors = append(results.Errors, fmt.Sprintf("%s: %v", event.ID, err))
			continue
		}
		results.Sent++
	}

	s.log.InfoWithContext(ctx, "Reminder run finished", map[string]interface{}{
		"date":    tomorrow,
		"total":   results.Total,
		"sent":    results.Sent,
		"skipped": results.Skipped,
		"failed":  results.Failed,
	})

	return results, nil
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
