package availability

import (
	"context"
	"fmt"
	"time"

	"dently/internal/calendar"
	"dently/internal/shared/config"
)

const dateLayout = "2006-01-02"

// ErrInvalidDate is returned for dates that do not parse as YYYY-MM-DD.
var ErrInvalidDate = fmt.Errorf("invalid date, expected YYYY-MM-DD")

// Service computes bookable slots for a calendar date.
type Service interface {
	GetAvailableSlots(ctx context.Context, date string) (*DayAvailability, error)
}

type service struct {
	provider calendar.Provider
	clinic   config.ClinicConfig
}

// NewService creates a new availability service instance
func NewService(provider calendar.Provider, clinic config.ClinicConfig) Service {
	return &service{
		provider: provider,
		clinic:   clinic,
	}
}

// GetAvailableSlots derives the slot list for a date from the current
// calendar state. No caching: availability is a safety property, so it is
// re-derived on every request.
func (s *service) GetAvailableSlots(ctx context.Context, date string) (*DayAvailability, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	// Weekends are closed days, not errors.
	if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return &DayAvailability{
			Date:    date,
			Slots:   []TimeSlot{},
			Message: "O víkendu je ordinace zavřená.",
		}, nil
	}

	events, err := s.provider.ListEvents(ctx, date, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations for %s: %w", date, err)
	}

	// Cancelled events free their slot; everything else blocks it.
	reserved := make(map[string]bool)
	for _, event := range events {
		if event.Status().IsActive() {
			reserved[event.StartTime] = true
		}
	}

	grid := s.slotGrid()
	slots := make([]TimeSlot, 0, len(grid))
	for _, t := range grid {
		slots = append(slots, TimeSlot{
			Time:      t,
			Available: !reserved[t],
		})
	}

	return &DayAvailability{
		Date:  date,
		Slots: slots,
	}, nil
}

// slotGrid generates all grid times between opening and closing, skipping
// any slot that overlaps the lunch break.
func (s *service) slotGrid() []string {
	openMin := s.clinic.OpeningHour * 60
	closeMin := s.clinic.ClosingHour * 60
	step := s.clinic.SlotMinutes

	var grid []string
	for start := openMin; start+step <= closeMin; start += step {
		end := start + step
		if start < s.clinic.LunchToMin && end > s.clinic.LunchFromMin {
			continue
		}
		grid = append(grid, fmt.Sprintf("%02d:%02d", start/60, start%60))
	}
	return grid
}
