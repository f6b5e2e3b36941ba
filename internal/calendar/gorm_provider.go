package calendar

import (
	"context"
	"errors"
	"fmt"

	"dently/internal/shared/config"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormProvider stores calendar events in Postgres. It keeps the same
// description/color contract as a hosted calendar, so swapping in a real
// calendar API touches nothing outside this file.
type gormProvider struct {
	db  *gorm.DB
	cfg config.CalendarConfig
}

// NewGormProvider creates a Postgres-backed calendar provider.
func NewGormProvider(db *gorm.DB, cfg config.CalendarConfig) Provider {
	return &gormProvider{db: db, cfg: cfg}
}

func (p *gormProvider) IsEnabled() bool {
	return p.cfg.Enabled && p.db != nil
}

func (p *gormProvider) CreateEvent(ctx context.Context, event *Event) (uuid.UUID, error) {
	if !p.IsEnabled() {
		return uuid.Nil, ErrNotConfigured
	}

	if event.CalendarID == "" {
		event.CalendarID = p.cfg.CalendarID
	}

	if err := p.db.WithContext(ctx).Create(event).Error; err != nil {
		return uuid.Nil, fmt.Errorf("failed to create calendar event: %w", err)
	}
	return event.ID, nil
}

func (p *gormProvider) GetEvent(ctx context.Context, eventID uuid.UUID) (*Event, error) {
	if !p.IsEnabled() {
		return nil, ErrNotConfigured
	}

	var event Event
	err := p.db.WithContext(ctx).Where("id = ?", eventID).First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar event: %w", err)
	}
	return &event, nil
}

func (p *gormProvider) UpdateEventStatus(ctx context.Context, eventID uuid.UUID, status BookingStatus) error {
	if !p.IsEnabled() {
		return ErrNotConfigured
	}

	event, err := p.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}

	// Status lives in two places on the event: the color and the
	// description's status line. Keep both in sync.
	details, err := UnmarshalDetails(event.Description)
	if err == nil {
		details.Status = status
		event.Description = MarshalDetails(details)
	}
	event.ColorID = ColorForStatus(status)

	if err := p.db.WithContext(ctx).Save(event).Error; err != nil {
		return fmt.Errorf("failed to update calendar event: %w", err)
	}
	return nil
}

func (p *gormProvider) ListEvents(ctx context.Context, fromDate, toDate string) ([]Event, error) {
	if !p.IsEnabled() {
		return nil, ErrNotConfigured
	}

	var events []Event
	err := p.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", fromDate, toDate).
		Order("date ASC, start_time ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}
	return events, nil
}
