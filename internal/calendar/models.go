package calendar

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the internal appointment state. Externally it is encoded
// as an event color, never stored as text on the calendar side.
type BookingStatus string

const (
	StatusPendingPayment BookingStatus = "PENDING_PAYMENT"
	StatusPaid           BookingStatus = "PAID"
	StatusNoShow         BookingStatus = "NO_SHOW"
	StatusCancelled      BookingStatus = "CANCELLED"
)

// IsValid checks if the booking status is valid
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPendingPayment, StatusPaid, StatusNoShow, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of BookingStatus
func (s BookingStatus) String() string {
	return string(s)
}

// IsActive reports whether the appointment still occupies its slot.
func (s BookingStatus) IsActive() bool {
	return s != StatusCancelled
}

// Event is a durable calendar entry. One event per confirmed appointment;
// cancellation recolors the event, it never deletes it.
type Event struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CalendarID  string    `gorm:"index;not null" json:"calendarId"`
	Summary     string    `gorm:"not null" json:"summary"`
	Description string    `gorm:"type:text" json:"description"`
	Date        string    `gorm:"type:varchar(10);index;not null" json:"date"`      // YYYY-MM-DD
	StartTime   string    `gorm:"type:varchar(5);not null" json:"startTime"`        // HH:MM
	EndTime     string    `gorm:"type:varchar(5);not null" json:"endTime"`          // HH:MM
	ColorID     string    `gorm:"type:varchar(2);not null;default:'6'" json:"colorId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName sets the table name for Event
func (Event) TableName() string {
	return "calendar_events"
}

// Status derives the internal booking status from the event color.
func (e *Event) Status() BookingStatus {
	return StatusFromColor(e.ColorID)
}
