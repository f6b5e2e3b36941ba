package pending

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Booking is an in-flight, unpaid reservation. It lives only inside the
// pending store for the payment window; it is never written to the durable
// store, so a restart can only ever lose unpaid bookings.
type Booking struct {
	ID              string    `json:"id"`
	ServiceID       uuid.UUID `json:"serviceId"`
	CustomerName    string    `json:"customerName"`
	CustomerEmail   string    `json:"customerEmail"`
	CustomerPhone   string    `json:"customerPhone"`
	AppointmentDate string    `json:"appointmentDate"` // YYYY-MM-DD
	AppointmentTime string    `json:"appointmentTime"` // HH:MM
	Notes           string    `json:"notes,omitempty"`
	IsFirstVisit    bool      `json:"isFirstVisit"`
	GDPRConsent     bool      `json:"gdprConsent"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ToJSON serializes the booking for the Redis value.
func (b *Booking) ToJSON() ([]byte, error) {
	return json.Marshal(b)
}

// FromJSON deserializes a booking from the Redis value.
func FromJSON(data []byte) (*Booking, error) {
	var b Booking
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	return &b, nil
}
