package bookings

import (
	"dently/internal/calendar"
)

// BookingRequest is the public booking submission payload.
type BookingRequest struct {
	ServiceID       string `json:"serviceId" binding:"required,uuid"`
	CustomerName    string `json:"customerName" binding:"required,min=2,max=100"`
	CustomerEmail   string `json:"customerEmail" binding:"required,email"`
	CustomerPhone   string `json:"customerPhone" binding:"required,min=6,max=20"`
	AppointmentDate string `json:"appointmentDate" binding:"required,datetime=2006-01-02"`
	AppointmentTime string `json:"appointmentTime" binding:"required,datetime=15:04"`
	Notes           string `json:"notes" binding:"max=500"`
	IsFirstVisit    bool   `json:"isFirstVisit"`
	GDPRConsent     bool   `json:"gdprConsent" binding:"eq=true"`
}

// Booking is the external appointment view assembled from a calendar event.
type Booking struct {
	ID              string                 `json:"id"`
	CustomerName    string                 `json:"customerName"`
	CustomerEmail   string                 `json:"customerEmail"`
	CustomerPhone   string                 `json:"customerPhone"`
	AppointmentDate string                 `json:"appointmentDate"`
	AppointmentTime string                 `json:"appointmentTime"`
	ServiceID       string                 `json:"serviceId"`
	ServiceName     string                 `json:"serviceName"`
	DepositAmount   int64                  `json:"depositAmount"`
	Notes           string                 `json:"notes,omitempty"`
	IsFirstVisit    bool                   `json:"isFirstVisit"`
	Status          calendar.BookingStatus `json:"status"`
}

// SubmitResult is the response payload for a successful booking submission.
// The booking inside is the not-yet-materialized view; it gets a calendar id
// only after the deposit is paid.
type SubmitResult struct {
	PendingBookingID string  `json:"pendingBookingId"`
	Booking          Booking `json:"booking"`
	PaymentURL       string  `json:"paymentUrl"`
}

// UpdateStatusRequest is the admin status transition payload.
type UpdateStatusRequest struct {
	Status calendar.BookingStatus `json:"status" binding:"required"`
}
