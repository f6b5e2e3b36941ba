package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeBookingConfirmation NotificationType = "BOOKING_CONFIRMATION"
	NotificationTypePaymentConfirmation NotificationType = "PAYMENT_CONFIRMATION"
	NotificationTypeAppointmentReminder NotificationType = "APPOINTMENT_REMINDER"
	NotificationTypeBookingCancellation NotificationType = "BOOKING_CANCELLATION"
)

type NotificationStatus string

const (
	NotificationStatusPending  NotificationStatus = "PENDING"
	NotificationStatusQueued   NotificationStatus = "QUEUED"
	NotificationStatusSending  NotificationStatus = "SENDING"
	NotificationStatusSent     NotificationStatus = "SENT"
	NotificationStatusFailed   NotificationStatus = "FAILED"
	NotificationStatusRetrying NotificationStatus = "RETRYING"
)

// BookingInfo carries the appointment fields the email bodies need.
// Defined here so domain packages can notify without import cycles.
type BookingInfo struct {
	BookingID       string `json:"booking_id,omitempty"`
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	ServiceName     string `json:"service_name"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
	DepositAmount   int64  `json:"deposit_amount"` // minor units
}

// EmailNotification is the unit of work flowing through the queue (or sent
// directly when Kafka is not configured).
type EmailNotification struct {
	ID   uuid.UUID        `json:"id"`
	Type NotificationType `json:"type"`

	RecipientEmail string `json:"recipient_email"`
	RecipientName  string `json:"recipient_name"`

	Subject      string                 `json:"subject"`
	TemplateData map[string]interface{} `json:"template_data"`

	Status     NotificationStatus `json:"status"`
	RetryCount int                `json:"retry_count"`
	MaxRetries int                `json:"max_retries"`
	LastError  *string            `json:"last_error,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
	SentAt     *time.Time         `json:"sent_at,omitempty"`
}

// NewNotification creates a pending notification for a recipient.
func NewNotification(notType NotificationType, email, name, subject string, data map[string]interface{}) *EmailNotification {
	now := time.Now()
	if data == nil {
		data = make(map[string]interface{})
	}
	return &EmailNotification{
		ID:             uuid.New(),
		Type:           notType,
		RecipientEmail: email,
		RecipientName:  name,
		Subject:        subject,
		TemplateData:   data,
		Status:         NotificationStatusPending,
		MaxRetries:     3,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// GetPartitionKey routes all of a recipient's notifications to one partition.
func (en *EmailNotification) GetPartitionKey() string {
	return en.RecipientEmail
}

func (en *EmailNotification) ToJSON() ([]byte, error) {
	return json.Marshal(en)
}

func (en *EmailNotification) MarkSent() {
	now := time.Now()
	en.Status = NotificationStatusSent
	en.SentAt = &now
	en.UpdatedAt = now
}

func (en *EmailNotification) MarkFailed(err error) {
	now := time.Now()
	en.Status = NotificationStatusFailed
	en.UpdatedAt = now

	errorStr := err.Error()
	en.LastError = &errorStr
}
