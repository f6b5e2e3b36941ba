package notifications

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCZK(t *testing.T) {
	assert.Equal(t, "500 Kč", formatCZK(50000))
	assert.Equal(t, "0 Kč", formatCZK(0))
	assert.Equal(t, "1900 Kč", formatCZK(190000))
}

func TestBookingConfirmationContainsPaymentLink(t *testing.T) {
	n := NewNotification(NotificationTypeBookingConfirmation, "jana@example.com", "Jana", "Rezervace přijata", map[string]interface{}{
		"date":        "2025-03-14",
		"time":        "10:00",
		"service":     "Dentální hygiena",
		"deposit":     "500 Kč",
		"payment_url": "https://pay.example/T123",
	})

	html, text := generateContent(n)
	assert.Contains(t, html, "https://pay.example/T123")
	assert.Contains(t, text, "https://pay.example/T123")
	assert.Contains(t, text, "30 minut")
}

func TestCancellationRefundLine(t *testing.T) {
	withRefund := NewNotification(NotificationTypeBookingCancellation, "jana@example.com", "Jana", "Rezervace zrušena", map[string]interface{}{
		"date": "2025-03-14", "time": "10:00", "service": "Dentální hygiena",
		"refund": "500 Kč",
	})
	_, text := generateContent(withRefund)
	assert.Contains(t, text, "bude vrácena")

	withoutRefund := NewNotification(NotificationTypeBookingCancellation, "jana@example.com", "Jana", "Rezervace zrušena", map[string]interface{}{
		"date": "2025-03-14", "time": "10:00", "service": "Dentální hygiena",
	})
	_, text = generateContent(withoutRefund)
	assert.Contains(t, text, "propadá")
	assert.False(t, strings.Contains(text, "bude vrácena"))
}
