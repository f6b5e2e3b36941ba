package calendar

// Google-style color ids used on the clinic calendar. The receptionist reads
// appointment state off the event color, so the mapping is part of the
// external contract and must stay bidirectional.
const (
	colorGreen  = "10" // Basil
	colorOrange = "6"  // Tangerine
	colorGray   = "8"  // Graphite
	colorRed    = "11" // Tomato
)

var statusToColor = map[BookingStatus]string{
	StatusPaid:           colorGreen,
	StatusPendingPayment: colorOrange,
	StatusNoShow:         colorGray,
	StatusCancelled:      colorRed,
}

var colorToStatus = map[string]BookingStatus{
	colorGreen:  StatusPaid,
	colorOrange: StatusPendingPayment,
	colorGray:   StatusNoShow,
	colorRed:    StatusCancelled,
}

// ColorForStatus translates an internal status into the calendar color id.
func ColorForStatus(status BookingStatus) string {
	if color, ok := statusToColor[status]; ok {
		return color
	}
	return colorOrange
}

// StatusFromColor translates a calendar color id back into the internal status.
// Unknown colors (events created by hand on the clinic calendar) count as
// PENDING_PAYMENT so they still block their slot.
func StatusFromColor(colorID string) BookingStatus {
	if status, ok := colorToStatus[colorID]; ok {
		return status
	}
	return StatusPendingPayment
}
