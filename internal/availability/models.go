package availability

// TimeSlot is one bookable grid position for a single day. Ephemeral —
// recomputed on every request, never persisted.
type TimeSlot struct {
	Time      string `json:"time"` // HH:MM, 24-hour
	Available bool   `json:"available"`
}

// DayAvailability is the availability response for one calendar date.
// Closed days carry an explanatory message and an empty (non-nil) slot list.
type DayAvailability struct {
	Date    string     `json:"date"`
	Slots   []TimeSlot `json:"slots"`
	Message string     `json:"message,omitempty"`
}
