package calendar

import (
	"fmt"
	"strconv"
	"strings"
)

// EventDetails is the structured payload carried in the event description.
// The description is an ordered key:value-per-line block in Czech, parsed by
// the receptionist's calendar tooling, so key names and order are fixed.
type EventDetails struct {
	Phone      string
	Email      string
	Name       string
	FirstVisit bool
	Notes      string
	Deposit    int64 // minor units (halers)
	Status     BookingStatus
	ServiceID  string
}

const (
	keyPhone      = "kontakt"
	keyEmail      = "email"
	keyName       = "jméno"
	keyFirstVisit = "první návštěva"
	keyNotes      = "poznámka"
	keyDeposit    = "kauce"
	keyStatus     = "status"
	keyServiceID  = "serviceId"
)

// MarshalDetails renders the ordered description block.
func MarshalDetails(d EventDetails) string {
	firstVisit := "ne"
	if d.FirstVisit {
		firstVisit = "ano"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", keyPhone, d.Phone)
	fmt.Fprintf(&b, "%s: %s\n", keyEmail, d.Email)
	fmt.Fprintf(&b, "%s: %s\n", keyName, d.Name)
	fmt.Fprintf(&b, "%s: %s\n", keyFirstVisit, firstVisit)
	fmt.Fprintf(&b, "%s: %s\n", keyNotes, d.Notes)
	fmt.Fprintf(&b, "%s: %d\n", keyDeposit, d.Deposit)
	fmt.Fprintf(&b, "%s: %s\n", keyStatus, d.Status)
	fmt.Fprintf(&b, "%s: %s", keyServiceID, d.ServiceID)
	return b.String()
}

// UnmarshalDetails parses a description block back into EventDetails.
// Unknown lines are skipped so hand-edited events still parse.
func UnmarshalDetails(description string) (EventDetails, error) {
	var d EventDetails

	for _, line := range strings.Split(description, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case keyPhone:
			d.Phone = value
		case keyEmail:
			d.Email = value
		case keyName:
			d.Name = value
		case keyFirstVisit:
			d.FirstVisit = value == "ano"
		case keyNotes:
			d.Notes = value
		case keyDeposit:
			deposit, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return EventDetails{}, fmt.Errorf("invalid deposit value %q: %w", value, err)
			}
			d.Deposit = deposit
		case keyStatus:
			d.Status = BookingStatus(value)
		case keyServiceID:
			d.ServiceID = value
		}
	}

	return d, nil
}
