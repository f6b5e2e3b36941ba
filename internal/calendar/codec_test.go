package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetailsRoundTrip(t *testing.T) {
	in := EventDetails{
		Phone:      "+420777123456",
		Email:      "jana@example.com",
		Name:       "Jana Nováková",
		FirstVisit: true,
		Notes:      "citlivé zuby",
		Deposit:    50000,
		Status:     StatusPaid,
		ServiceID:  "3f2d9c1e-8a4b-4c6d-9e0f-1a2b3c4d5e6f",
	}

	out, err := UnmarshalDetails(MarshalDetails(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestMarshalDetailsFormat(t *testing.T) {
	got := MarshalDetails(EventDetails{
		Phone:     "+420777123456",
		Email:     "jana@example.com",
		Name:      "Jana Nováková",
		Deposit:   50000,
		Status:    StatusPendingPayment,
		ServiceID: "svc-1",
	})

	want := "kontakt: +420777123456\n" +
		"email: jana@example.com\n" +
		"jméno: Jana Nováková\n" +
		"první návštěva: ne\n" +
		"poznámka: \n" +
		"kauce: 50000\n" +
		"status: PENDING_PAYMENT\n" +
		"serviceId: svc-1"
	assert.Equal(t, want, got)
}

func TestUnmarshalDetailsSkipsUnknownLines(t *testing.T) {
	description := "kontakt: 123\n" +
		"ručně přidaná poznámka bez dvojtečky\n" +
		"neznámý klíč: hodnota\n" +
		"jméno: Petr"

	out, err := UnmarshalDetails(description)
	require.NoError(t, err)
	assert.Equal(t, "123", out.Phone)
	assert.Equal(t, "Petr", out.Name)
}

func TestUnmarshalDetailsBadDeposit(t *testing.T) {
	_, err := UnmarshalDetails("kauce: pět set")
	assert.Error(t, err)
}

func TestStatusColorMappingIsBidirectional(t *testing.T) {
	statuses := []BookingStatus{StatusPaid, StatusPendingPayment, StatusNoShow, StatusCancelled}
	for _, status := range statuses {
		assert.Equal(t, status, StatusFromColor(ColorForStatus(status)), "status %s", status)
	}
}

func TestStatusFromUnknownColorBlocksSlot(t *testing.T) {
	// Hand-created events with arbitrary colors must still occupy their slot.
	status := StatusFromColor("3")
	assert.Equal(t, StatusPendingPayment, status)
	assert.True(t, status.IsActive())
}

func TestCancelledStatusIsNotActive(t *testing.T) {
	assert.False(t, StatusCancelled.IsActive())
	assert.True(t, StatusPaid.IsActive())
	assert.True(t, StatusNoShow.IsActive())
}
