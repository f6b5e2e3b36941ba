package payments

import (
	"context"
	"errors"
)

// Status is the provider-verified payment state.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusPaid       Status = "PAID"
	StatusCancelled  Status = "CANCELLED"
	StatusAuthorized Status = "AUTHORIZED"
)

// ErrTransactionNotFound is returned when the gateway does not know the
// transaction id.
var ErrTransactionNotFound = errors.New("payment transaction not found")

// Session is a created gateway transaction the customer is redirected to.
type Session struct {
	TransID    string
	PaymentURL string
}

// SessionRequest describes the payment to open with the gateway.
type SessionRequest struct {
	Amount      int64  // minor units
	Currency    string
	ExternalRef string // pending-booking id, echoed back as refId
	Email       string
	Label       string
}

// Provider is the payment-gateway boundary. VerifyPayment is the only
// trusted source of payment state; webhook payloads never are.
type Provider interface {
	CreatePaymentSession(ctx context.Context, req SessionRequest) (*Session, error)
	VerifyPayment(ctx context.Context, transID string) (Status, error)
}
