package payments

import (
	"context"
	"errors"
	"fmt"

	"dently/internal/catalog"
	"dently/internal/pending"
	"dently/internal/shared/config"
	"dently/pkg/logger"

	"github.com/google/uuid"
)

// Materializer turns a paid pending booking into a durable appointment.
// Implemented by the bookings package.
type Materializer interface {
	Materialize(ctx context.Context, booking *pending.Booking) (uuid.UUID, error)
}

// WebhookNotification is the untrusted provider callback payload. Only
// TransID and RefID are ever acted on; the status it carries is re-verified
// against the gateway before anything happens.
type WebhookNotification struct {
	TransID string `form:"transId" json:"transId" binding:"required"`
	RefID   string `form:"refId" json:"refId" binding:"required"`
	Status  string `form:"status" json:"status"`
	Price   string `form:"price" json:"price"`
	Curr    string `form:"curr" json:"curr"`
	Email   string `form:"email" json:"email"`
}

// Service orchestrates payment sessions and webhook-driven materialization.
type Service interface {
	CreateSession(ctx context.Context, pendingBookingID string) (paymentURL, transID string, err error)
	HandleWebhook(ctx context.Context, notification *WebhookNotification) error
}

type service struct {
	provider     Provider
	store        pending.Store
	catalog      catalog.Lookup
	materializer Materializer
	cfg          config.BookingConfig
	log          *logger.Logger
}

// NewService creates a new payments service
func NewService(provider Provider, store pending.Store, lookup catalog.Lookup, materializer Materializer, cfg config.BookingConfig, log *logger.Logger) Service {
	return &service{
		provider:     provider,
		store:        store,
		catalog:      lookup,
		materializer: materializer,
		cfg:          cfg,
		log:          log,
	}
}

// CreateSession opens a gateway transaction for the pending booking's deposit.
// The pending-booking id travels as the gateway's external reference, so the
// webhook can find its way back.
func (s *service) CreateSession(ctx context.Context, pendingBookingID string) (string, string, error) {
	pb, err := s.store.Get(ctx, pendingBookingID)
	if err != nil {
		return "", "", err
	}

	svc, err := s.catalog.GetServiceByID(ctx, pb.ServiceID)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve service for payment: %w", err)
	}

	session, err := s.provider.CreatePaymentSession(ctx, SessionRequest{
		Amount:      svc.DepositAmount,
		Currency:    s.cfg.Currency,
		ExternalRef: pb.ID,
		Email:       pb.CustomerEmail,
		Label:       fmt.Sprintf("Kauce - %s", svc.Name),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to create payment session: %w", err)
	}

	return session.PaymentURL, session.TransID, nil
}

// HandleWebhook processes a provider callback. The payload is untrusted:
// the status is always re-verified with the gateway before the pending
// booking is claimed or discarded. Duplicate deliveries are no-ops because
// the first successful claim removes the pending entry.
func (s *service) HandleWebhook(ctx context.Context, n *WebhookNotification) error {
	status, err := s.provider.VerifyPayment(ctx, n.TransID)
	if err != nil {
		s.log.LogWebhookProcessed(ctx, n.TransID, n.RefID, n.Status, "verification_failed")
		return fmt.Errorf("failed to verify payment %s: %w", n.TransID, err)
	}

	switch status {
	case StatusPaid:
		pb, err := s.store.Claim(ctx, n.RefID)
		if errors.Is(err, pending.ErrNotFound) {
			// Expired, or another delivery already won the claim.
			s.log.LogWebhookProcessed(ctx, n.TransID, n.RefID, string(status), "already_handled")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to claim pending booking %s: %w", n.RefID, err)
		}

		if _, err := s.materializer.Materialize(ctx, pb); err != nil {
			// The deposit is paid but no appointment exists. This needs
			// manual reconciliation; it must never be silent.
			s.log.LogPaymentOrphaned(ctx, n.TransID, n.RefID, err)
			return fmt.Errorf("failed to materialize paid booking %s: %w", n.RefID, err)
		}

		s.log.LogWebhookProcessed(ctx, n.TransID, n.RefID, string(status), "materialized")
		return nil

	case StatusCancelled:
		if err := s.store.Delete(ctx, n.RefID); err != nil {
			return fmt.Errorf("failed to discard pending booking %s: %w", n.RefID, err)
		}
		s.log.LogWebhookProcessed(ctx, n.TransID, n.RefID, string(status), "discarded")
		return nil

	default:
		// PENDING / AUTHORIZED: not final, wait for the next callback.
		s.log.LogWebhookProcessed(ctx, n.TransID, n.RefID, string(status), "ignored")
		return nil
	}
}
