package notifications

import (
	"context"
	"fmt"

	"dently/internal/shared/config"
	"dently/pkg/logger"
)

// Sender is the notification entry point used by the domain packages.
type Sender interface {
	SendBookingConfirmation(ctx context.Context, info BookingInfo, paymentURL string) error
	SendPaymentConfirmation(ctx context.Context, info BookingInfo) error
	SendReminder(ctx context.Context, info BookingInfo) error
	SendCancellation(ctx context.Context, info BookingInfo, refundAmount *int64) error
}

// Service dispatches notifications either through Kafka (for async delivery
// by the consumer workers) or directly over SMTP when Kafka is disabled.
type Service struct {
	producer     NotificationProducer
	consumer     NotificationConsumer
	emailService EmailService
	kafkaEnabled bool
	log          *logger.Logger
}

// NewService wires the notification pipeline from config. With Kafka enabled
// it creates a producer and a consumer group; otherwise it sends inline.
func NewService(cfg *config.Config, emailService EmailService, log *logger.Logger) (*Service, error) {
	svc := &Service{
		emailService: emailService,
		kafkaEnabled: cfg.Kafka.Enabled,
		log:          log,
	}

	if cfg.Kafka.Enabled {
		producer, err := NewKafkaNotificationProducer(
			DefaultKafkaProducerConfig(cfg.Kafka.Brokers, cfg.Kafka.Topic))
		if err != nil {
			return nil, fmt.Errorf("failed to create notification producer: %w", err)
		}
		svc.producer = producer

		consumer, err := NewKafkaNotificationConsumer(
			DefaultConsumerConfig(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic),
			emailService)
		if err != nil {
			producer.Close()
			return nil, fmt.Errorf("failed to create notification consumer: %w", err)
		}
		svc.consumer = consumer
	}

	return svc, nil
}

// Start launches the consumer workers when Kafka is enabled.
func (s *Service) Start(ctx context.Context, numWorkers int) error {
	if s.consumer == nil {
		return nil
	}
	return s.consumer.StartConsumers(ctx, numWorkers)
}

// Stop shuts down the Kafka pipeline.
func (s *Service) Stop() error {
	if s.consumer != nil {
		if err := s.consumer.Stop(); err != nil {
			s.log.WithError(err).Error("failed to stop notification consumer")
		}
	}
	if s.producer != nil {
		return s.producer.Close()
	}
	return nil
}

func (s *Service) dispatch(ctx context.Context, notification *EmailNotification) error {
	if s.kafkaEnabled && s.producer != nil {
		return s.producer.PublishNotification(ctx, notification)
	}
	return s.emailService.SendNotification(ctx, notification)
}

func templateData(info BookingInfo) map[string]interface{} {
	return map[string]interface{}{
		"date":    info.AppointmentDate,
		"time":    info.AppointmentTime,
		"service": info.ServiceName,
		"deposit": formatCZK(info.DepositAmount),
	}
}

// SendBookingConfirmation tells the customer how to complete the reservation.
func (s *Service) SendBookingConfirmation(ctx context.Context, info BookingInfo, paymentURL string) error {
	data := templateData(info)
	data["payment_url"] = paymentURL

	notification := NewNotification(
		NotificationTypeBookingConfirmation,
		info.CustomerEmail,
		info.CustomerName,
		"Rezervace přijata - dokončete platbu kauce",
		data,
	)
	return s.dispatch(ctx, notification)
}

// SendPaymentConfirmation confirms the appointment after the deposit is paid.
func (s *Service) SendPaymentConfirmation(ctx context.Context, info BookingInfo) error {
	notification := NewNotification(
		NotificationTypePaymentConfirmation,
		info.CustomerEmail,
		info.CustomerName,
		"Rezervace potvrzena",
		templateData(info),
	)
	return s.dispatch(ctx, notification)
}

// SendReminder notifies the customer of tomorrow's appointment.
func (s *Service) SendReminder(ctx context.Context, info BookingInfo) error {
	notification := NewNotification(
		NotificationTypeAppointmentReminder,
		info.CustomerEmail,
		info.CustomerName,
		"Připomenutí termínu",
		templateData(info),
	)
	return s.dispatch(ctx, notification)
}

// SendCancellation informs about the cancellation. A nil refundAmount means
// the deposit is forfeited.
func (s *Service) SendCancellation(ctx context.Context, info BookingInfo, refundAmount *int64) error {
	data := templateData(info)
	if refundAmount != nil {
		data["refund"] = formatCZK(*refundAmount)
	}

	notification := NewNotification(
		NotificationTypeBookingCancellation,
		info.CustomerEmail,
		info.CustomerName,
		"Rezervace zrušena",
		data,
	)
	return s.dispatch(ctx, notification)
}
