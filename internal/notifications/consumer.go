package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/IBM/sarama"
)

// NotificationConsumer consumes queued notifications and delivers them.
type NotificationConsumer interface {
	StartConsumers(ctx context.Context, numWorkers int) error
	Stop() error
}

// ConsumerConfig holds consumer-group tuning.
type ConsumerConfig struct {
	Brokers              []string
	GroupID              string
	Topics               []string
	SessionTimeoutMs     int
	HeartbeatMs          int
	MaxRetries           int
	RetryBackoffDuration time.Duration
}

// DefaultConsumerConfig returns a default consumer configuration
func DefaultConsumerConfig(brokers []string, groupID, topic string) *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:              brokers,
		GroupID:              groupID,
		Topics:               []string{topic},
		SessionTimeoutMs:     30000,
		HeartbeatMs:          3000,
		MaxRetries:           3,
		RetryBackoffDuration: time.Second,
	}
}

// KafkaNotificationConsumer delivers queued notifications over SMTP.
type KafkaNotificationConsumer struct {
	consumerGroup sarama.ConsumerGroup
	config        *ConsumerConfig
	emailService  EmailService
	cancel        context.CancelFunc
}

// NewKafkaNotificationConsumer creates a consumer group for the notification topic.
func NewKafkaNotificationConsumer(config *ConsumerConfig, emailService EmailService) (NotificationConsumer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Consumer.Group.Session.Timeout = time.Duration(config.SessionTimeoutMs) * time.Millisecond
	saramaConfig.Consumer.Group.Heartbeat.Interval = time.Duration(config.HeartbeatMs) * time.Millisecond
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = 1 * time.Second

	consumerGroup, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &KafkaNotificationConsumer{
		consumerGroup: consumerGroup,
		config:        config,
		emailService:  emailService,
	}, nil
}

// StartConsumers starts the worker goroutines.
func (knc *KafkaNotificationConsumer) StartConsumers(ctx context.Context, numWorkers int) error {
	ctx, knc.cancel = context.WithCancel(ctx)

	go knc.handleErrors()

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			knc.runWorker(ctx, workerID)
		}(i)
	}

	log.Printf("Started %d notification consumer workers for topics %v", numWorkers, knc.config.Topics)
	return nil
}

func (knc *KafkaNotificationConsumer) runWorker(ctx context.Context, workerID int) {
	handler := &consumerGroupHandler{
		workerID:     workerID,
		emailService: knc.emailService,
		maxRetries:   knc.config.MaxRetries,
		backoff:      knc.config.RetryBackoffDuration,
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
			if err := knc.consumerGroup.Consume(ctx, knc.config.Topics, handler); err != nil {
				log.Printf("Worker %d error consuming messages: %v", workerID, err)
				time.Sleep(time.Second)
			}
		}
	}
}

func (knc *KafkaNotificationConsumer) handleErrors() {
	for err := range knc.consumerGroup.Errors() {
		log.Printf("Consumer group error: %v", err)
	}
}

// Stop shuts down the consumer group.
func (knc *KafkaNotificationConsumer) Stop() error {
	if knc.cancel != nil {
		knc.cancel()
	}
	if err := knc.consumerGroup.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	return nil
}

type consumerGroupHandler struct {
	workerID     int
	emailService EmailService
	maxRetries   int
	backoff      time.Duration
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}

			if err := h.processMessage(session.Context(), message); err != nil {
				log.Printf("Worker %d: error processing message: %v", h.workerID, err)
			}
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *consumerGroupHandler) processMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	var notification EmailNotification
	if err := json.Unmarshal(message.Value, &notification); err != nil {
		return fmt.Errorf("failed to unmarshal notification: %w", err)
	}

	notification.Status = NotificationStatusSending

	if err := h.executeWithRetry(ctx, &notification); err != nil {
		notification.MarkFailed(err)
		return err
	}

	notification.MarkSent()
	return nil
}

func (h *consumerGroupHandler) executeWithRetry(ctx context.Context, notification *EmailNotification) error {
	for attempt := 0; attempt <= h.maxRetries; attempt++ {
		err := h.emailService.SendNotification(ctx, notification)
		if err == nil {
			return nil
		}

		if attempt == h.maxRetries {
			return err
		}

		// Exponential backoff
		delay := h.backoff * time.Duration(1<<attempt)
		notification.RetryCount++
		notification.Status = NotificationStatusRetrying

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}
