package notifications

import (
	"context"
	"fmt"
	"log"
	"sync"

	"cinebook/internal/shared/config"
)

// Service owns the confirmation pipeline lifecycle: the Kafka producer the
// booking orchestrator publishes through, and the consumer workers that
// deliver emails.
type Service interface {
	Publisher

	Start(ctx context.Context) error
	Stop() error
	HealthCheck(ctx context.Context) error
}

type service struct {
	cfg      *config.Config
	producer Producer
	consumer Consumer

	isRunning bool
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewService wires the Kafka producer, consumer group, and email sender.
// When SMTP is not configured the mock email sender is used so local
// development works without a mail account.
func NewService(cfg *config.Config) (Service, error) {
	var emailService EmailService
	if cfg.Email.SMTPHost == "" || cfg.Email.SMTPUsername == "" {
		log.Println("📧 SMTP not configured, using mock email sender")
		emailService = NewMockEmailService()
	} else {
		smtpService, err := NewSMTPEmailService(NewSMTPConfig(cfg))
		if err != nil {
			return nil, fmt.Errorf("failed to create SMTP email service: %w", err)
		}
		emailService = smtpService
	}

	producerConfig := DefaultKafkaProducerConfig()
	producerConfig.Brokers = cfg.Kafka.Brokers
	producerConfig.ConfirmationTopic = cfg.Kafka.ConfirmationTopic

	producer, err := NewKafkaProducer(producerConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create confirmation producer: %w", err)
	}

	consumerConfig := DefaultConsumerConfig()
	consumerConfig.Brokers = cfg.Kafka.Brokers
	consumerConfig.Topics = []string{cfg.Kafka.ConfirmationTopic}
	consumerConfig.GroupID = cfg.Kafka.ConsumerGroup

	consumer, err := NewKafkaConsumer(consumerConfig, emailService)
	if err != nil {
		return nil, fmt.Errorf("failed to create confirmation consumer: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	log.Printf("📧 Confirmation notification service initialized (topic: %s)", cfg.Kafka.ConfirmationTopic)

	return &service{
		cfg:      cfg,
		producer: producer,
		consumer: consumer,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

func (s *service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("notification service is already running")
	}

	log.Printf("🚀 Starting confirmation notification service...")

	if err := s.consumer.StartConsumers(s.ctx, s.cfg.Kafka.ConsumerWorkers); err != nil {
		return fmt.Errorf("failed to start consumers: %w", err)
	}

	s.isRunning = true
	log.Printf("✅ Confirmation notification service started")
	return nil
}

func (s *service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return fmt.Errorf("notification service is not running")
	}

	log.Printf("🛑 Stopping confirmation notification service...")

	s.cancel()

	if err := s.consumer.Stop(); err != nil {
		log.Printf("Error stopping consumer: %v", err)
	}

	if err := s.producer.Close(); err != nil {
		log.Printf("Error closing producer: %v", err)
	}

	s.isRunning = false
	log.Printf("✅ Confirmation notification service stopped")
	return nil
}

func (s *service) PublishBookingConfirmation(ctx context.Context, notification *BookingNotification) error {
	return s.producer.PublishBookingConfirmation(ctx, notification)
}

func (s *service) HealthCheck(ctx context.Context) error {
	s.mu.RLock()
	isRunning := s.isRunning
	s.mu.RUnlock()

	if !isRunning {
		return fmt.Errorf("notification service is not running")
	}

	if err := s.producer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("producer health check failed: %w", err)
	}

	if err := s.consumer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("consumer health check failed: %w", err)
	}

	return nil
}
