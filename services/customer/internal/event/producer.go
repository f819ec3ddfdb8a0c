package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/kafka"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/customer/internal/domain"
)

// Kafka topic constants for customer domain events.
const (
	TopicCustomerRegistered = "shop.customer.registered"
	TopicCustomerUpdated    = "shop.customer.updated"
	TopicCustomerDeleted    = "shop.customer.deleted"
	TopicWalletCharged      = "shop.customer.wallet_charged"
	TopicWalletDeducted     = "shop.customer.wallet_deducted"
)

// Aggregate type constant.
const AggregateTypeCustomer = "customer"

// Source identifier for events originating from the customer service.
const SourceCustomerService = "customer-service"

// CustomerRegisteredData is the payload for a customer.registered event.
type CustomerRegisteredData struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Username string `json:"username"`
	Age      int    `json:"age"`
}

// CustomerUpdatedData is the payload for a customer.updated event.
type CustomerUpdatedData struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// CustomerDeletedData is the payload for a customer.deleted event.
type CustomerDeletedData struct {
	Username string `json:"username"`
}

// WalletChangedData is the payload for wallet_charged and wallet_deducted events.
type WalletChangedData struct {
	Username   string  `json:"username"`
	Amount     float64 `json:"amount"`
	NewBalance float64 `json:"new_balance"`
}

// Producer publishes customer domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the customer service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCustomerRegistered publishes a customer.registered event.
func (p *Producer) PublishCustomerRegistered(ctx context.Context, c *domain.Customer) error {
	data := CustomerRegisteredData{
		ID:       c.ID.String(),
		FullName: c.FullName,
		Username: c.Username,
		Age:      c.Age,
	}
	return p.publish(ctx, TopicCustomerRegistered, c.Username, data)
}

// PublishCustomerUpdated publishes a customer.updated event.
func (p *Producer) PublishCustomerUpdated(ctx context.Context, c *domain.Customer) error {
	data := CustomerUpdatedData{
		ID:       c.ID.String(),
		Username: c.Username,
		FullName: c.FullName,
	}
	return p.publish(ctx, TopicCustomerUpdated, c.Username, data)
}

// PublishCustomerDeleted publishes a customer.deleted event.
func (p *Producer) PublishCustomerDeleted(ctx context.Context, username string) error {
	return p.publish(ctx, TopicCustomerDeleted, username, CustomerDeletedData{Username: username})
}

// PublishWalletCharged publishes a customer.wallet_charged event.
func (p *Producer) PublishWalletCharged(ctx context.Context, username string, amount, newBalance float64) error {
	data := WalletChangedData{Username: username, Amount: amount, NewBalance: newBalance}
	return p.publish(ctx, TopicWalletCharged, username, data)
}

// PublishWalletDeducted publishes a customer.wallet_deducted event.
func (p *Producer) PublishWalletDeducted(ctx context.Context, username string, amount, newBalance float64) error {
	data := WalletChangedData{Username: username, Amount: amount, NewBalance: newBalance}
	return p.publish(ctx, TopicWalletDeducted, username, data)
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, AggregateTypeCustomer, SourceCustomerService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)

	return nil
}
