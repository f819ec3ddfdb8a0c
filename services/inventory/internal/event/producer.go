package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/kafka"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/inventory/internal/domain"
)

// Kafka topic constants for inventory domain events.
const (
	TopicItemCreated   = "shop.item.created"
	TopicItemDeleted   = "shop.item.deleted"
	TopicStockAdjusted = "shop.stock.adjusted"
)

// Aggregate type constant.
const AggregateTypeItem = "item"

// Source identifier for events originating from the inventory service.
const SourceInventoryService = "inventory-service"

// ItemCreatedData is the payload for an item.created event.
type ItemCreatedData struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Category   string  `json:"category,omitempty"`
	Price      float64 `json:"price"`
	StockCount int     `json:"stock_count"`
}

// ItemDeletedData is the payload for an item.deleted event.
type ItemDeletedData struct {
	ID string `json:"id"`
}

// StockAdjustedData is the payload for a stock.adjusted event.
type StockAdjustedData struct {
	ItemID         string `json:"item_id"`
	QuantityChange int    `json:"quantity_change"`
	NewStockCount  int    `json:"new_stock_count"`
	Reason         string `json:"reason"`
}

// Producer publishes inventory domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the inventory service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishItemCreated publishes an item.created event.
func (p *Producer) PublishItemCreated(ctx context.Context, item *domain.Item) error {
	data := ItemCreatedData{
		ID:         item.ID.String(),
		Name:       item.Name,
		Category:   item.Category,
		Price:      item.Price,
		StockCount: item.StockCount,
	}
	return p.publish(ctx, TopicItemCreated, item.ID.String(), data)
}

// PublishItemDeleted publishes an item.deleted event.
func (p *Producer) PublishItemDeleted(ctx context.Context, id string) error {
	return p.publish(ctx, TopicItemDeleted, id, ItemDeletedData{ID: id})
}

// PublishStockAdjusted publishes a stock.adjusted event.
func (p *Producer) PublishStockAdjusted(ctx context.Context, item *domain.Item, change int, reason string) error {
	data := StockAdjustedData{
		ItemID:         item.ID.String(),
		QuantityChange: change,
		NewStockCount:  item.StockCount,
		Reason:         reason,
	}
	return p.publish(ctx, TopicStockAdjusted, item.ID.String(), data)
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, AggregateTypeItem, SourceInventoryService, data)
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
