package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/kafka"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/sales/internal/domain"
)

// Kafka topic constants for sales domain events.
const (
	TopicSaleCompleted = "shop.sale.completed"
	TopicSaleRecorded  = "shop.sale.recorded"
)

// Aggregate type constant.
const AggregateTypeSale = "sale"

// Source identifier for events originating from the sales service.
const SourceSalesService = "sales-service"

// SaleCompletedData is the payload for a sale.completed event. The
// inventory service consumes it to record an order stock movement.
type SaleCompletedData struct {
	SaleID           string  `json:"sale_id"`
	CustomerUsername string  `json:"customer_username"`
	ItemID           string  `json:"item_id"`
	ItemName         string  `json:"item_name"`
	Amount           float64 `json:"amount"`
}

// SaleRecordedData is the payload for a sale.recorded event, emitted
// for direct administrative ledger inserts.
type SaleRecordedData struct {
	SaleID     string  `json:"sale_id"`
	CustomerID string  `json:"customer_id"`
	ItemID     string  `json:"item_id"`
	Amount     float64 `json:"amount"`
}

// Producer publishes sales domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the sales service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishSaleCompleted publishes a sale.completed event after a
// successful sale transaction.
func (p *Producer) PublishSaleCompleted(ctx context.Context, result *domain.SaleResult) error {
	data := SaleCompletedData{
		SaleID:           result.SaleID.String(),
		CustomerUsername: result.CustomerUsername,
		ItemID:           result.ItemID.String(),
		ItemName:         result.ItemName,
		Amount:           result.Amount,
	}
	return p.publish(ctx, TopicSaleCompleted, result.SaleID.String(), data)
}

// PublishSaleRecorded publishes a sale.recorded event for a direct
// ledger insert.
func (p *Producer) PublishSaleRecorded(ctx context.Context, sale *domain.Sale) error {
	data := SaleRecordedData{
		SaleID:     sale.ID.String(),
		CustomerID: sale.CustomerID.String(),
		ItemID:     sale.ItemID.String(),
		Amount:     sale.Amount,
	}
	return p.publish(ctx, TopicSaleRecorded, sale.ID.String(), data)
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, AggregateTypeSale, SourceSalesService, data)
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
