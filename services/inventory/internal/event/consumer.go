package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	pkgkafka "github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/kafka"
)

// TopicSaleCompleted is consumed to keep the stock movement ledger in
// sync with sales. The decrement itself happens inside the sale
// transaction; this consumer only records the audit row.
const TopicSaleCompleted = "shop.sale.completed"

// MovementRecorder defines the interface required by the event consumer.
type MovementRecorder interface {
	RecordSaleMovement(ctx context.Context, itemID, saleID string) error
}

// SaleCompletedData is the expected payload of a sale.completed event.
type SaleCompletedData struct {
	SaleID           string  `json:"sale_id"`
	CustomerUsername string  `json:"customer_username"`
	ItemID           string  `json:"item_id"`
	ItemName         string  `json:"item_name"`
	Amount           float64 `json:"amount"`
}

// Consumer processes incoming Kafka events for the inventory service.
type Consumer struct {
	logger  *slog.Logger
	service MovementRecorder
}

// NewConsumer creates a new event consumer for the inventory service.
func NewConsumer(service MovementRecorder, logger *slog.Logger) *Consumer {
	return &Consumer{
		service: service,
		logger:  logger,
	}
}

// HandleSaleCompleted processes sale.completed events by recording an
// order-reason stock movement for the sold item.
func (c *Consumer) HandleSaleCompleted(ctx context.Context, event *pkgkafka.Event) error {
	var data SaleCompletedData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("unmarshal sale.completed data: %w", err)
	}

	c.logger.InfoContext(ctx, "processing sale.completed event",
		slog.String("sale_id", data.SaleID),
		slog.String("item_id", data.ItemID),
	)

	if err := c.service.RecordSaleMovement(ctx, data.ItemID, data.SaleID); err != nil {
		return fmt.Errorf("record movement for sale %s: %w", data.SaleID, err)
	}

	return nil
}
