package domain

import (
	"time"

	"github.com/google/uuid"
)

// Item represents a sellable product in the catalog.
type Item struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category,omitempty"`
	Price       float64   `json:"price"`
	Description string    `json:"description,omitempty"`
	StockCount  int       `json:"stock_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StockMovement records a change in an item's stock count.
type StockMovement struct {
	ID             uuid.UUID `json:"id"`
	ItemID         uuid.UUID `json:"item_id"`
	QuantityChange int       `json:"quantity_change"`
	Reason         string    `json:"reason"`
	ReferenceID    *string   `json:"reference_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Stock movement reasons.
const (
	MovementReasonOrder      = "order"
	MovementReasonAdjustment = "adjustment"
)
