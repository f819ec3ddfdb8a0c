package domain

import (
	"time"

	"github.com/google/uuid"
)

// Sale is one row in the sales ledger. A row records a historical
// fact: this customer paid this amount for this item at this point.
// Rows are immutable apart from administrative amount corrections.
type Sale struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customer_id"`
	ItemID     uuid.UUID `json:"item_id"`
	Amount     float64   `json:"amount"`
	CreatedAt  time.Time `json:"created_at"`
}

// SaleResult is returned by a successful sale transaction.
type SaleResult struct {
	SaleID           uuid.UUID `json:"sale_id"`
	CustomerUsername string    `json:"customer_username"`
	ItemID           uuid.UUID `json:"item_id"`
	ItemName         string    `json:"item_name"`
	Amount           float64   `json:"amount"`
}

// Good is a catalog summary exposed on the storefront listing.
type Good struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Price float64   `json:"price"`
}

// GoodDetail is the full catalog view of a single item.
type GoodDetail struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category,omitempty"`
	Price       float64   `json:"price"`
	Description string    `json:"description,omitempty"`
	StockCount  int       `json:"stock_count"`
}
