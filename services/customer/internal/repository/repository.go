package repository

import (
	"context"

	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/pagination"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/customer/internal/domain"
)

// CustomerRepository defines the interface for customer persistence.
type CustomerRepository interface {
	// Create inserts a new customer into the store.
	Create(ctx context.Context, customer *domain.Customer) error

	// GetByUsername retrieves a customer by their unique username.
	GetByUsername(ctx context.Context, username string) (*domain.Customer, error)

	// List returns a page of customers ordered by username, plus the
	// total count.
	List(ctx context.Context, params pagination.Params) ([]domain.Customer, int, error)

	// Update modifies an existing customer in the store.
	Update(ctx context.Context, customer *domain.Customer) error

	// Delete removes a customer from the store by username.
	Delete(ctx context.Context, username string) error

	// ChargeWallet atomically adds amount to the customer's wallet and
	// returns the updated customer.
	ChargeWallet(ctx context.Context, username string, amount float64) (*domain.Customer, error)

	// DeductWallet atomically subtracts amount from the customer's wallet
	// and returns the updated customer. The balance never goes negative.
	DeductWallet(ctx context.Context, username string, amount float64) (*domain.Customer, error)
}
