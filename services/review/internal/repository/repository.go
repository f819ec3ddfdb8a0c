package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/pagination"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/review/internal/domain"
)

// ReviewRepository defines the persistence interface for reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, params pagination.Params) ([]domain.Review, int, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]domain.Review, int, error)
	Update(ctx context.Context, review *domain.Review) error
	SetStatus(ctx context.Context, id uuid.UUID, status domain.ModerationStatus) (*domain.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
