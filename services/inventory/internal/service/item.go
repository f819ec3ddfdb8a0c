package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/errors"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/pagination"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/inventory/internal/domain"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/inventory/internal/event"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/inventory/internal/repository"
)

// ItemService implements the business logic for catalog items and stock.
type ItemService struct {
	repo     repository.ItemRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewItemService creates a new item service.
func NewItemService(repo repository.ItemRepository, producer *event.Producer, logger *slog.Logger) *ItemService {
	return &ItemService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// CreateInput holds the parameters for creating a new item.
type CreateInput struct {
	Name        string
	Category    string
	Price       float64
	Description string
	StockCount  int
}

// UpdateInput holds the parameters for updating an item. Nil fields are
// left unchanged.
type UpdateInput struct {
	Name        *string
	Category    *string
	Price       *float64
	Description *string
	StockCount  *int
}

// Create adds a new item to the catalog.
func (s *ItemService) Create(ctx context.Context, input CreateInput) (*domain.Item, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if input.Price < 0 {
		return nil, apperrors.InvalidInput("price must not be negative")
	}
	if input.StockCount < 0 {
		return nil, apperrors.InvalidInput("stock count must not be negative")
	}

	now := time.Now().UTC()
	item := &domain.Item{
		ID:          uuid.New(),
		Name:        input.Name,
		Category:    input.Category,
		Price:       input.Price,
		Description: input.Description,
		StockCount:  input.StockCount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	if err := s.producer.PublishItemCreated(ctx, item); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish item.created event",
			slog.String("item_id", item.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "item created",
		slog.String("item_id", item.ID.String()),
		slog.String("name", item.Name),
	)

	return item, nil
}

// Get retrieves a single item by ID.
func (s *ItemService) Get(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a page of items.
func (s *ItemService) List(ctx context.Context, params pagination.Params) (pagination.Result[domain.Item], error) {
	items, total, err := s.repo.List(ctx, params)
	if err != nil {
		return pagination.Result[domain.Item]{}, fmt.Errorf("list items: %w", err)
	}
	return pagination.NewResult(items, total, params), nil
}

// Update modifies the provided fields of an existing item.
func (s *ItemService) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*domain.Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("name must not be empty")
		}
		item.Name = *input.Name
	}
	if input.Category != nil {
		item.Category = *input.Category
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apperrors.InvalidInput("price must not be negative")
		}
		item.Price = *input.Price
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.StockCount != nil {
		if *input.StockCount < 0 {
			return nil, apperrors.InvalidInput("stock count must not be negative")
		}
		item.StockCount = *input.StockCount
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// Delete removes an item from the catalog.
func (s *ItemService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.producer.PublishItemDeleted(ctx, id.String()); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish item.deleted event",
			slog.String("item_id", id.String()),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

// DeleteAll removes every item from the catalog and returns the count.
func (s *ItemService) DeleteAll(ctx context.Context) (int, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}

	s.logger.InfoContext(ctx, "all items deleted", slog.Int("count", n))
	return n, nil
}

// DeductOne decrements an item's stock by one unit.
func (s *ItemService) DeductOne(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	item, err := s.repo.DeductOne(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.producer.PublishStockAdjusted(ctx, item, -1, domain.MovementReasonAdjustment); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish stock.adjusted event",
			slog.String("item_id", id.String()),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "stock deducted",
		slog.String("item_id", id.String()),
		slog.Int("stock_count", item.StockCount),
	)

	return item, nil
}

// ListMovements returns a page of stock movements for one item.
func (s *ItemService) ListMovements(ctx context.Context, itemID uuid.UUID, params pagination.Params) (pagination.Result[domain.StockMovement], error) {
	movements, total, err := s.repo.ListMovements(ctx, itemID, params)
	if err != nil {
		return pagination.Result[domain.StockMovement]{}, fmt.Errorf("list stock movements: %w", err)
	}
	return pagination.NewResult(movements, total, params), nil
}

// RecordSaleMovement appends an order-reason movement row for a sold
// item. Called by the sale.completed consumer.
func (s *ItemService) RecordSaleMovement(ctx context.Context, itemID, saleID string) error {
	id, err := uuid.Parse(itemID)
	if err != nil {
		return apperrors.InvalidInput("invalid item id")
	}

	movement := &domain.StockMovement{
		ID:             uuid.New(),
		ItemID:         id,
		QuantityChange: -1,
		Reason:         domain.MovementReasonOrder,
		ReferenceID:    &saleID,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.repo.RecordMovement(ctx, movement); err != nil {
		return fmt.Errorf("record sale movement: %w", err)
	}

	return nil
}
