package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/errors"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/pagination"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/sales/internal/domain"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/sales/internal/event"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/sales/internal/repository"
)

// SaleService implements the business logic for the sales ledger and
// the storefront goods views.
type SaleService struct {
	sales    repository.SaleRepository
	goods    repository.GoodsRepository
	cache    repository.GoodsCache
	producer *event.Producer
	logger   *slog.Logger
}

// NewSaleService creates a new sale service.
func NewSaleService(
	sales repository.SaleRepository,
	goods repository.GoodsRepository,
	cache repository.GoodsCache,
	producer *event.Producer,
	logger *slog.Logger,
) *SaleService {
	return &SaleService{
		sales:    sales,
		goods:    goods,
		cache:    cache,
		producer: producer,
		logger:   logger,
	}
}

// CreateInput holds the parameters for a direct ledger insert.
type CreateInput struct {
	CustomerID string
	ItemID     string
	Amount     float64
}

// ProcessSale runs the purchase transaction for one unit of one item.
func (s *SaleService) ProcessSale(ctx context.Context, username, itemID string) (*domain.SaleResult, error) {
	id, err := uuid.Parse(itemID)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid item id")
	}

	result, err := s.sales.ProcessSale(ctx, username, id)
	if err != nil {
		return nil, err
	}

	if err := s.producer.PublishSaleCompleted(ctx, result); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish sale.completed event",
			slog.String("sale_id", result.SaleID.String()),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "sale processed",
		slog.String("sale_id", result.SaleID.String()),
		slog.String("customer_username", result.CustomerUsername),
		slog.String("item_name", result.ItemName),
		slog.Float64("amount", result.Amount),
	)

	return result, nil
}

// CreateSale inserts a ledger row directly, with no stock or wallet
// coupling. Administrative correction primitive.
func (s *SaleService) CreateSale(ctx context.Context, input CreateInput) (*domain.Sale, error) {
	customerID, err := uuid.Parse(input.CustomerID)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid customer id")
	}
	itemID, err := uuid.Parse(input.ItemID)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid item id")
	}

	sale := &domain.Sale{
		ID:         uuid.New(),
		CustomerID: customerID,
		ItemID:     itemID,
		Amount:     input.Amount,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.sales.Create(ctx, sale); err != nil {
		return nil, fmt.Errorf("create sale: %w", err)
	}

	if err := s.producer.PublishSaleRecorded(ctx, sale); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish sale.recorded event",
			slog.String("sale_id", sale.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "sale recorded directly",
		slog.String("sale_id", sale.ID.String()),
		slog.Float64("amount", sale.Amount),
	)

	return sale, nil
}

// Get retrieves a single ledger row by ID.
func (s *SaleService) Get(ctx context.Context, id uuid.UUID) (*domain.Sale, error) {
	return s.sales.GetByID(ctx, id)
}

// ListByCustomer returns a page of ledger rows for one customer.
func (s *SaleService) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) (pagination.Result[domain.Sale], error) {
	sales, total, err := s.sales.ListByCustomer(ctx, customerID, params)
	if err != nil {
		return pagination.Result[domain.Sale]{}, fmt.Errorf("list sales by customer: %w", err)
	}
	return pagination.NewResult(sales, total, params), nil
}

// ListByItem returns a page of ledger rows for one item.
func (s *SaleService) ListByItem(ctx context.Context, itemID uuid.UUID, params pagination.Params) (pagination.Result[domain.Sale], error) {
	sales, total, err := s.sales.ListByItem(ctx, itemID, params)
	if err != nil {
		return pagination.Result[domain.Sale]{}, fmt.Errorf("list sales by item: %w", err)
	}
	return pagination.NewResult(sales, total, params), nil
}

// UpdateAmount corrects the amount on an existing ledger row.
func (s *SaleService) UpdateAmount(ctx context.Context, id uuid.UUID, amount float64) (*domain.Sale, error) {
	if amount <= 0 {
		return nil, apperrors.InvalidInput("amount must be greater than zero")
	}

	sale, err := s.sales.UpdateAmount(ctx, id, amount)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "sale amount corrected",
		slog.String("sale_id", id.String()),
		slog.Float64("amount", amount),
	)

	return sale, nil
}

// Delete removes a ledger row.
func (s *SaleService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.sales.Delete(ctx, id)
}

// ListGoods returns the storefront listing through the Redis cache.
// Cache failures degrade to a direct catalog read.
func (s *SaleService) ListGoods(ctx context.Context) ([]domain.Good, error) {
	cached, ok, err := s.cache.Get(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "goods cache read failed",
			slog.String("error", err.Error()),
		)
	}
	if ok {
		return cached, nil
	}

	goods, err := s.goods.ListGoods(ctx)
	if err != nil {
		return nil, fmt.Errorf("list goods: %w", err)
	}

	if err := s.cache.Set(ctx, goods); err != nil {
		s.logger.WarnContext(ctx, "goods cache write failed",
			slog.String("error", err.Error()),
		)
	}

	return goods, nil
}

// GetGood returns the full catalog view of a single item.
func (s *SaleService) GetGood(ctx context.Context, id uuid.UUID) (*domain.GoodDetail, error) {
	return s.goods.GetGood(ctx, id)
}
