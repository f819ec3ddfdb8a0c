package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/database"
	apperrors "github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/errors"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/pagination"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/review/internal/domain"
)

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

const reviewColumns = `id, product_id, customer_id, customer_username, rating, comment, moderation_status, created_at, updated_at`

func scanReview(row pgx.Row) (*domain.Review, error) {
	var rv domain.Review
	err := row.Scan(
		&rv.ID,
		&rv.ProductID,
		&rv.CustomerID,
		&rv.CustomerUsername,
		&rv.Rating,
		&rv.Comment,
		&rv.Status,
		&rv.CreatedAt,
		&rv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Review not found")
		}
		return nil, fmt.Errorf("scan review: %w", err)
	}
	return &rv, nil
}

// Create inserts a new review.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (id, product_id, customer_id, customer_username, rating, comment, moderation_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		review.ID,
		review.ProductID,
		review.CustomerID,
		review.CustomerUsername,
		review.Rating,
		review.Comment,
		review.Status,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}

	return nil
}

// GetByID retrieves a review by its ID.
func (r *ReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`
	return scanReview(r.pool.QueryRow(ctx, query, id))
}

// ListByProduct returns a page of reviews for one product, newest first.
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID uuid.UUID, params pagination.Params) ([]domain.Review, int, error) {
	return r.listBy(ctx, "product_id", productID, params)
}

// ListByCustomer returns a page of reviews by one customer, newest first.
func (r *ReviewRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]domain.Review, int, error) {
	return r.listBy(ctx, "customer_id", customerID, params)
}

func (r *ReviewRepository) listBy(ctx context.Context, column string, id uuid.UUID, params pagination.Params) ([]domain.Review, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM reviews WHERE ` + column + ` = $1`
	if err := r.pool.QueryRow(ctx, countQuery, id).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE ` + column + ` = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, id, params.PerPage, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(
			&rv.ID,
			&rv.ProductID,
			&rv.CustomerID,
			&rv.CustomerUsername,
			&rv.Rating,
			&rv.Comment,
			&rv.Status,
			&rv.CreatedAt,
			&rv.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, total, nil
}

// Update modifies the rating, comment and status of an existing review.
func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	review.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE reviews
		SET rating = $1, comment = $2, moderation_status = $3, updated_at = $4
		WHERE id = $5`

	ct, err := r.pool.Exec(ctx, query,
		review.Rating,
		review.Comment,
		review.Status,
		review.UpdatedAt,
		review.ID,
	)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("Review not found")
	}

	return nil
}

// SetStatus updates only the moderation status.
func (r *ReviewRepository) SetStatus(ctx context.Context, id uuid.UUID, status domain.ModerationStatus) (*domain.Review, error) {
	query := `
		UPDATE reviews
		SET moderation_status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + reviewColumns

	return scanReview(r.pool.QueryRow(ctx, query, status, id))
}

// Delete removes a review by ID.
func (r *ReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("Review not found")
	}

	return nil
}
