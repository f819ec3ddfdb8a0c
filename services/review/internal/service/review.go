package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/auth"
	apperrors "github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/errors"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/pagination"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/review/internal/domain"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/review/internal/event"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/review/internal/repository"
)

// HTTPDoer is the interface for executing HTTP requests. Both
// httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// ReviewService implements the business logic for product reviews.
type ReviewService struct {
	repo          repository.ReviewRepository
	producer      *event.Producer
	httpClient    HTTPDoer
	inventoryURL  string
	authenticator *auth.Authenticator
	logger        *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	repo repository.ReviewRepository,
	producer *event.Producer,
	httpClient HTTPDoer,
	inventoryURL string,
	authenticator *auth.Authenticator,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		repo:          repo,
		producer:      producer,
		httpClient:    httpClient,
		inventoryURL:  inventoryURL,
		authenticator: authenticator,
		logger:        logger,
	}
}

// CreateInput holds the parameters for creating a review.
type CreateInput struct {
	ProductID  string
	CustomerID string
	Rating     int
	Comment    string
}

// UpdateInput holds the parameters for editing a review. Nil fields are
// left unchanged.
type UpdateInput struct {
	Rating  *int
	Comment *string
}

// Create adds a new review in Pending state. The product is verified
// against the inventory service; when inventory is unreachable or the
// breaker is open the check fails open and the review is accepted.
func (s *ReviewService) Create(ctx context.Context, username string, input CreateInput) (*domain.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.InvalidInput("rating must be between 1 and 5")
	}

	productID, err := uuid.Parse(input.ProductID)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid product id")
	}
	customerID, err := uuid.Parse(input.CustomerID)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid customer id")
	}

	if !s.productExists(ctx, productID) {
		return nil, apperrors.NotFound("Product not found")
	}

	now := time.Now().UTC()
	review := &domain.Review{
		ID:               uuid.New(),
		ProductID:        productID,
		CustomerID:       customerID,
		CustomerUsername: username,
		Rating:           input.Rating,
		Comment:          sanitizeComment(input.Comment),
		Status:           domain.StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	if err := s.producer.PublishReviewCreated(ctx, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.created event",
			slog.String("review_id", review.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review created",
		slog.String("review_id", review.ID.String()),
		slog.String("product_id", review.ProductID.String()),
		slog.Int("rating", review.Rating),
	)

	return review, nil
}

// Get retrieves a single review by ID.
func (s *ReviewService) Get(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByProduct returns a page of reviews for one product.
func (s *ReviewService) ListByProduct(ctx context.Context, productID uuid.UUID, params pagination.Params) (pagination.Result[domain.Review], error) {
	reviews, total, err := s.repo.ListByProduct(ctx, productID, params)
	if err != nil {
		return pagination.Result[domain.Review]{}, fmt.Errorf("list reviews by product: %w", err)
	}
	return pagination.NewResult(reviews, total, params), nil
}

// ListByCustomer returns a page of reviews by one customer.
func (s *ReviewService) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) (pagination.Result[domain.Review], error) {
	reviews, total, err := s.repo.ListByCustomer(ctx, customerID, params)
	if err != nil {
		return pagination.Result[domain.Review]{}, fmt.Errorf("list reviews by customer: %w", err)
	}
	return pagination.NewResult(reviews, total, params), nil
}

// Update edits a review's rating or comment. Only the author may edit,
// and an edited review goes back to Pending moderation.
func (s *ReviewService) Update(ctx context.Context, id uuid.UUID, username string, input UpdateInput) (*domain.Review, error) {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if review.CustomerUsername != username {
		return nil, apperrors.Forbidden("you can only modify your own reviews")
	}

	if input.Rating != nil {
		if *input.Rating < 1 || *input.Rating > 5 {
			return nil, apperrors.InvalidInput("rating must be between 1 and 5")
		}
		review.Rating = *input.Rating
	}
	if input.Comment != nil {
		review.Comment = sanitizeComment(*input.Comment)
	}
	review.Status = domain.StatusPending

	if err := s.repo.Update(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

// Delete removes a review. The author or an admin may delete.
func (s *ReviewService) Delete(ctx context.Context, id uuid.UUID, username string, isAdmin bool) error {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !isAdmin && review.CustomerUsername != username {
		return apperrors.Forbidden("you can only delete your own reviews")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.producer.PublishReviewDeleted(ctx, id.String()); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.deleted event",
			slog.String("review_id", id.String()),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

// Moderate sets a review's moderation status to Approved or Rejected.
func (s *ReviewService) Moderate(ctx context.Context, id uuid.UUID, status string) (*domain.Review, error) {
	st := domain.ModerationStatus(status)
	if st != domain.StatusApproved && st != domain.StatusRejected {
		return nil, apperrors.InvalidInput("status must be Approved or Rejected")
	}

	review, err := s.repo.SetStatus(ctx, id, st)
	if err != nil {
		return nil, err
	}

	if err := s.producer.PublishReviewModerated(ctx, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.moderated event",
			slog.String("review_id", id.String()),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review moderated",
		slog.String("review_id", id.String()),
		slog.String("moderation_status", status),
	)

	return review, nil
}

// productExists checks the product against the inventory service. Any
// failure other than a definite 404 counts as existing, so review
// intake keeps working while inventory is down.
func (s *ReviewService) productExists(ctx context.Context, productID uuid.UUID) bool {
	url := fmt.Sprintf("%s/api/v1/items/%s", s.inventoryURL, productID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		s.logger.WarnContext(ctx, "product check request build failed",
			slog.String("error", err.Error()),
		)
		return true
	}

	token, err := s.authenticator.GenerateToken("review-service", false)
	if err != nil {
		s.logger.WarnContext(ctx, "product check token generation failed",
			slog.String("error", err.Error()),
		)
		return true
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.httpClient.Do(ctx, req)
	if err != nil {
		s.logger.WarnContext(ctx, "product check failed open",
			slog.String("product_id", productID.String()),
			slog.String("error", err.Error()),
		)
		return true
	}
	defer resp.Body.Close()

	return resp.StatusCode != http.StatusNotFound
}
