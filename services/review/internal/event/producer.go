package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/kafka"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/review/internal/domain"
)

// Kafka topic constants for review domain events.
const (
	TopicReviewCreated   = "shop.review.created"
	TopicReviewModerated = "shop.review.moderated"
	TopicReviewDeleted   = "shop.review.deleted"
)

// Aggregate type constant.
const AggregateTypeReview = "review"

// Source identifier for events originating from the review service.
const SourceReviewService = "review-service"

// ReviewCreatedData is the payload for a review.created event.
type ReviewCreatedData struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Rating    int    `json:"rating"`
	Status    string `json:"moderation_status"`
}

// ReviewModeratedData is the payload for a review.moderated event.
type ReviewModeratedData struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Status    string `json:"moderation_status"`
}

// ReviewDeletedData is the payload for a review.deleted event.
type ReviewDeletedData struct {
	ID string `json:"id"`
}

// Producer publishes review domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the review service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishReviewCreated publishes a review.created event.
func (p *Producer) PublishReviewCreated(ctx context.Context, review *domain.Review) error {
	data := ReviewCreatedData{
		ID:        review.ID.String(),
		ProductID: review.ProductID.String(),
		Rating:    review.Rating,
		Status:    string(review.Status),
	}
	return p.publish(ctx, TopicReviewCreated, review.ID.String(), data)
}

// PublishReviewModerated publishes a review.moderated event.
func (p *Producer) PublishReviewModerated(ctx context.Context, review *domain.Review) error {
	data := ReviewModeratedData{
		ID:        review.ID.String(),
		ProductID: review.ProductID.String(),
		Status:    string(review.Status),
	}
	return p.publish(ctx, TopicReviewModerated, review.ID.String(), data)
}

// PublishReviewDeleted publishes a review.deleted event.
func (p *Producer) PublishReviewDeleted(ctx context.Context, id string) error {
	return p.publish(ctx, TopicReviewDeleted, id, ReviewDeletedData{ID: id})
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, AggregateTypeReview, SourceReviewService, data)
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
