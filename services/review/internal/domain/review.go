package domain

import (
	"time"

	"github.com/google/uuid"
)

// ModerationStatus is the moderation state of a review.
type ModerationStatus string

// Moderation states. New and edited reviews start Pending.
const (
	StatusPending  ModerationStatus = "Pending"
	StatusApproved ModerationStatus = "Approved"
	StatusRejected ModerationStatus = "Rejected"
)

// Valid reports whether s is a known moderation state.
func (s ModerationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// MaxCommentLength is the comment length cap after sanitization.
const MaxCommentLength = 500

// Review is a customer's moderated product review. The author is
// tracked by username for ownership checks in addition to the
// customer ID the row references.
type Review struct {
	ID               uuid.UUID        `json:"id"`
	ProductID        uuid.UUID        `json:"product_id"`
	CustomerID       uuid.UUID        `json:"customer_id"`
	CustomerUsername string           `json:"customer_username"`
	Rating           int              `json:"rating"`
	Comment          string           `json:"comment"`
	Status           ModerationStatus `json:"moderation_status"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}
