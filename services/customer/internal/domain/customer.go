package domain

import (
	"time"

	"github.com/google/uuid"
)

// Customer represents a registered shopper with a wallet.
type Customer struct {
	ID            uuid.UUID `json:"id"`
	FullName      string    `json:"full_name"`
	Username      string    `json:"username"`
	PasswordHash  string    `json:"-"`
	Age           int       `json:"age"`
	Address       string    `json:"address,omitempty"`
	Gender        string    `json:"gender,omitempty"`
	MaritalStatus string    `json:"marital_status,omitempty"`
	IsAdmin       bool      `json:"is_admin"`
	WalletBalance float64   `json:"wallet_balance"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Token is the login response body.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
