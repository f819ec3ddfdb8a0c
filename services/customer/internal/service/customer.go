package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/auth"
	apperrors "github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/errors"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/pagination"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/customer/internal/domain"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/customer/internal/event"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/customer/internal/repository"
)

// bcryptCost is the cost factor for bcrypt password hashing.
const bcryptCost = 12

// minPasswordLength is the minimum password length required.
const minPasswordLength = 8

// CustomerService implements the business logic for customer and wallet operations.
type CustomerService struct {
	repo          repository.CustomerRepository
	authenticator *auth.Authenticator
	producer      *event.Producer
	logger        *slog.Logger
}

// NewCustomerService creates a new customer service.
func NewCustomerService(
	repo repository.CustomerRepository,
	authenticator *auth.Authenticator,
	producer *event.Producer,
	logger *slog.Logger,
) *CustomerService {
	return &CustomerService{
		repo:          repo,
		authenticator: authenticator,
		producer:      producer,
		logger:        logger,
	}
}

// RegisterInput holds the parameters for registering a new customer.
type RegisterInput struct {
	FullName      string
	Username      string
	Password      string
	Age           int
	Address       string
	Gender        string
	MaritalStatus string
	WalletBalance float64
}

// LoginInput holds the parameters for customer login.
type LoginInput struct {
	Username string
	Password string
}

// UpdateInput holds the parameters for updating a customer. Nil fields
// are left unchanged.
type UpdateInput struct {
	FullName      *string
	Password      *string
	Age           *int
	Address       *string
	Gender        *string
	MaritalStatus *string
}

// Register creates a new customer account. The wallet starts at the
// submitted opening balance, or zero when none is given.
func (s *CustomerService) Register(ctx context.Context, input RegisterInput) (*domain.Customer, error) {
	if input.Username == "" {
		return nil, apperrors.InvalidInput("username is required")
	}
	if input.FullName == "" {
		return nil, apperrors.InvalidInput("full name is required")
	}
	if input.Age <= 0 {
		return nil, apperrors.InvalidInput("age must be a positive integer")
	}
	if len(input.Password) < minPasswordLength {
		return nil, apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if input.WalletBalance < 0 {
		return nil, apperrors.InvalidInput("wallet balance must not be negative")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	customer := &domain.Customer{
		ID:            uuid.New(),
		FullName:      input.FullName,
		Username:      input.Username,
		PasswordHash:  string(hashedPassword),
		Age:           input.Age,
		Address:       input.Address,
		Gender:        input.Gender,
		MaritalStatus: input.MaritalStatus,
		WalletBalance: input.WalletBalance,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	// Publish registration event (non-blocking on failure).
	if err := s.producer.PublishCustomerRegistered(ctx, customer); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish customer.registered event",
			slog.String("username", customer.Username),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "customer registered",
		slog.String("username", customer.Username),
	)

	return customer, nil
}

// Login authenticates a customer and returns a signed access token.
func (s *CustomerService) Login(ctx context.Context, input LoginInput) (*domain.Token, error) {
	if input.Username == "" {
		return nil, apperrors.InvalidInput("username is required")
	}
	if input.Password == "" {
		return nil, apperrors.InvalidInput("password is required")
	}

	customer, err := s.repo.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperrors.Unauthorized("invalid username or password")
	}

	accessToken, err := s.authenticator.GenerateToken(customer.Username, customer.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.logger.InfoContext(ctx, "customer logged in",
		slog.String("username", customer.Username),
	)

	return &domain.Token{AccessToken: accessToken, TokenType: "Bearer"}, nil
}

// Get retrieves a single customer by username.
func (s *CustomerService) Get(ctx context.Context, username string) (*domain.Customer, error) {
	customer, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return customer, nil
}

// List returns a page of customers.
func (s *CustomerService) List(ctx context.Context, params pagination.Params) (pagination.Result[domain.Customer], error) {
	customers, total, err := s.repo.List(ctx, params)
	if err != nil {
		return pagination.Result[domain.Customer]{}, fmt.Errorf("list customers: %w", err)
	}
	return pagination.NewResult(customers, total, params), nil
}

// Update modifies the provided fields of an existing customer. The
// username itself is immutable.
func (s *CustomerService) Update(ctx context.Context, username string, input UpdateInput) (*domain.Customer, error) {
	customer, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		if *input.FullName == "" {
			return nil, apperrors.InvalidInput("full name must not be empty")
		}
		customer.FullName = *input.FullName
	}
	if input.Password != nil {
		if len(*input.Password) < minPasswordLength {
			return nil, apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		customer.PasswordHash = string(hashed)
	}
	if input.Age != nil {
		if *input.Age <= 0 {
			return nil, apperrors.InvalidInput("age must be a positive integer")
		}
		customer.Age = *input.Age
	}
	if input.Address != nil {
		customer.Address = *input.Address
	}
	if input.Gender != nil {
		customer.Gender = *input.Gender
	}
	if input.MaritalStatus != nil {
		customer.MaritalStatus = *input.MaritalStatus
	}

	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, err
	}

	if err := s.producer.PublishCustomerUpdated(ctx, customer); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish customer.updated event",
			slog.String("username", customer.Username),
			slog.String("error", err.Error()),
		)
	}

	return customer, nil
}

// Delete removes a customer account.
func (s *CustomerService) Delete(ctx context.Context, username string) error {
	if err := s.repo.Delete(ctx, username); err != nil {
		return err
	}

	if err := s.producer.PublishCustomerDeleted(ctx, username); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish customer.deleted event",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "customer deleted",
		slog.String("username", username),
	)

	return nil
}

// ChargeWallet adds funds to a customer's wallet.
func (s *CustomerService) ChargeWallet(ctx context.Context, username string, amount float64) (*domain.Customer, error) {
	if amount <= 0 {
		return nil, apperrors.InvalidInput("amount must be greater than zero")
	}

	customer, err := s.repo.ChargeWallet(ctx, username, amount)
	if err != nil {
		return nil, err
	}

	if err := s.producer.PublishWalletCharged(ctx, username, amount, customer.WalletBalance); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish customer.wallet_charged event",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "wallet charged",
		slog.String("username", username),
		slog.Float64("amount", amount),
	)

	return customer, nil
}

// DeductWallet removes funds from a customer's wallet. The balance
// never goes negative.
func (s *CustomerService) DeductWallet(ctx context.Context, username string, amount float64) (*domain.Customer, error) {
	if amount <= 0 {
		return nil, apperrors.InvalidInput("amount must be greater than zero")
	}

	customer, err := s.repo.DeductWallet(ctx, username, amount)
	if err != nil {
		return nil, err
	}

	if err := s.producer.PublishWalletDeducted(ctx, username, amount, customer.WalletBalance); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish customer.wallet_deducted event",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "wallet deducted",
		slog.String("username", username),
		slog.Float64("amount", amount),
	)

	return customer, nil
}
