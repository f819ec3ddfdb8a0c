package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/auth"
	apperrors "github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/errors"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/health"
	pkgkafka "github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/kafka"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/middleware"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/pagination"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/customer/internal/domain"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/customer/internal/event"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/customer/internal/service"
)

const testAdminToken = "test-admin-token"

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, c *domain.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockRepo) GetByUsername(ctx context.Context, username string) (*domain.Customer, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, params pagination.Params) ([]domain.Customer, int, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]domain.Customer), args.Int(1), args.Error(2)
}

func (m *mockRepo) Update(ctx context.Context, c *domain.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockRepo) Delete(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func (m *mockRepo) ChargeWallet(ctx context.Context, username string, amount float64) (*domain.Customer, error) {
	args := m.Called(ctx, username, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *mockRepo) DeductWallet(ctx context.Context, username string, amount float64) (*domain.Customer, error) {
	args := m.Called(ctx, username, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func newTestRouter(t *testing.T, repo *mockRepo) (http.Handler, *auth.Authenticator) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	authenticator := auth.NewAuthenticator("test-secret-key-for-handler-tests", testAdminToken, 30*time.Minute)
	kafkaProducer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig([]string{"localhost:9092"}), logger)
	producer := event.NewProducer(kafkaProducer, logger)
	svc := service.NewCustomerService(repo, authenticator, producer, logger)

	router := NewRouter(RouterConfig{
		Service:        svc,
		Authenticator:  authenticator,
		HealthHandler:  health.NewHandler(),
		Logger:         logger,
		CORS:           middleware.DefaultCORSConfig(),
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	})

	return router, authenticator
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterEndpoint(t *testing.T) {
	repo := new(mockRepo)
	router, _ := newTestRouter(t, repo)

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"full_name": "Lina Haddad",
		"username":  "lina",
		"password":  "Sup3rSecret",
		"age":       31,
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"lina"`)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRegisterEndpoint_OpeningBalanceRoundTrip(t *testing.T) {
	repo := new(mockRepo)
	router, _ := newTestRouter(t, repo)

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"full_name":      "Omar Succar",
		"username":       "omar",
		"password":       "Sup3rSecret",
		"age":            28,
		"wallet_balance": 250,
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"wallet_balance":250`)
}

func TestRegisterEndpoint_NegativeOpeningBalance(t *testing.T) {
	repo := new(mockRepo)
	router, _ := newTestRouter(t, repo)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"full_name":      "Omar Succar",
		"username":       "omar",
		"password":       "Sup3rSecret",
		"age":            28,
		"wallet_balance": -1,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "Create")
}

func TestRegisterEndpoint_ValidationFailure(t *testing.T) {
	repo := new(mockRepo)
	router, _ := newTestRouter(t, repo)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username": "lina",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "Create")
}

func TestLoginEndpoint(t *testing.T) {
	repo := new(mockRepo)
	router, _ := newTestRouter(t, repo)

	hash, err := bcrypt.GenerateFromPassword([]byte("Sup3rSecret"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.On("GetByUsername", mock.Anything, "lina").
		Return(&domain.Customer{Username: "lina", PasswordHash: string(hash)}, nil)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": "lina",
		"password": "Sup3rSecret",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "access_token")
}

func TestGetCustomer_SelfAllowed(t *testing.T) {
	repo := new(mockRepo)
	router, authenticator := newTestRouter(t, repo)

	token, err := authenticator.GenerateToken("lina", false)
	require.NoError(t, err)

	repo.On("GetByUsername", mock.Anything, "lina").
		Return(&domain.Customer{Username: "lina", WalletBalance: 12.5}, nil)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/customers/lina", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"wallet_balance":12.5`)
}

func TestGetCustomer_OtherUserForbidden(t *testing.T) {
	repo := new(mockRepo)
	router, authenticator := newTestRouter(t, repo)

	token, err := authenticator.GenerateToken("mallory", false)
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/customers/lina", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	repo.AssertNotCalled(t, "GetByUsername")
}

func TestGetCustomer_NoToken(t *testing.T) {
	repo := new(mockRepo)
	router, _ := newTestRouter(t, repo)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/customers/lina", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListCustomers_AdminOnly(t *testing.T) {
	repo := new(mockRepo)
	router, authenticator := newTestRouter(t, repo)

	repo.On("List", mock.Anything, mock.Anything).
		Return([]domain.Customer{{Username: "lina"}}, 1, nil)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/customers", testAdminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_count":1`)

	token, err := authenticator.GenerateToken("lina", false)
	require.NoError(t, err)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/customers", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListCustomers_AdminCustomerToken(t *testing.T) {
	repo := new(mockRepo)
	router, _ := newTestRouter(t, repo)

	hash, err := bcrypt.GenerateFromPassword([]byte("Sup3rSecret"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.On("GetByUsername", mock.Anything, "root").
		Return(&domain.Customer{Username: "root", PasswordHash: string(hash), IsAdmin: true}, nil)
	repo.On("List", mock.Anything, mock.Anything).
		Return([]domain.Customer{{Username: "lina"}}, 1, nil)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": "root",
		"password": "Sup3rSecret",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	rec = doJSON(t, router, http.MethodGet, "/api/v1/customers", body.Data.AccessToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestChargeWallet(t *testing.T) {
	repo := new(mockRepo)
	router, authenticator := newTestRouter(t, repo)

	token, err := authenticator.GenerateToken("lina", false)
	require.NoError(t, err)

	repo.On("ChargeWallet", mock.Anything, "lina", 40.0).
		Return(&domain.Customer{Username: "lina", WalletBalance: 40}, nil)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/customers/lina/charge", token, map[string]any{
		"amount": 40,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"wallet_balance":40`)
}

func TestChargeWallet_NegativeAmount(t *testing.T) {
	repo := new(mockRepo)
	router, authenticator := newTestRouter(t, repo)

	token, err := authenticator.GenerateToken("lina", false)
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/customers/lina/charge", token, map[string]any{
		"amount": -5,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "ChargeWallet")
}

func TestDeductWallet_OtherUserForbidden(t *testing.T) {
	repo := new(mockRepo)
	router, authenticator := newTestRouter(t, repo)

	token, err := authenticator.GenerateToken("mallory", false)
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/customers/lina/deduct", token, map[string]any{
		"amount": 5,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	repo.On("DeductWallet", mock.Anything, "lina", 5.0).
		Return(&domain.Customer{Username: "lina", WalletBalance: 35}, nil)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/customers/lina/deduct", testAdminToken, map[string]any{
		"amount": 5,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeductWallet_InsufficientFunds(t *testing.T) {
	repo := new(mockRepo)
	router, _ := newTestRouter(t, repo)

	repo.On("DeductWallet", mock.Anything, "lina", 500.0).
		Return(nil, apperrors.InsufficientFunds("Insufficient funds"))

	rec := doJSON(t, router, http.MethodPost, "/api/v1/customers/lina/deduct", testAdminToken, map[string]any{
		"amount": 500,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Insufficient funds")
}

func TestDeleteCustomer(t *testing.T) {
	repo := new(mockRepo)
	router, authenticator := newTestRouter(t, repo)

	token, err := authenticator.GenerateToken("mallory", false)
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodDelete, "/api/v1/customers/lina", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	repo.AssertNotCalled(t, "Delete")

	repo.On("Delete", mock.Anything, "lina").Return(nil)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/customers/lina", testAdminToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHealthLive(t *testing.T) {
	repo := new(mockRepo)
	router, _ := newTestRouter(t, repo)

	rec := doJSON(t, router, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
