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

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/auth"
	apperrors "github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/errors"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/health"
	pkgkafka "github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/kafka"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/middleware"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/pagination"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/inventory/internal/domain"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/inventory/internal/event"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/inventory/internal/service"
)

const testAdminToken = "test-admin-token"

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, params pagination.Params) ([]domain.Item, int, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]domain.Item), args.Int(1), args.Error(2)
}

func (m *mockRepo) Update(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRepo) DeleteAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockRepo) DeductOne(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *mockRepo) RecordMovement(ctx context.Context, mv *domain.StockMovement) error {
	args := m.Called(ctx, mv)
	return args.Error(0)
}

func (m *mockRepo) ListMovements(ctx context.Context, itemID uuid.UUID, params pagination.Params) ([]domain.StockMovement, int, error) {
	args := m.Called(ctx, itemID, params)
	return args.Get(0).([]domain.StockMovement), args.Int(1), args.Error(2)
}

func newTestRouter(t *testing.T, repo *mockRepo) (http.Handler, *auth.Authenticator) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	authenticator := auth.NewAuthenticator("test-secret-key-for-handler-tests", testAdminToken, 30*time.Minute)
	kafkaProducer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig([]string{"localhost:9092"}), logger)
	producer := event.NewProducer(kafkaProducer, logger)
	svc := service.NewItemService(repo, producer, logger)

	router := NewRouter(RouterConfig{
		Service:        svc,
		Authenticator:  authenticator,
		HealthHandler:  health.NewHandler(),
		Logger:         logger,
		CORS:           middleware.DefaultCORSConfig(),
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
		CacheMaxAge:    30,
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

func userToken(t *testing.T, a *auth.Authenticator) string {
	t.Helper()
	token, err := a.GenerateToken("shopper", false)
	require.NoError(t, err)
	return token
}

func TestCreateItem(t *testing.T) {
	repo := new(mockRepo)
	router, authenticator := newTestRouter(t, repo)

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/items", userToken(t, authenticator), map[string]any{
		"name":        "mechanical keyboard",
		"price":       50,
		"stock_count": 10,
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"stock_count":10`)
}

func TestCreateItem_Unauthenticated(t *testing.T) {
	repo := new(mockRepo)
	router, _ := newTestRouter(t, repo)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/items", "", map[string]any{
		"name": "keyboard",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetItem_CacheHeader(t *testing.T) {
	repo := new(mockRepo)
	router, authenticator := newTestRouter(t, repo)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).
		Return(&domain.Item{ID: id, Name: "keyboard", Price: 50, StockCount: 10}, nil)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/items/"+id.String(), userToken(t, authenticator), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=30", rec.Header().Get("Cache-Control"))
}

func TestGetItem_NotFound(t *testing.T) {
	repo := new(mockRepo)
	router, authenticator := newTestRouter(t, repo)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).
		Return(nil, apperrors.NotFound("Item not found"))

	rec := doJSON(t, router, http.MethodGet, "/api/v1/items/"+id.String(), userToken(t, authenticator), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Item not found")
}

func TestGetItem_BadUUID(t *testing.T) {
	repo := new(mockRepo)
	router, authenticator := newTestRouter(t, repo)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/items/not-a-uuid", userToken(t, authenticator), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeductEndpoint_OutOfStock(t *testing.T) {
	repo := new(mockRepo)
	router, authenticator := newTestRouter(t, repo)

	id := uuid.New()
	repo.On("DeductOne", mock.Anything, id).
		Return(nil, apperrors.OutOfStock("No stock available to deduct"))

	rec := doJSON(t, router, http.MethodPost, "/api/v1/items/"+id.String()+"/deduct", userToken(t, authenticator), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No stock available to deduct")
}

func TestDeductEndpoint(t *testing.T) {
	repo := new(mockRepo)
	router, authenticator := newTestRouter(t, repo)

	id := uuid.New()
	repo.On("DeductOne", mock.Anything, id).
		Return(&domain.Item{ID: id, Name: "keyboard", StockCount: 9}, nil)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/items/"+id.String()+"/deduct", userToken(t, authenticator), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"stock_count":9`)
}

func TestDeleteAll_AdminOnly(t *testing.T) {
	repo := new(mockRepo)
	router, authenticator := newTestRouter(t, repo)

	rec := doJSON(t, router, http.MethodDelete, "/api/v1/items", userToken(t, authenticator), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	repo.AssertNotCalled(t, "DeleteAll")

	repo.On("DeleteAll", mock.Anything).Return(3, nil)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/items", testAdminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"deleted":3`)
}
