package http

import (
	"log/slog"
	"net/http"

	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/httputil"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/validator"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/customer/internal/service"
)

// AuthHandler handles registration and login endpoints.
type AuthHandler struct {
	service *service.CustomerService
	logger  *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(svc *service.CustomerService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, logger: logger}
}

// RegisterRequest is the JSON request body for customer registration.
// WalletBalance is the optional opening balance; it defaults to zero
// when omitted.
type RegisterRequest struct {
	FullName      string  `json:"full_name" validate:"required,min=1,max=200"`
	Username      string  `json:"username" validate:"required,min=3,max=64,alphanum"`
	Password      string  `json:"password" validate:"required,min=8,max=128"`
	Age           int     `json:"age" validate:"required,gt=0"`
	Address       string  `json:"address" validate:"omitempty,max=500"`
	Gender        string  `json:"gender" validate:"omitempty,max=32"`
	MaritalStatus string  `json:"marital_status" validate:"omitempty,max=32"`
	WalletBalance float64 `json:"wallet_balance" validate:"gte=0"`
}

// LoginRequest is the JSON request body for customer login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	customer, err := h.service.Register(r.Context(), service.RegisterInput{
		FullName:      req.FullName,
		Username:      req.Username,
		Password:      req.Password,
		Age:           req.Age,
		Address:       req.Address,
		Gender:        req.Gender,
		MaritalStatus: req.MaritalStatus,
		WalletBalance: req.WalletBalance,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: customer})
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	token, err := h.service.Login(r.Context(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: token})
}
