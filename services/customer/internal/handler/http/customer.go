package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/httputil"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/pagination"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/validator"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/customer/internal/service"
)

// CustomerHandler handles HTTP requests for customer and wallet endpoints.
type CustomerHandler struct {
	service *service.CustomerService
	logger  *slog.Logger
}

// NewCustomerHandler creates a new customer HTTP handler.
func NewCustomerHandler(svc *service.CustomerService, logger *slog.Logger) *CustomerHandler {
	return &CustomerHandler{service: svc, logger: logger}
}

// UpdateCustomerRequest is the JSON request body for updating a customer.
type UpdateCustomerRequest struct {
	FullName      *string `json:"full_name" validate:"omitempty,min=1,max=200"`
	Password      *string `json:"password" validate:"omitempty,min=8,max=128"`
	Age           *int    `json:"age" validate:"omitempty,gt=0"`
	Address       *string `json:"address" validate:"omitempty,max=500"`
	Gender        *string `json:"gender" validate:"omitempty,max=32"`
	MaritalStatus *string `json:"marital_status" validate:"omitempty,max=32"`
}

// WalletRequest is the JSON request body for wallet charge and deduct.
type WalletRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// List handles GET /api/v1/customers
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	result, err := h.service.List(r.Context(), params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Get handles GET /api/v1/customers/{username}
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	customer, err := h.service.Get(r.Context(), username)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: customer})
}

// Update handles PUT /api/v1/customers/{username}
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req UpdateCustomerRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	customer, err := h.service.Update(r.Context(), username, service.UpdateInput{
		FullName:      req.FullName,
		Password:      req.Password,
		Age:           req.Age,
		Address:       req.Address,
		Gender:        req.Gender,
		MaritalStatus: req.MaritalStatus,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: customer})
}

// Delete handles DELETE /api/v1/customers/{username}
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	if err := h.service.Delete(r.Context(), username); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ChargeWallet handles POST /api/v1/customers/{username}/charge
func (h *CustomerHandler) ChargeWallet(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req WalletRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	customer, err := h.service.ChargeWallet(r.Context(), username, req.Amount)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: customer})
}

// DeductWallet handles POST /api/v1/customers/{username}/deduct
func (h *CustomerHandler) DeductWallet(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req WalletRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	customer, err := h.service.DeductWallet(r.Context(), username, req.Amount)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: customer})
}
