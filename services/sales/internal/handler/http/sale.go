package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/errors"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/httputil"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/pagination"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/validator"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/sales/internal/service"
)

// SaleHandler handles HTTP requests for the sales ledger and the
// storefront goods views.
type SaleHandler struct {
	service *service.SaleService
	logger  *slog.Logger
}

// NewSaleHandler creates a new sale HTTP handler.
func NewSaleHandler(svc *service.SaleService, logger *slog.Logger) *SaleHandler {
	return &SaleHandler{service: svc, logger: logger}
}

// CreateSaleRequest is the JSON request body for a direct ledger insert.
type CreateSaleRequest struct {
	CustomerID string  `json:"customer_id" validate:"required,uuid"`
	ItemID     string  `json:"item_id" validate:"required,uuid"`
	Amount     float64 `json:"amount" validate:"required"`
}

// UpdateSaleRequest is the JSON request body for an amount correction.
type UpdateSaleRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// ProcessSale handles POST /api/v1/sales/{username}?item_id=<id>. The
// path segment is the buying customer's username.
func (h *SaleHandler) ProcessSale(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "id")
	itemID := r.URL.Query().Get("item_id")
	if itemID == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("item_id query parameter is required"), h.logger)
		return
	}

	result, err := h.service.ProcessSale(r.Context(), username, itemID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Create handles POST /api/v1/sales
func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSaleRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	sale, err := h.service.CreateSale(r.Context(), service.CreateInput{
		CustomerID: req.CustomerID,
		ItemID:     req.ItemID,
		Amount:     req.Amount,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: sale})
}

// Get handles GET /api/v1/sales/{id}
func (h *SaleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	sale, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sale})
}

// ListByCustomer handles GET /api/v1/sales/customer/{customerID}
func (h *SaleHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, ok := httputil.ParseUUID(w, chi.URLParam(r, "customerID"))
	if !ok {
		return
	}

	result, err := h.service.ListByCustomer(r.Context(), customerID, pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// ListByItem handles GET /api/v1/sales/item/{itemID}
func (h *SaleHandler) ListByItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := httputil.ParseUUID(w, chi.URLParam(r, "itemID"))
	if !ok {
		return
	}

	result, err := h.service.ListByItem(r.Context(), itemID, pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Update handles PUT /api/v1/sales/{id}
func (h *SaleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req UpdateSaleRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	sale, err := h.service.UpdateAmount(r.Context(), id, req.Amount)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sale})
}

// Delete handles DELETE /api/v1/sales/{id}
func (h *SaleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListGoods handles GET /api/v1/sales/goods
func (h *SaleHandler) ListGoods(w http.ResponseWriter, r *http.Request) {
	goods, err := h.service.ListGoods(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: goods})
}

// GetGood handles GET /api/v1/sales/goods/{goodID}
func (h *SaleHandler) GetGood(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "goodID"))
	if !ok {
		return
	}

	good, err := h.service.GetGood(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: good})
}
