package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	orderdomain "github.com/Arzion032/binhi-fms-backend/internal/domain/order"
	authmw "github.com/Arzion032/binhi-fms-backend/internal/transport/httpserver/middleware"
)

type addCartItemRequest struct {
	VariationID string `json:"variation_id" validate:"required,uuid"`
	Quantity    int    `json:"quantity" validate:"required,min=1"`
}

type checkoutRequest struct {
	VariationIDs    []string `json:"variation_ids" validate:"required,min=1"`
	ShippingAddress string   `json:"shipping_address" validate:"required"`
	PaymentMethod   string   `json:"payment_method" validate:"required"`
	DeliveryMethod  string   `json:"delivery_method"`
}

type orderStatusPatchRequest struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

type transactionStatusPatchRequest struct {
	Status string `json:"status" validate:"required"`
}

type bulkDeleteOrdersRequest struct {
	OrderIdentifiers []string `json:"order_identifiers" validate:"required,min=1"`
}

type cartResponse struct {
	Cart  orderdomain.Cart       `json:"cart"`
	Items []orderdomain.CartItem `json:"items"`
}

type orderListResponse struct {
	Items []orderdomain.Order `json:"items"`
	Total int64               `json:"total"`
}

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	claims, ok := authmw.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing credentials")
		return
	}

	cart, items, err := h.Orders.GetCart(r.Context(), claims.UserID)
	if err != nil {
		h.log.InternalError("cart.get failed", err, "buyer_id", claims.UserID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	if items == nil {
		items = []orderdomain.CartItem{}
	}
	writeJSON(w, http.StatusOK, cartResponse{Cart: *cart, Items: items})
}

func (h *Handlers) AddCartItem(w http.ResponseWriter, r *http.Request) {
	claims, ok := authmw.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing credentials")
		return
	}

	var req addCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.Orders.AddCartItem(r.Context(), claims.UserID, req.VariationID, req.Quantity); err != nil {
		switch {
		case errors.Is(err, orderdomain.ErrInvalidQuantity):
			writeError(w, http.StatusBadRequest, "invalid_request", "quantity must be positive")
		case errors.Is(err, orderdomain.ErrCartItemNotFound):
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid variation id")
		default:
			h.log.InternalError("cart.add failed", err, "buyer_id", claims.UserID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	claims, ok := authmw.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing credentials")
		return
	}
	variationID := chi.URLParam(r, "variation_id")

	if err := h.Orders.RemoveCartItem(r.Context(), claims.UserID, variationID); err != nil {
		if errors.Is(err, orderdomain.ErrCartItemNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "cart item not found")
			return
		}
		h.log.InternalError("cart.remove failed", err, "buyer_id", claims.UserID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	claims, ok := authmw.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing credentials")
		return
	}

	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	orders, err := h.Orders.Checkout(r.Context(), orderdomain.CheckoutInput{
		BuyerID:         claims.UserID,
		VariationIDs:    req.VariationIDs,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		DeliveryMethod:  req.DeliveryMethod,
	})
	if err != nil {
		var notInCart *orderdomain.NotInCartError
		var insufficient *orderdomain.InsufficientStockError
		switch {
		case errors.Is(err, orderdomain.ErrEmptySelection), errors.Is(err, orderdomain.ErrInvalidCheckout):
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		case errors.As(err, &notInCart):
			writeError(w, http.StatusBadRequest, "not_in_cart", err.Error())
		case errors.As(err, &insufficient):
			writeError(w, http.StatusConflict, "insufficient_stock", err.Error())
		default:
			h.log.InternalError("orders.checkout failed", err, "buyer_id", claims.UserID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"orders": orders})
}

func (h *Handlers) OrderHistory(w http.ResponseWriter, r *http.Request) {
	claims, ok := authmw.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing credentials")
		return
	}

	orders, err := h.Orders.OrderHistory(r.Context(), claims.UserID, claims.Role)
	if err != nil {
		h.log.InternalError("orders.history failed", err, "buyer_id", claims.UserID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

func (h *Handlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit, err := parseIntParam(query.Get("limit"), 20)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
		return
	}
	offset, err := parseIntParam(query.Get("offset"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid offset")
		return
	}

	orders, total, err := h.Orders.ListOrders(r.Context(), orderdomain.ListFilter{
		Search: query.Get("search"),
		Status: query.Get("status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		if errors.Is(err, orderdomain.ErrInvalidStatus) {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid order status")
			return
		}
		h.log.InternalError("orders.list failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, orderListResponse{Items: orders, Total: total})
}

func (h *Handlers) OrderStatusCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Orders.StatusCounts(r.Context())
	if err != nil {
		h.log.InternalError("orders.status_counts failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	o, err := h.Orders.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, orderdomain.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "order not found")
			return
		}
		h.log.InternalError("orders.get failed", err, "order_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, o)
}

func (h *Handlers) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req orderStatusPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	o, err := h.Orders.UpdateStatus(r.Context(), orderdomain.StatusPatchInput{
		OrderID:       id,
		Status:        req.Status,
		PaymentStatus: req.PaymentStatus,
	})
	if err != nil {
		if errors.Is(err, orderdomain.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "order not found")
			return
		}
		h.log.InternalError("orders.update_status failed", err, "order_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, o)
}

func (h *Handlers) UpdateTransactionStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req transactionStatusPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	txn, err := h.Orders.UpdateTransactionStatus(r.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, orderdomain.ErrInvalidPayment):
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid payment status")
		case errors.Is(err, orderdomain.ErrTransactionNotFound):
			writeError(w, http.StatusNotFound, "not_found", "transaction not found")
		default:
			h.log.InternalError("transactions.update_status failed", err, "transaction_id", id)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, txn)
}

func (h *Handlers) BulkDeleteOrders(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteOrdersRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	deleted, err := h.Orders.BulkDelete(r.Context(), req.OrderIdentifiers)
	if err != nil {
		if errors.Is(err, orderdomain.ErrEmptySelection) {
			writeError(w, http.StatusBadRequest, "invalid_request", "no order identifiers provided")
			return
		}
		h.log.InternalError("orders.bulk_delete failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}
