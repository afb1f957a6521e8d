package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	inventorydomain "github.com/Arzion032/binhi-fms-backend/internal/domain/inventory"
	authmw "github.com/Arzion032/binhi-fms-backend/internal/transport/httpserver/middleware"
)

type addInventoryItemRequest struct {
	ItemName    string          `json:"item_name" validate:"required"`
	RentalPrice decimal.Decimal `json:"rental_price"`
	Quantity    int             `json:"quantity" validate:"min=0"`
	Available   int             `json:"available" validate:"min=0"`
	Rented      int             `json:"rented" validate:"min=0"`
	Unit        string          `json:"unit"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
}

type updateInventoryItemRequest struct {
	ItemName    *string          `json:"item_name"`
	RentalPrice *decimal.Decimal `json:"rental_price"`
	Quantity    *int             `json:"quantity"`
	Available   *int             `json:"available"`
	Rented      *int             `json:"rented"`
	Unit        *string          `json:"unit"`
	Category    *string          `json:"category"`
	Description *string          `json:"description"`
}

type deleteInventoryItemRequest struct {
	ItemID string `json:"item_id" validate:"required,uuid"`
}

type rentItemRequest struct {
	ItemID        string `json:"item_id" validate:"required,uuid"`
	RenterName    string `json:"renter_name" validate:"required"`
	ContactNumber string `json:"contact_number"`
	Quantity      int    `json:"quantity" validate:"required,min=1"`
	Notes         string `json:"notes"`
}

func (h *Handlers) ListInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.Inventory.ListItems(r.Context())
	if err != nil {
		h.log.InternalError("inventory.list failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handlers) AddInventoryItem(w http.ResponseWriter, r *http.Request) {
	claims, ok := authmw.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing credentials")
		return
	}

	var req addInventoryItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	item, err := h.Inventory.AddItem(r.Context(), inventorydomain.CreateItemInput{
		AdminID:     claims.UserID,
		ItemName:    req.ItemName,
		RentalPrice: req.RentalPrice,
		Quantity:    req.Quantity,
		Available:   req.Available,
		Rented:      req.Rented,
		Unit:        req.Unit,
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, inventorydomain.ErrNegativeQuantity),
			errors.Is(err, inventorydomain.ErrCountersExceedQuantity):
			writeError(w, http.StatusBadRequest, "invalid_counters", err.Error())
		default:
			h.log.BusinessError("inventory.add rejected", err)
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

func (h *Handlers) UpdateInventoryItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateInventoryItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	input := inventorydomain.UpdateItemInput{ItemID: id, RentalPrice: req.RentalPrice}
	if req.ItemName != nil {
		input.ItemName = inventorydomain.OptionalString{Set: true, Value: *req.ItemName}
	}
	if req.Quantity != nil {
		input.Quantity = inventorydomain.OptionalInt{Set: true, Value: *req.Quantity}
	}
	if req.Available != nil {
		input.Available = inventorydomain.OptionalInt{Set: true, Value: *req.Available}
	}
	if req.Rented != nil {
		input.Rented = inventorydomain.OptionalInt{Set: true, Value: *req.Rented}
	}
	if req.Unit != nil {
		input.Unit = inventorydomain.OptionalString{Set: true, Value: *req.Unit}
	}
	if req.Category != nil {
		input.Category = inventorydomain.OptionalString{Set: true, Value: *req.Category}
	}
	if req.Description != nil {
		input.Description = inventorydomain.OptionalString{Set: true, Value: *req.Description}
	}

	item, err := h.Inventory.UpdateItem(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, inventorydomain.ErrItemNotFound):
			writeError(w, http.StatusNotFound, "not_found", "inventory item not found")
		case errors.Is(err, inventorydomain.ErrNegativeQuantity),
			errors.Is(err, inventorydomain.ErrCountersExceedQuantity):
			writeError(w, http.StatusBadRequest, "invalid_counters", err.Error())
		default:
			h.log.BusinessError("inventory.update rejected", err, "item_id", id)
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, item)
}

func (h *Handlers) DeleteInventoryItem(w http.ResponseWriter, r *http.Request) {
	var req deleteInventoryItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.Inventory.DeleteItem(r.Context(), req.ItemID); err != nil {
		if errors.Is(err, inventorydomain.ErrItemNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "inventory item not found")
			return
		}
		h.log.InternalError("inventory.delete failed", err, "item_id", req.ItemID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) RentItem(w http.ResponseWriter, r *http.Request) {
	claims, ok := authmw.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing credentials")
		return
	}

	var req rentItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	rental, err := h.Inventory.Rent(r.Context(), inventorydomain.RentInput{
		AdminID:       claims.UserID,
		ItemID:        req.ItemID,
		RenterName:    req.RenterName,
		ContactNumber: req.ContactNumber,
		Quantity:      req.Quantity,
		Notes:         req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, inventorydomain.ErrItemNotFound):
			writeError(w, http.StatusNotFound, "not_found", "inventory item not found")
		case errors.Is(err, inventorydomain.ErrInsufficientAvailable):
			writeError(w, http.StatusConflict, "insufficient_available", "not enough available quantity")
		default:
			h.log.BusinessError("inventory.rent rejected", err, "item_id", req.ItemID)
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, rental)
}

func (h *Handlers) ReturnItem(w http.ResponseWriter, r *http.Request) {
	rentalID := chi.URLParam(r, "rental_id")

	rental, err := h.Inventory.Return(r.Context(), rentalID)
	if err != nil {
		switch {
		case errors.Is(err, inventorydomain.ErrRentalNotFound):
			writeError(w, http.StatusNotFound, "not_found", "rental not found")
		case errors.Is(err, inventorydomain.ErrAlreadyReturned):
			writeError(w, http.StatusConflict, "already_returned", "rental already returned")
		default:
			h.log.InternalError("inventory.return failed", err, "rental_id", rentalID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, rental)
}

func (h *Handlers) ListRentals(w http.ResponseWriter, r *http.Request) {
	rentals, err := h.Inventory.ListRentals(r.Context())
	if err != nil {
		h.log.InternalError("inventory.rentals failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, rentals)
}
