package handler

import (
	"errors"
	"net/http"

	financedomain "github.com/Arzion032/binhi-fms-backend/internal/domain/finance"
	authmw "github.com/Arzion032/binhi-fms-backend/internal/transport/httpserver/middleware"
)

type addFinanceTransactionRequest struct {
	Type            string `json:"type" validate:"required"`
	Amount          string `json:"amount" validate:"required"`
	Description     string `json:"description"`
	Source          string `json:"source" validate:"required"`
	TransactionDate string `json:"transaction_date"`
}

type deleteFinanceTransactionRequest struct {
	TransactionID string `json:"transaction_id" validate:"required,uuid"`
}

type financeListResponse struct {
	Items []financedomain.Transaction `json:"items"`
	Total int64                       `json:"total"`
}

func (h *Handlers) FederationBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.Finance.FederationBalance(r.Context())
	if err != nil {
		h.log.InternalError("finance.balance failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

func (h *Handlers) ListFinanceTransactions(w http.ResponseWriter, r *http.Request) {
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
	from, err := parseDateParam(query.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "from must be YYYY-MM-DD")
		return
	}
	to, err := parseDateParam(query.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "to must be YYYY-MM-DD")
		return
	}

	items, total, err := h.Finance.ListTransactions(r.Context(), financedomain.ListFilter{
		Type:   query.Get("type"),
		From:   from,
		To:     to,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		if errors.Is(err, financedomain.ErrInvalidType) {
			writeError(w, http.StatusBadRequest, "invalid_request", "type must be income or expense")
			return
		}
		h.log.InternalError("finance.list failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, financeListResponse{Items: items, Total: total})
}

func (h *Handlers) AddFinanceTransaction(w http.ResponseWriter, r *http.Request) {
	claims, ok := authmw.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing credentials")
		return
	}

	var req addFinanceTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	amount, err := parseDecimalRequired(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid amount")
		return
	}
	input := financedomain.CreateTransactionInput{
		AdminID:     claims.UserID,
		Type:        req.Type,
		Amount:      amount,
		Description: req.Description,
		Source:      req.Source,
	}
	if req.TransactionDate != "" {
		date, err := parseDateRequired(req.TransactionDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "transaction_date must be YYYY-MM-DD")
			return
		}
		input.TransactionDate = date
	}

	txn, err := h.Finance.CreateTransaction(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, financedomain.ErrInvalidType):
			writeError(w, http.StatusBadRequest, "invalid_request", "type must be income or expense")
		case errors.Is(err, financedomain.ErrInvalidAmount):
			writeError(w, http.StatusBadRequest, "invalid_request", "amount must be positive")
		case errors.Is(err, financedomain.ErrInvalidSource):
			writeError(w, http.StatusBadRequest, "invalid_request", "source is required")
		default:
			h.log.InternalError("finance.add failed", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, txn)
}

func (h *Handlers) DeleteFinanceTransaction(w http.ResponseWriter, r *http.Request) {
	var req deleteFinanceTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.Finance.DeleteTransaction(r.Context(), req.TransactionID); err != nil {
		if errors.Is(err, financedomain.ErrTransactionNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "transaction not found")
			return
		}
		h.log.InternalError("finance.delete failed", err, "transaction_id", req.TransactionID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
