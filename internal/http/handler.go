package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"NetsQRPay/internal/models"
	"NetsQRPay/internal/nets"
	"NetsQRPay/internal/services"
	"NetsQRPay/internal/store"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	Txns  *services.TransactionService
	Store store.TransactionStore
}

func NewHandler(txns *services.TransactionService, st store.TransactionStore) *Handler {
	return &Handler{Txns: txns, Store: st}
}

type createTransactionRequest struct {
	AmountCents int64 `json:"amountCents"`
}

type createTransactionResponse struct {
	OK            bool                `json:"ok"`
	OrderResponse *nets.OrderResponse `json:"orderResponse"`
	DocID         string              `json:"docId"`
}

type transactionResponse struct {
	Status    string          `json:"status"`
	Response  json.RawMessage `json:"response,omitempty"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt string          `json:"updatedAt"`
}

// CreateTransaction places a NETS order. The body is optional: an empty
// body places an order for the configured default amount.
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	result, err := h.Txns.Place(r.Context(), req.AmountCents)
	if err != nil {
		var gatewayErr *nets.GatewayError
		switch {
		case errors.Is(err, services.ErrInvalidAmount):
			writeError(w, http.StatusBadRequest, "amount must be positive")
		case errors.Is(err, services.ErrMissingCredentials):
			writeError(w, http.StatusPreconditionFailed, "gateway credentials not configured")
		case errors.As(err, &gatewayErr):
			writeError(w, http.StatusBadGateway, "gateway order request failed")
		default:
			writeError(w, http.StatusInternalServerError, "place order failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, createTransactionResponse{
		OK:            result.OK,
		OrderResponse: result.OrderResponse,
		DocID:         result.DocID,
	})
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if docID == "" {
		writeError(w, http.StatusBadRequest, "missing doc id")
		return
	}

	rec, err := h.Store.Get(r.Context(), docID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "get transaction failed")
		return
	}

	writeJSON(w, http.StatusOK, transactionResponse{
		Status:    string(rec.Status),
		Response:  rec.Response,
		CreatedAt: rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt: rec.UpdatedAt.Format(time.RFC3339),
	})
}

// NetsCallback ingests the asynchronous status callback from the switch.
// Malformed bodies are rejected before any derivation or lookup, and an
// unknown transaction never creates a record.
func (h *Handler) NetsCallback(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	var payload nets.TransactionQueryResponse
	if err := json.Unmarshal(raw, &payload); err != nil || payload.TxnIdentifier == "" {
		writeError(w, http.StatusBadRequest, "invalid callback body")
		return
	}

	status, err := h.Txns.ApplyCallback(r.Context(), &payload, raw)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "apply callback failed")
		return
	}

	code := http.StatusOK
	switch status {
	case models.StatusPending:
		code = http.StatusAccepted
	case models.StatusFailed:
		code = http.StatusBadRequest
	}
	writeJSON(w, code, map[string]string{"status": string(status)})
}
