package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/adapter/http/middleware"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/metrics"
	"github.com/iho/gobank/internal/usecase"
)

// TransferService defines the behavior needed by TransferHandler.
type TransferService interface {
	Transfer(ctx context.Context, input usecase.TransferInput) (*usecase.TransferResult, error)
}

// TransferHandler handles transfer HTTP requests.
type TransferHandler struct {
	transferUC TransferService
	metrics    *metrics.Metrics
}

// NewTransferHandler creates a new TransferHandler. metrics may be nil.
func NewTransferHandler(transferUC TransferService, m *metrics.Metrics) *TransferHandler {
	return &TransferHandler{transferUC: transferUC, metrics: m}
}

// Create moves money between two accounts.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	// Tokens only move money out of their own account.
	if claims, ok := middleware.GetClaimsFromContext(r.Context()); ok && claims.AccountNo != req.FromAccountNo {
		writeError(w, http.StatusForbidden, "forbidden", "sender must match the authenticated account")
		return
	}

	result, err := h.transferUC.Transfer(r.Context(), req.ToUseCaseInput())
	if err != nil {
		if h.metrics != nil {
			h.metrics.TransferErrors.WithLabelValues(transferErrorType(err)).Inc()
		}
		writeError(w, mapDomainError(err), "failed to transfer", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.TransfersCreated.Inc()
	}

	writeJSON(w, http.StatusCreated, dto.TransferResponse{
		Outgoing: dto.TransactionFromDomain(result.Outgoing),
		Incoming: dto.TransactionFromDomain(result.Incoming),
	})
}

// transferErrorType buckets transfer failures for the error counter. Labels
// stay low cardinality.
func transferErrorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrRecipientNotFound):
		return "recipient_not_found"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "sender_not_found"
	case errors.Is(err, domain.ErrSameAccount):
		return "same_account"
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrAmountTooLarge):
		return "invalid_amount"
	default:
		return "internal"
	}
}
