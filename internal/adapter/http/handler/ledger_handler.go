package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/metrics"
	"github.com/iho/gobank/internal/usecase"
)

// LedgerService defines the deposit/withdraw behavior needed by LedgerHandler.
type LedgerService interface {
	Deposit(ctx context.Context, input usecase.RecordTransactionInput) (*domain.Transaction, error)
	Withdraw(ctx context.Context, input usecase.RecordTransactionInput) (*domain.Transaction, error)
}

// ConsistencyService defines the ledger check behavior needed by LedgerHandler.
type ConsistencyService interface {
	Check(ctx context.Context) ([]string, error)
}

// LedgerHandler handles deposits, withdrawals and the consistency check.
type LedgerHandler struct {
	ledgerUC      LedgerService
	consistencyUC ConsistencyService
	metrics       *metrics.Metrics
}

// NewLedgerHandler creates a new LedgerHandler. metrics may be nil.
func NewLedgerHandler(ledgerUC LedgerService, consistencyUC ConsistencyService, m *metrics.Metrics) *LedgerHandler {
	return &LedgerHandler{
		ledgerUC:      ledgerUC,
		consistencyUC: consistencyUC,
		metrics:       m,
	}
}

// Deposit credits an account.
func (h *LedgerHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	accountNo := chi.URLParam(r, "no")

	var req dto.RecordTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	txn, err := h.ledgerUC.Deposit(r.Context(), req.ToUseCaseInput(accountNo))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record deposit", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.DepositsCreated.Inc()
		h.metrics.TransactionAmount.WithLabelValues(string(txn.Kind)).Observe(txn.Amount.InexactFloat64())
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// Withdraw debits an account, declining when the balance is insufficient.
func (h *LedgerHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	accountNo := chi.URLParam(r, "no")

	var req dto.RecordTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	txn, err := h.ledgerUC.Withdraw(r.Context(), req.ToUseCaseInput(accountNo))
	if err != nil {
		if h.metrics != nil && errors.Is(err, domain.ErrInsufficientFunds) {
			h.metrics.WithdrawalDeclines.Inc()
		}
		writeError(w, mapDomainError(err), "failed to record withdrawal", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.WithdrawalsCreated.Inc()
		h.metrics.TransactionAmount.WithLabelValues(string(txn.Kind)).Observe(txn.Amount.InexactFloat64())
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// Consistency verifies every balance equals its signed transaction sum.
func (h *LedgerHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	inconsistent, err := h.consistencyUC.Check(r.Context())
	if err != nil && !errors.Is(err, usecase.ErrInconsistentLedger) {
		writeError(w, http.StatusInternalServerError, "consistency check failed", err.Error())
		return
	}

	status := http.StatusOK
	if len(inconsistent) > 0 {
		status = http.StatusConflict
	}

	writeJSON(w, status, dto.ConsistencyResponse{
		Consistent:           len(inconsistent) == 0,
		InconsistentAccounts: inconsistent,
	})
}
