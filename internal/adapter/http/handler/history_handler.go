package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// HistoryService defines the behavior needed by HistoryHandler.
type HistoryService interface {
	List(ctx context.Context, input usecase.ListInput) ([]*domain.Transaction, error)
	SpendingByCategory(ctx context.Context, accountNo string) ([]domain.CategoryTotal, error)
	MonthlySummary(ctx context.Context, accountNo string) ([]domain.MonthlyTotal, error)
}

// HistoryHandler handles transaction history and reporting requests.
type HistoryHandler struct {
	historyUC HistoryService
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(historyUC HistoryService) *HistoryHandler {
	return &HistoryHandler{historyUC: historyUC}
}

// List returns an account's transactions, most recent first.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	accountNo := chi.URLParam(r, "no")
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	txns, err := h.historyUC.List(r.Context(), usecase.ListInput{
		AccountNo: accountNo,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(txns))
}

// SpendingByCategory sums withdrawals per category.
func (h *HistoryHandler) SpendingByCategory(w http.ResponseWriter, r *http.Request) {
	accountNo := chi.URLParam(r, "no")

	totals, err := h.historyUC.SpendingByCategory(r.Context(), accountNo)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to sum spending", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CategoryTotalsFromDomain(totals))
}

// MonthlySummary returns per-month deposit and withdrawal totals.
func (h *HistoryHandler) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	accountNo := chi.URLParam(r, "no")

	totals, err := h.historyUC.MonthlySummary(r.Context(), accountNo)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build monthly summary", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MonthlyTotalsFromDomain(totals))
}
