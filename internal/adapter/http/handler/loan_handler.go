package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/adapter/http/middleware"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/metrics"
	"github.com/iho/gobank/internal/usecase"
)

// LoanService defines the behavior needed by LoanHandler.
type LoanService interface {
	Apply(ctx context.Context, input usecase.ApplyInput) (*domain.Loan, error)
	Pay(ctx context.Context, input usecase.PayInput) (*domain.Loan, error)
	Get(ctx context.Context, id string) (*domain.Loan, error)
	ListActive(ctx context.Context, accountNo string) ([]*domain.Loan, error)
}

// LoanHandler handles loan HTTP requests.
type LoanHandler struct {
	loanUC  LoanService
	metrics *metrics.Metrics
}

// NewLoanHandler creates a new LoanHandler. metrics may be nil.
func NewLoanHandler(loanUC LoanService, m *metrics.Metrics) *LoanHandler {
	return &LoanHandler{loanUC: loanUC, metrics: m}
}

// Apply approves a loan and credits the principal to the account.
func (h *LoanHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req dto.LoanApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	// Tokens only borrow against their own account.
	if claims, ok := middleware.GetClaimsFromContext(r.Context()); ok && claims.AccountNo != req.AccountNo {
		writeError(w, http.StatusForbidden, "forbidden", "loan account must match the authenticated account")
		return
	}

	loan, err := h.loanUC.Apply(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to apply for loan", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.LoansCreated.Inc()
	}

	writeJSON(w, http.StatusCreated, dto.LoanFromDomain(loan))
}

// Pay applies a payment to a loan.
func (h *LoanHandler) Pay(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "id")

	var req dto.LoanPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	// Payments debit the owning account, so the token must own the loan.
	if claims, ok := middleware.GetClaimsFromContext(r.Context()); ok {
		existing, err := h.loanUC.Get(r.Context(), loanID)
		if err != nil {
			writeError(w, mapDomainError(err), "failed to record payment", err.Error())
			return
		}
		if existing.AccountNo != claims.AccountNo {
			writeError(w, http.StatusForbidden, "forbidden", "loan does not belong to the authenticated account")
			return
		}
	}

	loan, err := h.loanUC.Pay(r.Context(), req.ToUseCaseInput(loanID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record payment", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.LoanPayments.Inc()
		if loan.Status == domain.LoanStatusCompleted {
			h.metrics.LoansCompleted.Inc()
		}
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// ListActive returns an account's active loans.
func (h *LoanHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	accountNo := chi.URLParam(r, "no")

	loans, err := h.loanUC.ListActive(r.Context(), accountNo)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list loans", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoansFromDomain(loans))
}
