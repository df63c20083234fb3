package usecase

import (
	"context"

	"github.com/iho/gobank/internal/domain"
)

// HistoryUseCase serves transaction history and reporting queries. Every call
// runs a fresh query; nothing here holds a cursor open.
type HistoryUseCase struct {
	txnRepo TransactionRepository
}

// NewHistoryUseCase creates a new HistoryUseCase.
func NewHistoryUseCase(txnRepo TransactionRepository) *HistoryUseCase {
	return &HistoryUseCase{txnRepo: txnRepo}
}

// ListInput represents input for listing transactions.
type ListInput struct {
	AccountNo string
	Limit     int
	Offset    int
}

// List returns the account's transactions, most recent first.
func (uc *HistoryUseCase) List(ctx context.Context, input ListInput) ([]*domain.Transaction, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.txnRepo.ListByAccount(ctx, input.AccountNo, limit, offset)
}

// SpendingByCategory sums withdrawals per category.
func (uc *HistoryUseCase) SpendingByCategory(ctx context.Context, accountNo string) ([]domain.CategoryTotal, error) {
	return uc.txnRepo.CategoryTotals(ctx, accountNo, domain.KindWithdraw)
}

// MonthlySummary returns per-month deposit and withdrawal totals.
func (uc *HistoryUseCase) MonthlySummary(ctx context.Context, accountNo string) ([]domain.MonthlyTotal, error) {
	return uc.txnRepo.MonthlyTotals(ctx, accountNo)
}
