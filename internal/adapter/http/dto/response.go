package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
)

// AccountResponse represents an account in API responses. The password hash
// never appears here.
type AccountResponse struct {
	Number    string          `json:"number"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		Number:    a.Number,
		Name:      a.Name,
		Email:     a.Email,
		Balance:   a.Balance,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID           string          `json:"id"`
	AccountNo    string          `json:"account_no"`
	Kind         string          `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	Category     string          `json:"category"`
	Counterparty *string         `json:"counterparty,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:           t.ID,
		AccountNo:    t.AccountNo,
		Kind:         string(t.Kind),
		Amount:       t.Amount,
		Category:     t.Category,
		Counterparty: t.Counterparty,
		CreatedAt:    t.CreatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// TransferResponse represents the matched pair written for a transfer.
type TransferResponse struct {
	Outgoing *TransactionResponse `json:"outgoing"`
	Incoming *TransactionResponse `json:"incoming"`
}

// LoanResponse represents a loan in API responses.
type LoanResponse struct {
	ID             string          `json:"id"`
	AccountNo      string          `json:"account_no"`
	Principal      decimal.Decimal `json:"principal"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	TermMonths     int             `json:"term_months"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	Remaining      decimal.Decimal `json:"remaining"`
	Status         string          `json:"status"`
	StartedAt      time.Time       `json:"started_at"`
	NextPaymentAt  time.Time       `json:"next_payment_at"`
}

// LoanFromDomain converts a domain loan to a response.
func LoanFromDomain(l *domain.Loan) *LoanResponse {
	return &LoanResponse{
		ID:             l.ID,
		AccountNo:      l.AccountNo,
		Principal:      l.Principal,
		InterestRate:   l.InterestRate,
		TermMonths:     l.TermMonths,
		MonthlyPayment: l.MonthlyPayment,
		Remaining:      l.Remaining,
		Status:         string(l.Status),
		StartedAt:      l.StartedAt,
		NextPaymentAt:  l.NextPaymentAt,
	}
}

// LoansFromDomain converts domain loans to responses.
func LoansFromDomain(loans []*domain.Loan) []*LoanResponse {
	result := make([]*LoanResponse, len(loans))
	for i, l := range loans {
		result[i] = LoanFromDomain(l)
	}
	return result
}

// CategoryTotalResponse represents one category's spending total.
type CategoryTotalResponse struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// CategoryTotalsFromDomain converts category totals to responses.
func CategoryTotalsFromDomain(totals []domain.CategoryTotal) []CategoryTotalResponse {
	result := make([]CategoryTotalResponse, len(totals))
	for i, t := range totals {
		result[i] = CategoryTotalResponse{Category: t.Category, Total: t.Total}
	}
	return result
}

// MonthlyTotalResponse represents one month's deposit and withdrawal totals.
type MonthlyTotalResponse struct {
	Month       string          `json:"month"`
	Deposits    decimal.Decimal `json:"deposits"`
	Withdrawals decimal.Decimal `json:"withdrawals"`
}

// MonthlyTotalsFromDomain converts monthly totals to responses.
func MonthlyTotalsFromDomain(totals []domain.MonthlyTotal) []MonthlyTotalResponse {
	result := make([]MonthlyTotalResponse, len(totals))
	for i, t := range totals {
		result[i] = MonthlyTotalResponse{
			Month:       t.Month,
			Deposits:    t.Deposits,
			Withdrawals: t.Withdrawals,
		}
	}
	return result
}

// ConsistencyResponse reports the accounting identity check result.
type ConsistencyResponse struct {
	Consistent           bool     `json:"consistent"`
	InconsistentAccounts []string `json:"inconsistent_accounts,omitempty"`
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	Token   string           `json:"token"`
	Account *AccountResponse `json:"account"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
