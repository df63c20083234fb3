package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/usecase"
)

// RegisterAccountRequest represents a request to open an account.
type RegisterAccountRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterAccountRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	AccountNo string `json:"account_no"`
	Password  string `json:"password"`
}

// RecordTransactionRequest represents a deposit or withdrawal request.
type RecordTransactionRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
}

// ToUseCaseInput converts to use case input for the given account.
func (r *RecordTransactionRequest) ToUseCaseInput(accountNo string) usecase.RecordTransactionInput {
	return usecase.RecordTransactionInput{
		AccountNo: accountNo,
		Amount:    r.Amount,
		Category:  r.Category,
	}
}

// TransferRequest represents a transfer between two accounts.
type TransferRequest struct {
	FromAccountNo string          `json:"from_account_no"`
	ToAccountNo   string          `json:"to_account_no"`
	Amount        decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *TransferRequest) ToUseCaseInput() usecase.TransferInput {
	return usecase.TransferInput{
		FromAccountNo: r.FromAccountNo,
		ToAccountNo:   r.ToAccountNo,
		Amount:        r.Amount,
	}
}

// LoanApplicationRequest represents a loan application.
type LoanApplicationRequest struct {
	AccountNo  string          `json:"account_no"`
	Principal  decimal.Decimal `json:"principal"`
	TermMonths int             `json:"term_months"`
	AnnualRate decimal.Decimal `json:"annual_rate"`
}

// ToUseCaseInput converts to use case input.
func (r *LoanApplicationRequest) ToUseCaseInput() usecase.ApplyInput {
	return usecase.ApplyInput{
		AccountNo:  r.AccountNo,
		Principal:  r.Principal,
		TermMonths: r.TermMonths,
		AnnualRate: r.AnnualRate,
	}
}

// LoanPaymentRequest represents a payment against a loan.
type LoanPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input for the given loan.
func (r *LoanPaymentRequest) ToUseCaseInput(loanID string) usecase.PayInput {
	return usecase.PayInput{
		LoanID: loanID,
		Amount: r.Amount,
	}
}
