package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the lifecycle state of a loan.
type LoanStatus string

const (
	LoanStatusActive    LoanStatus = "active"
	LoanStatusCompleted LoanStatus = "completed"
)

// PaymentInterval is the time between scheduled loan payments.
const PaymentInterval = 30 * 24 * time.Hour

// Loan represents a simple-interest loan disbursed to an account. Remaining
// is the receivable owed to the bank, tracked independently of the account's
// cash balance.
type Loan struct {
	ID             string
	AccountNo      string
	Principal      decimal.Decimal
	InterestRate   decimal.Decimal // annual, percent
	TermMonths     int
	MonthlyPayment decimal.Decimal
	Remaining      decimal.Decimal
	Status         LoanStatus
	StartedAt      time.Time
	NextPaymentAt  time.Time
}

// LoanTerms is the computed repayment schedule for a loan application.
type LoanTerms struct {
	Interest       decimal.Decimal
	TotalRepayable decimal.Decimal
	MonthlyPayment decimal.Decimal
}

// ComputeLoanTerms calculates simple (non-compounding) interest:
// interest = principal * rate * term / (12 * 100).
func ComputeLoanTerms(principal, annualRate decimal.Decimal, termMonths int) (LoanTerms, error) {
	if principal.LessThanOrEqual(decimal.Zero) {
		return LoanTerms{}, ErrInvalidAmount
	}
	if termMonths <= 0 {
		return LoanTerms{}, ErrInvalidLoanTerm
	}
	if annualRate.IsNegative() {
		return LoanTerms{}, ErrInvalidInterestRate
	}

	months := decimal.NewFromInt(int64(termMonths))
	interest := principal.Mul(annualRate).Mul(months).Div(decimal.NewFromInt(1200))
	total := principal.Add(interest)

	return LoanTerms{
		Interest:       interest,
		TotalRepayable: total,
		MonthlyPayment: total.DivRound(months, 2),
	}, nil
}

// Active reports whether the loan still accepts payments.
func (l *Loan) Active() bool {
	return l.Status == LoanStatusActive
}

// ApplyPayment decrements the remaining receivable, advances the next due
// date and completes the loan when the remaining amount reaches zero or
// below. Overpayment is permitted and not refunded.
func (l *Loan) ApplyPayment(amount decimal.Decimal, now time.Time) error {
	if !l.Active() {
		return ErrLoanNotActive
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	l.Remaining = l.Remaining.Sub(amount)
	l.NextPaymentAt = now.Add(PaymentInterval)

	if l.Remaining.LessThanOrEqual(decimal.Zero) {
		l.Status = LoanStatusCompleted
	}

	return nil
}
