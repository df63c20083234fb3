package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind classifies a ledger transaction.
type TransactionKind string

const (
	KindDeposit          TransactionKind = "deposit"
	KindWithdraw         TransactionKind = "withdraw"
	KindTransferOut      TransactionKind = "transfer_out"
	KindTransferIn       TransactionKind = "transfer_in"
	KindLoanDisbursement TransactionKind = "loan_disbursement"
	KindLoanPayment      TransactionKind = "loan_payment"
)

var validKinds = map[TransactionKind]bool{
	KindDeposit:          true,
	KindWithdraw:         true,
	KindTransferOut:      true,
	KindTransferIn:       true,
	KindLoanDisbursement: true,
	KindLoanPayment:      true,
}

// IsValid checks if the kind is a known transaction kind.
func (k TransactionKind) IsValid() bool {
	return validKinds[k]
}

// Inflow reports whether the kind increases the account balance.
func (k TransactionKind) Inflow() bool {
	switch k {
	case KindDeposit, KindTransferIn, KindLoanDisbursement:
		return true
	default:
		return false
	}
}

// Transaction is one immutable record in the append-only transaction log.
// Amount is always positive; the sign is derived from Kind.
type Transaction struct {
	ID           string
	AccountNo    string
	Kind         TransactionKind
	Amount       decimal.Decimal
	Category     string
	Counterparty *string
	CreatedAt    time.Time
}

// SignedAmount returns the balance effect of the transaction: positive for
// inflows, negative for outflows. Summing signed amounts over an account's
// log must reproduce its balance.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Kind.Inflow() {
		return t.Amount
	}
	return t.Amount.Neg()
}

// CategoryTotal is the summed outflow for one spending category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// MonthlyTotal aggregates deposits and withdrawals for one calendar month.
type MonthlyTotal struct {
	Month       string // YYYY-MM
	Deposits    decimal.Decimal
	Withdrawals decimal.Decimal
}
