package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByNumber(ctx context.Context, number string) (*domain.Account, error)
	GetByNumberForUpdate(ctx context.Context, tx Transaction, number string) (*domain.Account, error)
	GetByNumbersForUpdate(ctx context.Context, tx Transaction, numbers []string) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, number string, balance decimal.Decimal, updatedAt time.Time) error
}

// TransactionRepository defines data access for the transaction log.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	ListByAccount(ctx context.Context, accountNo string, limit, offset int) ([]*domain.Transaction, error)
	CategoryTotals(ctx context.Context, accountNo string, kind domain.TransactionKind) ([]domain.CategoryTotal, error)
	MonthlyTotals(ctx context.Context, accountNo string) ([]domain.MonthlyTotal, error)
}

// LoanRepository defines data access for loans.
type LoanRepository interface {
	Create(ctx context.Context, tx Transaction, loan *domain.Loan) error
	GetByID(ctx context.Context, id string) (*domain.Loan, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Loan, error)
	Update(ctx context.Context, tx Transaction, loan *domain.Loan) error
	ListActiveByAccount(ctx context.Context, accountNo string) ([]*domain.Loan, error)
}

// LedgerRepository defines ledger-wide queries.
type LedgerRepository interface {
	// FindInconsistentAccounts returns account numbers whose balance does not
	// equal the sum of their signed transaction amounts.
	FindInconsistentAccounts(ctx context.Context) ([]string, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation when the store reports a transient conflict.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
	// AccountNumber generates a short uppercase account number.
	AccountNumber() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
