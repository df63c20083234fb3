package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

const loanColumns = `id, account_no, principal, interest_rate, term_months,
		monthly_payment, remaining, status, started_at, next_payment_at`

// LoanRepository implements usecase.LoanRepository.
type LoanRepository struct {
	pool *pgxpool.Pool
}

// NewLoanRepository creates a new LoanRepository.
func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return &LoanRepository{pool: pool}
}

// Create inserts a loan inside a database transaction.
func (r *LoanRepository) Create(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := pgxTx.Exec(ctx, query,
		loan.ID,
		loan.AccountNo,
		decimalToNumeric(loan.Principal),
		decimalToNumeric(loan.InterestRate),
		loan.TermMonths,
		decimalToNumeric(loan.MonthlyPayment),
		decimalToNumeric(loan.Remaining),
		string(loan.Status),
		timeToPgTimestamptz(loan.StartedAt),
		timeToPgTimestamptz(loan.NextPaymentAt),
	)

	return err
}

// GetByID retrieves a loan by ID.
func (r *LoanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	return scanLoan(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves a loan by ID with a FOR UPDATE lock.
func (r *LoanRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Loan, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1 FOR UPDATE`

	return scanLoan(pgxTx.QueryRow(ctx, query, id))
}

// Update persists loan state inside a database transaction.
func (r *LoanRepository) Update(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		UPDATE loans
		SET remaining = $2, status = $3, next_payment_at = $4
		WHERE id = $1
	`

	_, err := pgxTx.Exec(ctx, query,
		loan.ID,
		decimalToNumeric(loan.Remaining),
		string(loan.Status),
		timeToPgTimestamptz(loan.NextPaymentAt),
	)

	return err
}

// ListActiveByAccount returns an account's active loans, newest first.
func (r *LoanRepository) ListActiveByAccount(ctx context.Context, accountNo string) ([]*domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE account_no = $1 AND status = $2
		ORDER BY started_at DESC
	`

	rows, err := r.pool.Query(ctx, query, accountNo, string(domain.LoanStatusActive))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []*domain.Loan
	for rows.Next() {
		loan, err := scanLoanRow(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}

	return loans, rows.Err()
}

func scanLoan(row pgx.Row) (*domain.Loan, error) {
	loan, err := scanLoanRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrLoanNotFound
	}
	if err != nil {
		return nil, err
	}

	return loan, nil
}

func scanLoanRow(row pgx.Row) (*domain.Loan, error) {
	var (
		loan           domain.Loan
		principal      pgtype.Numeric
		interestRate   pgtype.Numeric
		monthlyPayment pgtype.Numeric
		remaining      pgtype.Numeric
		status         string
		startedAt      pgtype.Timestamptz
		nextPaymentAt  pgtype.Timestamptz
	)

	err := row.Scan(
		&loan.ID,
		&loan.AccountNo,
		&principal,
		&interestRate,
		&loan.TermMonths,
		&monthlyPayment,
		&remaining,
		&status,
		&startedAt,
		&nextPaymentAt,
	)
	if err != nil {
		return nil, err
	}

	loan.Principal = numericToDecimal(principal)
	loan.InterestRate = numericToDecimal(interestRate)
	loan.MonthlyPayment = numericToDecimal(monthlyPayment)
	loan.Remaining = numericToDecimal(remaining)
	loan.Status = domain.LoanStatus(status)
	loan.StartedAt = startedAt.Time
	loan.NextPaymentAt = nextPaymentAt.Time

	return &loan, nil
}
