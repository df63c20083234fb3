package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create inserts a transaction record inside a database transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO transactions (id, account_no, kind, amount, category, counterparty, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := pgxTx.Exec(ctx, query,
		txn.ID,
		txn.AccountNo,
		string(txn.Kind),
		decimalToNumeric(txn.Amount),
		txn.Category,
		txn.Counterparty,
		timeToPgTimestamptz(txn.CreatedAt),
	)

	return err
}

// ListByAccount returns an account's transactions, most recent first.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountNo string, limit, offset int) ([]*domain.Transaction, error) {
	query := `
		SELECT id, account_no, kind, amount, category, counterparty, created_at
		FROM transactions
		WHERE account_no = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, accountNo, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*domain.Transaction
	for rows.Next() {
		var (
			txn       domain.Transaction
			kind      string
			amount    pgtype.Numeric
			createdAt pgtype.Timestamptz
		)

		err := rows.Scan(
			&txn.ID,
			&txn.AccountNo,
			&kind,
			&amount,
			&txn.Category,
			&txn.Counterparty,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		txn.Kind = domain.TransactionKind(kind)
		txn.Amount = numericToDecimal(amount)
		txn.CreatedAt = createdAt.Time
		txns = append(txns, &txn)
	}

	return txns, rows.Err()
}

// CategoryTotals sums an account's transactions of one kind per category.
func (r *TransactionRepository) CategoryTotals(ctx context.Context, accountNo string, kind domain.TransactionKind) ([]domain.CategoryTotal, error) {
	query := `
		SELECT category, SUM(amount)
		FROM transactions
		WHERE account_no = $1 AND kind = $2
		GROUP BY category
		ORDER BY category
	`

	rows, err := r.pool.Query(ctx, query, accountNo, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []domain.CategoryTotal
	for rows.Next() {
		var (
			total domain.CategoryTotal
			sum   pgtype.Numeric
		)

		if err := rows.Scan(&total.Category, &sum); err != nil {
			return nil, err
		}

		total.Total = numericToDecimal(sum)
		totals = append(totals, total)
	}

	return totals, rows.Err()
}

// MonthlyTotals returns per-month deposit and withdrawal sums for an account.
func (r *TransactionRepository) MonthlyTotals(ctx context.Context, accountNo string) ([]domain.MonthlyTotal, error) {
	query := `
		SELECT to_char(created_at, 'YYYY-MM') AS month,
		       COALESCE(SUM(amount) FILTER (WHERE kind = 'deposit'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE kind = 'withdraw'), 0)
		FROM transactions
		WHERE account_no = $1
		GROUP BY month
		ORDER BY month
	`

	rows, err := r.pool.Query(ctx, query, accountNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []domain.MonthlyTotal
	for rows.Next() {
		var (
			total       domain.MonthlyTotal
			deposits    pgtype.Numeric
			withdrawals pgtype.Numeric
		)

		if err := rows.Scan(&total.Month, &deposits, &withdrawals); err != nil {
			return nil, err
		}

		total.Deposits = numericToDecimal(deposits)
		total.Withdrawals = numericToDecimal(withdrawals)
		totals = append(totals, total)
	}

	return totals, rows.Err()
}
