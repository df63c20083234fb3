package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// FindInconsistentAccounts compares each account balance against the signed
// sum of its transaction log and returns the numbers that diverge. Inflow
// kinds count positive, outflow kinds negative.
func (r *LedgerRepository) FindInconsistentAccounts(ctx context.Context) ([]string, error) {
	query := `
		SELECT a.number
		FROM accounts a
		LEFT JOIN (
			SELECT account_no,
			       SUM(CASE WHEN kind IN ('deposit', 'transfer_in', 'loan_disbursement')
			                THEN amount ELSE -amount END) AS total
			FROM transactions
			GROUP BY account_no
		) t ON t.account_no = a.number
		WHERE a.balance <> COALESCE(t.total, 0)
		ORDER BY a.number
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var numbers []string
	for rows.Next() {
		var number string
		if err := rows.Scan(&number); err != nil {
			return nil, err
		}
		numbers = append(numbers, number)
	}

	return numbers, rows.Err()
}
