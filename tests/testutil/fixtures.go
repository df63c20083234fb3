package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/postgres"
)

// TestDB provides isolated test database connections.
type TestDB struct {
	Pool *pgxpool.Pool
	t    *testing.T
}

// NewTestDB connects to the database named by DATABASE_URL and runs
// migrations. Tests calling it are skipped when DATABASE_URL is unset.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	migrationsPath := "migrations"
	if _, err := os.Stat(migrationsPath); os.IsNotExist(err) {
		migrationsPath = "../../migrations"
	}

	if err := postgres.RunMigrations(zerolog.Nop(), dbURL, migrationsPath); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping test database: %v", err)
	}

	return &TestDB{Pool: pool, t: t}
}

// Cleanup closes the database connection.
func (db *TestDB) Cleanup() {
	db.Pool.Close()
}

// TruncateAll removes all data from tables.
func (db *TestDB) TruncateAll(ctx context.Context) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx, `
		TRUNCATE TABLE loans CASCADE;
		TRUNCATE TABLE transactions CASCADE;
		TRUNCATE TABLE accounts CASCADE;
	`)
	if err != nil {
		db.t.Fatalf("failed to truncate tables: %v", err)
	}
}

// CreateTestAccount creates an account with the given starting balance.
func (db *TestDB) CreateTestAccount(ctx context.Context, name string, balance decimal.Decimal) *domain.Account {
	db.t.Helper()

	now := time.Now().UTC()
	number := "T" + ulid.Make().String()[:7]
	email := number + "@example.com"

	hash, err := bcrypt.GenerateFromPassword([]byte("test-password"), bcrypt.MinCost)
	if err != nil {
		db.t.Fatalf("failed to hash password: %v", err)
	}

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO accounts (number, name, email, password_hash, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`, number, name, email, string(hash), balance.String(), now)
	if err != nil {
		db.t.Fatalf("failed to create test account: %v", err)
	}

	// The starting balance gets a matching deposit so the ledger stays
	// consistent.
	if balance.IsPositive() {
		db.InsertTransaction(ctx, number, domain.KindDeposit, balance, "Opening")
	}

	return &domain.Account{
		Number:    number,
		Name:      name,
		Email:     email,
		Balance:   balance,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// InsertTransaction writes a raw transaction row.
func (db *TestDB) InsertTransaction(ctx context.Context, accountNo string, kind domain.TransactionKind, amount decimal.Decimal, category string) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx, `
		INSERT INTO transactions (id, account_no, kind, amount, category, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, ulid.Make().String(), accountNo, string(kind), amount.String(), category, time.Now().UTC())
	if err != nil {
		db.t.Fatalf("failed to insert transaction: %v", err)
	}
}

// AccountBalance reads an account's stored balance.
func (db *TestDB) AccountBalance(ctx context.Context, number string) decimal.Decimal {
	db.t.Helper()

	var balance decimal.Decimal
	row := db.Pool.QueryRow(ctx, `SELECT balance::text FROM accounts WHERE number = $1`, number)

	var raw string
	if err := row.Scan(&raw); err != nil {
		db.t.Fatalf("failed to read balance: %v", err)
	}

	balance, err := decimal.NewFromString(raw)
	if err != nil {
		db.t.Fatalf("failed to parse balance %q: %v", raw, err)
	}
	return balance
}
