package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/adapter/repository/postgres"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
	"github.com/iho/gobank/internal/usecase/mocks"
	"github.com/iho/gobank/tests/testutil"
)

func newLoanUseCase(db *testutil.TestDB) *usecase.LoanUseCase {
	return usecase.NewLoanUseCase(
		postgres.NewTxManager(db.Pool),
		postgres.NewAccountRepository(db.Pool),
		postgres.NewTransactionRepository(db.Pool),
		postgres.NewLoanRepository(db.Pool),
		postgres.NewULIDGenerator(),
		postgres.NewRetrier(zerolog.Nop()),
		mocks.NewMockCache(),
	)
}

func TestLoanLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	db := testutil.NewTestDB(t)
	defer db.Cleanup()
	db.TruncateAll(ctx)

	alice := db.CreateTestAccount(ctx, "Alice", decimal.Zero)

	uc := newLoanUseCase(db)

	loan, err := uc.Apply(ctx, usecase.ApplyInput{
		AccountNo:  alice.Number,
		Principal:  decimal.RequireFromString("1000.00"),
		TermMonths: 10,
		AnnualRate: decimal.Zero,
	})
	if err != nil {
		t.Fatalf("loan application failed: %v", err)
	}

	if loan.Status != domain.LoanStatusActive {
		t.Fatalf("expected active loan, got %s", loan.Status)
	}
	if !loan.Remaining.Equal(decimal.RequireFromString("1000.00")) {
		t.Fatalf("expected remaining 1000.00 at zero interest, got %s", loan.Remaining)
	}

	// Disbursement credits the account.
	if got := db.AccountBalance(ctx, alice.Number); !got.Equal(decimal.RequireFromString("1000.00")) {
		t.Fatalf("expected balance 1000.00 after disbursement, got %s", got)
	}

	// Pay off in two installments.
	if _, err := uc.Pay(ctx, usecase.PayInput{
		LoanID: loan.ID,
		Amount: decimal.RequireFromString("600.00"),
	}); err != nil {
		t.Fatalf("first payment failed: %v", err)
	}

	final, err := uc.Pay(ctx, usecase.PayInput{
		LoanID: loan.ID,
		Amount: decimal.RequireFromString("400.00"),
	})
	if err != nil {
		t.Fatalf("final payment failed: %v", err)
	}

	if final.Status != domain.LoanStatusCompleted {
		t.Fatalf("expected completed loan, got %s", final.Status)
	}

	// Payments debit the account back down.
	if got := db.AccountBalance(ctx, alice.Number); !got.Equal(decimal.Zero) {
		t.Fatalf("expected balance 0 after repayment, got %s", got)
	}

	// Completed loans reject further payments.
	if _, err := uc.Pay(ctx, usecase.PayInput{
		LoanID: loan.ID,
		Amount: decimal.RequireFromString("1.00"),
	}); !errors.Is(err, domain.ErrLoanNotActive) {
		t.Fatalf("expected ErrLoanNotActive, got %v", err)
	}
}

func TestLoanPaymentRequiresFunds(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	db := testutil.NewTestDB(t)
	defer db.Cleanup()
	db.TruncateAll(ctx)

	alice := db.CreateTestAccount(ctx, "Alice", decimal.Zero)

	uc := newLoanUseCase(db)

	loan, err := uc.Apply(ctx, usecase.ApplyInput{
		AccountNo:  alice.Number,
		Principal:  decimal.RequireFromString("100.00"),
		TermMonths: 12,
		AnnualRate: decimal.RequireFromString("5.00"),
	})
	if err != nil {
		t.Fatalf("loan application failed: %v", err)
	}

	// Balance holds only the principal; the repayable amount includes
	// interest, so paying it all at once overdraws.
	_, err = uc.Pay(ctx, usecase.PayInput{
		LoanID: loan.ID,
		Amount: loan.Remaining,
	})
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}
