package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
	"github.com/iho/gobank/internal/usecase/mocks"
)

func newTransferUseCase(accRepo *mocks.MockAccountRepository, txnRepo *mocks.MockTransactionRepository) *usecase.TransferUseCase {
	return usecase.NewTransferUseCase(
		mocks.NewMockTransactionManager(),
		accRepo,
		txnRepo,
		mocks.NewMockIDGenerator(),
		nil,
		nil,
	)
}

func TestTransferUseCase_Transfer(t *testing.T) {
	accRepo := mocks.NewMockAccountRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	seedAccount(t, accRepo, "ACC1", 500)
	seedAccount(t, accRepo, "ACC2", 100)

	uc := newTransferUseCase(accRepo, txnRepo)

	result, err := uc.Transfer(context.Background(), usecase.TransferInput{
		FromAccountNo: "ACC1",
		ToAccountNo:   "ACC2",
		Amount:        decimal.NewFromInt(200),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !accRepo.Balance("ACC1").Equal(decimal.NewFromInt(300)) {
		t.Errorf("sender balance = %s, want 300", accRepo.Balance("ACC1"))
	}
	if !accRepo.Balance("ACC2").Equal(decimal.NewFromInt(300)) {
		t.Errorf("recipient balance = %s, want 300", accRepo.Balance("ACC2"))
	}

	// matched pair with mutual counterparty references
	if result.Outgoing.Kind != domain.KindTransferOut || result.Incoming.Kind != domain.KindTransferIn {
		t.Errorf("kinds = %s/%s", result.Outgoing.Kind, result.Incoming.Kind)
	}
	if !result.Outgoing.Amount.Equal(result.Incoming.Amount) {
		t.Error("pair amounts differ")
	}
	if result.Outgoing.Counterparty == nil || *result.Outgoing.Counterparty != "ACC2" {
		t.Error("outgoing counterparty should reference recipient")
	}
	if result.Incoming.Counterparty == nil || *result.Incoming.Counterparty != "ACC1" {
		t.Error("incoming counterparty should reference sender")
	}
	if got := len(txnRepo.All()); got != 2 {
		t.Errorf("recorded %d transactions, want 2", got)
	}
}

func TestTransferUseCase_Declines(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.TransferInput
		wantErr error
	}{
		{
			name: "insufficient funds",
			input: usecase.TransferInput{
				FromAccountNo: "ACC1",
				ToAccountNo:   "ACC2",
				Amount:        decimal.NewFromInt(600),
			},
			wantErr: domain.ErrInsufficientFunds,
		},
		{
			name: "recipient not found",
			input: usecase.TransferInput{
				FromAccountNo: "ACC1",
				ToAccountNo:   "MISSING",
				Amount:        decimal.NewFromInt(100),
			},
			wantErr: domain.ErrRecipientNotFound,
		},
		{
			name: "self transfer",
			input: usecase.TransferInput{
				FromAccountNo: "ACC1",
				ToAccountNo:   "ACC1",
				Amount:        decimal.NewFromInt(100),
			},
			wantErr: domain.ErrSameAccount,
		},
		{
			name: "non-positive amount",
			input: usecase.TransferInput{
				FromAccountNo: "ACC1",
				ToAccountNo:   "ACC2",
				Amount:        decimal.Zero,
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "unknown sender",
			input: usecase.TransferInput{
				FromAccountNo: "MISSING",
				ToAccountNo:   "ACC2",
				Amount:        decimal.NewFromInt(100),
			},
			wantErr: domain.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accRepo := mocks.NewMockAccountRepository()
			txnRepo := mocks.NewMockTransactionRepository()
			seedAccount(t, accRepo, "ACC1", 500)
			seedAccount(t, accRepo, "ACC2", 100)

			uc := newTransferUseCase(accRepo, txnRepo)

			_, err := uc.Transfer(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}

			// declines leave balances and the log untouched
			if !accRepo.Balance("ACC1").Equal(decimal.NewFromInt(500)) {
				t.Errorf("sender balance = %s, want 500", accRepo.Balance("ACC1"))
			}
			if !accRepo.Balance("ACC2").Equal(decimal.NewFromInt(100)) {
				t.Errorf("recipient balance = %s, want 100", accRepo.Balance("ACC2"))
			}
			if got := len(txnRepo.All()); got != 0 {
				t.Errorf("recorded %d transactions, want 0", got)
			}
		})
	}
}

// Transfers conserve total system balance.
func TestTransferUseCase_ConservesTotal(t *testing.T) {
	accRepo := mocks.NewMockAccountRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	seedAccount(t, accRepo, "ACC1", 700)
	seedAccount(t, accRepo, "ACC2", 300)
	seedAccount(t, accRepo, "ACC3", 0)

	uc := newTransferUseCase(accRepo, txnRepo)

	transfers := []usecase.TransferInput{
		{FromAccountNo: "ACC1", ToAccountNo: "ACC2", Amount: decimal.NewFromInt(150)},
		{FromAccountNo: "ACC2", ToAccountNo: "ACC3", Amount: decimal.NewFromInt(400)},
		{FromAccountNo: "ACC3", ToAccountNo: "ACC1", Amount: decimal.NewFromInt(50)},
		{FromAccountNo: "ACC1", ToAccountNo: "ACC3", Amount: decimal.NewFromInt(9999)}, // declines
	}

	for _, input := range transfers {
		_, _ = uc.Transfer(context.Background(), input)
	}

	total := accRepo.Balance("ACC1").Add(accRepo.Balance("ACC2")).Add(accRepo.Balance("ACC3"))
	if !total.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("total system balance = %s, want 1000", total)
	}
}

func TestTransferUseCase_InvalidatesBothCaches(t *testing.T) {
	accRepo := mocks.NewMockAccountRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	cache := mocks.NewMockCache()
	seedAccount(t, accRepo, "ACC1", 500)
	seedAccount(t, accRepo, "ACC2", 0)

	uc := usecase.NewTransferUseCase(
		mocks.NewMockTransactionManager(),
		accRepo,
		txnRepo,
		mocks.NewMockIDGenerator(),
		nil,
		cache,
	)

	_, err := uc.Transfer(context.Background(), usecase.TransferInput{
		FromAccountNo: "ACC1",
		ToAccountNo:   "ACC2",
		Amount:        decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cache.Deleted) != 2 {
		t.Errorf("cache invalidations = %v, want both accounts", cache.Deleted)
	}
}
