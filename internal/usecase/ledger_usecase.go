package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
)

// LedgerUseCase handles deposits and withdrawals: every balance mutation and
// its transaction record commit together or not at all.
type LedgerUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	txnRepo     TransactionRepository
	idGen       IDGenerator
	retrier     Retrier
	cache       Cache
}

// NewLedgerUseCase creates a new LedgerUseCase. retrier and cache may be nil.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	txnRepo TransactionRepository,
	idGen IDGenerator,
	retrier Retrier,
	cache Cache,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		idGen:       idGen,
		retrier:     retrier,
		cache:       cache,
	}
}

// RecordTransactionInput represents a deposit or withdrawal request.
type RecordTransactionInput struct {
	AccountNo string
	Amount    decimal.Decimal
	Category  string
}

// Deposit credits the account and appends a deposit record.
func (uc *LedgerUseCase) Deposit(ctx context.Context, input RecordTransactionInput) (*domain.Transaction, error) {
	return uc.record(ctx, domain.KindDeposit, input)
}

// Withdraw debits the account and appends a withdraw record. Declines with
// ErrInsufficientFunds when the amount exceeds the balance, leaving both the
// balance and the log untouched.
func (uc *LedgerUseCase) Withdraw(ctx context.Context, input RecordTransactionInput) (*domain.Transaction, error) {
	return uc.record(ctx, domain.KindWithdraw, input)
}

func (uc *LedgerUseCase) record(ctx context.Context, kind domain.TransactionKind, input RecordTransactionInput) (*domain.Transaction, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := domain.ValidateCategory(input.Category); err != nil {
		return nil, err
	}

	var txn *domain.Transaction

	op := func() error {
		var err error
		txn, err = uc.recordOnce(ctx, kind, input)
		return err
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, op)
	} else {
		err = op()
	}
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx, input.AccountNo)
	return txn, nil
}

func (uc *LedgerUseCase) recordOnce(ctx context.Context, kind domain.TransactionKind, input RecordTransactionInput) (*domain.Transaction, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByNumberForUpdate(ctx, tx, input.AccountNo)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	var newBalance decimal.Decimal
	if kind == domain.KindWithdraw {
		if err := account.CanWithdraw(input.Amount); err != nil {
			return nil, err
		}
		newBalance = account.ApplyDebit(input.Amount)
	} else {
		newBalance = account.ApplyCredit(input.Amount)
	}

	txn := &domain.Transaction{
		ID:        uc.idGen.Generate(),
		AccountNo: account.Number,
		Kind:      kind,
		Amount:    input.Amount,
		Category:  input.Category,
		CreatedAt: now,
	}

	if err := uc.txnRepo.Create(ctx, tx, txn); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, account.Number, newBalance, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return txn, nil
}

func (uc *LedgerUseCase) invalidate(ctx context.Context, accountNos ...string) {
	if uc.cache == nil {
		return
	}
	for _, no := range accountNos {
		_ = uc.cache.Delete(ctx, AccountCacheKey(no))
	}
}
