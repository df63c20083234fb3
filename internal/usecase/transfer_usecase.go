package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
)

// transferCategory labels the matched pair of transfer transactions.
const transferCategory = "Transfer"

// TransferUseCase moves money between accounts: the sender debit, recipient
// credit and both transaction records commit as one unit.
type TransferUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	txnRepo     TransactionRepository
	idGen       IDGenerator
	retrier     Retrier
	cache       Cache
}

// NewTransferUseCase creates a new TransferUseCase. retrier and cache may be nil.
func NewTransferUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	txnRepo TransactionRepository,
	idGen IDGenerator,
	retrier Retrier,
	cache Cache,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		idGen:       idGen,
		retrier:     retrier,
		cache:       cache,
	}
}

// TransferInput represents a transfer request.
type TransferInput struct {
	FromAccountNo string
	ToAccountNo   string
	Amount        decimal.Decimal
}

// TransferResult holds the matched pair of records written for a transfer.
type TransferResult struct {
	Outgoing *domain.Transaction
	Incoming *domain.Transaction
}

// Transfer debits the sender and credits the recipient atomically. Self
// transfers are rejected. Account rows are locked in lexicographic number
// order so concurrent opposing transfers cannot deadlock.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	if input.FromAccountNo == input.ToAccountNo {
		return nil, domain.ErrSameAccount
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	var result *TransferResult

	op := func() error {
		var err error
		result, err = uc.transferOnce(ctx, input)
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

	uc.invalidate(ctx, input.FromAccountNo, input.ToAccountNo)
	return result, nil
}

func (uc *TransferUseCase) transferOnce(ctx context.Context, input TransferInput) (*TransferResult, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	numbers := []string{input.FromAccountNo, input.ToAccountNo}
	sort.Strings(numbers)

	accounts, err := uc.accountRepo.GetByNumbersForUpdate(ctx, tx, numbers)
	if err != nil {
		return nil, err
	}

	byNumber := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		byNumber[a.Number] = a
	}

	sender := byNumber[input.FromAccountNo]
	if sender == nil {
		return nil, domain.ErrAccountNotFound
	}

	recipient := byNumber[input.ToAccountNo]
	if recipient == nil {
		return nil, domain.ErrRecipientNotFound
	}

	if err := sender.CanWithdraw(input.Amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	outgoing := &domain.Transaction{
		ID:           uc.idGen.Generate(),
		AccountNo:    sender.Number,
		Kind:         domain.KindTransferOut,
		Amount:       input.Amount,
		Category:     transferCategory,
		Counterparty: &recipient.Number,
		CreatedAt:    now,
	}

	incoming := &domain.Transaction{
		ID:           uc.idGen.Generate(),
		AccountNo:    recipient.Number,
		Kind:         domain.KindTransferIn,
		Amount:       input.Amount,
		Category:     transferCategory,
		Counterparty: &sender.Number,
		CreatedAt:    now,
	}

	if err := uc.txnRepo.Create(ctx, tx, outgoing); err != nil {
		return nil, err
	}
	if err := uc.txnRepo.Create(ctx, tx, incoming); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, sender.Number, sender.ApplyDebit(input.Amount), now); err != nil {
		return nil, err
	}
	if err := uc.accountRepo.UpdateBalance(ctx, tx, recipient.Number, recipient.ApplyCredit(input.Amount), now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &TransferResult{Outgoing: outgoing, Incoming: incoming}, nil
}

func (uc *TransferUseCase) invalidate(ctx context.Context, accountNos ...string) {
	if uc.cache == nil {
		return
	}
	for _, no := range accountNos {
		_ = uc.cache.Delete(ctx, AccountCacheKey(no))
	}
}
