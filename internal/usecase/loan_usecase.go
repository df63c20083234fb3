package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
)

// Categories stamped on loan transactions.
const (
	loanCategory        = "Loan"
	loanPaymentCategory = "Loan Payment"
)

// LoanUseCase handles the loan lifecycle: application, disbursement,
// payments and completion.
type LoanUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	txnRepo     TransactionRepository
	loanRepo    LoanRepository
	idGen       IDGenerator
	retrier     Retrier
	cache       Cache
}

// NewLoanUseCase creates a new LoanUseCase. retrier and cache may be nil.
func NewLoanUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	txnRepo TransactionRepository,
	loanRepo LoanRepository,
	idGen IDGenerator,
	retrier Retrier,
	cache Cache,
) *LoanUseCase {
	return &LoanUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		loanRepo:    loanRepo,
		idGen:       idGen,
		retrier:     retrier,
		cache:       cache,
	}
}

// ApplyInput represents a loan application.
type ApplyInput struct {
	AccountNo  string
	Principal  decimal.Decimal
	TermMonths int
	AnnualRate decimal.Decimal // percent
}

// Apply approves a loan: the principal is credited to the account as
// spendable balance, the loan starts active with the full repayable amount
// owed, and a loan_disbursement transaction is recorded — atomically.
func (uc *LoanUseCase) Apply(ctx context.Context, input ApplyInput) (*domain.Loan, error) {
	terms, err := domain.ComputeLoanTerms(input.Principal, input.AnnualRate, input.TermMonths)
	if err != nil {
		return nil, err
	}

	var loan *domain.Loan

	op := func() error {
		var err error
		loan, err = uc.applyOnce(ctx, input, terms)
		return err
	}

	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, op)
	} else {
		err = op()
	}
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx, input.AccountNo)
	return loan, nil
}

func (uc *LoanUseCase) applyOnce(ctx context.Context, input ApplyInput, terms domain.LoanTerms) (*domain.Loan, error) {
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

	loan := &domain.Loan{
		ID:             uc.idGen.Generate(),
		AccountNo:      account.Number,
		Principal:      input.Principal,
		InterestRate:   input.AnnualRate,
		TermMonths:     input.TermMonths,
		MonthlyPayment: terms.MonthlyPayment,
		Remaining:      terms.TotalRepayable,
		Status:         domain.LoanStatusActive,
		StartedAt:      now,
		NextPaymentAt:  now.Add(domain.PaymentInterval),
	}

	if err := uc.loanRepo.Create(ctx, tx, loan); err != nil {
		return nil, err
	}

	txn := &domain.Transaction{
		ID:        uc.idGen.Generate(),
		AccountNo: account.Number,
		Kind:      domain.KindLoanDisbursement,
		Amount:    input.Principal,
		Category:  loanCategory,
		CreatedAt: now,
	}

	if err := uc.txnRepo.Create(ctx, tx, txn); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, account.Number, account.ApplyCredit(input.Principal), now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return loan, nil
}

// PayInput represents a loan payment.
type PayInput struct {
	LoanID string
	Amount decimal.Decimal
}

// Pay applies a payment to an active loan and debits the owning account.
// The loan receivable and the account cash balance move independently; only
// the debit touches the balance.
func (uc *LoanUseCase) Pay(ctx context.Context, input PayInput) (*domain.Loan, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	var loan *domain.Loan

	op := func() error {
		var err error
		loan, err = uc.payOnce(ctx, input)
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

	uc.invalidate(ctx, loan.AccountNo)
	return loan, nil
}

func (uc *LoanUseCase) payOnce(ctx context.Context, input PayInput) (*domain.Loan, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	loan, err := uc.loanRepo.GetByIDForUpdate(ctx, tx, input.LoanID)
	if err != nil {
		return nil, err
	}
	if !loan.Active() {
		return nil, domain.ErrLoanNotActive
	}

	account, err := uc.accountRepo.GetByNumberForUpdate(ctx, tx, loan.AccountNo)
	if err != nil {
		return nil, err
	}

	if err := account.CanWithdraw(input.Amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	if err := loan.ApplyPayment(input.Amount, now); err != nil {
		return nil, err
	}

	if err := uc.loanRepo.Update(ctx, tx, loan); err != nil {
		return nil, err
	}

	txn := &domain.Transaction{
		ID:        uc.idGen.Generate(),
		AccountNo: account.Number,
		Kind:      domain.KindLoanPayment,
		Amount:    input.Amount,
		Category:  loanPaymentCategory,
		CreatedAt: now,
	}

	if err := uc.txnRepo.Create(ctx, tx, txn); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, account.Number, account.ApplyDebit(input.Amount), now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return loan, nil
}

// Get returns a loan by ID.
func (uc *LoanUseCase) Get(ctx context.Context, id string) (*domain.Loan, error) {
	return uc.loanRepo.GetByID(ctx, id)
}

// ListActive returns the account's active loans, newest first.
func (uc *LoanUseCase) ListActive(ctx context.Context, accountNo string) ([]*domain.Loan, error) {
	return uc.loanRepo.ListActiveByAccount(ctx, accountNo)
}

func (uc *LoanUseCase) invalidate(ctx context.Context, accountNos ...string) {
	if uc.cache == nil {
		return
	}
	for _, no := range accountNos {
		_ = uc.cache.Delete(ctx, AccountCacheKey(no))
	}
}
