package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/iho/gobank/internal/domain"
)

// AccountUseCase handles registration, login and account lookup.
type AccountUseCase struct {
	accountRepo AccountRepository
	idGen       IDGenerator
	cache       Cache
}

// NewAccountUseCase creates a new AccountUseCase. cache may be nil.
func NewAccountUseCase(accountRepo AccountRepository, idGen IDGenerator, cache Cache) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		idGen:       idGen,
		cache:       cache,
	}
}

// RegisterInput represents input for creating an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new account with a zero balance. The password is stored
// as a bcrypt hash; the plaintext never leaves this function.
func (uc *AccountUseCase) Register(ctx context.Context, input RegisterInput) (*domain.Account, error) {
	if err := domain.ValidateName(input.Name); err != nil {
		return nil, err
	}
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	account := &domain.Account{
		Number:       uc.idGen.AccountNumber(),
		Name:         input.Name,
		Email:        domain.NormalizeEmail(input.Email),
		PasswordHash: string(hash),
		Balance:      decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The unique index on email is the authority for duplicates; the repo
	// translates the constraint violation to ErrDuplicateEmail.
	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	account.PasswordHash = ""
	return account, nil
}

// AuthenticateInput represents login credentials.
type AuthenticateInput struct {
	AccountNo string
	Password  string
}

// Authenticate verifies credentials and fails closed: an unknown account and
// a wrong password are indistinguishable to the caller.
func (uc *AccountUseCase) Authenticate(ctx context.Context, input AuthenticateInput) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByNumber(ctx, input.AccountNo)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrNotAuthenticated
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrNotAuthenticated
	}

	account.PasswordHash = ""
	return account, nil
}

// GetAccount retrieves an account summary by number, serving from the cache
// when a fresh entry exists. Mutating operations delete the cache entry, so a
// hit is never staler than AccountCacheTTL.
func (uc *AccountUseCase) GetAccount(ctx context.Context, number string) (*domain.Account, error) {
	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, AccountCacheKey(number)); err == nil {
			var cached domain.Account
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	account, err := uc.accountRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	account.PasswordHash = ""

	if uc.cache != nil {
		if data, err := json.Marshal(account); err == nil {
			_ = uc.cache.Set(ctx, AccountCacheKey(number), data, AccountCacheTTL)
		}
	}

	return account, nil
}
