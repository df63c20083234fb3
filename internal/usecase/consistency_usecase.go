package usecase

import (
	"context"
	"errors"
)

// ErrInconsistentLedger is returned when an account balance does not match
// its transaction log.
var ErrInconsistentLedger = errors.New("ledger is inconsistent: balances do not match transaction sums")

// ConsistencyUseCase verifies the accounting identity over the whole ledger.
type ConsistencyUseCase struct {
	ledgerRepo LedgerRepository
}

// NewConsistencyUseCase creates a new ConsistencyUseCase.
func NewConsistencyUseCase(ledgerRepo LedgerRepository) *ConsistencyUseCase {
	return &ConsistencyUseCase{ledgerRepo: ledgerRepo}
}

// Check returns the account numbers whose balance diverges from the sum of
// their signed transactions. An empty result means the ledger is consistent.
func (uc *ConsistencyUseCase) Check(ctx context.Context) ([]string, error) {
	inconsistent, err := uc.ledgerRepo.FindInconsistentAccounts(ctx)
	if err != nil {
		return nil, err
	}

	if len(inconsistent) > 0 {
		return inconsistent, ErrInconsistentLedger
	}

	return nil, nil
}
