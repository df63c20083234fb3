package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

type ledgerServiceStub struct {
	depositFn  func(ctx context.Context, input usecase.RecordTransactionInput) (*domain.Transaction, error)
	withdrawFn func(ctx context.Context, input usecase.RecordTransactionInput) (*domain.Transaction, error)
}

func (s *ledgerServiceStub) Deposit(ctx context.Context, input usecase.RecordTransactionInput) (*domain.Transaction, error) {
	return s.depositFn(ctx, input)
}

func (s *ledgerServiceStub) Withdraw(ctx context.Context, input usecase.RecordTransactionInput) (*domain.Transaction, error) {
	return s.withdrawFn(ctx, input)
}

type consistencyServiceStub struct {
	checkFn func(ctx context.Context) ([]string, error)
}

func (s *consistencyServiceStub) Check(ctx context.Context) ([]string, error) {
	return s.checkFn(ctx)
}

func TestLedgerHandler_Deposit_Success(t *testing.T) {
	txn := &domain.Transaction{
		ID:        "txn-1",
		AccountNo: "ACC00001",
		Kind:      domain.KindDeposit,
		Amount:    decimal.RequireFromString("100.00"),
		Category:  "Salary",
	}

	var captured usecase.RecordTransactionInput
	handler := NewLedgerHandler(&ledgerServiceStub{
		depositFn: func(ctx context.Context, input usecase.RecordTransactionInput) (*domain.Transaction, error) {
			captured = input
			return txn, nil
		},
	}, nil, nil)

	body, _ := json.Marshal(dto.RecordTransactionRequest{
		Amount:   decimal.RequireFromString("100.00"),
		Category: "Salary",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts/ACC00001/deposits", bytes.NewReader(body))
	req = setChiURLParam(req, "no", "ACC00001")
	rec := httptest.NewRecorder()

	handler.Deposit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.AccountNo != "ACC00001" || captured.Category != "Salary" {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Kind != "deposit" {
		t.Fatalf("expected kind deposit, got %s", resp.Kind)
	}
}

func TestLedgerHandler_Withdraw_InsufficientFunds(t *testing.T) {
	handler := NewLedgerHandler(&ledgerServiceStub{
		withdrawFn: func(ctx context.Context, input usecase.RecordTransactionInput) (*domain.Transaction, error) {
			return nil, domain.ErrInsufficientFunds
		},
	}, nil, nil)

	body, _ := json.Marshal(dto.RecordTransactionRequest{
		Amount:   decimal.RequireFromString("9999.00"),
		Category: "Rent",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts/ACC00001/withdrawals", bytes.NewReader(body))
	req = setChiURLParam(req, "no", "ACC00001")
	rec := httptest.NewRecorder()

	handler.Withdraw(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestLedgerHandler_Withdraw_Success(t *testing.T) {
	txn := &domain.Transaction{
		ID:        "txn-2",
		AccountNo: "ACC00001",
		Kind:      domain.KindWithdraw,
		Amount:    decimal.RequireFromString("40.00"),
		Category:  "Groceries",
	}

	handler := NewLedgerHandler(&ledgerServiceStub{
		withdrawFn: func(ctx context.Context, input usecase.RecordTransactionInput) (*domain.Transaction, error) {
			return txn, nil
		},
	}, nil, nil)

	body, _ := json.Marshal(dto.RecordTransactionRequest{
		Amount:   decimal.RequireFromString("40.00"),
		Category: "Groceries",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts/ACC00001/withdrawals", bytes.NewReader(body))
	req = setChiURLParam(req, "no", "ACC00001")
	rec := httptest.NewRecorder()

	handler.Withdraw(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestLedgerHandler_Consistency_Clean(t *testing.T) {
	handler := NewLedgerHandler(nil, &consistencyServiceStub{
		checkFn: func(ctx context.Context) ([]string, error) { return nil, nil },
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ledger/consistency", nil)
	rec := httptest.NewRecorder()

	handler.Consistency(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ConsistencyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Consistent {
		t.Fatal("expected consistent ledger")
	}
}

func TestLedgerHandler_Consistency_Divergent(t *testing.T) {
	handler := NewLedgerHandler(nil, &consistencyServiceStub{
		checkFn: func(ctx context.Context) ([]string, error) {
			return []string{"ACC00003", "ACC00007"}, usecase.ErrInconsistentLedger
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ledger/consistency", nil)
	rec := httptest.NewRecorder()

	handler.Consistency(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	var resp dto.ConsistencyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Consistent || len(resp.InconsistentAccounts) != 2 {
		t.Fatalf("expected two divergent accounts, got %+v", resp)
	}
}

func TestLedgerHandler_Consistency_QueryError(t *testing.T) {
	handler := NewLedgerHandler(nil, &consistencyServiceStub{
		checkFn: func(ctx context.Context) ([]string, error) {
			return nil, context.DeadlineExceeded
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ledger/consistency", nil)
	rec := httptest.NewRecorder()

	handler.Consistency(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
