package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rasyarzq/kasirpos-backend/api/middleware"
	"github.com/rasyarzq/kasirpos-backend/internal/ledger"
	pkgerrors "github.com/rasyarzq/kasirpos-backend/pkg/errors"
	"github.com/rasyarzq/kasirpos-backend/pkg/pagination"
)

type stubLedgerService struct {
	createFn func(ctx context.Context, operatorID int64, input ledger.CreateTransactionDTO) (*ledger.TransactionDTO, error)
	updateFn func(ctx context.Context, id int64, input ledger.UpdateTransactionDTO) (*ledger.TransactionDTO, error)
	posFn    func(ctx context.Context) (*ledger.POSDTO, error)
}

func (s *stubLedgerService) Create(ctx context.Context, operatorID int64, input ledger.CreateTransactionDTO) (*ledger.TransactionDTO, error) {
	if s.createFn != nil {
		return s.createFn(ctx, operatorID, input)
	}
	panic("unexpected Create call")
}

func (s *stubLedgerService) Update(ctx context.Context, id int64, input ledger.UpdateTransactionDTO) (*ledger.TransactionDTO, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, id, input)
	}
	panic("unexpected Update call")
}

func (s *stubLedgerService) GetByID(ctx context.Context, id int64) (*ledger.TransactionDTO, error) {
	panic("unexpected GetByID call")
}

func (s *stubLedgerService) List(ctx context.Context, search string, params pagination.Params) (*pagination.Page[ledger.TransactionDTO], error) {
	panic("unexpected List call")
}

func (s *stubLedgerService) POS(ctx context.Context) (*ledger.POSDTO, error) {
	if s.posFn != nil {
		return s.posFn(ctx)
	}
	panic("unexpected POS call")
}

func TestCreateTransaction(t *testing.T) {
	logg := testLogger()
	body := `{"customer_id":3,"items":[{"product_id":1,"qty":2}]}`

	t.Run("missing operator returns 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		CreateTransaction(&stubLedgerService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 got %d", rec.Code)
		}
	})

	t.Run("success forwards operator and items", func(t *testing.T) {
		stub := &stubLedgerService{
			createFn: func(ctx context.Context, operatorID int64, input ledger.CreateTransactionDTO) (*ledger.TransactionDTO, error) {
				if operatorID != 42 {
					t.Fatalf("unexpected operator %d", operatorID)
				}
				if input.CustomerID == nil || *input.CustomerID != 3 {
					t.Fatalf("unexpected customer %+v", input.CustomerID)
				}
				if len(input.Items) != 1 || input.Items[0].ProductID != 1 || input.Items[0].Qty != 2 {
					t.Fatalf("unexpected items %+v", input.Items)
				}
				return &ledger.TransactionDTO{ID: 9}, nil
			},
		}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req = req.WithContext(middleware.WithUserID(req.Context(), 42))
		rec := httptest.NewRecorder()
		CreateTransaction(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("empty items returns 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(`{"items":[]}`))
		req.Header.Set("Content-Type", "application/json")
		req = req.WithContext(middleware.WithUserID(req.Context(), 42))
		rec := httptest.NewRecorder()
		CreateTransaction(&stubLedgerService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("insufficient stock maps to 422", func(t *testing.T) {
		stub := &stubLedgerService{
			createFn: func(ctx context.Context, operatorID int64, input ledger.CreateTransactionDTO) (*ledger.TransactionDTO, error) {
				return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock for product").
					WithDetails(map[string]any{"product_id": 1, "requested": 2})
			},
		}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req = req.WithContext(middleware.WithUserID(req.Context(), 42))
		rec := httptest.NewRecorder()
		CreateTransaction(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422 got %d: %s", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), "INSUFFICIENT_STOCK") {
			t.Fatalf("expected stock code in body, got %s", rec.Body.String())
		}
	})
}

func TestUpdateTransaction(t *testing.T) {
	logg := testLogger()
	body := `{"customer_id":null,"items":[{"product_id":1,"qty":5}]}`

	t.Run("success", func(t *testing.T) {
		stub := &stubLedgerService{
			updateFn: func(ctx context.Context, id int64, input ledger.UpdateTransactionDTO) (*ledger.TransactionDTO, error) {
				if id != 9 {
					t.Fatalf("unexpected id %d", id)
				}
				if input.CustomerID != nil {
					t.Fatalf("expected walk-in customer, got %v", *input.CustomerID)
				}
				return &ledger.TransactionDTO{ID: 9}, nil
			},
		}
		req := withIDParam(httptest.NewRequest(http.MethodPut, "/api/v1/transactions/9", strings.NewReader(body)), "9")
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		UpdateTransaction(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("unknown transaction maps to 404", func(t *testing.T) {
		stub := &stubLedgerService{
			updateFn: func(ctx context.Context, id int64, input ledger.UpdateTransactionDTO) (*ledger.TransactionDTO, error) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
			},
		}
		req := withIDParam(httptest.NewRequest(http.MethodPut, "/api/v1/transactions/99", strings.NewReader(body)), "99")
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		UpdateTransaction(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404 got %d", rec.Code)
		}
	})
}

func TestPOSData(t *testing.T) {
	logg := testLogger()
	stub := &stubLedgerService{
		posFn: func(ctx context.Context) (*ledger.POSDTO, error) {
			return &ledger.POSDTO{}, nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/pos", nil)
	rec := httptest.NewRecorder()
	POSData(stub, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}
