package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/rasyarzq/kasirpos-backend/internal/catalog"
	pkgerrors "github.com/rasyarzq/kasirpos-backend/pkg/errors"
	"github.com/rasyarzq/kasirpos-backend/pkg/logger"
	"github.com/rasyarzq/kasirpos-backend/pkg/pagination"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

type stubCatalogService struct {
	createFn func(ctx context.Context, input catalog.CreateProductDTO) (*catalog.ProductDTO, error)
	deleteFn func(ctx context.Context, id int64) error
	listFn   func(ctx context.Context, search string, params pagination.Params) (*pagination.Page[catalog.ProductDTO], error)
	searchFn func(ctx context.Context, query string) ([]catalog.ProductDTO, error)
}

func (s *stubCatalogService) Create(ctx context.Context, input catalog.CreateProductDTO) (*catalog.ProductDTO, error) {
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	panic("unexpected Create call")
}

func (s *stubCatalogService) Update(ctx context.Context, id int64, input catalog.UpdateProductDTO) (*catalog.ProductDTO, error) {
	panic("unexpected Update call")
}

func (s *stubCatalogService) Delete(ctx context.Context, id int64) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	panic("unexpected Delete call")
}

func (s *stubCatalogService) GetByID(ctx context.Context, id int64) (*catalog.ProductDTO, error) {
	panic("unexpected GetByID call")
}

func (s *stubCatalogService) List(ctx context.Context, search string, params pagination.Params) (*pagination.Page[catalog.ProductDTO], error) {
	if s.listFn != nil {
		return s.listFn(ctx, search, params)
	}
	panic("unexpected List call")
}

func (s *stubCatalogService) SearchInStock(ctx context.Context, query string) ([]catalog.ProductDTO, error) {
	if s.searchFn != nil {
		return s.searchFn(ctx, query)
	}
	panic("unexpected SearchInStock call")
}

func withIDParam(req *http.Request, id string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestCreateProduct(t *testing.T) {
	logg := testLogger()

	t.Run("success returns 201 with payload", func(t *testing.T) {
		stub := &stubCatalogService{
			createFn: func(ctx context.Context, input catalog.CreateProductDTO) (*catalog.ProductDTO, error) {
				if input.ProductCode != "PRD001" {
					t.Fatalf("unexpected product code %q", input.ProductCode)
				}
				return &catalog.ProductDTO{ID: 1, ProductCode: input.ProductCode, Name: input.Name, Price: input.Price, Stock: input.Stock}, nil
			},
		}
		body := `{"product_code":"PRD001","name":"Laptop Asus","price":"7500000","stock":10}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		CreateProduct(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
		}
		var envelope struct {
			Data catalog.ProductDTO `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if envelope.Data.ID != 1 || envelope.Data.Name != "Laptop Asus" {
			t.Fatalf("unexpected payload %+v", envelope.Data)
		}
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		CreateProduct(&stubCatalogService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", rec.Code)
		}
	})

	t.Run("unknown field returns 400", func(t *testing.T) {
		body := `{"product_code":"PRD001","name":"Laptop","price":"100","stock":1,"extra":true}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		CreateProduct(&stubCatalogService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", rec.Code)
		}
	})
}

func TestDeleteProduct(t *testing.T) {
	logg := testLogger()

	t.Run("history conflict maps to 409", func(t *testing.T) {
		stub := &stubCatalogService{
			deleteFn: func(ctx context.Context, id int64) error {
				return pkgerrors.New(pkgerrors.CodeConflict, "product has transaction history").
					WithDetails(map[string]any{"transaction_items": 3})
			},
		}
		req := withIDParam(httptest.NewRequest(http.MethodDelete, "/api/v1/products/7", nil), "7")
		rec := httptest.NewRecorder()
		DeleteProduct(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409 got %d: %s", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), "transaction_items") {
			t.Fatalf("expected details in body, got %s", rec.Body.String())
		}
	})

	t.Run("success reports deleted", func(t *testing.T) {
		called := false
		stub := &stubCatalogService{
			deleteFn: func(ctx context.Context, id int64) error {
				called = true
				if id != 7 {
					t.Fatalf("unexpected id %d", id)
				}
				return nil
			},
		}
		req := withIDParam(httptest.NewRequest(http.MethodDelete, "/api/v1/products/7", nil), "7")
		rec := httptest.NewRecorder()
		DeleteProduct(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d", rec.Code)
		}
		if !called {
			t.Fatalf("expected Delete to be invoked")
		}
	})

	t.Run("invalid id returns 400", func(t *testing.T) {
		req := withIDParam(httptest.NewRequest(http.MethodDelete, "/api/v1/products/abc", nil), "abc")
		rec := httptest.NewRecorder()
		DeleteProduct(&stubCatalogService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", rec.Code)
		}
	})
}

func TestListProducts(t *testing.T) {
	logg := testLogger()

	stub := &stubCatalogService{
		listFn: func(ctx context.Context, search string, params pagination.Params) (*pagination.Page[catalog.ProductDTO], error) {
			if search != "laptop" {
				t.Fatalf("unexpected search %q", search)
			}
			if params.Page != 2 || params.PerPage != 5 {
				t.Fatalf("unexpected params %+v", params)
			}
			return &pagination.Page[catalog.ProductDTO]{Items: []catalog.ProductDTO{}, Page: 2, PerPage: 5}, nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?search=laptop&page=2&per_page=5", nil)
	rec := httptest.NewRecorder()
	ListProducts(stub, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSearchProducts(t *testing.T) {
	logg := testLogger()

	stub := &stubCatalogService{
		searchFn: func(ctx context.Context, query string) ([]catalog.ProductDTO, error) {
			if query != "mouse" {
				t.Fatalf("unexpected query %q", query)
			}
			return []catalog.ProductDTO{{ID: 2, Name: "Mouse Logitech", Price: decimal.NewFromInt(250000), Stock: 50}}, nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/search?q=mouse", nil)
	rec := httptest.NewRecorder()
	SearchProducts(stub, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Mouse Logitech") {
		t.Fatalf("expected product in body, got %s", rec.Body.String())
	}
}
