package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	authsvc "github.com/rasyarzq/kasirpos-backend/internal/auth"
	"github.com/rasyarzq/kasirpos-backend/internal/catalog"
	"github.com/rasyarzq/kasirpos-backend/internal/customers"
	"github.com/rasyarzq/kasirpos-backend/internal/dashboard"
	"github.com/rasyarzq/kasirpos-backend/internal/ledger"
	pkgauth "github.com/rasyarzq/kasirpos-backend/pkg/auth"
	"github.com/rasyarzq/kasirpos-backend/pkg/auth/session"
	"github.com/rasyarzq/kasirpos-backend/pkg/config"
	"github.com/rasyarzq/kasirpos-backend/pkg/logger"
	"github.com/rasyarzq/kasirpos-backend/pkg/metrics"
	"github.com/rasyarzq/kasirpos-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req authsvc.LoginRequest) (*authsvc.LoginResponse, error) {
	return &authsvc.LoginResponse{AccessToken: "token"}, nil
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

type stubCatalogService struct{}

func (stubCatalogService) Create(ctx context.Context, input catalog.CreateProductDTO) (*catalog.ProductDTO, error) {
	panic("unimplemented")
}

func (stubCatalogService) Update(ctx context.Context, id int64, input catalog.UpdateProductDTO) (*catalog.ProductDTO, error) {
	panic("unimplemented")
}

func (stubCatalogService) Delete(ctx context.Context, id int64) error {
	panic("unimplemented")
}

func (stubCatalogService) GetByID(ctx context.Context, id int64) (*catalog.ProductDTO, error) {
	panic("unimplemented")
}

func (stubCatalogService) List(ctx context.Context, search string, params pagination.Params) (*pagination.Page[catalog.ProductDTO], error) {
	return &pagination.Page[catalog.ProductDTO]{Items: []catalog.ProductDTO{}}, nil
}

func (stubCatalogService) SearchInStock(ctx context.Context, query string) ([]catalog.ProductDTO, error) {
	return nil, nil
}

type stubCustomerService struct{}

func (stubCustomerService) Create(ctx context.Context, input customers.CreateCustomerDTO) (*customers.CustomerDTO, error) {
	panic("unimplemented")
}

func (stubCustomerService) Update(ctx context.Context, id int64, input customers.UpdateCustomerDTO) (*customers.CustomerDTO, error) {
	panic("unimplemented")
}

func (stubCustomerService) Delete(ctx context.Context, id int64) error {
	panic("unimplemented")
}

func (stubCustomerService) GetByID(ctx context.Context, id int64) (*customers.CustomerDTO, error) {
	panic("unimplemented")
}

func (stubCustomerService) List(ctx context.Context, search string, params pagination.Params) (*pagination.Page[customers.CustomerDTO], error) {
	return &pagination.Page[customers.CustomerDTO]{Items: []customers.CustomerDTO{}}, nil
}

func (stubCustomerService) ListAll(ctx context.Context) ([]customers.CustomerDTO, error) {
	return nil, nil
}

type stubLedgerService struct{}

func (stubLedgerService) Create(ctx context.Context, operatorID int64, input ledger.CreateTransactionDTO) (*ledger.TransactionDTO, error) {
	panic("unimplemented")
}

func (stubLedgerService) Update(ctx context.Context, id int64, input ledger.UpdateTransactionDTO) (*ledger.TransactionDTO, error) {
	panic("unimplemented")
}

func (stubLedgerService) GetByID(ctx context.Context, id int64) (*ledger.TransactionDTO, error) {
	panic("unimplemented")
}

func (stubLedgerService) List(ctx context.Context, search string, params pagination.Params) (*pagination.Page[ledger.TransactionDTO], error) {
	return &pagination.Page[ledger.TransactionDTO]{Items: []ledger.TransactionDTO{}}, nil
}

func (stubLedgerService) POS(ctx context.Context) (*ledger.POSDTO, error) {
	return &ledger.POSDTO{}, nil
}

type stubDashboardService struct{}

func (stubDashboardService) Summary(ctx context.Context) (*dashboard.SummaryDTO, error) {
	return &dashboard.SummaryDTO{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	registry := prometheus.NewRegistry()
	return NewRouter(Deps{
		Config:    cfg,
		Logger:    logg,
		DB:        stubPinger{},
		Sessions:  stubSessionChecker{},
		Registry:  registry,
		Metrics:   metrics.NewHTTPMetrics(registry),
		Auth:      stubAuthService{},
		Products:  stubCatalogService{},
		Customers: stubCustomerService{},
		Ledger:    stubLedgerService{},
		Dashboard: stubDashboardService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: 1,
		Name:   "Admin",
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestHealthReadyPingsDependencies(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestProtectedGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, path := range []string{"/api/v1/products", "/api/v1/customers", "/api/v1/transactions", "/api/v1/pos", "/api/v1/dashboard"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %s without token, got %d", path, resp.Code)
		}
	}
}

func TestProtectedGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	token := buildToken(t, cfg)
	for _, path := range []string{"/api/v1/products", "/api/v1/pos", "/api/v1/dashboard"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s with token, got %d: %s", path, resp.Code, resp.Body.String())
		}
	}
}

func TestLoginIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	body := strings.NewReader(`{"email":"admin@kasirpos.local","password":"password"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestLogoutRequiresAuth(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
