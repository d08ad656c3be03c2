package dashboard

import (
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/rasyarzq/kasirpos-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

type metricsRepository interface {
	SalesTotalSince(ctx context.Context, since time.Time) (decimal.Decimal, error)
	TransactionCountSince(ctx context.Context, since time.Time) (int64, error)
	ProductCount(ctx context.Context) (int64, error)
	CustomerCount(ctx context.Context) (int64, error)
}

// SummaryDTO is the landing page payload.
type SummaryDTO struct {
	TodaySales        decimal.Decimal `json:"today_sales"`
	TodayTransactions int64           `json:"today_transactions"`
	TotalProducts     int64           `json:"total_products"`
	TotalCustomers    int64           `json:"total_customers"`
}

// Service assembles the dashboard summary.
type Service interface {
	Summary(ctx context.Context) (*SummaryDTO, error)
}

type service struct {
	repo metricsRepository
	now  func() time.Time
}

// NewService builds a dashboard service with the provided repository.
func NewService(repo metricsRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("dashboard repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) Summary(ctx context.Context) (*SummaryDTO, error) {
	now := s.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	sales, err := s.repo.SalesTotalSince(ctx, startOfDay)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum today's sales")
	}
	transactions, err := s.repo.TransactionCountSince(ctx, startOfDay)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count today's transactions")
	}
	products, err := s.repo.ProductCount(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	customers, err := s.repo.CustomerCount(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count customers")
	}

	return &SummaryDTO{
		TodaySales:        sales,
		TodayTransactions: transactions,
		TotalProducts:     products,
		TotalCustomers:    customers,
	}, nil
}
