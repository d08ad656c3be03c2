package dashboard

import (
	"context"
	"time"

	"github.com/rasyarzq/kasirpos-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository answers the aggregate queries behind the dashboard widgets.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SalesTotalSince sums transaction totals recorded at or after the cutoff.
func (r *Repository) SalesTotalSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("COALESCE(SUM(total), 0) AS total").
		Where("created_at >= ?", since).
		Scan(&row).
		Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

// TransactionCountSince counts sales recorded at or after the cutoff.
func (r *Repository) TransactionCountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("created_at >= ?", since).
		Count(&count).
		Error
	return count, err
}

// ProductCount returns the catalog size.
func (r *Repository) ProductCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}

// CustomerCount returns the registry size.
func (r *Repository) CustomerCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Customer{}).Count(&count).Error
	return count, err
}
