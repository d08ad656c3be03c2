package customers

import (
	"context"
	"strings"

	"github.com/rasyarzq/kasirpos-backend/pkg/db/models"
	"github.com/rasyarzq/kasirpos-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository wires customer persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new customer row.
func (r *Repository) Create(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

// Update saves the mutable customer fields.
func (r *Repository) Update(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if err := r.db.WithContext(ctx).Save(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

// Delete removes a customer by ID.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Customer{}).Error
}

// FindByID loads a customer row.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// List returns one page of customers, newest first, optionally filtered by a
// case-insensitive match on name or phone.
func (r *Repository) List(ctx context.Context, search string, params pagination.Params) ([]models.Customer, int64, error) {
	params = params.Normalize()

	qb := r.db.WithContext(ctx).Model(&models.Customer{})
	if search = strings.TrimSpace(search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(full_name) LIKE ? OR phone LIKE ?)", pattern, pattern)
	}

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Customer
	err := qb.
		Order("id DESC").
		Limit(params.PerPage).
		Offset(params.Offset()).
		Find(&rows).
		Error
	return rows, total, err
}

// ListAll returns every customer ordered by name, for the sale entry screen.
func (r *Repository) ListAll(ctx context.Context) ([]models.Customer, error) {
	var rows []models.Customer
	err := r.db.WithContext(ctx).Order("full_name ASC").Find(&rows).Error
	return rows, err
}

// CountTransactions reports how many transactions reference the customer.
// A non-zero count blocks deletion.
func (r *Repository) CountTransactions(ctx context.Context, customerID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("customer_id = ?", customerID).
		Count(&count).
		Error
	return count, err
}

// ReferencedCustomerIDs filters ids down to those with recorded transactions.
func (r *Repository) ReferencedCustomerIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	if len(ids) == 0 {
		return map[int64]bool{}, nil
	}
	var referenced []int64
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("customer_id IN ?", ids).
		Distinct("customer_id").
		Pluck("customer_id", &referenced).
		Error
	if err != nil {
		return nil, err
	}
	set := make(map[int64]bool, len(referenced))
	for _, id := range referenced {
		set[id] = true
	}
	return set, nil
}

// Count returns the total number of registered customers.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Customer{}).Count(&count).Error
	return count, err
}
