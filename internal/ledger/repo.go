package ledger

import (
	"context"
	"strconv"
	"strings"

	"github.com/rasyarzq/kasirpos-backend/pkg/db/models"
	"github.com/rasyarzq/kasirpos-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository wires transaction persistence. Header and item writes always
// run inside the service's enclosing transaction.
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

// CreateHeader inserts the transaction row without items.
func (r *Repository) CreateHeader(ctx context.Context, txn *models.Transaction) (*models.Transaction, error) {
	if err := r.db.WithContext(ctx).Omit("Items", "User", "Customer").Create(txn).Error; err != nil {
		return nil, err
	}
	return txn, nil
}

// UpdateHeader saves the recomputed totals and customer reference.
func (r *Repository) UpdateHeader(ctx context.Context, txn *models.Transaction) error {
	return r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ?", txn.ID).
		Updates(map[string]any{
			"customer_id": txn.CustomerID,
			"subtotal":    txn.Subtotal,
			"discount":    txn.Discount,
			"total":       txn.Total,
		}).Error
}

// CreateItems inserts the line items for a transaction.
func (r *Repository) CreateItems(ctx context.Context, items []models.TransactionItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Product").Create(&items).Error
}

// DeleteItems removes every line item of the transaction.
func (r *Repository) DeleteItems(ctx context.Context, transactionID int64) error {
	return r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Delete(&models.TransactionItem{}).
		Error
}

// FindByID loads the bare transaction with its items, no other associations.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&txn, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// FindDetailByID loads the transaction with operator, customer, and item
// product associations for read paths.
func (r *Repository) FindDetailByID(ctx context.Context, id int64) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Customer").
		Preload("Items").
		Preload("Items.Product").
		First(&txn, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// List returns one page of transactions, newest first. The search term
// matches the transaction id, the customer name or phone, or the operator
// name.
func (r *Repository) List(ctx context.Context, search string, params pagination.Params) ([]models.Transaction, int64, error) {
	params = params.Normalize()

	qb := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Joins("LEFT JOIN customers ON customers.id = transactions.customer_id").
		Joins("LEFT JOIN users ON users.id = transactions.user_id")

	if search = strings.TrimSpace(search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		conditions := "(LOWER(customers.full_name) LIKE ? OR customers.phone LIKE ? OR LOWER(users.name) LIKE ?)"
		args := []any{pattern, pattern, pattern}
		if id, err := strconv.ParseInt(search, 10, 64); err == nil {
			conditions = "(transactions.id = ? OR " + conditions[1:]
			args = append([]any{id}, args...)
		}
		qb = qb.Where(conditions, args...)
	}

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Transaction
	err := qb.
		Preload("User").
		Preload("Customer").
		Preload("Items").
		Preload("Items.Product").
		Order("transactions.id DESC").
		Limit(params.PerPage).
		Offset(params.Offset()).
		Find(&rows).
		Error
	return rows, total, err
}
