package catalog

import (
	"context"
	"strings"

	"github.com/rasyarzq/kasirpos-backend/pkg/db/models"
	"github.com/rasyarzq/kasirpos-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository wires product persistence. Stock mutations go through the
// guarded statements below so two concurrent sales can never drive a stock
// count negative.
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

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update saves the mutable product fields.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product by ID.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// FindByID loads a product row.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs loads the given products keyed by ID. Missing IDs are simply
// absent from the map.
func (r *Repository) FindByIDs(ctx context.Context, ids []int64) (map[int64]models.Product, error) {
	var rows []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	byID := make(map[int64]models.Product, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	return byID, nil
}

// List returns one page of products, newest first, optionally filtered by a
// case-insensitive match on name or product code.
func (r *Repository) List(ctx context.Context, search string, params pagination.Params) ([]models.Product, int64, error) {
	params = params.Normalize()

	qb := r.db.WithContext(ctx).Model(&models.Product{})
	if search = strings.TrimSpace(search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(name) LIKE ? OR LOWER(product_code) LIKE ?)", pattern, pattern)
	}

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	err := qb.
		Order("id DESC").
		Limit(params.PerPage).
		Offset(params.Offset()).
		Find(&rows).
		Error
	return rows, total, err
}

// SearchInStock returns up to limit products with stock remaining whose name
// or code matches the query. Used by the sale entry screen.
func (r *Repository) SearchInStock(ctx context.Context, query string, limit int) ([]models.Product, error) {
	qb := r.db.WithContext(ctx).Model(&models.Product{}).Where("stock > 0")
	if query = strings.TrimSpace(query); query != "" {
		pattern := "%" + strings.ToLower(query) + "%"
		qb = qb.Where("(LOWER(name) LIKE ? OR LOWER(product_code) LIKE ?)", pattern, pattern)
	}

	var rows []models.Product
	err := qb.Order("name ASC").Limit(limit).Find(&rows).Error
	return rows, err
}

// ListInStock returns every product with stock remaining, ordered by name.
func (r *Repository) ListInStock(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("stock > 0").
		Order("name ASC").
		Find(&rows).
		Error
	return rows, err
}

// DecrementStock atomically reserves qty units of the product. It reports
// false when the row holds fewer than qty units, leaving stock untouched.
func (r *Repository) DecrementStock(ctx context.Context, productID int64, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// IncrementStock returns qty units to the product, used when a sale is
// amended or voided.
func (r *Repository) IncrementStock(ctx context.Context, productID int64, qty int) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty)).
		Error
}

// CountTransactionItems reports how many ledger line items reference the
// product. A non-zero count blocks deletion.
func (r *Repository) CountTransactionItems(ctx context.Context, productID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TransactionItem{}).
		Where("product_id = ?", productID).
		Count(&count).
		Error
	return count, err
}

// ReferencedProductIDs filters ids down to those that appear on at least one
// ledger line item. Listings use it to flag undeletable rows in one query.
func (r *Repository) ReferencedProductIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	if len(ids) == 0 {
		return map[int64]bool{}, nil
	}
	var referenced []int64
	err := r.db.WithContext(ctx).
		Model(&models.TransactionItem{}).
		Where("product_id IN ?", ids).
		Distinct("product_id").
		Pluck("product_id", &referenced).
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

// Count returns the total number of catalog rows.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}
