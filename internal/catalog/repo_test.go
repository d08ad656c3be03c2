package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/rasyarzq/kasirpos-backend/pkg/db/models"
	"github.com/rasyarzq/kasirpos-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_code TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  price NUMERIC NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  created_at DATETIME,
  updated_at DATETIME
);`
	items := `
CREATE TABLE IF NOT EXISTS transaction_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  transaction_id INTEGER NOT NULL,
  product_id INTEGER NOT NULL,
  qty INTEGER NOT NULL,
  price NUMERIC NOT NULL,
  subtotal NUMERIC NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(items).Error)
	return db
}

func newProduct(t *testing.T, db *gorm.DB, code, name string, price string, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		ProductCode: code,
		Name:        name,
		Price:       decimal.RequireFromString(price),
		Stock:       stock,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestListFiltersAndPaginates(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	newProduct(t, db, "PRD001", "Kopi Arabika", "35000", 10)
	newProduct(t, db, "PRD002", "Kopi Robusta", "28000", 5)
	newProduct(t, db, "PRD003", "Teh Melati", "15000", 8)

	rows, total, err := repo.List(ctx, "kopi", pagination.Params{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, rows, 2)
	assert.Equal(t, "PRD002", rows[0].ProductCode, "newest first")

	rows, total, err = repo.List(ctx, "", pagination.Params{Page: 2, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "PRD001", rows[0].ProductCode)
}

func TestListMatchesProductCode(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	newProduct(t, db, "PRD010", "Gula Pasir", "12000", 3)
	newProduct(t, db, "XYZ001", "Garam", "5000", 3)

	rows, total, err := repo.List(context.Background(), "prd0", pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Gula Pasir", rows[0].Name)
}

func TestSearchInStockSkipsDepleted(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	newProduct(t, db, "PRD001", "Kopi Arabika", "35000", 4)
	newProduct(t, db, "PRD002", "Kopi Robusta", "28000", 0)

	rows, err := repo.SearchInStock(context.Background(), "kopi", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "PRD001", rows[0].ProductCode)
}

func TestSearchInStockHonorsLimit(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	for i := 0; i < 15; i++ {
		newProduct(t, db, fmt.Sprintf("PRD%03d", i), fmt.Sprintf("Produk %02d", i), "1000", 1)
	}

	rows, err := repo.SearchInStock(context.Background(), "produk", 10)
	require.NoError(t, err)
	assert.Len(t, rows, 10)
}

func TestDecrementStockGuardsAgainstOversell(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := newProduct(t, db, "PRD001", "Kopi Arabika", "35000", 3)

	ok, err := repo.DecrementStock(ctx, product.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DecrementStock(ctx, product.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok, "second decrement exceeds remaining stock")

	reloaded, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Stock, "failed decrement must not touch stock")
}

func TestDecrementStockUnknownProduct(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	ok, err := repo.DecrementStock(context.Background(), 999, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIncrementStockRestoresUnits(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := newProduct(t, db, "PRD001", "Kopi Arabika", "35000", 1)

	require.NoError(t, repo.IncrementStock(ctx, product.ID, 4))

	reloaded, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, reloaded.Stock)
}

func TestReferencedProductIDs(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	sold := newProduct(t, db, "PRD001", "Kopi Arabika", "35000", 5)
	fresh := newProduct(t, db, "PRD002", "Teh Melati", "15000", 5)

	item := &models.TransactionItem{
		TransactionID: 1,
		ProductID:     sold.ID,
		Qty:           2,
		Price:         sold.Price,
		Subtotal:      sold.Price.Mul(decimal.NewFromInt(2)),
	}
	require.NoError(t, db.Create(item).Error)

	referenced, err := repo.ReferencedProductIDs(ctx, []int64{sold.ID, fresh.ID})
	require.NoError(t, err)
	assert.True(t, referenced[sold.ID])
	assert.False(t, referenced[fresh.ID])

	count, err := repo.CountTransactionItems(ctx, sold.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestFindByIDsReturnsOnlyExisting(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	a := newProduct(t, db, "PRD001", "Kopi Arabika", "35000", 5)

	byID, err := repo.FindByIDs(context.Background(), []int64{a.ID, 999})
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, "PRD001", byID[a.ID].ProductCode)
}
