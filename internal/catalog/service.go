package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rasyarzq/kasirpos-backend/pkg/db"
	"github.com/rasyarzq/kasirpos-backend/pkg/db/models"
	pkgerrors "github.com/rasyarzq/kasirpos-backend/pkg/errors"
	"github.com/rasyarzq/kasirpos-backend/pkg/pagination"
	"gorm.io/gorm"
)

// searchResultLimit caps how many rows the sale entry screen autocomplete
// returns.
const searchResultLimit = 10

type productRepository interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*models.Product, error)
	List(ctx context.Context, search string, params pagination.Params) ([]models.Product, int64, error)
	SearchInStock(ctx context.Context, query string, limit int) ([]models.Product, error)
	CountTransactionItems(ctx context.Context, productID int64) (int64, error)
	ReferencedProductIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
}

// Service exposes catalog operations.
type Service interface {
	Create(ctx context.Context, input CreateProductDTO) (*ProductDTO, error)
	Update(ctx context.Context, id int64, input UpdateProductDTO) (*ProductDTO, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*ProductDTO, error)
	List(ctx context.Context, search string, params pagination.Params) (*pagination.Page[ProductDTO], error)
	SearchInStock(ctx context.Context, query string) ([]ProductDTO, error)
}

type service struct {
	repo productRepository
}

// NewService builds a catalog service with the provided repository.
func NewService(repo productRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateProductDTO) (*ProductDTO, error) {
	if err := validateProductFields(input.ProductCode, input.Name, input.Price.IsNegative(), input.Stock); err != nil {
		return nil, err
	}

	product := &models.Product{
		ProductCode: strings.TrimSpace(input.ProductCode),
		Name:        strings.TrimSpace(input.Name),
		Price:       input.Price,
		Stock:       input.Stock,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err, "product_code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product code already in use").
				WithDetails(map[string]string{"product_code": "must be unique"})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return FromModel(created, true), nil
}

func (s *service) Update(ctx context.Context, id int64, input UpdateProductDTO) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.ProductCode != nil {
		product.ProductCode = strings.TrimSpace(*input.ProductCode)
	}
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if err := validateProductFields(product.ProductCode, product.Name, product.Price.IsNegative(), product.Stock); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err, "product_code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product code already in use").
				WithDetails(map[string]string{"product_code": "must be unique"})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return s.withCanDelete(ctx, updated)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if _, err := s.loadProduct(ctx, id); err != nil {
		return err
	}

	refs, err := s.repo.CountTransactionItems(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count product references")
	}
	if refs > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "product has recorded transactions").
			WithDetails(map[string]int64{"transaction_items": refs})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withCanDelete(ctx, product)
}

func (s *service) List(ctx context.Context, search string, params pagination.Params) (*pagination.Page[ProductDTO], error) {
	rows, total, err := s.repo.List(ctx, search, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	referenced, err := s.repo.ReferencedProductIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "flag referenced products")
	}

	items := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, *FromModel(&row, !referenced[row.ID]))
	}
	page := pagination.NewPage(items, total, params)
	return &page, nil
}

func (s *service) SearchInStock(ctx context.Context, query string) ([]ProductDTO, error) {
	rows, err := s.repo.SearchInStock(ctx, query, searchResultLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search products")
	}
	results := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		results = append(results, *FromModel(&row, false))
	}
	return results, nil
}

func (s *service) loadProduct(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) withCanDelete(ctx context.Context, product *models.Product) (*ProductDTO, error) {
	refs, err := s.repo.CountTransactionItems(ctx, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count product references")
	}
	return FromModel(product, refs == 0), nil
}

func validateProductFields(code, name string, priceNegative bool, stock int) error {
	details := map[string]string{}
	if strings.TrimSpace(code) == "" {
		details["product_code"] = "is required"
	}
	if strings.TrimSpace(name) == "" {
		details["name"] = "is required"
	}
	if priceNegative {
		details["price"] = "must be zero or greater"
	}
	if stock < 0 {
		details["stock"] = "must be zero or greater"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product").WithDetails(details)
	}
	return nil
}
