package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/rasyarzq/kasirpos-backend/internal/catalog"
	"github.com/rasyarzq/kasirpos-backend/internal/customers"
	"github.com/rasyarzq/kasirpos-backend/internal/pricing"
	"github.com/rasyarzq/kasirpos-backend/pkg/db/models"
	pkgerrors "github.com/rasyarzq/kasirpos-backend/pkg/errors"
	"github.com/rasyarzq/kasirpos-backend/pkg/pagination"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service records and amends sales. Every mutation runs inside a single
// database transaction: stock movement, pricing, and the ledger rows commit
// together or not at all.
type Service interface {
	Create(ctx context.Context, operatorID int64, input CreateTransactionDTO) (*TransactionDTO, error)
	Update(ctx context.Context, id int64, input UpdateTransactionDTO) (*TransactionDTO, error)
	GetByID(ctx context.Context, id int64) (*TransactionDTO, error)
	List(ctx context.Context, search string, params pagination.Params) (*pagination.Page[TransactionDTO], error)
	POS(ctx context.Context) (*POSDTO, error)
}

type service struct {
	tx        txRunner
	repo      *Repository
	products  *catalog.Repository
	customers *customers.Repository
}

// NewService builds the ledger service.
func NewService(tx txRunner, repo *Repository, products *catalog.Repository, customersRepo *customers.Repository) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if customersRepo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	return &service{
		tx:        tx,
		repo:      repo,
		products:  products,
		customers: customersRepo,
	}, nil
}

func (s *service) Create(ctx context.Context, operatorID int64, input CreateTransactionDTO) (*TransactionDTO, error) {
	if operatorID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "operator required")
	}
	if err := validateItems(input.Items); err != nil {
		return nil, err
	}

	var createdID int64
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		products := s.products.WithTx(tx)
		customersRepo := s.customers.WithTx(tx)

		if err := checkCustomer(ctx, customersRepo, input.CustomerID); err != nil {
			return err
		}
		quote, err := s.applyItems(ctx, products, input.Items)
		if err != nil {
			return err
		}

		txn := &models.Transaction{
			UserID:     operatorID,
			CustomerID: input.CustomerID,
			Subtotal:   quote.Subtotal,
			Discount:   quote.Discount,
			Total:      quote.Total,
		}
		if _, err := repo.CreateHeader(ctx, txn); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create transaction")
		}
		if err := repo.CreateItems(ctx, itemRows(txn.ID, quote)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create transaction items")
		}
		createdID = txn.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, createdID)
}

func (s *service) Update(ctx context.Context, id int64, input UpdateTransactionDTO) (*TransactionDTO, error) {
	if err := validateItems(input.Items); err != nil {
		return nil, err
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		products := s.products.WithTx(tx)
		customersRepo := s.customers.WithTx(tx)

		existing, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transaction")
		}

		if err := checkCustomer(ctx, customersRepo, input.CustomerID); err != nil {
			return err
		}

		// Return the old units before reapplying so an amendment that keeps
		// an item never trips the stock guard against itself.
		for _, item := range existing.Items {
			if err := products.IncrementStock(ctx, item.ProductID, item.Qty); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore stock")
			}
		}
		if err := repo.DeleteItems(ctx, existing.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear transaction items")
		}

		quote, err := s.applyItems(ctx, products, input.Items)
		if err != nil {
			return err
		}

		existing.CustomerID = input.CustomerID
		existing.Subtotal = quote.Subtotal
		existing.Discount = quote.Discount
		existing.Total = quote.Total
		if err := repo.UpdateHeader(ctx, existing); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update transaction")
		}
		return repo.CreateItems(ctx, itemRows(existing.ID, quote))
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *service) GetByID(ctx context.Context, id int64) (*TransactionDTO, error) {
	txn, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transaction")
	}
	return FromModel(txn), nil
}

func (s *service) List(ctx context.Context, search string, params pagination.Params) (*pagination.Page[TransactionDTO], error) {
	rows, total, err := s.repo.List(ctx, search, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transactions")
	}
	items := make([]TransactionDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, *FromModel(&row))
	}
	page := pagination.NewPage(items, total, params)
	return &page, nil
}

func (s *service) POS(ctx context.Context) (*POSDTO, error) {
	customerRows, err := s.customers.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}
	productRows, err := s.products.ListInStock(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	payload := &POSDTO{
		Customers: make([]customers.CustomerDTO, 0, len(customerRows)),
		Products:  make([]catalog.ProductDTO, 0, len(productRows)),
	}
	for _, row := range customerRows {
		payload.Customers = append(payload.Customers, *customers.FromModel(&row, false))
	}
	for _, row := range productRows {
		payload.Products = append(payload.Products, *catalog.FromModel(&row, false))
	}
	return payload, nil
}

// applyItems resolves the requested products, reserves their stock, and
// prices the cart. The first item that cannot be reserved aborts the whole
// call, which rolls back any earlier reservation.
func (s *service) applyItems(ctx context.Context, products *catalog.Repository, items []ItemInput) (*pricing.Quote, error) {
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	byID, err := products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}

	lines := make([]pricing.Line, 0, len(items))
	for i, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown product").
				WithDetails(map[string]string{fmt.Sprintf("items.%d.product_id", i): "does not exist"})
		}

		reserved, err := products.DecrementStock(ctx, item.ProductID, item.Qty)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve stock")
		}
		if !reserved {
			return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock,
				fmt.Sprintf("insufficient stock for %s", product.Name)).
				WithDetails(map[string]any{
					"product_id": product.ID,
					"requested":  item.Qty,
				})
		}

		lines = append(lines, pricing.Line{
			ProductID: product.ID,
			Qty:       item.Qty,
			UnitPrice: product.Price,
		})
	}
	return pricing.Compute(lines)
}

func itemRows(transactionID int64, quote *pricing.Quote) []models.TransactionItem {
	rows := make([]models.TransactionItem, 0, len(quote.Lines))
	for _, line := range quote.Lines {
		rows = append(rows, models.TransactionItem{
			TransactionID: transactionID,
			ProductID:     line.ProductID,
			Qty:           line.Qty,
			Price:         line.UnitPrice,
			Subtotal:      line.Subtotal,
		})
	}
	return rows
}

func validateItems(items []ItemInput) error {
	if len(items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required").
			WithDetails(map[string]string{"items": "must not be empty"})
	}
	details := map[string]string{}
	for i, item := range items {
		if item.ProductID <= 0 {
			details[fmt.Sprintf("items.%d.product_id", i)] = "is required"
		}
		if item.Qty <= 0 {
			details[fmt.Sprintf("items.%d.qty", i)] = "must be at least 1"
		}
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid items").WithDetails(details)
	}
	return nil
}

func checkCustomer(ctx context.Context, repo *customers.Repository, customerID *int64) error {
	if customerID == nil {
		return nil
	}
	if _, err := repo.FindByID(ctx, *customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return nil
}
