package customers

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

type customerRepository interface {
	Create(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*models.Customer, error)
	List(ctx context.Context, search string, params pagination.Params) ([]models.Customer, int64, error)
	ListAll(ctx context.Context) ([]models.Customer, error)
	CountTransactions(ctx context.Context, customerID int64) (int64, error)
	ReferencedCustomerIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
}

// Service exposes customer registry operations.
type Service interface {
	Create(ctx context.Context, input CreateCustomerDTO) (*CustomerDTO, error)
	Update(ctx context.Context, id int64, input UpdateCustomerDTO) (*CustomerDTO, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*CustomerDTO, error)
	List(ctx context.Context, search string, params pagination.Params) (*pagination.Page[CustomerDTO], error)
	ListAll(ctx context.Context) ([]CustomerDTO, error)
}

type service struct {
	repo customerRepository
}

// NewService builds a customer service with the provided repository.
func NewService(repo customerRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateCustomerDTO) (*CustomerDTO, error) {
	fullName := strings.TrimSpace(input.FullName)
	phone := strings.TrimSpace(input.Phone)
	if err := validateCustomerFields(fullName, phone); err != nil {
		return nil, err
	}

	customer := &models.Customer{
		FullName: fullName,
		Phone:    phone,
		Email:    normalizeEmail(input.Email),
	}
	created, err := s.repo.Create(ctx, customer)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return nil, mapped
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
	}
	return FromModel(created, true), nil
}

func (s *service) Update(ctx context.Context, id int64, input UpdateCustomerDTO) (*CustomerDTO, error) {
	customer, err := s.loadCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		customer.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Phone != nil {
		customer.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.ClearEmail {
		customer.Email = nil
	} else if input.Email != nil {
		customer.Email = normalizeEmail(input.Email)
	}
	if err := validateCustomerFields(customer.FullName, customer.Phone); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, customer)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return nil, mapped
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer")
	}
	return s.withCanDelete(ctx, updated)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if _, err := s.loadCustomer(ctx, id); err != nil {
		return err
	}

	refs, err := s.repo.CountTransactions(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count customer references")
	}
	if refs > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "customer has recorded transactions").
			WithDetails(map[string]int64{"transactions": refs})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete customer")
	}
	return nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*CustomerDTO, error) {
	customer, err := s.loadCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withCanDelete(ctx, customer)
}

func (s *service) List(ctx context.Context, search string, params pagination.Params) (*pagination.Page[CustomerDTO], error) {
	rows, total, err := s.repo.List(ctx, search, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	referenced, err := s.repo.ReferencedCustomerIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "flag referenced customers")
	}

	items := make([]CustomerDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, *FromModel(&row, !referenced[row.ID]))
	}
	page := pagination.NewPage(items, total, params)
	return &page, nil
}

func (s *service) ListAll(ctx context.Context) ([]CustomerDTO, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}
	items := make([]CustomerDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, *FromModel(&row, false))
	}
	return items, nil
}

func (s *service) loadCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return customer, nil
}

func (s *service) withCanDelete(ctx context.Context, customer *models.Customer) (*CustomerDTO, error) {
	refs, err := s.repo.CountTransactions(ctx, customer.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count customer references")
	}
	return FromModel(customer, refs == 0), nil
}

func validateCustomerFields(fullName, phone string) error {
	details := map[string]string{}
	if fullName == "" {
		details["full_name"] = "is required"
	}
	if phone == "" {
		details["phone"] = "is required"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid customer").WithDetails(details)
	}
	return nil
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	trimmed := strings.ToLower(strings.TrimSpace(*email))
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func mapUniqueViolation(err error) error {
	for field, constraint := range map[string]string{
		"full_name": "full_name",
		"phone":     "phone",
		"email":     "email",
	} {
		if db.IsUniqueViolation(err, constraint) {
			return pkgerrors.New(pkgerrors.CodeConflict, "customer already registered").
				WithDetails(map[string]string{field: "must be unique"})
		}
	}
	return nil
}
