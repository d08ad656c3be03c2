package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rasyarzq/kasirpos-backend/api/middleware"
	"github.com/rasyarzq/kasirpos-backend/api/responses"
	"github.com/rasyarzq/kasirpos-backend/api/validators"
	"github.com/rasyarzq/kasirpos-backend/internal/ledger"
	pkgerrors "github.com/rasyarzq/kasirpos-backend/pkg/errors"
	"github.com/rasyarzq/kasirpos-backend/pkg/logger"
)

type transactionItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Qty       int   `json:"qty" validate:"required,gt=0"`
}

type createTransactionRequest struct {
	CustomerID *int64                   `json:"customer_id,omitempty"`
	Items      []transactionItemRequest `json:"items" validate:"required,min=1,dive"`
}

type updateTransactionRequest struct {
	CustomerID *int64                   `json:"customer_id,omitempty"`
	Items      []transactionItemRequest `json:"items" validate:"required,min=1,dive"`
}

func itemInputs(items []transactionItemRequest) []ledger.ItemInput {
	inputs := make([]ledger.ItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, ledger.ItemInput{ProductID: item.ProductID, Qty: item.Qty})
	}
	return inputs
}

// CreateTransaction records a sale for the authenticated operator.
func CreateTransaction(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		operatorID := middleware.UserIDFromContext(r.Context())
		if operatorID <= 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing operator identity"))
			return
		}

		var payload createTransactionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		txn, err := svc.Create(r.Context(), operatorID, ledger.CreateTransactionDTO{
			CustomerID: payload.CustomerID,
			Items:      itemInputs(payload.Items),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, txn)
	}
}

// UpdateTransaction amends a recorded sale, reversing and reapplying its
// stock movements.
func UpdateTransaction(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		id, err := validators.ParseIDParam(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateTransactionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		txn, err := svc.Update(r.Context(), id, ledger.UpdateTransactionDTO{
			CustomerID: payload.CustomerID,
			Items:      itemInputs(payload.Items),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, txn)
	}
}

// GetTransaction returns a full sale detail with operator, customer, and
// line items.
func GetTransaction(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		id, err := validators.ParseIDParam(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		txn, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, txn)
	}
}

// ListTransactions returns a searchable ledger page, newest first.
func ListTransactions(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), r.URL.Query().Get("search"), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// POSData returns the sell-screen payload: all customers plus every product
// still in stock.
func POSData(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		data, err := svc.POS(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, data)
	}
}
