package pricing

import (
	"fmt"

	pkgerrors "github.com/rasyarzq/kasirpos-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// Discount tiers evaluated on the cart subtotal. Bounds are exclusive and
// only the highest applicable tier applies: a subtotal of exactly 1,000,000
// earns the 10% tier, not 15%.
var (
	tierUpperThreshold = decimal.NewFromInt(1_000_000)
	tierLowerThreshold = decimal.NewFromInt(500_000)
	tierUpperRate      = decimal.New(15, -2)
	tierLowerRate      = decimal.New(10, -2)
)

// Line is one resolved cart entry: the product's current unit price plus the
// requested quantity.
type Line struct {
	ProductID int64
	Qty       int
	UnitPrice decimal.Decimal
}

// QuotedLine carries the computed line subtotal alongside the inputs.
type QuotedLine struct {
	ProductID int64
	Qty       int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// Quote is the priced cart. Total always equals Subtotal minus Discount and
// Subtotal always equals the sum of the line subtotals.
type Quote struct {
	Lines    []QuotedLine
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// Compute prices the cart. It is a pure function: no persistence, no side
// effects, deterministic for identical inputs.
func Compute(lines []Line) (*Quote, error) {
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required").
			WithDetails(map[string]string{"items": "must not be empty"})
	}

	quote := &Quote{
		Lines:    make([]QuotedLine, 0, len(lines)),
		Subtotal: decimal.Zero,
	}

	for i, line := range lines {
		if line.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive").
				WithDetails(map[string]string{fmt.Sprintf("items.%d.qty", i): "must be at least 1"})
		}
		if line.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price must not be negative").
				WithDetails(map[string]string{fmt.Sprintf("items.%d.price", i): "must be zero or greater"})
		}

		subtotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Qty)))
		quote.Lines = append(quote.Lines, QuotedLine{
			ProductID: line.ProductID,
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
			Subtotal:  subtotal,
		})
		quote.Subtotal = quote.Subtotal.Add(subtotal)
	}

	quote.Discount = DiscountFor(quote.Subtotal)
	quote.Total = quote.Subtotal.Sub(quote.Discount)
	return quote, nil
}

// DiscountFor returns the discount amount for the given subtotal.
func DiscountFor(subtotal decimal.Decimal) decimal.Decimal {
	switch {
	case subtotal.GreaterThan(tierUpperThreshold):
		return subtotal.Mul(tierUpperRate)
	case subtotal.GreaterThan(tierLowerThreshold):
		return subtotal.Mul(tierLowerRate)
	default:
		return decimal.Zero
	}
}
