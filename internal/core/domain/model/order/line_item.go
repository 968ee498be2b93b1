package order

import (
	"errors"

	"procurement/internal/pkg/errs"
)

// LineItem is a value object describing one position of a purchase order.
// Unit prices are carried in cents to avoid floating-point money arithmetic.
type LineItem struct {
	description string
	quantity    int
	unitPrice   int64
	customGlass bool

	isConstructed bool
}

// ErrLineItemIsNotConstructed is returned when a LineItem was not created via NewLineItem.
var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem constructor")

// NewLineItem creates a validated line item.
//
// Parameters:
//   - description: free-text description (required)
//   - quantity: ordered unit count (must be positive)
//   - unitPrice: price per unit in cents (must not be negative)
//   - customGlass: marks custom-manufactured glass positions, which rules
//     may route to specialist suppliers
func NewLineItem(description string, quantity int, unitPrice int64, customGlass bool) (LineItem, error) {
	if description == "" {
		return LineItem{}, errs.NewValueIsRequiredError("description")
	}
	if quantity <= 0 {
		return LineItem{}, errs.NewValueIsOutOfRangeError("quantity", quantity, 1, maxLineItemQuantity)
	}
	if unitPrice < 0 {
		return LineItem{}, errs.NewValueIsInvalidError("unitPrice")
	}

	return LineItem{
		description:   description,
		quantity:      quantity,
		unitPrice:     unitPrice,
		customGlass:   customGlass,
		isConstructed: true,
	}, nil
}

const maxLineItemQuantity = 1_000_000

// Validate ensures the line item was created through NewLineItem.
func (li LineItem) Validate() error {
	if !li.isConstructed {
		return ErrLineItemIsNotConstructed
	}
	return nil
}

// Description returns the free-text description of the position.
func (li LineItem) Description() string {
	return li.description
}

// Quantity returns the ordered unit count.
func (li LineItem) Quantity() int {
	return li.quantity
}

// UnitPrice returns the price per unit in cents.
func (li LineItem) UnitPrice() int64 {
	return li.unitPrice
}

// IsCustomGlass reports whether the position is custom-manufactured glass.
func (li LineItem) IsCustomGlass() bool {
	return li.customGlass
}

// Total returns quantity times unit price, in cents.
func (li LineItem) Total() int64 {
	return int64(li.quantity) * li.unitPrice
}
