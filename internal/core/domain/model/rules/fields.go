package rules

import (
	"time"

	"procurement/internal/core/domain/model/order"
	"procurement/internal/core/domain/model/supplier"
)

// EvalContext carries everything a condition may reference: the order
// snapshot, the supplier read model, and the evaluation instant. The clock is
// an explicit input so evaluation stays deterministic and testable.
type EvalContext struct {
	Order    *order.PurchaseOrder
	Supplier *supplier.Supplier
	Now      time.Time
}

// fieldFunc resolves one named field against the evaluation context.
// Implementations return nil when the field has no value (unset timestamps,
// missing supplier), which the operators treat as non-match except for
// is_null / is_not_null.
type fieldFunc func(EvalContext) any

// fieldRegistry is the closed set of names a condition may reference.
// Unknown names are rejected when the rule set loads, not silently resolved
// to an undefined value at evaluation time. Derived fields (hasCustomGlass,
// hoursWithoutConfirmation) are functions of the snapshot rather than stored
// attributes.
func fieldRegistry() map[string]fieldFunc {
	return map[string]fieldFunc{
		"status": func(ctx EvalContext) any {
			return string(ctx.Order.Status())
		},
		"priority": func(ctx EvalContext) any {
			return string(ctx.Order.Priority())
		},
		"totalAmount": func(ctx EvalContext) any {
			return ctx.Order.TotalAmount()
		},
		"invoiceRequired": func(ctx EvalContext) any {
			return ctx.Order.InvoiceRequired()
		},
		"invoiceCreated": func(ctx EvalContext) any {
			return ctx.Order.InvoiceCreated()
		},
		"hasCustomGlass": func(ctx EvalContext) any {
			return ctx.Order.HasCustomGlass()
		},
		"hoursWithoutConfirmation": func(ctx EvalContext) any {
			return ctx.Order.HoursWithoutConfirmation(ctx.Now)
		},
		"approvedAt": func(ctx EvalContext) any {
			return timeOrNil(ctx.Order.ApprovedAt())
		},
		"sentToSupplierAt": func(ctx EvalContext) any {
			return timeOrNil(ctx.Order.SentToSupplierAt())
		},
		"supplierConfirmedAt": func(ctx EvalContext) any {
			return timeOrNil(ctx.Order.SupplierConfirmedAt())
		},
		"supplier.specialist": func(ctx EvalContext) any {
			if ctx.Supplier == nil {
				return nil
			}
			return ctx.Supplier.IsSpecialist()
		},
		"supplier.approved": func(ctx EvalContext) any {
			if ctx.Supplier == nil {
				return nil
			}
			return ctx.Supplier.IsApproved()
		},
		"supplier.rating": func(ctx EvalContext) any {
			if ctx.Supplier == nil {
				return nil
			}
			return ctx.Supplier.Rating()
		},
	}
}

// timeOrNil converts an unset *time.Time into an untyped nil so is_null sees
// a missing value rather than a typed nil pointer.
func timeOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

// KnownField reports whether the field name is part of the closed registry.
func KnownField(name string) bool {
	_, ok := fieldRegistry()[name]
	return ok
}
