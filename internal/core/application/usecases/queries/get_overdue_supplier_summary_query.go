package queries

import (
	"errors"

	"procurement/internal/core/domain/model/kernel"
	"procurement/internal/pkg/guard"
)

var ErrGetOverdueSupplierSummaryQueryIsNotConstructed = errors.New(
	"GetOverdueSupplierSummaryQuery must be created via NewGetOverdueSupplierSummaryQuery constructor",
)

// GetOverdueSupplierSummaryQuery retrieves the per-supplier view of orders
// stuck waiting for confirmation. The summary is recomputed from the order
// table on every call; it is derived reporting, not authoritative state.
type GetOverdueSupplierSummaryQuery struct {
	guard guard.ConstructorGuard
}

// NewGetOverdueSupplierSummaryQuery creates a query for the overdue summary.
// This is a parameterless query covering every supplier with overdue orders.
func NewGetOverdueSupplierSummaryQuery() GetOverdueSupplierSummaryQuery {
	return GetOverdueSupplierSummaryQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOverdueSupplierSummaryQueryIsNotConstructed if validation fails.
func (q GetOverdueSupplierSummaryQuery) Validate() error {
	return q.guard.Validate(ErrGetOverdueSupplierSummaryQueryIsNotConstructed)
}

// GetOverdueSupplierSummaryQueryResponse is one supplier's overdue position.
type GetOverdueSupplierSummaryQueryResponse struct {
	SupplierID   kernel.UUID
	SupplierName string

	// OverdueCount is the number of dispatched, unconfirmed orders.
	OverdueCount int

	// OverdueValueCents is the total value of those orders.
	OverdueValueCents int64

	// AvgConfirmationHours is the supplier's historical mean time from
	// dispatch to confirmation; zero when the supplier never confirmed.
	AvgConfirmationHours float64

	// ResponseRate is confirmed / dispatched over the supplier's history.
	ResponseRate float64

	// EscalationRequired is set when the oldest overdue order has waited at
	// least 48 hours or any overdue order is URGENT.
	EscalationRequired bool
}
