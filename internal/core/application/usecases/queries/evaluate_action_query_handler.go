package queries

import (
	"context"
	"errors"

	"procurement/internal/core/domain/model/supplier"
	"procurement/internal/core/domain/services"
	"procurement/internal/core/ports"
	"procurement/internal/pkg/errs"
)

// EvaluateActionQueryHandler answers action evaluations by running the full
// transition check (edge legality, permissions, gates) in preview mode.
type EvaluateActionQueryHandler struct {
	orders     ports.OrderRepository
	suppliers  ports.SupplierRepository
	transition services.TransitionService
	clock      ports.Clock
}

// NewEvaluateActionQueryHandler creates a handler for action evaluations.
func NewEvaluateActionQueryHandler(
	orders ports.OrderRepository,
	suppliers ports.SupplierRepository,
	transition services.TransitionService,
	clock ports.Clock,
) EvaluateActionQueryHandler {
	return EvaluateActionQueryHandler{
		orders:     orders,
		suppliers:  suppliers,
		transition: transition,
		clock:      clock,
	}
}

// Handle evaluates the query. The order is never modified.
func (h EvaluateActionQueryHandler) Handle(
	ctx context.Context,
	query EvaluateActionQuery,
) (EvaluateActionQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return EvaluateActionQueryResponse{}, err
	}

	aggregate, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return EvaluateActionQueryResponse{}, err
	}

	var sup *supplier.Supplier
	sup, err = h.suppliers.Get(ctx, aggregate.SupplierID())
	if err != nil {
		if !errors.Is(err, errs.ErrObjectNotFound) {
			return EvaluateActionQueryResponse{}, err
		}
		sup = nil
	}

	result, err := h.transition.Preview(aggregate, sup, query.Action(), query.Role(), h.clock.Now())
	if err != nil {
		return EvaluateActionQueryResponse{}, err
	}

	return EvaluateActionQueryResponse{
		Allowed:            result.Allowed,
		Reasons:            result.Reasons,
		RequiresApproval:   result.RequiresApproval,
		EscalationRequired: result.EscalationRequired,
	}, nil
}
