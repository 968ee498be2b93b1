package queries

import (
	"context"
	"errors"

	"procurement/internal/core/domain/model/rules"
	"procurement/internal/core/domain/model/supplier"
	"procurement/internal/core/domain/services"
	"procurement/internal/core/ports"
	"procurement/internal/pkg/errs"
)

// EvaluateRulesQueryHandler answers rule evaluations against the current
// order snapshot.
type EvaluateRulesQueryHandler struct {
	orders    ports.OrderRepository
	suppliers ports.SupplierRepository
	engine    services.RuleEngine
	clock     ports.Clock
}

// NewEvaluateRulesQueryHandler creates a handler for rule evaluations.
func NewEvaluateRulesQueryHandler(
	orders ports.OrderRepository,
	suppliers ports.SupplierRepository,
	engine services.RuleEngine,
	clock ports.Clock,
) EvaluateRulesQueryHandler {
	return EvaluateRulesQueryHandler{
		orders:    orders,
		suppliers: suppliers,
		engine:    engine,
		clock:     clock,
	}
}

// Handle evaluates every active rule for the order. A missing supplier record
// degrades to a nil snapshot; supplier-dependent conditions then fail closed.
func (h EvaluateRulesQueryHandler) Handle(
	ctx context.Context,
	query EvaluateRulesQuery,
) (EvaluateRulesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return EvaluateRulesQueryResponse{}, err
	}

	aggregate, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return EvaluateRulesQueryResponse{}, err
	}

	var sup *supplier.Supplier
	sup, err = h.suppliers.Get(ctx, aggregate.SupplierID())
	if err != nil {
		if !errors.Is(err, errs.ErrObjectNotFound) {
			return EvaluateRulesQueryResponse{}, err
		}
		sup = nil
	}

	evaluation := h.engine.Evaluate(rules.EvalContext{
		Order:    aggregate,
		Supplier: sup,
		Now:      h.clock.Now(),
	})

	response := EvaluateRulesQueryResponse{
		Violations:   make([]ViolationResponse, 0, len(evaluation.Violations)),
		CanDispatch:  evaluation.CanDispatch,
		CanComplete:  evaluation.CanComplete,
		ErrorCount:   evaluation.ErrorCount,
		WarningCount: evaluation.WarningCount,
	}
	for _, violation := range evaluation.Violations {
		response.Violations = append(response.Violations, ViolationResponse{
			RuleID:   violation.RuleID,
			RuleName: violation.RuleName,
			Category: violation.Category,
			Severity: violation.Severity,
			Message:  violation.Message,
		})
	}

	return response, nil
}
