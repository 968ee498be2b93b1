package commands

import (
	"context"

	"procurement/internal/core/domain/model/order"
	"procurement/internal/core/domain/model/permissions"
	"procurement/internal/core/domain/services"
	"procurement/internal/core/ports"
)

// CreateOrderCommandHandler handles purchase-order creation. The new order is
// persisted in DRAFT status after the acting role passes the permission
// evaluation, which includes the role's order-value cap.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	evaluator  services.PermissionEvaluator
	clock      ports.Clock
}

// NewCreateOrderCommandHandler creates a handler for order creation.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	evaluator services.PermissionEvaluator,
	clock ports.Clock,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		evaluator:  evaluator,
		clock:      clock,
	}
}

// Handle processes the creation command.
//
// The aggregate is built first so the permission evaluation sees the real
// order value; a denial is returned as the decision with nothing persisted.
// Errors are reserved for invalid input and infrastructure failures.
func (h *CreateOrderCommandHandler) Handle(
	ctx context.Context,
	cmd CreateOrderCommand,
) (permissions.Decision, error) {
	if err := cmd.Validate(); err != nil {
		return permissions.Decision{}, err
	}

	now := h.clock.Now()

	lineItems := make([]order.LineItem, 0, len(cmd.LineItems()))
	for _, spec := range cmd.LineItems() {
		lineItem, err := order.NewLineItem(spec.Description, spec.Quantity, spec.UnitPriceCents, spec.CustomGlass)
		if err != nil {
			return permissions.Decision{}, err
		}
		lineItems = append(lineItems, lineItem)
	}

	aggregate, err := order.NewPurchaseOrder(
		cmd.OrderID(),
		cmd.Number(),
		cmd.SupplierID(),
		cmd.Priority(),
		lineItems,
		cmd.InvoiceRequired(),
		now,
	)
	if err != nil {
		return permissions.Decision{}, err
	}

	decision := h.evaluator.Evaluate(cmd.Role(), order.ActionCreate, aggregate, now)
	if !decision.Allowed {
		return decision, nil
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return permissions.Decision{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return permissions.Decision{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return permissions.Decision{}, err
	}

	return decision, nil
}
