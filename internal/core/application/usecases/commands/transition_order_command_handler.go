package commands

import (
	"context"
	"errors"
	"time"

	"procurement/internal/core/domain/model/escalation"
	"procurement/internal/core/domain/model/order"
	"procurement/internal/core/domain/model/supplier"
	"procurement/internal/core/domain/services"
	"procurement/internal/core/ports"
	"procurement/internal/pkg/errs"
)

// TransitionOrderCommandHandler executes lifecycle transitions. Beyond the
// transition itself it keeps the escalation side consistent: a supplier
// confirmation or a cancellation resolves the order's open timeout event in
// the same transaction.
type TransitionOrderCommandHandler struct {
	uowFactory TransitionUoWFactory
	transition services.TransitionService
	clock      ports.Clock
}

// NewTransitionOrderCommandHandler creates a handler for lifecycle transitions.
func NewTransitionOrderCommandHandler(
	uowFactory TransitionUoWFactory,
	transition services.TransitionService,
	clock ports.Clock,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		transition: transition,
		clock:      clock,
	}
}

// Handle processes the transition command.
//
// Rejections (illegal edge, permission denial, closed gate) come back in the
// result with the order untouched. A ConcurrentModificationError is returned
// as an error for the caller to retry after re-reading the order.
func (h *TransitionOrderCommandHandler) Handle(
	ctx context.Context,
	cmd TransitionOrderCommand,
) (services.TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return services.TransitionResult{}, err
	}

	now := h.clock.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return services.TransitionResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return services.TransitionResult{}, err
	}

	sup, err := h.loadSupplier(ctx, uow, aggregate)
	if err != nil {
		return services.TransitionResult{}, err
	}

	result, err := h.transition.Transition(
		aggregate,
		sup,
		cmd.Action(),
		cmd.Role(),
		cmd.Actor(),
		cmd.ObservedUpdatedAt(),
		now,
	)
	if err != nil {
		return services.TransitionResult{}, err
	}
	if !result.Allowed {
		return result, nil
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return services.TransitionResult{}, err
	}

	if err = h.resolveTimeoutEvent(ctx, uow, aggregate, cmd.Actor(), now); err != nil {
		return services.TransitionResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return services.TransitionResult{}, err
	}

	return result, nil
}

// loadSupplier fetches the order's supplier snapshot for rule evaluation.
// A missing supplier record degrades to a nil snapshot rather than blocking
// the transition: supplier-dependent conditions then evaluate fail-closed.
func (h *TransitionOrderCommandHandler) loadSupplier(
	ctx context.Context,
	uow TransitionUoW,
	aggregate *order.PurchaseOrder,
) (*supplier.Supplier, error) {
	sup, err := uow.SupplierRepository().Get(ctx, aggregate.SupplierID())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return sup, nil
}

// resolveTimeoutEvent closes the order's open timeout event when the applied
// transition ended the monitored condition.
func (h *TransitionOrderCommandHandler) resolveTimeoutEvent(
	ctx context.Context,
	uow TransitionUoW,
	aggregate *order.PurchaseOrder,
	actor string,
	now time.Time,
) error {
	var method escalation.ResolutionMethod
	switch aggregate.Status() {
	case order.StatusSupplierConfirmed:
		method = escalation.ResolutionSupplierConfirmed
	case order.StatusCancelled:
		method = escalation.ResolutionOrderCancelled
	default:
		return nil
	}

	event, err := uow.TimeoutEventRepository().GetUnresolvedByOrder(ctx, aggregate.ID())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil
		}
		return err
	}

	if err = event.Resolve(method, "resolved by "+actor, now); err != nil {
		return err
	}
	return uow.TimeoutEventRepository().Update(ctx, event)
}
