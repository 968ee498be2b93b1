package commands

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"procurement/internal/core/domain/model/escalation"
	"procurement/internal/core/domain/model/kernel"
	"procurement/internal/core/domain/model/order"
	"procurement/internal/core/domain/model/permissions"
	"procurement/internal/core/domain/model/supplier"
	"procurement/internal/core/domain/services"
	"procurement/internal/core/ports"
	"procurement/internal/pkg/errs"
)

// archiveRetention is how long resolved timeout events stay in the active
// working set before the retention sweep archives them.
const archiveRetention = 90 * 24 * time.Hour

// RunEscalationScanCommandHandler performs one escalation scan: it walks the
// orders awaiting supplier confirmation, fires the due ladder rungs, and
// archives resolved events past retention.
//
// The handler checks for cancellation between orders so pausing the monitor
// takes effect promptly even mid-scan.
type RunEscalationScanCommandHandler struct {
	uowFactory TransitionUoWFactory
	monitor    services.EscalationMonitor
	transition services.TransitionService
	notifier   ports.NotificationSink
	clock      ports.Clock
}

// NewRunEscalationScanCommandHandler creates a handler for escalation scans.
func NewRunEscalationScanCommandHandler(
	uowFactory TransitionUoWFactory,
	monitor services.EscalationMonitor,
	transition services.TransitionService,
	notifier ports.NotificationSink,
	clock ports.Clock,
) RunEscalationScanCommandHandler {
	return RunEscalationScanCommandHandler{
		uowFactory: uowFactory,
		monitor:    monitor,
		transition: transition,
		notifier:   notifier,
		clock:      clock,
	}
}

// Handle processes one scan. Scanning the same instant twice with no external
// change fires nothing the second time: every rung is recorded on its event
// and never fires again.
func (h *RunEscalationScanCommandHandler) Handle(
	ctx context.Context,
	cmd RunEscalationScanCommand,
) (ScanResult, error) {
	if err := cmd.Validate(); err != nil {
		return ScanResult{}, err
	}

	now := h.clock.Now()
	result := ScanResult{}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ScanResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders, err := uow.OrderRepository().GetAllAwaitingConfirmation(ctx)
	if err != nil {
		return ScanResult{}, err
	}

	for _, aggregate := range orders {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if err = h.scanOrder(ctx, uow, aggregate, now, &result); err != nil {
			return ScanResult{}, err
		}
	}

	if err = h.sweepArchive(ctx, uow, now, &result); err != nil {
		return ScanResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ScanResult{}, err
	}

	return result, nil
}

func (h *RunEscalationScanCommandHandler) scanOrder(
	ctx context.Context,
	uow TransitionUoW,
	aggregate *order.PurchaseOrder,
	now time.Time,
	result *ScanResult,
) error {
	sup, err := h.loadSupplier(ctx, uow, aggregate)
	if err != nil {
		return err
	}

	event, err := h.loadEvent(ctx, uow, aggregate.ID())
	if err != nil {
		return err
	}

	plan := h.monitor.Plan(aggregate, sup, event, now)
	if len(plan.Steps) == 0 {
		return nil
	}

	if plan.OpensEvent {
		event, err = escalation.NewTimeoutEvent(kernel.NewUUID(), aggregate.ID(), now)
		if err != nil {
			return err
		}
	}

	orderChanged := false
	for _, step := range plan.Steps {
		recipientCount := 0

		if step.Rule.Action() == escalation.ActionStatusUpdate {
			changed, stepErr := h.forceStatus(aggregate, sup, step.Rule.TargetStatus(), now)
			if stepErr != nil {
				return stepErr
			}
			orderChanged = orderChanged || changed
		} else {
			recipients := step.Rule.Recipients()
			recipientCount = len(recipients)
			if err = h.notifier.Enqueue(
				ctx,
				recipients,
				templateFor(step.Rule.Action()),
				notificationVariables(aggregate, step),
				aggregate.Priority(),
			); err != nil {
				return err
			}
			result.NotificationsQueued += recipientCount
		}

		if err = event.RecordEscalation(step.Rule, step.ElapsedHours, recipientCount, step.NextEscalationAt, now); err != nil {
			return err
		}
		result.Escalated++
	}

	if plan.OpensEvent {
		if err = uow.TimeoutEventRepository().Add(ctx, event); err != nil {
			return err
		}
		result.Created++
	} else {
		if err = uow.TimeoutEventRepository().Update(ctx, event); err != nil {
			return err
		}
	}

	if orderChanged {
		if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
			return err
		}
	}

	return nil
}

// forceStatus applies a STATUS_UPDATE rung through the regular state machine
// as the system actor. A target with no edge from the current status is
// skipped: the order moved on since the rung became due.
func (h *RunEscalationScanCommandHandler) forceStatus(
	aggregate *order.PurchaseOrder,
	sup *supplier.Supplier,
	target order.Status,
	now time.Time,
) (bool, error) {
	action, ok := aggregate.Status().ActionForTransition(target)
	if !ok {
		return false, nil
	}

	transitionResult, err := h.transition.Transition(
		aggregate,
		sup,
		action,
		permissions.RoleSystem,
		"escalation-monitor",
		aggregate.UpdatedAt(),
		now,
	)
	if err != nil {
		return false, err
	}
	return transitionResult.Allowed, nil
}

func (h *RunEscalationScanCommandHandler) loadSupplier(
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

func (h *RunEscalationScanCommandHandler) loadEvent(
	ctx context.Context,
	uow TransitionUoW,
	orderID kernel.UUID,
) (*escalation.TimeoutEvent, error) {
	event, err := uow.TimeoutEventRepository().GetUnresolvedByOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return event, nil
}

func (h *RunEscalationScanCommandHandler) sweepArchive(
	ctx context.Context,
	uow TransitionUoW,
	now time.Time,
	result *ScanResult,
) error {
	events, err := uow.TimeoutEventRepository().GetAllResolvedBefore(ctx, now.Add(-archiveRetention))
	if err != nil {
		return err
	}

	for _, event := range events {
		if err = event.Archive(now); err != nil {
			return err
		}
		if err = uow.TimeoutEventRepository().Update(ctx, event); err != nil {
			return err
		}
		result.Archived++
	}

	return nil
}

// templateFor maps a rung action to the notification template the dispatch
// system renders.
func templateFor(action escalation.TimeoutAction) string {
	return strings.ToLower(strings.ReplaceAll(string(action), "_", "-"))
}

func notificationVariables(aggregate *order.PurchaseOrder, step services.EscalationStep) map[string]string {
	return map[string]string{
		"orderNumber":  aggregate.Number(),
		"ruleName":     step.Rule.Name(),
		"level":        string(step.Rule.Level()),
		"elapsedHours": strconv.Itoa(step.ElapsedHours),
	}
}
