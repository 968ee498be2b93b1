package commands

import (
	"context"
	"time"

	"procurement/internal/core/domain/model/escalation"
	"procurement/internal/core/ports"
)

// ResolveTimeoutEventCommandHandler handles manual overrides of open timeout
// events. Only privileged roles (ADMIN, MANAGER) may override; everyone else
// gets a false result with nothing changed.
type ResolveTimeoutEventCommandHandler struct {
	uowFactory EventUoWFactory
	audit      ports.AuditSink
	clock      ports.Clock
}

// NewResolveTimeoutEventCommandHandler creates a handler for manual event
// resolution.
func NewResolveTimeoutEventCommandHandler(
	uowFactory EventUoWFactory,
	audit ports.AuditSink,
	clock ports.Clock,
) ResolveTimeoutEventCommandHandler {
	return ResolveTimeoutEventCommandHandler{
		uowFactory: uowFactory,
		audit:      audit,
		clock:      clock,
	}
}

// Handle processes the override. Returns true when the event was resolved,
// false when the actor lacks the privilege. The override is audited either
// way; resolving an already resolved event is an error.
func (h *ResolveTimeoutEventCommandHandler) Handle(
	ctx context.Context,
	cmd ResolveTimeoutEventCommand,
) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	now := h.clock.Now()

	if !cmd.Role().IsPrivileged() {
		h.record(ctx, cmd, false, "role lacks override privilege", now)
		return false, nil
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	event, err := uow.TimeoutEventRepository().Get(ctx, cmd.EventID())
	if err != nil {
		return false, err
	}

	if err = event.Resolve(escalation.ResolutionManualOverride, cmd.Reason(), now); err != nil {
		return false, err
	}

	if err = uow.TimeoutEventRepository().Update(ctx, event); err != nil {
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	h.record(ctx, cmd, true, cmd.Reason(), now)
	return true, nil
}

func (h *ResolveTimeoutEventCommandHandler) record(
	ctx context.Context,
	cmd ResolveTimeoutEventCommand,
	allowed bool,
	detail string,
	now time.Time,
) {
	if h.audit == nil {
		return
	}

	h.audit.Record(ctx, ports.AuditEntry{
		Kind:       "timeout_event_override",
		Actor:      cmd.Actor(),
		Role:       cmd.Role().String(),
		Action:     "resolve_timeout_event",
		SubjectID:  cmd.EventID().String(),
		Allowed:    allowed,
		Detail:     detail,
		RecordedAt: now,
	})
}
