package escalation

import (
	"errors"
	"fmt"
	"time"

	"procurement/internal/core/domain/model/kernel"
	"procurement/internal/core/domain/model/rules"
	"procurement/internal/pkg/errs"
)

var (
	// ErrTimeoutEventIsNotConstructed is returned when a TimeoutEvent was not
	// created via its constructor.
	ErrTimeoutEventIsNotConstructed = errors.New("timeout event must be created via NewTimeoutEvent or RestoreTimeoutEvent")

	// ErrTimeoutEventAlreadyResolved is returned when mutating a resolved event.
	ErrTimeoutEventAlreadyResolved = errors.New("timeout event is already resolved")

	// ErrTimeoutEventNotResolved is returned when archiving an open event.
	ErrTimeoutEventNotResolved = errors.New("only resolved timeout events can be archived")

	// ErrEscalationLevelRegression is returned when a recorded escalation
	// would lower the event's level. Levels only ever climb.
	ErrEscalationLevelRegression = errors.New("escalation level must not decrease")
)

// ResolutionMethod records how a timeout event was closed.
type ResolutionMethod string

const (
	// ResolutionSupplierConfirmed closes the event because the supplier
	// finally confirmed the order.
	ResolutionSupplierConfirmed ResolutionMethod = "SUPPLIER_CONFIRMED"

	// ResolutionManualOverride closes the event by explicit operator action.
	ResolutionManualOverride ResolutionMethod = "MANUAL_OVERRIDE"

	// ResolutionOrderCancelled closes the event because the watched order was
	// cancelled.
	ResolutionOrderCancelled ResolutionMethod = "ORDER_CANCELLED"
)

func getValidResolutionMethods() map[ResolutionMethod]struct{} {
	return map[ResolutionMethod]struct{}{
		ResolutionSupplierConfirmed: {},
		ResolutionManualOverride:    {},
		ResolutionOrderCancelled:    {},
	}
}

// Validate checks that the resolution method is one of the known values.
func (m ResolutionMethod) Validate() error {
	if _, ok := getValidResolutionMethods()[m]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("resolutionMethod",
			fmt.Errorf("%q is not a valid resolution method", string(m)))
	}
	return nil
}

// Escalation is one history entry of a timeout event: a rung that fired.
type Escalation struct {
	RuleID         string
	Level          rules.Severity
	FiredAt        time.Time
	RecipientCount int
}

// TimeoutEvent is the aggregate tracking one order's unconfirmed-supplier
// condition. A single event follows the order up the escalation ladder: each
// fired rung appends a history entry and may raise the event's level, which
// never decreases. At most one unresolved event exists per order.
type TimeoutEvent struct {
	id      kernel.UUID
	orderID kernel.UUID

	// ruleID is the rung that originally opened the event.
	ruleID       string
	elapsedHours int
	level        rules.Severity
	history      []Escalation

	nextEscalationAt *time.Time

	resolved         bool
	resolutionMethod ResolutionMethod
	resolutionReason string
	resolvedAt       *time.Time

	archived bool

	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewTimeoutEvent opens an event for an order. The event starts with an empty
// history; the monitor records the first rung immediately after via
// RecordEscalation.
func NewTimeoutEvent(id, orderID kernel.UUID, now time.Time) (*TimeoutEvent, error) {
	if err := errors.Join(id.Validate(), orderID.Validate()); err != nil {
		return nil, err
	}

	return &TimeoutEvent{
		id:            id,
		orderID:       orderID,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}, nil
}

// RestoreTimeoutEvent reconstructs an event from persistence without applying
// business rules.
func RestoreTimeoutEvent(
	id kernel.UUID,
	orderID kernel.UUID,
	ruleID string,
	elapsedHours int,
	level rules.Severity,
	history []Escalation,
	nextEscalationAt *time.Time,
	resolved bool,
	resolutionMethod ResolutionMethod,
	resolutionReason string,
	resolvedAt *time.Time,
	archived bool,
	createdAt time.Time,
	updatedAt time.Time,
) *TimeoutEvent {
	event := &TimeoutEvent{
		id:               id,
		orderID:          orderID,
		ruleID:           ruleID,
		elapsedHours:     elapsedHours,
		level:            level,
		nextEscalationAt: nextEscalationAt,
		resolved:         resolved,
		resolutionMethod: resolutionMethod,
		resolutionReason: resolutionReason,
		resolvedAt:       resolvedAt,
		archived:         archived,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
		isConstructed:    true,
	}
	event.history = make([]Escalation, len(history))
	copy(event.history, history)
	return event
}

// Validate checks that the TimeoutEvent was properly constructed.
func (e *TimeoutEvent) Validate() error {
	if !e.isConstructed {
		return ErrTimeoutEventIsNotConstructed
	}
	return nil
}

// ID returns the event's unique identifier.
func (e *TimeoutEvent) ID() kernel.UUID {
	return e.id
}

// OrderID returns the watched order's identifier.
func (e *TimeoutEvent) OrderID() kernel.UUID {
	return e.orderID
}

// RuleID returns the rung that originally opened the event.
func (e *TimeoutEvent) RuleID() string {
	return e.ruleID
}

// ElapsedHours returns the order's waiting time recorded at the most recent
// escalation.
func (e *TimeoutEvent) ElapsedHours() int {
	return e.elapsedHours
}

// Level returns the event's current escalation level.
func (e *TimeoutEvent) Level() rules.Severity {
	return e.level
}

// LevelRank returns the numeric rank of the event's level; zero before the
// first escalation is recorded.
func (e *TimeoutEvent) LevelRank() int {
	return e.level.Rank()
}

// History returns a copy of the fired-rung history in firing order.
func (e *TimeoutEvent) History() []Escalation {
	history := make([]Escalation, len(e.history))
	copy(history, e.history)
	return history
}

// FiredRuleIDs returns the set of rungs already recorded on this event.
func (e *TimeoutEvent) FiredRuleIDs() map[string]struct{} {
	fired := make(map[string]struct{}, len(e.history))
	for _, entry := range e.history {
		fired[entry.RuleID] = struct{}{}
	}
	return fired
}

// NextEscalationAt returns the deadline of the next pending rung, or nil when
// the ladder is exhausted or the event is resolved.
func (e *TimeoutEvent) NextEscalationAt() *time.Time {
	return e.nextEscalationAt
}

// IsResolved reports whether the event is closed.
func (e *TimeoutEvent) IsResolved() bool {
	return e.resolved
}

// ResolutionMethod returns how the event was closed; empty while open.
func (e *TimeoutEvent) ResolutionMethod() ResolutionMethod {
	return e.resolutionMethod
}

// ResolutionReason returns the free-text note attached on resolution.
func (e *TimeoutEvent) ResolutionReason() string {
	return e.resolutionReason
}

// ResolvedAt returns when the event was closed, or nil while open.
func (e *TimeoutEvent) ResolvedAt() *time.Time {
	return e.resolvedAt
}

// IsArchived reports whether the event left the active working set.
func (e *TimeoutEvent) IsArchived() bool {
	return e.archived
}

// CreatedAt returns when the event was opened.
func (e *TimeoutEvent) CreatedAt() time.Time {
	return e.createdAt
}

// UpdatedAt returns when the event last changed. Persistence uses it as the
// optimistic concurrency token.
func (e *TimeoutEvent) UpdatedAt() time.Time {
	return e.updatedAt
}

// RecordEscalation appends a fired rung to the event's history and raises the
// event's level to the rung's level. The first recorded rung becomes the
// event's originating rule. nextEscalationAt is the deadline of the next
// pending rung, nil when the ladder is exhausted.
//
// Errors:
//   - ErrTimeoutEventAlreadyResolved when the event is closed
//   - ErrEscalationLevelRegression when the rung's level ranks below the
//     event's current level
func (e *TimeoutEvent) RecordEscalation(
	rule TimeoutRule,
	elapsedHours int,
	recipientCount int,
	nextEscalationAt *time.Time,
	now time.Time,
) error {
	if e.resolved {
		return ErrTimeoutEventAlreadyResolved
	}
	if rule.Level().Rank() < e.level.Rank() {
		return ErrEscalationLevelRegression
	}

	if len(e.history) == 0 {
		e.ruleID = rule.ID()
	}
	e.history = append(e.history, Escalation{
		RuleID:         rule.ID(),
		Level:          rule.Level(),
		FiredAt:        now,
		RecipientCount: recipientCount,
	})
	e.level = rule.Level()
	e.elapsedHours = elapsedHours
	e.nextEscalationAt = nextEscalationAt
	e.updatedAt = now

	return nil
}

// Resolve closes the event. Closing an already closed event is an error; the
// original method and reason are never overwritten.
func (e *TimeoutEvent) Resolve(method ResolutionMethod, reason string, now time.Time) error {
	if e.resolved {
		return ErrTimeoutEventAlreadyResolved
	}
	if err := method.Validate(); err != nil {
		return err
	}

	e.resolved = true
	e.resolutionMethod = method
	e.resolutionReason = reason
	resolvedAt := now
	e.resolvedAt = &resolvedAt
	e.nextEscalationAt = nil
	e.updatedAt = now

	return nil
}

// Archive moves a resolved event out of the active working set.
func (e *TimeoutEvent) Archive(now time.Time) error {
	if !e.resolved {
		return ErrTimeoutEventNotResolved
	}
	e.archived = true
	e.updatedAt = now
	return nil
}
