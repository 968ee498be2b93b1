package services

import (
	"time"

	"procurement/internal/core/domain/model/escalation"
	"procurement/internal/core/domain/model/order"
	"procurement/internal/core/domain/model/supplier"
)

// EscalationStep is one rung firing planned for an order in the current scan.
type EscalationStep struct {
	Rule         escalation.TimeoutRule
	ElapsedHours int

	// NextEscalationAt is the deadline of the rung that remains pending after
	// this one fires, nil when this step exhausts the ladder.
	NextEscalationAt *time.Time
}

// EscalationPlan is everything the monitor should do for one order at one
// scan instant. An empty plan means the order needs no attention right now.
type EscalationPlan struct {
	// OpensEvent is true when the order has no unresolved timeout event yet
	// and the first step must create one.
	OpensEvent bool
	Steps      []EscalationStep
}

// EscalationMonitor is the pure planning half of the escalation scan: given
// an order snapshot, its supplier, the order's open timeout event (if any),
// and the scan instant, it decides which ladder rungs fire.
//
// Planning is deterministic and side-effect free. Because a rung is due only
// while it is unfired and at or above the event's current level, planning the
// same instant twice yields an empty second plan: the scan is idempotent. A
// scan that starts late fires every overdue rung in ladder order within one
// plan, with rungs below the reached level skipped, so the event's level
// climbs and never regresses.
type EscalationMonitor struct {
	ladder escalation.Ladder
}

// NewEscalationMonitor creates a monitor over a validated ladder.
func NewEscalationMonitor(ladder escalation.Ladder) EscalationMonitor {
	return EscalationMonitor{ladder: ladder}
}

// Ladder returns the monitor's ladder.
func (m EscalationMonitor) Ladder() escalation.Ladder {
	return m.ladder
}

// Monitored reports whether the order is in the watched condition: dispatched
// to its supplier, not yet confirmed, including orders already flipped to
// CONFIRMATION_OVERDUE by an earlier rung.
func (m EscalationMonitor) Monitored(o *order.PurchaseOrder) bool {
	if o.Status() != order.StatusSentToSupplier && o.Status() != order.StatusConfirmationOverdue {
		return false
	}
	return o.SentToSupplierAt() != nil && o.SupplierConfirmedAt() == nil
}

// Plan computes the rungs that fire for the order at now. The event is the
// order's unresolved timeout event, nil when none exists yet; the supplier
// may be nil when no rung filters on supplier classification.
func (m EscalationMonitor) Plan(
	o *order.PurchaseOrder,
	sup *supplier.Supplier,
	event *escalation.TimeoutEvent,
	now time.Time,
) EscalationPlan {
	plan := EscalationPlan{Steps: make([]EscalationStep, 0)}

	if !m.Monitored(o) {
		return plan
	}

	elapsed := o.HoursWithoutConfirmation(now)
	ladder := m.ladder.For(o, sup)

	fired := make(map[string]struct{})
	minRank := 0
	if event != nil {
		fired = event.FiredRuleIDs()
		minRank = event.LevelRank()
	}

	sentAt := o.SentToSupplierAt()
	for {
		rung, due := ladder.NextDue(fired, minRank, elapsed)
		if !due {
			break
		}

		fired[rung.ID()] = struct{}{}
		if rung.Level().Rank() > minRank {
			minRank = rung.Level().Rank()
		}

		step := EscalationStep{Rule: rung, ElapsedHours: elapsed}
		if pending, ok := ladder.NextPending(fired, minRank); ok {
			deadline := sentAt.Add(time.Duration(pending.TriggerAfterHours()) * time.Hour)
			step.NextEscalationAt = &deadline
		}
		plan.Steps = append(plan.Steps, step)
	}

	plan.OpensEvent = event == nil && len(plan.Steps) > 0
	return plan
}
