package escalation

import (
	"fmt"
	"sort"

	"procurement/internal/core/domain/model/order"
	"procurement/internal/core/domain/model/permissions"
	"procurement/internal/core/domain/model/rules"
	"procurement/internal/core/domain/model/supplier"
	"procurement/internal/pkg/errs"
)

// TimeoutAction is what the monitor does when a ladder rung fires.
type TimeoutAction string

const (
	// ActionStatusUpdate forces the order into the rung's target status.
	ActionStatusUpdate TimeoutAction = "STATUS_UPDATE"

	// ActionEscalationNotice notifies the rung's recipients that the order
	// needs attention.
	ActionEscalationNotice TimeoutAction = "ESCALATION_NOTICE"

	// ActionRoleNotification notifies every holder of the rung's recipient
	// roles.
	ActionRoleNotification TimeoutAction = "ROLE_NOTIFICATION"

	// ActionUrgentAlert is the highest-priority notification path.
	ActionUrgentAlert TimeoutAction = "URGENT_ALERT"
)

func getValidTimeoutActions() map[TimeoutAction]struct{} {
	return map[TimeoutAction]struct{}{
		ActionStatusUpdate:     {},
		ActionEscalationNotice: {},
		ActionRoleNotification: {},
		ActionUrgentAlert:      {},
	}
}

// Validate checks that the timeout action is one of the known values.
func (a TimeoutAction) Validate() error {
	if _, ok := getValidTimeoutActions()[a]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("timeoutAction",
			fmt.Errorf("%q is not a valid timeout action", string(a)))
	}
	return nil
}

// Notifies reports whether firing the rung queues notifications.
func (a TimeoutAction) Notifies() bool {
	return a != ActionStatusUpdate
}

// Filters narrow which orders a timeout rule watches. Zero values mean
// "no filter".
type Filters struct {
	// Priorities limits the rule to orders with one of these priorities.
	Priorities []order.Priority

	// SpecialistOnly limits the rule to orders placed with specialist
	// suppliers.
	SpecialistOnly bool

	// MinTotalAmount limits the rule to orders of at least this value, in
	// cents.
	MinTotalAmount int64
}

// TimeoutRule is one rung of the escalation ladder: after an order has waited
// TriggerAfterHours without supplier confirmation, the rung fires its action
// at its escalation level.
type TimeoutRule struct {
	id                string
	name              string
	triggerAfterHours int
	action            TimeoutAction
	targetStatus      order.Status
	level             rules.Severity
	recipients        []permissions.Role
	filters           Filters
}

// NewTimeoutRule creates a validated ladder rung. Like the business rule set,
// the ladder is configuration: any invalid definition is a ConfigurationError
// and must abort the load.
func NewTimeoutRule(
	id string,
	name string,
	triggerAfterHours int,
	action TimeoutAction,
	targetStatus order.Status,
	level rules.Severity,
	recipients []permissions.Role,
	filters Filters,
) (TimeoutRule, error) {
	if id == "" {
		return TimeoutRule{}, errs.NewConfigurationError("escalation", "timeout rule id is required")
	}
	if name == "" {
		return TimeoutRule{}, errs.NewConfigurationError("escalation",
			fmt.Sprintf("timeout rule %s: name is required", id))
	}
	if triggerAfterHours <= 0 {
		return TimeoutRule{}, errs.NewConfigurationError("escalation",
			fmt.Sprintf("timeout rule %s: trigger threshold must be positive", id))
	}
	if err := action.Validate(); err != nil {
		return TimeoutRule{}, errs.NewConfigurationErrorWithCause("escalation",
			fmt.Sprintf("timeout rule %s: invalid action", id), err)
	}
	if err := level.Validate(); err != nil {
		return TimeoutRule{}, errs.NewConfigurationErrorWithCause("escalation",
			fmt.Sprintf("timeout rule %s: invalid escalation level", id), err)
	}

	if action == ActionStatusUpdate {
		if err := targetStatus.Validate(); err != nil {
			return TimeoutRule{}, errs.NewConfigurationErrorWithCause("escalation",
				fmt.Sprintf("timeout rule %s: status update requires a valid target status", id), err)
		}
	} else {
		if targetStatus != "" {
			return TimeoutRule{}, errs.NewConfigurationError("escalation",
				fmt.Sprintf("timeout rule %s: target status is only valid for status updates", id))
		}
		if len(recipients) == 0 {
			return TimeoutRule{}, errs.NewConfigurationError("escalation",
				fmt.Sprintf("timeout rule %s: notification rules need at least one recipient role", id))
		}
	}

	for _, role := range recipients {
		if err := role.Validate(); err != nil {
			return TimeoutRule{}, errs.NewConfigurationErrorWithCause("escalation",
				fmt.Sprintf("timeout rule %s: invalid recipient role", id), err)
		}
	}
	for _, priority := range filters.Priorities {
		if err := priority.Validate(); err != nil {
			return TimeoutRule{}, errs.NewConfigurationErrorWithCause("escalation",
				fmt.Sprintf("timeout rule %s: invalid priority filter", id), err)
		}
	}
	if filters.MinTotalAmount < 0 {
		return TimeoutRule{}, errs.NewConfigurationError("escalation",
			fmt.Sprintf("timeout rule %s: minimum amount filter must not be negative", id))
	}

	rule := TimeoutRule{
		id:                id,
		name:              name,
		triggerAfterHours: triggerAfterHours,
		action:            action,
		targetStatus:      targetStatus,
		level:             level,
	}
	rule.recipients = make([]permissions.Role, len(recipients))
	copy(rule.recipients, recipients)
	rule.filters = Filters{
		Priorities:     append([]order.Priority(nil), filters.Priorities...),
		SpecialistOnly: filters.SpecialistOnly,
		MinTotalAmount: filters.MinTotalAmount,
	}

	return rule, nil
}

// ID returns the rung's unique identifier.
func (r TimeoutRule) ID() string {
	return r.id
}

// Name returns the rung's display name.
func (r TimeoutRule) Name() string {
	return r.name
}

// TriggerAfterHours returns the waiting time after which the rung fires.
func (r TimeoutRule) TriggerAfterHours() int {
	return r.triggerAfterHours
}

// Action returns what the monitor does when the rung fires.
func (r TimeoutRule) Action() TimeoutAction {
	return r.action
}

// TargetStatus returns the status a STATUS_UPDATE rung forces.
func (r TimeoutRule) TargetStatus() order.Status {
	return r.targetStatus
}

// Level returns the rung's escalation level.
func (r TimeoutRule) Level() rules.Severity {
	return r.level
}

// Recipients returns a copy of the rung's recipient roles.
func (r TimeoutRule) Recipients() []permissions.Role {
	recipients := make([]permissions.Role, len(r.recipients))
	copy(recipients, r.recipients)
	return recipients
}

// Filters returns the rung's order filters.
func (r TimeoutRule) Filters() Filters {
	return Filters{
		Priorities:     append([]order.Priority(nil), r.filters.Priorities...),
		SpecialistOnly: r.filters.SpecialistOnly,
		MinTotalAmount: r.filters.MinTotalAmount,
	}
}

// AppliesTo reports whether the rung watches the given order. The supplier may
// be nil when the rung has no specialist filter.
func (r TimeoutRule) AppliesTo(o *order.PurchaseOrder, s *supplier.Supplier) bool {
	if len(r.filters.Priorities) > 0 {
		matched := false
		for _, p := range r.filters.Priorities {
			if o.Priority() == p {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	if r.filters.SpecialistOnly && (s == nil || !s.IsSpecialist()) {
		return false
	}
	if r.filters.MinTotalAmount > 0 && o.TotalAmount() < r.filters.MinTotalAmount {
		return false
	}
	return true
}

// Ladder is an ordered set of timeout rules. NewLadder establishes the total
// order every scan relies on: ascending trigger threshold, ties broken by id.
type Ladder struct {
	rungs []TimeoutRule
}

// NewLadder builds a ladder from rungs, rejecting duplicate ids and sorting
// into the canonical order.
func NewLadder(rungs []TimeoutRule) (Ladder, error) {
	seen := make(map[string]struct{}, len(rungs))
	for _, rung := range rungs {
		if _, dup := seen[rung.id]; dup {
			return Ladder{}, errs.NewConfigurationError("escalation",
				fmt.Sprintf("duplicate timeout rule id %s", rung.id))
		}
		seen[rung.id] = struct{}{}
	}

	sorted := make([]TimeoutRule, len(rungs))
	copy(sorted, rungs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].triggerAfterHours != sorted[j].triggerAfterHours {
			return sorted[i].triggerAfterHours < sorted[j].triggerAfterHours
		}
		return sorted[i].id < sorted[j].id
	})

	return Ladder{rungs: sorted}, nil
}

// Rungs returns the rungs in canonical order.
func (l Ladder) Rungs() []TimeoutRule {
	rungs := make([]TimeoutRule, len(l.rungs))
	copy(rungs, l.rungs)
	return rungs
}

// For returns the sub-ladder of rungs whose filters match the order.
func (l Ladder) For(o *order.PurchaseOrder, s *supplier.Supplier) Ladder {
	matching := make([]TimeoutRule, 0, len(l.rungs))
	for _, rung := range l.rungs {
		if rung.AppliesTo(o, s) {
			matching = append(matching, rung)
		}
	}
	return Ladder{rungs: matching}
}

// NextDue returns the first rung that should fire now: not yet fired for this
// event, at or above the event's current level, and past its waiting
// threshold. Rungs below the current level are skipped permanently, which is
// what keeps an event's level monotonic even when a scan starts late and
// several rungs are overdue at once.
func (l Ladder) NextDue(fired map[string]struct{}, minRank int, elapsedHours int) (TimeoutRule, bool) {
	for _, rung := range l.rungs {
		if _, done := fired[rung.id]; done {
			continue
		}
		if rung.level.Rank() < minRank {
			continue
		}
		if elapsedHours >= rung.triggerAfterHours {
			return rung, true
		}
	}
	return TimeoutRule{}, false
}

// NextPending returns the first rung that could still fire for this event,
// regardless of elapsed time. It determines the event's next escalation
// deadline; ok is false when the ladder is exhausted.
func (l Ladder) NextPending(fired map[string]struct{}, minRank int) (TimeoutRule, bool) {
	for _, rung := range l.rungs {
		if _, done := fired[rung.id]; done {
			continue
		}
		if rung.level.Rank() < minRank {
			continue
		}
		return rung, true
	}
	return TimeoutRule{}, false
}
