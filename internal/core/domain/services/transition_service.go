package services

import (
	"fmt"
	"time"

	"procurement/internal/core/domain/model/order"
	"procurement/internal/core/domain/model/permissions"
	"procurement/internal/core/domain/model/rules"
	"procurement/internal/core/domain/model/supplier"
	"procurement/internal/pkg/errs"
)

// TransitionResult is the structured outcome of a transition attempt.
// Rejections are normal results: the order is unchanged and Reasons carries
// every reason collected, permission denial and gate violations combined.
type TransitionResult struct {
	Allowed            bool
	Reasons            []string
	RequiresApproval   bool
	EscalationRequired bool
}

// TransitionService executes lifecycle transitions. A transition applies only
// when the lifecycle table has an edge for the (status, action) pair, the
// permission evaluator allows the action, and any gate the edge crosses is
// open according to the rule engine. Nothing is applied on rejection.
type TransitionService struct {
	engine    RuleEngine
	evaluator PermissionEvaluator
}

// NewTransitionService creates a transition service over the given engine and
// evaluator.
func NewTransitionService(engine RuleEngine, evaluator PermissionEvaluator) TransitionService {
	return TransitionService{engine: engine, evaluator: evaluator}
}

// Preview runs every transition check without applying anything: edge
// legality, permission evaluation, and gate evaluation. The order is never
// mutated, so callers can answer "could this actor do this right now".
// Management actions have no lifecycle edge and are answered by the
// permission evaluation alone.
func (s TransitionService) Preview(
	o *order.PurchaseOrder,
	sup *supplier.Supplier,
	action order.Action,
	role permissions.Role,
	now time.Time,
) (TransitionResult, error) {
	if err := o.Validate(); err != nil {
		return TransitionResult{}, err
	}

	result, _ := s.check(o, sup, action, role, now)
	if len(result.Reasons) == 0 {
		result.Allowed = true
	}
	return result, nil
}

// Transition attempts to apply action to the order on behalf of role.
//
// observedUpdatedAt is the order's update timestamp as read by the caller
// before requesting the transition. An attempt stamped earlier than the
// order's current timestamp lost a race with a concurrent write and fails
// with a ConcurrentModificationError; the caller re-reads and retries. The
// supplier snapshot may be nil when no loaded rule needs supplier fields.
//
// Errors are reserved for invalid aggregates and concurrency conflicts.
// Illegal transitions, permission denials, and closed gates are reported in
// the result, never as errors.
func (s TransitionService) Transition(
	o *order.PurchaseOrder,
	sup *supplier.Supplier,
	action order.Action,
	role permissions.Role,
	actor string,
	observedUpdatedAt time.Time,
	now time.Time,
) (TransitionResult, error) {
	if err := o.Validate(); err != nil {
		return TransitionResult{}, err
	}
	if observedUpdatedAt.Before(o.UpdatedAt()) {
		return TransitionResult{}, errs.NewConcurrentModificationError("purchase order", o.ID())
	}

	result, legal := s.check(o, sup, action, role, now)
	if !legal && len(result.Reasons) == 0 {
		result.Reasons = append(result.Reasons, fmt.Sprintf(
			"action %s does not transition the order", action))
	}
	if len(result.Reasons) > 0 || !legal {
		return result, nil
	}

	if err := o.Apply(action, actor, now); err != nil {
		return TransitionResult{}, err
	}

	result.Allowed = true
	return result, nil
}

// check collects every rejection reason for the attempt. It never mutates the
// order. legal reports whether the lifecycle table has an edge at all;
// management actions never have one and are checked against the permission
// matrix only.
func (s TransitionService) check(
	o *order.PurchaseOrder,
	sup *supplier.Supplier,
	action order.Action,
	role permissions.Role,
	now time.Time,
) (TransitionResult, bool) {
	result := TransitionResult{Reasons: make([]string, 0)}

	if !action.Transitions() {
		decision := s.evaluator.Evaluate(role, action, o, now)
		if !decision.Allowed {
			result.Reasons = append(result.Reasons, decision.Reason)
		}
		result.RequiresApproval = decision.RequiresApproval
		result.EscalationRequired = decision.EscalationRequired
		return result, false
	}

	edge, legal := o.Status().Next(action)
	if !legal {
		result.Reasons = append(result.Reasons, fmt.Sprintf(
			"action %s is not a legal transition from status %s", action, o.Status()))
		return result, false
	}

	decision := s.evaluator.Evaluate(role, action, o, now)
	if !decision.Allowed {
		result.Reasons = append(result.Reasons, decision.Reason)
	}
	result.RequiresApproval = decision.RequiresApproval
	result.EscalationRequired = decision.EscalationRequired

	if edge.Gate != order.GateNone {
		evaluation := s.engine.Evaluate(rules.EvalContext{Order: o, Supplier: sup, Now: now})
		for _, violation := range evaluation.Violations {
			switch edge.Gate {
			case order.GateDispatch:
				if violation.Gates.Dispatch {
					result.Reasons = append(result.Reasons, violation.Message)
				}
			case order.GateCompletion:
				if violation.Gates.Completion {
					result.Reasons = append(result.Reasons, violation.Message)
				}
			}
		}
	}

	return result, true
}
