package services

import (
	"fmt"
	"time"

	"procurement/internal/core/domain/model/kernel"
	"procurement/internal/core/domain/model/order"
	"procurement/internal/core/domain/model/permissions"
)

// approvalCeilingCents is the order value above which only an administrator
// may approve, regardless of other grants.
const approvalCeilingCents = 1_000_000 // $10,000

// PermissionAuditEntry records one permission decision for the audit trail.
type PermissionAuditEntry struct {
	Role               permissions.Role
	Action             order.Action
	OrderID            *kernel.UUID
	Allowed            bool
	Reason             string
	RequiresApproval   bool
	EscalationRequired bool
	DecidedAt          time.Time
}

// DecisionRecorder receives every permission decision. Implementations must
// not fail the evaluation; recording is fire-and-forget from the evaluator's
// point of view.
type DecisionRecorder interface {
	RecordDecision(entry PermissionAuditEntry)
}

// PermissionEvaluator answers whether a role may perform an action, applying
// the permission matrix and the cross-cutting invariants.
//
// Evaluation never raises: the answer is always a structured Decision, and a
// denial is a normal outcome. Every call is recorded to the decision
// recorder. Like the rule engine, the evaluator never reads the wall clock.
type PermissionEvaluator struct {
	matrix   permissions.Matrix
	recorder DecisionRecorder
}

// NewPermissionEvaluator creates an evaluator over a validated matrix.
// The recorder may be nil, in which case decisions are not audited.
func NewPermissionEvaluator(matrix permissions.Matrix, recorder DecisionRecorder) PermissionEvaluator {
	return PermissionEvaluator{matrix: matrix, recorder: recorder}
}

// Evaluate decides whether role may perform action, optionally against an
// order snapshot (nil for order-independent actions such as exports).
//
// The checks short-circuit in a fixed sequence:
//  1. role and action must be known
//  2. the role's grant set must include the action
//  3. the role's restrictions must hold (value cap, supplier set, status set)
//  4. the cross-cutting invariants must hold
//
// Amount-based denials set EscalationRequired so a supervisor can pick the
// request up. An allowed urgent-order action by an employee also sets
// EscalationRequired. The value cap of step 3 applies to the actions that
// commit spend; approval amounts are governed by the invariant of step 4.
func (e PermissionEvaluator) Evaluate(
	role permissions.Role,
	action order.Action,
	o *order.PurchaseOrder,
	now time.Time,
) permissions.Decision {
	decision := e.decide(role, action, o)
	e.record(role, action, o, decision, now)
	return decision
}

func (e PermissionEvaluator) decide(
	role permissions.Role,
	action order.Action,
	o *order.PurchaseOrder,
) permissions.Decision {
	// The escalation monitor acts as the system: its forced transitions skip
	// the matrix but are still audited and still bound by the lifecycle table.
	if role == permissions.RoleSystem {
		return permissions.Allow()
	}

	if err := role.Validate(); err != nil {
		return permissions.Deny(fmt.Sprintf("unknown role %q", string(role)))
	}
	if err := action.Validate(); err != nil {
		return permissions.Deny(fmt.Sprintf("unknown action %q", string(action)))
	}

	row, err := e.matrix.Row(role)
	if err != nil {
		return permissions.Deny(fmt.Sprintf("role %s has no permission configuration", role))
	}
	if !row.Grants(action) {
		return permissions.Deny(fmt.Sprintf("role %s is not granted action %s", role, action))
	}

	restrictions := row.Restrictions()
	if o != nil {
		if denied, decision := checkRestrictions(role, action, o, restrictions); denied {
			return decision
		}
		if denied, decision := checkInvariants(role, action, o); denied {
			return decision
		}
	}

	decision := permissions.Allow()
	decision.RequiresApproval = restrictions.RequiresApproval
	if o != nil && o.Priority() == order.PriorityUrgent && role == permissions.RoleEmployee {
		decision.EscalationRequired = true
	}
	return decision
}

// spendCommitting reports whether the action commits spend on the order,
// which is what the maxOrderValue restriction caps.
func spendCommitting(action order.Action) bool {
	switch action {
	case order.ActionCreate, order.ActionEdit, order.ActionSubmit, order.ActionSendToSupplier:
		return true
	default:
		return false
	}
}

func checkRestrictions(
	role permissions.Role,
	action order.Action,
	o *order.PurchaseOrder,
	restrictions permissions.Restrictions,
) (bool, permissions.Decision) {
	if restrictions.MaxOrderValue != nil && spendCommitting(action) && o.TotalAmount() > *restrictions.MaxOrderValue {
		decision := permissions.Deny(fmt.Sprintf(
			"order value exceeds the $%d limit for role %s", *restrictions.MaxOrderValue/100, role))
		decision.EscalationRequired = true
		return true, decision
	}

	if len(restrictions.AllowedSupplierIDs) > 0 {
		allowed := false
		for _, supplierID := range restrictions.AllowedSupplierIDs {
			if o.SupplierID().IsEqual(supplierID) {
				allowed = true
				break
			}
		}
		if !allowed {
			return true, permissions.Deny(fmt.Sprintf(
				"role %s may not act on orders for this supplier", role))
		}
	}

	if len(restrictions.AllowedStatuses) > 0 && action != order.ActionCreate {
		allowed := false
		for _, status := range restrictions.AllowedStatuses {
			if o.Status() == status {
				allowed = true
				break
			}
		}
		if !allowed {
			return true, permissions.Deny(fmt.Sprintf(
				"role %s may not act on orders in status %s", role, o.Status()))
		}
	}

	return false, permissions.Decision{}
}

// checkInvariants applies the action invariants that hold for every role
// independent of its matrix row.
func checkInvariants(
	role permissions.Role,
	action order.Action,
	o *order.PurchaseOrder,
) (bool, permissions.Decision) {
	switch action {
	case order.ActionApprove:
		if o.TotalAmount() > approvalCeilingCents && role != permissions.RoleAdmin {
			decision := permissions.Deny("Orders over $10,000 require ADMIN approval")
			decision.EscalationRequired = true
			return true, decision
		}
	case order.ActionSendToSupplier:
		if o.Status() != order.StatusApproved {
			return true, permissions.Deny(fmt.Sprintf(
				"order must be APPROVED before dispatch, current status is %s", o.Status()))
		}
	case order.ActionConfirmReceipt:
		if o.Status() != order.StatusSupplierConfirmed && o.Status() != order.StatusPartiallyReceived {
			return true, permissions.Deny(fmt.Sprintf(
				"receipt can only be confirmed for confirmed or partially received orders, current status is %s", o.Status()))
		}
	case order.ActionCreateInvoice:
		if o.Status() != order.StatusFullyReceived {
			return true, permissions.Deny(fmt.Sprintf(
				"invoices can only be created for fully received orders, current status is %s", o.Status()))
		}
	case order.ActionEdit:
		switch o.Status() {
		case order.StatusCompleted, order.StatusCancelled, order.StatusInvoiced:
			return true, permissions.Deny(fmt.Sprintf(
				"orders in status %s can no longer be edited", o.Status()))
		}
	case order.ActionDelete:
		if o.Status() != order.StatusDraft {
			return true, permissions.Deny(fmt.Sprintf(
				"only DRAFT orders can be deleted, current status is %s", o.Status()))
		}
	}

	return false, permissions.Decision{}
}

func (e PermissionEvaluator) record(
	role permissions.Role,
	action order.Action,
	o *order.PurchaseOrder,
	decision permissions.Decision,
	now time.Time,
) {
	if e.recorder == nil {
		return
	}

	entry := PermissionAuditEntry{
		Role:               role,
		Action:             action,
		Allowed:            decision.Allowed,
		Reason:             decision.Reason,
		RequiresApproval:   decision.RequiresApproval,
		EscalationRequired: decision.EscalationRequired,
		DecidedAt:          now,
	}
	if o != nil {
		orderID := o.ID()
		entry.OrderID = &orderID
	}
	e.recorder.RecordDecision(entry)
}
