// Package permissions provides the role-based access model for purchase-order
// actions: the role enum, the permission matrix (grant sets plus
// restrictions), and the decision value returned by the evaluator.
//
// The matrix is configuration loaded at startup and validated fail-fast, like
// the business rule set. Evaluation itself lives in the services package; this
// package only models the configuration and results.
package permissions

// Decision is the outcome of a permission evaluation. It is a result, not an
// error: a denial is a normal answer and carries a human-readable reason.
type Decision struct {
	// Allowed reports whether the actor may perform the action.
	Allowed bool

	// Reason explains a denial. Empty when the action is allowed.
	Reason string

	// RequiresApproval marks an allowed action that must be followed up by an
	// approver, per the role's restrictions.
	RequiresApproval bool

	// EscalationRequired marks decisions a supervisor should look at: denials
	// caused by amount limits, and allowed actions on urgent orders taken by
	// an employee.
	EscalationRequired bool
}

// Allow returns a positive decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a negative decision with the given reason.
func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}
