// Package queries contains read operations in the CQRS architecture. Queries
// never modify state: evaluation queries answer "what would happen" without
// applying anything, and reporting queries read projections straight from the
// database.
package queries

import (
	"errors"

	"procurement/internal/core/domain/model/kernel"
	"procurement/internal/core/domain/model/order"
	"procurement/internal/core/domain/model/permissions"
	"procurement/internal/pkg/guard"
)

var ErrEvaluateActionQueryIsNotConstructed = errors.New(
	"EvaluateActionQuery must be created via NewEvaluateActionQuery constructor",
)

// EvaluateActionQuery asks whether a role could perform a lifecycle action on
// an order right now, without performing it.
type EvaluateActionQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	action  order.Action
	role    permissions.Role

	guard guard.ConstructorGuard
}

// NewEvaluateActionQuery creates a query to evaluate one action attempt.
func NewEvaluateActionQuery(
	orderID kernel.UUID,
	action order.Action,
	role permissions.Role,
) (EvaluateActionQuery, error) {
	actionQuery := EvaluateActionQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		actionQuery.setOrderID(orderID),
		actionQuery.setAction(action),
		actionQuery.setRole(role),
	); err != nil {
		return EvaluateActionQuery{}, err
	}

	return actionQuery, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrEvaluateActionQueryIsNotConstructed if validation fails.
func (q EvaluateActionQuery) Validate() error {
	return q.guard.Validate(ErrEvaluateActionQueryIsNotConstructed)
}

// OrderID returns the order to evaluate against.
func (q EvaluateActionQuery) OrderID() kernel.UUID {
	return q.orderID
}

// Action returns the action to evaluate.
func (q EvaluateActionQuery) Action() order.Action {
	return q.action
}

// Role returns the role to evaluate for.
func (q EvaluateActionQuery) Role() permissions.Role {
	return q.role
}

func (q *EvaluateActionQuery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	q.orderID = orderID
	return nil
}

func (q *EvaluateActionQuery) setAction(action order.Action) error {
	if err := action.Validate(); err != nil {
		return err
	}

	q.action = action
	return nil
}

func (q *EvaluateActionQuery) setRole(role permissions.Role) error {
	if err := role.Validate(); err != nil {
		return err
	}

	q.role = role
	return nil
}

// EvaluateActionQueryResponse is the structured answer to an action
// evaluation: whether it would be allowed and every reason it would not be.
type EvaluateActionQueryResponse struct {
	Allowed            bool
	Reasons            []string
	RequiresApproval   bool
	EscalationRequired bool
}
