package queries

import (
	"errors"

	"procurement/internal/core/domain/model/kernel"
	"procurement/internal/core/domain/model/rules"
	"procurement/internal/pkg/guard"
)

var ErrEvaluateRulesQueryIsNotConstructed = errors.New(
	"EvaluateRulesQuery must be created via NewEvaluateRulesQuery constructor",
)

// EvaluateRulesQuery asks which business rules currently match an order and
// whether the dispatch and completion gates are open.
type EvaluateRulesQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewEvaluateRulesQuery creates a query to evaluate the rule set for an order.
func NewEvaluateRulesQuery(orderID kernel.UUID) (EvaluateRulesQuery, error) {
	rulesQuery := EvaluateRulesQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := rulesQuery.setOrderID(orderID); err != nil {
		return EvaluateRulesQuery{}, err
	}

	return rulesQuery, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrEvaluateRulesQueryIsNotConstructed if validation fails.
func (q EvaluateRulesQuery) Validate() error {
	return q.guard.Validate(ErrEvaluateRulesQueryIsNotConstructed)
}

// OrderID returns the order to evaluate.
func (q EvaluateRulesQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q *EvaluateRulesQuery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	q.orderID = orderID
	return nil
}

// ViolationResponse is one matched rule in a rule evaluation response.
type ViolationResponse struct {
	RuleID   string
	RuleName string
	Category rules.Category
	Severity rules.Severity
	Message  string
}

// EvaluateRulesQueryResponse is the aggregate outcome of one rule evaluation.
type EvaluateRulesQueryResponse struct {
	Violations   []ViolationResponse
	CanDispatch  bool
	CanComplete  bool
	ErrorCount   int
	WarningCount int
}
