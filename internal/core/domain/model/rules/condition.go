package rules

import (
	"fmt"
)

// Operator is the comparison applied between a resolved field value and a
// condition's literal value.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
	OpIn          Operator = "in"
	OpIsNull      Operator = "is_null"
	OpIsNotNull   Operator = "is_not_null"
)

func getValidOperators() map[Operator]struct{} {
	return map[Operator]struct{}{
		OpEquals:      {},
		OpNotEquals:   {},
		OpGreaterThan: {},
		OpLessThan:    {},
		OpIn:          {},
		OpIsNull:      {},
		OpIsNotNull:   {},
	}
}

// Condition is one declarative predicate of a rule: a registry field name, an
// operator, and a literal value. A rule matches an order only when all of its
// conditions hold (conjunction).
type Condition struct {
	Field    string
	Operator Operator
	Value    any
}

// Evaluate resolves the condition's field against the context and applies the
// operator.
//
// Evaluation is fail-closed: a nil field value (other than for the null
// operators), a numeric coercion failure, or an unknown operator all yield
// false. Evaluation never panics and never returns an error; malformed
// conditions degrade to "condition not met".
func (c Condition) Evaluate(ctx EvalContext) bool {
	resolve, ok := fieldRegistry()[c.Field]
	if !ok {
		return false
	}
	actual := resolve(ctx)

	switch c.Operator {
	case OpIsNull:
		return actual == nil
	case OpIsNotNull:
		return actual != nil
	}

	if actual == nil {
		return false
	}

	switch c.Operator {
	case OpEquals:
		return valuesEqual(actual, c.Value)
	case OpNotEquals:
		return !valuesEqual(actual, c.Value)
	case OpGreaterThan:
		a, aok := toFloat(actual)
		b, bok := toFloat(c.Value)
		return aok && bok && a > b
	case OpLessThan:
		a, aok := toFloat(actual)
		b, bok := toFloat(c.Value)
		return aok && bok && a < b
	case OpIn:
		values, ok := toSlice(c.Value)
		if !ok {
			return false
		}
		for _, v := range values {
			if valuesEqual(actual, v) {
				return true
			}
		}
		return false
	}

	// Unknown operator: fail closed.
	return false
}

// valuesEqual compares numerically when both sides coerce to a number,
// otherwise by canonical string form. JSON-sourced literals arrive as
// float64/string/bool, so cross-type numeric comparisons must not depend on
// the Go type of the field value.
func valuesEqual(a, b any) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af == bf
	}
	if aok != bok {
		return false
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

// toFloat coerces the supported numeric types to float64.
// Booleans, strings, timestamps, and everything else do not coerce.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// toSlice normalizes the literal of an "in" condition to a slice of values.
func toSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []string:
		values := make([]any, len(s))
		for i, str := range s {
			values[i] = str
		}
		return values, true
	default:
		return nil, false
	}
}

// isNullable reports whether the field can legitimately resolve to nil,
// which is what the null operators test. Used by rule linting.
func isNullable(field string) bool {
	switch field {
	case "approvedAt", "sentToSupplierAt", "supplierConfirmedAt",
		"supplier.specialist", "supplier.approved", "supplier.rating":
		return true
	default:
		return false
	}
}
