// Package rules provides the declarative business-rule model: conditions over
// a closed field registry, rule definitions with severities and gate
// declarations, and the embedded seed rule set.
//
// Rules are configuration, not code. They are loaded once at startup,
// validated fail-fast (a malformed definition aborts the load; there is no
// partial rule set), and treated as read-only during evaluation. The rule
// engine in the services package evaluates them against order snapshots.
package rules

import (
	"fmt"

	"procurement/internal/pkg/errs"
)

// Severity classifies how serious a rule violation is. CRITICAL and HIGH
// violations count as errors in the engine's aggregate; MEDIUM and LOW count
// as warnings.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

func getValidSeverities() map[Severity]struct{} {
	return map[Severity]struct{}{
		SeverityCritical: {},
		SeverityHigh:     {},
		SeverityMedium:   {},
		SeverityLow:      {},
	}
}

// IsError reports whether a violation of this severity counts toward the
// engine's error count rather than its warning count.
func (s Severity) IsError() bool {
	return s == SeverityCritical || s == SeverityHigh
}

// Rank orders severities from LOW (1) to CRITICAL (4). Unknown severities
// rank zero. The escalation ladder uses Rank to enforce monotonic severity.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

// Validate checks that the severity is one of the known values.
func (s Severity) Validate() error {
	if _, ok := getValidSeverities()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("severity", fmt.Errorf("%q is not a valid severity", string(s)))
	}
	return nil
}

// Category classifies the business intent of a rule. The engine does not
// branch on category; it exists for reporting and for operators reading the
// configuration.
type Category string

const (
	CategoryDispatchBlocking Category = "DISPATCH_BLOCKING"
	CategoryApprovalRequired Category = "APPROVAL_REQUIRED"
	CategoryValidation       Category = "VALIDATION"
	CategoryNotification     Category = "NOTIFICATION"
)

func getValidCategories() map[Category]struct{} {
	return map[Category]struct{}{
		CategoryDispatchBlocking: {},
		CategoryApprovalRequired: {},
		CategoryValidation:       {},
		CategoryNotification:     {},
	}
}

// Validate checks that the category is one of the known values.
func (c Category) Validate() error {
	if _, ok := getValidCategories()[c]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("category", fmt.Errorf("%q is not a valid category", string(c)))
	}
	return nil
}

// Gates declares which workflow checkpoints a matching rule blocks. Gating is
// a declared attribute of the rule, never inferred from its id or category,
// so the engine stays decoupled from specific rule identities.
type Gates struct {
	Dispatch   bool
	Completion bool
}

// Rule is one declarative business rule: an ordered list of conditions
// (conjunction) plus the severity, gates, and message emitted when all
// conditions hold for an order.
type Rule struct {
	id         string
	name       string
	category   Category
	severity   Severity
	active     bool
	conditions []Condition
	gates      Gates
	message    string
}

// NewRule creates a validated rule definition.
//
// Validation is load-time and fail-fast:
//   - id, name, and message are required
//   - category and severity must be known values
//   - at least one condition is required (an empty conjunction would match
//     every order, which is always an authoring mistake)
//   - every condition's field must exist in the closed registry and its
//     operator must be known
//
// Any failure is a ConfigurationError; the caller must abort the load.
func NewRule(
	id string,
	name string,
	category Category,
	severity Severity,
	active bool,
	conditions []Condition,
	gates Gates,
	message string,
) (Rule, error) {
	if id == "" {
		return Rule{}, errs.NewConfigurationError("rules", "rule id is required")
	}
	if name == "" {
		return Rule{}, errs.NewConfigurationError("rules", fmt.Sprintf("rule %s: name is required", id))
	}
	if message == "" {
		return Rule{}, errs.NewConfigurationError("rules", fmt.Sprintf("rule %s: message is required", id))
	}
	if err := category.Validate(); err != nil {
		return Rule{}, errs.NewConfigurationErrorWithCause("rules", fmt.Sprintf("rule %s: invalid category", id), err)
	}
	if err := severity.Validate(); err != nil {
		return Rule{}, errs.NewConfigurationErrorWithCause("rules", fmt.Sprintf("rule %s: invalid severity", id), err)
	}
	if len(conditions) == 0 {
		return Rule{}, errs.NewConfigurationError("rules", fmt.Sprintf("rule %s: has no conditions", id))
	}

	for i, cond := range conditions {
		if !KnownField(cond.Field) {
			return Rule{}, errs.NewConfigurationError("rules",
				fmt.Sprintf("rule %s: condition %d references unknown field %q", id, i, cond.Field))
		}
		if _, ok := getValidOperators()[cond.Operator]; !ok {
			return Rule{}, errs.NewConfigurationError("rules",
				fmt.Sprintf("rule %s: condition %d uses unknown operator %q", id, i, cond.Operator))
		}
	}

	rule := Rule{
		id:       id,
		name:     name,
		category: category,
		severity: severity,
		active:   active,
		gates:    gates,
		message:  message,
	}
	rule.conditions = make([]Condition, len(conditions))
	copy(rule.conditions, conditions)

	return rule, nil
}

// ID returns the rule's unique identifier.
func (r Rule) ID() string {
	return r.id
}

// Name returns the rule's display name.
func (r Rule) Name() string {
	return r.name
}

// Category returns the rule's business classification.
func (r Rule) Category() Category {
	return r.category
}

// Severity returns the severity of a violation of this rule.
func (r Rule) Severity() Severity {
	return r.severity
}

// IsActive reports whether the engine evaluates this rule.
func (r Rule) IsActive() bool {
	return r.active
}

// Conditions returns a copy of the rule's condition list.
func (r Rule) Conditions() []Condition {
	conditions := make([]Condition, len(r.conditions))
	copy(conditions, r.conditions)
	return conditions
}

// Gates returns the checkpoints a matching rule blocks.
func (r Rule) Gates() Gates {
	return r.gates
}

// Message returns the text surfaced verbatim in a violation.
func (r Rule) Message() string {
	return r.message
}

// Matches reports whether all of the rule's conditions hold for the context.
// Inactive rules never match. A single malformed condition degrades that
// condition to false; it never fails the whole pass.
func (r Rule) Matches(ctx EvalContext) bool {
	if !r.active {
		return false
	}
	for _, cond := range r.conditions {
		if !cond.Evaluate(ctx) {
			return false
		}
	}
	return true
}

// Lint returns authoring warnings that do not prevent loading: conditions
// whose semantics silently degrade to non-match at evaluation time. The
// runtime stays fail-closed either way; the warnings exist so an authoring
// bug (comparing a string field numerically, null-checking a field that can
// never be null) is visible at startup instead of masked forever.
func (r Rule) Lint() []string {
	var warnings []string
	for i, cond := range r.conditions {
		switch cond.Operator {
		case OpGreaterThan, OpLessThan:
			if _, ok := toFloat(cond.Value); !ok {
				warnings = append(warnings, fmt.Sprintf(
					"rule %s: condition %d compares %q numerically against non-numeric literal %v; it will never match",
					r.id, i, cond.Field, cond.Value))
			}
		case OpIn:
			if _, ok := toSlice(cond.Value); !ok {
				warnings = append(warnings, fmt.Sprintf(
					"rule %s: condition %d uses operator in with non-list literal %v; it will never match",
					r.id, i, cond.Value))
			}
		case OpIsNull, OpIsNotNull:
			if !isNullable(cond.Field) {
				warnings = append(warnings, fmt.Sprintf(
					"rule %s: condition %d null-checks field %q which always has a value",
					r.id, i, cond.Field))
			}
		}
	}
	return warnings
}
