package services

import (
	"procurement/internal/core/domain/model/rules"
)

// Violation is the result of one rule whose conditions all hold for an order
// at a point in time. The message is surfaced to callers verbatim.
type Violation struct {
	RuleID   string
	RuleName string
	Category rules.Category
	Severity rules.Severity
	Message  string
	Gates    rules.Gates
}

// Evaluation is the aggregate outcome of one rule-engine pass over an order
// snapshot.
//
// CanDispatch and CanComplete start true and flip false on the first matching
// rule that declares the respective gate. ErrorCount tallies CRITICAL and
// HIGH violations; WarningCount the rest.
type Evaluation struct {
	Violations   []Violation
	CanDispatch  bool
	CanComplete  bool
	ErrorCount   int
	WarningCount int
}

// RuleEngine evaluates the configured business rules against order snapshots.
//
// The engine is stateless between calls and never reads the wall clock: the
// evaluation time arrives inside the context. Identical inputs always produce
// identical violations in identical order, and the aggregate result (gate
// states, counts, violation set) does not depend on rule ordering.
type RuleEngine struct {
	rules []rules.Rule
}

// NewRuleEngine creates an engine over an already validated rule set.
// Rules are evaluated, and violations reported, in the given order.
func NewRuleEngine(ruleSet []rules.Rule) RuleEngine {
	engine := RuleEngine{}
	engine.rules = make([]rules.Rule, len(ruleSet))
	copy(engine.rules, ruleSet)
	return engine
}

// Rules returns a copy of the engine's rule set.
func (e RuleEngine) Rules() []rules.Rule {
	ruleSet := make([]rules.Rule, len(e.rules))
	copy(ruleSet, e.rules)
	return ruleSet
}

// Evaluate runs every active rule against the context. A malformed condition
// degrades that one condition to non-match; it never fails the pass.
func (e RuleEngine) Evaluate(ctx rules.EvalContext) Evaluation {
	evaluation := Evaluation{
		Violations:  make([]Violation, 0),
		CanDispatch: true,
		CanComplete: true,
	}

	for _, rule := range e.rules {
		if !rule.Matches(ctx) {
			continue
		}

		evaluation.Violations = append(evaluation.Violations, Violation{
			RuleID:   rule.ID(),
			RuleName: rule.Name(),
			Category: rule.Category(),
			Severity: rule.Severity(),
			Message:  rule.Message(),
			Gates:    rule.Gates(),
		})

		if rule.Gates().Dispatch {
			evaluation.CanDispatch = false
		}
		if rule.Gates().Completion {
			evaluation.CanComplete = false
		}
		if rule.Severity().IsError() {
			evaluation.ErrorCount++
		} else {
			evaluation.WarningCount++
		}
	}

	return evaluation
}
