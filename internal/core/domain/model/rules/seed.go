package rules

import (
	_ "embed"
	"encoding/json"

	"procurement/internal/pkg/errs"
)

//go:embed seed_rules.json
var seedRulesDocument []byte

// ruleDocument is the JSON shape of a rule-set document.
type ruleDocument struct {
	Rules []ruleDTO `json:"rules"`
}

type ruleDTO struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Category   string         `json:"category"`
	Severity   string         `json:"severity"`
	Active     bool           `json:"active"`
	Message    string         `json:"message"`
	Gates      gatesDTO       `json:"gates"`
	Conditions []conditionDTO `json:"conditions"`
}

type gatesDTO struct {
	Dispatch   bool `json:"dispatch"`
	Completion bool `json:"completion"`
}

type conditionDTO struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

// ParseRules loads a rule-set document. Loading is fail-fast: the first
// malformed rule aborts the load with a ConfigurationError and no rules are
// returned. Alongside the rules it returns the lint warnings of every loaded
// rule so authoring mistakes that silently degrade at evaluation time are
// visible at startup.
func ParseRules(document []byte) ([]Rule, []string, error) {
	var doc ruleDocument
	if err := json.Unmarshal(document, &doc); err != nil {
		return nil, nil, errs.NewConfigurationErrorWithCause("rules", "rule document is not valid JSON", err)
	}
	if len(doc.Rules) == 0 {
		return nil, nil, errs.NewConfigurationError("rules", "rule document contains no rules")
	}

	seen := make(map[string]struct{}, len(doc.Rules))
	loaded := make([]Rule, 0, len(doc.Rules))
	var warnings []string

	for _, dto := range doc.Rules {
		if _, dup := seen[dto.ID]; dup {
			return nil, nil, errs.NewConfigurationError("rules", "duplicate rule id "+dto.ID)
		}
		seen[dto.ID] = struct{}{}

		conditions := make([]Condition, len(dto.Conditions))
		for i, c := range dto.Conditions {
			conditions[i] = Condition{
				Field:    c.Field,
				Operator: Operator(c.Operator),
				Value:    c.Value,
			}
		}

		rule, err := NewRule(
			dto.ID,
			dto.Name,
			Category(dto.Category),
			Severity(dto.Severity),
			dto.Active,
			conditions,
			Gates(dto.Gates),
			dto.Message,
		)
		if err != nil {
			return nil, nil, err
		}

		warnings = append(warnings, rule.Lint()...)
		loaded = append(loaded, rule)
	}

	return loaded, warnings, nil
}

// SeedRules parses the embedded default rule set shipped with the
// application: invoice-required-before-dispatch,
// documentation-required-for-completion, high-value-approval,
// custom-glass-specialist-recommended, and urgent-order-escalation.
func SeedRules() ([]Rule, []string, error) {
	return ParseRules(seedRulesDocument)
}
