package escalation

import (
	_ "embed"
	"encoding/json"

	"procurement/internal/core/domain/model/order"
	"procurement/internal/core/domain/model/permissions"
	"procurement/internal/core/domain/model/rules"
	"procurement/internal/pkg/errs"
)

//go:embed seed_ladder.json
var seedLadderDocument []byte

// ladderDocument is the JSON shape of a ladder document.
type ladderDocument struct {
	Rules []timeoutRuleDTO `json:"rules"`
}

type timeoutRuleDTO struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	TriggerAfterHours int        `json:"triggerAfterHours"`
	Action            string     `json:"action"`
	TargetStatus      string     `json:"targetStatus"`
	EscalationLevel   string     `json:"escalationLevel"`
	Recipients        []string   `json:"recipients"`
	Filters           filtersDTO `json:"filters"`
}

type filtersDTO struct {
	Priorities     []string `json:"priorities"`
	SpecialistOnly bool     `json:"specialistOnly"`
	MinTotalAmount int64    `json:"minTotalAmount"`
}

// ParseLadder loads a ladder document. Loading is fail-fast: the first
// malformed rung aborts the load with a ConfigurationError.
func ParseLadder(document []byte) (Ladder, error) {
	var doc ladderDocument
	if err := json.Unmarshal(document, &doc); err != nil {
		return Ladder{}, errs.NewConfigurationErrorWithCause("escalation", "ladder document is not valid JSON", err)
	}
	if len(doc.Rules) == 0 {
		return Ladder{}, errs.NewConfigurationError("escalation", "ladder document contains no rules")
	}

	rungs := make([]TimeoutRule, 0, len(doc.Rules))
	for _, dto := range doc.Rules {
		recipients := make([]permissions.Role, len(dto.Recipients))
		for i, role := range dto.Recipients {
			recipients[i] = permissions.Role(role)
		}
		priorities := make([]order.Priority, len(dto.Filters.Priorities))
		for i, priority := range dto.Filters.Priorities {
			priorities[i] = order.Priority(priority)
		}

		rung, err := NewTimeoutRule(
			dto.ID,
			dto.Name,
			dto.TriggerAfterHours,
			TimeoutAction(dto.Action),
			order.Status(dto.TargetStatus),
			rules.Severity(dto.EscalationLevel),
			recipients,
			Filters{
				Priorities:     priorities,
				SpecialistOnly: dto.Filters.SpecialistOnly,
				MinTotalAmount: dto.Filters.MinTotalAmount,
			},
		)
		if err != nil {
			return Ladder{}, err
		}
		rungs = append(rungs, rung)
	}

	return NewLadder(rungs)
}

// SeedLadder parses the embedded default escalation ladder: an urgent alert
// at 6 hours for urgent orders, the overdue status flip at 24 hours, a
// manager escalation at 48 hours, and an admin alert at 72 hours.
func SeedLadder() (Ladder, error) {
	return ParseLadder(seedLadderDocument)
}
