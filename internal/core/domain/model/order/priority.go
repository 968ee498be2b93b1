package order

import (
	"fmt"

	"procurement/internal/pkg/errs"
)

// Priority expresses the urgency of a purchase order. It influences
// escalation (urgent orders climb the timeout ladder faster) and permission
// evaluation (urgent requests from employees require escalation).
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

func getValidPriorities() map[Priority]struct{} {
	return map[Priority]struct{}{
		PriorityLow:    {},
		PriorityNormal: {},
		PriorityHigh:   {},
		PriorityUrgent: {},
	}
}

// Validate checks that the priority is one of the known values.
func (p Priority) Validate() error {
	if _, ok := getValidPriorities()[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("priority", fmt.Errorf("%q is not a valid priority", string(p)))
	}
	return nil
}

// String returns the wire name of the priority.
func (p Priority) String() string {
	return string(p)
}
