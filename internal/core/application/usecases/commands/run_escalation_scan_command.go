package commands

import (
	"errors"

	"procurement/internal/pkg/guard"
)

var ErrRunEscalationScanCommandIsNotConstructed = errors.New(
	"RunEscalationScanCommand must be created via NewRunEscalationScanCommand constructor",
)

// RunEscalationScanCommand requests one pass of the escalation monitor over
// every order awaiting supplier confirmation. The scan instant is sampled
// from the clock by the handler; the command carries no parameters.
type RunEscalationScanCommand struct {
	guard guard.ConstructorGuard
}

// NewRunEscalationScanCommand creates a command to run one escalation scan.
func NewRunEscalationScanCommand() RunEscalationScanCommand {
	return RunEscalationScanCommand{guard: guard.NewConstructorGuard()}
}

// Validate ensures the command was created through the constructor.
// Returns ErrRunEscalationScanCommandIsNotConstructed if validation fails.
func (c RunEscalationScanCommand) Validate() error {
	return c.guard.Validate(ErrRunEscalationScanCommandIsNotConstructed)
}

// ScanResult summarizes one escalation scan.
type ScanResult struct {
	// Created is the number of timeout events opened by this scan.
	Created int

	// Escalated is the number of ladder rungs fired across all orders.
	Escalated int

	// NotificationsQueued is the number of notification requests handed to
	// the dispatch system.
	NotificationsQueued int

	// Archived is the number of resolved events moved out of the active set
	// by the retention sweep.
	Archived int
}
