package commands

import (
	"errors"

	"procurement/internal/core/domain/model/kernel"
	"procurement/internal/core/domain/model/permissions"
	"procurement/internal/pkg/guard"
)

var (
	ErrResolveTimeoutEventCommandIsNotConstructed = errors.New(
		"ResolveTimeoutEventCommand must be created via NewResolveTimeoutEventCommand constructor",
	)
	ErrResolutionReasonIsRequired = errors.New("resolution reason is required")
)

// ResolveTimeoutEventCommand represents a manual override of an open timeout
// event by a privileged actor. The reason is recorded on the event.
type ResolveTimeoutEventCommand struct { //nolint:recvcheck //using for validation
	eventID kernel.UUID
	role    permissions.Role
	actor   string
	reason  string

	guard guard.ConstructorGuard
}

// NewResolveTimeoutEventCommand creates a command to manually resolve a
// timeout event.
func NewResolveTimeoutEventCommand(
	eventID kernel.UUID,
	role permissions.Role,
	actor string,
	reason string,
) (ResolveTimeoutEventCommand, error) {
	resolveCommand := ResolveTimeoutEventCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		resolveCommand.setEventID(eventID),
		resolveCommand.setRole(role),
		resolveCommand.setActor(actor),
		resolveCommand.setReason(reason),
	); err != nil {
		return ResolveTimeoutEventCommand{}, err
	}

	return resolveCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrResolveTimeoutEventCommandIsNotConstructed if validation fails.
func (c ResolveTimeoutEventCommand) Validate() error {
	return c.guard.Validate(ErrResolveTimeoutEventCommandIsNotConstructed)
}

// EventID returns the timeout event to resolve.
func (c ResolveTimeoutEventCommand) EventID() kernel.UUID {
	return c.eventID
}

// Role returns the acting role.
func (c ResolveTimeoutEventCommand) Role() permissions.Role {
	return c.role
}

// Actor returns the acting user's identifier.
func (c ResolveTimeoutEventCommand) Actor() string {
	return c.actor
}

// Reason returns the override justification recorded on the event.
func (c ResolveTimeoutEventCommand) Reason() string {
	return c.reason
}

func (c *ResolveTimeoutEventCommand) setEventID(eventID kernel.UUID) error {
	if err := eventID.Validate(); err != nil {
		return err
	}

	c.eventID = eventID
	return nil
}

func (c *ResolveTimeoutEventCommand) setRole(role permissions.Role) error {
	if err := role.Validate(); err != nil {
		return err
	}

	c.role = role
	return nil
}

func (c *ResolveTimeoutEventCommand) setActor(actor string) error {
	if actor == "" {
		return ErrActorIsRequired
	}

	c.actor = actor
	return nil
}

func (c *ResolveTimeoutEventCommand) setReason(reason string) error {
	if reason == "" {
		return ErrResolutionReasonIsRequired
	}

	c.reason = reason
	return nil
}
