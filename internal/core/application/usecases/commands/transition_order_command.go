package commands

import (
	"errors"
	"time"

	"procurement/internal/core/domain/model/kernel"
	"procurement/internal/core/domain/model/order"
	"procurement/internal/core/domain/model/permissions"
	"procurement/internal/pkg/guard"
)

var (
	ErrTransitionOrderCommandIsNotConstructed = errors.New(
		"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
	)
	ErrActorIsRequired = errors.New("actor is required")
)

// TransitionOrderCommand represents a request to apply one lifecycle action
// to a purchase order on behalf of an actor.
//
// ObservedUpdatedAt is the order's update timestamp as the caller last read
// it. The transition service rejects the attempt with a retry-able
// ConcurrentModificationError when the order has changed since.
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID           kernel.UUID
	action            order.Action
	role              permissions.Role
	actor             string
	observedUpdatedAt time.Time

	guard guard.ConstructorGuard
}

// NewTransitionOrderCommand creates a command to apply a lifecycle action.
func NewTransitionOrderCommand(
	orderID kernel.UUID,
	action order.Action,
	role permissions.Role,
	actor string,
	observedUpdatedAt time.Time,
) (TransitionOrderCommand, error) {
	transitionCommand := TransitionOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		transitionCommand.setOrderID(orderID),
		transitionCommand.setAction(action),
		transitionCommand.setRole(role),
		transitionCommand.setActor(actor),
	); err != nil {
		return TransitionOrderCommand{}, err
	}

	transitionCommand.observedUpdatedAt = observedUpdatedAt
	return transitionCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrTransitionOrderCommandIsNotConstructed if validation fails.
func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

// OrderID returns the order to transition.
func (c TransitionOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Action returns the requested lifecycle action.
func (c TransitionOrderCommand) Action() order.Action {
	return c.action
}

// Role returns the acting role.
func (c TransitionOrderCommand) Role() permissions.Role {
	return c.role
}

// Actor returns the acting user's identifier, recorded on approvals.
func (c TransitionOrderCommand) Actor() string {
	return c.actor
}

// ObservedUpdatedAt returns the order timestamp the caller based the request on.
func (c TransitionOrderCommand) ObservedUpdatedAt() time.Time {
	return c.observedUpdatedAt
}

func (c *TransitionOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *TransitionOrderCommand) setAction(action order.Action) error {
	if err := action.Validate(); err != nil {
		return err
	}

	c.action = action
	return nil
}

func (c *TransitionOrderCommand) setRole(role permissions.Role) error {
	if err := role.Validate(); err != nil {
		return err
	}

	c.role = role
	return nil
}

func (c *TransitionOrderCommand) setActor(actor string) error {
	if actor == "" {
		return ErrActorIsRequired
	}

	c.actor = actor
	return nil
}
