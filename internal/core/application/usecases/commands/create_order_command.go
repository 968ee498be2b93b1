package commands

import (
	"errors"

	"procurement/internal/core/domain/model/kernel"
	"procurement/internal/core/domain/model/order"
	"procurement/internal/core/domain/model/permissions"
	"procurement/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrOrderNumberIsRequired = errors.New("order number is required")
	ErrLineItemsAreRequired  = errors.New("at least one line item is required")
)

// LineItemSpec carries one requested line item as primitives. The handler
// converts specs into domain line items, which perform the real validation.
type LineItemSpec struct {
	Description    string
	Quantity       int
	UnitPriceCents int64
	CustomGlass    bool
}

// CreateOrderCommand represents a request to create a new purchase order in
// DRAFT status on behalf of an actor.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	number          string
	supplierID      kernel.UUID
	priority        order.Priority
	lineItems       []LineItemSpec
	invoiceRequired bool
	role            permissions.Role

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new purchase order.
// Validates identifiers, the priority, the role, and that the order carries a
// number and at least one line item.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	number string,
	supplierID kernel.UUID,
	priority order.Priority,
	lineItems []LineItemSpec,
	invoiceRequired bool,
	role permissions.Role,
) (CreateOrderCommand, error) {
	orderCommand := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderCommand.setOrderID(orderID),
		orderCommand.setNumber(number),
		orderCommand.setSupplierID(supplierID),
		orderCommand.setPriority(priority),
		orderCommand.setLineItems(lineItems),
		orderCommand.setRole(role),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	orderCommand.invoiceRequired = invoiceRequired
	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the identifier for the new order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Number returns the human-readable order number.
func (c CreateOrderCommand) Number() string {
	return c.number
}

// SupplierID returns the supplier the order will be placed with.
func (c CreateOrderCommand) SupplierID() kernel.UUID {
	return c.supplierID
}

// Priority returns the requested urgency.
func (c CreateOrderCommand) Priority() order.Priority {
	return c.priority
}

// LineItems returns a copy of the requested line items.
func (c CreateOrderCommand) LineItems() []LineItemSpec {
	lineItems := make([]LineItemSpec, len(c.lineItems))
	copy(lineItems, c.lineItems)
	return lineItems
}

// InvoiceRequired reports whether the order needs an invoice before completion.
func (c CreateOrderCommand) InvoiceRequired() bool {
	return c.invoiceRequired
}

// Role returns the acting role.
func (c CreateOrderCommand) Role() permissions.Role {
	return c.role
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setNumber(number string) error {
	if number == "" {
		return ErrOrderNumberIsRequired
	}

	c.number = number
	return nil
}

func (c *CreateOrderCommand) setSupplierID(supplierID kernel.UUID) error {
	if err := supplierID.Validate(); err != nil {
		return err
	}

	c.supplierID = supplierID
	return nil
}

func (c *CreateOrderCommand) setPriority(priority order.Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}

	c.priority = priority
	return nil
}

func (c *CreateOrderCommand) setLineItems(lineItems []LineItemSpec) error {
	if len(lineItems) == 0 {
		return ErrLineItemsAreRequired
	}

	c.lineItems = make([]LineItemSpec, len(lineItems))
	copy(c.lineItems, lineItems)
	return nil
}

func (c *CreateOrderCommand) setRole(role permissions.Role) error {
	if err := role.Validate(); err != nil {
		return err
	}

	c.role = role
	return nil
}
