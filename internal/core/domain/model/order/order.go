package order

import (
	"errors"
	"fmt"
	"time"

	"procurement/internal/core/domain/model/kernel"
	"procurement/internal/pkg/errs"
)

var (
	// ErrPurchaseOrderIsNotConstructed is returned when a PurchaseOrder instance
	// was not created through NewPurchaseOrder or RestorePurchaseOrder.
	ErrPurchaseOrderIsNotConstructed = errors.New(
		"PurchaseOrder must be created via NewPurchaseOrder or RestorePurchaseOrder",
	)

	// ErrIllegalTransition is returned when the requested action has no edge
	// from the order's current status in the lifecycle table.
	ErrIllegalTransition = errors.New("transition is not allowed from current status")
)

// PurchaseOrder is the aggregate root of the procurement workflow. It carries
// the order's lifecycle status, its commercial content (line items, total
// amount, supplier reference), approval metadata, invoice flags, and the
// timestamps the escalation monitor measures against.
//
// PurchaseOrder follows these invariants:
//   - Must have a valid unique identifier and supplier reference
//   - Must contain at least one line item
//   - Status transitions follow the lifecycle table in status.go
//   - COMPLETED and CANCELLED are terminal; no mutation leaves them
//   - Can only be created through NewPurchaseOrder or RestorePurchaseOrder
//
// Rule and permission evaluation treat the aggregate as an immutable snapshot:
// only Apply mutates it, and only after the caller has combined the lifecycle
// table with the permission evaluator and rule engine.
type PurchaseOrder struct {
	id         kernel.UUID
	number     string
	supplierID kernel.UUID
	priority   Priority
	status     Status
	lineItems  []LineItem

	approvedBy string
	approvedAt *time.Time

	invoiceRequired bool
	invoiceCreated  bool

	createdAt           time.Time
	updatedAt           time.Time
	sentToSupplierAt    *time.Time
	supplierConfirmedAt *time.Time

	isConstructed bool
}

// NewPurchaseOrder creates a new order in DRAFT status.
//
// Parameters:
//   - id: unique identifier (must be valid)
//   - number: human-readable order number (required)
//   - supplierID: the supplier the order is addressed to (must be valid)
//   - priority: urgency of the order
//   - lineItems: at least one validated line item
//   - invoiceRequired: whether an invoice must exist before dispatch
//   - now: creation timestamp, supplied by the caller for determinism
//
// The total amount is derived from the line items and never stored
// independently, so it cannot drift from the order's content.
func NewPurchaseOrder(
	id kernel.UUID,
	number string,
	supplierID kernel.UUID,
	priority Priority,
	lineItems []LineItem,
	invoiceRequired bool,
	now time.Time,
) (*PurchaseOrder, error) {
	po := &PurchaseOrder{
		status:          StatusDraft,
		invoiceRequired: invoiceRequired,
		createdAt:       now,
		updatedAt:       now,
		isConstructed:   true,
	}

	if err := errors.Join(
		po.setID(id),
		po.setNumber(number),
		po.setSupplierID(supplierID),
		po.setPriority(priority),
		po.setLineItems(lineItems),
	); err != nil {
		return nil, err
	}

	return po, nil
}

// RestorePurchaseOrder reconstructs an order from persistence without
// re-running creation rules. All values are still validated so corrupt rows
// surface as errors instead of invalid aggregates.
func RestorePurchaseOrder(
	id kernel.UUID,
	number string,
	supplierID kernel.UUID,
	priority Priority,
	status Status,
	lineItems []LineItem,
	approvedBy string,
	approvedAt *time.Time,
	invoiceRequired bool,
	invoiceCreated bool,
	createdAt time.Time,
	updatedAt time.Time,
	sentToSupplierAt *time.Time,
	supplierConfirmedAt *time.Time,
) (*PurchaseOrder, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	po := &PurchaseOrder{
		status:              status,
		approvedBy:          approvedBy,
		approvedAt:          approvedAt,
		invoiceRequired:     invoiceRequired,
		invoiceCreated:      invoiceCreated,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
		sentToSupplierAt:    sentToSupplierAt,
		supplierConfirmedAt: supplierConfirmedAt,
		isConstructed:       true,
	}

	if err := errors.Join(
		po.setID(id),
		po.setNumber(number),
		po.setSupplierID(supplierID),
		po.setPriority(priority),
		po.setLineItems(lineItems),
	); err != nil {
		return nil, err
	}

	return po, nil
}

// Validate ensures the PurchaseOrder instance was properly constructed.
// Call it when reconstructing orders from persistence or accepting them
// across module boundaries.
func (o *PurchaseOrder) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrPurchaseOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *PurchaseOrder) IsEqual(other *PurchaseOrder) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *PurchaseOrder) ID() kernel.UUID {
	return o.id
}

// Number returns the human-readable order number.
func (o *PurchaseOrder) Number() string {
	return o.number
}

// SupplierID returns the identifier of the supplier the order is addressed to.
func (o *PurchaseOrder) SupplierID() kernel.UUID {
	return o.supplierID
}

// Priority returns the urgency of the order.
func (o *PurchaseOrder) Priority() Priority {
	return o.priority
}

// Status returns the current lifecycle status.
func (o *PurchaseOrder) Status() Status {
	return o.status
}

// LineItems returns a copy of the order's line items.
func (o *PurchaseOrder) LineItems() []LineItem {
	items := make([]LineItem, len(o.lineItems))
	copy(items, o.lineItems)
	return items
}

// TotalAmount returns the order value in cents, derived from the line items.
func (o *PurchaseOrder) TotalAmount() int64 {
	var total int64
	for _, li := range o.lineItems {
		total += li.Total()
	}
	return total
}

// ApprovedBy returns the actor that approved the order, empty if unapproved.
func (o *PurchaseOrder) ApprovedBy() string {
	return o.approvedBy
}

// ApprovedAt returns the approval timestamp, nil if unapproved.
func (o *PurchaseOrder) ApprovedAt() *time.Time {
	return o.approvedAt
}

// InvoiceRequired reports whether an invoice must exist before dispatch.
func (o *PurchaseOrder) InvoiceRequired() bool {
	return o.invoiceRequired
}

// InvoiceCreated reports whether an invoice exists for the order.
func (o *PurchaseOrder) InvoiceCreated() bool {
	return o.invoiceCreated
}

// CreatedAt returns the creation timestamp.
func (o *PurchaseOrder) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the timestamp of the last mutation. The transition
// service uses it as the optimistic concurrency guard: attempts stamped
// earlier than UpdatedAt are rejected.
func (o *PurchaseOrder) UpdatedAt() time.Time {
	return o.updatedAt
}

// SentToSupplierAt returns when the order was dispatched, nil before dispatch.
func (o *PurchaseOrder) SentToSupplierAt() *time.Time {
	return o.sentToSupplierAt
}

// SupplierConfirmedAt returns when the supplier confirmed, nil before confirmation.
func (o *PurchaseOrder) SupplierConfirmedAt() *time.Time {
	return o.supplierConfirmedAt
}

// HasCustomGlass reports whether any line item is custom-manufactured glass.
// This is a derived field available to rule conditions.
func (o *PurchaseOrder) HasCustomGlass() bool {
	for _, li := range o.lineItems {
		if li.IsCustomGlass() {
			return true
		}
	}
	return false
}

// HoursWithoutConfirmation returns the whole hours elapsed between dispatch
// and now while the supplier has not confirmed. It returns zero when the
// order was never dispatched or the confirmation already arrived, so rule
// conditions comparing against it fail closed on non-waiting orders.
func (o *PurchaseOrder) HoursWithoutConfirmation(now time.Time) int {
	if o.sentToSupplierAt == nil || o.supplierConfirmedAt != nil {
		return 0
	}
	elapsed := now.Sub(*o.sentToSupplierAt)
	if elapsed < 0 {
		return 0
	}
	return int(elapsed.Hours())
}

// Apply executes the lifecycle transition for the given action, stamping the
// timestamps the target status implies.
//
// This method enforces only the transition table; permission decisions and
// rule gates are the caller's responsibility (see services.TransitionService).
//
// Returns:
//   - nil on success, with status, updatedAt, and status-specific stamps set
//   - ErrIllegalTransition if the (status, action) pair has no edge
//
// On error the aggregate is unchanged.
func (o *PurchaseOrder) Apply(action Action, actor string, now time.Time) error {
	edge, ok := o.status.Next(action)
	if !ok {
		return fmt.Errorf("%w: %s from %s", ErrIllegalTransition, action, o.status)
	}

	o.status = edge.To
	o.updatedAt = now

	switch edge.To {
	case StatusApproved:
		o.approvedBy = actor
		t := now
		o.approvedAt = &t
	case StatusSentToSupplier:
		t := now
		o.sentToSupplierAt = &t
	case StatusSupplierConfirmed:
		t := now
		o.supplierConfirmedAt = &t
	case StatusInvoiced:
		o.invoiceCreated = true
	}

	return nil
}

// setID validates and sets the order's unique identifier.
func (o *PurchaseOrder) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

// setNumber validates and sets the human-readable order number.
func (o *PurchaseOrder) setNumber(number string) error {
	if number == "" {
		return errs.NewValueIsRequiredError("number")
	}
	o.number = number
	return nil
}

// setSupplierID validates and sets the supplier reference.
func (o *PurchaseOrder) setSupplierID(supplierID kernel.UUID) error {
	if err := supplierID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("supplierID", err)
	}
	o.supplierID = supplierID
	return nil
}

// setPriority validates and sets the urgency.
func (o *PurchaseOrder) setPriority(priority Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}
	o.priority = priority
	return nil
}

// setLineItems validates and sets the order content. At least one item is
// required and every item must come from NewLineItem.
func (o *PurchaseOrder) setLineItems(items []LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("lineItems")
	}
	for i, li := range items {
		if err := li.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("lineItems[%d]", i), err)
		}
	}
	o.lineItems = make([]LineItem, len(items))
	copy(o.lineItems, items)
	return nil
}
