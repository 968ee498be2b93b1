package order

import (
	"fmt"

	"procurement/internal/pkg/errs"
)

// Status represents the lifecycle state of a purchase order.
// It implements a state machine with defined transitions to ensure orders
// follow the procurement workflow.
//
// State transitions:
//
//	DRAFT ──submit──> PENDING_APPROVAL ──approve──> APPROVED ──send_to_supplier──> SENT_TO_SUPPLIER
//	                        │                                                            │
//	                      reject                                     ┌──confirm_supplier─┴─mark_overdue──┐
//	                        v                                        v                                   v
//	                    CANCELLED                            SUPPLIER_CONFIRMED <──confirm_supplier── CONFIRMATION_OVERDUE
//	                                                                 │
//	                                   ┌──confirm_receipt────────────┴─complete_receipt──┐
//	                                   v                                                 v
//	                           PARTIALLY_RECEIVED ──complete_receipt──────────> FULLY_RECEIVED
//	                                                                                     │
//	                                                                               create_invoice
//	                                                                                     v
//	                                                  COMPLETED <──approve_invoice── INVOICED
//
// Every non-terminal status additionally allows the cancel action.
// COMPLETED and CANCELLED are terminal: no transition leaves them.
//
// Status is a value object that validates state transitions and provides
// string representations for persistence and display.
type Status string

const (
	// StatusDraft is the initial status when an order is first created.
	StatusDraft Status = "DRAFT"

	// StatusPendingApproval indicates the order awaits an approver's decision.
	StatusPendingApproval Status = "PENDING_APPROVAL"

	// StatusApproved indicates the order may be dispatched to its supplier.
	StatusApproved Status = "APPROVED"

	// StatusSentToSupplier indicates the order was dispatched and awaits
	// supplier confirmation. Orders in this status are watched by the
	// escalation monitor.
	StatusSentToSupplier Status = "SENT_TO_SUPPLIER"

	// StatusConfirmationOverdue is forced by the escalation monitor when a
	// supplier fails to confirm within the configured window.
	StatusConfirmationOverdue Status = "CONFIRMATION_OVERDUE"

	// StatusSupplierConfirmed indicates the supplier committed to fulfil the order.
	StatusSupplierConfirmed Status = "SUPPLIER_CONFIRMED"

	// StatusPartiallyReceived indicates some but not all line items arrived.
	StatusPartiallyReceived Status = "PARTIALLY_RECEIVED"

	// StatusFullyReceived indicates all goods arrived and invoicing may begin.
	StatusFullyReceived Status = "FULLY_RECEIVED"

	// StatusInvoiced indicates an invoice was created for the received goods.
	StatusInvoiced Status = "INVOICED"

	// StatusCompleted is the successful terminal status.
	StatusCompleted Status = "COMPLETED"

	// StatusCancelled is the unsuccessful terminal status, reachable from
	// any non-terminal status.
	StatusCancelled Status = "CANCELLED"
)

// Gate names a rule-controlled checkpoint a transition may cross.
// The rule engine decides per order whether each gate is open.
type Gate string

const (
	// GateNone marks transitions that no business rule can block.
	GateNone Gate = ""

	// GateDispatch guards the dispatch boundary (APPROVED -> SENT_TO_SUPPLIER).
	GateDispatch Gate = "dispatch"

	// GateCompletion guards the completion boundary (FULLY_RECEIVED -> INVOICED).
	GateCompletion Gate = "completion"
)

// Edge describes one legal transition out of a status: the target status and
// the gate, if any, the transition crosses.
type Edge struct {
	To   Status
	Gate Gate
}

func getValidStatuses() map[Status]struct{} {
	return map[Status]struct{}{
		StatusDraft:               {},
		StatusPendingApproval:     {},
		StatusApproved:            {},
		StatusSentToSupplier:      {},
		StatusConfirmationOverdue: {},
		StatusSupplierConfirmed:   {},
		StatusPartiallyReceived:   {},
		StatusFullyReceived:       {},
		StatusInvoiced:            {},
		StatusCompleted:           {},
		StatusCancelled:           {},
	}
}

// transitions is the complete lifecycle table. The cancel action is handled
// separately in Next because it applies to every non-terminal status.
func transitions() map[Status]map[Action]Edge {
	return map[Status]map[Action]Edge{
		StatusDraft: {
			ActionSubmit: {To: StatusPendingApproval},
		},
		StatusPendingApproval: {
			ActionApprove: {To: StatusApproved},
			ActionReject:  {To: StatusCancelled},
		},
		StatusApproved: {
			ActionSendToSupplier: {To: StatusSentToSupplier, Gate: GateDispatch},
		},
		StatusSentToSupplier: {
			ActionConfirmSupplier: {To: StatusSupplierConfirmed},
			ActionMarkOverdue:     {To: StatusConfirmationOverdue},
		},
		StatusConfirmationOverdue: {
			ActionConfirmSupplier: {To: StatusSupplierConfirmed},
		},
		StatusSupplierConfirmed: {
			ActionConfirmReceipt:  {To: StatusPartiallyReceived},
			ActionCompleteReceipt: {To: StatusFullyReceived},
		},
		StatusPartiallyReceived: {
			ActionCompleteReceipt: {To: StatusFullyReceived},
		},
		StatusFullyReceived: {
			ActionCreateInvoice: {To: StatusInvoiced, Gate: GateCompletion},
		},
		StatusInvoiced: {
			ActionApproveInvoice: {To: StatusCompleted},
		},
	}
}

// Validate checks if the Status value is one of the eleven known statuses.
//
// This method is used to ensure Status values from external sources
// (e.g., database, API) are valid before use.
func (s Status) Validate() error {
	if _, ok := getValidStatuses()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", string(s)))
	}
	return nil
}

// String returns the persisted name of the status.
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether the status permits no further transitions.
// COMPLETED and CANCELLED are the only terminal statuses.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Next looks up the transition for the given action from this status.
//
// Returns:
//   - (Edge, true) when the (status, action) pair is a legal transition
//   - (Edge{}, false) for every pair absent from the table
//
// The cancel action is legal from every non-terminal status and crosses no
// gate. Next performs no permission or gate evaluation; callers combine it
// with the permission evaluator and rule engine before applying the edge.
func (s Status) Next(action Action) (Edge, bool) {
	if action == ActionCancel {
		if s.IsTerminal() {
			return Edge{}, false
		}
		return Edge{To: StatusCancelled}, true
	}

	edges, ok := transitions()[s]
	if !ok {
		return Edge{}, false
	}

	edge, ok := edges[action]
	return edge, ok
}

// ActionForTransition returns the action whose edge leads from this status to
// the target status. The escalation monitor uses it to translate a forced
// target status into a regular state-machine action.
func (s Status) ActionForTransition(target Status) (Action, bool) {
	if target == StatusCancelled && !s.IsTerminal() {
		return ActionCancel, true
	}

	for action, edge := range transitions()[s] {
		if edge.To == target {
			return action, true
		}
	}
	return "", false
}
