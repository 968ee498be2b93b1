package order

import (
	"fmt"

	"procurement/internal/pkg/errs"
)

// Action identifies an operation an actor can attempt against a purchase
// order or the surrounding workflow. Lifecycle actions drive status
// transitions; management actions (reporting, configuration, export) do not
// touch the state machine but are still permission-checked.
type Action string

const (
	// Lifecycle actions. Each maps to an edge in the status transition table.
	ActionCreate          Action = "create"
	ActionEdit            Action = "edit"
	ActionDelete          Action = "delete"
	ActionSubmit          Action = "submit"
	ActionApprove         Action = "approve"
	ActionReject          Action = "reject"
	ActionSendToSupplier  Action = "send_to_supplier"
	ActionConfirmSupplier Action = "confirm_supplier"
	ActionMarkOverdue     Action = "mark_overdue"
	ActionConfirmReceipt  Action = "confirm_receipt"
	ActionCompleteReceipt Action = "complete_receipt"
	ActionCreateInvoice   Action = "create_invoice"
	ActionApproveInvoice  Action = "approve_invoice"
	ActionCancel          Action = "cancel"

	// Management actions. Permission-checked but never transition an order.
	ActionViewFinancial      Action = "view_financial"
	ActionManageSuppliers    Action = "manage_suppliers"
	ActionConfigureWorkflows Action = "configure_workflows"
	ActionViewAnalytics      Action = "view_analytics"
	ActionExportData         Action = "export_data"
	ActionEmergencyOverride  Action = "emergency_override"
)

func getValidActions() map[Action]struct{} {
	return map[Action]struct{}{
		ActionCreate:             {},
		ActionEdit:               {},
		ActionDelete:             {},
		ActionSubmit:             {},
		ActionApprove:            {},
		ActionReject:             {},
		ActionSendToSupplier:     {},
		ActionConfirmSupplier:    {},
		ActionMarkOverdue:        {},
		ActionConfirmReceipt:     {},
		ActionCompleteReceipt:    {},
		ActionCreateInvoice:      {},
		ActionApproveInvoice:     {},
		ActionCancel:             {},
		ActionViewFinancial:      {},
		ActionManageSuppliers:    {},
		ActionConfigureWorkflows: {},
		ActionViewAnalytics:      {},
		ActionExportData:         {},
		ActionEmergencyOverride:  {},
	}
}

// Transitions reports whether the action drives a status transition.
// Management actions are permission-checked without consulting the lifecycle
// table, so transition checks must not require an edge for them.
func (a Action) Transitions() bool {
	switch a {
	case ActionViewFinancial, ActionManageSuppliers, ActionConfigureWorkflows,
		ActionViewAnalytics, ActionExportData, ActionEmergencyOverride:
		return false
	}
	return true
}

// Validate checks that the action is one of the known action values.
// Unknown actions are denied everywhere, so callers parsing external input
// should validate before evaluation.
func (a Action) Validate() error {
	if _, ok := getValidActions()[a]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%q is not a known action", string(a)))
	}
	return nil
}

// String returns the wire name of the action.
func (a Action) String() string {
	return string(a)
}
