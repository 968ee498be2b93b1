package permissions

import (
	"fmt"

	"procurement/internal/core/domain/model/kernel"
	"procurement/internal/core/domain/model/order"
	"procurement/internal/pkg/errs"
)

// Restrictions narrow an otherwise granted action. Zero values mean
// "unrestricted": a nil MaxOrderValue is no value cap, empty slices allow all
// suppliers and all statuses.
type Restrictions struct {
	// MaxOrderValue caps, in cents, the total amount of orders the role may
	// commit spend on (create, edit, submit, send to supplier). Approval
	// amounts are governed separately by the evaluator's invariants.
	MaxOrderValue *int64

	// AllowedSupplierIDs limits the role to orders for these suppliers.
	AllowedSupplierIDs []kernel.UUID

	// AllowedStatuses limits the role to acting on orders currently in one of
	// these statuses.
	AllowedStatuses []order.Status

	// RequiresApproval marks every allowed action of the role for follow-up
	// approval. It never blocks the action itself.
	RequiresApproval bool
}

// PermissionRule is the matrix row for one role: the set of granted actions
// plus the restrictions that narrow them.
type PermissionRule struct {
	role         Role
	granted      map[order.Action]struct{}
	restrictions Restrictions
}

// NewPermissionRule creates a validated matrix row. Unknown roles and unknown
// actions are configuration errors: the matrix is loaded at startup and a
// typo must abort the boot, not silently deny forever.
func NewPermissionRule(role Role, granted []order.Action, restrictions Restrictions) (PermissionRule, error) {
	if err := role.Validate(); err != nil {
		return PermissionRule{}, errs.NewConfigurationErrorWithCause("permissions", "invalid role in matrix", err)
	}
	if role == RoleSystem {
		return PermissionRule{}, errs.NewConfigurationError("permissions", "the system role is not configurable")
	}
	if len(granted) == 0 {
		return PermissionRule{}, errs.NewConfigurationError("permissions",
			fmt.Sprintf("role %s: grant set is empty", role))
	}

	grantedSet := make(map[order.Action]struct{}, len(granted))
	for _, action := range granted {
		if err := action.Validate(); err != nil {
			return PermissionRule{}, errs.NewConfigurationErrorWithCause("permissions",
				fmt.Sprintf("role %s: unknown action in grant set", role), err)
		}
		grantedSet[action] = struct{}{}
	}

	for _, status := range restrictions.AllowedStatuses {
		if err := status.Validate(); err != nil {
			return PermissionRule{}, errs.NewConfigurationErrorWithCause("permissions",
				fmt.Sprintf("role %s: unknown status in restrictions", role), err)
		}
	}
	if restrictions.MaxOrderValue != nil && *restrictions.MaxOrderValue <= 0 {
		return PermissionRule{}, errs.NewConfigurationError("permissions",
			fmt.Sprintf("role %s: max order value must be positive", role))
	}

	return PermissionRule{role: role, granted: grantedSet, restrictions: restrictions}, nil
}

// Role returns the role this row applies to.
func (r PermissionRule) Role() Role {
	return r.role
}

// Grants reports whether the action is in the role's grant set.
func (r PermissionRule) Grants(action order.Action) bool {
	_, ok := r.granted[action]
	return ok
}

// GrantedActions returns a copy of the grant set.
func (r PermissionRule) GrantedActions() []order.Action {
	actions := make([]order.Action, 0, len(r.granted))
	for action := range r.granted {
		actions = append(actions, action)
	}
	return actions
}

// Restrictions returns the role's restrictions.
func (r PermissionRule) Restrictions() Restrictions {
	return r.restrictions
}

// Matrix is the full permission configuration: one row per role. It is
// read-only after construction.
type Matrix struct {
	rows map[Role]PermissionRule
}

// NewMatrix builds a matrix from rows. Every business role must have exactly
// one row; a missing or duplicated role is a configuration error.
func NewMatrix(rows []PermissionRule) (Matrix, error) {
	byRole := make(map[Role]PermissionRule, len(rows))
	for _, row := range rows {
		if _, dup := byRole[row.role]; dup {
			return Matrix{}, errs.NewConfigurationError("permissions",
				fmt.Sprintf("role %s appears twice in the matrix", row.role))
		}
		byRole[row.role] = row
	}

	for role := range getValidRoles() {
		if role == RoleSystem {
			continue
		}
		if _, ok := byRole[role]; !ok {
			return Matrix{}, errs.NewConfigurationError("permissions",
				fmt.Sprintf("role %s has no row in the matrix", role))
		}
	}

	return Matrix{rows: byRole}, nil
}

// Row returns the matrix row for a role.
func (m Matrix) Row(role Role) (PermissionRule, error) {
	row, ok := m.rows[role]
	if !ok {
		return PermissionRule{}, errs.NewObjectNotFoundError("role", string(role))
	}
	return row, nil
}

func centsPtr(v int64) *int64 {
	return &v
}

// DefaultMatrix returns the built-in permission configuration.
//
// The rows are strictly monotonic along EMPLOYEE < MANAGER < ADMIN: every
// action the employee row grants the manager row grants too, and every
// restriction loosens going up. WAREHOUSE_STAFF and ACCOUNTING are lateral
// specialist roles outside that chain.
func DefaultMatrix() (Matrix, error) {
	admin, err := NewPermissionRule(RoleAdmin, getAllActions(), Restrictions{})
	if err != nil {
		return Matrix{}, err
	}

	managerActions := make([]order.Action, 0)
	for _, action := range getAllActions() {
		if action == order.ActionConfigureWorkflows || action == order.ActionEmergencyOverride {
			continue
		}
		managerActions = append(managerActions, action)
	}
	manager, err := NewPermissionRule(RoleManager, managerActions, Restrictions{
		MaxOrderValue: centsPtr(5_000_000), // $50,000
	})
	if err != nil {
		return Matrix{}, err
	}

	employee, err := NewPermissionRule(RoleEmployee,
		[]order.Action{
			order.ActionCreate,
			order.ActionEdit,
			order.ActionSubmit,
			order.ActionApprove,
			order.ActionViewAnalytics,
		},
		Restrictions{
			MaxOrderValue:    centsPtr(500_000), // $5,000
			AllowedStatuses:  []order.Status{order.StatusDraft, order.StatusPendingApproval},
			RequiresApproval: true,
		})
	if err != nil {
		return Matrix{}, err
	}

	warehouse, err := NewPermissionRule(RoleWarehouseStaff,
		[]order.Action{
			order.ActionConfirmReceipt,
			order.ActionCompleteReceipt,
			order.ActionViewAnalytics,
		},
		Restrictions{})
	if err != nil {
		return Matrix{}, err
	}

	accounting, err := NewPermissionRule(RoleAccounting,
		[]order.Action{
			order.ActionCreateInvoice,
			order.ActionApproveInvoice,
			order.ActionViewFinancial,
			order.ActionExportData,
			order.ActionViewAnalytics,
		},
		Restrictions{})
	if err != nil {
		return Matrix{}, err
	}

	return NewMatrix([]PermissionRule{admin, manager, employee, warehouse, accounting})
}

func getAllActions() []order.Action {
	return []order.Action{
		order.ActionCreate,
		order.ActionEdit,
		order.ActionDelete,
		order.ActionSubmit,
		order.ActionApprove,
		order.ActionReject,
		order.ActionSendToSupplier,
		order.ActionConfirmSupplier,
		order.ActionMarkOverdue,
		order.ActionConfirmReceipt,
		order.ActionCompleteReceipt,
		order.ActionCreateInvoice,
		order.ActionApproveInvoice,
		order.ActionCancel,
		order.ActionViewFinancial,
		order.ActionManageSuppliers,
		order.ActionConfigureWorkflows,
		order.ActionViewAnalytics,
		order.ActionExportData,
		order.ActionEmergencyOverride,
	}
}
